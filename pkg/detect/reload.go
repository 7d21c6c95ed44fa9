package detect

import (
	"fmt"
	"path/filepath"

	"relayout/internal/watcher"
)

// reloader watches the model directory and swaps models in place.
type reloader struct {
	w    *watcher.Watcher
	done chan struct{}
}

// EnableAutoReload starts watching the engine's model directory. Model files
// written or replaced there are re-parsed once their contents settle and hot
// swapped into the engine. settleSec is the quiet period before a changed
// file is reloaded.
func (e *Engine) EnableAutoReload(settleSec int) error {
	if e.modelDir == "" {
		return fmt.Errorf("auto-reload requires a model directory")
	}
	if e.reload != nil {
		return fmt.Errorf("auto-reload already enabled")
	}

	w, err := watcher.New([]string{e.modelDir}, settleSec)
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	if err := w.Start(); err != nil {
		return fmt.Errorf("start watcher: %w", err)
	}

	r := &reloader{w: w, done: make(chan struct{})}
	e.reload = r

	go e.reloadLoop(r)
	return nil
}

func (e *Engine) reloadLoop(r *reloader) {
	defer close(r.done)

	for {
		select {
		case ev, ok := <-r.w.Events():
			if !ok {
				return
			}
			if filepath.Ext(ev.Path) != ".json" {
				continue
			}
			if err := e.loadModelFile(ev.Path); err != nil {
				e.logger.Warn("model reload failed", "path", ev.Path, "error", err)
				continue
			}
			e.logger.Info("model reloaded", "path", ev.Path, "size", ev.Size)

		case err, ok := <-r.w.Errors():
			if !ok {
				return
			}
			e.logger.Warn("watcher error", "error", err)
		}
	}
}

func (r *reloader) stop() error {
	err := r.w.Stop()
	<-r.done
	return err
}

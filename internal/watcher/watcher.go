// Package watcher monitors model and layout artifacts on disk and reports
// changed files once their contents have settled, so a running detector can
// reload without restarting.
package watcher

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"relayout/internal/registry"
)

// Event reports an artifact file whose contents changed and then settled.
type Event struct {
	Path      string
	Checksum  [registry.ChecksumSize]byte
	Size      int64
	Timestamp time.Time
}

// Watcher monitors artifact files and directories for changes.
type Watcher struct {
	fsWatcher *fsnotify.Watcher
	paths     []string
	settle    time.Duration

	// State tracking: path -> last modification time
	state   map[string]time.Time
	stateMu sync.RWMutex

	events chan Event
	errors chan error

	done chan struct{}
	wg   sync.WaitGroup
}

// New creates a watcher over the given paths. Files are reported once no
// further writes arrive for settleSec seconds.
func New(paths []string, settleSec int) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		fsWatcher: fsWatcher,
		paths:     paths,
		settle:    time.Duration(settleSec) * time.Second,
		state:     make(map[string]time.Time),
		events:    make(chan Event, 64),
		errors:    make(chan error, 8),
		done:      make(chan struct{}),
	}

	return w, nil
}

// Events returns the channel of settled artifact events.
func (w *Watcher) Events() <-chan Event {
	return w.events
}

// Errors returns the channel of errors.
func (w *Watcher) Errors() <-chan error {
	return w.errors
}

// Start begins watching all configured paths.
func (w *Watcher) Start() error {
	for _, path := range w.paths {
		absPath, err := filepath.Abs(path)
		if err != nil {
			return err
		}

		info, err := os.Stat(absPath)
		if err != nil {
			return err
		}

		if info.IsDir() {
			if err := w.fsWatcher.Add(absPath); err != nil {
				return err
			}
			continue
		}

		// Single files are watched through their parent directory, since
		// editors and atomic writers replace the inode on save.
		dir := filepath.Dir(absPath)
		if err := w.fsWatcher.Add(dir); err != nil {
			return err
		}
	}

	w.wg.Add(2)
	go w.eventLoop()
	go w.settleLoop()

	return nil
}

// Stop gracefully shuts down the watcher.
func (w *Watcher) Stop() error {
	close(w.done)
	w.wg.Wait()
	close(w.events)
	close(w.errors)
	return w.fsWatcher.Close()
}

// isArtifact reports whether a path looks like a reloadable artifact.
func isArtifact(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".tsv":
		return true
	}
	return false
}

// eventLoop handles fsnotify events.
func (w *Watcher) eventLoop() {
	defer w.wg.Done()

	for {
		select {
		case <-w.done:
			return

		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}

			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if !isArtifact(event.Name) {
				continue
			}

			info, err := os.Stat(event.Name)
			if err != nil || info.IsDir() {
				continue
			}

			w.stateMu.Lock()
			w.state[event.Name] = time.Now()
			w.stateMu.Unlock()

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			select {
			case w.errors <- err:
			default:
			}
		}
	}
}

// settleLoop periodically promotes files that stopped changing.
func (w *Watcher) settleLoop() {
	defer w.wg.Done()

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-w.done:
			return

		case now := <-ticker.C:
			w.checkSettledFiles(now)
		}
	}
}

// settledFile represents a file ready for checksumming.
type settledFile struct {
	path    string
	lastMod time.Time
}

// checkSettledFiles finds files that have not changed for the settle window.
// The lock is released during file I/O so eventLoop never blocks on hashing.
func (w *Watcher) checkSettledFiles(now time.Time) {
	threshold := now.Add(-w.settle)

	var settled []settledFile
	w.stateMu.RLock()
	for path, lastMod := range w.state {
		if lastMod.Before(threshold) {
			settled = append(settled, settledFile{path: path, lastMod: lastMod})
		}
	}
	w.stateMu.RUnlock()

	if len(settled) == 0 {
		return
	}

	type sumResult struct {
		path    string
		lastMod time.Time
		sum     [registry.ChecksumSize]byte
		size    int64
		err     error
	}
	results := make([]sumResult, len(settled))

	for i, sf := range settled {
		sum, size, err := registry.ChecksumFile(sf.path)
		results[i] = sumResult{
			path:    sf.path,
			lastMod: sf.lastMod,
			sum:     sum,
			size:    size,
			err:     err,
		}
	}

	w.stateMu.Lock()
	defer w.stateMu.Unlock()

	for _, r := range results {
		if r.err != nil {
			select {
			case w.errors <- r.err:
			default:
			}
			continue
		}

		currentLastMod, exists := w.state[r.path]
		if !exists {
			continue
		}
		if currentLastMod != r.lastMod {
			// Modified while hashing, let it settle again.
			continue
		}

		event := Event{
			Path:      r.path,
			Checksum:  r.sum,
			Size:      r.size,
			Timestamp: now,
		}

		select {
		case w.events <- event:
			delete(w.state, r.path)
		default:
			// Channel full, retry on the next tick.
		}
	}
}

// WatchedPaths returns the list of paths being watched.
func (w *Watcher) WatchedPaths() []string {
	return w.paths
}

// PendingFiles returns the number of files waiting to settle.
func (w *Watcher) PendingFiles() int {
	w.stateMu.RLock()
	defer w.stateMu.RUnlock()
	return len(w.state)
}

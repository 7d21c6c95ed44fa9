// Package detect is the public API for reconstructing text typed in the
// wrong keyboard layout. An Engine holds a layout set and per-language
// trigram models, converts text between layouts, scores reconstructions,
// and ranks the candidate (intended language, typed layout) readings of an
// input string.
package detect

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"relayout/internal/alphabet"
	"relayout/internal/layout"
	"relayout/internal/trigram"
)

// ModelFileName returns the conventional file name for a language's trigram
// model inside a model directory.
func ModelFileName(lang alphabet.Language) string {
	return fmt.Sprintf("trigram_%s.json", lang)
}

// Options configures an Engine.
type Options struct {
	// LayoutsPath overrides the built-in layout definitions.
	LayoutsPath string

	// ModelDir is the directory holding trigram model files. Required
	// unless models are supplied through LoadModel.
	ModelDir string

	// Logger receives load and reload diagnostics. Defaults to slog.Default.
	Logger *slog.Logger
}

// Engine converts, scores, and detects wrong-layout text.
type Engine struct {
	layouts   *layout.Set
	converter *layout.Converter
	modelDir  string
	logger    *slog.Logger

	mu     sync.RWMutex
	models map[alphabet.Language]*trigram.Model

	reload *reloader
}

// New creates an Engine and loads any models present in opts.ModelDir.
// A missing model directory is not an error; the engine starts empty and
// models can arrive later through LoadModel or auto-reload.
func New(opts Options) (*Engine, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	var set *layout.Set
	var err error
	if opts.LayoutsPath != "" {
		set, err = layout.LoadSet(opts.LayoutsPath)
		if err != nil {
			return nil, fmt.Errorf("load layouts: %w", err)
		}
	} else {
		set = layout.BuiltinSet()
	}

	e := &Engine{
		layouts:   set,
		converter: layout.NewConverter(set),
		modelDir:  opts.ModelDir,
		logger:    logger,
		models:    make(map[alphabet.Language]*trigram.Model),
	}

	if opts.ModelDir != "" {
		if err := e.loadModelDir(opts.ModelDir); err != nil {
			return nil, err
		}
	}

	return e, nil
}

// loadModelDir loads every recognized model file under dir.
func (e *Engine) loadModelDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			e.logger.Warn("model directory missing, starting without models", "dir", dir)
			return nil
		}
		return fmt.Errorf("read model directory: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if err := e.loadModelFile(path); err != nil {
			e.logger.Warn("skipping model file", "path", path, "error", err)
		}
	}
	return nil
}

// loadModelFile parses and installs a single model file.
func (e *Engine) loadModelFile(path string) error {
	model, warnings, err := trigram.Load(path)
	if err != nil {
		return err
	}
	for _, warn := range warnings {
		e.logger.Warn("model warning", "path", path, "detail", warn)
	}
	e.LoadModel(model)
	e.logger.Info("model loaded",
		"lang", model.Lang,
		"trigrams", model.UniqueTrigrams,
		"path", path)
	return nil
}

// LoadModel installs or replaces the model for its language.
func (e *Engine) LoadModel(m *trigram.Model) {
	lang, err := alphabet.Parse(string(m.Lang))
	if err != nil {
		return
	}
	e.mu.Lock()
	e.models[lang] = m
	e.mu.Unlock()
}

// Model returns the installed model for a language, or nil.
func (e *Engine) Model(lang alphabet.Language) *trigram.Model {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.models[lang]
}

// Languages returns the languages that currently have a model, sorted.
func (e *Engine) Languages() []alphabet.Language {
	e.mu.RLock()
	langs := make([]alphabet.Language, 0, len(e.models))
	for lang := range e.models {
		langs = append(langs, lang)
	}
	e.mu.RUnlock()

	sort.Slice(langs, func(i, j int) bool { return langs[i] < langs[j] })
	return langs
}

// Layouts exposes the engine's layout set.
func (e *Engine) Layouts() *layout.Set {
	return e.layouts
}

// Convert remaps text from one layout to another. Characters without a
// mapping pass through unchanged.
func (e *Engine) Convert(text, fromLayout, toLayout string) (string, error) {
	m, err := e.converter.BuildPair(fromLayout, toLayout)
	if err != nil {
		return "", err
	}
	return layout.Remap(text, m), nil
}

// Score returns the mean trigram log-probability of text under the model
// for lang. ok is false when the text yields no trigrams in lang's alphabet.
func (e *Engine) Score(text string, lang alphabet.Language) (float64, bool, error) {
	m := e.Model(lang)
	if m == nil {
		return 0, false, fmt.Errorf("no model loaded for language %q", lang)
	}
	score, ok := m.Score(text)
	return score, ok, nil
}

// Close releases resources held by auto-reload, if enabled.
func (e *Engine) Close() error {
	if e.reload != nil {
		return e.reload.stop()
	}
	return nil
}

// relayout-dataset generates labeled synthetic training data: short phrases
// in each supported language, both typed correctly and remapped through a
// wrong keyboard layout, written as a two column CSV of text and class label.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"relayout/internal/alphabet"
	"relayout/internal/config"
	"relayout/internal/dataset"
	"relayout/internal/layout"
	"relayout/internal/logging"
	"relayout/internal/registry"
	"relayout/internal/unigram"
)

var (
	configPath  = flag.String("config", "", "path to config file")
	layoutsPath = flag.String("layouts", "", "path to layout definitions (default: built in)")
	count       = flag.Int("n", 0, "number of rows to generate (default from config)")
	outPath     = flag.String("out", "-", "output CSV path, or - for stdout")
	balance     = flag.Float64("balance", -1, "share of pure-class rows in [0,1]")
	maxWords    = flag.Int("max-words", 0, "words per row upper bound")
	seed        = flag.Int64("seed", 0, "random seed (default from config)")
	focus       = flag.String("focus", "", "restrict to classes touching one layout variant")
	lexiconPath = flag.String("lexicons", "", "YAML file overriding the built-in seed lexicons")
	fromWords   = flag.Bool("from-words", false, "seed lexicons from registered word lists")
	noRegister  = flag.Bool("no-register", false, "skip recording the dataset in the registry")
)

func main() {
	flag.Parse()

	cfg := loadConfig()
	logger := newLogger(cfg)

	lex, err := buildLexicons(cfg, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	var set *layout.Set
	if cfg.Layouts.Path != "" {
		set, err = layout.LoadSet(cfg.Layouts.Path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading layouts: %v\n", err)
			os.Exit(1)
		}
	} else {
		set = layout.BuiltinSet()
	}

	gen, err := dataset.NewGenerator(layout.NewConverter(set), lex, dataset.Config{
		Balance:  cfg.Dataset.Balance,
		MaxWords: cfg.Dataset.MaxWords,
		Seed:     cfg.Dataset.Seed,
		Focus:    cfg.Dataset.Focus,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	samples := gen.Generate(cfg.Dataset.Count)
	valid, invalid := dataset.FilterValid(samples)
	if invalid > 0 {
		logger.Warn("dropped invalid rows", "count", invalid)
	}

	var file *os.File
	out := os.Stdout
	if *outPath != "-" {
		if err := os.MkdirAll(filepath.Dir(*outPath), 0755); err != nil {
			fmt.Fprintf(os.Stderr, "Error creating output directory: %v\n", err)
			os.Exit(1)
		}
		file, err = os.Create(*outPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error creating output: %v\n", err)
			os.Exit(1)
		}
		out = file
	}

	if err := dataset.WriteCSV(out, valid); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing CSV: %v\n", err)
		os.Exit(1)
	}

	// Close before registering so a failed flush never leaves a truncated
	// file recorded as a valid artifact.
	if file != nil {
		if err := file.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "Error closing output: %v\n", err)
			os.Exit(1)
		}
	}

	logger.Info("dataset written",
		"rows", len(valid),
		"invalid_dropped", invalid,
		"classes", len(gen.Classes()),
		"seed", cfg.Dataset.Seed)

	if *outPath != "-" && !*noRegister {
		if err := register(cfg, *outPath, int64(len(valid))); err != nil {
			fmt.Fprintf(os.Stderr, "Error registering dataset: %v\n", err)
			os.Exit(1)
		}
	}
}

func loadConfig() *config.Config {
	path := *configPath
	if path == "" {
		path = config.ConfigPath()
	}
	cfg, err := config.Load(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	if *layoutsPath != "" {
		cfg.Layouts.Path = *layoutsPath
	}
	if *count > 0 {
		cfg.Dataset.Count = *count
	}
	if *balance >= 0 {
		cfg.Dataset.Balance = *balance
	}
	if *maxWords > 0 {
		cfg.Dataset.MaxWords = *maxWords
	}
	if *seed != 0 {
		cfg.Dataset.Seed = *seed
	}
	if *focus != "" {
		cfg.Dataset.Focus = *focus
	}
	if *lexiconPath != "" {
		cfg.Dataset.LexiconPath = *lexiconPath
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid config: %v\n", err)
		os.Exit(1)
	}
	return cfg
}

func newLogger(cfg *config.Config) *logging.Logger {
	lcfg, err := cfg.LoggerConfig("relayout-dataset")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.New(lcfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error configuring logging: %v\n", err)
		os.Exit(1)
	}
	return logger
}

// buildLexicons resolves the seed lexicons in priority order: explicit YAML
// file, registered word lists, corpus directory, then the built-in seeds.
func buildLexicons(cfg *config.Config, logger *logging.Logger) (dataset.Lexicons, error) {
	if cfg.Dataset.LexiconPath != "" {
		return dataset.LoadLexicons(cfg.Dataset.LexiconPath)
	}

	lex := dataset.BuiltinLexicons()

	if *fromWords {
		reg, err := registry.Open(cfg.Registry.Path)
		if err != nil {
			return nil, fmt.Errorf("open registry: %w", err)
		}
		defer reg.Close()

		for _, lang := range alphabet.All() {
			a, err := reg.Latest(registry.KindWordList, string(lang))
			if err != nil {
				return nil, err
			}
			if a == nil {
				logger.Warn("no word list registered, keeping built-in seeds", "lang", lang)
				continue
			}
			list, err := unigram.LoadList(a.Path, lang)
			if err != nil {
				return nil, fmt.Errorf("load %s word list: %w", lang, err)
			}
			if err := lex.OverrideFromWordList(list); err != nil {
				return nil, err
			}
			logger.Info("lexicon from word list", "lang", lang, "words", len(list.Entries))
		}
		return lex, nil
	}

	if cfg.Dataset.CorpusDir != "" {
		for _, lang := range alphabet.All() {
			path := filepath.Join(cfg.Dataset.CorpusDir, string(lang)+".txt")
			if _, err := os.Stat(path); err != nil {
				continue
			}
			if err := lex.OverrideFromCorpus(lang, path); err != nil {
				return nil, fmt.Errorf("lexicon from corpus %s: %w", path, err)
			}
			logger.Info("lexicon from corpus", "lang", lang, "path", path)
		}
	}

	return lex, nil
}

func register(cfg *config.Config, path string, rows int64) error {
	reg, err := registry.Open(cfg.Registry.Path)
	if err != nil {
		return err
	}
	defer reg.Close()

	_, err = reg.Record(&registry.Artifact{
		Kind:      registry.KindDataset,
		Lang:      "multi",
		Version:   1,
		Path:      path,
		ItemCount: rows,
	})
	return err
}

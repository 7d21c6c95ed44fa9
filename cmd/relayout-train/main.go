// relayout-train builds trigram language models and unigram word lists from
// text corpora and records the resulting artifacts in the local registry.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"relayout/internal/alphabet"
	"relayout/internal/config"
	"relayout/internal/logging"
	"relayout/internal/registry"
	"relayout/internal/trigram"
	"relayout/internal/unigram"
	"relayout/pkg/detect"
)

var (
	configPath = flag.String("config", "", "path to config file")
	langFlag   = flag.String("lang", "", "train a single language (en, ru, he)")
	corpusPath = flag.String("corpus", "", "corpus file for -lang (default: <corpus_dir>/<lang>.txt)")
	corpusDir  = flag.String("corpus-dir", "", "corpus directory for batch training")
	outDir     = flag.String("out", "", "output directory for model files")
	smoothingK = flag.Float64("k", 0, "additive smoothing constant (default from config)")
	words      = flag.Bool("words", false, "also train a unigram word list")
	noRegister = flag.Bool("no-register", false, "skip recording artifacts in the registry")
	parallel   = flag.Int("parallel", 0, "parallel batch workers (default from config)")
)

func main() {
	flag.Parse()

	cfg := loadConfig()
	logger := newLogger(cfg)

	if *langFlag != "" {
		lang, err := alphabet.Parse(*langFlag)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		path := *corpusPath
		if path == "" {
			path = corpusFile(cfg, lang)
		}
		if err := trainLanguage(cfg, logger, lang, path); err != nil {
			fmt.Fprintf(os.Stderr, "Training failed: %v\n", err)
			os.Exit(1)
		}
		return
	}

	// Batch mode: train every language with a corpus file present.
	if err := trainAll(cfg, logger); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
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
	if *corpusDir != "" {
		cfg.Training.CorpusDir = *corpusDir
	}
	if *outDir != "" {
		cfg.Training.ModelDir = *outDir
	}
	if *smoothingK > 0 {
		cfg.Training.SmoothingK = *smoothingK
	}
	if *parallel > 0 {
		cfg.Training.Parallelism = *parallel
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid config: %v\n", err)
		os.Exit(1)
	}
	return cfg
}

func newLogger(cfg *config.Config) *logging.Logger {
	lcfg, err := cfg.LoggerConfig("relayout-train")
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

func corpusFile(cfg *config.Config, lang alphabet.Language) string {
	return filepath.Join(cfg.Training.CorpusDir, string(lang)+".txt")
}

func trainerConfig(cfg *config.Config) trigram.TrainerConfig {
	return trigram.TrainerConfig{
		SmoothingK:    cfg.Training.SmoothingK,
		PruneMaxVocab: cfg.Training.PruneMaxVocab,
		PruneKeep:     cfg.Training.PruneKeep,
		ProgressEvery: cfg.Training.ProgressEvery,
	}
}

// trainLanguage trains the trigram model (and optionally the word list) for
// one language and records the artifacts.
func trainLanguage(cfg *config.Config, logger *logging.Logger, lang alphabet.Language, corpus string) error {
	log := logger.With("lang", lang)

	model, err := trigram.Train(corpus, lang, trainerConfig(cfg), log)
	if err != nil {
		return fmt.Errorf("train %s trigrams: %w", lang, err)
	}

	if err := os.MkdirAll(cfg.Training.ModelDir, 0755); err != nil {
		return fmt.Errorf("create model directory: %w", err)
	}

	modelPath := filepath.Join(cfg.Training.ModelDir, detect.ModelFileName(lang))
	if err := model.Save(modelPath); err != nil {
		return fmt.Errorf("save %s model: %w", lang, err)
	}
	log.Info("model saved",
		"path", modelPath,
		"trigrams", model.UniqueTrigrams,
		"total", model.TotalCount)

	var list *unigram.List
	var listPath string
	if *words {
		wcfg := unigram.TrainerConfig{
			TopN:          cfg.Training.WordListTopN,
			MinLen:        cfg.Training.WordMinLen,
			PruneMaxVocab: cfg.Training.PruneMaxVocab,
			PruneKeep:     cfg.Training.PruneKeep,
			ProgressEvery: cfg.Training.ProgressEvery,
		}
		list, err = unigram.Train(corpus, lang, wcfg, log)
		if err != nil {
			return fmt.Errorf("train %s word list: %w", lang, err)
		}
		listPath = filepath.Join(cfg.Training.ModelDir, fmt.Sprintf("words_%s.tsv", lang))
		if err := list.Save(listPath); err != nil {
			return fmt.Errorf("save %s word list: %w", lang, err)
		}
		log.Info("word list saved", "path", listPath, "words", len(list.Entries))
	}

	if *noRegister {
		return nil
	}

	reg, err := registry.Open(cfg.Registry.Path)
	if err != nil {
		return fmt.Errorf("open registry: %w", err)
	}
	defer reg.Close()

	if _, err := reg.Record(&registry.Artifact{
		Kind:      registry.KindTrigramModel,
		Lang:      string(lang),
		Version:   model.Version,
		Path:      modelPath,
		ItemCount: int64(model.UniqueTrigrams),
	}); err != nil {
		return fmt.Errorf("register %s model: %w", lang, err)
	}

	if list != nil {
		if _, err := reg.Record(&registry.Artifact{
			Kind:      registry.KindWordList,
			Lang:      string(lang),
			Version:   1,
			Path:      listPath,
			ItemCount: int64(len(list.Entries)),
		}); err != nil {
			return fmt.Errorf("register %s word list: %w", lang, err)
		}
	}

	return nil
}

// trainAll trains every language whose corpus file exists, in parallel. A
// failure in one language does not abort the others.
func trainAll(cfg *config.Config, logger *logging.Logger) error {
	type job struct {
		lang   alphabet.Language
		corpus string
	}

	var jobs []job
	for _, lang := range alphabet.All() {
		path := corpusFile(cfg, lang)
		if _, err := os.Stat(path); err != nil {
			logger.Warn("skipping language, corpus not found", "lang", lang, "path", path)
			continue
		}
		jobs = append(jobs, job{lang: lang, corpus: path})
	}
	if len(jobs) == 0 {
		return fmt.Errorf("no corpus files found in %s", cfg.Training.CorpusDir)
	}

	limit := cfg.Training.Parallelism
	if limit <= 0 {
		limit = len(jobs)
	}

	var g errgroup.Group
	g.SetLimit(limit)

	errs := make([]error, len(jobs))
	for i, j := range jobs {
		i, j := i, j
		g.Go(func() error {
			if err := trainLanguage(cfg, logger, j.lang, j.corpus); err != nil {
				logger.Error("training failed", "lang", j.lang, "error", err)
				errs[i] = err
			}
			return nil
		})
	}
	g.Wait()

	failed := 0
	for _, err := range errs {
		if err != nil {
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("training failed for %d of %d languages", failed, len(jobs))
	}

	logger.Info("batch training complete", "languages", len(jobs))
	return nil
}

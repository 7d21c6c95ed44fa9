// Package config handles configuration loading, validation, and management
// for relayout.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Version is the current configuration schema version.
const Version = 1

// Config holds the complete relayout configuration.
type Config struct {
	// Version is the configuration schema version.
	Version int `toml:"version" json:"version" yaml:"version"`

	// Layouts configuration for the keyboard layout source.
	Layouts LayoutsConfig `toml:"layouts" json:"layouts" yaml:"layouts"`

	// Training configuration for the trigram and unigram trainers.
	Training TrainingConfig `toml:"training" json:"training" yaml:"training"`

	// Dataset configuration for synthetic dataset generation.
	Dataset DatasetConfig `toml:"dataset" json:"dataset" yaml:"dataset"`

	// Registry configuration for the trained-artifact registry.
	Registry RegistryConfig `toml:"registry" json:"registry" yaml:"registry"`

	// Logging configuration.
	Logging LoggingConfig `toml:"logging" json:"logging" yaml:"logging"`
}

// LayoutsConfig holds keyboard layout source configuration.
type LayoutsConfig struct {
	// Path is the layout source JSON file. Empty means the layout set
	// compiled into the binary.
	Path string `toml:"path" json:"path" yaml:"path"`
}

// TrainingConfig holds trainer configuration.
type TrainingConfig struct {
	// CorpusDir is the directory holding per-language corpora named
	// <lang>.txt, one phrase per line.
	CorpusDir string `toml:"corpus_dir" json:"corpus_dir" yaml:"corpus_dir"`

	// ModelDir is where trained model artifacts are written.
	ModelDir string `toml:"model_dir" json:"model_dir" yaml:"model_dir"`

	// SmoothingK is the add-k smoothing constant.
	SmoothingK float64 `toml:"smoothing_k" json:"smoothing_k" yaml:"smoothing_k"`

	// PruneMaxVocab triggers vocabulary pruning when distinct trigrams or
	// words exceed it; PruneKeep is how many survive a prune. Zero disables
	// pruning.
	PruneMaxVocab int `toml:"prune_max_vocab" json:"prune_max_vocab" yaml:"prune_max_vocab"`
	PruneKeep     int `toml:"prune_keep" json:"prune_keep" yaml:"prune_keep"`

	// ProgressEvery emits a progress log every that many corpus lines.
	ProgressEvery int64 `toml:"progress_every" json:"progress_every" yaml:"progress_every"`

	// Parallelism bounds concurrent per-language training in batch runs.
	// Zero means one worker per language.
	Parallelism int `toml:"parallelism" json:"parallelism" yaml:"parallelism"`

	// WordListTopN is how many words unigram lists keep.
	WordListTopN int `toml:"word_list_top_n" json:"word_list_top_n" yaml:"word_list_top_n"`

	// WordMinLen drops unigram tokens shorter than this many characters.
	WordMinLen int `toml:"word_min_len" json:"word_min_len" yaml:"word_min_len"`
}

// DatasetConfig holds synthetic dataset generation configuration.
type DatasetConfig struct {
	// Count is the number of rows to generate.
	Count int `toml:"count" json:"count" yaml:"count"`

	// Balance is the share of pure-class samples, in [0,1].
	Balance float64 `toml:"balance" json:"balance" yaml:"balance"`

	// MaxWords is the upper bound of words drawn per sample.
	MaxWords int `toml:"max_words" json:"max_words" yaml:"max_words"`

	// Seed fixes the random source for reproducible generation.
	Seed int64 `toml:"seed" json:"seed" yaml:"seed"`

	// Focus restricts generation to classes touching one layout variant id.
	Focus string `toml:"focus" json:"focus" yaml:"focus"`

	// LexiconPath is an optional YAML file of per-language seed word lists.
	LexiconPath string `toml:"lexicon_path" json:"lexicon_path" yaml:"lexicon_path"`

	// CorpusDir optionally overrides seed lexicons with real corpora named
	// <lang>.txt.
	CorpusDir string `toml:"corpus_dir" json:"corpus_dir" yaml:"corpus_dir"`
}

// RegistryConfig holds artifact registry configuration.
type RegistryConfig struct {
	// Path is the SQLite registry database file.
	Path string `toml:"path" json:"path" yaml:"path"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	// Level is the log level: "debug", "info", "warn", "error".
	Level string `toml:"level" json:"level" yaml:"level"`

	// Format is the log format: "text" or "json".
	Format string `toml:"format" json:"format" yaml:"format"`

	// Output is the log output: "stdout", "stderr", "file", or "both".
	Output string `toml:"output" json:"output" yaml:"output"`

	// FilePath is the path to the log file (when Output includes "file").
	FilePath string `toml:"file_path" json:"file_path" yaml:"file_path"`

	// MaxSizeMB is the maximum log file size before rotation.
	MaxSizeMB int `toml:"max_size_mb" json:"max_size_mb" yaml:"max_size_mb"`

	// MaxBackups is the number of old log files to keep.
	MaxBackups int `toml:"max_backups" json:"max_backups" yaml:"max_backups"`

	// MaxAgeDays is the maximum age of log files in days.
	MaxAgeDays int `toml:"max_age_days" json:"max_age_days" yaml:"max_age_days"`

	// Compress determines whether to compress rotated logs.
	Compress bool `toml:"compress" json:"compress" yaml:"compress"`
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	dir := RelayoutDir()

	return &Config{
		Version: Version,
		Layouts: LayoutsConfig{
			Path: "", // builtin layout set
		},
		Training: TrainingConfig{
			CorpusDir:     filepath.Join(dir, "corpora"),
			ModelDir:      filepath.Join(dir, "models"),
			SmoothingK:    1.0,
			PruneMaxVocab: 1_500_000,
			PruneKeep:     600_000,
			ProgressEvery: 100_000,
			Parallelism:   0,
			WordListTopN:  200_000,
			WordMinLen:    2,
		},
		Dataset: DatasetConfig{
			Count:    10_000,
			Balance:  0.5,
			MaxWords: 2,
			Seed:     1,
		},
		Registry: RegistryConfig{
			Path: filepath.Join(dir, "registry.db"),
		},
		Logging: LoggingConfig{
			Level:      "info",
			Format:     "text",
			Output:     "stderr",
			FilePath:   filepath.Join(dir, "relayout.log"),
			MaxSizeMB:  100,
			MaxBackups: 5,
			MaxAgeDays: 30,
			Compress:   true,
		},
	}
}

// ConfigPath returns the default configuration file path.
func ConfigPath() string {
	return filepath.Join(RelayoutDir(), "config.toml")
}

// Load reads configuration from the specified path. If the file doesn't
// exist, returns default configuration. Supports TOML, JSON, and YAML
// formats based on file extension.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path == "" {
		path = ConfigPath()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config file: %w", err)
	}

	switch filepath.Ext(path) {
	case ".toml":
		if _, err := toml.Decode(string(data), cfg); err != nil {
			return nil, fmt.Errorf("decode TOML: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("decode JSON: %w", err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("decode YAML: %w", err)
		}
	default:
		// Try TOML by default
		if _, err := toml.Decode(string(data), cfg); err != nil {
			return nil, fmt.Errorf("decode config (unknown format): %w", err)
		}
	}

	cfg.ApplyEnvOverrides()

	return cfg, nil
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	return ValidateConfig(c)
}

// EnsureDirectories creates all directories the tools write into.
func (c *Config) EnsureDirectories() error {
	dirs := []string{
		c.Training.ModelDir,
		filepath.Dir(c.Registry.Path),
		filepath.Dir(c.Logging.FilePath),
	}

	for _, dir := range dirs {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0700); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}

	return nil
}

// RelayoutDir returns the base relayout data directory. Uses
// platform-specific paths or the RELAYOUT_DATA_DIR environment override.
func RelayoutDir() string {
	if envDir := os.Getenv("RELAYOUT_DATA_DIR"); envDir != "" {
		return envDir
	}
	return PlatformDataDir()
}

// ApplyEnvOverrides applies environment variable overrides to the
// configuration. Environment variables are prefixed with RELAYOUT_.
func (c *Config) ApplyEnvOverrides() {
	if v := os.Getenv("RELAYOUT_LAYOUTS_PATH"); v != "" {
		c.Layouts.Path = v
	}
	if v := os.Getenv("RELAYOUT_CORPUS_DIR"); v != "" {
		c.Training.CorpusDir = v
	}
	if v := os.Getenv("RELAYOUT_MODEL_DIR"); v != "" {
		c.Training.ModelDir = v
	}
	if v := os.Getenv("RELAYOUT_REGISTRY_PATH"); v != "" {
		c.Registry.Path = v
	}
	if v := os.Getenv("RELAYOUT_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("RELAYOUT_LOG_PATH"); v != "" {
		c.Logging.FilePath = v
	}
	if v := os.Getenv("RELAYOUT_DATASET_SEED"); v != "" {
		if seed, err := strconv.ParseInt(v, 10, 64); err == nil {
			c.Dataset.Seed = seed
		}
	}
}

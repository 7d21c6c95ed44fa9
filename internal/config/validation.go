package config

import (
	"fmt"
	"strings"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("config: %s: %s", e.Field, e.Message)
}

// ValidationErrors is a collection of validation errors.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	var msgs []string
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

// ValidateConfig performs comprehensive validation of the configuration.
func ValidateConfig(c *Config) error {
	var errs ValidationErrors

	if c.Version < 1 || c.Version > Version {
		errs = append(errs, ValidationError{
			Field:   "version",
			Message: fmt.Sprintf("unsupported version %d (current: %d)", c.Version, Version),
		})
	}

	errs = append(errs, validateTraining(&c.Training)...)
	errs = append(errs, validateDataset(&c.Dataset)...)
	errs = append(errs, validateLogging(&c.Logging)...)

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func validateTraining(t *TrainingConfig) ValidationErrors {
	var errs ValidationErrors

	if t.SmoothingK <= 0 {
		errs = append(errs, ValidationError{
			Field:   "training.smoothing_k",
			Message: fmt.Sprintf("must be positive, got %v", t.SmoothingK),
		})
	}
	if t.PruneMaxVocab < 0 || t.PruneKeep < 0 {
		errs = append(errs, ValidationError{
			Field:   "training.prune_max_vocab",
			Message: "prune bounds must not be negative",
		})
	}
	if t.PruneMaxVocab > 0 && t.PruneKeep >= t.PruneMaxVocab {
		errs = append(errs, ValidationError{
			Field:   "training.prune_keep",
			Message: fmt.Sprintf("must be below prune_max_vocab %d, got %d", t.PruneMaxVocab, t.PruneKeep),
		})
	}
	if t.Parallelism < 0 {
		errs = append(errs, ValidationError{
			Field:   "training.parallelism",
			Message: "must not be negative",
		})
	}
	if t.WordMinLen < 1 {
		errs = append(errs, ValidationError{
			Field:   "training.word_min_len",
			Message: fmt.Sprintf("must be at least 1, got %d", t.WordMinLen),
		})
	}
	return errs
}

func validateDataset(d *DatasetConfig) ValidationErrors {
	var errs ValidationErrors

	if d.Count < 1 {
		errs = append(errs, ValidationError{
			Field:   "dataset.count",
			Message: fmt.Sprintf("must be at least 1, got %d", d.Count),
		})
	}
	if d.Balance < 0 || d.Balance > 1 {
		errs = append(errs, ValidationError{
			Field:   "dataset.balance",
			Message: fmt.Sprintf("must be within [0,1], got %v", d.Balance),
		})
	}
	if d.MaxWords < 1 {
		errs = append(errs, ValidationError{
			Field:   "dataset.max_words",
			Message: fmt.Sprintf("must be at least 1, got %d", d.MaxWords),
		})
	}
	return errs
}

func validateLogging(l *LoggingConfig) ValidationErrors {
	var errs ValidationErrors

	switch l.Level {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		errs = append(errs, ValidationError{
			Field:   "logging.level",
			Message: fmt.Sprintf("unknown level %q", l.Level),
		})
	}
	switch l.Format {
	case "", "text", "json":
	default:
		errs = append(errs, ValidationError{
			Field:   "logging.format",
			Message: fmt.Sprintf("unknown format %q", l.Format),
		})
	}
	switch l.Output {
	case "", "stdout", "stderr", "file", "both":
	default:
		errs = append(errs, ValidationError{
			Field:   "logging.output",
			Message: fmt.Sprintf("unknown output %q", l.Output),
		})
	}
	if (l.Output == "file" || l.Output == "both") && l.FilePath == "" {
		errs = append(errs, ValidationError{
			Field:   "logging.file_path",
			Message: "required when output includes \"file\"",
		})
	}
	return errs
}

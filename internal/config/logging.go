package config

import (
	"fmt"

	"relayout/internal/logging"
)

// LoggerConfig translates the [logging] section into the logger's own
// configuration for the named component. Unset level, format, and output
// fall back to the defaults; anything unparseable is an error so a broken
// config file fails at startup instead of silently downgrading.
func (c *Config) LoggerConfig(component string) (*logging.Config, error) {
	level := logging.LevelInfo
	if c.Logging.Level != "" {
		var err error
		level, err = logging.ParseLevel(c.Logging.Level)
		if err != nil {
			return nil, fmt.Errorf("config: logging.level: %w", err)
		}
	}

	format, err := logging.ParseFormat(c.Logging.Format)
	if err != nil {
		return nil, fmt.Errorf("config: logging.format: %w", err)
	}

	output := c.Logging.Output
	if output == "" {
		output = "stderr"
	}

	return &logging.Config{
		Level:      level,
		Format:     format,
		Output:     output,
		FilePath:   c.Logging.FilePath,
		MaxSize:    int64(c.Logging.MaxSizeMB),
		MaxAge:     c.Logging.MaxAgeDays,
		MaxBackups: c.Logging.MaxBackups,
		Compress:   c.Logging.Compress,
		Component:  component,
	}, nil
}

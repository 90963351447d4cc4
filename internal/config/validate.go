package config

import (
	"fmt"
	"slices"
	"strings"
)

const maxWorkers = 256

var logLevels = []string{"debug", "info", "warn", "error"}

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically.
func (c *Config) Validate() error {
	if !slices.Contains(logLevels, strings.ToLower(strings.TrimSpace(c.Log.Level))) {
		return fmt.Errorf("log.level must be one of %s (got %q)", strings.Join(logLevels, ", "), c.Log.Level)
	}

	if c.Volpiano.Clefs == "" {
		return fmt.Errorf("volpiano.clefs must not be empty")
	}

	if err := c.Batch.validate(); err != nil {
		return fmt.Errorf("batch: %w", err)
	}

	return nil
}

func (b *BatchConfig) validate() error {
	if b.Workers < 1 || b.Workers > maxWorkers {
		return fmt.Errorf("workers must be in 1..%d (got %d)", maxWorkers, b.Workers)
	}
	b.Format = strings.ToLower(strings.TrimSpace(b.Format))
	switch b.Format {
	case "", FormatCSV, FormatJSONL:
	default:
		return fmt.Errorf("format must be %q or %q (got %q)", FormatCSV, FormatJSONL, b.Format)
	}
	if b.ChantTimeout < 0 {
		return fmt.Errorf("chant_timeout must be >= 0 (got %v)", b.ChantTimeout)
	}
	return nil
}

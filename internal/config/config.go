package config

import "time"

// Config is the root application configuration.
type Config struct {
	Log         LogConfig         `yaml:"log"`
	Syllabifier SyllabifierConfig `yaml:"syllabifier"`
	Volpiano    VolpianoConfig    `yaml:"volpiano"`
	Batch       BatchConfig       `yaml:"batch"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"json"`
}

// SyllabifierConfig selects the orthographic rules. An empty RulesPath uses
// the built-in Latin rules.
type SyllabifierConfig struct {
	RulesPath string `yaml:"rules_path" env:"SYLLABIFIER_RULES_PATH"`
}

// VolpianoConfig holds melody parsing settings.
type VolpianoConfig struct {
	Clefs string `yaml:"clefs" env:"VOLPIANO_CLEFS" env-default:"12"`
}

// BatchConfig holds settings for offline batch alignment.
type BatchConfig struct {
	Workers      int           `yaml:"workers"       env:"BATCH_WORKERS"       env-default:"4"`
	Format       string        `yaml:"format"        env:"BATCH_FORMAT"`
	MetricsPath  string        `yaml:"metrics_path"  env:"BATCH_METRICS_PATH"`
	ChantTimeout time.Duration `yaml:"chant_timeout" env:"BATCH_CHANT_TIMEOUT" env-default:"5s"`
}

// Input formats accepted by the batch pipeline. An empty format is
// detected from the input file extension.
const (
	FormatCSV   = "csv"
	FormatJSONL = "jsonl"
)

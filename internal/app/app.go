package app

import (
	"fmt"
	"log/slog"

	"github.com/DDMAL/CantusDB-sub000/internal/adapter/diaglog"
	"github.com/DDMAL/CantusDB-sub000/internal/alignment"
	"github.com/DDMAL/CantusDB-sub000/internal/config"
	"github.com/DDMAL/CantusDB-sub000/internal/syllable"
)

// App holds the wired components shared by the CLI commands.
type App struct {
	Config *config.Config
	Log    *slog.Logger
	Engine *alignment.Engine
}

// Options override configuration values from the command line. An empty
// ConfigPath falls back to CONFIG_PATH, then to config.DefaultPath.
type Options struct {
	ConfigPath string
	RulesPath  string
}

// New loads configuration, initializes the logger, and builds the engine.
// The engine has no sink of its own: callers pass one per call.
func New(opts Options) (*App, error) {
	load := config.Load
	if opts.ConfigPath != "" {
		load = func() (*config.Config, error) { return config.LoadFile(opts.ConfigPath) }
	}
	cfg, err := load()
	if err != nil {
		return nil, err
	}
	if opts.RulesPath != "" {
		cfg.Syllabifier.RulesPath = opts.RulesPath
	}

	logger := NewLogger(cfg.Log)

	syl, err := newSyllabifier(cfg.Syllabifier)
	if err != nil {
		return nil, err
	}

	logger.Debug("application initialized",
		slog.String("version", BuildVersion()),
		slog.String("log_level", cfg.Log.Level),
		slog.String("rules_path", cfg.Syllabifier.RulesPath),
		slog.String("clefs", cfg.Volpiano.Clefs),
	)

	return &App{
		Config: cfg,
		Log:    logger,
		Engine: alignment.New(
			alignment.WithSyllabifier(syl),
			alignment.WithClefs(cfg.Volpiano.Clefs),
		),
	}, nil
}

// DiagSink returns a sink that logs diagnostics through the app logger.
func (a *App) DiagSink() *diaglog.Sink {
	return diaglog.New(a.Log)
}

func newSyllabifier(cfg config.SyllabifierConfig) (*syllable.Syllabifier, error) {
	if cfg.RulesPath == "" {
		return syllable.Default(), nil
	}
	rules, err := syllable.LoadRules(cfg.RulesPath)
	if err != nil {
		return nil, fmt.Errorf("app: %w", err)
	}
	return syllable.New(rules)
}

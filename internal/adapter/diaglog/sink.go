// Package diaglog writes alignment diagnostics to a slog.Logger.
package diaglog

import (
	"context"
	"log/slog"

	"github.com/DDMAL/CantusDB-sub000/internal/diag"
	"github.com/DDMAL/CantusDB-sub000/pkg/ctxutil"
)

// Sink logs every diag.Event at warn level.
type Sink struct {
	log *slog.Logger
}

// New returns a Sink writing to logger.
func New(logger *slog.Logger) *Sink {
	return &Sink{log: logger.With("component", "diag")}
}

// WithContext returns a Sink that also tags records with the run and chant
// IDs stored in ctx.
func (s *Sink) WithContext(ctx context.Context) *Sink {
	l := s.log
	if id, ok := ctxutil.RunIDFromCtx(ctx); ok {
		l = l.With(slog.String("run_id", id.String()))
	}
	if id := ctxutil.ChantIDFromCtx(ctx); id != "" {
		l = l.With(slog.String("chant_id", id))
	}
	return &Sink{log: l}
}

func (s *Sink) Warn(e diag.Event) {
	s.log.Warn("alignment warning",
		slog.String("kind", e.Kind.String()),
		slog.String("context", e.Context),
	)
}

// Package batch aligns many chants offline: records in, one JSON result per
// record out, in input order.
package batch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/DDMAL/CantusDB-sub000/internal/adapter/diaglog"
	"github.com/DDMAL/CantusDB-sub000/internal/alignment"
	"github.com/DDMAL/CantusDB-sub000/internal/diag"
	"github.com/DDMAL/CantusDB-sub000/internal/domain"
	"github.com/DDMAL/CantusDB-sub000/pkg/ctxutil"
)

// Aligner is the engine surface the pipeline needs.
type Aligner interface {
	AlignContext(ctx context.Context, text string, preSyllabified bool, melody string, sink diag.Sink) (alignment.Alignment, error)
	SyllabizeTextContext(ctx context.Context, text string, preSyllabified bool) (string, error)
}

// Observer receives every diagnostic and the status of every chant.
type Observer interface {
	diag.Sink
	ObserveChant(status domain.AlignStatus)
}

// Config tunes a Pipeline.
type Config struct {
	Workers      int
	ChantTimeout time.Duration // 0 = no per-chant deadline
}

// Result is the outcome for one chant.
type Result struct {
	ID             string              `json:"id"`
	SyllabizedText string              `json:"syllabized_text"`
	PlainText      string              `json:"plain_text"`
	Alignment      alignment.Alignment `json:"alignment"`
	Warnings       []diag.Event        `json:"warnings"`
	Error          string              `json:"error,omitempty"`
	Status         domain.AlignStatus  `json:"status"`
}

// Stats summarizes a run.
type Stats struct {
	RunID    uuid.UUID
	Total    int
	Aligned  int
	Empty    int
	Failed   int
	Warnings int
	Duration time.Duration
}

// HasErrors reports whether any chant failed.
func (s Stats) HasErrors() bool { return s.Failed > 0 }

// Pipeline runs an Aligner over many chants with bounded concurrency.
type Pipeline struct {
	log      *slog.Logger
	aligner  Aligner
	observer Observer
	diagLog  *diaglog.Sink
	cfg      Config
}

// NewPipeline creates a Pipeline. observer may be nil.
func NewPipeline(log *slog.Logger, aligner Aligner, observer Observer, cfg Config) *Pipeline {
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	log = log.With("service", "batch")
	return &Pipeline{
		log:      log,
		aligner:  aligner,
		observer: observer,
		diagLog:  diaglog.New(log),
		cfg:      cfg,
	}
}

// Run aligns chants and writes one JSON line per chant to w, in input order.
// Per-chant failures are recorded in their Result; Run itself fails only on
// cancellation or a write error.
func (p *Pipeline) Run(ctx context.Context, chants []domain.Chant, w io.Writer) (Stats, error) {
	start := time.Now()
	stats := Stats{RunID: uuid.New(), Total: len(chants)}
	ctx = ctxutil.WithRunID(ctx, stats.RunID)

	p.log.Info("batch started",
		slog.String("run_id", stats.RunID.String()),
		slog.Int("chants", len(chants)),
		slog.Int("workers", p.cfg.Workers),
	)

	results := make([]Result, len(chants))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.cfg.Workers)

	for i := range chants {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = p.process(gctx, chants[i])
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return stats, fmt.Errorf("batch: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return stats, fmt.Errorf("batch: %w", err)
	}

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	for _, r := range results {
		switch r.Status {
		case domain.AlignStatusAligned:
			stats.Aligned++
		case domain.AlignStatusEmpty:
			stats.Empty++
		case domain.AlignStatusFailed:
			stats.Failed++
		}
		stats.Warnings += len(r.Warnings)
		if err := enc.Encode(r); err != nil {
			return stats, fmt.Errorf("batch: write result %s: %w", r.ID, err)
		}
	}
	stats.Duration = time.Since(start)

	p.log.Info("batch completed",
		slog.String("run_id", stats.RunID.String()),
		slog.Int("total", stats.Total),
		slog.Int("aligned", stats.Aligned),
		slog.Int("empty", stats.Empty),
		slog.Int("failed", stats.Failed),
		slog.Int("warnings", stats.Warnings),
		slog.Duration("duration", stats.Duration),
	)
	return stats, nil
}

func (p *Pipeline) process(ctx context.Context, c domain.Chant) Result {
	ctx = ctxutil.WithChantID(ctx, c.ID)

	var collected diag.Collector
	sink := diag.Multi(&collected, p.diagLog.WithContext(ctx), p.observerSink())

	res := p.align(ctx, c, sink, &collected)
	res.Warnings = collected.Events()
	if p.observer != nil {
		p.observer.ObserveChant(res.Status)
	}
	return res
}

func (p *Pipeline) align(ctx context.Context, c domain.Chant, sink diag.Sink, collected *diag.Collector) Result {
	res := Result{
		ID:        c.ID,
		PlainText: domain.CleanTranscript(c.Text),
		Alignment: alignment.Alignment{},
	}

	if err := c.Validate(); err != nil {
		return p.fail(ctx, res, err)
	}

	if p.cfg.ChantTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.cfg.ChantTimeout)
		defer cancel()
	}

	syllabized, err := p.aligner.SyllabizeTextContext(ctx, c.Text, c.PreSyllabified)
	if err != nil {
		return p.fail(ctx, res, err)
	}
	res.SyllabizedText = syllabized

	a, err := p.aligner.AlignContext(ctx, c.Text, c.PreSyllabified, c.Volpiano, sink)
	if err != nil {
		return p.fail(ctx, res, err)
	}
	res.Alignment = a

	res.Status = domain.AlignStatusAligned
	if len(a) == 0 && collected.Has(diag.KindEmptyInputs) {
		res.Status = domain.AlignStatusEmpty
		res.Error = domain.ErrEmptyInputs.Error()
	}
	return res
}

func (p *Pipeline) fail(ctx context.Context, res Result, err error) Result {
	res.Status = domain.AlignStatusFailed
	res.Error = err.Error()

	level := slog.LevelWarn
	if errors.Is(err, context.DeadlineExceeded) {
		level = slog.LevelError
	}
	p.log.Log(ctx, level, "chant failed",
		slog.String("chant_id", res.ID),
		slog.String("error", err.Error()),
	)
	return res
}

// observerSink keeps a nil Observer out of diag.Multi.
func (p *Pipeline) observerSink() diag.Sink {
	if p.observer == nil {
		return nil
	}
	return p.observer
}

// Package alignment pairs the syllables of a chant text with the syllables
// of its volpiano melody.
//
// The pipeline is split text → parse melody → reconcile → align. Non-fatal
// anomalies are reported to a diag.Sink; only invalid characters and an
// invalid melody opening are errors.
package alignment

import (
	"context"

	"github.com/DDMAL/CantusDB-sub000/internal/diag"
	"github.com/DDMAL/CantusDB-sub000/internal/syllable"
	"github.com/DDMAL/CantusDB-sub000/internal/volpiano"
)

// Engine runs the alignment pipeline. It holds no mutable state and is safe
// for concurrent use.
type Engine struct {
	syl   *syllable.Syllabifier
	sink  diag.Sink
	clefs string
}

// Option configures an Engine.
type Option func(*Engine)

// WithSyllabifier sets the syllabifier used for text that is not
// pre-syllabified.
func WithSyllabifier(s *syllable.Syllabifier) Option {
	return func(e *Engine) {
		if s != nil {
			e.syl = s
		}
	}
}

// WithSink sets the sink every call reports to.
func WithSink(s diag.Sink) Option {
	return func(e *Engine) { e.sink = s }
}

// WithClefs sets the accepted clef characters.
func WithClefs(clefs string) Option {
	return func(e *Engine) {
		if clefs != "" {
			e.clefs = clefs
		}
	}
}

// New returns an Engine with the default rules and clefs, adjusted by opts.
func New(opts ...Option) *Engine {
	e := &Engine{
		syl:   syllable.Default(),
		clefs: volpiano.DefaultClefs,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

var defaultEngine = New()

// Align runs the default engine.
func Align(text string, preSyllabified bool, melody string) (Alignment, error) {
	return defaultEngine.Align(text, preSyllabified, melody)
}

// SyllabizeText runs the default engine.
func SyllabizeText(text string, preSyllabified bool) (string, error) {
	return defaultEngine.SyllabizeText(text, preSyllabified)
}

// Align returns the word slots pairing text with melody.
func (e *Engine) Align(text string, preSyllabified bool, melody string) (Alignment, error) {
	return e.AlignContext(context.Background(), text, preSyllabified, melody, nil)
}

// AlignContext is Align with cancellation and an extra per-call sink that
// receives diagnostics alongside the engine's sink.
//
// Empty text and empty melody yield an empty alignment and an empty-inputs
// event.
func (e *Engine) AlignContext(ctx context.Context, text string, preSyllabified bool, melody string, sink diag.Sink) (Alignment, error) {
	s := e.sinkFor(sink)

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	melodyWords, err := volpiano.NewParser(e.clefs, s).Parse(melody)
	if err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	textWords, err := splitText(ctx, e.syl, text, preSyllabified)
	if err != nil {
		return nil, err
	}

	// A blank text still yields the clef filler.
	if len(melodyWords) == 0 && len(textWords) <= 1 {
		diag.Emit(s, diag.KindEmptyInputs, "text and melody are empty")
		return Alignment{}, nil
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	textWords, melodyWords = Reconcile(textWords, melodyWords, s)

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return AlignWords(textWords, melodyWords, s), nil
}

// SyllabizeText returns text with its syllable boundaries marked by hyphens
// and words separated by single spaces.
func (e *Engine) SyllabizeText(text string, preSyllabified bool) (string, error) {
	return e.SyllabizeTextContext(context.Background(), text, preSyllabified)
}

// SyllabizeTextContext is SyllabizeText with cancellation.
func (e *Engine) SyllabizeTextContext(ctx context.Context, text string, preSyllabified bool) (string, error) {
	words, err := splitText(ctx, e.syl, text, preSyllabified)
	if err != nil {
		return "", err
	}
	return joinText(words), nil
}

func (e *Engine) sinkFor(extra diag.Sink) diag.Sink {
	switch {
	case extra == nil:
		return e.sink
	case e.sink == nil:
		return extra
	default:
		return diag.Multi(e.sink, extra)
	}
}

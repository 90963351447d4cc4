// Package diag carries the non-fatal diagnostics raised while parsing and
// aligning a chant. Producers call Emit; collaborators attach a Sink.
package diag

import (
	"fmt"
	"sync"
)

// Kind names a class of diagnostic.
type Kind string

const (
	// KindMelodyShorterThanText: the melody ends before a tilde span is reached.
	KindMelodyShorterThanText Kind = "melody-shorter-than-text"
	// KindUnterminatedBrace: a { span has no closing }.
	KindUnterminatedBrace Kind = "unterminated-brace"
	// KindWordCountMismatch: text and melody word counts differ after reconciliation.
	KindWordCountMismatch Kind = "word-count-mismatch"
	// KindLastWordGap: the final melody word carries a missing-pitch block.
	KindLastWordGap Kind = "last-word-gap"
	// KindEmptyInputs: both text and melody are empty.
	KindEmptyInputs Kind = "empty-inputs"
)

// Kinds lists every Kind in a stable order.
func Kinds() []Kind {
	return []Kind{
		KindMelodyShorterThanText,
		KindUnterminatedBrace,
		KindWordCountMismatch,
		KindLastWordGap,
		KindEmptyInputs,
	}
}

func (k Kind) String() string { return string(k) }

// Event is a single diagnostic.
type Event struct {
	Kind    Kind   `json:"kind"`
	Context string `json:"context"`
}

func (e Event) String() string { return fmt.Sprintf("%s: %s", e.Kind, e.Context) }

// Sink receives diagnostics.
type Sink interface {
	Warn(Event)
}

// SinkFunc adapts a plain function to Sink.
type SinkFunc func(Event)

func (f SinkFunc) Warn(e Event) { f(e) }

// Discard drops every event.
var Discard Sink = SinkFunc(func(Event) {})

// Emit sends an event to s. A nil sink discards it.
func Emit(s Sink, kind Kind, format string, args ...any) {
	if s == nil {
		return
	}
	s.Warn(Event{Kind: kind, Context: fmt.Sprintf(format, args...)})
}

// Multi fans an event out to every non-nil sink.
func Multi(sinks ...Sink) Sink {
	out := make([]Sink, 0, len(sinks))
	for _, s := range sinks {
		if s != nil {
			out = append(out, s)
		}
	}
	return multi(out)
}

type multi []Sink

func (m multi) Warn(e Event) {
	for _, s := range m {
		s.Warn(e)
	}
}

// Collector records events. It is safe for concurrent use.
type Collector struct {
	mu     sync.Mutex
	events []Event
}

func (c *Collector) Warn(e Event) {
	c.mu.Lock()
	c.events = append(c.events, e)
	c.mu.Unlock()
}

// Events returns a copy of the recorded events.
func (c *Collector) Events() []Event {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Event, len(c.events))
	copy(out, c.events)
	return out
}

// Has reports whether an event of kind k was recorded.
func (c *Collector) Has(k Kind) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, e := range c.events {
		if e.Kind == k {
			return true
		}
	}
	return false
}

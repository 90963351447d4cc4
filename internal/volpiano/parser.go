// Package volpiano splits a volpiano melody string into melody words and
// melody syllables. Note letters are opaque: only the dash levels and the
// missing-pitch block carry structure.
package volpiano

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/DDMAL/CantusDB-sub000/internal/diag"
	"github.com/DDMAL/CantusDB-sub000/internal/domain"
)

const (
	// DefaultClefs are the clef characters a melody may open with.
	DefaultClefs = "12"

	// MissingPitches marks notation that is absent or unreadable.
	MissingPitches = "6------6"

	// FillerSyllable pads a melody word that has fewer syllables than its text.
	FillerSyllable = "------"

	wordSep = "---"
	sylSep  = "--"

	// sentinel stands in for MissingPitches while splitting on dashes. It is
	// the same length, so byte offsets survive the swap.
	sentinel = "******"
)

// Parser splits melodies. The zero value is not usable; use NewParser.
type Parser struct {
	clefs string
	sink  diag.Sink
}

// NewParser returns a Parser accepting the given clef characters. An empty
// clefs string means DefaultClefs. A nil sink discards diagnostics.
func NewParser(clefs string, sink diag.Sink) *Parser {
	if clefs == "" {
		clefs = DefaultClefs
	}
	return &Parser{clefs: clefs, sink: sink}
}

// Parse splits volpiano with the default clefs, discarding diagnostics.
func Parse(volpiano string) ([][]string, error) {
	return NewParser(DefaultClefs, nil).Parse(volpiano)
}

// Parse returns the melody words of volpiano. Every non-final word keeps its
// separators: inner syllables end with "--" and the last with "---". The
// final word carries no trailing separator; a melody that ends with "---"
// yields a final [""] word.
//
// A missing-pitch block opening a word stays in place. One found later in a
// word is lifted out and emitted as its own word right after it.
func (p *Parser) Parse(volpiano string) ([][]string, error) {
	volpiano = strings.TrimSpace(volpiano)
	if volpiano == "" {
		return nil, nil
	}

	clef, size := utf8.DecodeRuneInString(volpiano)
	if !strings.ContainsRune(p.clefs, clef) {
		return nil, fmt.Errorf("volpiano.Parse: %w: %q", domain.ErrInvalidVolpianoOpening, clef)
	}

	rest := volpiano[size:]
	dashes := len(rest) - len(strings.TrimLeft(rest, "-"))
	if dashes < len(wordSep) {
		rest = strings.Repeat("-", len(wordSep)-dashes) + rest
	}
	canonical := volpiano[:size] + rest
	canonical = strings.ReplaceAll(canonical, MissingPitches, sentinel)

	raw := strings.Split(canonical, wordSep)
	words := make([][]string, 0, len(raw))

	for _, w := range raw[:len(raw)-1] {
		pieces := strings.Split(w, sylSep)
		syls := make([]string, 0, len(pieces))
		var lifted []string
		for i, piece := range pieces {
			if i > 0 && strings.Contains(piece, sentinel) {
				lifted = append(lifted, restore(piece))
				continue
			}
			syls = append(syls, restore(piece)+sylSep)
		}
		syls[len(syls)-1] += "-"
		words = append(words, syls)
		for _, gap := range lifted {
			words = append(words, []string{gap})
		}
	}

	last := raw[len(raw)-1]
	if strings.Contains(last, sentinel) {
		diag.Emit(p.sink, diag.KindLastWordGap, "final melody word %q", restore(last))
		return append(words, []string{restore(last)}), nil
	}
	return append(words, finalSyllables(last)), nil
}

func finalSyllables(word string) []string {
	pieces := strings.Split(word, sylSep)
	syls := make([]string, len(pieces))
	for i, piece := range pieces {
		syls[i] = piece
		if i < len(pieces)-1 {
			syls[i] += sylSep
		}
	}
	if len(syls) > 1 && syls[len(syls)-1] == "" {
		syls = syls[:len(syls)-1]
	}
	return syls
}

func restore(s string) string {
	return strings.ReplaceAll(s, sentinel, MissingPitches)
}

// Join reassembles parsed melody words into a volpiano string. For melodies
// without a lifted missing-pitch block it reproduces the clef-canonicalized
// input.
func Join(words [][]string) string {
	var b strings.Builder
	for _, w := range words {
		for _, s := range w {
			b.WriteString(s)
		}
	}
	return b.String()
}

// IsBarline reports whether word is a barline word.
func IsBarline(word []string) bool {
	if len(word) != 1 {
		return false
	}
	switch word[0] {
	case "3---", "4---", "3", "4":
		return true
	}
	return false
}

// IsEmpty reports whether word is the empty word left by a trailing "---".
func IsEmpty(word []string) bool {
	return len(word) == 1 && word[0] == ""
}

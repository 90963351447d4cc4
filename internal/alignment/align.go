package alignment

import (
	"encoding/json"
	"iter"
	"slices"

	"github.com/DDMAL/CantusDB-sub000/internal/diag"
	"github.com/DDMAL/CantusDB-sub000/internal/volpiano"
)

// TextFiller pads a text word that has fewer syllables than its melody.
const TextFiller = " "

// Pair is one melody syllable with the text syllable sung on it.
type Pair struct {
	Melody string
	Text   string
}

// Word is one aligned word slot.
type Word struct {
	melody []string
	text   []string
	fill   string
}

// Len is the number of pairs in the slot.
func (w Word) Len() int { return max(len(w.melody), len(w.text)) }

// All yields (melody, text) pairs, padding the shorter side with its filler.
func (w Word) All() iter.Seq2[string, string] {
	return func(yield func(string, string) bool) {
		for i := range w.Len() {
			m, t := w.fill, w.fill
			if i < len(w.melody) {
				m = w.melody[i]
			}
			if i < len(w.text) {
				t = w.text[i]
			}
			if !yield(m, t) {
				return
			}
		}
	}
}

// Pairs materializes All.
func (w Word) Pairs() []Pair {
	out := make([]Pair, 0, w.Len())
	for m, t := range w.All() {
		out = append(out, Pair{Melody: m, Text: t})
	}
	return out
}

// MarshalJSON encodes the slot as [[melody, text], ...].
func (w Word) MarshalJSON() ([]byte, error) {
	out := make([][2]string, 0, w.Len())
	for m, t := range w.All() {
		out = append(out, [2]string{m, t})
	}
	return json.Marshal(out)
}

// Alignment is the ordered list of word slots for one chant.
type Alignment []Word

// AlignWords pairs reconciled text words with melody words, one slot per
// non-empty melody word. Text words beyond the melody are dropped; missing
// text words are filled with [" "]. A ["3---"] melody barline that does not
// face a ["|"] text word gets a [" "] text word inserted in front of the
// remaining text.
func AlignWords(text, melody [][]string, sink diag.Sink) Alignment {
	if len(text) != len(melody) {
		diag.Emit(sink, diag.KindWordCountMismatch, "text=%d melody=%d", len(text), len(melody))
	}

	padded := make([][]string, len(text), max(len(text), len(melody))+len(melody))
	copy(padded, text)
	for len(padded) < len(melody) {
		padded = append(padded, []string{TextFiller})
	}

	out := make(Alignment, 0, len(melody))
	for i, m := range melody {
		if volpiano.IsEmpty(m) {
			continue
		}
		if len(m) == 1 && m[0] == "3---" && !isTextBarline(padded[i]) {
			padded = slices.Insert(padded, i, []string{TextFiller})
		}

		t := padded[i]
		fill := volpiano.FillerSyllable
		if len(m) > len(t) {
			fill = TextFiller
		}
		out = append(out, Word{melody: m, text: t, fill: fill})
	}
	return out
}

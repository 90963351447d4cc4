package alignment

import (
	"slices"
	"strings"

	"github.com/DDMAL/CantusDB-sub000/internal/diag"
	"github.com/DDMAL/CantusDB-sub000/internal/volpiano"
)

// Barline is the text word that marks a section break.
const Barline = "|"

// Reconcile collapses the spans that must face a single melody unit:
//
//   - {…} text spans become one text word with one syllable (braces first,
//     since a brace span may hold a ~ incipit);
//   - ~… text spans up to the next | become one text word with one syllable,
//     and the melody words from the matching index up to the next barline
//     become one melody word with one syllable.
//
// The inputs are not modified.
func Reconcile(text, melody [][]string, sink diag.Sink) ([][]string, [][]string) {
	text = cloneWords(text)
	melody = cloneWords(melody)

	text = mergeBraces(text, sink)
	return mergeIncipits(text, melody, sink)
}

func mergeBraces(text [][]string, sink diag.Sink) [][]string {
	deleted := make([]bool, len(text))
	for i := range text {
		if deleted[i] || !opensWith(text[i], '{') {
			continue
		}
		end := len(text) - 1
		found := false
		for j := i; j < len(text); j++ {
			if closesWith(text[j], '}') {
				end, found = j, true
				break
			}
		}
		if !found {
			diag.Emit(sink, diag.KindUnterminatedBrace, "text word %d %q", i, strings.Join(text[i], ""))
		}
		text[i] = []string{mergeText(text[i : end+1])}
		for j := i + 1; j <= end; j++ {
			deleted[j] = true
		}
	}
	return compact(text, deleted)
}

func mergeIncipits(text, melody [][]string, sink diag.Sink) ([][]string, [][]string) {
	textDeleted := make([]bool, len(text))
	melodyDeleted := make([]bool, len(melody))
	offset := 0

	for i := range text {
		if textDeleted[i] || !opensWith(text[i], '~') {
			continue
		}

		end := len(text)
		for j := i + 1; j < len(text); j++ {
			if isTextBarline(text[j]) {
				end = j
				break
			}
		}
		text[i] = []string{mergeText(text[i:end])}
		for j := i + 1; j < end; j++ {
			textDeleted[j] = true
		}

		m := i - offset
		if m < 0 || m >= len(melody) {
			diag.Emit(sink, diag.KindMelodyShorterThanText,
				"incipit at text word %d maps to melody word %d of %d", i, m, len(melody))
			break
		}
		mEnd := len(melody)
		for j := m + 1; j < len(melody); j++ {
			if volpiano.IsBarline(melody[j]) {
				mEnd = j
				break
			}
		}
		melody[m] = []string{strings.Join(slices.Concat(melody[m:mEnd]...), "")}
		for j := m + 1; j < mEnd; j++ {
			melodyDeleted[j] = true
		}

		offset += (end - i - 1) - (mEnd - m - 1)
	}

	return compact(text, textDeleted), compact(melody, melodyDeleted)
}

// mergeText strips continuation hyphens, glues each word's syllables and
// joins the words with a space.
func mergeText(words [][]string) string {
	parts := make([]string, len(words))
	for i, w := range words {
		var b strings.Builder
		for _, s := range w {
			b.WriteString(strings.Trim(s, "-"))
		}
		parts[i] = b.String()
	}
	return strings.Join(parts, " ")
}

func opensWith(word []string, r byte) bool {
	return len(word) > 0 && word[0] != "" && word[0][0] == r
}

func closesWith(word []string, r byte) bool {
	if len(word) == 0 {
		return false
	}
	last := word[len(word)-1]
	return last != "" && last[len(last)-1] == r
}

func isTextBarline(word []string) bool {
	return len(word) == 1 && word[0] == Barline
}

func compact(words [][]string, deleted []bool) [][]string {
	out := words[:0]
	for i, w := range words {
		if !deleted[i] {
			out = append(out, w)
		}
	}
	return out
}

func cloneWords(words [][]string) [][]string {
	if words == nil {
		return nil
	}
	out := make([][]string, len(words))
	for i, w := range words {
		out[i] = slices.Clone(w)
	}
	return out
}

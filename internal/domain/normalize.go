package domain

import (
	"strings"
	"unicode"
)

// CleanTranscript strips a chant transcript down to words:
//   - removes every character that is neither a letter nor whitespace
//     (including the in-band markers | { } ~ # -)
//   - compresses whitespace runs into one space
//   - trims leading/trailing whitespace
//
// Case and diacritics are preserved.
func CleanTranscript(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	prevSpace := true
	for _, r := range text {
		switch {
		case unicode.IsLetter(r):
			b.WriteRune(r)
			prevSpace = false
		case unicode.IsSpace(r):
			if prevSpace {
				continue
			}
			b.WriteByte(' ')
			prevSpace = true
		}
	}
	return strings.TrimRight(b.String(), " ")
}

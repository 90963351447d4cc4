package alignment

import (
	"context"
	"strings"

	"github.com/DDMAL/CantusDB-sub000/internal/syllable"
)

// ClefFiller is the text word that faces the clef.
const ClefFiller = " "

var textCanonicalizer = strings.NewReplacer("|", " | ", "{", " {", "}", "} ")

// SplitText turns raw chant text into text words. The first word is always
// the clef filler [" "]. Every syllable but the last of a word ends with "-".
//
// With preSyllabified the hyphens already in the text are the syllable
// boundaries; otherwise each word goes through syl (syllable.Default() when
// nil) and its *domain.CharacterError is returned as is.
func SplitText(syl *syllable.Syllabifier, raw string, preSyllabified bool) ([][]string, error) {
	return splitText(context.Background(), syl, raw, preSyllabified)
}

func splitText(ctx context.Context, syl *syllable.Syllabifier, raw string, preSyllabified bool) ([][]string, error) {
	if syl == nil {
		syl = syllable.Default()
	}

	tokens := strings.Fields(textCanonicalizer.Replace(raw))
	words := make([][]string, 0, len(tokens)+1)
	words = append(words, []string{ClefFiller})

	for _, tok := range tokens {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		if preSyllabified {
			if w := splitHyphenated(tok); len(w) > 0 {
				words = append(words, w)
			}
			continue
		}

		syls, err := syl.Word(tok)
		if err != nil {
			return nil, err
		}
		words = append(words, withContinuation(syls))
	}
	return words, nil
}

// splitHyphenated splits an already syllabified token on "-", keeping the
// hyphen on every piece but the last and dropping empty pieces.
func splitHyphenated(tok string) []string {
	pieces := strings.Split(tok, "-")
	out := make([]string, 0, len(pieces))
	for i, p := range pieces {
		if i < len(pieces)-1 {
			p += "-"
		}
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func withContinuation(syls []string) []string {
	out := make([]string, len(syls))
	for i, s := range syls {
		if i < len(syls)-1 {
			s += "-"
		}
		out[i] = s
	}
	return out
}

// joinText renders text words the way SyllabizeText returns them.
func joinText(words [][]string) string {
	parts := make([]string, len(words))
	for i, w := range words {
		parts[i] = strings.Join(w, "")
	}
	return strings.TrimSpace(strings.Join(parts, " "))
}

// Package syllable splits single Latin words into syllables.
//
// The splitter is table driven: vowels, diphthongs and their exceptions,
// consonant digraphs, onset clusters and the muta cum liquida pairs all come
// from Rules, so orthographic edge cases are tuned without touching the code.
package syllable

import (
	"slices"
	"strings"
	"unicode"

	"github.com/DDMAL/CantusDB-sub000/internal/domain"
)

// Syllabifier splits words with a fixed set of Rules. It is immutable after
// construction and safe for concurrent use.
type Syllabifier struct {
	vowels     map[rune]bool
	markers    map[rune]bool
	diphthongs map[string][]string // pair → exception fragments
	digraphs   [][]rune            // longest first
	onsets     [][]rune            // longest first
	mutes      map[string]bool
	liquids    map[string]bool
}

var defaultSyllabifier = MustNew(DefaultRules())

// Default returns the Syllabifier built from DefaultRules.
func Default() *Syllabifier { return defaultSyllabifier }

// New compiles rules into a Syllabifier.
func New(r Rules) (*Syllabifier, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}

	s := &Syllabifier{
		vowels:     runeSet(r.Vowels),
		markers:    runeSet(r.Markers),
		diphthongs: make(map[string][]string, len(r.Diphthongs)),
		digraphs:   runeTable(r.Digraphs),
		onsets:     runeTable(r.OnsetClusters),
		mutes:      stringSet(r.Mutes),
		liquids:    stringSet(r.Liquids),
	}
	for _, d := range r.Diphthongs {
		s.diphthongs[d] = r.DiphthongExceptions[d]
	}
	return s, nil
}

// MustNew is New for known-good rules; it panics on invalid rules.
func MustNew(r Rules) *Syllabifier {
	s, err := New(r)
	if err != nil {
		panic(err)
	}
	return s
}

// Word splits word with the default rules.
func Word(word string) ([]string, error) {
	return defaultSyllabifier.Word(word)
}

// IsVowel reports whether r (in any case) can be a syllable nucleus.
func (s *Syllabifier) IsVowel(r rune) bool {
	return s.vowels[unicode.ToLower(r)]
}

// Word splits word into syllables, keeping the original case. A word with no
// nucleus is returned whole. Runes that are neither letters, digits nor
// markers fail with a *domain.CharacterError.
func (s *Syllabifier) Word(word string) ([]string, error) {
	if word == "" {
		return nil, nil
	}
	for off, r := range word {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && !s.markers[r] {
			return nil, &domain.CharacterError{Word: word, Char: r, Offset: off}
		}
	}

	orig := []rune(word)
	lower := make([]rune, len(orig))
	for i, r := range orig {
		lower[i] = unicode.ToLower(r)
	}

	vowel := s.classify(lower)
	nuclei := s.nuclei(lower, vowel)
	if len(nuclei) == 0 {
		return []string{word}, nil
	}

	bounds := make([]int, 0, len(nuclei)-1)
	for k := 0; k+1 < len(nuclei); k++ {
		bounds = append(bounds, s.boundary(lower, nuclei[k].end, nuclei[k+1].start))
	}

	syllables := make([]string, 0, len(nuclei))
	start := 0
	for _, b := range bounds {
		syllables = append(syllables, string(orig[start:b]))
		start = b
	}
	syllables = append(syllables, string(orig[start:]))
	return syllables, nil
}

type span struct{ start, end int }

// classify marks which runes act as vowels. Vowels inside digraphs, a
// word-initial i before a vowel (or before h and a vowel) and an i between
// two vowels are consonantal.
func (s *Syllabifier) classify(lower []rune) []bool {
	n := len(lower)
	vowel := make([]bool, n)
	for i, r := range lower {
		vowel[i] = s.vowels[r]
	}

	for i := 0; i < n; {
		if d := matchAt(s.digraphs, lower, i, n); d > 0 {
			for j := i; j < i+d; j++ {
				vowel[j] = false
			}
			i += d
			continue
		}
		i++
	}

	if !s.vowels['i'] {
		return vowel
	}

	first := slices.IndexFunc(lower, unicode.IsLetter)
	if first >= 0 && lower[first] == 'i' && first+1 < n {
		next := first + 1
		if vowel[next] || (lower[next] == 'h' && next+1 < n && vowel[next+1]) {
			vowel[first] = false
		}
	}
	for i := 1; i+1 < n; i++ {
		if lower[i] == 'i' && vowel[i-1] && vowel[i+1] {
			vowel[i] = false
		}
	}
	return vowel
}

// nuclei groups vowels into nuclei, pairing diphthongs left to right.
func (s *Syllabifier) nuclei(lower []rune, vowel []bool) []span {
	word := string(lower)
	var out []span
	for i := 0; i < len(lower); i++ {
		if !vowel[i] {
			continue
		}
		if i+1 < len(lower) && vowel[i+1] && s.isDiphthong(lower[i], lower[i+1], word) {
			out = append(out, span{i, i + 2})
			i++
			continue
		}
		out = append(out, span{i, i + 1})
	}
	return out
}

func (s *Syllabifier) isDiphthong(a, b rune, word string) bool {
	exceptions, ok := s.diphthongs[string([]rune{a, b})]
	if !ok {
		return false
	}
	for _, frag := range exceptions {
		if strings.Contains(word, frag) {
			return false
		}
	}
	return true
}

// boundary returns the index where the syllable after the consonant run
// lower[from:to] begins.
func (s *Syllabifier) boundary(lower []rune, from, to int) int {
	var units []int
	for j := from; j < to; {
		l := matchAt(s.digraphs, lower, j, to)
		if l == 0 && j == from {
			l = matchAt(s.onsets, lower, j, to)
		}
		if l == 0 {
			l = 1
		}
		units = append(units, j)
		j += l
	}

	switch len(units) {
	case 0:
		return to
	case 1:
		return units[0]
	}

	k := len(units)
	prev := string(lower[units[k-2]:units[k-1]])
	last := string(lower[units[k-1]:to])
	if s.mutes[prev] && s.liquids[last] {
		return units[k-2]
	}
	return units[k-1]
}

// matchAt returns the length of the first table entry found at lower[i:]
// that ends at or before limit, or 0.
func matchAt(table [][]rune, lower []rune, i, limit int) int {
	for _, t := range table {
		if i+len(t) <= limit && slices.Equal(lower[i:i+len(t)], t) {
			return len(t)
		}
	}
	return 0
}

func runeSet(s string) map[rune]bool {
	m := make(map[rune]bool, len(s))
	for _, r := range s {
		m[r] = true
	}
	return m
}

func stringSet(ss []string) map[string]bool {
	m := make(map[string]bool, len(ss))
	for _, s := range ss {
		m[s] = true
	}
	return m
}

func runeTable(ss []string) [][]rune {
	out := make([][]rune, 0, len(ss))
	for _, s := range ss {
		out = append(out, []rune(s))
	}
	slices.SortStableFunc(out, func(a, b []rune) int { return len(b) - len(a) })
	return out
}

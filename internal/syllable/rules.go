package syllable

import (
	"fmt"
	"maps"
	"os"
	"slices"
	"unicode/utf8"

	"gopkg.in/yaml.v3"
)

// Rules is the orthographic data the Syllabifier runs on. Every table is
// matched against the lowercased word.
type Rules struct {
	// Vowels lists the runes that can form a syllable nucleus.
	Vowels string `yaml:"vowels"`
	// Diphthongs are vowel pairs that form a single nucleus.
	Diphthongs []string `yaml:"diphthongs"`
	// DiphthongExceptions maps a diphthong to word fragments in which the
	// pair is read as two nuclei (e.g. "eu" in "deus").
	DiphthongExceptions map[string][]string `yaml:"diphthong_exceptions"`
	// Digraphs are consonant units that are never split. A vowel inside a
	// digraph ("qu") is consonantal.
	Digraphs []string `yaml:"digraphs"`
	// OnsetClusters are units only when they open an intervocalic run.
	OnsetClusters []string `yaml:"onset_clusters"`
	// Mutes and Liquids define muta cum liquida: a mute unit followed by a
	// liquid unit stays with the next nucleus.
	Mutes   []string `yaml:"mutes"`
	Liquids []string `yaml:"liquids"`
	// Markers are the non-letter runes tolerated inside a word.
	Markers string `yaml:"markers"`
}

// DefaultRules returns the Latin rules used for chant texts.
func DefaultRules() Rules {
	return Rules{
		Vowels:     "aeiouyæœ",
		Diphthongs: []string{"ae", "oe", "au", "eu", "ui"},
		DiphthongExceptions: map[string][]string{
			"ae": {"rael", "hael", "mael"},
			"oe": {"poet", "noe"},
			"eu": {"deu", "meu", "reu", "eum", "eus", "eunt", "euouae"},
			"ui": {"fui", "tui", "sui", "uit", "ruin", "uimus"},
		},
		Digraphs:      []string{"ch", "ph", "th", "rh", "qu"},
		OnsetClusters: []string{"st", "sp", "sc", "ct"},
		Mutes:         []string{"b", "c", "d", "g", "p", "t", "f", "ch", "ph", "th"},
		Liquids:       []string{"l", "r"},
		Markers:       "|{}~#-",
	}
}

// Merge returns r with every non-empty field of o replacing the matching
// field. Exception lists are replaced per diphthong and pruned to the
// resulting diphthong set.
func (r Rules) Merge(o Rules) Rules {
	out := r
	if o.Vowels != "" {
		out.Vowels = o.Vowels
	}
	if o.Diphthongs != nil || o.DiphthongExceptions != nil {
		merged := make(map[string][]string, len(r.DiphthongExceptions)+len(o.DiphthongExceptions))
		maps.Copy(merged, r.DiphthongExceptions)
		maps.Copy(merged, o.DiphthongExceptions)
		if o.Diphthongs != nil {
			out.Diphthongs = o.Diphthongs
			// Exceptions of diphthongs that were dropped go with them.
			maps.DeleteFunc(merged, func(pair string, _ []string) bool {
				return !slices.Contains(out.Diphthongs, pair)
			})
		}
		out.DiphthongExceptions = merged
	}
	if o.Digraphs != nil {
		out.Digraphs = o.Digraphs
	}
	if o.OnsetClusters != nil {
		out.OnsetClusters = o.OnsetClusters
	}
	if o.Mutes != nil {
		out.Mutes = o.Mutes
	}
	if o.Liquids != nil {
		out.Liquids = o.Liquids
	}
	if o.Markers != "" {
		out.Markers = o.Markers
	}
	return out
}

// Validate checks that the tables are usable together.
func (r Rules) Validate() error {
	if r.Vowels == "" {
		return fmt.Errorf("vowels must not be empty")
	}
	vowels := make(map[rune]bool, len(r.Vowels))
	for _, v := range r.Vowels {
		vowels[v] = true
	}
	for _, d := range r.Diphthongs {
		if utf8.RuneCountInString(d) != 2 {
			return fmt.Errorf("diphthong %q must be two runes", d)
		}
		for _, v := range d {
			if !vowels[v] {
				return fmt.Errorf("diphthong %q: %q is not a vowel", d, v)
			}
		}
	}
	for pair := range r.DiphthongExceptions {
		if !slices.Contains(r.Diphthongs, pair) {
			return fmt.Errorf("diphthong_exceptions: %q is not a diphthong", pair)
		}
	}
	for _, d := range r.Digraphs {
		if utf8.RuneCountInString(d) < 2 {
			return fmt.Errorf("digraph %q must be at least two runes", d)
		}
	}
	for _, c := range r.OnsetClusters {
		if utf8.RuneCountInString(c) < 2 {
			return fmt.Errorf("onset cluster %q must be at least two runes", c)
		}
	}
	return nil
}

// LoadRules reads a YAML rules file and merges it over DefaultRules.
func LoadRules(path string) (Rules, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Rules{}, fmt.Errorf("syllable rules: read %s: %w", path, err)
	}

	var fromFile Rules
	if err := yaml.Unmarshal(data, &fromFile); err != nil {
		return Rules{}, fmt.Errorf("syllable rules: parse %s: %w", path, err)
	}

	rules := DefaultRules().Merge(fromFile)
	if err := rules.Validate(); err != nil {
		return Rules{}, fmt.Errorf("syllable rules: %s: %w", path, err)
	}
	return rules, nil
}

package alignment

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DDMAL/CantusDB-sub000/internal/diag"
	"github.com/DDMAL/CantusDB-sub000/internal/domain"
	"github.com/DDMAL/CantusDB-sub000/internal/syllable"
	"github.com/DDMAL/CantusDB-sub000/internal/volpiano"
)

func TestEngine_Scenarios(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		text   string
		melody string
		want   [][]Pair
	}{
		{
			name:   "simple alignment",
			text:   "Sanctus sanctus sanctus",
			melody: "1---f--g--h---f--g--h---f--g--h---4",
			want: [][]Pair{
				{{"1---", " "}},
				{{"f--", "Sanc-"}, {"g--", "tus"}, {"h---", " "}},
				{{"f--", "sanc-"}, {"g--", "tus"}, {"h---", " "}},
				{{"f--", "sanc-"}, {"g--", "tus"}, {"h---", " "}},
				{{"4", " "}},
			},
		},
		{
			name:   "bracket span",
			text:   "mar{tirum et} sancti",
			melody: "1---g--h---6------6---g--h--f---4",
			want: [][]Pair{
				{{"1---", " "}},
				{{"g--", "mar"}, {"h---", " "}},
				{{"6------6---", "{tirum et}"}},
				{{"g--", "sanc-"}, {"h--", "ti"}, {"f---", " "}},
				{{"4", " "}},
			},
		},
		{
			name:   "tilde incipit",
			text:   "| ~Ipsum dixit dominus | ad",
			melody: "1---3---g--h--f--g---3---a--b---4",
			want: [][]Pair{
				{{"1---", " "}},
				{{"3---", "|"}},
				{{"g--h--f--g---", "~Ipsum dixit dominus"}},
				{{"3---", "|"}},
				{{"a--", "ad"}, {"b---", " "}},
				{{"4", " "}},
			},
		},
		{
			name:   "text longer than melody",
			text:   "a b c d e",
			melody: "1---f---g---4",
			want: [][]Pair{
				{{"1---", " "}},
				{{"f---", "a"}},
				{{"g---", "b"}},
				{{"4", "c"}},
			},
		},
		{
			name:   "melody longer than text",
			text:   "a",
			melody: "1---f---g---h---4",
			want: [][]Pair{
				{{"1---", " "}},
				{{"f---", "a"}},
				{{"g---", " "}},
				{{"h---", " "}},
				{{"4", " "}},
			},
		},
		{
			name:   "syllable-level missing pitches",
			text:   "an{#}",
			melody: "1---a--6------6---4",
			want: [][]Pair{
				{{"1---", " "}},
				{{"a---", "an"}},
				{{"6------6", "{#}"}},
				{{"4", " "}},
			},
		},
	}

	e := New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := e.Align(tt.text, false, tt.melody)
			require.NoError(t, err)
			assert.Equal(t, tt.want, pairs(got))
		})
	}
}

func TestEngine_Properties(t *testing.T) {
	t.Parallel()

	inputs := []struct{ text, melody string }{
		{"Sanctus sanctus sanctus", "1---f--g--h---f--g--h---f--g--h---4"},
		{"mar{tirum et} sancti", "1---g--h---6------6---g--h--f---4"},
		{"| ~Ipsum dixit dominus | ad", "1---3---g--h--f--g---3---a--b---4"},
		{"a b c d e", "1---f---g---4"},
		{"a", "1---f---g---h---4---"},
		{"an{#}", "1---a--6------6---4"},
		{"Gloria patri et filio", "1---f--g---3---h---j--k--l---4"},
	}

	for _, in := range inputs {
		t.Run(in.text, func(t *testing.T) {
			t.Parallel()

			got, err := Align(in.text, false, in.melody)
			require.NoError(t, err)

			melody, err := volpiano.Parse(in.melody)
			require.NoError(t, err)
			text, err := SplitText(nil, in.text, false)
			require.NoError(t, err)
			_, reconciled := Reconcile(text, melody, nil)

			var nonEmpty [][]string
			for _, w := range reconciled {
				if !volpiano.IsEmpty(w) {
					nonEmpty = append(nonEmpty, w)
				}
			}

			// One slot per non-empty melody word, in melody order.
			require.Len(t, got, len(nonEmpty))
			for i, w := range got {
				var mel []string
				for m, tx := range w.All() {
					assert.NotEmpty(t, m)
					assert.NotEmpty(t, tx)
					if m != volpiano.FillerSyllable {
						mel = append(mel, m)
					}
				}
				assert.Equal(t, nonEmpty[i], mel, "slot %d", i)
			}
		})
	}
}

func TestEngine_Warnings(t *testing.T) {
	t.Parallel()

	var shared diag.Collector
	e := New(WithSink(&shared))

	var perCall diag.Collector
	_, err := e.AlignContext(context.Background(), "Sanctus", false, "1---f---g---4", &perCall)
	require.NoError(t, err)

	assert.True(t, perCall.Has(diag.KindWordCountMismatch))
	assert.True(t, shared.Has(diag.KindWordCountMismatch))
}

func TestEngine_EmptyInputs(t *testing.T) {
	t.Parallel()

	var c diag.Collector
	got, err := New(WithSink(&c)).Align("  ", false, "\n")

	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
	assert.True(t, c.Has(diag.KindEmptyInputs))
}

func TestEngine_EmptyMelodyOnly(t *testing.T) {
	t.Parallel()

	var c diag.Collector
	got, err := New(WithSink(&c)).Align("alleluia", false, "")

	require.NoError(t, err)
	assert.Empty(t, got)
	assert.False(t, c.Has(diag.KindEmptyInputs))
	assert.True(t, c.Has(diag.KindWordCountMismatch))
}

func TestEngine_Errors(t *testing.T) {
	t.Parallel()

	e := New()

	_, err := e.Align("domi.nus", false, "1---f---4")
	assert.True(t, errors.Is(err, domain.ErrInvalidCharacter), "got %v", err)

	_, err = e.Align("dominus", false, "f---g---4")
	assert.True(t, errors.Is(err, domain.ErrInvalidVolpianoOpening), "got %v", err)

	// Pre-syllabified text is taken as is.
	_, err = e.Align("do-mi-nus.", true, "1---f--g--h---4")
	assert.NoError(t, err)
}

func TestEngine_Canceled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	e := New()
	_, err := e.AlignContext(ctx, "Sanctus", false, "1---f--g---4", nil)
	assert.ErrorIs(t, err, context.Canceled)

	_, err = e.SyllabizeTextContext(ctx, "Sanctus", false)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestEngine_WithClefs(t *testing.T) {
	t.Parallel()

	e := New(WithClefs("3"))
	got, err := e.Align("a", false, "3---f---4")
	require.NoError(t, err)
	assert.Len(t, got, 3)

	_, err = e.Align("a", false, "1---f---4")
	assert.ErrorIs(t, err, domain.ErrInvalidVolpianoOpening)
}

func TestEngine_WithSyllabifier(t *testing.T) {
	t.Parallel()

	r := syllable.DefaultRules()
	r.OnsetClusters = append(r.OnsetClusters, "gn")
	s, err := syllable.New(r)
	require.NoError(t, err)

	got, err := New(WithSyllabifier(s)).SyllabizeText("Agnus dei", false)
	require.NoError(t, err)
	assert.Equal(t, "A-gnus de-i", got)

	got, err = SyllabizeText("Agnus dei", false)
	require.NoError(t, err)
	assert.Equal(t, "Ag-nus de-i", got)
}

func TestSyllabizeText(t *testing.T) {
	t.Parallel()

	tests := []struct {
		text string
		pre  bool
		want string
	}{
		{"Sanctus sanctus sanctus", false, "Sanc-tus sanc-tus sanc-tus"},
		{"mar{tirum et} sancti", false, "mar {ti-rum et} sanc-ti"},
		{"| ~Ipsum dixit", false, "| ~Ip-sum di-xit"},
		{"Sanc-tus  al-le-lu-ia", true, "Sanc-tus al-le-lu-ia"},
		{"", false, ""},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			t.Parallel()
			got, err := SyllabizeText(tt.text, tt.pre)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSyllabizeText_Idempotent(t *testing.T) {
	t.Parallel()

	for _, text := range []string{
		"Sanctus sanctus sanctus",
		"mar{tirum et} sancti",
		"| ~Ipsum dixit dominus | ad",
		"Gloria patri|et filio",
		"an{#}",
	} {
		first, err := SyllabizeText(text, false)
		require.NoError(t, err)
		second, err := SyllabizeText(first, true)
		require.NoError(t, err)
		assert.Equal(t, first, second, text)

		a, err := SplitText(nil, first, true)
		require.NoError(t, err)
		b, err := SplitText(nil, second, true)
		require.NoError(t, err)
		assert.Equal(t, a, b)
		assert.False(t, strings.Contains(first, "  "))
	}
}

func TestEngine_ConcurrentUse(t *testing.T) {
	t.Parallel()

	e := New()
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := e.Align("mar{tirum et} sancti", false, "1---g--h---6------6---g--h--f---4")
			assert.NoError(t, err)
			assert.Len(t, got, 5)
		}()
	}
	wg.Wait()
}

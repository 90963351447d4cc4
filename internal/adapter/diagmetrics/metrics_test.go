package diagmetrics

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DDMAL/CantusDB-sub000/internal/diag"
	"github.com/DDMAL/CantusDB-sub000/internal/domain"
)

func TestMetrics_Warn(t *testing.T) {
	t.Parallel()

	m := New()
	diag.Emit(m, diag.KindWordCountMismatch, "text=%d melody=%d", 2, 4)
	diag.Emit(m, diag.KindWordCountMismatch, "text=%d melody=%d", 3, 4)
	diag.Emit(m, diag.KindLastWordGap, "x")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.warnings.WithLabelValues("word-count-mismatch")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.warnings.WithLabelValues("last-word-gap")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.warnings.WithLabelValues("empty-inputs")))
}

func TestMetrics_SeriesPreinitialized(t *testing.T) {
	t.Parallel()

	m := New()
	assert.Equal(t, len(diag.Kinds()), testutil.CollectAndCount(m.warnings))
	assert.Equal(t, 3, testutil.CollectAndCount(m.chants))
}

func TestMetrics_ObserveChant(t *testing.T) {
	t.Parallel()

	m := New()
	m.ObserveChant(domain.AlignStatusAligned)
	m.ObserveChant(domain.AlignStatusAligned)
	m.ObserveChant(domain.AlignStatusFailed)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.chants.WithLabelValues("ALIGNED")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.chants.WithLabelValues("FAILED")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.chants.WithLabelValues("EMPTY")))
}

func TestMetrics_WriteFile(t *testing.T) {
	t.Parallel()

	m := New()
	m.Warn(diag.Event{Kind: diag.KindUnterminatedBrace})
	m.ObserveChant(domain.AlignStatusEmpty)

	path := filepath.Join(t.TempDir(), "chantalign.prom")
	require.NoError(t, m.WriteFile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	out := string(data)
	assert.Contains(t, out, `chantalign_warnings_total{kind="unterminated-brace"} 1`)
	assert.Contains(t, out, `chantalign_chants_total{status="EMPTY"} 1`)
	assert.Contains(t, out, "# HELP chantalign_chants_total")
}

func TestMetrics_WarningCounts(t *testing.T) {
	t.Parallel()

	m := New()
	got, err := m.WarningCounts()
	require.NoError(t, err)
	assert.Empty(t, got)

	m.Warn(diag.Event{Kind: diag.KindWordCountMismatch})
	m.Warn(diag.Event{Kind: diag.KindWordCountMismatch})
	m.Warn(diag.Event{Kind: diag.KindMelodyShorterThanText})

	got, err = m.WarningCounts()
	require.NoError(t, err)
	assert.Equal(t, map[string]float64{
		"word-count-mismatch":      2,
		"melody-shorter-than-text": 1,
	}, got)
}

func TestMetrics_WriteFileError(t *testing.T) {
	t.Parallel()

	err := New().WriteFile(filepath.Join(t.TempDir(), "missing", "dir", "x.prom"))
	assert.Error(t, err)
}

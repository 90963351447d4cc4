// Package diagmetrics counts alignment diagnostics and outcomes in Prometheus
// collectors.
package diagmetrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	dto "github.com/prometheus/client_model/go"

	"github.com/DDMAL/CantusDB-sub000/internal/diag"
	"github.com/DDMAL/CantusDB-sub000/internal/domain"
)

const namespace = "chantalign"

// Metrics is a diag.Sink backed by its own registry.
type Metrics struct {
	reg      *prometheus.Registry
	warnings *prometheus.CounterVec
	chants   *prometheus.CounterVec
}

// New registers the collectors on a fresh registry. Every known kind and
// status starts at zero so the series exist before the first event.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)

	m := &Metrics{
		reg: reg,
		warnings: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "warnings_total",
			Help:      "Alignment diagnostics by kind.",
		}, []string{"kind"}),
		chants: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "chants_total",
			Help:      "Processed chants by alignment status.",
		}, []string{"status"}),
	}
	for _, k := range diag.Kinds() {
		m.warnings.WithLabelValues(k.String())
	}
	for _, s := range []domain.AlignStatus{domain.AlignStatusAligned, domain.AlignStatusEmpty, domain.AlignStatusFailed} {
		m.chants.WithLabelValues(s.String())
	}
	return m
}

func (m *Metrics) Warn(e diag.Event) {
	m.warnings.WithLabelValues(e.Kind.String()).Inc()
}

// ObserveChant counts one processed chant.
func (m *Metrics) ObserveChant(status domain.AlignStatus) {
	m.chants.WithLabelValues(status.String()).Inc()
}

// Registry exposes the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry { return m.reg }

// WriteFile writes the metrics in the node-exporter textfile format.
func (m *Metrics) WriteFile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.reg); err != nil {
		return fmt.Errorf("diagmetrics: write %s: %w", path, err)
	}
	return nil
}

// WarningCounts gathers the non-zero warning counters keyed by kind.
func (m *Metrics) WarningCounts() (map[string]float64, error) {
	families, err := m.reg.Gather()
	if err != nil {
		return nil, fmt.Errorf("diagmetrics: gather: %w", err)
	}
	name := prometheus.BuildFQName(namespace, "", "warnings_total")
	for _, mf := range families {
		if mf.GetName() == name {
			return counterValues(mf, "kind"), nil
		}
	}
	return map[string]float64{}, nil
}

func counterValues(mf *dto.MetricFamily, label string) map[string]float64 {
	out := make(map[string]float64, len(mf.GetMetric()))
	for _, metric := range mf.GetMetric() {
		v := metric.GetCounter().GetValue()
		if v == 0 {
			continue
		}
		for _, lp := range metric.GetLabel() {
			if lp.GetName() == label {
				out[lp.GetValue()] = v
			}
		}
	}
	return out
}

// Package observe provides observability primitives for phonofix:
// OpenTelemetry metric instruments for the correction engine and a
// Prometheus exporter bridge.
//
// Metrics are recorded through the OpenTelemetry Metrics API. Use
// [InitProvider] in the CLI to register a global meter provider backed by
// a Prometheus exporter; tests should use [NewMetrics] with a custom
// [metric.MeterProvider] to avoid cross-test pollution. A nil *Metrics is
// safe to record against, so library code never needs to branch on
// whether metrics are configured.
package observe

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// meterName is the instrumentation scope name used for all phonofix
// metrics.
const meterName = "github.com/MrWong99/phonofix"

// latencyBuckets defines histogram bucket boundaries (in seconds) sized
// for in-process alignment work.
var latencyBuckets = []float64{
	0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1,
}

// Metrics holds the metric instruments for the correction engine. All
// fields are safe for concurrent use.
type Metrics struct {
	// CorrectDuration tracks end-to-end latency of one correction call.
	CorrectDuration metric.Float64Histogram

	// EntriesAligned counts lexicon entries submitted to the aligner.
	EntriesAligned metric.Int64Counter

	// EntriesPrefiltered counts lexicon entries skipped by the phonetic
	// prefilter before alignment.
	EntriesPrefiltered metric.Int64Counter

	// Candidates counts alignment candidates that survived thresholding.
	Candidates metric.Int64Counter

	// Replacements counts substitutions spliced into corrected sentences.
	Replacements metric.Int64Counter
}

// NewMetrics creates a fully initialised [Metrics] using the given
// [metric.MeterProvider]. Returns an error if any instrument creation
// fails.
func NewMetrics(mp metric.MeterProvider) (*Metrics, error) {
	m := mp.Meter(meterName)
	met := &Metrics{}
	var err error

	if met.CorrectDuration, err = m.Float64Histogram("phonofix.correct.duration",
		metric.WithDescription("Latency of one correction call."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(latencyBuckets...),
	); err != nil {
		return nil, err
	}
	if met.EntriesAligned, err = m.Int64Counter("phonofix.align.entries",
		metric.WithDescription("Lexicon entries submitted to the aligner."),
	); err != nil {
		return nil, err
	}
	if met.EntriesPrefiltered, err = m.Int64Counter("phonofix.prefilter.skipped",
		metric.WithDescription("Lexicon entries skipped by the phonetic prefilter."),
	); err != nil {
		return nil, err
	}
	if met.Candidates, err = m.Int64Counter("phonofix.align.candidates",
		metric.WithDescription("Alignment candidates above the score threshold."),
	); err != nil {
		return nil, err
	}
	if met.Replacements, err = m.Int64Counter("phonofix.correct.replacements",
		metric.WithDescription("Substitutions spliced into corrected sentences."),
	); err != nil {
		return nil, err
	}

	return met, nil
}

// RecordCorrect records one correction call's duration and replacement
// count. Safe on a nil receiver.
func (m *Metrics) RecordCorrect(ctx context.Context, d time.Duration, replacements int) {
	if m == nil {
		return
	}
	m.CorrectDuration.Record(ctx, d.Seconds())
	m.Replacements.Add(ctx, int64(replacements))
}

// AddAligned records entries submitted to the aligner. Safe on a nil
// receiver.
func (m *Metrics) AddAligned(ctx context.Context, n int) {
	if m == nil {
		return
	}
	m.EntriesAligned.Add(ctx, int64(n))
}

// AddPrefiltered records entries skipped by the prefilter. Safe on a nil
// receiver.
func (m *Metrics) AddPrefiltered(ctx context.Context, n int) {
	if m == nil {
		return
	}
	m.EntriesPrefiltered.Add(ctx, int64(n))
}

// AddCandidates records surviving alignment candidates with the given
// outcome attribute. Safe on a nil receiver.
func (m *Metrics) AddCandidates(ctx context.Context, n int, outcome string) {
	if m == nil {
		return
	}
	m.Candidates.Add(ctx, int64(n), metric.WithAttributes(attribute.String("outcome", outcome)))
}

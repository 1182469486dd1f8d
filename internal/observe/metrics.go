// Package observe provides application-wide observability primitives for
// Lorekeeper: OpenTelemetry metrics, distributed tracing, structured logging,
// and HTTP middleware that ties them together.
//
// Metrics are recorded through the OpenTelemetry Metrics API. A Prometheus
// exporter bridge is available via [InitProvider] so that metrics can still be
// scraped via the standard /metrics endpoint. A package-level default
// [Metrics] instance ([DefaultMetrics]) is provided for convenience; tests
// should use [NewMetrics] with a custom [metric.MeterProvider] to avoid
// cross-test pollution.
package observe

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// meterName is the instrumentation scope name used for all Lorekeeper metrics.
const meterName = "github.com/questward/lorekeeper"

// Metrics holds all OpenTelemetry metric instruments for the application.
// All fields are safe for concurrent use; the underlying OTel types handle
// their own synchronisation.
type Metrics struct {
	// ExtractionDuration tracks name-extraction latency. Use with attribute:
	//   attribute.String("strategy", ...)
	ExtractionDuration metric.Float64Histogram

	// HTTPRequestDuration tracks HTTP request processing time. Use with attributes:
	//   attribute.String("method", ...), attribute.String("path", ...)
	HTTPRequestDuration metric.Float64Histogram

	// SuggestionScans counts suggest-npcs scans by extraction strategy.
	SuggestionScans metric.Int64Counter

	// MentionCommits counts committed NPC mentions. Use with attribute:
	//   attribute.String("action", "created"|"updated")
	MentionCommits metric.Int64Counter

	// ModelFallbacks counts model extractions that fell back to the pattern
	// scanner.
	ModelFallbacks metric.Int64Counter

	// StoreErrors counts storage failures. Use with attributes:
	//   attribute.String("store", ...), attribute.String("op", ...)
	StoreErrors metric.Int64Counter
}

// latencyBuckets defines histogram bucket boundaries (in seconds). Extraction
// latency spans quick regex scans up to multi-second model calls.
var latencyBuckets = []float64{
	0.001, 0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10,
}

// NewMetrics creates a fully initialised [Metrics] struct using the given
// [metric.MeterProvider]. Returns an error if any instrument creation fails.
func NewMetrics(mp metric.MeterProvider) (*Metrics, error) {
	m := mp.Meter(meterName)
	var err error
	met := &Metrics{}

	if met.ExtractionDuration, err = m.Float64Histogram("lorekeeper.extraction.duration",
		metric.WithDescription("Latency of NPC name extraction by strategy."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(latencyBuckets...),
	); err != nil {
		return nil, err
	}
	if met.HTTPRequestDuration, err = m.Float64Histogram("lorekeeper.http.request.duration",
		metric.WithDescription("HTTP request latency by method and path."),
		metric.WithUnit("s"),
	); err != nil {
		return nil, err
	}

	if met.SuggestionScans, err = m.Int64Counter("lorekeeper.suggestion.scans",
		metric.WithDescription("Total suggest-npcs scans by extraction strategy."),
	); err != nil {
		return nil, err
	}
	if met.MentionCommits, err = m.Int64Counter("lorekeeper.mention.commits",
		metric.WithDescription("Total committed NPC mentions by action."),
	); err != nil {
		return nil, err
	}
	if met.ModelFallbacks, err = m.Int64Counter("lorekeeper.model.fallbacks",
		metric.WithDescription("Total model extractions that fell back to the pattern scanner."),
	); err != nil {
		return nil, err
	}
	if met.StoreErrors, err = m.Int64Counter("lorekeeper.store.errors",
		metric.WithDescription("Total storage failures by store and operation."),
	); err != nil {
		return nil, err
	}

	return met, nil
}

// defaultMetrics is the lazily-initialised package-level Metrics instance.
var (
	defaultMetrics     *Metrics
	defaultMetricsOnce sync.Once
)

// DefaultMetrics returns the package-level [Metrics] instance, creating it on
// first call using [otel.GetMeterProvider]. Subsequent calls return the same
// pointer. Panics if instrument creation fails (should not happen with the
// global provider).
func DefaultMetrics() *Metrics {
	defaultMetricsOnce.Do(func() {
		var err error
		defaultMetrics, err = NewMetrics(otel.GetMeterProvider())
		if err != nil {
			panic("observe: failed to create default metrics: " + err.Error())
		}
	})
	return defaultMetrics
}

// Attr is a convenience alias for [attribute.String] to reduce verbosity at
// call sites.
func Attr(key, value string) attribute.KeyValue {
	return attribute.String(key, value)
}

// RecordSuggestionScan records one suggest-npcs scan with its strategy and
// latency.
func (m *Metrics) RecordSuggestionScan(ctx context.Context, strategy string, seconds float64) {
	attrs := metric.WithAttributes(attribute.String("strategy", strategy))
	m.SuggestionScans.Add(ctx, 1, attrs)
	m.ExtractionDuration.Record(ctx, seconds, attrs)
}

// RecordMentionCommit records one committed mention by action.
func (m *Metrics) RecordMentionCommit(ctx context.Context, action string) {
	m.MentionCommits.Add(ctx, 1,
		metric.WithAttributes(attribute.String("action", action)),
	)
}

// RecordStoreError records one storage failure by store and operation.
func (m *Metrics) RecordStoreError(ctx context.Context, store, op string) {
	m.StoreErrors.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("store", store),
			attribute.String("op", op),
		),
	)
}

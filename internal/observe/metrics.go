// Package observe provides observability primitives for voicegram:
// OpenTelemetry metric instruments and a Prometheus exporter bridge so the
// bot can be scraped via the standard /metrics endpoint.
package observe

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

// meterName is the instrumentation scope name used for all voicegram metrics.
const meterName = "voicegram"

// Metrics holds all OpenTelemetry metric instruments for the bot. All fields
// are safe for concurrent use — the underlying OTel types handle their own
// synchronisation.
type Metrics struct {
	// --- Latency histograms per pipeline stage ---

	// STTDuration tracks speech-to-text transcription latency.
	STTDuration metric.Float64Histogram

	// AssistantDuration tracks thread exchange latency (message append, run,
	// reply extraction).
	AssistantDuration metric.Float64Histogram

	// TTSDuration tracks text-to-speech synthesis latency.
	TTSDuration metric.Float64Histogram

	// --- Counters ---

	// Messages counts handled messages. Use with attributes:
	//   attribute.String("kind", "voice"|"text"), attribute.String("status", "ok"|"error")
	Messages metric.Int64Counter

	// Faults counts classified provider faults. Use with attribute:
	//   attribute.String("kind", ...)
	Faults metric.Int64Counter

	// SweptFiles counts scratch files removed by the background sweep.
	SweptFiles metric.Int64Counter

	// --- Gauges ---

	// ActiveRequests tracks the number of in-flight message requests.
	ActiveRequests metric.Int64UpDownCounter
}

// latencyBuckets defines histogram bucket boundaries (in seconds) sized for
// remote speech/assistant API calls.
var latencyBuckets = []float64{
	0.1, 0.25, 0.5, 1, 2.5, 5, 10, 20, 30, 60,
}

// NewMetrics creates a fully initialised [Metrics] using the given
// [metric.MeterProvider]. Returns an error if any instrument creation fails.
func NewMetrics(mp metric.MeterProvider) (*Metrics, error) {
	m := mp.Meter(meterName)
	var err error
	met := &Metrics{}

	if met.STTDuration, err = m.Float64Histogram("voicegram.stt.duration",
		metric.WithDescription("Latency of speech-to-text transcription."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(latencyBuckets...),
	); err != nil {
		return nil, err
	}
	if met.AssistantDuration, err = m.Float64Histogram("voicegram.assistant.duration",
		metric.WithDescription("Latency of a full assistant thread exchange."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(latencyBuckets...),
	); err != nil {
		return nil, err
	}
	if met.TTSDuration, err = m.Float64Histogram("voicegram.tts.duration",
		metric.WithDescription("Latency of text-to-speech synthesis."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(latencyBuckets...),
	); err != nil {
		return nil, err
	}

	if met.Messages, err = m.Int64Counter("voicegram.messages",
		metric.WithDescription("Handled messages by kind and status."),
	); err != nil {
		return nil, err
	}
	if met.Faults, err = m.Int64Counter("voicegram.faults",
		metric.WithDescription("Classified provider faults by kind."),
	); err != nil {
		return nil, err
	}
	if met.SweptFiles, err = m.Int64Counter("voicegram.scratch.swept_files",
		metric.WithDescription("Scratch files removed by the background sweep."),
	); err != nil {
		return nil, err
	}

	if met.ActiveRequests, err = m.Int64UpDownCounter("voicegram.requests.active",
		metric.WithDescription("In-flight message requests."),
	); err != nil {
		return nil, err
	}

	return met, nil
}

// NewNop returns a Metrics whose instruments discard every record. Intended
// for tests and for running without the metrics listener.
func NewNop() *Metrics {
	m, _ := NewMetrics(noop.NewMeterProvider())
	return m
}

// RecordMessage increments the message counter for one handled message.
func (m *Metrics) RecordMessage(ctx context.Context, kind, status string) {
	m.Messages.Add(ctx, 1, metric.WithAttributes(
		attribute.String("kind", kind),
		attribute.String("status", status),
	))
}

// RecordFault increments the fault counter for one classified failure.
func (m *Metrics) RecordFault(ctx context.Context, kind string) {
	m.Faults.Add(ctx, 1, metric.WithAttributes(
		attribute.String("kind", kind),
	))
}

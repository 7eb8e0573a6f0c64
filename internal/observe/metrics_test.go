package observe_test

import (
	"context"
	"testing"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"voicegram/internal/observe"
)

// collect gathers all exported metric names from the reader.
func collect(t *testing.T, reader *sdkmetric.ManualReader) map[string]bool {
	t.Helper()
	var rm metricdata.ResourceMetrics
	if err := reader.Collect(context.Background(), &rm); err != nil {
		t.Fatalf("Collect() error: %v", err)
	}
	names := make(map[string]bool)
	for _, scope := range rm.ScopeMetrics {
		for _, m := range scope.Metrics {
			names[m.Name] = true
		}
	}
	return names
}

func TestNewMetrics_RecordsInstruments(t *testing.T) {
	t.Parallel()

	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))

	m, err := observe.NewMetrics(mp)
	if err != nil {
		t.Fatalf("NewMetrics() error: %v", err)
	}

	ctx := context.Background()
	m.RecordMessage(ctx, "voice", "ok")
	m.RecordFault(ctx, "timeout")
	m.STTDuration.Record(ctx, 1.2)
	m.AssistantDuration.Record(ctx, 3.4)
	m.TTSDuration.Record(ctx, 0.8)
	m.SweptFiles.Add(ctx, 2)
	m.ActiveRequests.Add(ctx, 1)
	m.ActiveRequests.Add(ctx, -1)

	names := collect(t, reader)
	for _, want := range []string{
		"voicegram.messages",
		"voicegram.faults",
		"voicegram.stt.duration",
		"voicegram.assistant.duration",
		"voicegram.tts.duration",
		"voicegram.scratch.swept_files",
		"voicegram.requests.active",
	} {
		if !names[want] {
			t.Errorf("metric %q was not exported; got %v", want, names)
		}
	}
}

func TestNewNop_DoesNotPanic(t *testing.T) {
	t.Parallel()

	m := observe.NewNop()
	ctx := context.Background()
	m.RecordMessage(ctx, "text", "error")
	m.RecordFault(ctx, "rate_limit")
	m.TTSDuration.Record(ctx, 0.1)
}

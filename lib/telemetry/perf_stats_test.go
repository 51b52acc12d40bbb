package telemetry

import (
	"context"
	"testing"
)

func TestInstrumentPerfStatsStopsWithContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// the sampler goroutine must exit once the context is done
	InstrumentPerfStats(ctx)
}

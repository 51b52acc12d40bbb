package main

import (
	"context"

	"arenafeed/cmd/arenafeed/commands"
	"arenafeed/lib/serviceutil"
	"arenafeed/lib/telemetry"
)

func main() {
	tel, err := telemetry.SetupFromEnv(context.Background(), "arenafeed")
	if err != nil {
		serviceutil.Fatal("setup telemetry", err)
	}
	defer tel.Shutdown(context.Background())

	ctx := serviceutil.SignalContext()
	telemetry.InstrumentPerfStats(ctx)

	commands.ExecuteContext(ctx)
}

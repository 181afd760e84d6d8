package main

import (
	"context"

	"cayasync/cmd/cayasync/commands"
	"cayasync/lib/osutil"
	"cayasync/lib/telemetry"
)

func main() {
	ctx := osutil.SignalContext()

	err := telemetry.SetupFromEnv(ctx, "cayasync")
	if err != nil {
		osutil.Fatal("failed to setup telemetry", err)
	}
	defer telemetry.Shutdown(context.Background())
	telemetry.InstrumentPerfStats(ctx)

	commands.ExecuteContext(ctx)
}

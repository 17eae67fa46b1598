package main

import (
	"context"

	"bookshelf-backend/cmd/bookshelf-cli/commands"
	"bookshelf-backend/lib/serviceutil"
	"bookshelf-backend/lib/telemetry"
)

func main() {
	ctx := serviceutil.SignalContext()

	tel, err := telemetry.SetupFromEnv(ctx, "bookshelf-cli")
	if err != nil {
		serviceutil.Fatal("setup telemetry", err)
	}
	defer tel.Shutdown(context.Background())
	telemetry.InstrumentPerfStats(ctx)

	commands.ExecuteContext(ctx)
}

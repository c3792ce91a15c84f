package main

import (
	"context"
	"errors"
	"lmssynergy/cmd/synergy-cli/commands"
	"lmssynergy/lib/configutil"
	"lmssynergy/lib/serviceutil"
	"lmssynergy/lib/telemetry"
	"log/slog"
	"os"
)

func main() {
	err := configutil.LoadEnv()
	if err != nil {
		serviceutil.Fatal("failed to load .env", err)
	}

	ctx, stop := serviceutil.SignalContext(context.Background())
	defer stop()

	tel, err := telemetry.SetupFromEnv(ctx, "synergy-cli")
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("failed to setup telemetry", "err", err)
	}
	defer tel.Shutdown(context.Background())

	commands.ExecuteContext(ctx)
}

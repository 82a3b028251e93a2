package main

import (
	"clutchintel/cmd/clutchintel/commands"
	"clutchintel/lib/serviceutil"
	"clutchintel/lib/telemetry"
)

func main() {
	ctx := serviceutil.SignalContext()
	telemetry.SetupFromEnv(ctx, "clutchintel")
	telemetry.InitSlog(true)
	commands.ExecuteContext(ctx)
}

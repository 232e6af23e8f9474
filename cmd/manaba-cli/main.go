package main

import (
	"context"

	"manaba-go/cmd/manaba-cli/commands"
	"manaba-go/lib/telemetry"
)

func main() {
	telemetry.SetupFromEnv(context.Background(), "manaba-cli")
	telemetry.InitSlog(true)
	commands.ExecuteContext(context.Background())
}

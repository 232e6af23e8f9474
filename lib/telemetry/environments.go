package telemetry

import (
	"context"
	"log/slog"
	"testing"

	"manaba-go/lib/configutil"
)

var setupTestEnvironments = map[string]bool{}

// SetupForTesting initializes slog and, when a telemetry.json5 exists
// somewhere above the working directory, the otel providers. Tests must
// still run on machines with no collector configured, so a missing config
// is not an error.
func SetupForTesting(t testing.TB, serviceName string) func() {
	if setupTestEnvironments[serviceName] {
		return func() {}
	}
	setupTestEnvironments[serviceName] = true

	InitSlog(true)

	tel, err := SetupFromEnv(context.Background(), serviceName)
	if err != nil {
		slog.Debug("running without a telemetry collector", "err", err)
		return func() {}
	}

	return func() {
		err := tel.Shutdown(context.Background())
		if err != nil {
			t.Fatal(err)
		}
	}
}

// SetupFromEnv walks up the filesystem from the cwd looking for a
// telemetry.json5 config, then uses it to set up the otel providers.
func SetupFromEnv(ctx context.Context, serviceName string) (Telemetry, error) {
	config, err := configutil.ReadRecursively[Config]("telemetry.json5")
	if err != nil {
		return Telemetry{}, err
	}
	return Setup(ctx, serviceName, config)
}

package app

import (
	"log/slog"
	"os"
)

const testModeEnv = "DASHBOARD_TEST_MODE"

// InTestMode reports whether the binaries should exit before touching the network.
func InTestMode() bool {
	return os.Getenv(testModeEnv) == "1"
}

// SkipRuntime logs and reports true when component must not start in test mode.
func SkipRuntime(logger *slog.Logger, component string) bool {
	if !InTestMode() {
		return false
	}
	if logger != nil {
		logger.Info("test mode enabled, skipping runtime", slog.String("component", component))
	}
	return true
}

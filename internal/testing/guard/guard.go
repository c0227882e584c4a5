// Package guard switches the binaries into test mode when imported by a test,
// so calling main never dials Redis or binds a port.
package guard

import "os"

func init() {
	if os.Getenv("DASHBOARD_TEST_MODE") == "" {
		_ = os.Setenv("DASHBOARD_TEST_MODE", "1")
	}
}

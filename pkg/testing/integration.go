package testing

import (
	"os"
	"testing"
)

// SkipUnlessIntegration skips tests that need Docker unless
// INTEGRATION_TESTS=1 is set in the environment.
func SkipUnlessIntegration(tb testing.TB) {
	tb.Helper()

	if os.Getenv("INTEGRATION_TESTS") != "1" {
		tb.Skip("set INTEGRATION_TESTS=1 to run container-backed tests")
	}
}

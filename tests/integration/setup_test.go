package integration

import (
	"os"
	"testing"
)

func TestMain(m *testing.M) {
	// Skip if INTEGRATION_TEST is not set
	if os.Getenv("INTEGRATION_TEST") != "1" {
		os.Exit(0)
	}

	os.Exit(m.Run())
}

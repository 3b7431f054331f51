package integration

import (
	"os"
	"testing"
)

// BaseURL points the suite at a running API server. The suite is skipped
// unless TOKENWISE_API_URL is set, so unit test runs stay self-contained.
var BaseURL = os.Getenv("TOKENWISE_API_URL")

func TestMain(m *testing.M) {
	os.Exit(m.Run())
}

func requireServer(t *testing.T) {
	t.Helper()
	if BaseURL == "" {
		t.Skip("TOKENWISE_API_URL not set; skipping integration tests")
	}
}

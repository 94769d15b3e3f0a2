package testutil

import (
	"os"
	"testing"
)

// SetupTestEnv sets environment variables for the duration of a test.
//
// The original environment is restored automatically when the test completes.
// Tests using it must not call t.Parallel().
//
//	SetupTestEnv(t, map[string]string{
//	    "WORK_TOKEN": "sk-123",
//	})
func SetupTestEnv(t *testing.T, vars map[string]string) {
	t.Helper()

	for key, value := range vars {
		t.Setenv(key, value)
	}
}

// UnsetEnv removes variables for the duration of a test and restores
// them afterwards.
func UnsetEnv(t *testing.T, keys ...string) {
	t.Helper()

	for _, key := range keys {
		// t.Setenv registers the restore; the unset follows it.
		t.Setenv(key, "")
		if err := os.Unsetenv(key); err != nil {
			t.Fatalf("Failed to unset environment variable %s: %v", key, err)
		}
	}
}

// ConfigDir points CCM_CONFIG_DIR at a fresh temporary directory and
// returns it.
func ConfigDir(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	t.Setenv("CCM_CONFIG_DIR", dir)
	return dir
}

package credentials

import (
	"os"
	"strings"

	"github.com/systmms/ccm/internal/credentials/contracts"
)

// NewKeychainClient returns the keychain client for the running platform.
func NewKeychainClient() contracts.KeychainClient {
	return newPlatformKeychainClient()
}

func isCI() bool {
	return os.Getenv("CI") != ""
}

// isAccessDenied checks if an error indicates access was denied
func isAccessDenied(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "access denied") ||
		strings.Contains(msg, "user denied") ||
		strings.Contains(msg, "canceled")
}

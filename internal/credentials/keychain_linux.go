//go:build linux

package credentials

import (
	"errors"
	"os"

	"github.com/zalando/go-keyring"

	"github.com/systmms/ccm/internal/credentials/contracts"
)

// linuxKeychainClient talks to the freedesktop Secret Service (gnome-keyring,
// KWallet) over D-Bus.
type linuxKeychainClient struct{}

func newPlatformKeychainClient() contracts.KeychainClient {
	return &linuxKeychainClient{}
}

func (c *linuxKeychainClient) Query(service, account string) ([]byte, error) {
	secret, err := keyring.Get(service, account)
	if err != nil {
		return nil, mapKeyringError(err)
	}
	return []byte(secret), nil
}

func (c *linuxKeychainClient) Set(service, account string, secret []byte) error {
	return mapKeyringError(keyring.Set(service, account, string(secret)))
}

func (c *linuxKeychainClient) Delete(service, account string) error {
	return mapKeyringError(keyring.Delete(service, account))
}

// Validate probes the Secret Service with a lookup that is expected to
// miss. Any answer other than not-found means the service is unreachable.
func (c *linuxKeychainClient) Validate() error {
	_, err := keyring.Get("ccm-probe", "ccm-probe")
	if err == nil || errors.Is(err, keyring.ErrNotFound) {
		return nil
	}
	return err
}

// IsAvailable reports whether a D-Bus session is reachable.
func (c *linuxKeychainClient) IsAvailable() bool {
	return os.Getenv("DBUS_SESSION_BUS_ADDRESS") != "" ||
		os.Getenv("DISPLAY") != "" ||
		os.Getenv("WAYLAND_DISPLAY") != ""
}

func (c *linuxKeychainClient) IsHeadless() bool {
	if os.Getenv("SSH_TTY") != "" || isCI() {
		return true
	}
	return os.Getenv("DISPLAY") == "" && os.Getenv("WAYLAND_DISPLAY") == ""
}

func mapKeyringError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, keyring.ErrNotFound):
		return contracts.ErrKeychainItemNotFound
	case isAccessDenied(err):
		return contracts.ErrKeychainAccessDenied
	default:
		return err
	}
}

var _ contracts.KeychainClient = (*linuxKeychainClient)(nil)

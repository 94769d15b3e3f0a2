//go:build darwin

package credentials

import (
	"errors"
	"os"

	"github.com/zalando/go-keyring"

	"github.com/systmms/ccm/internal/credentials/contracts"
)

// darwinKeychainClient talks to the macOS login keychain.
type darwinKeychainClient struct{}

func newPlatformKeychainClient() contracts.KeychainClient {
	return &darwinKeychainClient{}
}

func (c *darwinKeychainClient) Query(service, account string) ([]byte, error) {
	secret, err := keyring.Get(service, account)
	if err != nil {
		return nil, mapKeyringError(err)
	}
	return []byte(secret), nil
}

func (c *darwinKeychainClient) Set(service, account string, secret []byte) error {
	return mapKeyringError(keyring.Set(service, account, string(secret)))
}

func (c *darwinKeychainClient) Delete(service, account string) error {
	return mapKeyringError(keyring.Delete(service, account))
}

// Validate always succeeds; the login keychain exists for every user.
func (c *darwinKeychainClient) Validate() error {
	return nil
}

func (c *darwinKeychainClient) IsAvailable() bool {
	return true
}

func (c *darwinKeychainClient) IsHeadless() bool {
	return os.Getenv("SSH_TTY") != "" || isCI()
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

var _ contracts.KeychainClient = (*darwinKeychainClient)(nil)

//go:build !darwin && !linux

package credentials

import (
	"github.com/systmms/ccm/internal/credentials/contracts"
)

// unsupportedKeychainClient is a stub for unsupported platforms
type unsupportedKeychainClient struct{}

func newPlatformKeychainClient() contracts.KeychainClient {
	return &unsupportedKeychainClient{}
}

func (c *unsupportedKeychainClient) Query(service, account string) ([]byte, error) {
	return nil, contracts.ErrKeychainUnsupportedPlatform
}

func (c *unsupportedKeychainClient) Set(service, account string, secret []byte) error {
	return contracts.ErrKeychainUnsupportedPlatform
}

func (c *unsupportedKeychainClient) Delete(service, account string) error {
	return contracts.ErrKeychainUnsupportedPlatform
}

func (c *unsupportedKeychainClient) Validate() error {
	return contracts.ErrKeychainUnsupportedPlatform
}

func (c *unsupportedKeychainClient) IsAvailable() bool {
	return false
}

func (c *unsupportedKeychainClient) IsHeadless() bool {
	return false
}

var _ contracts.KeychainClient = (*unsupportedKeychainClient)(nil)

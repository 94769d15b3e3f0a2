// Package contracts defines the backend interfaces the credential
// resolver depends on. Tests substitute fakes for them.
package contracts

import "errors"

// KeychainClient abstracts OS keychain operations.
type KeychainClient interface {
	// Query retrieves a secret from the keychain
	Query(service, account string) ([]byte, error)

	// Set stores or replaces a secret
	Set(service, account string, secret []byte) error

	// Delete removes a secret
	Delete(service, account string) error

	// Validate checks if the keychain is accessible
	Validate() error

	// IsAvailable returns true if keychain is available on this platform
	IsAvailable() bool

	// IsHeadless returns true if running in headless environment
	IsHeadless() bool
}

// Decryptor turns the contents of a sealed credential file into the
// plaintext token.
type Decryptor interface {
	Decrypt(ciphertext []byte) ([]byte, error)
}

// Encryptor is the write side of Decryptor.
type Encryptor interface {
	Encrypt(plaintext []byte) ([]byte, error)
}

// Keychain sentinel errors returned by KeychainClient implementations.
var (
	ErrKeychainItemNotFound        = errors.New("keychain item not found")
	ErrKeychainAccessDenied        = errors.New("keychain access denied")
	ErrKeychainUnsupportedPlatform = errors.New("keychain not supported on this platform")
)

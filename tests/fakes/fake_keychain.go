package fakes

import (
	"sync"

	"github.com/systmms/ccm/internal/credentials/contracts"
)

// FakeKeychainClient is an in-memory contracts.KeychainClient.
type FakeKeychainClient struct {
	mu sync.Mutex

	// Secrets is a map of service -> account -> value
	Secrets map[string]map[string][]byte

	// Available controls whether the keychain reports as available
	Available bool

	// Headless controls whether the environment is reported as headless
	Headless bool

	// ValidateErr is returned by Validate() if set
	ValidateErr error

	// QueryErr is returned by Query() if set (overrides Secrets lookup)
	QueryErr error

	// SetErr is returned by Set() if set
	SetErr error

	// Queries counts Query calls.
	Queries int
}

// NewFakeKeychainClient creates a new fake keychain client with defaults
func NewFakeKeychainClient() *FakeKeychainClient {
	return &FakeKeychainClient{
		Secrets:   make(map[string]map[string][]byte),
		Available: true,
	}
}

// SetSecret adds a secret to the fake keychain
func (f *FakeKeychainClient) SetSecret(service, account string, value []byte) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.put(service, account, value)
}

// Secret returns the stored value and whether it exists.
func (f *FakeKeychainClient) Secret(service, account string) ([]byte, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	v, ok := f.Secrets[service][account]
	return clone(v), ok
}

func (f *FakeKeychainClient) Query(service, account string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.Queries++
	if f.QueryErr != nil {
		return nil, f.QueryErr
	}
	if value, ok := f.Secrets[service][account]; ok {
		return clone(value), nil
	}
	return nil, contracts.ErrKeychainItemNotFound
}

func (f *FakeKeychainClient) Set(service, account string, secret []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.SetErr != nil {
		return f.SetErr
	}
	f.put(service, account, secret)
	return nil
}

func (f *FakeKeychainClient) Delete(service, account string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.Secrets[service][account]; !ok {
		return contracts.ErrKeychainItemNotFound
	}
	delete(f.Secrets[service], account)
	return nil
}

func (f *FakeKeychainClient) Validate() error {
	return f.ValidateErr
}

func (f *FakeKeychainClient) IsAvailable() bool {
	return f.Available
}

func (f *FakeKeychainClient) IsHeadless() bool {
	return f.Headless
}

func (f *FakeKeychainClient) put(service, account string, value []byte) {
	if f.Secrets == nil {
		f.Secrets = make(map[string]map[string][]byte)
	}
	if f.Secrets[service] == nil {
		f.Secrets[service] = make(map[string][]byte)
	}
	f.Secrets[service][account] = clone(value)
}

func clone(b []byte) []byte {
	if b == nil {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}

var _ contracts.KeychainClient = (*FakeKeychainClient)(nil)

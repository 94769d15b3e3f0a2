package sealed

import (
	"errors"
	"fmt"
	"os"

	"github.com/systmms/ccm/internal/credentials/contracts"
)

// DefaultPassphraseEnv is read when no other passphrase source is set.
const DefaultPassphraseEnv = "CCM_PASSPHRASE"

// PassphraseSource supplies the passphrase for sealing and opening.
type PassphraseSource interface {
	Passphrase() ([]byte, error)
	Describe() string
}

// EnvPassphrase reads the passphrase from an environment variable on
// every call.
type EnvPassphrase string

// Passphrase implements PassphraseSource.
func (e EnvPassphrase) Passphrase() ([]byte, error) {
	v, ok := os.LookupEnv(e.name())
	if !ok || v == "" {
		return nil, fmt.Errorf("%w: %s is not set", ErrNoPassphrase, e.name())
	}
	return []byte(v), nil
}

// Describe implements PassphraseSource.
func (e EnvPassphrase) Describe() string {
	return "environment:" + e.name()
}

func (e EnvPassphrase) name() string {
	if e == "" {
		return DefaultPassphraseEnv
	}
	return string(e)
}

type keychainPassphrase struct {
	client  contracts.KeychainClient
	service string
	account string
}

// KeychainPassphrase reads the passphrase from the OS keychain.
func KeychainPassphrase(client contracts.KeychainClient, service, account string) PassphraseSource {
	return &keychainPassphrase{client: client, service: service, account: account}
}

func (k *keychainPassphrase) Passphrase() ([]byte, error) {
	v, err := k.client.Query(k.service, k.account)
	if err != nil {
		if errors.Is(err, contracts.ErrKeychainItemNotFound) {
			return nil, fmt.Errorf("%w: no keychain entry %s/%s", ErrNoPassphrase, k.service, k.account)
		}
		return nil, fmt.Errorf("read passphrase from keychain: %w", err)
	}
	if len(v) == 0 {
		return nil, fmt.Errorf("%w: keychain entry %s/%s is empty", ErrNoPassphrase, k.service, k.account)
	}
	return v, nil
}

func (k *keychainPassphrase) Describe() string {
	return fmt.Sprintf("keychain:%s/%s", k.service, k.account)
}

// PassphraseDecryptor seals and opens credential files with a passphrase
// fetched from its source on each call.
type PassphraseDecryptor struct {
	source PassphraseSource
}

// NewPassphraseDecryptor creates a decryptor. A nil source falls back to
// EnvPassphrase(DefaultPassphraseEnv).
func NewPassphraseDecryptor(source PassphraseSource) *PassphraseDecryptor {
	if source == nil {
		source = EnvPassphrase(DefaultPassphraseEnv)
	}
	return &PassphraseDecryptor{source: source}
}

// Decrypt implements contracts.Decryptor.
func (d *PassphraseDecryptor) Decrypt(ciphertext []byte) ([]byte, error) {
	pass, err := d.source.Passphrase()
	if err != nil {
		return nil, err
	}
	defer wipe(pass)
	return Open(pass, ciphertext)
}

// Encrypt implements contracts.Encryptor.
func (d *PassphraseDecryptor) Encrypt(plaintext []byte) ([]byte, error) {
	pass, err := d.source.Passphrase()
	if err != nil {
		return nil, err
	}
	defer wipe(pass)
	return Seal(pass, plaintext)
}

// Source returns the configured passphrase source.
func (d *PassphraseDecryptor) Source() PassphraseSource {
	return d.source
}

var (
	_ contracts.Decryptor = (*PassphraseDecryptor)(nil)
	_ contracts.Encryptor = (*PassphraseDecryptor)(nil)
)

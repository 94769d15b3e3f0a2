// Package sealed implements the encrypted credential file format.
//
// A sealed file is
//
//	"CCMSEAL1" | salt (16 bytes) | nonce (24 bytes) | secretbox ciphertext
//
// The key is derived from a passphrase with scrypt (N=32768, r=8, p=1)
// and the payload is sealed with NaCl secretbox, which authenticates the
// ciphertext: a wrong passphrase and a tampered file fail the same way.
package sealed

import (
	"bytes"
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/natefinch/atomic"
	"golang.org/x/crypto/nacl/secretbox"
	"golang.org/x/crypto/scrypt"
)

// Magic prefixes every sealed file.
const Magic = "CCMSEAL1"

const (
	saltSize  = 16
	nonceSize = 24
	keySize   = 32

	scryptN = 1 << 15
	scryptR = 8
	scryptP = 1

	headerSize = len(Magic) + saltSize + nonceSize
)

var (
	// ErrInvalidFormat means the data is not a sealed file.
	ErrInvalidFormat = errors.New("not a sealed credential file")

	// ErrAuthentication means the passphrase is wrong or the file was
	// modified.
	ErrAuthentication = errors.New("sealed file authentication failed")

	// ErrNoPassphrase means no passphrase could be obtained.
	ErrNoPassphrase = errors.New("no passphrase available")
)

// Seal encrypts plaintext under passphrase.
func Seal(passphrase, plaintext []byte) ([]byte, error) {
	if len(passphrase) == 0 {
		return nil, ErrNoPassphrase
	}

	var salt [saltSize]byte
	if _, err := io.ReadFull(rand.Reader, salt[:]); err != nil {
		return nil, fmt.Errorf("generate salt: %w", err)
	}
	var nonce [nonceSize]byte
	if _, err := io.ReadFull(rand.Reader, nonce[:]); err != nil {
		return nil, fmt.Errorf("generate nonce: %w", err)
	}

	key, err := deriveKey(passphrase, salt[:])
	if err != nil {
		return nil, err
	}
	defer wipe(key[:])

	out := make([]byte, 0, headerSize+len(plaintext)+secretbox.Overhead)
	out = append(out, Magic...)
	out = append(out, salt[:]...)
	out = append(out, nonce[:]...)
	return secretbox.Seal(out, plaintext, &nonce, key), nil
}

// Open decrypts data produced by Seal.
func Open(passphrase, data []byte) ([]byte, error) {
	if len(passphrase) == 0 {
		return nil, ErrNoPassphrase
	}
	if len(data) < headerSize+secretbox.Overhead || !bytes.HasPrefix(data, []byte(Magic)) {
		return nil, ErrInvalidFormat
	}

	salt := data[len(Magic) : len(Magic)+saltSize]
	var nonce [nonceSize]byte
	copy(nonce[:], data[len(Magic)+saltSize:headerSize])

	key, err := deriveKey(passphrase, salt)
	if err != nil {
		return nil, err
	}
	defer wipe(key[:])

	plaintext, ok := secretbox.Open(nil, data[headerSize:], &nonce, key)
	if !ok {
		return nil, ErrAuthentication
	}
	if plaintext == nil {
		plaintext = []byte{}
	}
	return plaintext, nil
}

// WriteFile atomically replaces path with data, readable only by the
// owner.
func WriteFile(path string, data []byte) error {
	if err := atomic.WriteFile(path, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("write sealed file %s: %w", path, err)
	}
	if err := os.Chmod(path, 0600); err != nil {
		return fmt.Errorf("chmod sealed file %s: %w", path, err)
	}
	return nil
}

func deriveKey(passphrase, salt []byte) (*[keySize]byte, error) {
	derived, err := scrypt.Key(passphrase, salt, scryptN, scryptR, scryptP, keySize)
	if err != nil {
		return nil, fmt.Errorf("derive key: %w", err)
	}
	var key [keySize]byte
	copy(key[:], derived)
	wipe(derived)
	return &key, nil
}

func wipe(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

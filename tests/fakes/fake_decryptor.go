package fakes

import (
	"bytes"
	"errors"

	"github.com/systmms/ccm/internal/credentials/contracts"
)

// ErrFakeDecrypt is returned by FakeDecryptor for data it did not produce.
var ErrFakeDecrypt = errors.New("fake decryption failed")

// FakeDecryptor "encrypts" by prefixing a marker. It satisfies both
// contracts.Decryptor and contracts.Encryptor.
type FakeDecryptor struct {
	// Prefix marks fake ciphertext; defaults to "fake:".
	Prefix []byte

	// Err, when set, is returned by every call.
	Err error
}

func (f *FakeDecryptor) prefix() []byte {
	if len(f.Prefix) == 0 {
		return []byte("fake:")
	}
	return f.Prefix
}

func (f *FakeDecryptor) Encrypt(plaintext []byte) ([]byte, error) {
	if f.Err != nil {
		return nil, f.Err
	}
	return append(append([]byte{}, f.prefix()...), plaintext...), nil
}

func (f *FakeDecryptor) Decrypt(ciphertext []byte) ([]byte, error) {
	if f.Err != nil {
		return nil, f.Err
	}
	if !bytes.HasPrefix(ciphertext, f.prefix()) {
		return nil, ErrFakeDecrypt
	}
	return append([]byte{}, ciphertext[len(f.prefix()):]...), nil
}

var (
	_ contracts.Decryptor = (*FakeDecryptor)(nil)
	_ contracts.Encryptor = (*FakeDecryptor)(nil)
)

package secure

import (
	"errors"
	"sync"

	"github.com/awnumar/memguard"
)

// Redacted is what a Secret prints as.
const Redacted = "[REDACTED]"

// ErrDestroyed is returned when a destroyed Secret is revealed.
var ErrDestroyed = errors.New("secret has been destroyed")

// Secret holds a credential encrypted in memory.
type Secret struct {
	mu        sync.RWMutex
	enclave   *memguard.Enclave
	empty     bool
	destroyed bool
}

// NewSecret moves data into a protected enclave. The caller's slice is
// wiped.
func NewSecret(data []byte) *Secret {
	if len(data) == 0 {
		return &Secret{empty: true}
	}
	return &Secret{enclave: memguard.NewEnclave(data)}
}

// NewSecretString is NewSecret for string input.
func NewSecretString(s string) *Secret {
	return NewSecret([]byte(s))
}

// Reveal decrypts the secret and passes the plaintext to fn. The buffer
// is wiped when fn returns; fn must not retain it.
func (s *Secret) Reveal(fn func([]byte) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.destroyed {
		return ErrDestroyed
	}
	if s.empty {
		return fn([]byte{})
	}

	locked, err := s.enclave.Open()
	if err != nil {
		return err
	}
	defer locked.Destroy()

	return fn(locked.Bytes())
}

// Copy returns a plaintext copy. Use it only at the edge where the value
// must leave the process, e.g. printing to stdout.
func (s *Secret) Copy() ([]byte, error) {
	var out []byte
	err := s.Reveal(func(b []byte) error {
		out = make([]byte, len(b))
		copy(out, b)
		return nil
	})
	return out, err
}

// Len returns the plaintext length, or 0 once destroyed.
func (s *Secret) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.destroyed || s.empty {
		return 0
	}
	return s.enclave.Size()
}

// Destroy drops the enclave. It is safe to call more than once.
func (s *Secret) Destroy() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.enclave = nil
	s.destroyed = true
}

// String implements fmt.Stringer.
func (s *Secret) String() string {
	return Redacted
}

// GoString implements fmt.GoStringer.
func (s *Secret) GoString() string {
	return Redacted
}

// Purge wipes every enclave key and locked buffer in the process. Call it
// on exit.
func Purge() {
	memguard.Purge()
}

package credentials

import (
	"errors"
	"fmt"
)

// Resolution sentinel errors matched with errors.Is.
var (
	ErrCredentialNotFound   = errors.New("credential not found in keychain")
	ErrKeychainUnavailable  = errors.New("keychain unavailable")
	ErrEnvVarNotSet         = errors.New("environment variable not set")
	ErrFileNotFound         = errors.New("encrypted credential file not found")
	ErrDecryptionFailed     = errors.New("credential decryption failed")
	ErrUnsupportedOperation = errors.New("operation not supported for this credential source")
)

// ResolutionError describes a failed credential lookup. It never carries
// the secret itself.
type ResolutionError struct {
	Backend   string // "keychain", "environment", "encrypted"
	Profile   string // keychain account; empty for bare sources
	Reference string // service, variable name or path
	Err       error
}

func (e *ResolutionError) Error() string {
	if e.Profile == "" {
		return fmt.Sprintf("%s credential %s: %v", e.Backend, e.Reference, e.Err)
	}
	return fmt.Sprintf("%s credential %s for profile %q: %v", e.Backend, e.Reference, e.Profile, e.Err)
}

func (e *ResolutionError) Unwrap() error {
	return e.Err
}

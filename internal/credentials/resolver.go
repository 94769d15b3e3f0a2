// Package credentials turns a profile's credential source into the
// secret it describes. Every call goes to the backend; nothing is cached.
package credentials

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/systmms/ccm/internal/credentials/contracts"
	"github.com/systmms/ccm/internal/logging"
	"github.com/systmms/ccm/internal/metrics"
	"github.com/systmms/ccm/internal/sealed"
	"github.com/systmms/ccm/internal/secure"
	"github.com/systmms/ccm/pkg/profile"
)

// Resolver resolves credential sources against their backends.
type Resolver struct {
	keychain  contracts.KeychainClient
	decryptor contracts.Decryptor
	encryptor contracts.Encryptor
	lookupEnv func(string) (string, bool)
	logger    *logging.Logger
	metrics   *metrics.Recorder
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithKeychainClient overrides the platform keychain client.
func WithKeychainClient(c contracts.KeychainClient) Option {
	return func(r *Resolver) { r.keychain = c }
}

// WithDecryptor sets the decryptor for encrypted sources. If it also
// implements contracts.Encryptor it is used for Store.
func WithDecryptor(d contracts.Decryptor) Option {
	return func(r *Resolver) {
		r.decryptor = d
		if e, ok := d.(contracts.Encryptor); ok && r.encryptor == nil {
			r.encryptor = e
		}
	}
}

// WithEncryptor sets the encryptor used to write encrypted sources.
func WithEncryptor(e contracts.Encryptor) Option {
	return func(r *Resolver) { r.encryptor = e }
}

// WithLookupEnv replaces os.LookupEnv.
func WithLookupEnv(fn func(string) (string, bool)) Option {
	return func(r *Resolver) { r.lookupEnv = fn }
}

// WithLogger sets the logger used for debug output.
func WithLogger(l *logging.Logger) Option {
	return func(r *Resolver) { r.logger = l }
}

// WithMetrics sets the recorder for resolution counts and latency.
func WithMetrics(m *metrics.Recorder) Option {
	return func(r *Resolver) { r.metrics = m }
}

// NewResolver creates a resolver. Without options it uses the platform
// keychain, os.LookupEnv and no decryptor.
func NewResolver(opts ...Option) *Resolver {
	r := &Resolver{}
	for _, opt := range opts {
		opt(r)
	}
	if r.keychain == nil {
		r.keychain = NewKeychainClient()
	}
	if r.lookupEnv == nil {
		r.lookupEnv = os.LookupEnv
	}
	return r
}

// Resolve fetches the auth token for p. The profile name is the keychain
// account.
func (r *Resolver) Resolve(ctx context.Context, p *profile.Profile) (*secure.Secret, error) {
	if p == nil {
		return nil, fmt.Errorf("resolve credential: profile is nil")
	}
	return r.ResolveSource(ctx, p.Name, p.Provider.AuthTokenSource)
}

// ResolveSource fetches the secret src points to. account is used only by
// keychain sources.
func (r *Resolver) ResolveSource(ctx context.Context, account string, src profile.CredentialSource) (_ *secure.Secret, err error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if src == nil {
		return nil, fmt.Errorf("resolve credential for %q: no credential source", account)
	}

	start := time.Now()
	defer func() {
		r.metrics.RecordResolution(string(src.Kind()), resultLabel(err), time.Since(start).Seconds())
	}()

	r.logger.Debug("resolving %s", profile.Describe(src))

	var raw []byte
	switch s := src.(type) {
	case profile.KeychainSource:
		raw, err = r.fromKeychain(account, s)
	case profile.EnvironmentSource:
		raw, err = r.fromEnvironment(account, s)
	case profile.EncryptedSource:
		raw, err = r.fromEncrypted(account, s)
	default:
		return nil, fmt.Errorf("resolve credential for %q: unsupported source %T", account, src)
	}
	if err != nil {
		return nil, err
	}

	return secure.NewSecret(raw), nil
}

func (r *Resolver) fromKeychain(account string, s profile.KeychainSource) ([]byte, error) {
	value, err := r.keychain.Query(s.Service, account)
	if err != nil {
		return nil, r.keychainError(account, s.Service, err)
	}
	return value, nil
}

func (r *Resolver) fromEnvironment(account string, s profile.EnvironmentSource) ([]byte, error) {
	value, ok := r.lookupEnv(s.VarName)
	if !ok {
		return nil, &ResolutionError{
			Backend: string(profile.KindEnvironment), Profile: account, Reference: s.VarName,
			Err: ErrEnvVarNotSet,
		}
	}
	return []byte(value), nil
}

func (r *Resolver) fromEncrypted(account string, s profile.EncryptedSource) ([]byte, error) {
	fail := func(err error) error {
		return &ResolutionError{
			Backend: string(profile.KindEncrypted), Profile: account, Reference: s.Path, Err: err,
		}
	}

	path, err := ExpandPath(s.Path)
	if err != nil {
		return nil, fail(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fail(ErrFileNotFound)
		}
		return nil, fail(err)
	}

	if r.decryptor == nil {
		return nil, fail(fmt.Errorf("%w: no decryptor configured", ErrDecryptionFailed))
	}
	plain, err := r.decryptor.Decrypt(data)
	if err != nil {
		return nil, fail(fmt.Errorf("%w: %w", ErrDecryptionFailed, err))
	}
	return plain, nil
}

// Store writes secret into the backend src points to. Environment
// sources are read-only.
func (r *Resolver) Store(ctx context.Context, account string, src profile.CredentialSource, secret *secure.Secret) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	switch s := src.(type) {
	case profile.KeychainSource:
		err := secret.Reveal(func(b []byte) error {
			return r.keychain.Set(s.Service, account, b)
		})
		if err != nil {
			return r.keychainError(account, s.Service, err)
		}
		r.logger.Debug("stored credential in keychain %s/%s", s.Service, account)
		return nil

	case profile.EncryptedSource:
		fail := func(err error) error {
			return &ResolutionError{
				Backend: string(profile.KindEncrypted), Profile: account, Reference: s.Path, Err: err,
			}
		}
		if r.encryptor == nil {
			return fail(fmt.Errorf("%w: no encryptor configured", ErrUnsupportedOperation))
		}
		path, err := ExpandPath(s.Path)
		if err != nil {
			return fail(err)
		}
		var data []byte
		err = secret.Reveal(func(b []byte) error {
			var encErr error
			data, encErr = r.encryptor.Encrypt(b)
			return encErr
		})
		if err != nil {
			return fail(err)
		}
		if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
			return fail(err)
		}
		if err := sealed.WriteFile(path, data); err != nil {
			return fail(err)
		}
		r.logger.Debug("stored credential in sealed file %s", path)
		return nil

	case profile.EnvironmentSource:
		return &ResolutionError{
			Backend: string(profile.KindEnvironment), Profile: account, Reference: s.VarName,
			Err: ErrUnsupportedOperation,
		}

	default:
		return fmt.Errorf("store credential for %q: unsupported source %T", account, src)
	}
}

// Forget removes the keychain entry for account. Other sources are
// left alone and report ErrUnsupportedOperation.
func (r *Resolver) Forget(ctx context.Context, account string, src profile.CredentialSource) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if src == nil {
		return fmt.Errorf("forget credential for %q: no credential source", account)
	}
	s, ok := src.(profile.KeychainSource)
	if !ok {
		return &ResolutionError{
			Backend: string(src.Kind()), Profile: account, Reference: src.Reference(),
			Err: ErrUnsupportedOperation,
		}
	}
	if err := r.keychain.Delete(s.Service, account); err != nil {
		return r.keychainError(account, s.Service, err)
	}
	r.logger.Debug("removed keychain entry %s/%s", s.Service, account)
	return nil
}

// KeychainStatus summarises keychain health for diagnostics.
type KeychainStatus struct {
	Available bool
	Headless  bool
	Err       error
}

// Check reports whether the keychain backend can be used.
func (r *Resolver) Check(ctx context.Context) KeychainStatus {
	status := KeychainStatus{
		Available: r.keychain.IsAvailable(),
		Headless:  r.keychain.IsHeadless(),
	}
	if err := ctx.Err(); err != nil {
		status.Err = err
		return status
	}
	if !status.Available {
		status.Err = ErrKeychainUnavailable
		return status
	}
	if err := r.keychain.Validate(); err != nil {
		status.Err = fmt.Errorf("%w: %w", ErrKeychainUnavailable, err)
	}
	return status
}

func (r *Resolver) keychainError(account, service string, err error) error {
	var mapped error
	switch {
	case errors.Is(err, contracts.ErrKeychainItemNotFound):
		mapped = ErrCredentialNotFound
	default:
		mapped = fmt.Errorf("%w: %w", ErrKeychainUnavailable, err)
	}
	return &ResolutionError{
		Backend: string(profile.KindKeychain), Profile: account, Reference: service, Err: mapped,
	}
}

// ExpandPath replaces a leading "~" with the user's home directory.
func ExpandPath(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("expand %s: %w", path, err)
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}

func resultLabel(err error) string {
	switch {
	case err == nil:
		return metrics.ResultSuccess
	case errors.Is(err, ErrCredentialNotFound), errors.Is(err, ErrEnvVarNotSet), errors.Is(err, ErrFileNotFound):
		return "not_found"
	case errors.Is(err, ErrDecryptionFailed):
		return "decrypt_failed"
	case errors.Is(err, ErrKeychainUnavailable):
		return "unavailable"
	default:
		return metrics.ResultError
	}
}

package profile

import "fmt"

// SourceKind names a credential source variant. The values match the
// table keys used in the serialized record.
type SourceKind string

const (
	KindKeychain    SourceKind = "keychain"
	KindEnvironment SourceKind = "environment"
	KindEncrypted   SourceKind = "encrypted"
)

// CredentialSource describes where a profile's auth token can be found.
// Implementations are limited to the three types in this file.
type CredentialSource interface {
	// Kind returns the variant tag.
	Kind() SourceKind

	// Reference returns the service, variable name or path the source
	// points to. It never contains a secret.
	Reference() string

	validate() error
	credentialSource()
}

// KeychainSource reads the token from the OS secret store under Service,
// with the profile name as the account.
type KeychainSource struct {
	Service string
}

func (KeychainSource) Kind() SourceKind    { return KindKeychain }
func (s KeychainSource) Reference() string { return s.Service }
func (KeychainSource) credentialSource()   {}

func (s KeychainSource) validate() error {
	if s.Service == "" {
		return fmt.Errorf("keychain source requires a service")
	}
	return nil
}

// EnvironmentSource reads the token from the named process environment
// variable at resolution time.
type EnvironmentSource struct {
	VarName string
}

func (EnvironmentSource) Kind() SourceKind    { return KindEnvironment }
func (s EnvironmentSource) Reference() string { return s.VarName }
func (EnvironmentSource) credentialSource()   {}

func (s EnvironmentSource) validate() error {
	if s.VarName == "" {
		return fmt.Errorf("environment source requires a variable name")
	}
	if !envKeyPattern.MatchString(s.VarName) {
		return fmt.Errorf("invalid environment variable name %q", s.VarName)
	}
	return nil
}

// EncryptedSource reads the token from a sealed file at Path. Only the
// path is stored in the record.
type EncryptedSource struct {
	Path string
}

func (EncryptedSource) Kind() SourceKind    { return KindEncrypted }
func (s EncryptedSource) Reference() string { return s.Path }
func (EncryptedSource) credentialSource()   {}

func (s EncryptedSource) validate() error {
	if s.Path == "" {
		return fmt.Errorf("encrypted source requires a path")
	}
	return nil
}

// Describe renders a source for display, e.g. "keychain:ccm".
func Describe(src CredentialSource) string {
	if src == nil {
		return "<none>"
	}
	return fmt.Sprintf("%s:%s", src.Kind(), src.Reference())
}

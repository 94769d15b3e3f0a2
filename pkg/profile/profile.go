package profile

import (
	"fmt"
	"regexp"
	"sort"
)

// Variables a profile exports on its own. extra_env may not set them.
const (
	EnvBaseURL        = "ANTHROPIC_BASE_URL"
	EnvModel          = "ANTHROPIC_MODEL"
	EnvSmallFastModel = "ANTHROPIC_SMALL_FAST_MODEL"
	EnvAuthToken      = "ANTHROPIC_AUTH_TOKEN"
)

// ReservedEnv lists the variables extra_env cannot override.
func ReservedEnv() []string {
	return []string{EnvBaseURL, EnvModel, EnvSmallFastModel, EnvAuthToken}
}

func isReservedEnv(key string) bool {
	switch key {
	case EnvBaseURL, EnvModel, EnvSmallFastModel, EnvAuthToken:
		return true
	}
	return false
}

// MaxNameLength bounds profile names so they stay valid file names on
// every supported platform.
const MaxNameLength = 64

var (
	namePattern   = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)
	envKeyPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
)

// Profile is a named provider configuration. Records are replaced as a
// whole; there is no partial update.
type Profile struct {
	Name     string
	Provider ProviderConfig
}

// ProviderConfig describes an AI-provider endpoint and where its auth
// token lives.
type ProviderConfig struct {
	BaseURL         string
	Model           string
	SmallFastModel  string // empty means absent
	AuthTokenSource CredentialSource
	ExtraEnv        map[string]string // nil and empty are equivalent
}

// ValidateName checks that name is usable as a profile file name.
func ValidateName(name string) error {
	if name == "" {
		return &Error{Op: "validate", Name: name, Err: ErrInvalidName, Reason: "name cannot be empty"}
	}
	if len(name) > MaxNameLength {
		return &Error{Op: "validate", Name: name, Err: ErrInvalidName,
			Reason: fmt.Sprintf("name exceeds %d characters", MaxNameLength)}
	}
	if !namePattern.MatchString(name) {
		return &Error{Op: "validate", Name: name, Err: ErrInvalidName,
			Reason: "use letters, digits, '.', '_' or '-', starting with a letter or digit"}
	}
	return nil
}

// Validate checks the profile name and required provider fields.
func (p *Profile) Validate() error {
	if p == nil {
		return &Error{Op: "validate", Err: ErrInvalidConfig, Reason: "profile is nil"}
	}
	if err := ValidateName(p.Name); err != nil {
		return err
	}

	invalid := func(reason string) error {
		return &Error{Op: "validate", Name: p.Name, Err: ErrInvalidConfig, Reason: reason}
	}

	if p.Provider.BaseURL == "" {
		return invalid("provider base_url is required")
	}
	if p.Provider.Model == "" {
		return invalid("provider model is required")
	}
	if p.Provider.AuthTokenSource == nil {
		return invalid("provider auth_token_source is required")
	}
	if err := p.Provider.AuthTokenSource.validate(); err != nil {
		return invalid(err.Error())
	}
	for _, key := range p.Provider.ExtraEnvKeys() {
		if !envKeyPattern.MatchString(key) {
			return invalid(fmt.Sprintf("extra_env key %q is not a valid environment variable name", key))
		}
		if isReservedEnv(key) {
			return invalid(fmt.Sprintf("extra_env key %q is set by the profile itself", key))
		}
	}

	return nil
}

// ExtraEnvKeys returns the extra_env keys in sorted order.
func (c ProviderConfig) ExtraEnvKeys() []string {
	keys := make([]string, 0, len(c.ExtraEnv))
	for k := range c.ExtraEnv {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Package config holds ccm's runtime configuration: resolved paths, the
// logger and metrics shared by commands, and the user settings file.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/natefinch/atomic"
	"gopkg.in/yaml.v3"

	"github.com/systmms/ccm/internal/credentials"
	"github.com/systmms/ccm/internal/credentials/contracts"
	dserrors "github.com/systmms/ccm/internal/errors"
	"github.com/systmms/ccm/internal/logging"
	"github.com/systmms/ccm/internal/metrics"
	"github.com/systmms/ccm/internal/paths"
	"github.com/systmms/ccm/internal/sealed"
	"github.com/systmms/ccm/pkg/profile"
)

// ErrNoDefaultProfile is returned when no profile name was given and none
// is configured.
var ErrNoDefaultProfile = errors.New("no default profile configured")

// Config holds the runtime configuration
type Config struct {
	Paths    *paths.Paths
	Logger   *logging.Logger
	Metrics  *metrics.Recorder
	Settings Settings

	// Keychain overrides the platform keychain client.
	Keychain contracts.KeychainClient
}

// Settings is the content of config.yaml.
type Settings struct {
	DefaultProfile string     `yaml:"default_profile,omitempty"`
	Encryption     Encryption `yaml:"encryption,omitempty"`
}

// Encryption selects where the sealed-file passphrase comes from. The
// keychain service wins when both are set.
type Encryption struct {
	PassphraseEnv             string `yaml:"passphrase_env,omitempty"`
	PassphraseKeychainService string `yaml:"passphrase_keychain_service,omitempty"`
	PassphraseKeychainAccount string `yaml:"passphrase_keychain_account,omitempty"`
}

// DefaultPassphraseAccount is the keychain account used for the
// passphrase when none is configured.
const DefaultPassphraseAccount = "passphrase"

// New creates a config rooted at dir. An empty dir resolves the default
// location.
func New(dir string, logger *logging.Logger) (*Config, error) {
	var (
		p   *paths.Paths
		err error
	)
	if dir == "" {
		p, err = paths.Resolve()
	} else {
		p, err = paths.At(dir)
	}
	if err != nil {
		return nil, err
	}
	return &Config{Paths: p, Logger: logger}, nil
}

// Load reads config.yaml. A missing or empty file leaves the defaults.
func (c *Config) Load() error {
	path := c.Paths.SettingsFile()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			c.Logger.Debug("no settings file at %s, using defaults", path)
			return nil
		}
		return dserrors.UserError{
			Message:    "Failed to read settings file",
			Details:    err.Error(),
			Suggestion: "Check file permissions on " + path,
			Err:        err,
		}
	}

	var s Settings
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil && !errors.Is(err, io.EOF) {
		return dserrors.ConfigError{
			Field:      "config.yaml",
			Message:    fmt.Sprintf("invalid YAML: %v", err),
			Suggestion: "Check " + path + " for indentation errors and unknown keys",
			Err:        err,
		}
	}

	if err := s.Validate(); err != nil {
		return err
	}

	c.Settings = s
	c.Logger.Debug("loaded settings from %s", path)
	return nil
}

// Validate checks field values.
func (s Settings) Validate() error {
	if s.DefaultProfile != "" {
		if err := profile.ValidateName(s.DefaultProfile); err != nil {
			return dserrors.ConfigError{
				Field:      "default_profile",
				Value:      s.DefaultProfile,
				Message:    "invalid profile name",
				Suggestion: "Run 'ccm use <profile>' to set a valid default",
				Err:        err,
			}
		}
	}
	return nil
}

// Save writes config.yaml atomically, readable only by the owner.
func (c *Config) Save() error {
	if err := c.Settings.Validate(); err != nil {
		return err
	}

	data, err := yaml.Marshal(c.Settings)
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}

	path := c.Paths.SettingsFile()
	if err := atomic.WriteFile(path, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("write settings %s: %w", path, err)
	}
	if err := os.Chmod(path, 0600); err != nil {
		return fmt.Errorf("chmod settings %s: %w", path, err)
	}

	c.Logger.Debug("saved settings to %s", path)
	return nil
}

// ProfileName returns name, or the configured default when name is empty.
func (c *Config) ProfileName(name string) (string, error) {
	if name != "" {
		return name, nil
	}
	if c.Settings.DefaultProfile == "" {
		return "", dserrors.UserError{
			Message:    ErrNoDefaultProfile.Error(),
			Suggestion: "Run 'ccm use <profile>' to set a default profile, or pass a profile name",
			Err:        ErrNoDefaultProfile,
		}
	}
	return c.Settings.DefaultProfile, nil
}

// Store opens the profile store under the configured root.
func (c *Config) Store() *profile.Store {
	return profile.NewStore(c.Paths.ProfilesDir,
		profile.WithLogger(c.Logger),
		profile.WithMetrics(c.Metrics),
	)
}

// KeychainClient returns the configured keychain client, defaulting to
// the platform one.
func (c *Config) KeychainClient() contracts.KeychainClient {
	if c.Keychain == nil {
		c.Keychain = credentials.NewKeychainClient()
	}
	return c.Keychain
}

// PassphraseSource builds the passphrase source the settings describe.
func (c *Config) PassphraseSource() sealed.PassphraseSource {
	enc := c.Settings.Encryption
	if enc.PassphraseKeychainService != "" {
		account := enc.PassphraseKeychainAccount
		if account == "" {
			account = DefaultPassphraseAccount
		}
		return sealed.KeychainPassphrase(c.KeychainClient(), enc.PassphraseKeychainService, account)
	}
	return sealed.EnvPassphrase(enc.PassphraseEnv)
}

// Resolver builds a credential resolver wired to the keychain client and
// the configured passphrase source.
func (c *Config) Resolver() *credentials.Resolver {
	return credentials.NewResolver(
		credentials.WithKeychainClient(c.KeychainClient()),
		credentials.WithDecryptor(sealed.NewPassphraseDecryptor(c.PassphraseSource())),
		credentials.WithLogger(c.Logger),
		credentials.WithMetrics(c.Metrics),
	)
}

package config_test

import (
	stderrors "errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/systmms/ccm/internal/config"
	dserrors "github.com/systmms/ccm/internal/errors"
	"github.com/systmms/ccm/internal/sealed"
	"github.com/systmms/ccm/tests/fakes"
)

func newConfig(t *testing.T) *config.Config {
	t.Helper()

	cfg, err := config.New(t.TempDir(), nil)
	require.NoError(t, err)
	return cfg
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	t.Parallel()

	cfg := newConfig(t)
	require.NoError(t, cfg.Load())
	assert.Equal(t, config.Settings{}, cfg.Settings)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	t.Parallel()

	cfg := newConfig(t)
	cfg.Settings = config.Settings{
		DefaultProfile: "work",
		Encryption: config.Encryption{
			PassphraseKeychainService: "ccm-seal",
		},
	}
	require.NoError(t, cfg.Save())

	info, err := os.Stat(cfg.Paths.SettingsFile())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	reloaded := &config.Config{Paths: cfg.Paths}
	require.NoError(t, reloaded.Load())
	assert.Equal(t, cfg.Settings, reloaded.Settings)
}

func TestLoadErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		field   string
	}{
		{name: "bad_yaml", content: "default_profile: [unclosed", field: "config.yaml"},
		{name: "unknown_key", content: "defualt_profile: work\n", field: "config.yaml"},
		{name: "bad_default", content: "default_profile: ../escape\n", field: "default_profile"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := newConfig(t)
			require.NoError(t, os.WriteFile(cfg.Paths.SettingsFile(), []byte(tt.content), 0600))

			err := cfg.Load()
			require.Error(t, err)

			var ce dserrors.ConfigError
			require.True(t, stderrors.As(err, &ce))
			assert.Equal(t, tt.field, ce.Field)
		})
	}
}

func TestLoadEmptyFile(t *testing.T) {
	t.Parallel()

	cfg := newConfig(t)
	require.NoError(t, os.WriteFile(cfg.Paths.SettingsFile(), nil, 0600))
	require.NoError(t, cfg.Load())
}

func TestProfileName(t *testing.T) {
	t.Parallel()

	cfg := newConfig(t)

	_, err := cfg.ProfileName("")
	assert.ErrorIs(t, err, config.ErrNoDefaultProfile)
	assert.Contains(t, dserrors.Suggest(err), "ccm use")

	name, err := cfg.ProfileName("explicit")
	require.NoError(t, err)
	assert.Equal(t, "explicit", name)

	cfg.Settings.DefaultProfile = "work"
	name, err = cfg.ProfileName("")
	require.NoError(t, err)
	assert.Equal(t, "work", name)
}

func TestNewUsesEnvOverride(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "root")
	t.Setenv("CCM_CONFIG_DIR", dir)

	cfg, err := config.New("", nil)
	require.NoError(t, err)
	assert.Equal(t, dir, cfg.Paths.ConfigDir)
	assert.DirExists(t, cfg.Paths.ProfilesDir)
	assert.Equal(t, cfg.Paths.ProfilesDir, cfg.Store().Dir())
}

func TestPassphraseSource(t *testing.T) {
	t.Parallel()

	cfg := newConfig(t)
	cfg.Keychain = fakes.NewFakeKeychainClient()

	assert.Equal(t, "environment:"+sealed.DefaultPassphraseEnv, cfg.PassphraseSource().Describe())

	cfg.Settings.Encryption.PassphraseEnv = "MY_PASS"
	assert.Equal(t, "environment:MY_PASS", cfg.PassphraseSource().Describe())

	cfg.Settings.Encryption.PassphraseKeychainService = "ccm-seal"
	assert.Equal(t, "keychain:ccm-seal/"+config.DefaultPassphraseAccount, cfg.PassphraseSource().Describe())
}

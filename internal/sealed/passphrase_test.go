package sealed_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/systmms/ccm/internal/sealed"
	"github.com/systmms/ccm/tests/fakes"
)

func TestPassphraseDecryptorFromEnv(t *testing.T) {
	t.Setenv("CCM_TEST_PASSPHRASE", "env-pass")

	d := sealed.NewPassphraseDecryptor(sealed.EnvPassphrase("CCM_TEST_PASSPHRASE"))
	data, err := d.Encrypt([]byte("token"))
	require.NoError(t, err)

	plain, err := d.Decrypt(data)
	require.NoError(t, err)
	assert.Equal(t, "token", string(plain))

	direct, err := sealed.Open([]byte("env-pass"), data)
	require.NoError(t, err)
	assert.Equal(t, "token", string(direct))
}

func TestPassphraseDecryptorEnvUnset(t *testing.T) {
	t.Setenv("CCM_TEST_PASSPHRASE", "")

	d := sealed.NewPassphraseDecryptor(sealed.EnvPassphrase("CCM_TEST_PASSPHRASE"))
	_, err := d.Decrypt([]byte("irrelevant"))
	assert.ErrorIs(t, err, sealed.ErrNoPassphrase)
}

func TestPassphraseDecryptorDefaultSource(t *testing.T) {
	t.Parallel()

	d := sealed.NewPassphraseDecryptor(nil)
	assert.Equal(t, "environment:"+sealed.DefaultPassphraseEnv, d.Source().Describe())
}

func TestKeychainPassphrase(t *testing.T) {
	t.Parallel()

	kc := fakes.NewFakeKeychainClient()
	kc.SetSecret("ccm-seal", "default", []byte("kc-pass"))

	d := sealed.NewPassphraseDecryptor(sealed.KeychainPassphrase(kc, "ccm-seal", "default"))
	data, err := d.Encrypt([]byte("token"))
	require.NoError(t, err)

	plain, err := d.Decrypt(data)
	require.NoError(t, err)
	assert.Equal(t, "token", string(plain))

	stored, ok := kc.Secret("ccm-seal", "default")
	require.True(t, ok)
	assert.Equal(t, "kc-pass", string(stored), "passphrase wipe must not touch the keychain copy")
}

func TestKeychainPassphraseMissing(t *testing.T) {
	t.Parallel()

	kc := fakes.NewFakeKeychainClient()
	src := sealed.KeychainPassphrase(kc, "ccm-seal", "default")

	_, err := src.Passphrase()
	assert.ErrorIs(t, err, sealed.ErrNoPassphrase)
	assert.Equal(t, "keychain:ccm-seal/default", src.Describe())
}

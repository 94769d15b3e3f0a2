package sealed_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/systmms/ccm/internal/sealed"
)

func TestSealOpenRoundTrip(t *testing.T) {
	t.Parallel()

	pass := []byte("correct horse")
	data, err := sealed.Seal(pass, []byte("sk-ant-secret"))
	require.NoError(t, err)

	assert.True(t, bytes.HasPrefix(data, []byte(sealed.Magic)))
	assert.NotContains(t, string(data), "sk-ant-secret")

	plain, err := sealed.Open(pass, data)
	require.NoError(t, err)
	assert.Equal(t, "sk-ant-secret", string(plain))
}

func TestSealIsRandomized(t *testing.T) {
	t.Parallel()

	pass := []byte("pw")
	a, err := sealed.Seal(pass, []byte("same"))
	require.NoError(t, err)
	b, err := sealed.Seal(pass, []byte("same"))
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestOpenFailures(t *testing.T) {
	t.Parallel()

	pass := []byte("pw")
	good, err := sealed.Seal(pass, []byte("token"))
	require.NoError(t, err)

	tampered := append([]byte{}, good...)
	tampered[len(tampered)-1] ^= 0xFF

	tests := []struct {
		name       string
		passphrase []byte
		data       []byte
		wantErr    error
	}{
		{name: "wrong_passphrase", passphrase: []byte("nope"), data: good, wantErr: sealed.ErrAuthentication},
		{name: "tampered", passphrase: pass, data: tampered, wantErr: sealed.ErrAuthentication},
		{name: "plain_text", passphrase: pass, data: []byte("just some text that is long enough to pass the size check"), wantErr: sealed.ErrInvalidFormat},
		{name: "truncated", passphrase: pass, data: good[:20], wantErr: sealed.ErrInvalidFormat},
		{name: "empty_passphrase", passphrase: nil, data: good, wantErr: sealed.ErrNoPassphrase},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := sealed.Open(tt.passphrase, tt.data)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestWriteFileMode(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "token.sealed")
	require.NoError(t, sealed.WriteFile(path, []byte("first")))
	require.NoError(t, sealed.WriteFile(path, []byte("second")))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "second", string(data))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

package secure

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSecretReveal(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		data string
	}{
		{name: "token", data: "sk-test-123"},
		{name: "empty", data: ""},
		{name: "binary", data: string([]byte{0x00, 0xFF, 0x10})},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			s := NewSecret([]byte(tt.data))
			defer s.Destroy()

			var got string
			require.NoError(t, s.Reveal(func(b []byte) error {
				got = string(b)
				return nil
			}))
			assert.Equal(t, tt.data, got)
			assert.Equal(t, len(tt.data), s.Len())
		})
	}
}

func TestNewSecretWipesInput(t *testing.T) {
	t.Parallel()

	input := []byte("wipe-me")
	s := NewSecret(input)
	defer s.Destroy()

	assert.Equal(t, make([]byte, len(input)), input)
}

func TestSecretCopy(t *testing.T) {
	t.Parallel()

	s := NewSecretString("value")
	out, err := s.Copy()
	require.NoError(t, err)
	assert.Equal(t, "value", string(out))

	out[0] = 'X'
	again, err := s.Copy()
	require.NoError(t, err)
	assert.Equal(t, "value", string(again))
}

func TestSecretRevealPropagatesError(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	s := NewSecretString("x")
	assert.ErrorIs(t, s.Reveal(func([]byte) error { return boom }), boom)
}

func TestSecretDestroy(t *testing.T) {
	t.Parallel()

	s := NewSecretString("gone")
	s.Destroy()
	s.Destroy()

	err := s.Reveal(func([]byte) error { return nil })
	assert.ErrorIs(t, err, ErrDestroyed)
	assert.Equal(t, 0, s.Len())
}

func TestSecretFormatting(t *testing.T) {
	t.Parallel()

	s := NewSecretString("do-not-print")
	defer s.Destroy()

	for _, verb := range []string{"%s", "%v", "%+v", "%#v", "%q"} {
		out := fmt.Sprintf(verb, s)
		assert.NotContains(t, out, "do-not-print", verb)
	}
	assert.Equal(t, Redacted, s.String())
}

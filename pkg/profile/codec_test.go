package profile_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/systmms/ccm/pkg/profile"
)

func TestMarshalLayout(t *testing.T) {
	t.Parallel()

	p := &profile.Profile{
		Name: "work",
		Provider: profile.ProviderConfig{
			BaseURL:         "https://api.example.com",
			Model:           "model-large",
			AuthTokenSource: profile.KeychainSource{Service: "ccm"},
		},
	}

	data, err := profile.Marshal(p)
	require.NoError(t, err)

	text := string(data)
	assert.Contains(t, text, `name = "work"`)
	assert.Contains(t, text, "[provider]")
	assert.Contains(t, text, `base_url = "https://api.example.com"`)
	assert.Contains(t, text, "[provider.auth_token_source.keychain]")
	assert.Contains(t, text, `service = "ccm"`)
	assert.NotContains(t, text, "small_fast_model", "absent optional model is omitted")
	assert.NotContains(t, text, "extra_env", "empty extra_env is omitted")
}

func TestMarshalEmptyExtraEnvMatchesNil(t *testing.T) {
	t.Parallel()

	withNil := &profile.Profile{
		Name: "a",
		Provider: profile.ProviderConfig{
			BaseURL:         "https://x",
			Model:           "m",
			AuthTokenSource: profile.EnvironmentSource{VarName: "TOKEN"},
		},
	}
	withEmpty := *withNil
	withEmpty.Provider.ExtraEnv = map[string]string{}

	a, err := profile.Marshal(withNil)
	require.NoError(t, err)
	b, err := profile.Marshal(&withEmpty)
	require.NoError(t, err)
	assert.Equal(t, string(a), string(b))

	decoded, err := profile.Unmarshal(b)
	require.NoError(t, err)
	assert.Nil(t, decoded.Provider.ExtraEnv)
}

func TestMarshalWithoutSource(t *testing.T) {
	t.Parallel()

	_, err := profile.Marshal(&profile.Profile{Name: "x"})
	require.Error(t, err)
	assert.ErrorIs(t, err, profile.ErrSerializationFailed)
}

func TestUnmarshalSources(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		table string
		want  profile.CredentialSource
	}{
		{
			name:  "keychain",
			table: "[provider.auth_token_source.keychain]\nservice = \"svc\"\n",
			want:  profile.KeychainSource{Service: "svc"},
		},
		{
			name:  "environment",
			table: "[provider.auth_token_source.environment]\nvar_name = \"MY_TOKEN\"\n",
			want:  profile.EnvironmentSource{VarName: "MY_TOKEN"},
		},
		{
			name:  "encrypted",
			table: "[provider.auth_token_source.encrypted]\npath = \"~/.config/ccm/token.sealed\"\n",
			want:  profile.EncryptedSource{Path: "~/.config/ccm/token.sealed"},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			doc := strings.Join([]string{
				`name = "p"`,
				`[provider]`,
				`base_url = "https://x"`,
				`model = "m"`,
				tt.table,
			}, "\n")

			p, err := profile.Unmarshal([]byte(doc))
			require.NoError(t, err)
			assert.Equal(t, tt.want, p.Provider.AuthTokenSource)
		})
	}
}

func TestUnmarshalIgnoresUnknownKeys(t *testing.T) {
	t.Parallel()

	doc := `name = "p"
comment = "added by a newer version"
[provider]
base_url = "https://x"
model = "m"
region = "eu"
[provider.auth_token_source.environment]
var_name = "TOKEN"
`
	p, err := profile.Unmarshal([]byte(doc))
	require.NoError(t, err)
	assert.Equal(t, "p", p.Name)
}

func TestSchemaIsEmbedded(t *testing.T) {
	t.Parallel()

	schema := profile.Schema()
	assert.Contains(t, string(schema), "auth_token_source")

	schema[0] = 'X'
	assert.NotEqual(t, schema[0], profile.Schema()[0], "callers get a copy")
}

package profile_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/systmms/ccm/pkg/profile"
)

func TestValidateName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{name: "simple", input: "work"},
		{name: "with_separators", input: "team.prod_v2-eu"},
		{name: "digit_first", input: "1st"},
		{name: "max_length", input: strings.Repeat("a", profile.MaxNameLength)},
		{name: "empty", input: "", wantErr: true},
		{name: "too_long", input: strings.Repeat("a", profile.MaxNameLength+1), wantErr: true},
		{name: "path_separator", input: "a/b", wantErr: true},
		{name: "backslash", input: `a\b`, wantErr: true},
		{name: "parent_dir", input: "..", wantErr: true},
		{name: "leading_dot", input: ".env", wantErr: true},
		{name: "space", input: "my profile", wantErr: true},
		{name: "unicode", input: "prófile", wantErr: true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := profile.ValidateName(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, profile.ErrInvalidName)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestProfileValidate(t *testing.T) {
	t.Parallel()

	valid := func() *profile.Profile {
		return &profile.Profile{
			Name: "ok",
			Provider: profile.ProviderConfig{
				BaseURL:         "https://x",
				Model:           "m",
				AuthTokenSource: profile.KeychainSource{Service: "ccm"},
			},
		}
	}

	tests := []struct {
		name   string
		mutate func(*profile.Profile)
		errMsg string
	}{
		{name: "valid", mutate: func(*profile.Profile) {}},
		{name: "missing_base_url", mutate: func(p *profile.Profile) { p.Provider.BaseURL = "" }, errMsg: "base_url"},
		{name: "missing_model", mutate: func(p *profile.Profile) { p.Provider.Model = "" }, errMsg: "model"},
		{name: "missing_source", mutate: func(p *profile.Profile) { p.Provider.AuthTokenSource = nil }, errMsg: "auth_token_source"},
		{name: "empty_service", mutate: func(p *profile.Profile) {
			p.Provider.AuthTokenSource = profile.KeychainSource{}
		}, errMsg: "service"},
		{name: "bad_var_name", mutate: func(p *profile.Profile) {
			p.Provider.AuthTokenSource = profile.EnvironmentSource{VarName: "1BAD"}
		}, errMsg: "invalid environment variable name"},
		{name: "empty_path", mutate: func(p *profile.Profile) {
			p.Provider.AuthTokenSource = profile.EncryptedSource{}
		}, errMsg: "path"},
		{name: "bad_extra_env", mutate: func(p *profile.Profile) {
			p.Provider.ExtraEnv = map[string]string{"A-B": "x"}
		}, errMsg: "extra_env"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			p := valid()
			tt.mutate(p)
			err := p.Validate()
			if tt.errMsg == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, profile.ErrInvalidConfig)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestDescribe(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "keychain:ccm", profile.Describe(profile.KeychainSource{Service: "ccm"}))
	assert.Equal(t, "environment:TOKEN", profile.Describe(profile.EnvironmentSource{VarName: "TOKEN"}))
	assert.Equal(t, "encrypted:/x.sealed", profile.Describe(profile.EncryptedSource{Path: "/x.sealed"}))
	assert.Equal(t, "<none>", profile.Describe(nil))
}

func TestExtraEnvKeysSorted(t *testing.T) {
	t.Parallel()

	cfg := profile.ProviderConfig{ExtraEnv: map[string]string{"Z": "1", "A": "2", "M": "3"}}
	assert.Equal(t, []string{"A", "M", "Z"}, cfg.ExtraEnvKeys())
}

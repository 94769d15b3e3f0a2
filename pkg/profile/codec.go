package profile

import (
	"bytes"
	"fmt"

	"github.com/BurntSushi/toml"
)

// On-disk shapes. Optional values use omitempty, so an absent
// small_fast_model and an empty one serialize identically, as do a nil
// and an empty extra_env.
type recordDoc struct {
	Name     string      `toml:"name"`
	Provider providerDoc `toml:"provider"`
}

type providerDoc struct {
	BaseURL         string            `toml:"base_url"`
	Model           string            `toml:"model"`
	SmallFastModel  string            `toml:"small_fast_model,omitempty"`
	AuthTokenSource sourceDoc         `toml:"auth_token_source"`
	ExtraEnv        map[string]string `toml:"extra_env,omitempty"`
}

type sourceDoc struct {
	Keychain    *keychainDoc    `toml:"keychain,omitempty"`
	Environment *environmentDoc `toml:"environment,omitempty"`
	Encrypted   *encryptedDoc   `toml:"encrypted,omitempty"`
}

type keychainDoc struct {
	Service string `toml:"service"`
}

type environmentDoc struct {
	VarName string `toml:"var_name"`
}

type encryptedDoc struct {
	Path string `toml:"path"`
}

// Marshal encodes a profile into its TOML record form.
func Marshal(p *Profile) ([]byte, error) {
	doc, err := toDoc(p)
	if err != nil {
		return nil, serializationError("", err)
	}

	var buf bytes.Buffer
	enc := toml.NewEncoder(&buf)
	enc.Indent = ""
	if err := enc.Encode(doc); err != nil {
		return nil, serializationError("", err)
	}
	return buf.Bytes(), nil
}

// Unmarshal decodes and validates a TOML record.
func Unmarshal(data []byte) (*Profile, error) {
	p, err := decode(data)
	if err != nil {
		return nil, deserializationError("", err)
	}
	return p, nil
}

func toDoc(p *Profile) (*recordDoc, error) {
	if p == nil {
		return nil, fmt.Errorf("profile is nil")
	}

	doc := &recordDoc{
		Name: p.Name,
		Provider: providerDoc{
			BaseURL:        p.Provider.BaseURL,
			Model:          p.Provider.Model,
			SmallFastModel: p.Provider.SmallFastModel,
		},
	}
	if len(p.Provider.ExtraEnv) > 0 {
		doc.Provider.ExtraEnv = p.Provider.ExtraEnv
	}

	switch src := p.Provider.AuthTokenSource.(type) {
	case KeychainSource:
		doc.Provider.AuthTokenSource.Keychain = &keychainDoc{Service: src.Service}
	case EnvironmentSource:
		doc.Provider.AuthTokenSource.Environment = &environmentDoc{VarName: src.VarName}
	case EncryptedSource:
		doc.Provider.AuthTokenSource.Encrypted = &encryptedDoc{Path: src.Path}
	case nil:
		return nil, fmt.Errorf("profile %q has no auth_token_source", p.Name)
	default:
		return nil, fmt.Errorf("profile %q has unsupported auth_token_source %T", p.Name, src)
	}

	return doc, nil
}

func decode(data []byte) (*Profile, error) {
	var raw map[string]interface{}
	if _, err := toml.Decode(string(data), &raw); err != nil {
		return nil, err
	}
	if err := validateDocument(raw); err != nil {
		return nil, err
	}

	var doc recordDoc
	if _, err := toml.Decode(string(data), &doc); err != nil {
		return nil, err
	}

	p := &Profile{
		Name: doc.Name,
		Provider: ProviderConfig{
			BaseURL:        doc.Provider.BaseURL,
			Model:          doc.Provider.Model,
			SmallFastModel: doc.Provider.SmallFastModel,
		},
	}
	if len(doc.Provider.ExtraEnv) > 0 {
		p.Provider.ExtraEnv = doc.Provider.ExtraEnv
	}

	src := doc.Provider.AuthTokenSource
	switch {
	case src.Keychain != nil:
		p.Provider.AuthTokenSource = KeychainSource{Service: src.Keychain.Service}
	case src.Environment != nil:
		p.Provider.AuthTokenSource = EnvironmentSource{VarName: src.Environment.VarName}
	case src.Encrypted != nil:
		p.Provider.AuthTokenSource = EncryptedSource{Path: src.Encrypted.Path}
	}

	if err := p.Validate(); err != nil {
		return nil, err
	}

	return p, nil
}

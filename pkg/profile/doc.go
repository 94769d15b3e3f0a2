// Package profile defines ccm profile records and their on-disk store.
//
// A profile binds an AI-provider endpoint (base URL, models, extra
// environment) to a CredentialSource that describes where the auth token
// lives. The token itself is never part of a record.
//
// # Storage
//
// Each profile is one TOML file named "<name>.toml" inside the profiles
// directory. The file name is the identity key: List enumerates names
// from file names without parsing any file, and Create publishes a new
// file with a create-new primitive so two profiles can never share a name.
//
//	store, err := profile.OpenStore()
//	if err != nil {
//	    return err
//	}
//	err = store.Create(&profile.Profile{
//	    Name: "work",
//	    Provider: profile.ProviderConfig{
//	        BaseURL:         "https://api.example.com",
//	        Model:           "model-large",
//	        AuthTokenSource: profile.EnvironmentSource{VarName: "WORK_TOKEN"},
//	    },
//	})
//
// # Credential sources
//
// CredentialSource is a closed set of three variants: KeychainSource,
// EnvironmentSource and EncryptedSource. The interface carries an
// unexported method so no other package can add a variant; consumers
// switch over the concrete types.
//
// # Errors
//
// Store operations return *Error, *CodecError or *IOError values that
// match the sentinels ErrNotFound, ErrAlreadyExists, ErrInvalidName,
// ErrInvalidConfig, ErrDeserializationFailed and ErrSerializationFailed
// via errors.Is.
package profile

// Package errors turns internal failures into messages a user can act on.
package errors

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/systmms/ccm/internal/credentials"
	"github.com/systmms/ccm/internal/paths"
	"github.com/systmms/ccm/internal/sealed"
	"github.com/systmms/ccm/internal/shell"
	"github.com/systmms/ccm/pkg/profile"
)

// UserError represents an error that should be shown to the user with helpful context
type UserError struct {
	Message    string
	Suggestion string
	Details    string
	Err        error
}

func (e UserError) Error() string {
	var parts []string

	if e.Message != "" {
		parts = append(parts, e.Message)
	} else if e.Err != nil {
		parts = append(parts, e.Err.Error())
	}

	if e.Details != "" {
		parts = append(parts, "\n  Details: "+e.Details)
	}

	if e.Suggestion != "" {
		parts = append(parts, "\n  💡 Try: "+e.Suggestion)
	}

	return strings.Join(parts, "")
}

func (e UserError) Unwrap() error {
	return e.Err
}

// ConfigError represents a settings file error with helpful context
type ConfigError struct {
	Field      string
	Value      interface{}
	Message    string
	Suggestion string
	Err        error
}

func (e ConfigError) Error() string {
	msg := "Configuration error"
	if e.Field != "" {
		msg += fmt.Sprintf(" in field '%s'", e.Field)
	}
	if e.Value != nil {
		msg += fmt.Sprintf(" (value: %v)", e.Value)
	}
	msg += ": " + e.Message

	if e.Suggestion != "" {
		msg += "\n  💡 " + e.Suggestion
	}

	return msg
}

func (e ConfigError) Unwrap() error {
	return e.Err
}

// Suggest returns remediation text for err, or "" when there is nothing
// specific to say.
func Suggest(err error) string {
	var (
		ue UserError
		ce ConfigError
	)
	switch {
	case err == nil:
		return ""
	case errors.As(err, &ue) && ue.Suggestion != "":
		return ue.Suggestion
	case errors.As(err, &ce) && ce.Suggestion != "":
		return ce.Suggestion

	case errors.Is(err, profile.ErrNotFound):
		return "Run 'ccm list' to see available profiles, or 'ccm add <name>' to create one"
	case errors.Is(err, profile.ErrAlreadyExists):
		return "Choose another name, or 'ccm remove <name>' first"
	case errors.Is(err, profile.ErrInvalidName):
		return "Profile names use letters, digits, '.', '_' and '-', and start with a letter or digit"
	case errors.Is(err, profile.ErrInvalidConfig):
		return "Profiles need --base-url, --model and exactly one credential source"
	case errors.Is(err, profile.ErrDeserializationFailed):
		return "Fix or remove the profile file shown above"

	case errors.Is(err, credentials.ErrCredentialNotFound):
		return "Run 'ccm add <profile> --auth-token <token>' to set up credentials for this profile"
	case errors.Is(err, credentials.ErrKeychainUnavailable):
		return "Check that your system keychain is accessible. On Linux, ensure a Secret Service provider such as gnome-keyring is running"
	case errors.Is(err, credentials.ErrEnvVarNotSet):
		return "Set the environment variable before running ccm"
	case errors.Is(err, credentials.ErrFileNotFound):
		return "Create the sealed file with 'ccm seal <path>'"
	case errors.Is(err, sealed.ErrNoPassphrase):
		return "Set CCM_PASSPHRASE or configure encryption.passphrase_keychain_service"
	case errors.Is(err, credentials.ErrDecryptionFailed):
		return "Check the passphrase, or re-create the sealed file with 'ccm seal <path>'"
	case errors.Is(err, credentials.ErrUnsupportedOperation):
		return "Environment credentials are managed outside ccm; export the variable instead"

	case errors.Is(err, shell.ErrUnsupportedShell):
		return "Supported shells: " + strings.Join(shell.Names(), ", ")
	case errors.Is(err, paths.ErrConfigDirUnavailable):
		return "Set " + paths.EnvConfigDir + " or pass --config-dir"
	case errors.Is(err, fs.ErrPermission):
		return "Check file permissions on the ccm configuration directory"
	}
	return ""
}

// Present wraps err for display. Errors that are already user-facing are
// returned unchanged.
func Present(err error) error {
	if err == nil {
		return nil
	}

	var (
		ue UserError
		ce ConfigError
	)
	if errors.As(err, &ue) || errors.As(err, &ce) {
		return err
	}

	return UserError{
		Message:    err.Error(),
		Suggestion: Suggest(err),
		Err:        err,
	}
}

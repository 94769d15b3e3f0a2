package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/systmms/ccm/internal/config"
	dserrors "github.com/systmms/ccm/internal/errors"
	"github.com/systmms/ccm/internal/secure"
	"github.com/systmms/ccm/pkg/profile"
)

// DefaultKeychainService is used when add is given no credential source.
const DefaultKeychainService = "ccm"

// sourceFlags are the mutually exclusive credential source flags.
type sourceFlags struct {
	keychainService string
	envVar          string
	encryptedPath   string
}

func (f *sourceFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.keychainService, "keychain", "", "Keychain service holding the token (account is the profile name)")
	cmd.Flags().StringVar(&f.envVar, "env-var", "", "Environment variable holding the token")
	cmd.Flags().StringVar(&f.encryptedPath, "encrypted", "", "Sealed file holding the token")
	cmd.MarkFlagsMutuallyExclusive("keychain", "env-var", "encrypted")
}

func (f *sourceFlags) source() profile.CredentialSource {
	switch {
	case f.envVar != "":
		return profile.EnvironmentSource{VarName: f.envVar}
	case f.encryptedPath != "":
		return profile.EncryptedSource{Path: f.encryptedPath}
	case f.keychainService != "":
		return profile.KeychainSource{Service: f.keychainService}
	default:
		return profile.KeychainSource{Service: DefaultKeychainService}
	}
}

// parseExtraEnv turns KEY=VALUE pairs into a map.
func parseExtraEnv(pairs []string) (map[string]string, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	out := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			return nil, dserrors.UserError{
				Message:    fmt.Sprintf("Invalid --extra-env value %q", pair),
				Suggestion: "Use KEY=VALUE",
			}
		}
		out[key] = value
	}
	return out, nil
}

// readSecret takes the token from the flag, or from stdin when fromStdin
// is set. A trailing newline is dropped.
func readSecret(cmd *cobra.Command, flagValue string, fromStdin bool) (*secure.Secret, error) {
	if fromStdin {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, fmt.Errorf("read token from stdin: %w", err)
		}
		data = trimNewline(data)
		if len(data) == 0 {
			return nil, dserrors.UserError{Message: "No token received on stdin"}
		}
		return secure.NewSecret(data), nil
	}
	if flagValue == "" {
		return nil, nil
	}
	return secure.NewSecretString(flagValue), nil
}

func trimNewline(b []byte) []byte {
	for len(b) > 0 && (b[len(b)-1] == '\n' || b[len(b)-1] == '\r') {
		b = b[:len(b)-1]
	}
	return b
}

// profileArg returns the optional profile argument.
func profileArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}

// completeProfiles offers stored profile names for the first argument.
func completeProfiles(cfg *config.Config) func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		if len(args) > 0 || cfg.Paths == nil {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}
		names, err := cfg.Store().List()
		if err != nil {
			return nil, cobra.ShellCompDirectiveError
		}
		out := make([]string, 0, len(names))
		for _, name := range names {
			if strings.HasPrefix(name, toComplete) {
				out = append(out, name)
			}
		}
		return out, cobra.ShellCompDirectiveNoFileComp
	}
}

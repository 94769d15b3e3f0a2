package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/systmms/ccm/internal/config"
	dserrors "github.com/systmms/ccm/internal/errors"
	"github.com/systmms/ccm/pkg/profile"
)

func NewSealCommand(cfg *config.Config) *cobra.Command {
	var (
		token      string
		tokenStdin bool
	)

	cmd := &cobra.Command{
		Use:   "seal <path>",
		Short: "Write a token to a sealed file",
		Long: `Encrypt a token into a sealed file for use with 'ccm add --encrypted'.

The passphrase comes from $CCM_PASSPHRASE, or from the variable or keychain
entry configured under "encryption" in config.yaml.

Example:
  printf %s "$TOKEN" | ccm seal ~/.config/ccm/work.sealed --stdin`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			secret, err := readSecret(cmd, token, tokenStdin)
			if err != nil {
				return err
			}
			if secret == nil {
				return dserrors.UserError{
					Message:    "No token given",
					Suggestion: "Pass --token <value> or pipe the token with --stdin",
				}
			}
			defer secret.Destroy()

			src := profile.EncryptedSource{Path: args[0]}
			if err := cfg.Resolver().Store(cmd.Context(), "", src, secret); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Sealed token written to %s\n", args[0])
			return nil
		},
	}

	cmd.Flags().StringVar(&token, "token", "", "Token to seal")
	cmd.Flags().BoolVar(&tokenStdin, "stdin", false, "Read the token from stdin")
	cmd.MarkFlagsMutuallyExclusive("token", "stdin")

	return cmd
}

package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/systmms/ccm/internal/config"
	"github.com/systmms/ccm/internal/credentials"
	"github.com/systmms/ccm/pkg/profile"
)

func NewRemoveCommand(cfg *config.Config) *cobra.Command {
	var purge bool

	cmd := &cobra.Command{
		Use:     "remove <name>",
		Aliases: []string{"rm"},
		Short:   "Delete a profile",
		Long: `Delete a profile file. There is no undo.

With --purge the keychain entry for a keychain-backed profile is removed
as well. Environment variables and sealed files are left alone.`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeProfiles(cfg),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			store := cfg.Store()

			var src profile.CredentialSource
			if purge {
				p, err := store.Get(name)
				switch {
				case err == nil:
					src = p.Provider.AuthTokenSource
				case errors.Is(err, profile.ErrDeserializationFailed):
					cfg.Logger.Warn("profile %s is unreadable; removing it without purging credentials", name)
				default:
					return err
				}
			}

			if err := store.Delete(name); err != nil {
				return err
			}

			if src != nil {
				err := cfg.Resolver().Forget(cmd.Context(), name, src)
				switch {
				case err == nil:
					cfg.Logger.Debug("purged %s", profile.Describe(src))
				case errors.Is(err, credentials.ErrCredentialNotFound),
					errors.Is(err, credentials.ErrUnsupportedOperation):
					cfg.Logger.Debug("nothing to purge for %s: %v", name, err)
				default:
					return err
				}
			}

			if cfg.Settings.DefaultProfile == name {
				cfg.Settings.DefaultProfile = ""
				if err := cfg.Save(); err != nil {
					return err
				}
				cfg.Logger.Warn("%s was the default profile; no default is set now", name)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Removed profile %s\n", name)
			return nil
		},
	}

	cmd.Flags().BoolVar(&purge, "purge", false, "Also delete the keychain entry")

	return cmd
}

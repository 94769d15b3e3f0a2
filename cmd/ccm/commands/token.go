package commands

import (
	"github.com/spf13/cobra"

	"github.com/systmms/ccm/internal/config"
)

func NewTokenCommand(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "token [name]",
		Short: "Print a profile's auth token",
		Long: `Resolve a profile's auth token from its source and print it to stdout.

Examples:
  ccm token work | pbcopy
  curl -H "Authorization: Bearer $(ccm token)" ...`,
		Args:              cobra.MaximumNArgs(1),
		ValidArgsFunction: completeProfiles(cfg),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, err := cfg.ProfileName(profileArg(args))
			if err != nil {
				return err
			}
			p, err := cfg.Store().Get(name)
			if err != nil {
				return err
			}

			secret, err := cfg.Resolver().Resolve(cmd.Context(), p)
			if err != nil {
				return err
			}
			defer secret.Destroy()

			out := cmd.OutOrStdout()
			return secret.Reveal(func(b []byte) error {
				if _, err := out.Write(b); err != nil {
					return err
				}
				_, err := out.Write([]byte("\n"))
				return err
			})
		},
	}
}

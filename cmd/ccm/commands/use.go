package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/systmms/ccm/internal/config"
)

func NewUseCommand(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:               "use <name>",
		Short:             "Set the default profile",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeProfiles(cfg),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			if _, err := cfg.Store().Get(name); err != nil {
				return err
			}

			cfg.Settings.DefaultProfile = name
			if err := cfg.Save(); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Default profile is now %s\n", name)
			return nil
		},
	}
}

func NewCurrentCommand(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "current",
		Short: "Print the default profile name",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			name, err := cfg.ProfileName("")
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), name)
			return nil
		},
	}
}

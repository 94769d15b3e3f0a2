package commands

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/systmms/ccm/internal/config"
)

func NewListCommand(cfg *config.Config) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List profiles",
		Long: `List stored profile names in alphabetical order. The default profile
is marked with "*".`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			names, err := cfg.Store().List()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if jsonOutput {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(map[string]interface{}{
					"profiles": names,
					"default":  cfg.Settings.DefaultProfile,
				})
			}

			if len(names) == 0 {
				cfg.Logger.Info("No profiles yet. Create one with 'ccm add <name>'")
				return nil
			}
			for _, name := range names {
				marker := " "
				if name == cfg.Settings.DefaultProfile {
					marker = "*"
				}
				fmt.Fprintf(out, "%s %s\n", marker, name)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")

	return cmd
}

package commands

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/systmms/ccm/internal/config"
	"github.com/systmms/ccm/pkg/profile"
)

func NewShowCommand(cfg *config.Config) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "show [name]",
		Short: "Show a profile",
		Long: `Show a profile's configuration. The token itself is never printed; use
'ccm token' for that. Without a name the default profile is shown.`,
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

			out := cmd.OutOrStdout()
			if jsonOutput {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(profileView(p, name == cfg.Settings.DefaultProfile))
			}

			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintf(w, "Name:\t%s\n", p.Name)
			fmt.Fprintf(w, "Base URL:\t%s\n", p.Provider.BaseURL)
			fmt.Fprintf(w, "Model:\t%s\n", p.Provider.Model)
			if p.Provider.SmallFastModel != "" {
				fmt.Fprintf(w, "Small/fast model:\t%s\n", p.Provider.SmallFastModel)
			}
			fmt.Fprintf(w, "Token source:\t%s\n", profile.Describe(p.Provider.AuthTokenSource))
			for _, key := range p.Provider.ExtraEnvKeys() {
				fmt.Fprintf(w, "Env %s:\t%s\n", key, p.Provider.ExtraEnv[key])
			}
			if name == cfg.Settings.DefaultProfile {
				fmt.Fprintf(w, "Default:\tyes\n")
			}
			return w.Flush()
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")

	return cmd
}

func profileView(p *profile.Profile, isDefault bool) map[string]interface{} {
	view := map[string]interface{}{
		"name":     p.Name,
		"base_url": p.Provider.BaseURL,
		"model":    p.Provider.Model,
		"auth_token_source": map[string]string{
			"kind":      string(p.Provider.AuthTokenSource.Kind()),
			"reference": p.Provider.AuthTokenSource.Reference(),
		},
		"default": isDefault,
	}
	if p.Provider.SmallFastModel != "" {
		view["small_fast_model"] = p.Provider.SmallFastModel
	}
	if len(p.Provider.ExtraEnv) > 0 {
		view["extra_env"] = p.Provider.ExtraEnv
	}
	return view
}

package commands

import (
	"github.com/spf13/cobra"

	"github.com/systmms/ccm/internal/config"
	"github.com/systmms/ccm/internal/shell"
	"github.com/systmms/ccm/pkg/profile"
)

func NewEnvCommand(cfg *config.Config) *cobra.Command {
	var (
		shellName string
		unset     bool
	)

	cmd := &cobra.Command{
		Use:   "env [name]",
		Short: "Print shell exports for a profile",
		Long: `Print statements that export a profile's settings and token.

Examples:
  eval "$(ccm env work)"
  ccm env work --shell fish | source
  eval "$(ccm env work --unset)"`,
		Args:              cobra.MaximumNArgs(1),
		ValidArgsFunction: completeProfiles(cfg),
		RunE: func(cmd *cobra.Command, args []string) error {
			sh, err := pickShell(shellName)
			if err != nil {
				return err
			}

			name, err := cfg.ProfileName(profileArg(args))
			if err != nil {
				return err
			}
			p, err := cfg.Store().Get(name)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if unset {
				_, err := out.Write([]byte(sh.Unset(exportNames(p))))
				return err
			}

			secret, err := cfg.Resolver().Resolve(cmd.Context(), p)
			if err != nil {
				return err
			}
			defer secret.Destroy()

			return secret.Reveal(func(token []byte) error {
				_, err := out.Write([]byte(sh.Export(exportVars(p, string(token)))))
				return err
			})
		},
	}

	cmd.Flags().StringVar(&shellName, "shell", "", "Shell dialect: bash, zsh or fish (default from $SHELL)")
	cmd.Flags().BoolVar(&unset, "unset", false, "Print statements that remove the variables instead")

	return cmd
}

func pickShell(name string) (shell.Shell, error) {
	if name == "" {
		return shell.Detect()
	}
	return shell.Parse(name)
}

func exportVars(p *profile.Profile, token string) []shell.Var {
	vars := []shell.Var{
		{Name: profile.EnvBaseURL, Value: p.Provider.BaseURL},
		{Name: profile.EnvModel, Value: p.Provider.Model},
	}
	if p.Provider.SmallFastModel != "" {
		vars = append(vars, shell.Var{Name: profile.EnvSmallFastModel, Value: p.Provider.SmallFastModel})
	}
	vars = append(vars, shell.Var{Name: profile.EnvAuthToken, Value: token})
	for _, key := range p.Provider.ExtraEnvKeys() {
		vars = append(vars, shell.Var{Name: key, Value: p.Provider.ExtraEnv[key]})
	}
	return vars
}

func exportNames(p *profile.Profile) []string {
	return append(profile.ReservedEnv(), p.Provider.ExtraEnvKeys()...)
}

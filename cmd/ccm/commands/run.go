package commands

import (
	"github.com/spf13/cobra"

	"github.com/systmms/ccm/internal/config"
	dserrors "github.com/systmms/ccm/internal/errors"
	"github.com/systmms/ccm/internal/execenv"
)

func NewRunCommand(cfg *config.Config) *cobra.Command {
	var (
		allowOverride bool
		printVars     bool
	)

	cmd := &cobra.Command{
		Use:   "run [name] -- <command> [args...]",
		Short: "Run a command with a profile's environment",
		Long: `Run a command with the profile's variables and token added to the
current environment. Nothing is written to disk. The command always
follows --.

Examples:
  ccm run work -- my-tool --verbose
  ccm run -- my-tool            # default profile`,
		Args:              cobra.MinimumNArgs(1),
		ValidArgsFunction: completeProfiles(cfg),
		RunE: func(cmd *cobra.Command, args []string) error {
			dash := cmd.ArgsLenAtDash()
			if dash < 0 || dash > 1 {
				return dserrors.UserError{
					Message:    "Separate the command from the profile name with --",
					Suggestion: "ccm run [name] -- <command> [args...]",
				}
			}
			command := args[dash:]
			if len(command) == 0 {
				return dserrors.UserError{
					Message:    "No command specified",
					Suggestion: "Provide a command after -- (e.g., ccm run work -- my-tool)",
				}
			}

			name, err := cfg.ProfileName(profileArg(args[:dash]))
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

			return secret.Reveal(func(token []byte) error {
				env := make(map[string]string)
				for _, v := range exportVars(p, string(token)) {
					env[v.Name] = v.Value
				}
				return execenv.New(cfg.Logger).Exec(cmd.Context(), execenv.ExecOptions{
					Command:       command,
					Environment:   env,
					AllowOverride: allowOverride,
					PrintVars:     printVars,
					Stdin:         cmd.InOrStdin(),
					Stdout:        cmd.OutOrStdout(),
					Stderr:        cmd.ErrOrStderr(),
				})
			})
		},
	}

	cmd.Flags().BoolVar(&allowOverride, "allow-override", false, "Keep variables already set in the environment")
	cmd.Flags().BoolVar(&printVars, "print-vars", false, "Print the variables being set (values masked)")

	return cmd
}

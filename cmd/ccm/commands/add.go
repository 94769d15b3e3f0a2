package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/systmms/ccm/internal/config"
	dserrors "github.com/systmms/ccm/internal/errors"
	"github.com/systmms/ccm/pkg/profile"
)

func NewAddCommand(cfg *config.Config) *cobra.Command {
	var (
		baseURL        string
		model          string
		smallFastModel string
		extraEnv       []string
		authToken      string
		tokenStdin     bool
		force          bool
		makeDefault    bool
		src            sourceFlags
	)

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Create a profile",
		Long: `Create a named profile.

The auth token source defaults to the system keychain under service "ccm"
with the profile name as account. Pass --auth-token (or --auth-token-stdin)
to store the token in the keychain or a sealed file at the same time.

Examples:
  ccm add work --base-url https://api.example.com --model model-large --auth-token-stdin
  ccm add ci --base-url https://proxy.internal --model model-large --env-var CI_TOKEN
  ccm add laptop --base-url https://api.example.com --model m --encrypted ~/.ccm/laptop.sealed`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := parseExtraEnv(extraEnv)
			if err != nil {
				return err
			}

			p := &profile.Profile{
				Name: args[0],
				Provider: profile.ProviderConfig{
					BaseURL:         baseURL,
					Model:           model,
					SmallFastModel:  smallFastModel,
					AuthTokenSource: src.source(),
					ExtraEnv:        env,
				},
			}
			if err := p.Validate(); err != nil {
				return err
			}

			secret, err := readSecret(cmd, authToken, tokenStdin)
			if err != nil {
				return err
			}
			if secret != nil {
				defer secret.Destroy()
				if p.Provider.AuthTokenSource.Kind() == profile.KindEnvironment {
					return dserrors.UserError{
						Message:    "--auth-token cannot be used with --env-var",
						Suggestion: fmt.Sprintf("Export %s in your shell instead", p.Provider.AuthTokenSource.Reference()),
					}
				}
			}

			store := cfg.Store()
			resolver := cfg.Resolver()
			storeSecret := func() error {
				if secret == nil {
					return nil
				}
				return resolver.Store(cmd.Context(), p.Name, p.Provider.AuthTokenSource, secret)
			}

			created := true
			err = store.Create(p)
			switch {
			case err == nil:
				if err := storeSecret(); err != nil {
					if delErr := store.Delete(p.Name); delErr != nil {
						cfg.Logger.Warn("could not roll back profile %s: %v", p.Name, delErr)
					}
					return err
				}

			case force && profile.IsAlreadyExists(err):
				created = false
				prev, getErr := store.Get(p.Name)
				if getErr != nil && !errors.Is(getErr, profile.ErrDeserializationFailed) {
					return getErr
				}
				if prev == nil {
					// Nothing readable to restore; store the token first so a
					// failure leaves the old file in place.
					if err := storeSecret(); err != nil {
						return err
					}
					if err := store.Update(p); err != nil {
						return err
					}
					break
				}
				if err := store.Update(p); err != nil {
					return err
				}
				if err := storeSecret(); err != nil {
					if restoreErr := store.Update(prev); restoreErr != nil {
						cfg.Logger.Warn("could not restore profile %s: %v", p.Name, restoreErr)
					}
					return err
				}

			default:
				return err
			}

			if makeDefault {
				cfg.Settings.DefaultProfile = p.Name
				if err := cfg.Save(); err != nil {
					return err
				}
			}

			verb := "Created"
			if !created {
				verb = "Updated"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s profile %s (%s)\n", verb, p.Name, profile.Describe(p.Provider.AuthTokenSource))
			return nil
		},
	}

	cmd.Flags().StringVar(&baseURL, "base-url", "", "Provider base URL (required)")
	cmd.Flags().StringVar(&model, "model", "", "Model name (required)")
	cmd.Flags().StringVar(&smallFastModel, "small-fast-model", "", "Optional small/fast model name")
	cmd.Flags().StringArrayVar(&extraEnv, "extra-env", nil, "Extra environment variable KEY=VALUE (repeatable)")
	cmd.Flags().StringVar(&authToken, "auth-token", "", "Store this token in the keychain or sealed file")
	cmd.Flags().BoolVar(&tokenStdin, "auth-token-stdin", false, "Read the token to store from stdin")
	cmd.Flags().BoolVar(&force, "force", false, "Replace an existing profile")
	cmd.Flags().BoolVar(&makeDefault, "default", false, "Make this the default profile")
	cmd.MarkFlagsMutuallyExclusive("auth-token", "auth-token-stdin")
	src.register(cmd)

	return cmd
}

package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/systmms/ccm/internal/config"
	dserrors "github.com/systmms/ccm/internal/errors"
	"github.com/systmms/ccm/pkg/profile"
)

// ProfileHealth is one row of the doctor report.
type ProfileHealth struct {
	Name       string
	Source     string
	Status     string // "ok", "corrupt", "unresolved"
	Error      string
	Suggestion string
}

func NewDoctorCommand(cfg *config.Config) *cobra.Command {
	var checkCredentials bool

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check profiles and credential backends",
		Long: `Verify the ccm setup.

This command checks:
- The configuration directory and settings file
- System keychain availability
- That every profile file parses
- With --check-credentials, that every token resolves (values are not printed)`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			problems := 0

			fmt.Fprintf(out, "Config directory: %s\n", cfg.Paths.ConfigDir)
			fmt.Fprintf(out, "Profiles:         %s\n", cfg.Paths.ProfilesDir)

			resolver := cfg.Resolver()
			status := resolver.Check(cmd.Context())
			switch {
			case status.Err != nil:
				fmt.Fprintf(out, "Keychain:         unavailable (%v)\n", status.Err)
			case status.Headless:
				fmt.Fprintf(out, "Keychain:         available (headless session, unlock prompts will fail)\n")
			default:
				fmt.Fprintf(out, "Keychain:         available\n")
			}

			store := cfg.Store()
			names, err := store.List()
			if err != nil {
				return err
			}

			results := make([]ProfileHealth, 0, len(names))
			for _, name := range names {
				health := ProfileHealth{Name: name, Status: "ok"}

				p, err := store.Get(name)
				if err != nil {
					health.Status = "corrupt"
					health.Error = err.Error()
					health.Suggestion = dserrors.Suggest(err)
					results = append(results, health)
					problems++
					continue
				}
				health.Source = profile.Describe(p.Provider.AuthTokenSource)

				if checkCredentials {
					secret, err := resolver.Resolve(cmd.Context(), p)
					if err != nil {
						health.Status = "unresolved"
						health.Error = err.Error()
						health.Suggestion = dserrors.Suggest(err)
						problems++
					} else {
						secret.Destroy()
					}
				}
				results = append(results, health)
			}

			if def := cfg.Settings.DefaultProfile; def != "" {
				if ok, _ := store.Exists(def); !ok {
					fmt.Fprintf(out, "Default profile %q does not exist\n", def)
					problems++
				}
			}

			fmt.Fprintln(out)
			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "PROFILE\tSOURCE\tSTATUS")
			for _, r := range results {
				fmt.Fprintf(w, "%s\t%s\t%s\n", r.Name, r.Source, r.Status)
			}
			if err := w.Flush(); err != nil {
				return err
			}

			for _, r := range results {
				if r.Error == "" {
					continue
				}
				fmt.Fprintf(out, "\n%s: %s\n", r.Name, r.Error)
				if r.Suggestion != "" {
					fmt.Fprintf(out, "  💡 %s\n", r.Suggestion)
				}
			}

			fmt.Fprintf(out, "\nSummary: %d profile(s), %d problem(s)\n", len(results), problems)
			if problems > 0 {
				return dserrors.UserError{
					Message:    fmt.Sprintf("doctor found %d problem(s)", problems),
					Suggestion: "Fix the issues listed above",
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&checkCredentials, "check-credentials", false, "Resolve every profile's token")

	return cmd
}

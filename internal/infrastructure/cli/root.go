package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/doeshing/heartrisk-go/internal/infrastructure/cli/commands"
)

// Options holds CLI-level configuration.
type Options struct {
	Verbose bool
}

// NewRootCmd wires the cobra root command.
func NewRootCmd(opts Options) *cobra.Command {
	rt := &commands.Runtime{Verbose: opts.Verbose}

	root := &cobra.Command{
		Use:   "heartrisk",
		Short: "heartrisk - heart disease risk prediction form",
		Long: "heartrisk serves a form that collects thirteen clinical attributes, sends them to a " +
			"remote prediction backend and shows the predicted class with a risk breakdown.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&rt.ConfigPath, "config", "", "Config file (default ~/.heartrisk/config.yaml)")
	root.PersistentFlags().BoolVarP(&rt.Verbose, "verbose", "v", opts.Verbose, "Enable debug logging")

	root.AddCommand(newServeCommand(rt))
	root.AddCommand(newPredictCommand(rt))
	root.AddCommand(newModelsCommand(rt))
	root.AddCommand(newCompareCommand(rt))
	root.AddCommand(newFieldsCommand(rt))
	root.AddCommand(commands.NewInitCommand(rt))
	root.AddCommand(commands.NewConfigCommand(rt))
	root.AddCommand(commands.NewDoctorCommand(rt))
	root.AddCommand(commands.NewVersionCommand())
	return root
}

func newServeCommand(rt *commands.Runtime) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the prediction form and JSON API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			container, err := rt.Container(cmd.Context())
			if err != nil {
				return err
			}
			if addr == "" {
				addr = container.Config.Server.Addr
			}
			shutdownTimeout, err := container.Config.ShutdownTimeout()
			if err != nil {
				return err
			}

			srv, err := container.NewWebServer()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Serving on %s (backend %s)\n", addr, container.Config.Backend.BaseURL)
			return srv.Run(cmd.Context(), addr, shutdownTimeout)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default from config)")
	return cmd
}

func newPredictCommand(rt *commands.Runtime) *cobra.Command {
	var (
		model   string
		sets    []string
		jsonOut bool
	)

	cmd := &cobra.Command{
		Use:   "predict",
		Short: "Submit the default record, with overrides, to one model",
		Example: "  heartrisk predict --set age=61 --set cp=asymptomatic\n" +
			"  heartrisk predict --model \"Random Forest\" --json",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			container, err := rt.Container(ctx)
			if err != nil {
				return err
			}

			sess := container.NewSession(ctx, "cli")
			if model != "" {
				if err := sess.SetModel(model); err != nil {
					return err
				}
			}
			assignments, err := parseAssignments(sets)
			if err != nil {
				return err
			}
			for _, a := range assignments {
				if err := sess.SetField(a.field, a.value); err != nil {
					return err
				}
			}

			var spinner *Spinner
			if !jsonOut {
				spinner = NewSpinner(cmd.ErrOrStderr())
				spinner.Start("Asking " + sess.Snapshot().Model)
			}
			view, err := sess.Submit(ctx)
			if spinner != nil {
				spinner.Stop()
			}
			if err != nil {
				return fmt.Errorf("prediction failed: %w", err)
			}

			if jsonOut {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(view)
			}
			RenderResult(cmd.OutOrStdout(), view)
			return nil
		},
	}

	cmd.Flags().StringVarP(&model, "model", "m", "", "Model to use (default: recommended model)")
	cmd.Flags().StringArrayVarP(&sets, "set", "s", nil, "Override a field, e.g. --set age=61 (repeatable)")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Print the result as JSON")
	return cmd
}

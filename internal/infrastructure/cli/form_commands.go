package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/doeshing/heartrisk-go/internal/domain"
	"github.com/doeshing/heartrisk-go/internal/infrastructure/cli/commands"
)

type assignment struct {
	field domain.Field
	value string
}

// parseAssignments turns repeated "field=value" flags into field edits, in order.
func parseAssignments(raw []string) ([]assignment, error) {
	out := make([]assignment, 0, len(raw))
	for _, item := range raw {
		key, value, ok := strings.Cut(item, "=")
		if !ok {
			return nil, fmt.Errorf("expected field=value, got %q", item)
		}
		field, ok := domain.LookupField(key)
		if !ok {
			return nil, fmt.Errorf("%w: %q", domain.ErrUnknownField, key)
		}
		out = append(out, assignment{field: field, value: value})
	}
	return out, nil
}

func newModelsCommand(rt *commands.Runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "models",
		Short: "List the models the backend offers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			container, err := rt.Container(cmd.Context())
			if err != nil {
				return err
			}
			models, err := container.ModelLister.ListModels(cmd.Context())
			if err != nil {
				return fmt.Errorf("list models: %w", err)
			}
			if len(models) == 0 {
				return domain.ErrNoModels
			}
			source := "backend"
			if !container.Config.Models.Fetch {
				source = "config"
			}
			RenderModels(cmd.OutOrStdout(), models, container.Config.Models.Recommended, source)
			return nil
		},
	}
}

func newCompareCommand(rt *commands.Runtime) *cobra.Command {
	var (
		models []string
		sets   []string
	)

	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Submit the same record to every model and compare the results",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			container, err := rt.Container(ctx)
			if err != nil {
				return err
			}

			patient := container.Config.Form.Defaults
			assignments, err := parseAssignments(sets)
			if err != nil {
				return err
			}
			for _, a := range assignments {
				if patient, err = patient.WithField(a.field, a.value); err != nil {
					return err
				}
			}

			if len(models) == 0 {
				if models, err = container.ModelLister.ListModels(ctx); err != nil {
					return fmt.Errorf("list models: %w", err)
				}
			}

			spinner := NewSpinner(cmd.ErrOrStderr())
			spinner.Start(fmt.Sprintf("Asking %d models", len(models)))
			results, err := container.CompareService.Run(ctx, patient, models)
			spinner.Stop()
			if err != nil {
				return err
			}
			RenderComparison(cmd.OutOrStdout(), results)
			return nil
		},
	}

	cmd.Flags().StringArrayVarP(&models, "model", "m", nil, "Model to include (repeatable, default: all)")
	cmd.Flags().StringArrayVarP(&sets, "set", "s", nil, "Override a field, e.g. --set age=61 (repeatable)")
	return cmd
}

func newFieldsCommand(rt *commands.Runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "fields",
		Short: "Describe the form fields, their ranges and legends",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			container, err := rt.Container(cmd.Context())
			if err != nil {
				return err
			}
			RenderFields(cmd.OutOrStdout(), container.Config.Form.Defaults)
			return nil
		},
	}
}

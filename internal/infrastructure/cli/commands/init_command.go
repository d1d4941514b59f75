package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

// NewInitCommand creates the init command, which writes the default configuration file.
func NewInitCommand(rt *Runtime) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize heartrisk configuration",
		Long: `Initialize heartrisk configuration with default settings.

This command creates ~/.heartrisk/config.yaml (or the --config path).
After initialization, you should:
  1. Point backend.base_url at your prediction server
  2. Run 'heartrisk doctor' to verify your setup

An existing file is left alone unless --force is given, in which case it is
backed up first.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(cmd.OutOrStdout(), rt, force)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing config (a backup is kept)")

	return cmd
}

func runInit(out io.Writer, rt *Runtime, force bool) error {
	loader := rt.Loader()
	configPath := loader.Path()

	_, statErr := os.Stat(configPath)
	exists := statErr == nil
	if exists && !force {
		fmt.Fprintf(out, "%s already exists. %s\n", configPath, MsgInitUseForce)
		return nil
	}

	if exists {
		backupPath, err := loader.Backup()
		if err != nil {
			return fmt.Errorf("failed to create configuration backup: %w", err)
		}
		fmt.Fprintf(out, "Existing config backed up to: %s\n", backupPath)
	}

	if _, err := loader.Reset(); err != nil {
		return fmt.Errorf("failed to save configuration: %w", err)
	}

	displayCompletionInstructions(out, configPath)
	return nil
}

func displayCompletionInstructions(out io.Writer, configPath string) {
	fmt.Fprintf(out, "\n✓ Configuration initialized: %s\n\n", configPath)
	fmt.Fprintln(out, "Next steps:")
	fmt.Fprintln(out, "  1. Set the prediction server address:")
	fmt.Fprintln(out, "     heartrisk config set backend.base_url http://127.0.0.1:8000")
	fmt.Fprintln(out, "")
	fmt.Fprintln(out, "  2. Verify your setup:")
	fmt.Fprintln(out, "     heartrisk doctor")
	fmt.Fprintln(out, "")
	fmt.Fprintln(out, "  3. Start the form:")
	fmt.Fprintln(out, "     heartrisk serve")
}

package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"strings"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	configapp "github.com/doeshing/heartrisk-go/internal/application/config"
	"github.com/doeshing/heartrisk-go/internal/domain"
	configinfra "github.com/doeshing/heartrisk-go/internal/infrastructure/config"
)

// NewConfigCommand creates the config command with all subcommands
func NewConfigCommand(rt *Runtime) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect heartrisk configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfiguration(cmd.Context(), cmd.OutOrStdout(), rt.Loader())
		},
	}

	configCmd.AddCommand(
		newConfigShowCommand(rt),
		newConfigPathCommand(rt),
		newConfigGetCommand(rt),
		newConfigSetCommand(rt),
		newConfigValidateCommand(rt),
		newConfigResetCommand(rt),
		newConfigDiffCommand(rt),
	)

	return configCmd
}

func newConfigShowCommand(rt *Runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration (file plus environment overrides)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfiguration(cmd.Context(), cmd.OutOrStdout(), rt.Loader())
		},
	}
}

func newConfigPathCommand(rt *Runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the config file location",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), rt.Loader().Path())
			return nil
		},
	}
}

func newConfigGetCommand(rt *Runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "get <key>",
		Short: "Get a configuration value (e.g. backend.base_url)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return getConfigurationValue(cmd.OutOrStdout(), rt.Loader(), args[0])
		},
	}
}

func newConfigSetCommand(rt *Runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a configuration value (value accepts YAML syntax)",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			value := strings.Join(args[1:], " ")
			return setConfigurationValue(cmd.OutOrStdout(), rt.Loader(), args[0], value)
		},
	}
}

func newConfigValidateCommand(rt *Runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate the configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := rt.Loader().Load(cmd.Context())
			if err != nil {
				return fmt.Errorf("configuration validation failed: %w", err)
			}
			if err := configapp.Validate(cfg); err != nil {
				return fmt.Errorf("configuration validation failed: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), MsgConfigurationValid)
			return nil
		},
	}
}

func newConfigResetCommand(rt *Runtime) *cobra.Command {
	var noBackup bool
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Reset configuration to defaults",
		RunE: func(cmd *cobra.Command, args []string) error {
			return resetConfigurationToDefaults(cmd.OutOrStdout(), rt.Loader(), !noBackup)
		},
	}
	cmd.Flags().BoolVar(&noBackup, "no-backup", false, "Do not keep a copy of the current file")
	return cmd
}

func newConfigDiffCommand(rt *Runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "diff",
		Short: "Show diff versus default configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfigurationDiff(cmd.OutOrStdout(), rt.Loader())
		},
	}
}

func showConfiguration(ctx context.Context, out io.Writer, loader *configinfra.FileLoader) error {
	cfg, err := loader.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal configuration: %w", err)
	}

	fmt.Fprint(out, string(data))
	return nil
}

func getConfigurationValue(out io.Writer, loader *configinfra.FileLoader, keyPath string) error {
	cfg, err := loader.LoadFile()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	cfgMap, err := configToMap(cfg)
	if err != nil {
		return err
	}

	value, found := lookupNested(cfgMap, strings.Split(keyPath, "."))
	if !found {
		return fmt.Errorf("key %s not found in configuration", keyPath)
	}

	data, err := yaml.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal value: %w", err)
	}

	fmt.Fprint(out, string(data))
	return nil
}

// setConfigurationValue edits the file itself, so environment overrides are never
// persisted.
func setConfigurationValue(out io.Writer, loader *configinfra.FileLoader, keyPath, value string) error {
	cfg, err := loader.LoadFile()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	cfgMap, err := configToMap(cfg)
	if err != nil {
		return err
	}

	var parsed interface{}
	if err := yaml.Unmarshal([]byte(value), &parsed); err != nil {
		return fmt.Errorf("failed to parse value: %w", err)
	}

	keys := strings.Split(keyPath, ".")
	if !setNested(cfgMap, keys, parsed) {
		return fmt.Errorf("unable to set key %s", keyPath)
	}

	updated, err := mapToConfig(cfgMap)
	if err != nil {
		return err
	}
	if err := configapp.Validate(updated); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}
	if err := loader.Save(updated); err != nil {
		return fmt.Errorf("failed to save configuration: %w", err)
	}

	fmt.Fprintf(out, "Updated %s in %s\n", keyPath, loader.Path())
	return nil
}

func resetConfigurationToDefaults(out io.Writer, loader *configinfra.FileLoader, backup bool) error {
	if backup {
		path, err := loader.Backup()
		switch {
		case err == nil:
			fmt.Fprintf(out, "Previous configuration saved to %s\n", path)
		case errors.Is(err, fs.ErrNotExist):
		default:
			return fmt.Errorf("failed to back up configuration: %w", err)
		}
	}

	defaultConfig, err := loader.Reset()
	if err != nil {
		return fmt.Errorf("failed to reset configuration: %w", err)
	}

	fmt.Fprintf(out, "Configuration reset at %s\n", loader.Path())

	data, _ := yaml.Marshal(defaultConfig)
	fmt.Fprint(out, string(data))

	return nil
}

// showConfigurationDiff compares the file, without environment overrides, against the
// embedded defaults.
func showConfigurationDiff(out io.Writer, loader *configinfra.FileLoader) error {
	currentConfig, err := loader.LoadFile()
	if err != nil {
		return fmt.Errorf("failed to load current configuration: %w", err)
	}

	diff := cmp.Diff(configinfra.DefaultConfig(), currentConfig)
	if diff == "" {
		fmt.Fprintln(out, MsgNoDifferencesFromDefault)
		return nil
	}

	fmt.Fprintln(out, diff)
	return nil
}

func configToMap(cfg domain.Config) (map[string]interface{}, error) {
	raw, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}

	var cfgMap map[string]interface{}
	if err := yaml.Unmarshal(raw, &cfgMap); err != nil {
		return nil, fmt.Errorf("failed to unmarshal to map: %w", err)
	}
	return cfgMap, nil
}

func mapToConfig(cfgMap map[string]interface{}) (domain.Config, error) {
	raw, err := yaml.Marshal(cfgMap)
	if err != nil {
		return domain.Config{}, fmt.Errorf("failed to marshal updated map: %w", err)
	}

	var updated domain.Config
	if err := yaml.Unmarshal(raw, &updated); err != nil {
		return domain.Config{}, fmt.Errorf("failed to unmarshal to Config: %w", err)
	}
	return updated, nil
}

func lookupNested(m map[string]interface{}, keys []string) (interface{}, bool) {
	var current interface{} = m
	for _, key := range keys {
		node, ok := current.(map[string]interface{})
		if !ok {
			return nil, false
		}
		current, ok = node[key]
		if !ok {
			return nil, false
		}
	}
	return current, true
}

// setNested only replaces keys that already exist, so typos are reported instead of
// silently dropped by the YAML round trip.
func setNested(m map[string]interface{}, keys []string, value interface{}) bool {
	if len(keys) == 0 {
		return false
	}
	node := m
	for _, key := range keys[:len(keys)-1] {
		child, ok := node[key].(map[string]interface{})
		if !ok {
			return false
		}
		node = child
	}
	last := keys[len(keys)-1]
	if _, ok := node[last]; !ok {
		return false
	}
	node[last] = value
	return true
}

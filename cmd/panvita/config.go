package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/VictorCaricatte/panvita/internal/config"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage panvita configuration",
		Long:  "Show, get, or set configuration values. Config is stored in ~/.panvita.yaml.",
		Example: `  panvita config                              # show all config
  panvita config set thresholds.identity 80   # raise the identity cutoff
  panvita config get thresholds.identity      # get a value`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigShow()
		},
	}

	cmd.AddCommand(newConfigSetCmd())
	cmd.AddCommand(newConfigGetCmd())

	return cmd
}

func newConfigSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a configuration value",
		Long:  "Set a configuration value. Known keys: " + strings.Join(config.Keys(), ", ") + ".",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigSet(args[0], args[1])
		},
	}
}

func newConfigGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <key>",
		Short: "Get a configuration value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigGet(args[0])
		},
	}
}

func runConfigShow() error {
	settings := viper.AllSettings()
	if len(settings) == 0 {
		fmt.Println("# No configuration set. Config file: ~/.panvita.yaml")
		return nil
	}

	out, err := yaml.Marshal(settings)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	fmt.Print(string(out))
	return nil
}

// parseConfigValue converts a raw value into the key's native type.
// Unknown keys are rejected rather than stored, so typos never silently
// shadow a real setting.
func parseConfigValue(key, value string) (any, error) {
	switch key {
	case config.KeyIdentity, config.KeyCoverage, config.KeyEValue:
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return nil, fmt.Errorf("%s wants a number, got %q", key, value)
		}
		return f, nil
	case config.KeyWorkers:
		n, err := strconv.Atoi(value)
		if err != nil {
			return nil, fmt.Errorf("%s wants an integer, got %q", key, value)
		}
		return n, nil
	case config.KeyOutputDir, config.KeyDatabaseDir, config.KeyStorePath:
		return value, nil
	}
	return nil, fmt.Errorf("unknown configuration key %q (known keys: %s)",
		key, strings.Join(config.Keys(), ", "))
}

func runConfigSet(key, value string) error {
	val, err := parseConfigValue(key, value)
	if err != nil {
		return err
	}
	viper.Set(key, val)

	// Reject values the pipeline could not run with before persisting.
	if _, err := config.FromViper(viper.GetViper()); err != nil {
		return fmt.Errorf("rejecting %s=%s: %w", key, value, err)
	}

	// Ensure config file exists
	cfgFile := viper.ConfigFileUsed()
	if cfgFile == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("cannot determine home directory: %w", err)
		}
		cfgFile = filepath.Join(home, ".panvita.yaml")
	}

	if err := viper.WriteConfigAs(cfgFile); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	fmt.Printf("Set %s = %s in %s\n", key, value, cfgFile)
	return nil
}

func runConfigGet(key string) error {
	val := viper.Get(key)
	if val == nil {
		return fmt.Errorf("key %q is not set", key)
	}
	fmt.Println(val)
	return nil
}

package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage vibe-pgx configuration",
		Long:  "Show, get, or set configuration values. Config is stored in ~/.vibe-pgx.yaml.",
		Example: `  vibe-pgx config                                   # show the config file
  vibe-pgx config set annotations ~/pgx/var_drug_ann.tsv  # default annotation file
  vibe-pgx config set top_n 10                      # rank ten genes and drugs
  vibe-pgx config get workers                       # get a value`,
		Args: usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigShow(cmd.OutOrStdout())
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
		Args:  usageArgs(cobra.ExactArgs(2)),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigSet(cmd.OutOrStdout(), args[0], args[1])
		},
	}
}

func newConfigGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <key>",
		Short: "Get a configuration value",
		Args:  usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigGet(cmd.OutOrStdout(), args[0])
		},
	}
}

// configPath returns the config file in use, or ~/.vibe-pgx.yaml.
func configPath() (string, error) {
	if f := viper.ConfigFileUsed(); f != "" {
		return f, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".vibe-pgx.yaml"), nil
}

// fileConfig loads only the keys stored in the config file, leaving out
// defaults, flags and environment variables.
func fileConfig() (*viper.Viper, string, error) {
	path, err := configPath()
	if err != nil {
		return nil, "", err
	}

	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, "", fmt.Errorf("reading config: %w", err)
	}
	return v, path, nil
}

func runConfigShow(out io.Writer) error {
	v, path, err := fileConfig()
	if err != nil {
		return err
	}

	settings := v.AllSettings()
	if len(settings) == 0 {
		fmt.Fprintf(out, "# No configuration set. Config file: %s\n", path)
		return nil
	}

	b, err := yaml.Marshal(settings)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	fmt.Fprint(out, string(b))
	return nil
}

func runConfigSet(out io.Writer, key, value string) error {
	v, path, err := fileConfig()
	if err != nil {
		return err
	}

	// Store numbers as numbers so top_n and workers round-trip as ints
	var parsed any = value
	if n, err := strconv.Atoi(value); err == nil {
		parsed = n
	} else {
		switch value {
		case "true", "yes", "on":
			parsed = true
		case "false", "no", "off":
			parsed = false
		}
	}
	v.Set(key, parsed)
	viper.Set(key, parsed)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	fmt.Fprintf(out, "Set %s = %s in %s\n", key, value, path)
	return nil
}

func runConfigGet(out io.Writer, key string) error {
	val := viper.Get(key)
	if val == nil {
		return fmt.Errorf("key %q is not set", key)
	}
	fmt.Fprintln(out, val)
	return nil
}

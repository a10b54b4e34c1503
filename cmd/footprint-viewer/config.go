package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

type valueKind int

const (
	kindString valueKind = iota
	kindInt
	kindBool
	kindList
)

// configKeys lists the settings read by layout and stats.
var configKeys = map[string]struct {
	kind  valueKind
	usage string
}{
	"gff":        {kindString, "default GFF3 annotation file"},
	"tracks":     {kindList, "default score tracks, comma-separated name=path"},
	"radius.min": {kindInt, "smallest footprint radius"},
	"radius.max": {kindInt, "largest footprint radius"},
	"workers":    {kindInt, "parallel track loads (0: number of CPUs)"},
	"cache_dir":  {kindString, "annotation record cache directory"},
	"no_cache":   {kindBool, "always parse the GFF3 file"},
	"database":   {kindString, "DuckDB database file (empty: in-memory)"},
}

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage footprint-viewer configuration",
		Long: `Show, get, or set configuration values. Config is stored in ~/.footprint-viewer.yaml.
Every key can also be set through the environment, e.g. FOOTPRINT_RADIUS_MAX=80.`,
		Example: `  footprint-viewer config                                  # show all config
  footprint-viewer config set gff ~/tair/TAIR10_GFF3_genes.gff # default annotation
  footprint-viewer config set tracks leaf=leaf.tsv,root=root.tsv
  footprint-viewer config set radius.max 80                   # narrower heatmaps
  footprint-viewer config keys                              # list known keys`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigShow(cmd.OutOrStdout())
		},
	}

	cmd.AddCommand(newConfigSetCmd())
	cmd.AddCommand(newConfigGetCmd())
	cmd.AddCommand(newConfigKeysCmd())
	cmd.AddCommand(newConfigPathCmd())

	return cmd
}

func newConfigSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a configuration value",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigSet(cmd.OutOrStdout(), args[0], args[1])
		},
	}
}

func newConfigGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <key>",
		Short: "Get a configuration value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigGet(cmd.OutOrStdout(), args[0])
		},
	}
}

func newConfigKeysCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "keys",
		Short: "List the configuration keys",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			keys := make([]string, 0, len(configKeys))
			for k := range configKeys {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			for _, k := range keys {
				fmt.Fprintf(cmd.OutOrStdout(), "%-12s %s\n", k, configKeys[k].usage)
			}
		},
	}
}

func newConfigPathCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the config file location",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := configPath()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}
}

// configPath returns the config file in use, or the default location.
func configPath() (string, error) {
	if p := viper.ConfigFileUsed(); p != "" {
		return p, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, configName+".yaml"), nil
}

func runConfigShow(out io.Writer) error {
	settings := viper.AllSettings()
	if len(settings) == 0 {
		fmt.Fprintln(out, "# No configuration set. See 'footprint-viewer config keys'.")
		return nil
	}

	data, err := yaml.Marshal(settings)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	fmt.Fprint(out, string(data))
	return nil
}

// parseConfigValue converts a command-line value to the type of key.
func parseConfigValue(key, value string) (any, error) {
	spec, ok := configKeys[key]
	if !ok {
		return nil, fmt.Errorf("unknown key %q (see 'footprint-viewer config keys')", key)
	}

	switch spec.kind {
	case kindInt:
		n, err := strconv.Atoi(value)
		if err != nil {
			return nil, fmt.Errorf("%s must be an integer: %w", key, err)
		}
		return n, nil
	case kindBool:
		switch value {
		case "true", "yes", "on":
			return true, nil
		case "false", "no", "off":
			return false, nil
		}
		return nil, fmt.Errorf("%s must be true or false, got %q", key, value)
	case kindList:
		var items []string
		for _, item := range strings.Split(value, ",") {
			if item = strings.TrimSpace(item); item != "" {
				items = append(items, item)
			}
		}
		return items, nil
	}
	return value, nil
}

func runConfigSet(out io.Writer, key, value string) error {
	v, err := parseConfigValue(key, value)
	if err != nil {
		return err
	}
	viper.Set(key, v)

	cfgPath, err := configPath()
	if err != nil {
		return err
	}
	if err := viper.WriteConfigAs(cfgPath); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	fmt.Fprintf(out, "Set %s = %s in %s\n", key, value, cfgPath)
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

// Package main provides the footprint-viewer command-line tool.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Exit codes
const (
	ExitSuccess = 0
	ExitError   = 1
)

// Version information (set at build time)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

const configName = ".footprint-viewer"

var (
	cfgFile string
	verbose bool
	logger  = zap.NewNop()
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	root := newRootCmd()
	root.SetArgs(args)
	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return ExitError
	}
	return ExitSuccess
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "footprint-viewer",
		Short: "Footprint heatmaps over packed transcript tracks",
		Long: `footprint-viewer - prepare footprint score heatmaps and transcript
annotation tracks for a genomic region.

Configuration is read from ~/.footprint-viewer.yaml and FOOTPRINT_* environment
variables; command-line flags take precedence.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := initConfig(); err != nil {
				return err
			}
			l, err := newLogger(verbose)
			if err != nil {
				return fmt.Errorf("create logger: %w", err)
			}
			logger = l
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = logger.Sync()
		},
	}

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ~/.footprint-viewer.yaml)")
	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose logging")

	cmd.AddCommand(newLayoutCmd())
	cmd.AddCommand(newStatsCmd())
	cmd.AddCommand(newConfigCmd())
	cmd.AddCommand(newVersionCmd())

	return cmd
}

// initConfig reads the config file and environment into viper.
func initConfig() error {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
		}
		viper.SetConfigName(configName)
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("FOOTPRINT")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		// A missing default config file is fine.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("read config: %w", err)
		}
	}
	return nil
}

// newLogger builds a console logger on stderr. Verbose mode logs at debug
// level, otherwise info and above are shown.
func newLogger(verbose bool) (*zap.Logger, error) {
	cfg := zap.NewDevelopmentConfig()
	cfg.DisableStacktrace = true
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	if !verbose {
		cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
		cfg.DisableCaller = true
	}
	return cfg.Build()
}

// DefaultDataDir returns the directory holding cached annotation records
// (~/.footprint-viewer/).
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".footprint-viewer")
}

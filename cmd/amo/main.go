package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/pedronavarrovera/amo/config"
)

// VERSION is set at build time with -ldflags "-X main.VERSION=...".
var VERSION = "0.0.0-dev"

var rootCmd = &cobra.Command{
	Use:   "amo",
	Short: "Analyze, route and settle networks of mutual debts",
	Long: `amo works on debt networks: square matrices where entry [i][j] is what
party i owes party j, with one name per party.

A network is read from a JSON file, from stdin, or from the Base64 code
printed by 'amo encode' (--code):

  {"nodes": ["Pedro", "Pilar"], "matrix": [[0, 10], [0, 0]]}
`,
	Version:           VERSION,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: loadConfig,
}

type rootFlags struct {
	configPath string
	envFiles   []string
}

var (
	rootArgs rootFlags
	cfg      *config.Config
	logger   *slog.Logger
)

func init() {
	rootCmd.PersistentFlags().StringVar(&rootArgs.configPath, "config", "",
		"Path to a YAML or TOML configuration file.")
	rootCmd.PersistentFlags().StringSliceVar(&rootArgs.envFiles, "env-file", nil,
		"Dotenv files to load before AMO_* overrides (default .env if present).")
}

func loadConfig(cmd *cobra.Command, args []string) error {
	c, err := config.Load(rootArgs.configPath, rootArgs.envFiles...)
	if err != nil {
		return err
	}
	cfg = c
	logger = cfg.Logging.NewLogger(cmd.ErrOrStderr())
	slog.SetDefault(logger)

	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

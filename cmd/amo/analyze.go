package main

import (
	"github.com/spf13/cobra"

	"github.com/pedronavarrovera/amo/cycle"
	"github.com/pedronavarrovera/amo/report"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [FILE]",
	Short: "Print balances, insights, debt cycles and a settlement plan",
	Example: `  # Analyze a network file
  amo analyze network.json

  # Analyze a shared code, listing at most 20 cycles
  amo analyze --code eyJub2RlcyI6... --max-cycles 20
`,
	Args: cobra.MaximumNArgs(1),
	RunE: analyzeCmdRun,
}

type analyzeFlags struct {
	code      string
	maxCycles int
	maxLength int
}

var analyzeArgs analyzeFlags

func init() {
	analyzeCmd.Flags().StringVar(&analyzeArgs.code, "code", "", "Base64 network code, instead of FILE.")
	analyzeCmd.Flags().IntVar(&analyzeArgs.maxCycles, "max-cycles", 1000, "Stop listing cycles after this many (0 = all).")
	analyzeCmd.Flags().IntVar(&analyzeArgs.maxLength, "max-length", 0, "Only list cycles with at most this many parties (0 = any).")
	rootCmd.AddCommand(analyzeCmd)
}

func analyzeCmdRun(cmd *cobra.Command, args []string) error {
	nw, err := readNetwork(cmd, args, analyzeArgs.code)
	if err != nil {
		return err
	}

	a, err := report.Analyze(nw,
		cycle.WithMaxCycles(max(analyzeArgs.maxCycles, 0)),
		cycle.WithMaxLength(max(analyzeArgs.maxLength, 0)),
		cycle.WithContext(cmd.Context()),
	)
	if err != nil {
		return err
	}
	if a.Truncated {
		logger.Warn("cycle listing truncated", "max_cycles", analyzeArgs.maxCycles)
	}

	report.WriteAnalysis(cmd.OutOrStdout(), a)
	return nil
}

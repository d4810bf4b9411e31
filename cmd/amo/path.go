package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pedronavarrovera/amo/dijkstra"
	"github.com/pedronavarrovera/amo/report"
)

var pathCmd = &cobra.Command{
	Use:   "path [FILE]",
	Short: "Print the cheapest chain of debts from one party to another",
	Long: `The path command treats every debt as a directed edge weighted by its
amount and prints the minimum-total route. Without --to it prints a route to
every other party.`,
	Example: `  # Route from Pedro to Andrea
  amo path network.json --from Pedro --to Andrea

  # Routes from Pedro to everyone, ignoring routes above 50
  amo path network.json --from Pedro --max-distance 50
`,
	Args: cobra.MaximumNArgs(1),
	RunE: pathCmdRun,
}

type pathFlags struct {
	code        string
	from        string
	to          string
	maxDistance int64
}

var pathArgs pathFlags

func init() {
	pathCmd.Flags().StringVar(&pathArgs.code, "code", "", "Base64 network code, instead of FILE.")
	pathCmd.Flags().StringVar(&pathArgs.from, "from", "", "Source party name.")
	pathCmd.Flags().StringVar(&pathArgs.to, "to", "", "Target party name (default: every party).")
	pathCmd.Flags().Int64Var(&pathArgs.maxDistance, "max-distance", 0, "Ignore routes longer than this (0 = no limit).")
	rootCmd.AddCommand(pathCmd)
}

func pathCmdRun(cmd *cobra.Command, args []string) error {
	if pathArgs.from == "" {
		return errors.New("--from is required")
	}
	if pathArgs.maxDistance < 0 {
		return errors.New("--max-distance must be non-negative")
	}
	nw, err := readNetwork(cmd, args, pathArgs.code)
	if err != nil {
		return err
	}
	src, err := nw.Resolve(pathArgs.from)
	if err != nil {
		return err
	}

	var opts []dijkstra.Option
	if pathArgs.maxDistance > 0 {
		opts = append(opts, dijkstra.WithMaxDistance(pathArgs.maxDistance))
	}

	var results []dijkstra.Result
	if pathArgs.to != "" {
		dst, err := nw.Resolve(pathArgs.to)
		if err != nil {
			return err
		}
		res, err := dijkstra.To(nw.Matrix, src, dst, opts...)
		if err != nil {
			return err
		}
		results = append(results, res)
	} else {
		tree, err := dijkstra.From(nw.Matrix, src, opts...)
		if err != nil {
			return err
		}
		results = tree.Results()
	}

	out := cmd.OutOrStdout()
	for _, r := range results {
		if !r.Reachable {
			fmt.Fprintf(out, "%s: unreachable\n", nw.Names.NameOr(r.Target))
			continue
		}
		fmt.Fprintf(out, "%s: %d (%s)\n", nw.Names.NameOr(r.Target), r.Distance, report.Path(r.Path, nw.Names))
	}
	return nil
}

package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pedronavarrovera/amo/cycle"
	"github.com/pedronavarrovera/amo/report"
	"github.com/pedronavarrovera/amo/settlement"
)

var cycleCmd = &cobra.Command{
	Use:   "cycle [FILE]",
	Short: "Find the shortest cycle that closes one debt",
	Long: `The cycle command takes the debt --from owes --to, finds the cheapest
chain of debts leading from --to back to --from and prints the resulting
cycle with its bottleneck: the amount every member could forgive.

The network is not changed; use 'amo settle --from --to' to apply the cycle.`,
	Example: `  # Cycle through the debt Pedro owes Pilar, with the condonation notice
  amo cycle network.json --from Pedro --to Pilar --message
`,
	Args: cobra.MaximumNArgs(1),
	RunE: cycleCmdRun,
}

type cycleFlags struct {
	code    string
	from    string
	to      string
	message bool
}

var cycleArgs cycleFlags

func init() {
	cycleCmd.Flags().StringVar(&cycleArgs.code, "code", "", "Base64 network code, instead of FILE.")
	cycleCmd.Flags().StringVar(&cycleArgs.from, "from", "", "Debtor of the debt to close.")
	cycleCmd.Flags().StringVar(&cycleArgs.to, "to", "", "Creditor of the debt to close.")
	cycleCmd.Flags().BoolVar(&cycleArgs.message, "message", false, "Print the condonation notice for the cycle members.")
	rootCmd.AddCommand(cycleCmd)
}

func cycleCmdRun(cmd *cobra.Command, args []string) error {
	if cycleArgs.from == "" || cycleArgs.to == "" {
		return errors.New("--from and --to are required")
	}
	nw, err := readNetwork(cmd, args, cycleArgs.code)
	if err != nil {
		return err
	}

	ring, err := cycle.ShortestBackByName(nw.Matrix, nw.Names, cycleArgs.from, cycleArgs.to)
	if err != nil {
		return err
	}
	plan, err := settlement.ForCycle(nw.Matrix, ring)
	if err != nil {
		return err
	}
	amount := plan[0].Amount

	out := cmd.OutOrStdout()
	if cycleArgs.message {
		msg, err := report.CondonationMessage(ring, nw.Names, amount)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Subject: %s\n\n%s\n", msg.Subject, msg.Body)
		return nil
	}

	fmt.Fprintf(out, "Cycle: %s\n", report.Ring(ring, nw.Names))
	fmt.Fprintf(out, "Bottleneck: %d\n", amount)
	for _, line := range report.CondonationLines(settlement.Condonations(plan), nw.Names) {
		fmt.Fprintln(out, line)
	}
	return nil
}

package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pedronavarrovera/amo/cycle"
	"github.com/pedronavarrovera/amo/report"
	"github.com/pedronavarrovera/amo/settlement"
)

var settleCmd = &cobra.Command{
	Use:   "settle [FILE]",
	Short: "Settle a network by net balances, or apply one debt cycle",
	Long: `Without --from/--to the settle command prints the fewest direct
transfers that bring every net balance to zero; the network is not changed.

With --from/--to it applies the shortest cycle through that debt (or the
explicit --ring): every debt on the cycle drops by the bottleneck, and the
updated network is printed.`,
	Example: `  # Net-balance plan
  amo settle network.json

  # Apply the cycle closing Pedro's debt to Pilar and print the new code
  amo settle network.json --from Pedro --to Pilar --base64

  # Apply an explicit ring
  amo settle network.json --ring David,Pedro,Pilar,Andrea
`,
	Args: cobra.MaximumNArgs(1),
	RunE: settleCmdRun,
}

type settleFlags struct {
	code   string
	from   string
	to     string
	ring   []string
	form   string
	base64 bool
}

var settleArgs settleFlags

func init() {
	settleCmd.Flags().StringVar(&settleArgs.code, "code", "", "Base64 network code, instead of FILE.")
	settleCmd.Flags().StringVar(&settleArgs.from, "from", "", "Debtor of the debt whose cycle is applied.")
	settleCmd.Flags().StringVar(&settleArgs.to, "to", "", "Creditor of the debt whose cycle is applied.")
	settleCmd.Flags().StringSliceVar(&settleArgs.ring, "ring", nil, "Cycle to apply, as party names in order.")
	settleCmd.Flags().StringVar(&settleArgs.form, "form", "list", "Output form of the updated network: list, map or matrix.")
	settleCmd.Flags().BoolVar(&settleArgs.base64, "base64", false, "Print the updated network as a Base64 code.")
	rootCmd.AddCommand(settleCmd)
}

func settleCmdRun(cmd *cobra.Command, args []string) error {
	pair := settleArgs.from != "" || settleArgs.to != ""
	switch {
	case pair && (settleArgs.from == "" || settleArgs.to == ""):
		return errors.New("--from and --to must be given together")
	case pair && len(settleArgs.ring) > 0:
		return errors.New("--ring cannot be combined with --from/--to")
	}

	nw, err := readNetwork(cmd, args, settleArgs.code)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	if !pair && len(settleArgs.ring) == 0 {
		plan := settlement.NetBalance(nw.Matrix)
		if len(plan) == 0 {
			fmt.Fprintln(out, "Everyone is already even.")
			return nil
		}
		for _, line := range report.SettlementLines(plan, nw.Names) {
			fmt.Fprintln(out, line)
		}
		return nil
	}

	var (
		ring cycle.Cycle
		plan settlement.Settlement
	)
	if pair {
		ring, plan, err = settlement.ApplyShortestBack(nw.Matrix, nw.Names, settleArgs.from, settleArgs.to)
	} else {
		ring, plan, err = settlement.ApplyCycleByName(nw.Matrix, nw.Names, settleArgs.ring)
	}
	if err != nil {
		return err
	}

	logger.Info("cycle applied",
		"cycle", report.Ring(ring, nw.Names),
		"amount", plan[0].Amount,
		"transfers", len(plan))
	return writeNetwork(out, nw, settleArgs.form, settleArgs.base64)
}

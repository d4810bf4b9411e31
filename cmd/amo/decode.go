package main

import (
	"github.com/spf13/cobra"

	"github.com/pedronavarrovera/amo/codec"
)

var decodeCmd = &cobra.Command{
	Use:   "decode [CODE]",
	Short: "Print the JSON network behind a Base64 code",
	Example: `  # Decode a code given as argument
  amo decode eyJub2RlcyI6...

  # Decode from stdin into the matrix-only form
  amo encode network.json | amo decode --form matrix
`,
	Args: cobra.MaximumNArgs(1),
	RunE: decodeCmdRun,
}

type decodeFlags struct {
	form string
}

var decodeArgs decodeFlags

func init() {
	decodeCmd.Flags().StringVar(&decodeArgs.form, "form", "list", "Output form: list, map or matrix.")
	rootCmd.AddCommand(decodeCmd)
}

func decodeCmdRun(cmd *cobra.Command, args []string) error {
	var code string
	if len(args) == 1 && args[0] != "-" {
		code = args[0]
	} else {
		data, err := readInput(cmd, nil)
		if err != nil {
			return err
		}
		code = string(data)
	}

	nw, err := codec.DecodeBase64(code)
	if err != nil {
		return err
	}
	return writeNetwork(cmd.OutOrStdout(), nw, decodeArgs.form, false)
}

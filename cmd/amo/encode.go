package main

import (
	"github.com/spf13/cobra"
)

var encodeCmd = &cobra.Command{
	Use:   "encode [FILE]",
	Short: "Print a network as a Base64 code",
	Example: `  # Encode a file
  amo encode network.json

  # Encode stdin with names as an index map
  cat network.json | amo encode --form map
`,
	Args: cobra.MaximumNArgs(1),
	RunE: encodeCmdRun,
}

type encodeFlags struct {
	form string
}

var encodeArgs encodeFlags

func init() {
	encodeCmd.Flags().StringVar(&encodeArgs.form, "form", "list", "Encoded form: list, map or matrix.")
	rootCmd.AddCommand(encodeCmd)
}

func encodeCmdRun(cmd *cobra.Command, args []string) error {
	nw, err := readNetwork(cmd, args, "")
	if err != nil {
		return err
	}
	return writeNetwork(cmd.OutOrStdout(), nw, encodeArgs.form, true)
}

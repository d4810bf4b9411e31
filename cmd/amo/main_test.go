package main

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"
)

const fourPartyJSON = `{"nodes":["Pedro","Pilar","Andrea","David"],"matrix":[[0,10,0,0],[0,0,20,0],[0,0,0,30],[40,0,0,0]]}`

// executeCommand runs the CLI with args and returns stdout and stderr
// combined with the error.
func executeCommand(args []string) (string, error) {
	return executeCommandWithIn(args, "")
}

// executeCommandWithIn is executeCommand with stdin set to in.
func executeCommandWithIn(args []string, in string) (string, error) {
	defer resetCmdArgs()

	buf := new(bytes.Buffer)
	cmd := rootCmd
	cmd.SetArgs(args)
	cmd.SetIn(strings.NewReader(in))
	cmd.SetOut(buf)
	cmd.SetErr(io.Discard)

	err := cmd.Execute()

	return buf.String(), err
}

// resetCmdArgs restores every flag of every command, including the
// Changed marks that config overrides depend on.
func resetCmdArgs() {
	var reset func(c *cobra.Command)
	reset = func(c *cobra.Command) {
		for _, fs := range []*pflag.FlagSet{c.Flags(), c.PersistentFlags()} {
			fs.VisitAll(func(f *pflag.Flag) {
				if sv, ok := f.Value.(pflag.SliceValue); ok {
					_ = sv.Replace(nil)
				} else {
					_ = f.Value.Set(f.DefValue)
				}
				f.Changed = false
			})
		}
		for _, sub := range c.Commands() {
			reset(sub)
		}
	}
	reset(rootCmd)
}

// writeTemp writes content to a file in a test directory.
func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

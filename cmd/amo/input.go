package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/pedronavarrovera/amo/codec"
	"github.com/pedronavarrovera/amo/debtmatrix"
)

// readInput returns the bytes of args[0], or stdin for "-" or no argument.
func readInput(cmd *cobra.Command, args []string) ([]byte, error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, fmt.Errorf("error reading stdin: %w", err)
		}
		return data, nil
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return nil, fmt.Errorf("error reading file: %w", err)
	}
	return data, nil
}

// decodeRaw accepts JSON or a Base64 code of it.
func decodeRaw(data []byte) (*codec.Raw, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, errors.New("no network given")
	}
	if data[0] == '{' || data[0] == '[' {
		return codec.DecodeRaw(data)
	}
	return codec.DecodeRawBase64(string(data))
}

// readRaw loads a network from --code when set, otherwise from the file
// argument or stdin. The matrix may still be ragged.
func readRaw(cmd *cobra.Command, args []string, code string) (*codec.Raw, error) {
	if code != "" {
		return codec.DecodeRawBase64(code)
	}
	data, err := readInput(cmd, args)
	if err != nil {
		return nil, err
	}
	return decodeRaw(data)
}

// readNetwork is readRaw followed by strict validation.
func readNetwork(cmd *cobra.Command, args []string, code string) (*debtmatrix.Network, error) {
	raw, err := readRaw(cmd, args, code)
	if err != nil {
		return nil, err
	}
	return raw.Network()
}

// writeNetwork prints nw as JSON in the given form, or as a Base64 code.
func writeNetwork(w io.Writer, nw *debtmatrix.Network, form string, asCode bool) error {
	f, err := codec.ParseForm(form)
	if err != nil {
		return err
	}
	if asCode {
		code, err := codec.EncodeBase64(nw, f)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, code)
		return err
	}

	data, err := codec.Encode(nw, f)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

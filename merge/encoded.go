// SPDX-License-Identifier: MIT

package merge

import (
	"fmt"

	"github.com/pedronavarrovera/amo/codec"
)

// FromEncoded merges two Base64 network codes. Each side's declared size is
// its number of names (the row count for the matrix-only form).
func FromEncoded(codeA, codeB string, opts ...Option) (*Result, error) {
	ra, err := codec.DecodeRawBase64(codeA)
	if err != nil {
		return nil, fmt.Errorf("merge: A: %w", err)
	}
	rb, err := codec.DecodeRawBase64(codeB)
	if err != nil {
		return nil, fmt.Errorf("merge: B: %w", err)
	}

	return MergeRaw(Input{Rows: ra.Rows, Names: ra.Names}, Input{Rows: rb.Rows, Names: rb.Names}, opts...)
}

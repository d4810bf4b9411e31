package codec

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/pedronavarrovera/amo/debtmatrix"
)

// Sentinel errors. Both satisfy errors.Is(err, debtmatrix.ErrValidation).
var (
	ErrSyntax        = fmt.Errorf("%w: codec: malformed network", debtmatrix.ErrValidation)
	ErrMissingMatrix = fmt.Errorf("%w: codec: missing \"matrix\"", debtmatrix.ErrValidation)
)

// Form selects how Encode writes node names.
type Form int

const (
	// FormList writes "nodes" as an array of names.
	FormList Form = iota
	// FormMap writes "nodes" as {"0": name, ...} in index order.
	FormMap
	// FormMatrix writes the bare matrix, without names.
	FormMatrix
)

// String returns the flag spelling of f.
func (f Form) String() string {
	switch f {
	case FormList:
		return "list"
	case FormMap:
		return "map"
	case FormMatrix:
		return "matrix"
	default:
		return "Form(" + strconv.Itoa(int(f)) + ")"
	}
}

// ParseForm is the inverse of Form.String.
func ParseForm(s string) (Form, error) {
	switch strings.ToLower(s) {
	case "list", "":
		return FormList, nil
	case "map":
		return FormMap, nil
	case "matrix":
		return FormMatrix, nil
	}

	return 0, fmt.Errorf("codec: unknown form %q", s)
}

// Raw is a decoded network before the square check: Rows may be ragged,
// Names declares the node count. Values are already integral and ≥ 0.
type Raw struct {
	Names *debtmatrix.Names
	Rows  [][]int64
	// NamesGiven is false for the matrix-only form and for objects without
	// "nodes"; Names then holds Node<i> defaults sized by the row count.
	NamesGiven bool
}

// envelope is the object form on the wire.
type envelope struct {
	Nodes  json.RawMessage `json:"nodes"`
	Matrix json.RawMessage `json:"matrix"`
}

// DecodeRaw parses either wire form without requiring a square matrix.
func DecodeRaw(data []byte) (*Raw, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty input", ErrSyntax)
	}

	// 1) Bare matrix form.
	if data[0] == '[' {
		rows, err := decodeRows(data)
		if err != nil {
			return nil, err
		}

		return &Raw{Names: debtmatrix.DefaultNames(len(rows)), Rows: rows}, nil
	}

	// 2) Object form.
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSyntax, err)
	}
	if len(env.Matrix) == 0 || string(env.Matrix) == "null" {
		return nil, ErrMissingMatrix
	}
	rows, err := decodeRows(env.Matrix)
	if err != nil {
		return nil, err
	}
	if len(env.Nodes) == 0 || string(env.Nodes) == "null" {
		return &Raw{Names: debtmatrix.DefaultNames(len(rows)), Rows: rows}, nil
	}
	names, err := decodeNames(env.Nodes)
	if err != nil {
		return nil, err
	}

	return &Raw{Names: names, Rows: rows, NamesGiven: true}, nil
}

// Decode parses a network and requires an n×n matrix for n names.
func Decode(data []byte) (*debtmatrix.Network, error) {
	raw, err := DecodeRaw(data)
	if err != nil {
		return nil, err
	}

	return raw.Network()
}

// Network validates r strictly: square rows, one name per row.
func (r *Raw) Network() (*debtmatrix.Network, error) {
	m, err := debtmatrix.New(r.Rows)
	if err != nil {
		return nil, fmt.Errorf("codec: %w", err)
	}
	nw, err := debtmatrix.NewNetwork(m, r.Names)
	if err != nil {
		return nil, fmt.Errorf("codec: %w", err)
	}

	return nw, nil
}

// decodeRows reads an array of arrays of numbers. Integral floats such as
// 10.0 are accepted; fractions and negatives are not.
func decodeRows(data []byte) ([][]int64, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var cells [][]json.Number
	if err := dec.Decode(&cells); err != nil {
		return nil, fmt.Errorf("%w: matrix: %v", ErrSyntax, err)
	}

	rows := make([][]int64, len(cells))
	for i, row := range cells {
		rows[i] = make([]int64, len(row))
		for j, num := range row {
			v, err := amount(num)
			if err != nil {
				return nil, fmt.Errorf("codec: matrix[%d][%d]: %w", i, j, err)
			}
			rows[i][j] = v
		}
	}

	return rows, nil
}

func amount(num json.Number) (int64, error) {
	if v, err := num.Int64(); err == nil {
		if v < 0 {
			return 0, fmt.Errorf("value %d: %w", v, debtmatrix.ErrNegativeEntry)
		}

		return v, nil
	}
	f, err := num.Float64()
	if err != nil {
		return 0, fmt.Errorf("value %s: %w", num, debtmatrix.ErrNonInteger)
	}

	return debtmatrix.Amount(f)
}

// decodeNames accepts ["a","b"] or {"0":"a","1":"b"}.
func decodeNames(data []byte) (*debtmatrix.Names, error) {
	switch data[0] {
	case '[':
		var list []string
		if err := json.Unmarshal(data, &list); err != nil {
			return nil, fmt.Errorf("%w: nodes: %v", ErrSyntax, err)
		}

		return debtmatrix.ResolveNames(debtmatrix.ByPosition(list))
	case '{':
		var obj map[string]string
		if err := json.Unmarshal(data, &obj); err != nil {
			return nil, fmt.Errorf("%w: nodes: %v", ErrSyntax, err)
		}
		byIndex := make(debtmatrix.ByIndex, len(obj))
		for k, name := range obj {
			idx, err := strconv.Atoi(strings.TrimSpace(k))
			if err != nil {
				return nil, fmt.Errorf("%w: node key %q is not an index", ErrSyntax, k)
			}
			// "0" and "00" name the same node.
			if _, dup := byIndex[idx]; dup {
				return nil, fmt.Errorf("%w: node index %d given twice", ErrSyntax, idx)
			}
			byIndex[idx] = name
		}

		return debtmatrix.ResolveNames(byIndex)
	}

	return nil, fmt.Errorf("%w: nodes must be an array or an object", ErrSyntax)
}

// Encode writes nw in the chosen form as compact JSON. FormMap keys appear
// in index order.
func Encode(nw *debtmatrix.Network, form Form) ([]byte, error) {
	if nw == nil || nw.Matrix == nil {
		return nil, fmt.Errorf("codec: nil network: %w", debtmatrix.ErrValidation)
	}
	matrix, err := json.Marshal(nw.Matrix.Rows())
	if err != nil {
		return nil, fmt.Errorf("codec: matrix: %w", err)
	}

	switch form {
	case FormMatrix:
		return matrix, nil
	case FormList:
		nodes, err := json.Marshal(nw.Names.List())
		if err != nil {
			return nil, fmt.Errorf("codec: nodes: %w", err)
		}

		return json.Marshal(envelope{Nodes: nodes, Matrix: matrix})
	case FormMap:
		var buf bytes.Buffer
		buf.WriteByte('{')
		for i, name := range nw.Names.List() {
			if i > 0 {
				buf.WriteByte(',')
			}
			key, _ := json.Marshal(strconv.Itoa(i))
			val, err := json.Marshal(name)
			if err != nil {
				return nil, fmt.Errorf("codec: node %d: %w", i, err)
			}
			buf.Write(key)
			buf.WriteByte(':')
			buf.Write(val)
		}
		buf.WriteByte('}')

		return json.Marshal(envelope{Nodes: buf.Bytes(), Matrix: matrix})
	}

	return nil, fmt.Errorf("codec: unknown form %v", form)
}

// EncodeBase64 is Encode wrapped in standard Base64, the "code" users paste
// between runs.
func EncodeBase64(nw *debtmatrix.Network, form Form) (string, error) {
	data, err := Encode(nw, form)
	if err != nil {
		return "", err
	}

	return base64.StdEncoding.EncodeToString(data), nil
}

// UnwrapBase64 strips surrounding whitespace and decodes standard Base64.
func UnwrapBase64(code string) ([]byte, error) {
	data, err := base64.StdEncoding.DecodeString(strings.TrimSpace(code))
	if err != nil {
		return nil, fmt.Errorf("%w: base64: %v", ErrSyntax, err)
	}

	return data, nil
}

// DecodeBase64 is Decode of a Base64 code.
func DecodeBase64(code string) (*debtmatrix.Network, error) {
	data, err := UnwrapBase64(code)
	if err != nil {
		return nil, err
	}

	return Decode(data)
}

// DecodeRawBase64 is DecodeRaw of a Base64 code.
func DecodeRawBase64(code string) (*Raw, error) {
	data, err := UnwrapBase64(code)
	if err != nil {
		return nil, err
	}

	return DecodeRaw(data)
}

package api

import (
	"encoding/json"

	"github.com/pedronavarrovera/amo/balance"
	"github.com/pedronavarrovera/amo/codec"
	"github.com/pedronavarrovera/amo/debtmatrix"
	"github.com/pedronavarrovera/amo/merge"
	"github.com/pedronavarrovera/amo/report"
)

// =============================================================================
// REQUESTS
// =============================================================================

// NetworkRequest carries one network in the wire format: "nodes" as a list
// or an {"0": name} map plus "matrix", or a Base64 "code" of the same JSON.
type NetworkRequest struct {
	Nodes  json.RawMessage `json:"nodes,omitempty"`
	Matrix json.RawMessage `json:"matrix,omitempty" binding:"required_without=Code"`
	Code   string          `json:"code,omitempty"`
}

// raw decodes the request without requiring a square matrix.
func (r NetworkRequest) raw() (*codec.Raw, error) {
	if r.Code != "" {
		return codec.DecodeRawBase64(r.Code)
	}
	data, err := json.Marshal(struct {
		Nodes  json.RawMessage `json:"nodes,omitempty"`
		Matrix json.RawMessage `json:"matrix"`
	}{r.Nodes, r.Matrix})
	if err != nil {
		return nil, err
	}

	return codec.DecodeRaw(data)
}

// network decodes and validates the request.
func (r NetworkRequest) network() (*debtmatrix.Network, error) {
	raw, err := r.raw()
	if err != nil {
		return nil, err
	}

	return raw.Network()
}

// AnalyzeRequest is the body of POST /v1/analyze.
type AnalyzeRequest struct {
	NetworkRequest
	// MaxCycles caps enumeration; 0 uses the server default.
	MaxCycles int `json:"max_cycles,omitempty" binding:"gte=0"`
}

// PairRequest names two parties with a direct debt between them, as used
// by the shortest-back endpoints. From owes To.
type PairRequest struct {
	NetworkRequest
	From string `json:"from" binding:"required"`
	To   string `json:"to" binding:"required"`
}

// PathsRequest is the body of POST /v1/paths. Without Target every other
// party is reported.
type PathsRequest struct {
	NetworkRequest
	Source string `json:"source" binding:"required"`
	Target string `json:"target,omitempty"`
	// MaxDistance drops routes longer than this; 0 means no cap.
	MaxDistance int64 `json:"max_distance,omitempty" binding:"gte=0"`
}

// MergeRequest is the body of POST /v1/merge.
type MergeRequest struct {
	A NetworkRequest `json:"a"`
	B NetworkRequest `json:"b"`
	// AllowAutoPad overrides the server setting when present.
	AllowAutoPad *bool `json:"allow_autopad,omitempty"`
}

// =============================================================================
// RESPONSES
// =============================================================================

// BalanceRow is one party's position.
type BalanceRow struct {
	Name       string `json:"name"`
	Owes       int64  `json:"owes"`
	IsOwed     int64  `json:"is_owed"`
	NetBalance int64  `json:"net_balance"`
}

// Ranked is a named insight.
type Ranked struct {
	Name   string `json:"name"`
	Amount int64  `json:"amount"`
}

// Insights are the four extremal parties.
type Insights struct {
	MostOwedTo  Ranked `json:"most_owed_to"`
	OwesMost    Ranked `json:"owes_most"`
	TopCreditor Ranked `json:"top_creditor"`
	TopDebtor   Ranked `json:"top_debtor"`
}

// CycleView is a cycle by name and index with its bottleneck.
type CycleView struct {
	Nodes      []string `json:"nodes"`
	Indices    []int    `json:"indices"`
	Bottleneck int64    `json:"bottleneck"`
}

// TransferView is a named transfer.
type TransferView struct {
	From   string `json:"from"`
	To     string `json:"to"`
	Amount int64  `json:"amount"`
}

// CondonationView is a named condonation: Creditor could forgive Debtor.
type CondonationView struct {
	Creditor string `json:"creditor"`
	Debtor   string `json:"debtor"`
	Amount   int64  `json:"amount"`
}

// AnalyzeResponse is returned by POST /v1/analyze.
type AnalyzeResponse struct {
	Nodes     []string       `json:"nodes"`
	Balances  []BalanceRow   `json:"balances"`
	Insights  *Insights      `json:"insights,omitempty"`
	Cycles    []CycleView    `json:"cycles"`
	Truncated bool           `json:"truncated"`
	Plan      []TransferView `json:"plan"`
}

// ShortestBackResponse is returned by POST /v1/cycles/shortest-back.
type ShortestBackResponse struct {
	Cycle        CycleView         `json:"cycle"`
	Condonations []CondonationView `json:"condonations"`
	Message      report.Message    `json:"message"`
}

// ApplyResponse is returned by POST /v1/cycles/apply. Nodes and Matrix are
// the updated network.
type ApplyResponse struct {
	Cycle     CycleView      `json:"cycle"`
	Transfers []TransferView `json:"transfers"`
	Nodes     []string       `json:"nodes"`
	Matrix    [][]int64      `json:"matrix"`
	Code      string         `json:"code"`
}

// SettlementResponse is returned by POST /v1/settlements.
type SettlementResponse struct {
	Transfers []TransferView `json:"transfers"`
	Total     int64          `json:"total"`
}

// PathView is one route. Distance is omitted when Reachable is false.
type PathView struct {
	Target    string   `json:"target"`
	Reachable bool     `json:"reachable"`
	Distance  *int64   `json:"distance,omitempty"`
	Path      []string `json:"path,omitempty"`
}

// PathsResponse is returned by POST /v1/paths.
type PathsResponse struct {
	Source string     `json:"source"`
	Paths  []PathView `json:"paths"`
}

// MergeResponse is returned by POST /v1/merge.
type MergeResponse struct {
	Nodes   []string      `json:"nodes"`
	Matrix  [][]int64     `json:"matrix"`
	Sizes   merge.Sizes   `json:"sizes"`
	Padding merge.Padding `json:"padding"`
	Code    string        `json:"code"`
}

// HealthResponse is returned by GET /v1/health.
type HealthResponse struct {
	Status string `json:"status"`
}

// ErrorResponse is the body of every non-2xx reply.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

// =============================================================================
// VIEWS
// =============================================================================

func balanceRows(b balance.Balances, names *debtmatrix.Names) []BalanceRow {
	rows := make([]BalanceRow, b.Len())
	for i := range rows {
		rows[i] = BalanceRow{
			Name:       names.NameOr(i),
			Owes:       b.OwedBy[i],
			IsOwed:     b.OwedTo[i],
			NetBalance: b.Net[i],
		}
	}

	return rows
}

func ranked(e balance.Extreme, names *debtmatrix.Names) Ranked {
	return Ranked{Name: names.NameOr(e.Index), Amount: e.Value}
}

func namePath(path []int, names *debtmatrix.Names) []string {
	out := make([]string, len(path))
	for i, v := range path {
		out[i] = names.NameOr(v)
	}

	return out
}

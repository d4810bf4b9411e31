package settlement

import (
	"errors"
	"fmt"
	"sort"

	"github.com/pedronavarrovera/amo/balance"
	"github.com/pedronavarrovera/amo/cycle"
	"github.com/pedronavarrovera/amo/debtmatrix"
)

var (
	// ErrInvalidCycle is returned for cycles with fewer than two nodes,
	// repeated nodes or a missing ring edge. It is the same value as
	// cycle.ErrInvalidCycle so either can be matched with errors.Is.
	ErrInvalidCycle = cycle.ErrInvalidCycle

	// ErrNilMatrix is returned when a nil matrix is passed in.
	ErrNilMatrix = errors.New("settlement: matrix is nil")
)

// Transfer is one direct payment: From pays To the amount Amount (> 0).
type Transfer struct {
	From   int   `json:"from"`
	To     int   `json:"to"`
	Amount int64 `json:"amount"`
}

// Settlement is an ordered list of transfers.
type Settlement []Transfer

// Total sums every transfer amount.
func (s Settlement) Total() int64 {
	var t int64
	for _, tr := range s {
		t += tr.Amount
	}

	return t
}

// Condonation is the same transfer read from the creditor's side: Creditor
// forgives Debtor the amount Amount.
type Condonation struct {
	Creditor int   `json:"creditor"`
	Debtor   int   `json:"debtor"`
	Amount   int64 `json:"amount"`
}

// Condonations restates s as forgiveness: for every transfer the receiver
// forgives the payer. Numerically it is the same operation.
func Condonations(s Settlement) []Condonation {
	out := make([]Condonation, len(s))
	for i, tr := range s {
		out[i] = Condonation{Creditor: tr.To, Debtor: tr.From, Amount: tr.Amount}
	}

	return out
}

// party is one side of the net-balance matching.
type party struct {
	index   int
	balance int64
}

// NetBalance computes the minimal direct-transfer plan that zeroes every
// net balance of m, ignoring the topology of existing debts. m is not modified.
//
// Steps:
//  1. Net balances via balance.Compute.
//  2. Creditors (> 0) sorted descending, debtors (< 0) ascending; equal
//     balances keep index order.
//  3. Match the current largest creditor with the current largest debtor,
//     pay min(|debt|, credit), and advance every side that reaches 0.
//
// The result has at most n-1 transfers, each with a positive amount.
func NetBalance(m *debtmatrix.Matrix) Settlement {
	if m == nil {
		return nil
	}

	return FromNet(balance.Compute(m).Net)
}

// FromNet runs the matching of NetBalance over precomputed net balances.
func FromNet(net []int64) Settlement {
	// 1) Partition.
	var creditors, debtors []party
	for i, b := range net {
		switch {
		case b > 0:
			creditors = append(creditors, party{i, b})
		case b < 0:
			debtors = append(debtors, party{i, b})
		}
	}

	// 2) Order.
	sort.SliceStable(creditors, func(i, j int) bool { return creditors[i].balance > creditors[j].balance })
	sort.SliceStable(debtors, func(i, j int) bool { return debtors[i].balance < debtors[j].balance })

	// 3) Two-pointer matching.
	var plan Settlement
	ci, di := 0, 0
	for ci < len(creditors) && di < len(debtors) {
		c, d := &creditors[ci], &debtors[di]
		pay := c.balance
		if -d.balance < pay {
			pay = -d.balance
		}
		plan = append(plan, Transfer{From: d.index, To: c.index, Amount: pay})
		c.balance -= pay
		d.balance += pay
		if c.balance == 0 {
			ci++
		}
		if d.balance == 0 {
			di++
		}
	}

	return plan
}

// ApplyToBalances returns a copy of net after every transfer of s: the payer
// gains the amount, the receiver loses it.
func ApplyToBalances(net []int64, s Settlement) []int64 {
	out := make([]int64, len(net))
	copy(out, net)
	for _, tr := range s {
		out[tr.From] += tr.Amount
		out[tr.To] -= tr.Amount
	}

	return out
}

// ForCycle builds the cycle settlement without applying it: every ring edge
// carries the wraparound bottleneck of c.
func ForCycle(m *debtmatrix.Matrix, c cycle.Cycle) (Settlement, error) {
	if m == nil {
		return nil, ErrNilMatrix
	}
	if err := cycle.Check(c, m.Size()); err != nil {
		return nil, fmt.Errorf("settlement: %w", err)
	}
	bn, err := cycle.BottleneckOf(m.Rows(), c)
	if err != nil {
		return nil, fmt.Errorf("settlement: %w", err)
	}

	return ringTransfers(c, bn), nil
}

// ApplyCycle cancels the bottleneck amount around c in place and returns the
// settlement it applied.
//
// The whole operation runs under the matrix write lock. Every ring edge is
// read and checked before the first write, so a rejected cycle leaves m
// untouched. Afterwards at least one ring edge is exactly 0 and none is
// negative; edges outside the ring are unchanged.
func ApplyCycle(m *debtmatrix.Matrix, c cycle.Cycle) (Settlement, error) {
	if m == nil {
		return nil, ErrNilMatrix
	}

	var applied Settlement
	err := m.Update(func(tx *debtmatrix.Tx) error {
		// 1) Validate shape.
		if err := cycle.Check(c, tx.Size()); err != nil {
			return err
		}

		// 2) Read every ring edge and take the wraparound minimum.
		k := len(c)
		weights := make([]int64, k)
		var bn int64 = -1
		for i := 0; i < k; i++ {
			w, err := tx.At(c[i], c[(i+1)%k])
			if err != nil {
				return err
			}
			if w <= 0 {
				return fmt.Errorf("%w: no edge %d → %d", ErrInvalidCycle, c[i], c[(i+1)%k])
			}
			weights[i] = w
			if bn < 0 || w < bn {
				bn = w
			}
		}

		// 3) Mutate; cannot fail after step 2.
		for i := 0; i < k; i++ {
			if err := tx.Set(c[i], c[(i+1)%k], weights[i]-bn); err != nil {
				return err
			}
		}
		applied = ringTransfers(c, bn)

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("settlement: apply cycle: %w", err)
	}

	return applied, nil
}

// ApplyCycleByName resolves every name before touching m.
func ApplyCycleByName(m *debtmatrix.Matrix, names *debtmatrix.Names, ring []string) (cycle.Cycle, Settlement, error) {
	if names == nil {
		return nil, nil, fmt.Errorf("settlement: nil names: %w", debtmatrix.ErrValidation)
	}
	c := make(cycle.Cycle, len(ring))
	for i, name := range ring {
		idx, err := names.Index(name)
		if err != nil {
			return nil, nil, fmt.Errorf("settlement: %w", err)
		}
		c[i] = idx
	}
	c = cycle.Canonicalize(c)
	s, err := ApplyCycle(m, c)
	if err != nil {
		return nil, nil, err
	}

	return c, s, nil
}

// ApplyShortestBack finds the a → b shortest-back cycle and applies it.
func ApplyShortestBack(m *debtmatrix.Matrix, names *debtmatrix.Names, a, b string) (cycle.Cycle, Settlement, error) {
	c, err := cycle.ShortestBackByName(m, names, a, b)
	if err != nil {
		return nil, nil, err
	}
	s, err := ApplyCycle(m, c)
	if err != nil {
		return nil, nil, err
	}

	return c, s, nil
}

func ringTransfers(c cycle.Cycle, amount int64) Settlement {
	k := len(c)
	out := make(Settlement, k)
	for i := 0; i < k; i++ {
		out[i] = Transfer{From: c[i], To: c[(i+1)%k], Amount: amount}
	}

	return out
}

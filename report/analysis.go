package report

import (
	"errors"
	"fmt"

	"github.com/pedronavarrovera/amo/balance"
	"github.com/pedronavarrovera/amo/cycle"
	"github.com/pedronavarrovera/amo/debtmatrix"
	"github.com/pedronavarrovera/amo/settlement"
)

// Analysis is the read-only picture of one network: positions, the four
// insights, every cycle with its bottleneck and the net-balance plan.
type Analysis struct {
	Names     *debtmatrix.Names
	Balances  balance.Balances
	Summary   balance.Summary
	Cycles    []cycle.Weighted
	Truncated bool // cycle enumeration stopped at its limit
	Plan      settlement.Settlement
}

// Analyze runs every read-only query over nw. Options are passed to
// cycle.Enumerate; hitting WithMaxCycles sets Truncated instead of failing.
func Analyze(nw *debtmatrix.Network, opts ...cycle.Option) (*Analysis, error) {
	if nw == nil || nw.Matrix == nil {
		return nil, fmt.Errorf("report: nil network: %w", debtmatrix.ErrValidation)
	}

	a := &Analysis{Names: nw.Names, Balances: balance.Compute(nw.Matrix)}
	if a.Balances.Len() > 0 {
		sum, err := balance.Summarize(a.Balances)
		if err != nil {
			return nil, err
		}
		a.Summary = sum
	}

	cycles, err := cycle.Enumerate(nw.Matrix, opts...)
	switch {
	case errors.Is(err, cycle.ErrCycleLimit):
		a.Truncated = true
	case err != nil:
		return nil, err
	}
	if a.Cycles, err = cycle.Annotate(nw.Matrix, cycles); err != nil {
		return nil, err
	}
	a.Plan = settlement.FromNet(a.Balances.Net)

	return a, nil
}

package report_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pedronavarrovera/amo/cycle"
	"github.com/pedronavarrovera/amo/debtmatrix"
	"github.com/pedronavarrovera/amo/report"
	"github.com/pedronavarrovera/amo/settlement"
)

func fourParty(t *testing.T) *debtmatrix.Network {
	t.Helper()
	nw, err := debtmatrix.NewNetwork(debtmatrix.MustNew([][]int64{
		{0, 10, 0, 0},
		{0, 0, 20, 0},
		{0, 0, 0, 30},
		{40, 0, 0, 0},
	}), debtmatrix.NamesFromList([]string{"Pedro", "Pilar", "Andrea", "David"}))
	require.NoError(t, err)

	return nw
}

func TestAnalyze(t *testing.T) {
	a, err := report.Analyze(fourParty(t))
	require.NoError(t, err)

	assert.Equal(t, []int64{30, -10, -10, -10}, a.Balances.Net)
	assert.Equal(t, 0, a.Summary.TopCreditor.Index)
	assert.Equal(t, 1, a.Summary.TopDebtor.Index)
	require.Len(t, a.Cycles, 1)
	assert.EqualValues(t, 10, a.Cycles[0].Bottleneck)
	assert.Len(t, a.Plan, 3)
	assert.False(t, a.Truncated)
}

func TestAnalyze_Truncated(t *testing.T) {
	nw, err := debtmatrix.NewNetwork(debtmatrix.MustNew([][]int64{
		{0, 1, 1},
		{1, 0, 1},
		{1, 1, 0},
	}), nil)
	require.NoError(t, err)

	a, err := report.Analyze(nw, cycle.WithMaxCycles(2))
	require.NoError(t, err)
	assert.True(t, a.Truncated)
	assert.Len(t, a.Cycles, 2)
}

func TestAnalyze_Empty(t *testing.T) {
	nw, err := debtmatrix.NewNetwork(debtmatrix.MustNew(nil), nil)
	require.NoError(t, err)
	a, err := report.Analyze(nw)
	require.NoError(t, err)

	var buf bytes.Buffer
	report.WriteAnalysis(&buf, a)
	assert.Contains(t, buf.String(), "No circular debt found.")
	assert.Contains(t, buf.String(), "Everyone is already even.")
}

func TestWriteAnalysis(t *testing.T) {
	a, err := report.Analyze(fourParty(t))
	require.NoError(t, err)

	var buf bytes.Buffer
	report.WriteAnalysis(&buf, a)
	out := buf.String()

	assert.Contains(t, out, "PERSON")
	assert.Contains(t, out, "+30")
	assert.Contains(t, out, "Most owed to:  Pedro (is owed 40)")
	assert.Contains(t, out, "Top debtor:    Pilar (net -10)")
	assert.Contains(t, out, "Cycle 1: Pedro → Pilar → Andrea → David → Pedro")
	assert.Contains(t, out, "Potential to cancel up to 10")
	assert.Contains(t, out, "David should pay Pedro → 10")
}

func TestSettlementAndCondonationLines(t *testing.T) {
	names := debtmatrix.NamesFromList([]string{"Pedro", "Pilar"})
	s := settlement.Settlement{{From: 1, To: 0, Amount: 7}}

	assert.Equal(t, []string{"Pilar should pay Pedro → 7"}, report.SettlementLines(s, names))
	assert.Equal(t, []string{"Pedro could forgive Pilar → 7"},
		report.CondonationLines(settlement.Condonations(s), names))
}

func TestCondonationMessage(t *testing.T) {
	names := debtmatrix.NamesFromList([]string{"Pedro", "Pilar", "Andrea", "David"})

	msg, err := report.CondonationMessage([]int{3, 0, 1, 2, 3}, names, 10)
	require.NoError(t, err)
	assert.Equal(t, report.CondonationSubject, msg.Subject)
	assert.Contains(t, msg.Body, "David → Pedro → Pilar → Andrea → David\n")
	assert.Contains(t, msg.Body, "minimum transferable amount in this cycle is: 10 units.")
	assert.Contains(t, msg.Body, "Pedro could forgive David → 10 units")
	assert.Contains(t, msg.Body, "David could forgive Andrea → 10 units")
	assert.Equal(t, 4, strings.Count(msg.Body, "could forgive"))
	assert.True(t, strings.HasSuffix(msg.Body, "Regards,\nDebtCycleAnalyzer"))

	_, err = report.CondonationMessage([]int{1}, names, 10)
	assert.ErrorIs(t, err, cycle.ErrInvalidCycle)
}

package report

import (
	"fmt"
	"strings"

	"github.com/pedronavarrovera/amo/cycle"
	"github.com/pedronavarrovera/amo/debtmatrix"
	"github.com/pedronavarrovera/amo/settlement"
)

// CondonationSubject is the subject line of every condonation notice.
const CondonationSubject = "Suggested Condonations to Cancel Debt Cycle"

// Message is a plain-text notice ready for a delivery layer.
type Message struct {
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// CondonationMessage builds the notice sent to the members of a cycle: the
// closed ring, the bottleneck amount and one forgiveness line per edge.
func CondonationMessage(c cycle.Cycle, names *debtmatrix.Names, amount int64) (Message, error) {
	c = cycle.Canonicalize(c)
	if len(c) < 2 {
		return Message{}, fmt.Errorf("report: %w: %d node(s)", cycle.ErrInvalidCycle, len(c))
	}

	s := make(settlement.Settlement, len(c))
	for i, e := range c.Edges() {
		s[i] = settlement.Transfer{From: e[0], To: e[1], Amount: amount}
	}

	var b strings.Builder
	b.WriteString("Hello,\n\n")
	b.WriteString("Based on the current debt analysis, we identified a cycle of obligations:\n\n")
	b.WriteString(Ring(c, names) + "\n\n")
	fmt.Fprintf(&b, "The minimum transferable amount in this cycle is: %d units.\n\n", amount)
	b.WriteString("Suggested condonations:\n")
	for _, line := range CondonationLines(settlement.Condonations(s), names) {
		b.WriteString(line + " units\n")
	}
	fmt.Fprintf(&b, "\nIf each creditor forgives this amount, %d will be removed from every link in the cycle.\n", amount)
	b.WriteString("\nRegards,\nDebtCycleAnalyzer")

	return Message{Subject: CondonationSubject, Body: b.String()}, nil
}

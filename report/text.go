package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"

	"github.com/pedronavarrovera/amo/cycle"
	"github.com/pedronavarrovera/amo/debtmatrix"
	"github.com/pedronavarrovera/amo/settlement"
)

// Arrow joins the nodes of a displayed ring or path.
const Arrow = " → "

// printTable renders a borderless, left-aligned table.
func printTable(w io.Writer, header []string, rows [][]string) {
	table := tablewriter.NewWriter(w)
	table.SetHeader(header)
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(true)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("\t")
	table.SetNoWhiteSpace(true)
	table.AppendBulk(rows)
	table.Render()
}

// WriteBalanceTable prints one row per party: what they owe, what they are
// owed and their net balance.
func WriteBalanceTable(w io.Writer, a *Analysis) {
	rows := make([][]string, 0, a.Balances.Len())
	for i := 0; i < a.Balances.Len(); i++ {
		rows = append(rows, []string{
			a.Names.NameOr(i),
			strconv.FormatInt(a.Balances.OwedBy[i], 10),
			strconv.FormatInt(a.Balances.OwedTo[i], 10),
			signed(a.Balances.Net[i]),
		})
	}
	printTable(w, []string{"Person", "Owes", "Is Owed", "Net Balance"}, rows)
}

// WriteAnalysis prints the balance table followed by insights, cycles and
// settlement suggestions.
func WriteAnalysis(w io.Writer, a *Analysis) {
	fmt.Fprintln(w, "Debt Analysis")
	fmt.Fprintln(w)
	WriteBalanceTable(w, a)

	if a.Balances.Len() > 0 {
		s := a.Summary
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Insights")
		fmt.Fprintf(w, "  Most owed to:  %s (is owed %d)\n", a.Names.NameOr(s.MostOwedTo.Index), s.MostOwedTo.Value)
		fmt.Fprintf(w, "  Owes the most: %s (owes %d)\n", a.Names.NameOr(s.OwesMost.Index), s.OwesMost.Value)
		fmt.Fprintf(w, "  Top creditor:  %s (net %s)\n", a.Names.NameOr(s.TopCreditor.Index), signed(s.TopCreditor.Value))
		fmt.Fprintf(w, "  Top debtor:    %s (net %s)\n", a.Names.NameOr(s.TopDebtor.Index), signed(s.TopDebtor.Value))
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Debt Cycles")
	if len(a.Cycles) == 0 {
		fmt.Fprintln(w, "  No circular debt found.")
	}
	for i, wc := range a.Cycles {
		fmt.Fprintf(w, "  Cycle %d: %s\n", i+1, Ring(wc.Cycle, a.Names))
		fmt.Fprintf(w, "    Potential to cancel up to %d within this cycle\n", wc.Bottleneck)
	}
	if a.Truncated {
		fmt.Fprintf(w, "  (listing stopped after %d cycles)\n", len(a.Cycles))
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Settlement Suggestions")
	if len(a.Plan) == 0 {
		fmt.Fprintln(w, "  Everyone is already even.")
	}
	for _, line := range SettlementLines(a.Plan, a.Names) {
		fmt.Fprintln(w, "  "+line)
	}
}

// Ring renders c as a closed ring of names: "A → B → C → A".
func Ring(c cycle.Cycle, names *debtmatrix.Names) string {
	return Path(c.Closed(), names)
}

// Path renders a node sequence by name.
func Path(path []int, names *debtmatrix.Names) string {
	parts := make([]string, len(path))
	for i, v := range path {
		parts[i] = names.NameOr(v)
	}

	return strings.Join(parts, Arrow)
}

// SettlementLines renders each transfer as "<payer> should pay <receiver> <amount>".
func SettlementLines(s settlement.Settlement, names *debtmatrix.Names) []string {
	out := make([]string, len(s))
	for i, tr := range s {
		out[i] = fmt.Sprintf("%s should pay %s%s%d", names.NameOr(tr.From), names.NameOr(tr.To), Arrow, tr.Amount)
	}

	return out
}

// CondonationLines renders each condonation as "<creditor> could forgive <debtor> <amount>".
func CondonationLines(cs []settlement.Condonation, names *debtmatrix.Names) []string {
	out := make([]string, len(cs))
	for i, c := range cs {
		out[i] = fmt.Sprintf("%s could forgive %s%s%d", names.NameOr(c.Creditor), names.NameOr(c.Debtor), Arrow, c.Amount)
	}

	return out
}

func signed(v int64) string {
	if v > 0 {
		return "+" + strconv.FormatInt(v, 10)
	}

	return strconv.FormatInt(v, 10)
}

package orders

// ComputeLineAmounts derives the excl/tax/incl amounts for a single line.
// Pure and deterministic; input validity is the workflow's responsibility.
func ComputeLineAmounts(quantity int, unitPrice, taxRatePercent float64) (excl, tax, incl float64) {
	excl = float64(quantity) * unitPrice
	tax = excl * taxRatePercent / 100
	incl = excl + tax
	return excl, tax, incl
}

// OrderTotals holds the three order-level monetary totals.
type OrderTotals struct {
	Excl float64
	Tax  float64
	Incl float64
}

// AggregateTotals sums the already-computed amounts of the given lines.
// Each field is summed independently, so the result does not depend on
// line order.
func AggregateTotals(lines []SalesOrderLine) OrderTotals {
	var t OrderTotals
	for _, line := range lines {
		t.Excl += line.ExclAmount
		t.Tax += line.TaxAmount
		t.Incl += line.InclAmount
	}
	return t
}

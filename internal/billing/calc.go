package billing

import "math"

// Totals are the derived aggregates of a draft, rounded to 2 decimals at
// the point of return only. They are recomputed from scratch on every call;
// nothing here is cached.
type Totals struct {
	Subtotal         float64 `json:"subtotal"`
	DiscountedAmount float64 `json:"discountedAmount"`
	Total            float64 `json:"total"`
	GrandTotal       float64 `json:"grandTotal"`
}

// ComputeLineAmount is the per-line price: base minus percentage discount,
// rounded to 2 decimals. Empty inputs count as 0. The second result is
// false when the line has no numeric input at all, so a blank row can be
// shown empty instead of as 0.00.
func ComputeLineAmount(variant Variant, line Line) (float64, bool) {
	base := lineBase(variant, line)
	amount := base - base*discountPct(variant, line)/100

	populated := line.Quantity != nil || line.Rate != nil
	if variant == VariantAluminum {
		populated = populated || line.Size != nil || line.Discount != nil
	}
	return round2(amount), populated
}

// CalculateTotals recomputes the draft's aggregates.
//
// Canonical formulas (earlier revisions of the shop's sheets disagreed, this
// is the complete one):
//
//	aluminum: total = subtotal + previousAmount + hardwareAmount - discountedAmount
//	hardware: total = subtotal + previousAmount + aluminumTotal
//	both:     grandTotal = total - receivedAmount
//
// Intermediate sums stay unrounded; only the returned figures are rounded.
func (d *Draft) CalculateTotals() Totals {
	var subtotal, discounted float64
	for _, line := range d.Lines {
		base := lineBase(d.Variant, line)
		subtotal += base
		discounted += base * discountPct(d.Variant, line) / 100
	}

	total := subtotal + num(d.PreviousAmount) + num(d.CrossAmount) - discounted
	grand := total - num(d.ReceivedAmount)

	return Totals{
		Subtotal:         round2(subtotal),
		DiscountedAmount: round2(discounted),
		Total:            round2(total),
		GrandTotal:       round2(grand),
	}
}

// lineBase is the undiscounted price of a line. Section is descriptive only
// and never enters the math.
func lineBase(variant Variant, line Line) float64 {
	if variant == VariantHardware {
		return num(line.Quantity) * num(line.Rate)
	}
	return num(line.Size) * num(line.Quantity) * num(line.Rate)
}

// discountPct is the line's discount clamped to [0,100]. Hardware lines
// carry no discount.
func discountPct(variant Variant, line Line) float64 {
	if variant == VariantHardware {
		return 0
	}
	pct := num(line.Discount)
	if pct < 0 {
		return 0
	}
	if pct > 100 {
		return 100
	}
	return pct
}

// RecomputeAmounts rederives every line's amount. Used when a draft is
// rebuilt from the wire rather than mutated field by field.
func (d *Draft) RecomputeAmounts() {
	for i := range d.Lines {
		recomputeAmount(d.Variant, &d.Lines[i])
	}
}

func recomputeAmount(variant Variant, line *Line) {
	amount, populated := ComputeLineAmount(variant, *line)
	if !populated {
		line.Amount = nil
		return
	}
	line.Amount = &amount
}

func num(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

package payroll

import "math"

// Cents is an integer minor-unit amount. Pay figures are computed as float
// intermediates but stored and summed as Cents so repeated additions across
// a batch never accumulate floating-point drift. Conversion to dollars
// happens only at the display boundary.
type Cents int64

func (c Cents) Dollars() float64 {
	return float64(c) / 100
}

// RoundCents converts an unrounded float cent amount to Cents, half away
// from zero. This is the single rounding boundary for monetary values.
func RoundCents(amount float64) Cents {
	return Cents(math.Round(amount))
}

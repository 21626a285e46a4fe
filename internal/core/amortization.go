package core

import (
	"math"

	"github.com/shopspring/decimal"
)

// MonthlyPayment returns the fixed monthly installment for principal at
// aprPercent (e.g. 8.5) over months:
//
//	payment = P * r * (1+r)^n / ((1+r)^n - 1),  r = apr / 100 / 12
//
// Degenerate inputs are clamped rather than propagated: a non-positive
// principal or term yields 0, a zero rate yields an even split. The result is
// rounded to 2 decimal places.
func MonthlyPayment(principal, aprPercent float64, months int) float64 {
	if months <= 0 || principal <= 0 || math.IsNaN(principal) || math.IsNaN(aprPercent) {
		return 0
	}

	p := decimal.NewFromFloat(principal)
	n := decimal.NewFromInt(int64(months))

	if aprPercent <= 0 {
		return p.Div(n).Round(2).InexactFloat64()
	}

	// The power step runs in float64; money arithmetic stays in decimal.
	r := aprPercent / 100 / 12
	factor := math.Pow(1+r, float64(months))
	ratio := decimal.NewFromFloat(r * factor / (factor - 1))

	return p.Mul(ratio).Round(2).InexactFloat64()
}

// TotalRepayment is monthly x months, rounded to 2 decimal places.
func TotalRepayment(monthly float64, months int) float64 {
	if months <= 0 || monthly <= 0 {
		return 0
	}
	return decimal.NewFromFloat(monthly).Mul(decimal.NewFromInt(int64(months))).Round(2).InexactFloat64()
}

// Package loans provides the amortization math shared by affordability
// estimates and offer pricing.
package loans

import (
	"math"

	"github.com/iwvelando/lender-marketplace/pkg/constants"
)

// PeriodicRate converts an annual percentage rate into the monthly rate used
// by the amortization formula.
func PeriodicRate(annualRatePercent float64) float64 {
	return annualRatePercent / constants.PercentageMultiplier / constants.MonthsPerYear
}

// MonthlyPayment returns the fixed payment that fully repays principal over
// termMonths at annualRatePercent.
//
// The DTI estimate and offer pricing both use it. Inputs are not range
// checked: a zero term yields an infinite or NaN payment.
func MonthlyPayment(annualRatePercent float64, termMonths int, principal float64) float64 {
	r := PeriodicRate(annualRatePercent)
	n := float64(termMonths)
	if r == 0 {
		return principal / n
	}
	return (principal * r) / (1 - math.Pow(1+r, -n))
}

// TotalCost returns the cost of a loan paid at payment for termMonths plus a
// flat up-front fee.
func TotalCost(payment float64, termMonths int, fee float64) float64 {
	return payment*float64(termMonths) + fee
}

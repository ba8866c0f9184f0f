package marketplace

import (
	"github.com/iwvelando/lender-marketplace/internal/catalog"
	"github.com/iwvelando/lender-marketplace/pkg/loans"
	"github.com/iwvelando/lender-marketplace/pkg/mathutil"
)

// RiskAdjustedAPR prices p for a borrower with probability of default pd.
// No floor or cap is applied.
func RiskAdjustedAPR(p catalog.Product, pd float64) float64 {
	return p.BaseRate + mathutil.ApplyPercentage(pd, p.RiskAlpha) + mathutil.BasisPointsToPercent(p.MarginBps)
}

// PickTerm returns the term closest to requested. Ties go to the term
// declared first. terms must not be empty.
func PickTerm(terms []int, requested int) int {
	best := terms[0]
	bestDiff := absInt(best - requested)
	for _, term := range terms[1:] {
		if diff := absInt(term - requested); diff < bestDiff {
			best, bestDiff = term, diff
		}
	}
	return best
}

// PriceOffer prices an eligible product for app. p must have passed
// IsEligible, which guarantees it has at least one term.
func PriceOffer(p catalog.Product, app Application, pd, principal float64) Offer {
	apr := RiskAdjustedAPR(p, pd)
	term := PickTerm(p.Terms, app.TermMonths)
	monthly := mathutil.RoundWhole(loans.MonthlyPayment(apr, term, principal))

	return Offer{
		LenderID:       p.ID,
		LenderName:     p.Name,
		APR:            mathutil.Round(apr),
		TermMonths:     term,
		MonthlyPayment: monthly,
		TotalCost:      mathutil.RoundWhole(loans.TotalCost(monthly, term, p.Fees.Origination)),
		Constraints: Constraints{
			MaxDTI: p.EffectiveMaxDTI(),
			MaxLTV: p.EffectiveMaxLTV(),
			Fees:   p.Fees,
		},
	}
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

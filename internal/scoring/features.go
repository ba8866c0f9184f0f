// Package scoring is a client for the probability-of-default service. The
// service takes affordability features and returns a pd with a suggested APR.
package scoring

import (
	"github.com/iwvelando/lender-marketplace/internal/marketplace"
	"github.com/iwvelando/lender-marketplace/pkg/mathutil"
)

// Features is the request body the scoring service expects.
type Features struct {
	IncomeMonthly    float64 `json:"income_monthly"`
	OtherDebtMonthly float64 `json:"other_debt_monthly"`
	HousingCost      float64 `json:"housing_cost"`
	Principal        float64 `json:"principal"`
	TermMonths       int     `json:"term_months"`
	LTV              float64 `json:"ltv"`
	DTI              float64 `json:"dti"`
	State            string  `json:"state"`
}

// Score is the service response.
type Score struct {
	PD             float64 `json:"pd"`
	RecommendedAPR float64 `json:"recommended_apr"` // fraction, e.g. 0.0575
	ModelVersion   string  `json:"model_version"`
}

// RecommendedAPRPercent converts the suggested rate to the percent form the
// marketplace uses.
func (s Score) RecommendedAPRPercent() float64 {
	return s.RecommendedAPR * 100
}

// NewFeatures builds the scoring features for an application from its
// already computed metrics.
func NewFeatures(app marketplace.Application, m marketplace.Metrics) Features {
	return Features{
		IncomeMonthly:    app.IncomeMonthly,
		OtherDebtMonthly: app.OtherDebtMonthly,
		HousingCost:      app.HousingCost,
		Principal:        m.Principal,
		TermMonths:       app.TermMonths,
		LTV:              m.LTV,
		DTI:              m.DTI,
		State:            app.State,
	}
}

func (f Features) finite() bool {
	for _, v := range []float64{f.IncomeMonthly, f.OtherDebtMonthly, f.HousingCost, f.Principal, f.LTV, f.DTI} {
		if !mathutil.IsFinite(v) {
			return false
		}
	}
	return true
}

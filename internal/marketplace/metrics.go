package marketplace

import (
	"github.com/iwvelando/lender-marketplace/pkg/loans"
	"github.com/iwvelando/lender-marketplace/pkg/mathutil"
)

// ComputeMetrics derives the financed principal, DTI, and LTV for app.
//
// DTI folds in an estimated payment at the application's reference APR over
// the requested term, not any lender's priced payment. The same estimate
// gates every lender; it is a pre-qualification check, not per-lender
// affordability. Degenerate inputs never fail: zero income yields an infinite
// or NaN DTI, which the eligibility gate rejects.
func ComputeMetrics(app Application) Metrics {
	netPrice := app.VehiclePrice - app.DownPayment - app.TradeIn
	taxableBase := mathutil.Max(netPrice, 0)
	tax := mathutil.ApplyPercentage(taxableBase, app.TaxRate)
	principal := mathutil.Max(netPrice+tax+app.Fees, 0)

	ltv := principal / mathutil.Max(app.VehiclePrice, 1)

	referencePayment := loans.MonthlyPayment(app.ReferenceAPR(), app.TermMonths, principal)
	dti := (app.OtherDebtMonthly + app.HousingCost + referencePayment) / app.IncomeMonthly

	return Metrics{
		Principal: principal,
		DTI:       dti,
		LTV:       ltv,
	}
}

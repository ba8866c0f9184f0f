package marketplace

import "github.com/iwvelando/lender-marketplace/internal/catalog"

// IsEligible reports whether app, with its derived metrics, satisfies every
// constraint of product p. Unset bounds take their defaults, so p need not
// come from a validated catalog. Comparisons are phrased so a NaN metric fails.
func IsEligible(p catalog.Product, app Application, m Metrics) bool {
	if !p.ServesState(app.State) {
		return false
	}
	if !(app.IncomeMonthly >= p.EffectiveMinIncome()) {
		return false
	}
	if !(m.DTI <= p.EffectiveMaxDTI()) {
		return false
	}
	if !(m.LTV <= p.EffectiveMaxLTV()) {
		return false
	}
	if len(p.Terms) == 0 {
		return false
	}
	return m.Principal > 0
}

// FilterEligible returns the products app qualifies for, in catalog order.
func FilterEligible(products []catalog.Product, app Application, m Metrics) []catalog.Product {
	eligible := make([]catalog.Product, 0, len(products))
	for _, p := range products {
		if IsEligible(p, app, m) {
			eligible = append(eligible, p)
		}
	}
	return eligible
}

// Package catalog holds the lender product definitions the marketplace
// matches applications against, along with loading, validation, and
// atomic hot-swap of the active catalog.
package catalog

import (
	"slices"

	"github.com/iwvelando/lender-marketplace/pkg/constants"
)

// Fees lists the flat charges a lender adds to a loan.
type Fees struct {
	Origination float64 `yaml:"origination" json:"origination"`
}

// Product is one lender product definition.
type Product struct {
	ID               string   `yaml:"id" json:"id"`
	Name             string   `yaml:"name" json:"name"`
	BaseRate         float64  `yaml:"baseRate" json:"baseRate"`   // percent
	RiskAlpha        float64  `yaml:"riskAlpha" json:"riskAlpha"` // percent per unit of pd
	MarginBps        float64  `yaml:"marginBps" json:"marginBps"`
	MaxDTI           float64  `yaml:"maxDTI" json:"maxDTI"`
	MaxLTV           float64  `yaml:"maxLTV" json:"maxLTV"`
	MinIncomeMonthly float64  `yaml:"minIncomeMonthly" json:"minIncomeMonthly"`
	States           []string `yaml:"states,omitempty" json:"states,omitempty"`
	Terms            []int    `yaml:"terms" json:"terms"`
	Fees             Fees     `yaml:"fees" json:"fees"`
}

// ServesState reports whether the product is offered in state. A product
// without a state list is offered everywhere.
func (p Product) ServesState(state string) bool {
	if len(p.States) == 0 {
		return true
	}
	return slices.Contains(p.States, state)
}

// EffectiveMaxDTI returns MaxDTI, or the default when it is unset (zero).
func (p Product) EffectiveMaxDTI() float64 {
	if p.MaxDTI == 0 {
		return constants.DefaultMaxDTI
	}
	return p.MaxDTI
}

// EffectiveMaxLTV returns MaxLTV, or the default when it is unset (zero).
func (p Product) EffectiveMaxLTV() float64 {
	if p.MaxLTV == 0 {
		return constants.DefaultMaxLTV
	}
	return p.MaxLTV
}

// EffectiveMinIncome returns MinIncomeMonthly, or the default when it is
// unset (zero).
func (p Product) EffectiveMinIncome() float64 {
	if p.MinIncomeMonthly == 0 {
		return constants.DefaultMinIncomeMonthly
	}
	return p.MinIncomeMonthly
}

// withDefaults fills unset affordability bounds. A zero bound counts as
// unset, so a catalog cannot express "no applicant qualifies" through 0.
func (p Product) withDefaults() Product {
	p.MaxDTI = p.EffectiveMaxDTI()
	p.MaxLTV = p.EffectiveMaxLTV()
	p.MinIncomeMonthly = p.EffectiveMinIncome()
	return p
}

func (p Product) clone() Product {
	p.States = slices.Clone(p.States)
	p.Terms = slices.Clone(p.Terms)
	return p
}

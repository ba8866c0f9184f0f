// Package testutil provides common fixtures and helpers for testing.
package testutil

import (
	"github.com/iwvelando/lender-marketplace/internal/catalog"
	"github.com/iwvelando/lender-marketplace/internal/marketplace"
)

// ReferencePD is the probability of default used with SampleApplication.
const ReferencePD = 0.05

// SampleApplication returns the reference application: a $30,000 vehicle in
// CA with $3,000 down, $500 fees, 8% tax, and a 60 month request.
func SampleApplication() marketplace.Application {
	return marketplace.Application{
		VehiclePrice:     30000,
		DownPayment:      3000,
		TradeIn:          0,
		Fees:             500,
		TaxRate:          8,
		TermMonths:       60,
		State:            "CA",
		IncomeMonthly:    5000,
		OtherDebtMonthly: 400,
		HousingCost:      1200,
	}
}

// SampleProduct returns a lender serving CA and TX that the reference
// application qualifies for.
func SampleProduct() catalog.Product {
	return catalog.Product{
		ID:               "sunrise",
		Name:             "Sunrise Auto Credit",
		BaseRate:         5.0,
		RiskAlpha:        10,
		MarginBps:        50,
		MaxDTI:           0.5,
		MaxLTV:           1.1,
		MinIncomeMonthly: 2000,
		States:           []string{"CA", "TX"},
		Terms:            []int{36, 48, 60, 72},
		Fees:             catalog.Fees{Origination: 300},
	}
}

// SampleProducts returns a small catalog in a fixed order: two lenders the
// reference application qualifies for, one that does not serve CA, and one
// whose DTI ceiling it exceeds.
func SampleProducts() []catalog.Product {
	return []catalog.Product{
		SampleProduct(),
		{
			ID:        "lonestar",
			Name:      "Lone Star Motors Finance",
			BaseRate:  3.9,
			RiskAlpha: 5,
			MarginBps: 0,
			MaxDTI:    0.6,
			MaxLTV:    1.3,
			States:    []string{"TX"},
			Terms:     []int{60},
		},
		{
			ID:        "pacific",
			Name:      "Pacific Credit Union",
			BaseRate:  6.0,
			RiskAlpha: 20,
			MarginBps: 25,
			Terms:     []int{48, 72},
			Fees:      catalog.Fees{Origination: 0},
		},
		{
			ID:        "tight",
			Name:      "Tight Ratio Bank",
			BaseRate:  2.0,
			RiskAlpha: 1,
			MaxDTI:    0.35,
			MaxLTV:    1.0,
			Terms:     []int{60},
		},
	}
}

// MustCatalog builds a catalog and panics on validation errors.
func MustCatalog(products []catalog.Product) *catalog.Catalog {
	c, err := catalog.New(products)
	if err != nil {
		panic(err)
	}
	return c
}

// SampleStore returns a store holding SampleProducts.
func SampleStore() *catalog.Store {
	return catalog.NewStore(MustCatalog(SampleProducts()))
}

// FindOffer finds an offer by lender id.
// Returns a pointer to the offer if found, nil otherwise.
func FindOffer(offers []marketplace.Offer, lenderID string) *marketplace.Offer {
	for i := range offers {
		if offers[i].LenderID == lenderID {
			return &offers[i]
		}
	}
	return nil
}

// Float64 returns a pointer to v.
func Float64(v float64) *float64 {
	return &v
}

// Package marketplace matches a loan application against the lender catalog
// and prices the offers each eligible lender would make.
//
// Everything here is a pure function of its inputs and one catalog snapshot:
// nothing is cached, persisted, or shared between calls.
package marketplace

import (
	"github.com/iwvelando/lender-marketplace/internal/catalog"
	"github.com/iwvelando/lender-marketplace/pkg/constants"
)

// Application is a normalized vehicle loan application. Monetary fields are
// assumed non-negative; they are validated upstream and not re-checked here.
type Application struct {
	VehiclePrice     float64 `json:"vehiclePrice" yaml:"vehiclePrice"`
	DownPayment      float64 `json:"downPayment" yaml:"downPayment"`
	TradeIn          float64 `json:"tradeIn" yaml:"tradeIn"`
	Fees             float64 `json:"fees" yaml:"fees"`
	TaxRate          float64 `json:"taxRate" yaml:"taxRate"` // percent
	TermMonths       int     `json:"termMonths" yaml:"termMonths"`
	State            string  `json:"state" yaml:"state"`
	IncomeMonthly    float64 `json:"incomeMonthly" yaml:"incomeMonthly"`
	OtherDebtMonthly float64 `json:"otherDebtMonthly" yaml:"otherDebtMonthly"`
	HousingCost      float64 `json:"housingCost" yaml:"housingCost"`

	// APRRecommended is the reference rate, in percent, used only to estimate
	// the payment that goes into DTI. Nil or zero means DefaultReferenceAPR.
	APRRecommended *float64 `json:"aprRecommended,omitempty" yaml:"aprRecommended,omitempty"`
}

// ReferenceAPR returns the rate used for the DTI payment estimate.
func (a Application) ReferenceAPR() float64 {
	if a.APRRecommended == nil || *a.APRRecommended == 0 {
		return constants.DefaultReferenceAPR
	}
	return *a.APRRecommended
}

// Request is one search: an application and its externally scored
// probability of default.
type Request struct {
	Application *Application `json:"app"`
	PD          float64      `json:"pd"`
}

// Metrics are the affordability figures derived from an application.
type Metrics struct {
	Principal float64 `json:"principal"`
	DTI       float64 `json:"dti"`
	LTV       float64 `json:"ltv"`
}

// Constraints echoes the bounds a lender applied, for caller transparency.
type Constraints struct {
	MaxDTI float64      `json:"maxDTI"`
	MaxLTV float64      `json:"maxLTV"`
	Fees   catalog.Fees `json:"fees"`
}

// Offer is one eligible lender's priced financing offer.
type Offer struct {
	LenderID       string      `json:"lenderId"`
	LenderName     string      `json:"lenderName"`
	APR            float64     `json:"apr"`
	TermMonths     int         `json:"termMonths"`
	MonthlyPayment float64     `json:"monthlyPayment"`
	TotalCost      float64     `json:"totalCost"`
	Constraints    Constraints `json:"constraints"`
}

// Result is the outcome of a search. DTI and LTV are rounded to two decimals;
// DTI may be non-finite when income is zero or negative.
type Result struct {
	Principal float64 `json:"principal"`
	DTI       float64 `json:"dti"`
	LTV       float64 `json:"ltv"`
	Offers    []Offer `json:"offers"`
}

package marketplace_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/iwvelando/lender-marketplace/internal/marketplace"
	"github.com/iwvelando/lender-marketplace/pkg/testutil"
)

func TestComputeMetricsReferenceApplication(t *testing.T) {
	m := marketplace.ComputeMetrics(testutil.SampleApplication())

	// taxable base 27000, tax 2160, plus 500 fees
	assert.InDelta(t, 29660, m.Principal, 1e-9)
	assert.InDelta(t, 0.9887, m.LTV, 1e-4)
	// (400 + 1200 + 601.40) / 5000
	assert.InDelta(t, 0.4403, m.DTI, 1e-4)
}

func TestComputeMetrics(t *testing.T) {
	tests := []struct {
		name          string
		modify        func(a *marketplace.Application)
		wantPrincipal float64
		wantLTV       float64
	}{
		{
			name:          "Trade-in reduces taxable base",
			modify:        func(a *marketplace.Application) { a.TradeIn = 7000 },
			wantPrincipal: 20000 + 1600 + 500,
			wantLTV:       22100.0 / 30000,
		},
		{
			name: "No tax or fees",
			modify: func(a *marketplace.Application) {
				a.TaxRate = 0
				a.Fees = 0
			},
			wantPrincipal: 27000,
			wantLTV:       0.9,
		},
		{
			name: "Down payment exceeds price",
			modify: func(a *marketplace.Application) {
				a.DownPayment = 35000
				a.Fees = 0
			},
			wantPrincipal: 0,
			wantLTV:       0,
		},
		{
			name: "Fees financed when down payment covers price",
			modify: func(a *marketplace.Application) {
				a.DownPayment = 30000
			},
			wantPrincipal: 500,
			wantLTV:       500.0 / 30000,
		},
		{
			name: "Zero vehicle price divides by one",
			modify: func(a *marketplace.Application) {
				a.VehiclePrice = 0
				a.DownPayment = 0
				a.Fees = 250
			},
			wantPrincipal: 250,
			wantLTV:       250,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := testutil.SampleApplication()
			tt.modify(&app)

			m := marketplace.ComputeMetrics(app)
			assert.InDelta(t, tt.wantPrincipal, m.Principal, 1e-9)
			assert.InDelta(t, tt.wantLTV, m.LTV, 1e-9)
			assert.GreaterOrEqual(t, m.Principal, 0.0)
		})
	}
}

func TestComputeMetricsReferenceAPR(t *testing.T) {
	app := testutil.SampleApplication()
	base := marketplace.ComputeMetrics(app)

	app.APRRecommended = testutil.Float64(0)
	assert.Equal(t, base.DTI, marketplace.ComputeMetrics(app).DTI, "zero falls back to the default rate")

	app.APRRecommended = testutil.Float64(12)
	higher := marketplace.ComputeMetrics(app)
	assert.Greater(t, higher.DTI, base.DTI)
	assert.Equal(t, base.Principal, higher.Principal)

	app.APRRecommended = testutil.Float64(0.0001)
	// 29660 / 60 = 494.33 at a near-zero rate
	assert.InDelta(t, (1600+494.33)/5000, marketplace.ComputeMetrics(app).DTI, 1e-3)
}

func TestComputeMetricsDegenerateIncome(t *testing.T) {
	app := testutil.SampleApplication()

	app.IncomeMonthly = 0
	assert.True(t, math.IsInf(marketplace.ComputeMetrics(app).DTI, 1))

	app.IncomeMonthly = -100
	assert.Less(t, marketplace.ComputeMetrics(app).DTI, 0.0)

	app = marketplace.Application{TermMonths: 60}
	assert.True(t, math.IsNaN(marketplace.ComputeMetrics(app).DTI))
}

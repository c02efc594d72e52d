package pricing

import (
	"pricewise/domain"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCalculateRevenue_Formulas(t *testing.T) {
	cases := []struct {
		d, p float64
		q    int
	}{
		{12.5, 5.0, 10},
		{0, 19.99, 3},
		{-10, 8, 4},
		{100, 2.5, 9},
		{150, 2.5, 9},
		{33.3, 0.7, 1},
	}

	for _, tc := range cases {
		m := CalculateRevenue(tc.d, tc.p, tc.q)

		q := float64(tc.q)
		assert.Equal(t, tc.p*(1-tc.d/100), m.DiscountedUnitPrice)
		assert.Equal(t, tc.p*(1-tc.d/100)*q, m.RevenueAfterDiscount)
		assert.Equal(t, tc.p*q, m.BaseRevenue)
		assert.InDelta(t, tc.p*(1-tc.d/100)*q-tc.p*q, m.RevenueDelta, 1e-9)
		assert.Equal(t, m.RevenueAfterDiscount-m.BaseRevenue, m.RevenueDelta)
	}
}

func TestCalculateRevenue_Scenario(t *testing.T) {
	m := CalculateRevenue(12.5, 5.0, 10)

	assert.Equal(t, 50.0, m.BaseRevenue)
	assert.Equal(t, 4.375, m.DiscountedUnitPrice)
	assert.Equal(t, 43.75, m.RevenueAfterDiscount)
	assert.Equal(t, -6.25, m.RevenueDelta)
	assert.Equal(t, domain.OutlookRevenueRisk, SelectOutlook(m))
}

func TestCalculateRevenue_NoClamping(t *testing.T) {
	m := CalculateRevenue(150, 4, 2)

	assert.Equal(t, -2.0, m.DiscountedUnitPrice)
	assert.Equal(t, -4.0, m.RevenueAfterDiscount)
}

func TestSelectOutlook(t *testing.T) {
	assert.Equal(t, domain.OutlookRevenueIncrease, SelectOutlook(domain.RevenueMetrics{RevenueDelta: 0.01}))
	assert.Equal(t, domain.OutlookRevenueRisk, SelectOutlook(domain.RevenueMetrics{RevenueDelta: 0}))
	assert.Equal(t, domain.OutlookRevenueRisk, SelectOutlook(domain.RevenueMetrics{RevenueDelta: -3}))

	// a negative discount raises the price
	assert.Equal(t, domain.OutlookRevenueIncrease, SelectOutlook(CalculateRevenue(-5, 10, 2)))
}

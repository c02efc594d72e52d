package pricing

import "pricewise/domain"

// CalculateRevenue derives the revenue figures for a discount. No rounding
// happens here.
func CalculateRevenue(discountPercent, unitPrice float64, quantity int) domain.RevenueMetrics {
	// explicit conversions keep each product rounded, so no fused multiply-add
	base := float64(unitPrice * float64(quantity))
	discounted := float64(unitPrice * (1 - discountPercent/100))
	after := float64(discounted * float64(quantity))

	return domain.RevenueMetrics{
		BaseRevenue:          base,
		DiscountedUnitPrice:  discounted,
		RevenueAfterDiscount: after,
		RevenueDelta:         after - base,
	}
}

// SelectOutlook picks the narrative. A zero delta is not an increase.
func SelectOutlook(m domain.RevenueMetrics) domain.Outlook {
	if m.RevenueDelta > 0 {
		return domain.OutlookRevenueIncrease
	}
	return domain.OutlookRevenueRisk
}

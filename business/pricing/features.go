package pricing

import (
	"pricewise/domain"
	"strconv"
	"strings"
)

// BuildFeatureVector lays the input out in the column order the model was
// trained on. The caller must have validated the input first.
func BuildFeatureVector(in domain.InputRecord) domain.FeatureVector {
	var x domain.FeatureVector

	x[0] = float64(in.Quantity)
	x[1] = in.UnitPrice
	x[2] = in.TotalPrice()
	x[3] = float64(in.Month)
	x[4] = float64(in.DayOfMonth)
	x[5] = float64(in.Hour)
	x[6] = float64(in.DayOfWeek)
	x[7] = float64(in.DemandLevel)
	x[8] = float64(in.PriceCategory)

	return x
}

// featureKey renders a vector losslessly, for cache keys.
func featureKey(x domain.FeatureVector) string {
	parts := make([]string, len(x))
	for i, v := range x {
		parts[i] = strconv.FormatFloat(v, 'g', -1, 64)
	}
	return strings.Join(parts, ",")
}

package domain

import (
	"fmt"
	"strings"
	"time"
)

type PriceCategory int

const (
	PriceCategoryEconomy PriceCategory = iota + 1
	PriceCategoryMidRange
	PriceCategoryPremium
	PriceCategoryLuxury
)

var priceCategoryLabels = []string{"Economy", "Mid-Range", "Premium", "Luxury"}

type DemandLevel int

const (
	DemandLow DemandLevel = iota + 1
	DemandModerate
	DemandHigh
	DemandVeryHigh
)

var demandLevelLabels = []string{"Low", "Moderate", "High", "Very High"}

// Weekday counts from Monday=0, unlike time.Weekday.
type Weekday int

const (
	Monday Weekday = iota
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday
)

var weekdayLabels = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

func PriceCategoryLabels() []string { return append([]string(nil), priceCategoryLabels...) }
func DemandLevelLabels() []string   { return append([]string(nil), demandLevelLabels...) }
func WeekdayLabels() []string       { return append([]string(nil), weekdayLabels...) }

func ParsePriceCategory(label string) (PriceCategory, error) {
	i, err := labelIndex(priceCategoryLabels, label, "price category")
	return PriceCategory(i + 1), err
}

func ParseDemandLevel(label string) (DemandLevel, error) {
	i, err := labelIndex(demandLevelLabels, label, "demand level")
	return DemandLevel(i + 1), err
}

func ParseWeekday(label string) (Weekday, error) {
	i, err := labelIndex(weekdayLabels, label, "day of week")
	return Weekday(i), err
}

func (c PriceCategory) String() string { return labelAt(priceCategoryLabels, int(c)-1) }
func (d DemandLevel) String() string   { return labelAt(demandLevelLabels, int(d)-1) }
func (w Weekday) String() string       { return labelAt(weekdayLabels, int(w)) }

func labelIndex(labels []string, label, kind string) (int, error) {
	label = strings.TrimSpace(label)
	for i, l := range labels {
		if strings.EqualFold(l, label) {
			return i, nil
		}
	}
	return -1, fmt.Errorf("%w: %s %q", ErrUnknownLabel, kind, label)
}

func labelAt(labels []string, i int) string {
	if i < 0 || i >= len(labels) {
		return fmt.Sprintf("unknown(%d)", i)
	}
	return labels[i]
}

// InputRecord is one set of product attributes submitted for a discount strategy.
// UnitPrice carries no tag: its positivity gate is checked before anything else.
type InputRecord struct {
	Quantity      int           `json:"quantity" validate:"min=1"`
	UnitPrice     float64       `json:"unit_price"`
	PriceCategory PriceCategory `json:"price_category" validate:"min=1,max=4"`
	DemandLevel   DemandLevel   `json:"demand_level" validate:"min=1,max=4"`
	Month         int           `json:"month" validate:"min=1,max=12"`
	DayOfMonth    int           `json:"day_of_month" validate:"min=1,max=31"`
	Hour          int           `json:"hour" validate:"min=0,max=23"`
	DayOfWeek     Weekday       `json:"day_of_week" validate:"min=0,max=6"`
}

// DefaultInputRecord returns the values the form starts with.
func DefaultInputRecord() InputRecord {
	return InputRecord{
		Quantity:      10,
		UnitPrice:     5.0,
		PriceCategory: PriceCategoryEconomy,
		DemandLevel:   DemandModerate,
		Month:         6,
		DayOfMonth:    15,
		Hour:          12,
		DayOfWeek:     Monday,
	}
}

// TotalPrice is quantity * unit price, the revenue before any discount.
func (r InputRecord) TotalPrice() float64 {
	return float64(r.Quantity) * r.UnitPrice
}

const FeatureCount = 9

// FeatureNames is the column order the model was trained on.
var FeatureNames = [FeatureCount]string{
	"quantity",
	"unit_price",
	"total_price",
	"month",
	"day_of_month",
	"hour",
	"day_of_week",
	"demand_level",
	"price_category",
}

type FeatureVector [FeatureCount]float64

func (v FeatureVector) Slice() []float64 {
	out := make([]float64, FeatureCount)
	copy(out, v[:])
	return out
}

type RevenueMetrics struct {
	BaseRevenue          float64 `json:"base_revenue"`
	DiscountedUnitPrice  float64 `json:"discounted_unit_price"`
	RevenueAfterDiscount float64 `json:"revenue_after_discount"`
	RevenueDelta         float64 `json:"revenue_delta"`
}

type Outlook string

const (
	OutlookRevenueIncrease Outlook = "revenue_increase"
	OutlookRevenueRisk     Outlook = "revenue_risk"
)

func (o Outlook) Message() string {
	if o == OutlookRevenueIncrease {
		return "This discount strategy increases total revenue."
	}
	return "This discount may reduce revenue but could increase sales volume."
}

type DiscountStrategy struct {
	ID                  string         `json:"id"`
	Input               InputRecord    `json:"input"`
	Features            FeatureVector  `json:"features"`
	DiscountPercent     float64        `json:"discount_percent"`
	WithinExpectedRange bool           `json:"within_expected_range"`
	Metrics             RevenueMetrics `json:"metrics"`
	Outlook             Outlook        `json:"outlook"`
	Message             string         `json:"message"`
	GeneratedAt         time.Time      `json:"generated_at"`
}

// Scenario is one row of a batch. Err is set when the row could not be read.
type Scenario struct {
	Row   int
	Input InputRecord
	Err   error
}

// BatchOutcome holds either a strategy or the error for one scenario. Err is
// a validation or prediction failure of a row that was read fine; a read
// failure stays on Scenario.Err.
type BatchOutcome struct {
	Scenario
	Strategy *DiscountStrategy
	Err      error
}

// Failure returns why the scenario has no strategy, or nil.
func (o BatchOutcome) Failure() error {
	if o.Err != nil {
		return o.Err
	}
	return o.Scenario.Err
}

// LabeledInput is an InputRecord as a person enters it, with category, demand
// and weekday given by name.
type LabeledInput struct {
	Quantity      int     `json:"quantity" form:"quantity" validate:"min=1"`
	UnitPrice     float64 `json:"unit_price" form:"unit_price"`
	PriceCategory string  `json:"price_category" form:"price_category" validate:"required"`
	DemandLevel   string  `json:"demand_level" form:"demand_level" validate:"required"`
	Month         int     `json:"month" form:"month" validate:"min=1,max=12"`
	DayOfMonth    int     `json:"day_of_month" form:"day_of_month" validate:"min=1,max=31"`
	Hour          int     `json:"hour" form:"hour" validate:"min=0,max=23"`
	DayOfWeek     string  `json:"day_of_week" form:"day_of_week" validate:"required"`
}

// Resolve maps the labels to their codes.
func (l LabeledInput) Resolve() (InputRecord, error) {
	category, err := ParsePriceCategory(l.PriceCategory)
	if err != nil {
		return InputRecord{}, err
	}
	demand, err := ParseDemandLevel(l.DemandLevel)
	if err != nil {
		return InputRecord{}, err
	}
	weekday, err := ParseWeekday(l.DayOfWeek)
	if err != nil {
		return InputRecord{}, err
	}

	return InputRecord{
		Quantity:      l.Quantity,
		UnitPrice:     l.UnitPrice,
		PriceCategory: category,
		DemandLevel:   demand,
		Month:         l.Month,
		DayOfMonth:    l.DayOfMonth,
		Hour:          l.Hour,
		DayOfWeek:     weekday,
	}, nil
}

// Labeled is the inverse of LabeledInput.Resolve.
func (r InputRecord) Labeled() LabeledInput {
	return LabeledInput{
		Quantity:      r.Quantity,
		UnitPrice:     r.UnitPrice,
		PriceCategory: r.PriceCategory.String(),
		DemandLevel:   r.DemandLevel.String(),
		Month:         r.Month,
		DayOfMonth:    r.DayOfMonth,
		Hour:          r.Hour,
		DayOfWeek:     r.DayOfWeek.String(),
	}
}

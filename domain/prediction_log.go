package domain

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
)

type PredictionLog struct {
	ID                   string         `gorm:"column:id;primaryKey" json:"id"`
	Quantity             int            `gorm:"column:quantity;not null" json:"quantity"`
	UnitPrice            float64        `gorm:"column:unit_price;not null" json:"unit_price"`
	PriceCategory        int            `gorm:"column:price_category;not null" json:"price_category"`
	DemandLevel          int            `gorm:"column:demand_level;not null" json:"demand_level"`
	Month                int            `gorm:"column:month;not null" json:"month"`
	DayOfMonth           int            `gorm:"column:day_of_month;not null" json:"day_of_month"`
	Hour                 int            `gorm:"column:hour;not null" json:"hour"`
	DayOfWeek            int            `gorm:"column:day_of_week;not null" json:"day_of_week"`
	Features             datatypes.JSON `gorm:"column:features;type:jsonb" json:"features"`
	DiscountPercent      float64        `gorm:"column:discount_percent;not null" json:"discount_percent"`
	BaseRevenue          float64        `gorm:"column:base_revenue" json:"base_revenue"`
	DiscountedUnitPrice  float64        `gorm:"column:discounted_unit_price" json:"discounted_unit_price"`
	RevenueAfterDiscount float64        `gorm:"column:revenue_after_discount" json:"revenue_after_discount"`
	RevenueDelta         float64        `gorm:"column:revenue_delta" json:"revenue_delta"`
	Outlook              string         `gorm:"column:outlook" json:"outlook"`
	CreatedAt            time.Time      `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (PredictionLog) TableName() string { return "prediction_logs" }

func NewPredictionLog(s DiscountStrategy) PredictionLog {
	features, _ := json.Marshal(s.Features)

	return PredictionLog{
		ID:                   s.ID,
		Quantity:             s.Input.Quantity,
		UnitPrice:            s.Input.UnitPrice,
		PriceCategory:        int(s.Input.PriceCategory),
		DemandLevel:          int(s.Input.DemandLevel),
		Month:                s.Input.Month,
		DayOfMonth:           s.Input.DayOfMonth,
		Hour:                 s.Input.Hour,
		DayOfWeek:            int(s.Input.DayOfWeek),
		Features:             datatypes.JSON(features),
		DiscountPercent:      s.DiscountPercent,
		BaseRevenue:          s.Metrics.BaseRevenue,
		DiscountedUnitPrice:  s.Metrics.DiscountedUnitPrice,
		RevenueAfterDiscount: s.Metrics.RevenueAfterDiscount,
		RevenueDelta:         s.Metrics.RevenueDelta,
		Outlook:              string(s.Outlook),
		CreatedAt:            s.GeneratedAt,
	}
}

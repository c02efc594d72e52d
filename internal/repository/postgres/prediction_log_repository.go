package postgres

import (
	"context"
	"pricewise/business/pricing"
	"pricewise/domain"

	"gorm.io/gorm"
)

type PredictionLogRepository struct {
	DB *gorm.DB
}

var _ pricing.PredictionLogRepository = (*PredictionLogRepository)(nil)

func NewPredictionLogRepository(db *gorm.DB) *PredictionLogRepository {
	return &PredictionLogRepository{DB: db}
}

func (r *PredictionLogRepository) Create(ctx context.Context, entry *domain.PredictionLog) error {
	return r.DB.WithContext(ctx).Create(entry).Error
}

// FindRecent returns the newest entries first.
func (r *PredictionLogRepository) FindRecent(ctx context.Context, limit int) ([]domain.PredictionLog, error) {
	var logs []domain.PredictionLog

	err := r.DB.WithContext(ctx).
		Order("created_at desc").
		Limit(limit).
		Find(&logs).Error
	if err != nil {
		return nil, err
	}

	return logs, nil
}

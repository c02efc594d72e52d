package pricing

import (
	"context"
	"errors"
	"fmt"
	"math"
	"pricewise/domain"
	"pricewise/pkg/logger"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// ---- Collaborator interfaces ----

// DiscountPredictor turns a feature vector into a discount percentage.
type DiscountPredictor interface {
	PredictDiscount(ctx context.Context, x domain.FeatureVector) (float64, error)
}

type DiscountCache interface {
	GetDiscount(ctx context.Context, key string) (float64, bool, error)
	SetDiscount(ctx context.Context, key string, discount float64) error
}

type PredictionLogRepository interface {
	Create(ctx context.Context, entry *domain.PredictionLog) error
	FindRecent(ctx context.Context, limit int) ([]domain.PredictionLog, error)
}

// ---- Service ----

type PricingService struct {
	predictor DiscountPredictor
	cache     DiscountCache
	logRepo   PredictionLogRepository
	validate  *validator.Validate
	cfg       Config

	now   func() time.Time
	newID func() string
}

// NewPricingService wires the pipeline. A nil predictor means the model did not
// load; cache and logRepo are optional.
func NewPricingService(
	predictor DiscountPredictor,
	cache DiscountCache,
	logRepo PredictionLogRepository,
	cfg Config,
) *PricingService {
	validate := validator.New()
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})

	return &PricingService{
		predictor: predictor,
		cache:     cache,
		logRepo:   logRepo,
		validate:  validate,
		cfg:       cfg,
		now:       time.Now,
		newID:     uuid.NewString,
	}
}

func (s *PricingService) ModelAvailable() bool {
	return s.predictor != nil
}

// Generate runs the full pipeline for one input: validate, build the feature
// vector, call the model, derive revenue metrics.
func (s *PricingService) Generate(ctx context.Context, in domain.InputRecord) (domain.DiscountStrategy, error) {
	if err := ctx.Err(); err != nil {
		return domain.DiscountStrategy{}, fmt.Errorf("context error: %w", err)
	}

	if err := s.validateInput(in); err != nil {
		PredictionOutcomesTotal.WithLabelValues(outcomeValidationFailure).Inc()
		return domain.DiscountStrategy{}, err
	}

	if s.predictor == nil {
		PredictionOutcomesTotal.WithLabelValues(outcomeModelUnavailable).Inc()
		return domain.DiscountStrategy{}, domain.ErrModelUnavailable
	}

	x := BuildFeatureVector(in)

	discount, err := s.predict(ctx, x)
	if err != nil {
		if errors.Is(err, domain.ErrModelUnavailable) {
			PredictionOutcomesTotal.WithLabelValues(outcomeModelUnavailable).Inc()
			return domain.DiscountStrategy{}, err
		}
		PredictionOutcomesTotal.WithLabelValues(outcomePredictionFailure).Inc()
		if !errors.Is(err, domain.ErrPrediction) {
			err = &domain.PredictionError{Err: err}
		}
		return domain.DiscountStrategy{}, err
	}

	metrics := CalculateRevenue(discount, in.UnitPrice, in.Quantity)
	outlook := SelectOutlook(metrics)

	within := s.cfg.withinExpected(discount)
	if !within {
		logger.Warn("Discount outside expected range",
			"discount_percent", discount,
			"min", s.cfg.ExpectedMinDiscount,
			"max", s.cfg.ExpectedMaxDiscount,
		)
	}

	strategy := domain.DiscountStrategy{
		ID:                  s.newID(),
		Input:               in,
		Features:            x,
		DiscountPercent:     discount,
		WithinExpectedRange: within,
		Metrics:             metrics,
		Outlook:             outlook,
		Message:             outlook.Message(),
		GeneratedAt:         s.now(),
	}

	s.record(ctx, strategy)
	PredictionOutcomesTotal.WithLabelValues(outcomeSuccess).Inc()

	return strategy, nil
}

// GenerateBatch runs Generate for each readable scenario in order. A failing
// row keeps its error and the batch moves on.
func (s *PricingService) GenerateBatch(ctx context.Context, scenarios []domain.Scenario) []domain.BatchOutcome {
	outcomes := make([]domain.BatchOutcome, 0, len(scenarios))

	for _, sc := range scenarios {
		out := domain.BatchOutcome{Scenario: sc}
		if sc.Err == nil {
			strategy, err := s.Generate(ctx, sc.Input)
			if err != nil {
				out.Err = err
			} else {
				out.Strategy = &strategy
			}
		}
		outcomes = append(outcomes, out)
	}

	return outcomes
}

func (s *PricingService) RecentPredictions(ctx context.Context, limit int) ([]domain.PredictionLog, error) {
	if s.logRepo == nil {
		return nil, domain.ErrHistoryDisabled
	}
	if limit <= 0 {
		limit = 20
	}
	return s.logRepo.FindRecent(ctx, limit)
}

func (s *PricingService) validateInput(in domain.InputRecord) error {
	if !(in.UnitPrice > 0) {
		return &domain.ValidationError{Field: "unit_price", Message: "Unit price must be greater than 0"}
	}
	if math.IsInf(in.UnitPrice, 1) {
		return &domain.ValidationError{Field: "unit_price", Message: "Unit price must be a finite number"}
	}

	err := s.validate.Struct(in)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return &domain.ValidationError{Message: err.Error()}
	}

	fe := fieldErrs[0]
	var msg string
	switch fe.Tag() {
	case "min":
		msg = fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param())
	case "max":
		msg = fmt.Sprintf("%s must be at most %s", fe.Field(), fe.Param())
	default:
		msg = fmt.Sprintf("%s is invalid", fe.Field())
	}

	return &domain.ValidationError{Field: fe.Field(), Message: msg}
}

// predict consults the cache before the model. Cache failures only cost a
// model call.
func (s *PricingService) predict(ctx context.Context, x domain.FeatureVector) (float64, error) {
	key := featureKey(x)

	if s.cache != nil {
		cached, ok, err := s.cache.GetDiscount(ctx, key)
		switch {
		case err != nil:
			CacheLookupsTotal.WithLabelValues("error").Inc()
			logger.Warn("Prediction cache lookup failed", err)
		case ok:
			CacheLookupsTotal.WithLabelValues("hit").Inc()
			return cached, nil
		default:
			CacheLookupsTotal.WithLabelValues("miss").Inc()
		}
	}

	discount, err := s.predictor.PredictDiscount(ctx, x)
	if err != nil {
		return 0, err
	}

	if s.cache != nil {
		if err := s.cache.SetDiscount(ctx, key, discount); err != nil {
			logger.Warn("Prediction cache store failed", err)
		}
	}

	return discount, nil
}

func (s *PricingService) record(ctx context.Context, strategy domain.DiscountStrategy) {
	if s.logRepo == nil {
		return
	}

	entry := domain.NewPredictionLog(strategy)
	if err := s.logRepo.Create(ctx, &entry); err != nil {
		logger.Error("Failed to record prediction", "id", strategy.ID, "error", err)
	}
}

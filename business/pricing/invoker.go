package pricing

import (
	"context"
	"errors"
	"fmt"
	"math"
	"pricewise/domain"
)

// Model is the loaded regression model. It scores a batch of rows, one
// output per row.
type Model interface {
	Predict(ctx context.Context, rows [][]float64) ([]float64, error)
}

// Invoker submits a single feature vector to a Model.
type Invoker struct {
	model Model
}

func NewInvoker(model Model) *Invoker {
	return &Invoker{model: model}
}

// PredictDiscount sends a (1, 9) batch and takes the first output as the
// discount percentage.
func (i *Invoker) PredictDiscount(ctx context.Context, x domain.FeatureVector) (float64, error) {
	if i == nil || i.model == nil {
		return 0, domain.ErrModelUnavailable
	}

	out, err := i.model.Predict(ctx, [][]float64{x.Slice()})
	if err != nil {
		return 0, &domain.PredictionError{Err: err}
	}
	if len(out) == 0 {
		return 0, &domain.PredictionError{Err: errors.New("model returned no output")}
	}

	discount := out[0]
	if math.IsNaN(discount) || math.IsInf(discount, 0) {
		return 0, &domain.PredictionError{Err: fmt.Errorf("model returned non-finite value %v", discount)}
	}

	return discount, nil
}

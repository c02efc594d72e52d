package domain

import "errors"

var (
	ErrModelUnavailable = errors.New("prediction model is not loaded")
	ErrValidation       = errors.New("invalid pricing input")
	ErrPrediction       = errors.New("prediction failed")
	ErrUnknownLabel     = errors.New("unknown label")
	ErrHistoryDisabled  = errors.New("prediction history is not enabled")
)

// ValidationError rejects an input before the model is called.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// PredictionError reports a failed model call for a single request.
type PredictionError struct {
	Err error
}

func (e *PredictionError) Error() string {
	if e.Err == nil {
		return ErrPrediction.Error()
	}
	return "prediction failed: " + e.Err.Error()
}

func (e *PredictionError) Unwrap() error {
	return e.Err
}

func (e *PredictionError) Is(target error) bool {
	return target == ErrPrediction
}

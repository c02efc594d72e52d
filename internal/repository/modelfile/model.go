// Package modelfile loads the trained discount model from its artifact file
// and evaluates it.
package modelfile

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"pricewise/business/pricing"
	"pricewise/domain"

	"gopkg.in/yaml.v3"
)

type Model struct {
	name    string
	version string
	kind    string
	score   func(x []float64) float64
}

var _ pricing.Model = (*Model)(nil)

// Load reads and checks the artifact at path. Every failure is a *LoadError.
func Load(path string) (*Model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &LoadError{Path: path, Err: ErrArtifactNotFound}
		}
		return nil, &LoadError{Path: path, Err: fmt.Errorf("%w: %v", ErrArtifactUnreadable, err)}
	}

	m, err := Decode(data)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	return m, nil
}

// Decode builds a Model from artifact bytes (YAML or JSON).
func Decode(data []byte) (*Model, error) {
	var a Artifact

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&a); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrArtifactCorrupt, err)
	}

	if err := checkFeatures(a.Features); err != nil {
		return nil, err
	}

	m := &Model{name: a.Name, version: a.Version, kind: a.Kind}

	switch a.Kind {
	case KindLinear:
		score, err := buildLinear(a.Linear)
		if err != nil {
			return nil, err
		}
		m.score = score
	case KindTreeEnsemble:
		score, err := buildEnsemble(a.Ensemble)
		if err != nil {
			return nil, err
		}
		m.score = score
	default:
		return nil, fmt.Errorf("%w: unsupported kind %q", ErrSchemaMismatch, a.Kind)
	}

	return m, nil
}

func (m *Model) Name() string    { return m.name }
func (m *Model) Version() string { return m.version }
func (m *Model) Kind() string    { return m.kind }

// Predict scores each row. Every row must hold exactly one value per feature.
func (m *Model) Predict(ctx context.Context, rows [][]float64) ([]float64, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	out := make([]float64, len(rows))
	for i, row := range rows {
		if len(row) != domain.FeatureCount {
			return nil, fmt.Errorf("%w: row %d has %d values, want %d", ErrShapeMismatch, i, len(row), domain.FeatureCount)
		}
		out[i] = m.score(row)
	}
	return out, nil
}

func checkFeatures(features []string) error {
	if len(features) != domain.FeatureCount {
		return fmt.Errorf("%w: artifact has %d features, want %d", ErrSchemaMismatch, len(features), domain.FeatureCount)
	}
	for i, name := range features {
		if name != domain.FeatureNames[i] {
			return fmt.Errorf("%w: feature %d is %q, want %q", ErrSchemaMismatch, i, name, domain.FeatureNames[i])
		}
	}
	return nil
}

func buildLinear(spec *LinearSpec) (func([]float64) float64, error) {
	if spec == nil {
		return nil, fmt.Errorf("%w: linear model has no coefficients", ErrArtifactCorrupt)
	}
	if len(spec.Coefficients) != domain.FeatureCount {
		return nil, fmt.Errorf("%w: %d coefficients, want %d", ErrSchemaMismatch, len(spec.Coefficients), domain.FeatureCount)
	}

	intercept := spec.Intercept
	coef := append([]float64(nil), spec.Coefficients...)

	return func(x []float64) float64 {
		y := intercept
		for i, c := range coef {
			y += c * x[i]
		}
		return y
	}, nil
}

func buildEnsemble(spec *EnsembleSpec) (func([]float64) float64, error) {
	if spec == nil || len(spec.Trees) == 0 {
		return nil, fmt.Errorf("%w: tree ensemble has no trees", ErrArtifactCorrupt)
	}

	aggregation := spec.Aggregation
	if aggregation == "" {
		aggregation = AggregationMean
	}
	if aggregation != AggregationMean && aggregation != AggregationSum {
		return nil, fmt.Errorf("%w: unsupported aggregation %q", ErrSchemaMismatch, spec.Aggregation)
	}

	learningRate := 1.0
	if spec.LearningRate != nil {
		learningRate = *spec.LearningRate
	}

	trees := make([]tree, len(spec.Trees))
	for i, ts := range spec.Trees {
		t, err := newTree(ts)
		if err != nil {
			return nil, fmt.Errorf("tree %d: %w", i, err)
		}
		trees[i] = t
	}

	base := spec.BaseScore
	n := float64(len(trees))

	return func(x []float64) float64 {
		var sum float64
		for _, t := range trees {
			sum += t.eval(x)
		}
		if aggregation == AggregationMean {
			return base + sum/n
		}
		return base + learningRate*sum
	}, nil
}

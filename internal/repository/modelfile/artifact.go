package modelfile

import (
	"errors"
	"fmt"
)

const (
	KindLinear       = "linear"
	KindTreeEnsemble = "tree_ensemble"

	AggregationMean = "mean"
	AggregationSum  = "sum"
)

var (
	ErrArtifactNotFound   = errors.New("model artifact not found")
	ErrArtifactUnreadable = errors.New("model artifact is unreadable")
	ErrArtifactCorrupt    = errors.New("model artifact is corrupt")
	ErrSchemaMismatch     = errors.New("model artifact schema mismatch")
	ErrShapeMismatch      = errors.New("input shape mismatch")
)

// LoadError describes why the artifact at Path could not be loaded. Err is
// one of the ErrArtifact*/ErrSchemaMismatch sentinels, possibly wrapped.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load model %q: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// Notice is the one-line explanation shown to a person using the form.
func (e *LoadError) Notice() string {
	switch {
	case errors.Is(e.Err, ErrArtifactNotFound):
		return fmt.Sprintf("Model file not found. Please ensure '%s' exists.", e.Path)
	case errors.Is(e.Err, ErrArtifactCorrupt):
		return fmt.Sprintf("Model file '%s' is corrupt and could not be parsed.", e.Path)
	case errors.Is(e.Err, ErrSchemaMismatch):
		return fmt.Sprintf("Model file '%s' does not match the expected input features.", e.Path)
	case errors.Is(e.Err, ErrArtifactUnreadable):
		return fmt.Sprintf("Model file '%s' could not be read.", e.Path)
	}
	return fmt.Sprintf("Model file '%s' could not be loaded.", e.Path)
}

// Artifact is the on-disk form of a trained regression model.
type Artifact struct {
	Name     string        `yaml:"name"`
	Version  string        `yaml:"version"`
	Kind     string        `yaml:"kind"`
	Features []string      `yaml:"features"`
	Linear   *LinearSpec   `yaml:"linear,omitempty"`
	Ensemble *EnsembleSpec `yaml:"ensemble,omitempty"`
}

type LinearSpec struct {
	Intercept    float64   `yaml:"intercept"`
	Coefficients []float64 `yaml:"coefficients"`
}

type EnsembleSpec struct {
	Aggregation  string     `yaml:"aggregation"`
	BaseScore    float64    `yaml:"base_score"`
	LearningRate *float64   `yaml:"learning_rate,omitempty"`
	Trees        []TreeSpec `yaml:"trees"`
}

type TreeSpec struct {
	Nodes []NodeSpec `yaml:"nodes"`
}

// NodeSpec is one node of a binary regression tree. Left == -1 marks a leaf;
// otherwise rows with x[Feature] <= Threshold go Left.
type NodeSpec struct {
	Feature   int     `yaml:"feature"`
	Threshold float64 `yaml:"threshold"`
	Left      int     `yaml:"left"`
	Right     int     `yaml:"right"`
	Value     float64 `yaml:"value"`
}

func (n NodeSpec) isLeaf() bool { return n.Left == -1 }

package scoring

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"

	"altcred/internal/models"
)

// ForestFormat identifies the serialized random forest layout.
const ForestFormat = "altcred-forest/v1"

// LeafFeature marks a node as a leaf.
const LeafFeature = -1

// Node is one decision node. Samples with feature value <= Threshold go
// left. Value holds the normalized class distribution [P(0), P(1)].
type Node struct {
	Feature   int       `json:"feature"`
	Threshold float64   `json:"threshold"`
	Left      int       `json:"left"`
	Right     int       `json:"right"`
	Value     []float64 `json:"value"`
}

// Tree is a flat, preorder list of nodes rooted at index 0.
type Tree struct {
	Nodes []Node `json:"nodes"`
}

// Forest is the persisted classifier artifact.
type Forest struct {
	Format             string                 `json:"format"`
	FeatureNames       []string               `json:"feature_names"`
	Classes            []int                  `json:"classes"`
	Trees              []Tree                 `json:"trees"`
	FeatureImportances []float64              `json:"feature_importances,omitempty"`
	Params             map[string]interface{} `json:"params,omitempty"`
}

// Validate checks that the artifact can be evaluated safely.
func (f *Forest) Validate() error {
	if f.Format != ForestFormat {
		return fmt.Errorf("unsupported format %q", f.Format)
	}
	if !slices.Equal(f.FeatureNames, models.FeatureNames()) {
		return fmt.Errorf("feature order %v does not match %v", f.FeatureNames, models.FeatureNames())
	}
	if !slices.Equal(f.Classes, []int{0, 1}) {
		return fmt.Errorf("expected binary classes [0 1], got %v", f.Classes)
	}
	if len(f.Trees) == 0 {
		return fmt.Errorf("forest has no trees")
	}
	nFeatures := len(f.FeatureNames)
	for ti, tree := range f.Trees {
		if len(tree.Nodes) == 0 {
			return fmt.Errorf("tree %d has no nodes", ti)
		}
		for ni, n := range tree.Nodes {
			if n.Feature == LeafFeature {
				if len(n.Value) != 2 {
					return fmt.Errorf("tree %d leaf %d: expected 2 class values, got %d", ti, ni, len(n.Value))
				}
				continue
			}
			if n.Feature < 0 || n.Feature >= nFeatures {
				return fmt.Errorf("tree %d node %d: feature index %d out of range", ti, ni, n.Feature)
			}
			// Children always follow their parent, which rules out cycles.
			if n.Left <= ni || n.Left >= len(tree.Nodes) || n.Right <= ni || n.Right >= len(tree.Nodes) {
				return fmt.Errorf("tree %d node %d: invalid children %d/%d", ti, ni, n.Left, n.Right)
			}
		}
	}
	return nil
}

// ReadForest decodes and validates an artifact.
func ReadForest(r io.Reader) (*Forest, error) {
	var f Forest
	if err := json.NewDecoder(r).Decode(&f); err != nil {
		return nil, fmt.Errorf("decode forest: %w", err)
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return &f, nil
}

// WriteForest encodes an artifact.
func WriteForest(w io.Writer, f *Forest) error {
	enc := json.NewEncoder(w)
	return enc.Encode(f)
}

// ForestEstimator evaluates a validated random forest. The positive class
// probability is the mean of the leaf distributions across trees.
type ForestEstimator struct {
	forest *Forest
}

// NewForestEstimator validates f and wraps it.
func NewForestEstimator(f *Forest) (*ForestEstimator, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return &ForestEstimator{forest: f}, nil
}

func (e *ForestEstimator) Mode() string { return ModeModel }

func (e *ForestEstimator) Estimate(features models.FeatureVector) float64 {
	x := features.Values()
	var sum float64
	for i := range e.forest.Trees {
		sum += e.forest.Trees[i].predict(x)
	}
	return sum / float64(len(e.forest.Trees))
}

// Trees returns the number of trees in the forest.
func (e *ForestEstimator) Trees() int {
	return len(e.forest.Trees)
}

func (t *Tree) predict(x []float64) float64 {
	i := 0
	for {
		n := &t.Nodes[i]
		if n.Feature == LeafFeature {
			return n.Value[1]
		}
		if x[n.Feature] <= n.Threshold {
			i = n.Left
		} else {
			i = n.Right
		}
	}
}

package training

import (
	"context"
	"fmt"
	"math"
	"math/rand/v2"
	"slices"

	"golang.org/x/sync/errgroup"

	"altcred/internal/models"
	"altcred/internal/scoring"
)

// ForestConfig controls random forest training.
type ForestConfig struct {
	Trees          int
	MaxDepth       int
	MinSamplesLeaf int
	// MaxFeatures is the number of features tried per split. Zero means
	// floor(sqrt(n_features)).
	MaxFeatures int
	Seed        uint64
	Workers     int
}

func (c ForestConfig) withDefaults(nFeatures int) ForestConfig {
	if c.Trees <= 0 {
		c.Trees = 400
	}
	if c.MaxDepth <= 0 {
		c.MaxDepth = 10
	}
	if c.MinSamplesLeaf <= 0 {
		c.MinSamplesLeaf = 1
	}
	if c.MaxFeatures <= 0 || c.MaxFeatures > nFeatures {
		c.MaxFeatures = max(1, int(math.Sqrt(float64(nFeatures))))
	}
	if c.Workers <= 0 {
		c.Workers = 1
	}
	return c
}

// TrainForest fits a class-balanced, bootstrapped random forest of gini
// CART trees. Each tree has its own RNG derived from Seed and its index, so
// the result does not depend on Workers.
func TrainForest(ctx context.Context, rows []models.LabeledApplicant, cfg ForestConfig) (*scoring.Forest, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("no training rows")
	}

	x := make([][]float64, len(rows))
	y := make([]int, len(rows))
	var positives int
	for i, row := range rows {
		x[i] = row.Features.Values()
		if row.LoanDefault {
			y[i] = 1
			positives++
		}
	}
	if positives == 0 || positives == len(rows) {
		return nil, fmt.Errorf("training rows contain a single class")
	}

	nFeatures := len(x[0])
	cfg = cfg.withDefaults(nFeatures)

	// Balanced weights: n_samples / (n_classes * count(class)).
	n := float64(len(rows))
	classWeight := [2]float64{
		n / (2 * float64(len(rows)-positives)),
		n / (2 * float64(positives)),
	}

	trees := make([]scoring.Tree, cfg.Trees)
	importances := make([][]float64, cfg.Trees)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Workers)
	for t := 0; t < cfg.Trees; t++ {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			b := &treeBuilder{
				x:           x,
				y:           y,
				cfg:         cfg,
				rng:         rand.New(rand.NewPCG(cfg.Seed, uint64(t)+1)),
				importances: make([]float64, nFeatures),
			}
			weights := b.bootstrapWeights(classWeight)
			trees[t] = b.build(weights)
			importances[t] = normalize(b.importances)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	total := make([]float64, nFeatures)
	for _, imp := range importances {
		for i, v := range imp {
			total[i] += v
		}
	}

	return &scoring.Forest{
		Format:             scoring.ForestFormat,
		FeatureNames:       models.FeatureNames(),
		Classes:            []int{0, 1},
		Trees:              trees,
		FeatureImportances: normalize(total),
		Params: map[string]interface{}{
			"n_estimators":     cfg.Trees,
			"max_depth":        cfg.MaxDepth,
			"min_samples_leaf": cfg.MinSamplesLeaf,
			"max_features":     cfg.MaxFeatures,
			"class_weight":     "balanced",
			"criterion":        "gini",
			"bootstrap":        true,
			"random_state":     cfg.Seed,
		},
	}, nil
}

func normalize(v []float64) []float64 {
	out := make([]float64, len(v))
	var sum float64
	for _, x := range v {
		sum += x
	}
	if sum == 0 {
		return out
	}
	for i, x := range v {
		out[i] = x / sum
	}
	return out
}

type treeBuilder struct {
	x           [][]float64
	y           []int
	cfg         ForestConfig
	rng         *rand.Rand
	nodes       []scoring.Node
	importances []float64
}

// bootstrapWeights draws len(x) samples with replacement and scales the
// draw counts by the class weight.
func (b *treeBuilder) bootstrapWeights(classWeight [2]float64) []float64 {
	n := len(b.x)
	w := make([]float64, n)
	for i := 0; i < n; i++ {
		w[b.rng.IntN(n)]++
	}
	for i := range w {
		w[i] *= classWeight[b.y[i]]
	}
	return w
}

func (b *treeBuilder) build(weights []float64) scoring.Tree {
	idx := make([]int, 0, len(weights))
	for i, w := range weights {
		if w > 0 {
			idx = append(idx, i)
		}
	}
	b.nodes = b.nodes[:0]
	b.grow(idx, weights, 0)
	return scoring.Tree{Nodes: slices.Clone(b.nodes)}
}

func (b *treeBuilder) classTotals(idx []int, weights []float64) (w0, w1 float64) {
	for _, i := range idx {
		if b.y[i] == 1 {
			w1 += weights[i]
		} else {
			w0 += weights[i]
		}
	}
	return w0, w1
}

func gini(w0, w1 float64) float64 {
	total := w0 + w1
	if total == 0 {
		return 0
	}
	p0, p1 := w0/total, w1/total
	return 1 - p0*p0 - p1*p1
}

// grow appends the subtree for idx in preorder and returns its root index.
func (b *treeBuilder) grow(idx []int, weights []float64, depth int) int {
	w0, w1 := b.classTotals(idx, weights)
	nodeIndex := len(b.nodes)

	leaf := func() int {
		total := w0 + w1
		b.nodes = append(b.nodes, scoring.Node{
			Feature: scoring.LeafFeature,
			Value:   []float64{w0 / total, w1 / total},
		})
		return nodeIndex
	}

	if depth >= b.cfg.MaxDepth || w0 == 0 || w1 == 0 || len(idx) < 2*b.cfg.MinSamplesLeaf {
		return leaf()
	}

	split, ok := b.bestSplit(idx, weights, w0, w1)
	if !ok {
		return leaf()
	}

	b.importances[split.feature] += split.gain

	var left, right []int
	for _, i := range idx {
		if b.x[i][split.feature] <= split.threshold {
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}

	b.nodes = append(b.nodes, scoring.Node{Feature: split.feature, Threshold: split.threshold})
	l := b.grow(left, weights, depth+1)
	r := b.grow(right, weights, depth+1)
	b.nodes[nodeIndex].Left = l
	b.nodes[nodeIndex].Right = r
	return nodeIndex
}

type candidate struct {
	feature   int
	threshold float64
	gain      float64
}

// bestSplit evaluates a random subset of features. If none of them can be
// split, the remaining features are tried before giving up.
func (b *treeBuilder) bestSplit(idx []int, weights []float64, w0, w1 float64) (candidate, bool) {
	nFeatures := len(b.x[0])
	order := b.rng.Perm(nFeatures)
	parentImpurity := (w0 + w1) * gini(w0, w1)

	best := candidate{gain: 0}
	found := false
	sorted := make([]int, len(idx))

	for tried, f := range order {
		if tried >= b.cfg.MaxFeatures && found {
			break
		}

		copy(sorted, idx)
		slices.SortStableFunc(sorted, func(a, c int) int {
			switch va, vc := b.x[a][f], b.x[c][f]; {
			case va < vc:
				return -1
			case va > vc:
				return 1
			default:
				return 0
			}
		})

		var l0, l1 float64
		for k := 0; k < len(sorted)-1; k++ {
			i := sorted[k]
			if b.y[i] == 1 {
				l1 += weights[i]
			} else {
				l0 += weights[i]
			}

			v, next := b.x[i][f], b.x[sorted[k+1]][f]
			if v == next {
				continue
			}
			nLeft := k + 1
			if nLeft < b.cfg.MinSamplesLeaf || len(sorted)-nLeft < b.cfg.MinSamplesLeaf {
				continue
			}

			r0, r1 := w0-l0, w1-l1
			childImpurity := (l0+l1)*gini(l0, l1) + (r0+r1)*gini(r0, r1)
			gain := parentImpurity - childImpurity
			if gain > best.gain {
				best = candidate{feature: f, threshold: v + (next-v)/2, gain: gain}
				found = true
			}
		}
	}
	return best, found
}

package ml

import (
	"fmt"
	"math"
	"sort"
)

// TreeConfig bounds decision tree growth.
type TreeConfig struct {
	// MaxDepth limits the tree height; 0 means unlimited.
	MaxDepth int
	// MinSamplesSplit stops splitting nodes smaller than this.
	MinSamplesSplit int
}

// DefaultTreeConfig matches the demo settings.
func DefaultTreeConfig() TreeConfig {
	return TreeConfig{MaxDepth: 8, MinSamplesSplit: 2}
}

// Tree is a binary CART classifier splitting on single features.
type Tree struct {
	root *treeNode
	dim  int
}

type treeNode struct {
	// Leaf fields.
	label int
	leaf  bool
	// Split fields.
	feature   int
	threshold float64
	left      *treeNode
	right     *treeNode
}

// TrainTree grows a CART tree greedily by Gini impurity.
func TrainTree(samples []Sample, cfg TreeConfig) (*Tree, error) {
	if len(samples) == 0 {
		return nil, fmt.Errorf("no training samples")
	}
	dim := len(samples[0].X)
	for i, s := range samples {
		if len(s.X) != dim {
			return nil, fmt.Errorf("sample %d has dimension %d, want %d", i, len(s.X), dim)
		}
	}
	if cfg.MinSamplesSplit < 2 {
		cfg.MinSamplesSplit = 2
	}
	return &Tree{root: grow(samples, cfg, 0), dim: dim}, nil
}

func grow(samples []Sample, cfg TreeConfig, depth int) *treeNode {
	if pure(samples) ||
		len(samples) < cfg.MinSamplesSplit ||
		(cfg.MaxDepth > 0 && depth >= cfg.MaxDepth) {
		return &treeNode{leaf: true, label: majority(samples)}
	}

	feature, threshold, ok := bestSplit(samples)
	if !ok {
		return &treeNode{leaf: true, label: majority(samples)}
	}

	var left, right []Sample
	for _, s := range samples {
		if s.X[feature] <= threshold {
			left = append(left, s)
		} else {
			right = append(right, s)
		}
	}
	return &treeNode{
		feature:   feature,
		threshold: threshold,
		left:      grow(left, cfg, depth+1),
		right:     grow(right, cfg, depth+1),
	}
}

func pure(samples []Sample) bool {
	for _, s := range samples[1:] {
		if s.Label != samples[0].Label {
			return false
		}
	}
	return true
}

func majority(samples []Sample) int {
	votes := map[int]int{}
	best, bestV := samples[0].Label, 0
	for _, s := range samples {
		votes[s.Label]++
		if votes[s.Label] > bestV {
			best, bestV = s.Label, votes[s.Label]
		}
	}
	return best
}

func gini(counts map[int]int, total int) float64 {
	if total == 0 {
		return 0
	}
	g := 1.0
	for _, c := range counts {
		p := float64(c) / float64(total)
		g -= p * p
	}
	return g
}

// bestSplit scans midpoints between consecutive sorted feature values
// and keeps the split with the lowest weighted Gini impurity. Zero-gain
// splits are still candidates: on XOR-like data no single cut improves
// on the parent, yet the children become separable one level down.
func bestSplit(samples []Sample) (feature int, threshold float64, ok bool) {
	dim := len(samples[0].X)
	if gini(countLabels(samples), len(samples)) == 0 {
		return 0, 0, false
	}
	bestGini := math.Inf(1)
	found := false

	idx := make([]int, len(samples))
	for f := 0; f < dim; f++ {
		for i := range idx {
			idx[i] = i
		}
		sort.Slice(idx, func(a, b int) bool {
			return samples[idx[a]].X[f] < samples[idx[b]].X[f]
		})

		leftCounts := map[int]int{}
		rightCounts := countLabels(samples)
		for i := 0; i < len(idx)-1; i++ {
			lbl := samples[idx[i]].Label
			leftCounts[lbl]++
			rightCounts[lbl]--

			cur := samples[idx[i]].X[f]
			next := samples[idx[i+1]].X[f]
			if cur == next {
				continue
			}
			nl, nr := i+1, len(idx)-i-1
			w := (float64(nl)*gini(leftCounts, nl) + float64(nr)*gini(rightCounts, nr)) / float64(len(idx))
			if w < bestGini {
				bestGini = w
				feature = f
				threshold = (cur + next) / 2
				found = true
			}
		}
	}
	return feature, threshold, found
}

func countLabels(samples []Sample) map[int]int {
	m := map[int]int{}
	for _, s := range samples {
		m[s.Label]++
	}
	return m
}

// Predict classifies one vector.
func (t *Tree) Predict(x []float64) (int, error) {
	if len(x) != t.dim {
		return 0, fmt.Errorf("query has dimension %d, want %d", len(x), t.dim)
	}
	n := t.root
	for !n.leaf {
		if x[n.feature] <= n.threshold {
			n = n.left
		} else {
			n = n.right
		}
	}
	return n.label, nil
}

// Depth returns the height of the tree, counting the root as depth 1.
func (t *Tree) Depth() int {
	var walk func(n *treeNode) int
	walk = func(n *treeNode) int {
		if n.leaf {
			return 1
		}
		l, r := walk(n.left), walk(n.right)
		if r > l {
			l = r
		}
		return l + 1
	}
	return walk(t.root)
}

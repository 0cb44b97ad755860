package ml

import (
	"math"
	"sort"
)

// node is one CART regression tree node. Leaves carry the mean target of
// their training partition; internal nodes split on feature <= threshold.
type node struct {
	Feature   int     `json:"feature,omitempty"`
	Threshold float64 `json:"threshold,omitempty"`
	Left      *node   `json:"left,omitempty"`
	Right     *node   `json:"right,omitempty"`
	Value     float64 `json:"value"`
	Leaf      bool    `json:"leaf"`
}

// treeParams bounds tree growth.
type treeParams struct {
	maxDepth        int
	minSamplesSplit int
	minSamplesLeaf  int
}

// regressionTree is a CART tree fit by variance reduction.
type regressionTree struct {
	Root *node `json:"root"`
}

// buildTree grows a tree over the row indices. Splits are exhaustive over
// features and midpoints of consecutive distinct values.
func buildTree(x [][]float64, y []float64, indices []int, depth int, p treeParams, importances []float64) *node {
	mean := meanOf(y, indices)

	if depth >= p.maxDepth || len(indices) < p.minSamplesSplit || varianceOf(y, indices, mean) == 0 {
		return &node{Leaf: true, Value: mean}
	}

	feature, threshold, gain := bestSplit(x, y, indices, p)
	if feature < 0 {
		return &node{Leaf: true, Value: mean}
	}
	if importances != nil {
		importances[feature] += gain * float64(len(indices))
	}

	var left, right []int
	for _, i := range indices {
		if x[i][feature] <= threshold {
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}

	return &node{
		Feature:   feature,
		Threshold: threshold,
		Left:      buildTree(x, y, left, depth+1, p, importances),
		Right:     buildTree(x, y, right, depth+1, p, importances),
		Value:     mean,
	}
}

// bestSplit scans all features for the variance-minimizing threshold.
// Returns feature -1 when no split satisfies the leaf size constraint.
func bestSplit(x [][]float64, y []float64, indices []int, p treeParams) (feature int, threshold, gain float64) {
	parentMean := meanOf(y, indices)
	parentVar := varianceOf(y, indices, parentMean)

	feature = -1
	bestScore := parentVar
	n := float64(len(indices))

	numFeatures := len(x[indices[0]])
	sorted := make([]int, len(indices))

	for f := 0; f < numFeatures; f++ {
		copy(sorted, indices)
		sort.Slice(sorted, func(a, b int) bool { return x[sorted[a]][f] < x[sorted[b]][f] })

		for split := p.minSamplesLeaf; split <= len(sorted)-p.minSamplesLeaf; split++ {
			lo := x[sorted[split-1]][f]
			hi := x[sorted[split]][f]
			if lo == hi {
				continue
			}
			mid := (lo + hi) / 2

			leftVar := partitionVariance(y, sorted[:split])
			rightVar := partitionVariance(y, sorted[split:])
			score := (float64(split)*leftVar + float64(len(sorted)-split)*rightVar) / n

			if score < bestScore {
				bestScore = score
				feature = f
				threshold = mid
			}
		}
	}
	return feature, threshold, parentVar - bestScore
}

func meanOf(y []float64, indices []int) float64 {
	var sum float64
	for _, i := range indices {
		sum += y[i]
	}
	return sum / float64(len(indices))
}

func varianceOf(y []float64, indices []int, mean float64) float64 {
	var sq float64
	for _, i := range indices {
		d := y[i] - mean
		sq += d * d
	}
	return sq / float64(len(indices))
}

func partitionVariance(y []float64, indices []int) float64 {
	return varianceOf(y, indices, meanOf(y, indices))
}

// predict walks the tree for one feature row.
func (t *regressionTree) predict(row []float64) float64 {
	n := t.Root
	for n != nil && !n.Leaf {
		if n.Feature < len(row) && row[n.Feature] <= n.Threshold {
			n = n.Left
		} else {
			n = n.Right
		}
	}
	if n == nil {
		return math.NaN()
	}
	return n.Value
}

package ml

import (
	"math/rand"

	"gonum.org/v1/gonum/stat"
)

// forest is a bootstrap-aggregated ensemble of CART regression trees.
// Prediction dispersion across trees feeds the confidence estimate.
type forest struct {
	Trees       []*regressionTree `json:"trees"`
	Importances []float64         `json:"importances"`
}

// fitForest trains numTrees trees on bootstrap resamples of the rows.
// The rng drives resampling only; tree growth itself is deterministic.
func fitForest(x [][]float64, y []float64, numTrees int, p treeParams, rng *rand.Rand) *forest {
	n := len(x)
	importances := make([]float64, numFeatures)
	trees := make([]*regressionTree, 0, numTrees)

	indices := make([]int, n)
	for t := 0; t < numTrees; t++ {
		for i := range indices {
			indices[i] = rng.Intn(n)
		}
		root := buildTree(x, y, indices, 0, p, importances)
		trees = append(trees, &regressionTree{Root: root})
	}

	normalizeImportances(importances)
	return &forest{Trees: trees, Importances: importances}
}

func normalizeImportances(importances []float64) {
	var total float64
	for _, v := range importances {
		total += v
	}
	if total <= 0 {
		return
	}
	for i := range importances {
		importances[i] /= total
	}
}

// predictAll returns every tree's prediction for one row.
func (f *forest) predictAll(row []float64) []float64 {
	out := make([]float64, len(f.Trees))
	for i, t := range f.Trees {
		out[i] = t.predict(row)
	}
	return out
}

// predict returns the ensemble mean and the standard deviation across
// trees. The mean always uses the full ensemble; a subsample of trees can
// bound the cost of the spread estimate only, zero meaning all trees.
func (f *forest) predict(row []float64, subsample int) (mean, std float64) {
	preds := f.predictAll(row)
	mean = stat.Mean(preds, nil)

	spread := preds
	if subsample > 0 && subsample < len(spread) {
		spread = spread[:subsample]
	}
	if len(spread) > 1 {
		std = stat.StdDev(spread, nil)
	}
	return mean, std
}

// internal/analytics/forest.go
package analytics

import (
	"math"
	"math/rand"
	"sort"
)

// regressionForest is a small ensemble of bagged regression trees. Each
// tree is fit on a bootstrap sample of the training rows; predictions
// average the per-tree leaf means. The features are the four calendar
// columns, so no scaling is needed and splits are cheap to enumerate.
type regressionForest struct {
	trees []*treeNode
}

type treeNode struct {
	feature   int
	threshold float64
	left      *treeNode
	right     *treeNode
	value     float64
	leaf      bool
}

const (
	maxTreeDepth   = 6
	minSamplesLeaf = 2
)

// fitForest trains treeCount bagged trees. rng drives the bootstrap
// sampling so a fixed seed reproduces the ensemble exactly.
func fitForest(features [][]float64, targets []float64, treeCount int, rng *rand.Rand) *regressionForest {
	if treeCount < 1 {
		treeCount = 1
	}

	n := len(targets)
	forest := &regressionForest{trees: make([]*treeNode, 0, treeCount)}

	for t := 0; t < treeCount; t++ {
		sampleX := make([][]float64, n)
		sampleY := make([]float64, n)
		for i := 0; i < n; i++ {
			j := rng.Intn(n)
			sampleX[i] = features[j]
			sampleY[i] = targets[j]
		}
		forest.trees = append(forest.trees, growTree(sampleX, sampleY, 0))
	}

	return forest
}

func (f *regressionForest) predict(row []float64) float64 {
	sum := 0.0
	for _, tree := range f.trees {
		sum += tree.eval(row)
	}
	return sum / float64(len(f.trees))
}

func (n *treeNode) eval(row []float64) float64 {
	for !n.leaf {
		if row[n.feature] <= n.threshold {
			n = n.left
		} else {
			n = n.right
		}
	}
	return n.value
}

func growTree(features [][]float64, targets []float64, depth int) *treeNode {
	if depth >= maxTreeDepth || len(targets) < 2*minSamplesLeaf || allEqual(targets) {
		return &treeNode{leaf: true, value: mean(targets)}
	}

	feature, threshold, ok := bestSplit(features, targets)
	if !ok {
		return &treeNode{leaf: true, value: mean(targets)}
	}

	var leftX, rightX [][]float64
	var leftY, rightY []float64
	for i, row := range features {
		if row[feature] <= threshold {
			leftX = append(leftX, row)
			leftY = append(leftY, targets[i])
		} else {
			rightX = append(rightX, row)
			rightY = append(rightY, targets[i])
		}
	}

	if len(leftY) < minSamplesLeaf || len(rightY) < minSamplesLeaf {
		return &treeNode{leaf: true, value: mean(targets)}
	}

	return &treeNode{
		feature:   feature,
		threshold: threshold,
		left:      growTree(leftX, leftY, depth+1),
		right:     growTree(rightX, rightY, depth+1),
	}
}

// bestSplit scans every feature and every observed value as a candidate
// threshold, picking the split with the lowest weighted variance.
func bestSplit(features [][]float64, targets []float64) (int, float64, bool) {
	bestScore := math.Inf(1)
	bestFeature, bestThreshold := -1, 0.0

	featureCount := len(features[0])
	for f := 0; f < featureCount; f++ {
		seen := make(map[float64]struct{})
		candidates := make([]float64, 0, len(features))
		for _, row := range features {
			if _, ok := seen[row[f]]; ok {
				continue
			}
			seen[row[f]] = struct{}{}
			candidates = append(candidates, row[f])
		}
		// Stable candidate order keeps tie-breaking deterministic for a
		// fixed bootstrap seed.
		sort.Float64s(candidates)

		for _, threshold := range candidates {
			var leftY, rightY []float64
			for i, row := range features {
				if row[f] <= threshold {
					leftY = append(leftY, targets[i])
				} else {
					rightY = append(rightY, targets[i])
				}
			}
			if len(leftY) < minSamplesLeaf || len(rightY) < minSamplesLeaf {
				continue
			}

			score := variance(leftY)*float64(len(leftY)) + variance(rightY)*float64(len(rightY))
			if score < bestScore {
				bestScore = score
				bestFeature = f
				bestThreshold = threshold
			}
		}
	}

	if bestFeature < 0 {
		return 0, 0, false
	}
	return bestFeature, bestThreshold, true
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func variance(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	m := mean(values)
	sum := 0.0
	for _, v := range values {
		d := v - m
		sum += d * d
	}
	return sum / float64(len(values))
}

func allEqual(values []float64) bool {
	for _, v := range values[1:] {
		if v != values[0] {
			return false
		}
	}
	return true
}

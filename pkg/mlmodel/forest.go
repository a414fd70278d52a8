package mlmodel

import (
	"encoding/json"
	"fmt"
	"os"
)

// Tree is a single decision tree in flattened array form. Internal nodes test
// x[Feature[i]] <= Threshold[i] and descend to Left[i] or Right[i]; leaves are
// marked with Left[i] == -1 and carry class probabilities in Value[i].
type Tree struct {
	Feature   []int        `json:"feature"`
	Threshold []float64    `json:"threshold"`
	Left      []int        `json:"left"`
	Right     []int        `json:"right"`
	Value     [][2]float64 `json:"value"`
}

// Forest is a frozen random-forest classifier. The phishing probability is
// the mean of the per-tree leaf probabilities for class 1.
type Forest struct {
	trees []Tree
}

type forestFile struct {
	Trees []Tree `json:"trees"`
}

// LoadForest reads a forest artifact from the given path and validates that
// every tree's node arrays are consistent.
func LoadForest(path string) (*Forest, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read forest artifact: %w", err)
	}

	var f forestFile
	if err := json.Unmarshal(b, &f); err != nil {
		return nil, fmt.Errorf("could not decode forest artifact: %w", err)
	}
	if len(f.Trees) == 0 {
		return nil, fmt.Errorf("forest artifact has no trees")
	}
	for i, t := range f.Trees {
		n := len(t.Feature)
		if len(t.Threshold) != n || len(t.Left) != n || len(t.Right) != n || len(t.Value) != n {
			return nil, fmt.Errorf("forest artifact mismatch: tree %d has inconsistent node arrays", i)
		}
	}

	return &Forest{trees: f.Trees}, nil
}

// NewForest constructs a forest from in-memory trees. It is mainly useful in tests.
func NewForest(trees []Tree) *Forest {
	return &Forest{trees: trees}
}

// PredictProba returns the forest's probability for the phishing class given
// a dense feature vector.
func (f *Forest) PredictProba(x []float64) float64 {
	var sum float64
	for i := range f.trees {
		sum += f.trees[i].predict(x)
	}

	return sum / float64(len(f.trees))
}

// predict walks the tree to a leaf and returns its class-1 probability.
func (t *Tree) predict(x []float64) float64 {
	node := 0
	for t.Left[node] != -1 {
		feat := t.Feature[node]
		var val float64
		if feat >= 0 && feat < len(x) {
			val = x[feat]
		}
		if val <= t.Threshold[node] {
			node = t.Left[node]
		} else {
			node = t.Right[node]
		}
	}

	total := t.Value[node][0] + t.Value[node][1]
	if total == 0 {
		return 0
	}

	return t.Value[node][1] / total
}

package classifier

import (
	"fmt"

	"github.com/dmitryikh/leaves"
)

// ensemble is the part of *leaves.Ensemble the classifier needs
type ensemble interface {
	NFeatures() int
	NOutputGroups() int
	Predict(fvals []float64, nEstimators int, predictions []float64) error
}

// treeModel runs a gradient boosted tree ensemble and picks the winning class
type treeModel struct {
	ens ensemble
}

// LoadXGBoost reads an XGBoost model saved in its binary format.
// Raw margins are kept; the argmax is the same as after softmax.
func LoadXGBoost(path string) (*leaves.Ensemble, error) {
	return leaves.XGEnsembleFromFile(path, false)
}

func (m *treeModel) Predict(features []float64) (int, error) {
	if n := m.ens.NFeatures(); len(features) != n {
		return 0, fmt.Errorf("expected %d features, got %d", n, len(features))
	}

	groups := m.ens.NOutputGroups()
	margins := make([]float64, groups)
	if err := m.ens.Predict(features, 0, margins); err != nil {
		return 0, err
	}

	// Binary objective: one margin, positive means class 1
	if groups == 1 {
		if margins[0] > 0 {
			return 1, nil
		}
		return 0, nil
	}

	best := 0
	for i := 1; i < groups; i++ {
		if margins[i] > margins[best] {
			best = i
		}
	}
	return best, nil
}

package classify

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
)

// MLP is a two-layer feed-forward network for binary classification
// (linear → ReLU → linear → sigmoid). Weights are exported at training
// time together with the input dimension; dropout exists only during
// training so inference is fully deterministic.
type MLP struct {
	InDim  int         `json:"in_dim"`
	Hidden int         `json:"hidden"`
	W1     [][]float64 `json:"w1"` // hidden x in_dim
	B1     []float64   `json:"b1"` // hidden
	W2     []float64   `json:"w2"` // hidden
	B2     float64     `json:"b2"`
}

// LoadMLP reads network weights from a JSON artifact and checks the
// stored dimensions against the weight shapes.
func LoadMLP(path string) (*MLP, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var m MLP
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("classify: decode model weights: %w", err)
	}
	if m.InDim <= 0 || m.Hidden <= 0 {
		return nil, fmt.Errorf("classify: model dims in_dim=%d hidden=%d", m.InDim, m.Hidden)
	}
	if len(m.W1) != m.Hidden || len(m.B1) != m.Hidden || len(m.W2) != m.Hidden {
		return nil, fmt.Errorf("classify: weight shapes do not match hidden=%d", m.Hidden)
	}
	for i, row := range m.W1 {
		if len(row) != m.InDim {
			return nil, fmt.Errorf("classify: w1 row %d has %d cols, want %d", i, len(row), m.InDim)
		}
	}
	return &m, nil
}

// Forward computes the scam probability for one feature vector.
func (m *MLP) Forward(x []float64) float64 {
	logit := m.B2
	for h := 0; h < m.Hidden; h++ {
		act := m.B1[h]
		row := m.W1[h]
		for i, xi := range x {
			if xi != 0 {
				act += row[i] * xi
			}
		}
		if act > 0 { // ReLU
			logit += m.W2[h] * act
		}
	}
	return sigmoid(logit)
}

func sigmoid(x float64) float64 {
	return 1 / (1 + math.Exp(-x))
}

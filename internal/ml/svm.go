package ml

import (
	"fmt"
	"math/rand"
)

// SVM is a binary linear classifier with labels -1 and +1.
type SVM struct {
	W []float64 `json:"w"`
	B float64   `json:"b"`
}

// SVMConfig tunes the stochastic subgradient trainer.
type SVMConfig struct {
	// Lambda is the regularization strength.
	Lambda float64
	// Epochs over the training set.
	Epochs int
}

// DefaultSVMConfig works well for the small 2D demo datasets.
func DefaultSVMConfig() SVMConfig {
	return SVMConfig{Lambda: 0.01, Epochs: 200}
}

// TrainSVM fits a linear SVM by Pegasos-style stochastic subgradient
// descent on the hinge loss. Labels must be -1 or +1.
func TrainSVM(samples []Sample, cfg SVMConfig, rng *rand.Rand) (*SVM, error) {
	if len(samples) == 0 {
		return nil, fmt.Errorf("no training samples")
	}
	if cfg.Lambda <= 0 {
		return nil, fmt.Errorf("regularization must be positive, got %v", cfg.Lambda)
	}
	if cfg.Epochs < 1 {
		return nil, fmt.Errorf("epoch count must be positive, got %d", cfg.Epochs)
	}
	dim := len(samples[0].X)
	for i, s := range samples {
		if len(s.X) != dim {
			return nil, fmt.Errorf("sample %d has dimension %d, want %d", i, len(s.X), dim)
		}
		if s.Label != -1 && s.Label != 1 {
			return nil, fmt.Errorf("sample %d has label %d, want -1 or +1", i, s.Label)
		}
	}

	m := &SVM{W: make([]float64, dim)}
	t := 1
	order := rng.Perm(len(samples))
	for epoch := 0; epoch < cfg.Epochs; epoch++ {
		rng.Shuffle(len(order), func(i, j int) { order[i], order[j] = order[j], order[i] })
		for _, idx := range order {
			s := samples[idx]
			eta := 1 / (cfg.Lambda * float64(t))
			t++

			margin := float64(s.Label) * (dot(m.W, s.X) + m.B)
			for d := range m.W {
				m.W[d] *= 1 - eta*cfg.Lambda
			}
			if margin < 1 {
				for d := range m.W {
					m.W[d] += eta * float64(s.Label) * s.X[d]
				}
				m.B += eta * float64(s.Label)
			}
		}
	}
	return m, nil
}

// Decision returns the signed distance proxy w·x + b.
func (m *SVM) Decision(x []float64) float64 {
	return dot(m.W, x) + m.B
}

// Predict returns -1 or +1.
func (m *SVM) Predict(x []float64) int {
	if m.Decision(x) >= 0 {
		return 1
	}
	return -1
}

func dot(a, b []float64) float64 {
	var sum float64
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}

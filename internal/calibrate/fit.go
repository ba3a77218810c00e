package calibrate

import (
	"fmt"
	"math"

	"github.com/wahajaslm/tarco/internal/domain"
)

// Sample is one labeled training example for the calibrator: the feature
// vector of a past classification and whether the top candidate was correct.
type Sample struct {
	Features domain.FeatureVector `json:"features"`
	Correct  bool                 `json:"correct"`
}

// Fit trains a logistic-regression model by batch gradient descent on
// standardized features. Used by the offline training command, never on the
// serving path.
func Fit(samples []Sample, epochs int, learningRate float64) (Model, error) {
	if len(samples) < 2 {
		return Model{}, fmt.Errorf("fit calibrator: need at least 2 samples, got %d", len(samples))
	}

	n := len(samples)
	x := make([][]float64, n)
	y := make([]float64, n)
	for i, s := range samples {
		x[i] = s.Features.Values()
		if s.Correct {
			y[i] = 1
		}
	}

	means := make([]float64, domain.FeatureCount)
	stds := make([]float64, domain.FeatureCount)
	for j := 0; j < domain.FeatureCount; j++ {
		var sum float64
		for i := 0; i < n; i++ {
			sum += x[i][j]
		}
		means[j] = sum / float64(n)

		var variance float64
		for i := 0; i < n; i++ {
			d := x[i][j] - means[j]
			variance += d * d
		}
		stds[j] = math.Sqrt(variance / float64(n))
		if stds[j] == 0 {
			stds[j] = 1
		}
	}

	std := make([][]float64, n)
	for i := 0; i < n; i++ {
		std[i] = make([]float64, domain.FeatureCount)
		for j := 0; j < domain.FeatureCount; j++ {
			std[i][j] = (x[i][j] - means[j]) / stds[j]
		}
	}

	weights := make([]float64, domain.FeatureCount)
	var bias float64
	for epoch := 0; epoch < epochs; epoch++ {
		gradW := make([]float64, domain.FeatureCount)
		var gradB float64
		for i := 0; i < n; i++ {
			z := bias
			for j := 0; j < domain.FeatureCount; j++ {
				z += weights[j] * std[i][j]
			}
			err := sigmoid(z) - y[i]
			for j := 0; j < domain.FeatureCount; j++ {
				gradW[j] += err * std[i][j]
			}
			gradB += err
		}
		for j := 0; j < domain.FeatureCount; j++ {
			weights[j] -= learningRate * gradW[j] / float64(n)
		}
		bias -= learningRate * gradB / float64(n)
	}

	return Model{
		Means:   means,
		Stds:    stds,
		Weights: weights,
		Bias:    bias,
		Trained: true,
	}, nil
}

// Package calibrate implements logistic-regression confidence calibration
// over rank-score features.
package calibrate

import (
	"encoding/json"
	"fmt"
	"math"
	"os"

	"github.com/wahajaslm/tarco/internal/domain"
)

// Model is the serialized calibrator artifact: per-feature standardization
// parameters plus logistic-regression weights.
type Model struct {
	Means   []float64 `json:"means"`
	Stds    []float64 `json:"stds"`
	Weights []float64 `json:"weights"`
	Bias    float64   `json:"bias"`
	Trained bool      `json:"trained"`
}

// Calibrator maps a feature vector to a calibrated confidence in [0, 1] and
// applies the abstain decision rule.
type Calibrator struct {
	model               Model
	confidenceThreshold float64
	marginThreshold     float64
}

// New creates a calibrator with an untrained model. Score returns the neutral
// 0.5 until a trained model is loaded.
func New(confidenceThreshold, marginThreshold float64) *Calibrator {
	return &Calibrator{
		confidenceThreshold: confidenceThreshold,
		marginThreshold:     marginThreshold,
	}
}

// SetModel replaces the calibrator's model.
func (c *Calibrator) SetModel(m Model) error {
	if m.Trained {
		if len(m.Means) != domain.FeatureCount || len(m.Stds) != domain.FeatureCount || len(m.Weights) != domain.FeatureCount {
			return fmt.Errorf("calibrator model: expected %d features, got means=%d stds=%d weights=%d",
				domain.FeatureCount, len(m.Means), len(m.Stds), len(m.Weights))
		}
	}
	c.model = m
	return nil
}

// Trained reports whether a trained model is loaded.
func (c *Calibrator) Trained() bool {
	return c.model.Trained
}

// Score returns the calibrated confidence for a feature vector. An untrained
// model yields the neutral 0.5, which sits below the decision threshold and
// therefore abstains.
func (c *Calibrator) Score(fv domain.FeatureVector) float64 {
	if !c.model.Trained {
		return 0.5
	}
	z := c.model.Bias
	for i, v := range fv.Values() {
		std := c.model.Stds[i]
		if std == 0 {
			std = 1
		}
		z += c.model.Weights[i] * ((v - c.model.Means[i]) / std)
	}
	return sigmoid(z)
}

// Decide applies the abstain rule: classify only when both confidence and
// margin clear their thresholds.
func (c *Calibrator) Decide(confidence, margin float64) (abstain bool, reason domain.AbstainReason) {
	if confidence < c.confidenceThreshold || margin < c.marginThreshold {
		return true, domain.ReasonLowConfidence
	}
	return false, ""
}

// LoadFile reads a model artifact from disk and installs it.
func (c *Calibrator) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read calibrator artifact: %w", err)
	}
	return c.LoadBytes(data)
}

// LoadBytes installs a model artifact from raw JSON.
func (c *Calibrator) LoadBytes(data []byte) error {
	var m Model
	if err := json.Unmarshal(data, &m); err != nil {
		return fmt.Errorf("decode calibrator artifact: %w", err)
	}
	return c.SetModel(m)
}

// Save writes the current model artifact to disk.
func (c *Calibrator) Save(path string) error {
	data, err := json.MarshalIndent(c.model, "", "  ")
	if err != nil {
		return fmt.Errorf("encode calibrator artifact: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write calibrator artifact: %w", err)
	}
	return nil
}

func sigmoid(z float64) float64 {
	return 1.0 / (1.0 + math.Exp(-z))
}

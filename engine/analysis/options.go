package analysis

import (
	"fmt"

	"github.com/merchguard/merchguard/engine/domain"
)

// Options configures the analysis service.
type Options struct {
	// Model names the generative model used for analysis.
	Model string

	// Temperature controls sampling randomness. Low values keep the
	// structured output stable across runs.
	Temperature float32

	// ThresholdHigh is the scam probability at or above which the
	// statistical classifier's score is used on its own.
	ThresholdHigh float64

	// ThresholdLow is the scam probability at or below which the
	// statistical classifier's score is used on its own.
	ThresholdLow float64
}

// DefaultOptions returns the options used when none are supplied.
func DefaultOptions() Options {
	return Options{
		Model:         "gemini-2.0-flash",
		Temperature:   0.2,
		ThresholdHigh: 0.85,
		ThresholdLow:  0.20,
	}
}

// Validate checks that the option values are internally consistent.
func (o Options) Validate() error {
	if o.Model == "" {
		return domain.NewValidationError("model", o.Model, fmt.Errorf("model name is required"))
	}
	if o.ThresholdHigh < 0 || o.ThresholdHigh > 1 {
		return fmt.Errorf("%w: threshold_high %.2f must be within [0, 1]", domain.ErrBadThresholds, o.ThresholdHigh)
	}
	if o.ThresholdLow < 0 || o.ThresholdLow > 1 {
		return fmt.Errorf("%w: threshold_low %.2f must be within [0, 1]", domain.ErrBadThresholds, o.ThresholdLow)
	}
	if o.ThresholdLow >= o.ThresholdHigh {
		return fmt.Errorf("%w: threshold_low %.2f must be less than threshold_high %.2f", domain.ErrBadThresholds, o.ThresholdLow, o.ThresholdHigh)
	}
	return nil
}

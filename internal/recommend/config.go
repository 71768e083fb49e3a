package recommend

import (
	"fmt"
	"math"
)

// Default engine settings. Dimensions matches the all-minilm:l6-v2 model;
// the 0.7/0.3 hybrid split follows the original deployment.
const (
	DefaultDimensions    = 384
	DefaultWindowSize    = 5
	DefaultWeightCurrent = 0.7
	DefaultWeightHistory = 0.3
	DefaultLimit         = 10

	// weightTolerance is the float tolerance for the weights-sum-to-one check.
	weightTolerance = 1e-6
)

// Config holds the engine's tunable settings. Invariants are checked once
// at engine construction, never per request.
type Config struct {
	// Dimensions is the embedding dimension shared by all stored vectors.
	Dimensions int `json:"dimensions"`

	// WindowSize is how many recent reading events feed the interest vector.
	WindowSize int `json:"window_size"`

	// WeightCurrent and WeightHistory blend the current paper's embedding
	// with the history aggregate in the hybrid strategy. They must sum to 1.
	WeightCurrent float64 `json:"weight_current"`
	WeightHistory float64 `json:"weight_history"`

	// Limit is the result count used when a caller passes no explicit limit.
	Limit int `json:"limit"`
}

// DefaultConfig returns the default engine configuration.
func DefaultConfig() Config {
	return Config{
		Dimensions:    DefaultDimensions,
		WindowSize:    DefaultWindowSize,
		WeightCurrent: DefaultWeightCurrent,
		WeightHistory: DefaultWeightHistory,
		Limit:         DefaultLimit,
	}
}

// Validate checks the configuration invariants.
func (c Config) Validate() error {
	if c.Dimensions <= 0 {
		return fmt.Errorf("%w: dimensions must be positive, got %d", ErrInvalidConfig, c.Dimensions)
	}
	if c.WindowSize <= 0 {
		return fmt.Errorf("%w: window size must be positive, got %d", ErrInvalidConfig, c.WindowSize)
	}
	if c.Limit <= 0 {
		return fmt.Errorf("%w: limit must be positive, got %d", ErrInvalidConfig, c.Limit)
	}
	if c.WeightCurrent < 0 || c.WeightCurrent > 1 || c.WeightHistory < 0 || c.WeightHistory > 1 {
		return fmt.Errorf("%w: weights must be in [0,1], got current=%v history=%v",
			ErrInvalidConfig, c.WeightCurrent, c.WeightHistory)
	}
	if math.Abs(c.WeightCurrent+c.WeightHistory-1.0) > weightTolerance {
		return fmt.Errorf("%w: weights must sum to 1.0, got current=%v history=%v",
			ErrInvalidConfig, c.WeightCurrent, c.WeightHistory)
	}
	return nil
}

package mlp

import (
	"encoding/json"
	"fmt"
)

// LearningRule selects the parameter-update algorithm used during training.
type LearningRule uint8

const (
	// SGD is plain stochastic gradient descent. This is the default.
	SGD LearningRule = iota
	// Momentum is SGD with classical momentum.
	Momentum
	// Nesterov is SGD with Nesterov accelerated momentum.
	Nesterov
	// AdaDelta adapts per-parameter rates from accumulated gradients and
	// updates, without an explicit global learning rate schedule.
	AdaDelta
	// RMSProp divides the rate by a running average of gradient magnitude.
	RMSProp
	// Adam combines momentum and RMSProp-style adaptation with bias
	// correction.
	Adam

	lastLearningRule = Adam
)

var ruleNames = [...]string{"sgd", "momentum", "nesterov", "adadelta", "rmsprop", "adam"}

// String returns the lowercase name of the rule.
func (r LearningRule) String() string {
	if int(r) < len(ruleNames) {
		return ruleNames[r]
	}
	return fmt.Sprintf("LearningRule(%d)", uint8(r))
}

// ParseLearningRule converts a rule name to a LearningRule.
func ParseLearningRule(s string) (LearningRule, error) {
	for i, name := range ruleNames {
		if name == s {
			return LearningRule(i), nil
		}
	}
	return SGD, fmt.Errorf("%w: %q", ErrUnknownLearningRule, s)
}

// MarshalJSON encodes the rule as its name.
func (r LearningRule) MarshalJSON() ([]byte, error) {
	if r > lastLearningRule {
		return nil, fmt.Errorf("%w: %d", ErrUnknownLearningRule, uint8(r))
	}
	return json.Marshal(r.String())
}

// UnmarshalJSON decodes a rule name.
func (r *LearningRule) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseLearningRule(s)
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// GridShape gives the spatial layout of flat input rows for convolution
// networks. Each row of X is expected to hold Channels*Height*Width values
// in channel-major (CHW) order.
type GridShape struct {
	Channels int `json:"channels"`
	Height   int `json:"height"`
	Width    int `json:"width"`
}

// Volume returns the number of values per sample.
func (g GridShape) Volume() int {
	return g.Channels * g.Height * g.Width
}

// DataSet is an explicit (inputs, targets) pair, used for Config.ValidSet.
type DataSet struct {
	X [][]float64
	Y [][]float64
}

// Config holds the training hyperparameters shared by Regressor and
// Classifier. The zero value is usable: unset numeric fields take the
// documented defaults when the estimator is constructed.
type Config struct {
	// LearningRule selects the update algorithm. Default SGD.
	LearningRule LearningRule `json:"learning_rule"`

	// LearningRate is the global step size. Default 0.01. Ignored by
	// AdaDelta.
	LearningRate float64 `json:"learning_rate,omitempty"`

	// LearningMomentum applies to the Momentum and Nesterov rules.
	// Default 0.9.
	LearningMomentum float64 `json:"learning_momentum,omitempty"`

	// BatchSize is the number of samples per gradient step. Default 1.
	BatchSize int `json:"batch_size,omitempty"`

	// Iterations caps the number of training epochs. Zero means train
	// until the stability criterion fires.
	Iterations int `json:"n_iter,omitempty"`

	// Stable is the number of consecutive epochs without sufficient
	// improvement after which training stops. Default 50.
	Stable int `json:"n_stable,omitempty"`

	// StableThreshold is the relative improvement of the monitored
	// objective that counts as progress. Default 0.001.
	StableThreshold float64 `json:"f_stable,omitempty"`

	// Dropout is the default drop probability applied after every hidden
	// layer during training. Individual layers override it with their own
	// Dropout field. Zero disables dropout.
	Dropout float64 `json:"dropout,omitempty"`

	// ValidSize reserves this fraction of the training data as a
	// validation set for early stopping. Mutually exclusive with ValidSet.
	ValidSize float64 `json:"valid_size,omitempty"`

	// ValidSet supplies an explicit validation set. Mutually exclusive
	// with ValidSize.
	ValidSet *DataSet `json:"-"`

	// InputGrid describes the spatial layout of input rows. Required when
	// the first layer is a Convolution.
	InputGrid *GridShape `json:"input_grid,omitempty"`

	// Seed fixes the random source used for weight initialization,
	// shuffling, validation splits and dropout masks. Zero seeds from the
	// clock.
	Seed int64 `json:"random_state,omitempty"`

	// Verbose enables per-epoch progress logging on the "sknn" channel.
	Verbose bool `json:"-"`
}

// WithDefaults returns a copy with unset fields filled in.
func (c Config) WithDefaults() Config {
	if c.LearningRate == 0 {
		c.LearningRate = 0.01
	}
	if c.LearningMomentum == 0 {
		c.LearningMomentum = 0.9
	}
	if c.BatchSize == 0 {
		c.BatchSize = 1
	}
	if c.Stable == 0 {
		c.Stable = 50
	}
	if c.StableThreshold == 0 {
		c.StableThreshold = 0.001
	}
	return c
}

// Validate checks the configuration for contradictions. Call on the
// defaulted copy.
func (c Config) Validate() error {
	if c.LearningRule > lastLearningRule {
		return fmt.Errorf("%w: %d", ErrUnknownLearningRule, uint8(c.LearningRule))
	}
	if c.ValidSet != nil && c.ValidSize > 0 {
		return ErrBothValidSetAndSize
	}
	if c.ValidSize < 0 || c.ValidSize >= 1 {
		return fmt.Errorf("sknn: ValidSize must be in [0, 1), got %v", c.ValidSize)
	}
	if c.Dropout < 0 || c.Dropout >= 1 {
		return fmt.Errorf("sknn: Dropout must be in [0, 1), got %v", c.Dropout)
	}
	if c.BatchSize < 1 {
		return fmt.Errorf("sknn: BatchSize must be positive, got %d", c.BatchSize)
	}
	if c.Iterations < 0 {
		return fmt.Errorf("sknn: Iterations must not be negative, got %d", c.Iterations)
	}
	if c.ValidSet != nil && len(c.ValidSet.X) != len(c.ValidSet.Y) {
		return fmt.Errorf("%w: validation set has %d inputs and %d targets",
			ErrSampleMismatch, len(c.ValidSet.X), len(c.ValidSet.Y))
	}
	return nil
}

// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package sknn

// Regressor is a neural-network estimator for real-valued targets. It
// trains with a mean-squared-error objective and predicts a row of float64
// values per sample.
type Regressor struct {
	estimator
}

// NewRegressor creates a regressor from a layer stack and configuration.
// The output layer's Units may be left zero; it is resolved from the
// training targets.
func NewRegressor(layers []Layer, cfg Config) (*Regressor, error) {
	e, err := newEstimator(layers, cfg)
	if err != nil {
		return nil, err
	}
	return &Regressor{estimator: *e}, nil
}

// Fit trains the network on inputs x and targets y. Each row of y is one
// sample's target vector; use Column to adapt a single-valued target.
// Later calls continue training the same network on the new data, keeping
// the learned parameters. Target width must match across calls.
func (r *Regressor) Fit(x, y [][]float64) error {
	return r.fit(x, y)
}

// PartialFit trains on a further batch of data, initializing the network
// on first use. It is Fit under the name incremental-learning callers
// expect.
func (r *Regressor) PartialFit(x, y [][]float64) error {
	return r.fit(x, y)
}

// Predict returns one output row per input row.
func (r *Regressor) Predict(x [][]float64) ([][]float64, error) {
	out, err := r.predictRaw(x)
	if err != nil {
		return nil, err
	}
	return out.Rows64(), nil
}

// Column adapts a single-valued target vector to the [][]float64 shape Fit
// expects: one single-element row per sample.
func Column(y []float64) [][]float64 {
	out := make([][]float64, len(y))
	for i, v := range y {
		out[i] = []float64{v}
	}
	return out
}

// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package sknn

import (
	"fmt"

	"github.com/born-ml/sknn/internal/mlp"
)

// LayerParams holds one layer's parameter tensors as flat float32 slices,
// copied out of the live network.
type LayerParams = mlp.LayerParams

// Snapshot is a self-contained copy of a fitted estimator: the layer
// stack, the effective configuration, the label set for classifiers, and
// every parameter value. Restoring a snapshot rebuilds an independent
// network; the snapshot does not alias the live parameters.
type Snapshot struct {
	Kind    string        `json:"kind"`
	Inputs  int           `json:"inputs"`
	Layers  []Layer       `json:"layers"`
	Config  Config        `json:"config"`
	Classes []string      `json:"classes,omitempty"`
	Params  []LayerParams `json:"-"`
}

const (
	kindRegressor  = "regressor"
	kindClassifier = "classifier"
)

func (e *estimator) snapshot(kind string, classes []string) (*Snapshot, error) {
	if !e.Initialized() {
		return nil, fmt.Errorf("%w: nothing to snapshot", ErrNotInitialized)
	}
	return &Snapshot{
		Kind:    kind,
		Inputs:  e.net.Spec().Inputs,
		Layers:  e.Layers(),
		Config:  e.cfg,
		Classes: classes,
		Params:  e.net.ParamsByLayer(),
	}, nil
}

// restore rebuilds an estimator from a snapshot and loads its parameters.
func restore(s *Snapshot) (*estimator, error) {
	e, err := newEstimator(s.Layers, s.Config)
	if err != nil {
		return nil, err
	}
	out := s.Layers[len(s.Layers)-1]
	if err := e.initialize(s.Inputs, out.Units); err != nil {
		return nil, err
	}
	if err := e.net.SetParamsByLayer(s.Params); err != nil {
		return nil, err
	}
	return e, nil
}

// Snapshot captures the regressor's layers, configuration and parameters.
func (r *Regressor) Snapshot() (*Snapshot, error) {
	return r.snapshot(kindRegressor, nil)
}

// Snapshot captures the classifier's layers, configuration, label set and
// parameters.
func (c *Classifier) Snapshot() (*Snapshot, error) {
	return c.snapshot(kindClassifier, c.Classes())
}

// RestoreRegressor rebuilds a fitted regressor from a snapshot.
func RestoreRegressor(s *Snapshot) (*Regressor, error) {
	if s.Kind != kindRegressor {
		return nil, fmt.Errorf("sknn: snapshot holds a %s, not a regressor", s.Kind)
	}
	e, err := restore(s)
	if err != nil {
		return nil, err
	}
	return &Regressor{estimator: *e}, nil
}

// RestoreClassifier rebuilds a fitted classifier from a snapshot.
func RestoreClassifier(s *Snapshot) (*Classifier, error) {
	if s.Kind != kindClassifier {
		return nil, fmt.Errorf("sknn: snapshot holds a %s, not a classifier", s.Kind)
	}
	if len(s.Classes) == 0 {
		return nil, fmt.Errorf("sknn: classifier snapshot has no classes")
	}
	e, err := restore(s)
	if err != nil {
		return nil, err
	}
	return &Classifier{estimator: *e, bin: NewLabelBinarizer(s.Classes)}, nil
}

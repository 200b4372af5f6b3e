// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package sknn

import (
	"fmt"

	"github.com/born-ml/born/autodiff"
	"github.com/born-ml/born/backend/cpu"

	"github.com/born-ml/sknn/internal/mlp"
)

// Backend is the execution backend the estimators run on: Born's autodiff
// decorator over the CPU backend. The engine underneath is generic, so
// other Born backends slot in at that level.
type Backend = *autodiff.Backend[*cpu.Backend]

// estimator carries the state shared by Regressor and Classifier: the
// declared layers, the defaulted configuration, and, once fit, the built
// network and its trainer.
type estimator struct {
	layers  []Layer
	cfg     Config
	backend Backend
	net     *mlp.Network[*cpu.Backend]
	trainer *mlp.Trainer[*cpu.Backend]
}

// newEstimator validates layers and configuration eagerly so mistakes
// surface at construction, not at fit time.
func newEstimator(layers []Layer, cfg Config) (*estimator, error) {
	if len(layers) == 0 {
		return nil, ErrNoLayers
	}
	cfg = cfg.WithDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	ls := append([]Layer(nil), layers...)
	for i := range ls {
		last := i == len(ls)-1
		ls[i].AutoName(i, last)
		if err := ls[i].Validate(i, last); err != nil {
			return nil, err
		}
	}
	return &estimator{layers: ls, cfg: cfg}, nil
}

// Layers returns the estimator's layer stack with resolved names (and,
// after fitting, the resolved output width).
func (e *estimator) Layers() []Layer {
	return append([]Layer(nil), e.layers...)
}

// Initialized reports whether the network has been built.
func (e *estimator) Initialized() bool {
	return e.net != nil
}

// initialize resolves the output width, builds the network and the
// trainer. inputs is the flat width of the training rows.
func (e *estimator) initialize(inputs, outputs int) error {
	if e.net != nil {
		return ErrAlreadyInitialized
	}
	out := &e.layers[len(e.layers)-1]
	if out.Units == 0 {
		out.Units = outputs
	}
	if out.Units != outputs {
		return fmt.Errorf("sknn: output layer %q has %d units but targets have %d columns",
			out.Name, out.Units, outputs)
	}
	if g := e.cfg.InputGrid; g != nil && g.Volume() != inputs {
		return fmt.Errorf("sknn: InputGrid holds %d values per sample but rows have %d",
			g.Volume(), inputs)
	}

	e.backend = autodiff.New(cpu.New())
	net, err := mlp.NewNetwork(mlp.NetSpec{
		Layers:  e.layers,
		Inputs:  inputs,
		Grid:    e.cfg.InputGrid,
		Dropout: e.cfg.Dropout,
	}, e.cfg.Seed, e.backend)
	if err != nil {
		return err
	}
	trainer, err := mlp.NewTrainer(net, e.cfg)
	if err != nil {
		return err
	}
	e.net, e.trainer = net, trainer
	return nil
}

// fit converts the data, initializes on first use, carves off the
// validation set and trains. The sample-count check runs before anything
// touches the backend.
func (e *estimator) fit(x, y [][]float64) error {
	if len(x) != len(y) {
		return fmt.Errorf("%w: %d inputs, %d targets", ErrSampleMismatch, len(x), len(y))
	}
	if len(x) == 0 {
		return fmt.Errorf("sknn: no training samples")
	}
	xm, err := mlp.MatrixFromRows(x)
	if err != nil {
		return fmt.Errorf("sknn: inputs: %w", err)
	}
	ym, err := mlp.MatrixFromRows(y)
	if err != nil {
		return fmt.Errorf("sknn: targets: %w", err)
	}

	if !e.Initialized() {
		if err := e.initialize(xm.Cols, ym.Cols); err != nil {
			return err
		}
	} else if want := e.layers[len(e.layers)-1].Units; ym.Cols != want {
		return fmt.Errorf("sknn: targets have %d columns, network was built for %d", ym.Cols, want)
	}

	var validX, validY *mlp.Matrix
	switch {
	case e.cfg.ValidSet != nil:
		validX, err = mlp.MatrixFromRows(e.cfg.ValidSet.X)
		if err != nil {
			return fmt.Errorf("sknn: validation inputs: %w", err)
		}
		validY, err = mlp.MatrixFromRows(e.cfg.ValidSet.Y)
		if err != nil {
			return fmt.Errorf("sknn: validation targets: %w", err)
		}
	case e.cfg.ValidSize > 0:
		xm, ym, validX, validY = mlp.SplitValid(xm, ym, e.cfg.ValidSize, e.net.Rand())
	}

	_, err = e.trainer.Train(xm, ym, validX, validY)
	return err
}

// predictRaw runs a prediction pass and returns the raw output matrix.
func (e *estimator) predictRaw(x [][]float64) (*mlp.Matrix, error) {
	if !e.Initialized() {
		return nil, fmt.Errorf("%w: cannot predict", ErrNotInitialized)
	}
	xm, err := mlp.MatrixFromRows(x)
	if err != nil {
		return nil, fmt.Errorf("sknn: inputs: %w", err)
	}
	return e.net.Predict(xm)
}

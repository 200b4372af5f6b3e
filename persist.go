// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package sknn

import (
	"encoding/json"
	"fmt"

	"github.com/born-ml/born/autodiff"
	"github.com/born-ml/born/backend/cpu"
	"github.com/born-ml/born/nn"
	"github.com/born-ml/born/tensor"
)

// metadataKey is the header metadata entry that holds the estimator
// description (layers, configuration, classes) as JSON.
const metadataKey = "sknn"

// save writes the fitted network to a .born file. The parameter tensors go
// into the tensor section; everything else needed to rebuild the estimator
// travels as JSON in the header metadata.
func (e *estimator) save(path, modelType string, s *Snapshot) error {
	desc, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("sknn: encoding estimator description: %w", err)
	}
	return nn.Save[Backend](e.net, path, modelType, map[string]string{metadataKey: string(desc)})
}

// Save writes the fitted regressor to a .born file.
func (r *Regressor) Save(path string) error {
	s, err := r.Snapshot()
	if err != nil {
		return err
	}
	return r.save(path, "Regressor", s)
}

// Save writes the fitted classifier to a .born file.
func (c *Classifier) Save(path string) error {
	s, err := c.Snapshot()
	if err != nil {
		return err
	}
	return c.save(path, "Classifier", s)
}

// stateCapture is a placeholder module handed to nn.Load: it records the
// state dictionary read from the file so the network can be rebuilt from
// the header metadata first and loaded after.
type stateCapture struct {
	dict map[string]*tensor.RawTensor
}

func (s *stateCapture) Forward(input *tensor.Tensor[float32, Backend]) *tensor.Tensor[float32, Backend] {
	return input
}

func (s *stateCapture) Parameters() []*nn.Parameter[Backend] { return nil }

func (s *stateCapture) StateDict() map[string]*tensor.RawTensor { return s.dict }

func (s *stateCapture) LoadStateDict(stateDict map[string]*tensor.RawTensor) error {
	s.dict = stateDict
	return nil
}

// load reads a .born file and rebuilds the estimator it describes.
func load(path, wantKind string) (*estimator, *Snapshot, error) {
	capture := &stateCapture{}
	header, err := nn.Load(path, autodiff.New(cpu.New()), capture)
	if err != nil {
		return nil, nil, fmt.Errorf("sknn: reading %s: %w", path, err)
	}
	desc, ok := header.Metadata[metadataKey]
	if !ok {
		return nil, nil, fmt.Errorf("sknn: %s has no estimator description", path)
	}
	var s Snapshot
	if err := json.Unmarshal([]byte(desc), &s); err != nil {
		return nil, nil, fmt.Errorf("sknn: decoding estimator description: %w", err)
	}
	if s.Kind != wantKind {
		return nil, nil, fmt.Errorf("sknn: %s holds a %s, not a %s", path, s.Kind, wantKind)
	}
	e, err := newEstimator(s.Layers, s.Config)
	if err != nil {
		return nil, nil, err
	}
	out := s.Layers[len(s.Layers)-1]
	if err := e.initialize(s.Inputs, out.Units); err != nil {
		return nil, nil, err
	}
	if err := e.net.LoadStateDict(capture.dict); err != nil {
		return nil, nil, fmt.Errorf("sknn: loading parameters: %w", err)
	}
	return e, &s, nil
}

// LoadRegressor reads a fitted regressor from a .born file.
func LoadRegressor(path string) (*Regressor, error) {
	e, _, err := load(path, kindRegressor)
	if err != nil {
		return nil, err
	}
	return &Regressor{estimator: *e}, nil
}

// LoadClassifier reads a fitted classifier from a .born file.
func LoadClassifier(path string) (*Classifier, error) {
	e, s, err := load(path, kindClassifier)
	if err != nil {
		return nil, err
	}
	if len(s.Classes) == 0 {
		return nil, fmt.Errorf("sknn: %s has no class labels", path)
	}
	return &Classifier{estimator: *e, bin: NewLabelBinarizer(s.Classes)}, nil
}

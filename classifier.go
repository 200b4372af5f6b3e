// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package sknn

import "fmt"

// Classifier is a neural-network estimator for categorical targets.
// Labels are arbitrary strings; they are one-hot encoded internally and
// the network is trained against the encoding with a mean-squared-error
// objective. Predict returns the highest-scoring label per sample.
type Classifier struct {
	estimator
	bin *LabelBinarizer
}

// NewClassifier creates a classifier from a layer stack and configuration.
// The output layer is typically Softmax with Units left zero, to be
// resolved from the number of distinct labels seen by Fit.
func NewClassifier(layers []Layer, cfg Config) (*Classifier, error) {
	e, err := newEstimator(layers, cfg)
	if err != nil {
		return nil, err
	}
	return &Classifier{estimator: *e}, nil
}

// Fit trains the network on inputs x and labels y. The first call fixes
// the output width from the distinct labels seen; later calls refit the
// label set and continue training the same network, so the number of
// classes must not change.
func (c *Classifier) Fit(x [][]float64, y []string) error {
	bin := FitLabels(y)
	encoded, err := bin.Transform(y)
	if err != nil {
		return err
	}
	if err := c.fit(x, encoded); err != nil {
		return err
	}
	c.bin = bin
	return nil
}

// PartialFit trains on a further batch of data. On first use the full
// label set must be supplied via classes, since a single batch may not
// contain every label.
func (c *Classifier) PartialFit(x [][]float64, y []string, classes []string) error {
	if c.bin == nil {
		if len(classes) == 0 {
			return fmt.Errorf("sknn: classes required on first PartialFit call")
		}
		c.bin = NewLabelBinarizer(classes)
	}
	encoded, err := c.bin.Transform(y)
	if err != nil {
		return err
	}
	return c.fit(x, encoded)
}

// Predict returns the highest-scoring label for each input row.
func (c *Classifier) Predict(x [][]float64) ([]string, error) {
	out, err := c.predictRaw(x)
	if err != nil {
		return nil, err
	}
	return c.bin.InverseTransform(out.Rows64())
}

// PredictProba returns per-class scores for each input row, normalized to
// sum to one. Negative raw outputs are clipped to zero before
// normalization; a row with no positive mass falls back to a uniform
// distribution.
func (c *Classifier) PredictProba(x [][]float64) ([][]float64, error) {
	out, err := c.predictRaw(x)
	if err != nil {
		return nil, err
	}
	rows := out.Rows64()
	for _, row := range rows {
		total := 0.0
		for j, v := range row {
			if v < 0 {
				row[j] = 0
				continue
			}
			total += v
		}
		if total == 0 {
			uniform := 1.0 / float64(len(row))
			for j := range row {
				row[j] = uniform
			}
			continue
		}
		for j := range row {
			row[j] /= total
		}
	}
	return rows, nil
}

// Classes returns the sorted label set the classifier was fit on, or nil
// before fitting.
func (c *Classifier) Classes() []string {
	if c.bin == nil {
		return nil
	}
	return c.bin.Classes()
}

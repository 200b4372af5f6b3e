// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package sknn

import "github.com/born-ml/sknn/internal/mlp"

// Sentinel errors returned by estimator construction and use. All are
// wrapped with context by the operation that detects them; test with
// errors.Is.
var (
	// ErrNotInitialized is returned when Predict or Snapshot is called on
	// an estimator that has never been fit.
	ErrNotInitialized = mlp.ErrNotInitialized

	// ErrAlreadyInitialized is returned when network construction is
	// attempted on an estimator whose network is already built.
	ErrAlreadyInitialized = mlp.ErrAlreadyInitialized

	// ErrUnknownLayerKind is returned for a layer whose Kind is not one of
	// the supported hidden or output kinds.
	ErrUnknownLayerKind = mlp.ErrUnknownLayerKind

	// ErrUnknownLearningRule is returned for an out-of-range LearningRule.
	ErrUnknownLearningRule = mlp.ErrUnknownLearningRule

	// ErrNoLayers is returned when an estimator is constructed with an
	// empty layer list.
	ErrNoLayers = mlp.ErrNoLayers

	// ErrBadOutputLayer is returned when the last layer is not an output
	// kind, or an output kind appears before the last position.
	ErrBadOutputLayer = mlp.ErrBadOutputLayer

	// ErrSampleMismatch is returned when inputs and targets disagree on
	// the number of samples.
	ErrSampleMismatch = mlp.ErrSampleMismatch

	// ErrBothValidSetAndSize is returned when both an explicit validation
	// set and a validation fraction are configured.
	ErrBothValidSetAndSize = mlp.ErrBothValidSetAndSize

	// ErrMissingInputGrid is returned when the network starts with a
	// Convolution layer but Config.InputGrid is unset.
	ErrMissingInputGrid = mlp.ErrMissingInputGrid
)

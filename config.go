// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package sknn

import "github.com/born-ml/sknn/internal/mlp"

// LearningRule selects the parameter-update algorithm used during
// training.
type LearningRule = mlp.LearningRule

// Learning rules.
const (
	SGD      = mlp.SGD
	Momentum = mlp.Momentum
	Nesterov = mlp.Nesterov
	AdaDelta = mlp.AdaDelta
	RMSProp  = mlp.RMSProp
	Adam     = mlp.Adam
)

// ParseLearningRule converts a rule name ("sgd", "rmsprop", ...) into a
// LearningRule.
func ParseLearningRule(s string) (LearningRule, error) {
	return mlp.ParseLearningRule(s)
}

// Config holds the training hyperparameters shared by Regressor and
// Classifier. The zero value is usable: unset numeric fields take the
// documented defaults when the estimator is constructed.
type Config = mlp.Config

// GridShape gives the spatial layout of flat input rows for convolution
// networks.
type GridShape = mlp.GridShape

// DataSet is an explicit (inputs, targets) pair, used for Config.ValidSet.
type DataSet = mlp.DataSet

// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package sknn

import "github.com/born-ml/sknn/internal/mlp"

// Kind identifies a layer's activation type.
//
// Hidden layers use Rectifier, Sigmoid, Tanh, Maxout or Convolution.
// The output layer (always the last) uses Linear, Softmax or Gaussian.
type Kind = mlp.Kind

// Layer kinds.
const (
	Rectifier   = mlp.Rectifier
	Sigmoid     = mlp.Sigmoid
	Tanh        = mlp.Tanh
	Maxout      = mlp.Maxout
	Convolution = mlp.Convolution
	Linear      = mlp.Linear
	Softmax     = mlp.Softmax
	Gaussian    = mlp.Gaussian
)

// ParseKind converts a canonical kind name ("Rectifier", "Softmax", ...)
// into a Kind.
func ParseKind(s string) (Kind, error) {
	return mlp.ParseKind(s)
}

// Layer describes one layer of the network. Only the fields relevant to
// the Kind are consulted; setting an irrelevant field logs a warning on the
// "sknn" channel but is not an error.
type Layer = mlp.Layer

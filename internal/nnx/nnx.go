// Package nnx implements the network modules the estimators need beyond
// what Born ships: Maxout units, inverted dropout, and a softmax output
// head. Modules follow Born's nn conventions (Forward/Parameters, backend
// capabilities discovered through interface assertions) so they compose
// with Born layers inside one network.
package nnx

import (
	"github.com/born-ml/born/tensor"
)

// ReLUBackend is satisfied by backends that provide a rectifier, such as
// Born's autodiff decorator.
type ReLUBackend interface {
	ReLU(*tensor.RawTensor) *tensor.RawTensor
}

// SoftmaxBackend is satisfied by backends that provide a row-wise softmax.
type SoftmaxBackend interface {
	Softmax(*tensor.RawTensor) *tensor.RawTensor
}

// relu applies the backend's rectifier to a tensor.
func relu[B tensor.Backend](t *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	backend := t.Backend()
	rb, ok := any(backend).(ReLUBackend)
	if !ok {
		panic("nnx: backend must implement ReLU (use autodiff.Backend)")
	}
	return tensor.New[float32, B](rb.ReLU(t.Raw()), backend)
}

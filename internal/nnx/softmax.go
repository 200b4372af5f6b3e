package nnx

import (
	"github.com/born-ml/born/nn"
	"github.com/born-ml/born/tensor"
)

// Softmax normalizes each row of its input into a probability
// distribution. It is the output head for classification networks.
type Softmax[B tensor.Backend] struct{}

// NewSoftmax creates a softmax output module.
func NewSoftmax[B tensor.Backend]() *Softmax[B] {
	return &Softmax[B]{}
}

// Forward applies a row-wise softmax.
//
// Input shape: [batch_size, classes]
func (s *Softmax[B]) Forward(input *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	backend := input.Backend()
	sb, ok := any(backend).(SoftmaxBackend)
	if !ok {
		panic("nnx: backend must implement Softmax (use autodiff.Backend)")
	}
	return tensor.New[float32, B](sb.Softmax(input.Raw()), backend)
}

// Parameters returns an empty slice (softmax has no trainable parameters).
func (s *Softmax[B]) Parameters() []*nn.Parameter[B] {
	return nil
}

package nnx

import (
	"fmt"
	"math/rand"

	"github.com/born-ml/born/nn"
	"github.com/born-ml/born/tensor"
)

// Dropout randomly zeroes a fraction of its input during training and
// rescales the survivors by 1/(1-p), so no adjustment is needed at
// inference time (inverted dropout). When inactive it is the identity.
//
// The mask is applied as an element-wise multiply, which the autodiff
// backend records like any other operation; gradients are masked the same
// way the activations were.
type Dropout[B tensor.Backend] struct {
	p      float64
	rng    *rand.Rand
	active bool
}

// NewDropout creates a dropout module with drop probability p, drawing
// masks from rng. The module starts inactive.
func NewDropout[B tensor.Backend](p float64, rng *rand.Rand) *Dropout[B] {
	if p < 0 || p >= 1 {
		panic(fmt.Sprintf("nnx: dropout probability must be in [0, 1), got %v", p))
	}
	return &Dropout[B]{p: p, rng: rng}
}

// SetActive switches the module between training (true) and inference
// (false) behavior.
func (d *Dropout[B]) SetActive(active bool) {
	d.active = active
}

// Forward applies the dropout mask during training, or passes the input
// through unchanged.
func (d *Dropout[B]) Forward(input *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	if !d.active || d.p == 0 {
		return input
	}
	backend := input.Backend()
	maskRaw, err := tensor.NewRaw(input.Shape(), tensor.Float32, backend.Device())
	if err != nil {
		panic(fmt.Sprintf("nnx: dropout mask: %v", err))
	}
	keep := float32(1 / (1 - d.p))
	mask := maskRaw.AsFloat32()
	for i := range mask {
		if d.rng.Float64() >= d.p {
			mask[i] = keep
		}
	}
	return input.Mul(tensor.New[float32, B](maskRaw, backend))
}

// Parameters returns an empty slice (dropout has no trainable parameters).
func (d *Dropout[B]) Parameters() []*nn.Parameter[B] {
	return nil
}

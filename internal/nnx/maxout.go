package nnx

import (
	"fmt"

	"github.com/born-ml/born/nn"
	"github.com/born-ml/born/tensor"
)

// Maxout is a piecewise-linear layer: each output unit takes the maximum
// over k independent linear transformations of the input.
//
//	y = max(x @ W1.T + b1, ..., x @ Wk.T + bk)
//
// The element-wise maximum is folded as max(a, b) = a + relu(b - a), which
// keeps every step differentiable through the backend's existing operations
// so gradients flow to whichever piece is active.
//
// Reference: "Maxout Networks" (Goodfellow et al., 2013).
type Maxout[B tensor.Backend] struct {
	pieces []*nn.Linear[B]
}

// NewMaxout creates a Maxout layer with the given number of linear pieces.
func NewMaxout[B tensor.Backend](inFeatures, outFeatures, pieces int, backend B) *Maxout[B] {
	if pieces < 1 {
		panic(fmt.Sprintf("nnx: maxout needs at least one piece, got %d", pieces))
	}
	m := &Maxout[B]{pieces: make([]*nn.Linear[B], pieces)}
	for i := range m.pieces {
		m.pieces[i] = nn.NewLinear(inFeatures, outFeatures, backend)
	}
	return m
}

// Forward computes the element-wise maximum over all pieces.
//
// Input shape: [batch_size, in_features]
// Output shape: [batch_size, out_features]
func (m *Maxout[B]) Forward(input *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	out := m.pieces[0].Forward(input)
	for _, piece := range m.pieces[1:] {
		candidate := piece.Forward(input)
		// max(out, candidate) = out + relu(candidate - out)
		out = out.Add(relu(candidate.Sub(out)))
	}
	return out
}

// Parameters returns the weights and biases of every piece.
func (m *Maxout[B]) Parameters() []*nn.Parameter[B] {
	var params []*nn.Parameter[B]
	for _, piece := range m.pieces {
		params = append(params, piece.Parameters()...)
	}
	return params
}

// Pieces returns the underlying linear transformations, in order.
func (m *Maxout[B]) Pieces() []*nn.Linear[B] {
	return m.pieces
}

// StateDict returns parameters keyed as "piece.<i>.{weight,bias}".
func (m *Maxout[B]) StateDict() map[string]*tensor.RawTensor {
	stateDict := make(map[string]*tensor.RawTensor)
	for i, piece := range m.pieces {
		for name, raw := range piece.StateDict() {
			stateDict[fmt.Sprintf("piece.%d.%s", i, name)] = raw
		}
	}
	return stateDict
}

// LoadStateDict loads parameters produced by StateDict.
func (m *Maxout[B]) LoadStateDict(stateDict map[string]*tensor.RawTensor) error {
	for i, piece := range m.pieces {
		sub := make(map[string]*tensor.RawTensor)
		prefix := fmt.Sprintf("piece.%d.", i)
		for name, raw := range stateDict {
			if len(name) > len(prefix) && name[:len(prefix)] == prefix {
				sub[name[len(prefix):]] = raw
			}
		}
		if err := piece.LoadStateDict(sub); err != nil {
			return fmt.Errorf("nnx: maxout piece %d: %w", i, err)
		}
	}
	return nil
}

package optim

import (
	"github.com/born-ml/born/nn"
	"github.com/born-ml/born/tensor"
)

// Nesterov implements SGD with Nesterov accelerated momentum.
//
// Update rule:
//
//	v_t = momentum * v_{t-1} + gradient
//	param = param - lr * (gradient + momentum * v_t)
//
// Compared to classical momentum, the gradient is evaluated after the
// velocity's contribution, which dampens oscillation along steep
// directions.
//
// Reference: "On the importance of initialization and momentum in deep
// learning" (Sutskever et al., 2013).
type Nesterov[B tensor.Backend] struct {
	params   []*nn.Parameter[B]
	lr       float32
	momentum float32
	velocity map[*nn.Parameter[B]][]float32
	backend  B
}

// NesterovConfig holds configuration for the Nesterov optimizer.
type NesterovConfig struct {
	LR       float32 // Learning rate (default: 0.01)
	Momentum float32 // Momentum factor (default: 0.9)
}

// NewNesterov creates a new Nesterov-momentum optimizer.
func NewNesterov[B tensor.Backend](params []*nn.Parameter[B], config NesterovConfig, backend B) *Nesterov[B] {
	if config.LR == 0 {
		config.LR = 0.01
	}
	if config.Momentum == 0 {
		config.Momentum = 0.9
	}
	return &Nesterov[B]{
		params:   params,
		lr:       config.LR,
		momentum: config.Momentum,
		velocity: make(map[*nn.Parameter[B]][]float32),
		backend:  backend,
	}
}

// Step applies one Nesterov update to every parameter that received a
// gradient.
func (n *Nesterov[B]) Step(grads map[*tensor.RawTensor]*tensor.RawTensor) {
	for _, param := range n.params {
		grad := getGradient(param, grads)
		if grad == nil {
			continue
		}
		gradData := grad.AsFloat32()
		paramData := param.Tensor().Data()
		v := stateFor(n.velocity, param)

		for i := range paramData {
			g := gradData[i]
			v[i] = n.momentum*v[i] + g
			paramData[i] -= n.lr * (g + n.momentum*v[i])
		}
	}
}

// ZeroGrad clears gradients for all parameters.
func (n *Nesterov[B]) ZeroGrad() {
	for _, param := range n.params {
		param.ZeroGrad()
	}
}

// GetLR returns the current learning rate.
func (n *Nesterov[B]) GetLR() float32 {
	return n.lr
}

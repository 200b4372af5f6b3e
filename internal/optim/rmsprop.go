package optim

import (
	"math"

	"github.com/born-ml/born/nn"
	"github.com/born-ml/born/tensor"
)

// RMSProp divides the learning rate by a running average of recent
// gradient magnitudes.
//
// Update rule:
//
//	cache_t = rho * cache_{t-1} + (1-rho) * gradient²
//	param = param - lr * gradient / (sqrt(cache_t) + eps)
//
// Reference: Hinton's Coursera lecture 6.5 (rmsprop).
type RMSProp[B tensor.Backend] struct {
	params  []*nn.Parameter[B]
	lr      float32
	rho     float32
	eps     float32
	cache   map[*nn.Parameter[B]][]float32
	backend B
}

// RMSPropConfig holds configuration for the RMSProp optimizer.
type RMSPropConfig struct {
	LR  float32 // Learning rate (default: 0.01)
	Rho float32 // Decay of the squared-gradient average (default: 0.9)
	Eps float32 // Term for numerical stability (default: 1e-6)
}

// NewRMSProp creates a new RMSProp optimizer.
func NewRMSProp[B tensor.Backend](params []*nn.Parameter[B], config RMSPropConfig, backend B) *RMSProp[B] {
	if config.LR == 0 {
		config.LR = 0.01
	}
	if config.Rho == 0 {
		config.Rho = 0.9
	}
	if config.Eps == 0 {
		config.Eps = 1e-6
	}
	return &RMSProp[B]{
		params:  params,
		lr:      config.LR,
		rho:     config.Rho,
		eps:     config.Eps,
		cache:   make(map[*nn.Parameter[B]][]float32),
		backend: backend,
	}
}

// Step applies one RMSProp update to every parameter that received a
// gradient.
func (r *RMSProp[B]) Step(grads map[*tensor.RawTensor]*tensor.RawTensor) {
	for _, param := range r.params {
		grad := getGradient(param, grads)
		if grad == nil {
			continue
		}
		gradData := grad.AsFloat32()
		paramData := param.Tensor().Data()
		cache := stateFor(r.cache, param)

		for i := range paramData {
			g := gradData[i]
			cache[i] = r.rho*cache[i] + (1-r.rho)*g*g
			paramData[i] -= r.lr * g / (float32(math.Sqrt(float64(cache[i]))) + r.eps)
		}
	}
}

// ZeroGrad clears gradients for all parameters.
func (r *RMSProp[B]) ZeroGrad() {
	for _, param := range r.params {
		param.ZeroGrad()
	}
}

// GetLR returns the current learning rate.
func (r *RMSProp[B]) GetLR() float32 {
	return r.lr
}

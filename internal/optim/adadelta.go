package optim

import (
	"math"

	"github.com/born-ml/born/nn"
	"github.com/born-ml/born/tensor"
)

// AdaDelta adapts per-parameter step sizes from running averages of both
// squared gradients and squared updates, removing the need to tune a
// global learning rate.
//
// Update rule:
//
//	Eg_t  = rho * Eg_{t-1} + (1-rho) * gradient²
//	dx    = -sqrt(Edx_{t-1} + eps) / sqrt(Eg_t + eps) * gradient
//	Edx_t = rho * Edx_{t-1} + (1-rho) * dx²
//	param = param + lr * dx
//
// LR defaults to 1 and exists only as an overall scale.
//
// Reference: "ADADELTA: An Adaptive Learning Rate Method" (Zeiler, 2012).
type AdaDelta[B tensor.Backend] struct {
	params  []*nn.Parameter[B]
	lr      float32
	rho     float32
	eps     float32
	avgGrad map[*nn.Parameter[B]][]float32
	avgUpd  map[*nn.Parameter[B]][]float32
	backend B
}

// AdaDeltaConfig holds configuration for the AdaDelta optimizer.
type AdaDeltaConfig struct {
	LR  float32 // Overall scale of the updates (default: 1)
	Rho float32 // Decay of both running averages (default: 0.95)
	Eps float32 // Term for numerical stability (default: 1e-6)
}

// NewAdaDelta creates a new AdaDelta optimizer.
func NewAdaDelta[B tensor.Backend](params []*nn.Parameter[B], config AdaDeltaConfig, backend B) *AdaDelta[B] {
	if config.LR == 0 {
		config.LR = 1
	}
	if config.Rho == 0 {
		config.Rho = 0.95
	}
	if config.Eps == 0 {
		config.Eps = 1e-6
	}
	return &AdaDelta[B]{
		params:  params,
		lr:      config.LR,
		rho:     config.Rho,
		eps:     config.Eps,
		avgGrad: make(map[*nn.Parameter[B]][]float32),
		avgUpd:  make(map[*nn.Parameter[B]][]float32),
		backend: backend,
	}
}

// Step applies one AdaDelta update to every parameter that received a
// gradient.
func (a *AdaDelta[B]) Step(grads map[*tensor.RawTensor]*tensor.RawTensor) {
	for _, param := range a.params {
		grad := getGradient(param, grads)
		if grad == nil {
			continue
		}
		gradData := grad.AsFloat32()
		paramData := param.Tensor().Data()
		avgGrad := stateFor(a.avgGrad, param)
		avgUpd := stateFor(a.avgUpd, param)

		for i := range paramData {
			g := gradData[i]
			avgGrad[i] = a.rho*avgGrad[i] + (1-a.rho)*g*g
			dx := -float32(math.Sqrt(float64(avgUpd[i]+a.eps))/math.Sqrt(float64(avgGrad[i]+a.eps))) * g
			avgUpd[i] = a.rho*avgUpd[i] + (1-a.rho)*dx*dx
			paramData[i] += a.lr * dx
		}
	}
}

// ZeroGrad clears gradients for all parameters.
func (a *AdaDelta[B]) ZeroGrad() {
	for _, param := range a.params {
		param.ZeroGrad()
	}
}

// GetLR returns the overall update scale.
func (a *AdaDelta[B]) GetLR() float32 {
	return a.lr
}

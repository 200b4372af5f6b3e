// Package optim implements the learning rules the estimators offer beyond
// Born's SGD and Adam: Nesterov momentum, RMSProp and AdaDelta.
//
// All three satisfy Born's optim.Optimizer interface and follow the same
// conventions as Born's optimizers: per-parameter state held in maps,
// element-wise float32 updates applied in place, defaults filled in by the
// constructor.
package optim

import (
	"github.com/born-ml/born/nn"
	"github.com/born-ml/born/tensor"
)

// getGradient retrieves the gradient for a parameter from a Backward
// result. Returns nil when the parameter did not participate in the
// forward pass.
func getGradient[B tensor.Backend](param *nn.Parameter[B], grads map[*tensor.RawTensor]*tensor.RawTensor) *tensor.RawTensor {
	if param == nil {
		return nil
	}
	return grads[param.Tensor().Raw()]
}

// stateFor returns the buffer tracking a parameter, allocating a zeroed one
// on first use.
func stateFor[B tensor.Backend](state map[*nn.Parameter[B]][]float32, param *nn.Parameter[B]) []float32 {
	buf, ok := state[param]
	if !ok {
		buf = make([]float32, len(param.Tensor().Data()))
		state[param] = buf
	}
	return buf
}

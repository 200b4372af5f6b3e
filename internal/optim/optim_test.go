package optim_test

import (
	"math"
	"testing"

	"github.com/born-ml/born/backend/cpu"
	"github.com/born-ml/born/nn"
	"github.com/born-ml/born/tensor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/sknn/internal/optim"
)

// newParam builds a single-element parameter with the given value and a
// gradient map carrying the given gradient for it.
func newParam(t *testing.T, backend *cpu.Backend, value, gradient float32) (*nn.Parameter[*cpu.Backend], map[*tensor.RawTensor]*tensor.RawTensor) {
	t.Helper()
	x, err := tensor.FromSlice([]float32{value}, tensor.Shape{1}, backend)
	require.NoError(t, err)
	param := nn.NewParameter("x", x)

	grad, err := tensor.NewRaw(tensor.Shape{1}, tensor.Float32, backend.Device())
	require.NoError(t, err)
	grad.AsFloat32()[0] = gradient

	return param, map[*tensor.RawTensor]*tensor.RawTensor{param.Tensor().Raw(): grad}
}

func TestNesterov_FirstStep(t *testing.T) {
	backend := cpu.New()
	param, grads := newParam(t, backend, 2.0, 1.0)

	opt := optim.NewNesterov([]*nn.Parameter[*cpu.Backend]{param},
		optim.NesterovConfig{LR: 0.1, Momentum: 0.9}, backend)
	opt.Step(grads)

	// v = 0.9*0 + 1 = 1; x = 2 - 0.1*(1 + 0.9*1) = 1.81
	assert.InDelta(t, 1.81, param.Tensor().Data()[0], 1e-6)
}

func TestNesterov_VelocityAccumulates(t *testing.T) {
	backend := cpu.New()
	param, grads := newParam(t, backend, 2.0, 1.0)

	opt := optim.NewNesterov([]*nn.Parameter[*cpu.Backend]{param},
		optim.NesterovConfig{LR: 0.1, Momentum: 0.9}, backend)
	opt.Step(grads)
	opt.Step(grads)

	// Second step: v = 0.9*1 + 1 = 1.9; x = 1.81 - 0.1*(1 + 0.9*1.9) = 1.539
	assert.InDelta(t, 1.539, param.Tensor().Data()[0], 1e-6)
}

func TestNesterov_Defaults(t *testing.T) {
	backend := cpu.New()
	param, _ := newParam(t, backend, 0, 0)

	opt := optim.NewNesterov([]*nn.Parameter[*cpu.Backend]{param}, optim.NesterovConfig{}, backend)
	assert.InDelta(t, 0.01, opt.GetLR(), 1e-9)
}

func TestRMSProp_FirstStep(t *testing.T) {
	backend := cpu.New()
	param, grads := newParam(t, backend, 1.0, 2.0)

	opt := optim.NewRMSProp([]*nn.Parameter[*cpu.Backend]{param},
		optim.RMSPropConfig{LR: 0.1, Rho: 0.9, Eps: 1e-6}, backend)
	opt.Step(grads)

	// cache = 0.1 * 4 = 0.4; x = 1 - 0.1*2/(sqrt(0.4)+1e-6)
	want := 1.0 - 0.1*2.0/(math.Sqrt(0.4)+1e-6)
	assert.InDelta(t, want, param.Tensor().Data()[0], 1e-5)
}

func TestRMSProp_AdaptsStepSize(t *testing.T) {
	backend := cpu.New()
	param, grads := newParam(t, backend, 1.0, 2.0)

	opt := optim.NewRMSProp([]*nn.Parameter[*cpu.Backend]{param},
		optim.RMSPropConfig{LR: 0.1, Rho: 0.9, Eps: 1e-6}, backend)

	before := param.Tensor().Data()[0]
	opt.Step(grads)
	first := before - param.Tensor().Data()[0]

	before = param.Tensor().Data()[0]
	opt.Step(grads)
	second := before - param.Tensor().Data()[0]

	// As the cache fills, the effective step shrinks for a constant
	// gradient.
	assert.Less(t, second, first)
	assert.Greater(t, second, float32(0))
}

func TestAdaDelta_FirstStep(t *testing.T) {
	backend := cpu.New()
	param, grads := newParam(t, backend, 1.0, 2.0)

	opt := optim.NewAdaDelta([]*nn.Parameter[*cpu.Backend]{param},
		optim.AdaDeltaConfig{LR: 1.0, Rho: 0.95, Eps: 1e-6}, backend)
	opt.Step(grads)

	// Eg = 0.05 * 4 = 0.2
	// dx = -sqrt(1e-6)/sqrt(0.2 + 1e-6) * 2
	dx := -math.Sqrt(1e-6) / math.Sqrt(0.2+1e-6) * 2.0
	assert.InDelta(t, 1.0+dx, param.Tensor().Data()[0], 1e-6)
}

func TestAdaDelta_MovesAgainstGradient(t *testing.T) {
	backend := cpu.New()
	param, grads := newParam(t, backend, 1.0, 2.0)

	opt := optim.NewAdaDelta([]*nn.Parameter[*cpu.Backend]{param},
		optim.AdaDeltaConfig{}, backend)
	for i := 0; i < 10; i++ {
		opt.Step(grads)
	}
	assert.Less(t, param.Tensor().Data()[0], float32(1.0))
}

func TestZeroGrad(t *testing.T) {
	backend := cpu.New()
	param, _ := newParam(t, backend, 1.0, 2.0)

	g, err := tensor.FromSlice([]float32{3.0}, tensor.Shape{1}, backend)
	require.NoError(t, err)
	param.SetGrad(g)

	opt := optim.NewRMSProp([]*nn.Parameter[*cpu.Backend]{param}, optim.RMSPropConfig{}, backend)
	opt.ZeroGrad()
	assert.Nil(t, param.Grad())
}

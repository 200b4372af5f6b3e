package nnx_test

import (
	"math/rand"
	"testing"

	"github.com/born-ml/born/autodiff"
	"github.com/born-ml/born/backend/cpu"
	"github.com/born-ml/born/tensor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/sknn/internal/nnx"
)

type testBackend = *autodiff.Backend[*cpu.Backend]

func input(t *testing.T, backend testBackend, rows, cols int, data []float32) *tensor.Tensor[float32, testBackend] {
	t.Helper()
	in, err := tensor.FromSlice(data, tensor.Shape{rows, cols}, backend)
	require.NoError(t, err)
	return in
}

// setPiece overwrites one maxout piece with a known weight and bias so the
// forward pass is predictable.
func setPiece(m *nnx.Maxout[testBackend], i int, weight, bias float32) {
	piece := m.Pieces()[i]
	piece.Weight().Tensor().Data()[0] = weight
	piece.Bias().Tensor().Data()[0] = bias
}

func TestMaxout_TakesElementwiseMax(t *testing.T) {
	backend := autodiff.New(cpu.New())
	m := nnx.NewMaxout(1, 1, 2, backend)
	setPiece(m, 0, 1, 0)  // y0 = x
	setPiece(m, 1, -1, 0) // y1 = -x

	out := m.Forward(input(t, backend, 2, 1, []float32{2, -3}))
	got := out.Raw().AsFloat32()
	assert.InDelta(t, 2.0, got[0], 1e-6)
	assert.InDelta(t, 3.0, got[1], 1e-6)
}

func TestMaxout_SinglePieceIsLinear(t *testing.T) {
	backend := autodiff.New(cpu.New())
	m := nnx.NewMaxout(1, 1, 1, backend)
	setPiece(m, 0, 2, 1) // y = 2x + 1

	out := m.Forward(input(t, backend, 1, 1, []float32{3}))
	assert.InDelta(t, 7.0, out.Raw().AsFloat32()[0], 1e-6)
}

func TestMaxout_ParameterCount(t *testing.T) {
	m := nnx.NewMaxout(4, 2, 3, autodiff.New(cpu.New()))
	assert.Len(t, m.Parameters(), 6)
}

func TestMaxout_PanicsOnZeroPieces(t *testing.T) {
	assert.Panics(t, func() {
		nnx.NewMaxout(1, 1, 0, autodiff.New(cpu.New()))
	})
}

func TestMaxout_StateDictRoundTrip(t *testing.T) {
	backend := autodiff.New(cpu.New())
	src := nnx.NewMaxout(2, 3, 2, backend)
	dst := nnx.NewMaxout(2, 3, 2, backend)

	require.NoError(t, dst.LoadStateDict(src.StateDict()))

	in := input(t, backend, 1, 2, []float32{0.5, -1})
	assert.Equal(t, src.Forward(in).Raw().AsFloat32(), dst.Forward(in).Raw().AsFloat32())
}

func TestDropout_InactiveIsIdentity(t *testing.T) {
	backend := autodiff.New(cpu.New())
	d := nnx.NewDropout[testBackend](0.5, rand.New(rand.NewSource(1)))

	in := input(t, backend, 1, 4, []float32{1, 2, 3, 4})
	assert.Equal(t, []float32{1, 2, 3, 4}, d.Forward(in).Raw().AsFloat32())
}

func TestDropout_ZeroProbabilityIsIdentity(t *testing.T) {
	backend := autodiff.New(cpu.New())
	d := nnx.NewDropout[testBackend](0, rand.New(rand.NewSource(1)))
	d.SetActive(true)

	in := input(t, backend, 1, 4, []float32{1, 2, 3, 4})
	assert.Equal(t, []float32{1, 2, 3, 4}, d.Forward(in).Raw().AsFloat32())
}

func TestDropout_ScalesSurvivors(t *testing.T) {
	backend := autodiff.New(cpu.New())
	d := nnx.NewDropout[testBackend](0.5, rand.New(rand.NewSource(1)))
	d.SetActive(true)

	data := make([]float32, 1000)
	for i := range data {
		data[i] = 1
	}
	out := d.Forward(input(t, backend, 1, 1000, data)).Raw().AsFloat32()

	var dropped, kept int
	for _, v := range out {
		switch v {
		case 0:
			dropped++
		case 2: // 1 / (1 - 0.5)
			kept++
		default:
			t.Fatalf("unexpected output value %v", v)
		}
	}
	assert.Greater(t, dropped, 300)
	assert.Greater(t, kept, 300)
}

func TestDropout_PanicsOnBadProbability(t *testing.T) {
	assert.Panics(t, func() {
		nnx.NewDropout[testBackend](1, rand.New(rand.NewSource(1)))
	})
}

func TestSoftmax_RowsSumToOne(t *testing.T) {
	backend := autodiff.New(cpu.New())
	s := nnx.NewSoftmax[testBackend]()

	out := s.Forward(input(t, backend, 2, 3, []float32{1, 2, 3, -1, 0, 1})).Raw().AsFloat32()
	for r := 0; r < 2; r++ {
		var sum float32
		for c := 0; c < 3; c++ {
			v := out[r*3+c]
			assert.Greater(t, v, float32(0))
			sum += v
		}
		assert.InDelta(t, 1.0, sum, 1e-5)
	}
	// Larger logits keep their ordering.
	assert.Greater(t, out[2], out[1])
	assert.Greater(t, out[1], out[0])
}

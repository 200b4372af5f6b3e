package mlp

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseKindRoundTrip(t *testing.T) {
	for _, k := range []Kind{Rectifier, Sigmoid, Tanh, Maxout, Convolution, Linear, Softmax, Gaussian} {
		parsed, err := ParseKind(k.String())
		require.NoError(t, err)
		assert.Equal(t, k, parsed)
	}
}

func TestParseKindUnknown(t *testing.T) {
	_, err := ParseKind("Wobble")
	assert.ErrorIs(t, err, ErrUnknownLayerKind)
}

func TestKindJSON(t *testing.T) {
	data, err := json.Marshal(Softmax)
	require.NoError(t, err)
	assert.Equal(t, `"Softmax"`, string(data))

	var k Kind
	require.NoError(t, json.Unmarshal([]byte(`"Maxout"`), &k))
	assert.Equal(t, Maxout, k)

	_, err = json.Marshal(invalidKind)
	assert.ErrorIs(t, err, ErrUnknownLayerKind)
}

func TestAutoName(t *testing.T) {
	l := Layer{Kind: Rectifier}
	l.AutoName(0, false)
	assert.Equal(t, "Hidden_0_Rectifier", l.Name)

	out := Layer{Kind: Softmax}
	out.AutoName(2, true)
	assert.Equal(t, "Output_2_Softmax", out.Name)
}

func TestAutoName_KeepsExplicitName(t *testing.T) {
	l := Layer{Kind: Rectifier, Name: "embed"}
	l.AutoName(0, false)
	assert.Equal(t, "embed", l.Name)
}

func TestLayerValidate(t *testing.T) {
	tests := []struct {
		name  string
		layer Layer
		last  bool
		want  error
	}{
		{"output kind in hidden position", Layer{Kind: Softmax, Units: 4}, false, ErrBadOutputLayer},
		{"hidden kind in output position", Layer{Kind: Rectifier, Units: 4}, true, ErrBadOutputLayer},
		{"invalid kind", Layer{Kind: Kind(77)}, false, ErrUnknownLayerKind},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := tt.layer
			l.AutoName(0, tt.last)
			assert.ErrorIs(t, l.Validate(0, tt.last), tt.want)
		})
	}
}

func TestLayerValidate_RequiredFields(t *testing.T) {
	hidden := Layer{Kind: Rectifier, Name: "h"}
	assert.Error(t, hidden.Validate(0, false))

	maxout := Layer{Kind: Maxout, Name: "m", Units: 4}
	assert.Error(t, maxout.Validate(0, false)) // missing Pieces

	conv := Layer{Kind: Convolution, Name: "c", Channels: 4}
	assert.Error(t, conv.Validate(0, false)) // missing Kernel

	pool := Layer{Kind: Convolution, Name: "c", Channels: 4, Kernel: [2]int{3, 3}, Pool: [2]int{2, 3}}
	assert.Error(t, pool.Validate(0, false)) // non-square pool

	output := Layer{Kind: Linear, Name: "o"}
	assert.NoError(t, output.Validate(1, true)) // output Units may stay zero
}

func TestLayerValidate_UnusedFieldsOnlyWarn(t *testing.T) {
	l := Layer{Kind: Rectifier, Name: "h", Units: 4, Kernel: [2]int{3, 3}, Pieces: 2, PoolType: "max"}
	assert.NoError(t, l.Validate(0, false))

	c := Layer{Kind: Convolution, Name: "c", Channels: 2, Kernel: [2]int{3, 3}, Units: 9}
	assert.NoError(t, c.Validate(0, false))
}

func TestLayerValidate_PoolType(t *testing.T) {
	conv := func(poolType string) Layer {
		return Layer{
			Kind: Convolution, Name: "c", Channels: 2,
			Kernel: [2]int{3, 3}, Pool: [2]int{2, 2}, PoolType: poolType,
		}
	}

	for _, ok := range []string{"", "max"} {
		l := conv(ok)
		assert.NoError(t, l.Validate(0, false))
	}

	mean := conv("mean")
	err := mean.Validate(0, false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not implemented")

	bogus := conv("median")
	err = bogus.Validate(0, false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown pool type")
}

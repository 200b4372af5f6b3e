package mlp

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/born-ml/born/autodiff"
	"github.com/born-ml/born/nn"
	"github.com/born-ml/born/tensor"

	"github.com/born-ml/sknn/internal/nnx"
)

// module mirrors Born's internal module contract. The public nn.Module
// interface also demands state-dict methods, which activation and pooling
// modules do not carry; the network needs only the forward pass and the
// parameter list from its building blocks.
type module[B tensor.Backend] interface {
	Forward(*tensor.Tensor[float32, B]) *tensor.Tensor[float32, B]
	Parameters() []*nn.Parameter[B]
}

// layerNode is one built layer: its describing Layer, the Born modules that
// realize it, and the trainable parameters in a stable order.
type layerNode[B tensor.Backend] struct {
	spec   Layer
	mods   []module[*autodiff.Backend[B]]
	drop   *nnx.Dropout[*autodiff.Backend[B]]
	params []*nn.Parameter[*autodiff.Backend[B]]

	// flattenAfter collapses the [batch, channels, h, w] activation into
	// [batch, units] once the convolutional front of the network ends.
	flattenAfter bool
}

// initLim returns the half-width of the uniform initialization interval for
// a layer. Hidden kinds scale the Glorot bound; the output layer uses it
// unscaled.
func initLim(kind Kind, fanIn, fanOut int, output bool) float64 {
	lim := math.Sqrt(6) / math.Sqrt(float64(fanIn+fanOut))
	if output {
		return lim
	}
	switch kind {
	case Tanh:
		// The multiplier intentionally scales with lim itself for Tanh.
		lim *= 1.1 * lim
	case Rectifier, Maxout, Convolution:
		// He, Rang, Zhen and Sun, converted to uniform.
		lim *= math.Sqrt2
	case Sigmoid:
		lim *= 4
	}
	return lim
}

// fillUniform overwrites data with draws from U(-lim, lim).
func fillUniform(data []float32, lim float64, rng *rand.Rand) {
	for i := range data {
		data[i] = float32((2*rng.Float64() - 1) * lim)
	}
}

// initDense reinitializes a weight/bias parameter list: weights uniform in
// (-lim, lim), biases zero. Parameters alternate weight, bias, weight, ...
// as Born's Linear and Conv2D lay them out.
func initDense[B tensor.Backend](params []*nn.Parameter[B], lim float64, rng *rand.Rand) {
	for i, p := range params {
		data := p.Tensor().Data()
		if i%2 == 0 {
			fillUniform(data, lim, rng)
		} else {
			for j := range data {
				data[j] = 0
			}
		}
	}
}

// buildLayer constructs the modules for one layer. fanIn and fanOut are the
// surrounding unit counts; grid carries the spatial state through the
// convolutional front and is nil once the network has flattened.
func buildLayer[B tensor.Backend](
	l Layer,
	fanIn, fanOut int,
	output bool,
	grid *GridShape,
	rng *rand.Rand,
	backend *autodiff.Backend[B],
) (*layerNode[B], *GridShape, error) {
	node := &layerNode[B]{spec: l}
	lim := initLim(l.Kind, fanIn, fanOut, output)

	switch l.Kind {
	case Rectifier:
		linear := nn.NewLinear(fanIn, fanOut, backend)
		node.mods = []module[*autodiff.Backend[B]]{linear, nn.NewReLU[*autodiff.Backend[B]]()}
		node.params = linear.Parameters()

	case Sigmoid:
		linear := nn.NewLinear(fanIn, fanOut, backend)
		node.mods = []module[*autodiff.Backend[B]]{linear, nn.NewSigmoid[*autodiff.Backend[B]]()}
		node.params = linear.Parameters()

	case Tanh:
		linear := nn.NewLinear(fanIn, fanOut, backend)
		node.mods = []module[*autodiff.Backend[B]]{linear, nn.NewTanh[*autodiff.Backend[B]]()}
		node.params = linear.Parameters()

	case Maxout:
		maxout := nnx.NewMaxout(fanIn, fanOut, l.Pieces, backend)
		node.mods = []module[*autodiff.Backend[B]]{maxout}
		node.params = maxout.Parameters()

	case Convolution:
		if grid == nil {
			return nil, nil, fmt.Errorf("%w: layer %q has no spatial input", ErrMissingInputGrid, l.Name)
		}
		conv := nn.NewConv2D(grid.Channels, l.Channels, l.Kernel[0], l.Kernel[1], 1, 0, true, backend)
		node.mods = []module[*autodiff.Backend[B]]{conv, nn.NewReLU[*autodiff.Backend[B]]()}
		node.params = conv.Parameters()
		outH := grid.Height - l.Kernel[0] + 1
		outW := grid.Width - l.Kernel[1] + 1
		if p := l.Pool[0]; p > 1 {
			node.mods = append(node.mods, nn.NewMaxPool2D(p, p, backend))
			outH = (outH-p)/p + 1
			outW = (outW-p)/p + 1
		}
		if outH < 1 || outW < 1 {
			return nil, nil, fmt.Errorf("sknn: layer %q shrinks its input to %dx%d", l.Name, outH, outW)
		}
		lim = initLim(l.Kind, fanIn, l.Channels*outH*outW, output)
		initDense(node.params, lim, rng)
		return node, &GridShape{Channels: l.Channels, Height: outH, Width: outW}, nil

	case Linear, Gaussian:
		linear := nn.NewLinear(fanIn, fanOut, backend)
		node.mods = []module[*autodiff.Backend[B]]{linear}
		node.params = linear.Parameters()

	case Softmax:
		linear := nn.NewLinear(fanIn, fanOut, backend)
		node.mods = []module[*autodiff.Backend[B]]{linear, nnx.NewSoftmax[*autodiff.Backend[B]]()}
		node.params = linear.Parameters()

	default:
		return nil, nil, fmt.Errorf("%w: %s", ErrUnknownLayerKind, l.Kind)
	}

	initDense(node.params, lim, rng)
	return node, nil, nil
}

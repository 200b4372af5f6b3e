package mlp

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/born-ml/born/autodiff"
	"github.com/born-ml/born/nn"
	"github.com/born-ml/born/tensor"

	"github.com/born-ml/sknn/internal/nnx"
)

// NetSpec describes a network to assemble: the validated layer list, the
// input geometry and the training-time dropout policy. The output layer's
// Units must already be resolved.
type NetSpec struct {
	Layers  []Layer
	Inputs  int        // flat input width; ignored when Grid is set
	Grid    *GridShape // spatial layout for convolutional networks
	Dropout float64    // default drop probability for hidden layers
}

// Network is an assembled multi-layer perceptron running on an autodiff
// backend. It implements Born's nn.Module contract so it can be saved and
// loaded with nn.Save / nn.Load.
type Network[B tensor.Backend] struct {
	backend *autodiff.Backend[B]
	spec    NetSpec
	nodes   []*layerNode[B]
	units   []int // unit counts: input, then one entry per layer
	rng     *rand.Rand
}

// NewNetwork validates the layer stack, computes unit counts, builds every
// layer and initializes its weights from a source seeded with seed (zero
// seeds from the clock).
func NewNetwork[B tensor.Backend](spec NetSpec, seed int64, backend *autodiff.Backend[B]) (*Network[B], error) {
	if len(spec.Layers) == 0 {
		return nil, ErrNoLayers
	}
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	n := &Network[B]{
		backend: backend,
		spec:    spec,
		rng:     rand.New(rand.NewSource(seed)),
	}

	grid := spec.Grid
	inputs := spec.Inputs
	if grid != nil {
		inputs = grid.Volume()
	}
	if inputs <= 0 {
		return nil, fmt.Errorf("sknn: network needs a positive input width, got %d", inputs)
	}

	n.units = []int{inputs}
	lastConv := -1
	for i := range spec.Layers {
		l := &spec.Layers[i]
		last := i == len(spec.Layers)-1
		l.AutoName(i, last)
		if err := l.Validate(i, last); err != nil {
			return nil, err
		}
		if l.Kind == Convolution {
			if i != lastConv+1 {
				return nil, fmt.Errorf("sknn: layer %q: convolution layers must lead the network", l.Name)
			}
			lastConv = i
		}
	}

	for i := range spec.Layers {
		l := spec.Layers[i]
		last := i == len(spec.Layers)-1
		fanIn := n.units[i]
		if l.Kind != Convolution && l.Units <= 0 {
			return nil, fmt.Errorf("sknn: layer %q has no unit count", l.Name)
		}

		node, outGrid, err := buildLayer(l, fanIn, l.Units, last, grid, n.rng, backend)
		if err != nil {
			return nil, err
		}
		if l.Kind == Convolution {
			grid = outGrid
			node.flattenAfter = i == lastConv
			n.units = append(n.units, outGrid.Volume())
		} else {
			n.units = append(n.units, l.Units)
		}

		if !last {
			p := l.Dropout
			if p == 0 {
				p = spec.Dropout
			}
			if p > 0 {
				node.drop = nnx.NewDropout[*autodiff.Backend[B]](p, n.rng)
			}
		}
		n.nodes = append(n.nodes, node)
	}

	logger.Info("initialized network",
		"layers", len(n.nodes),
		"inputs", n.units[0],
		"outputs", n.units[len(n.units)-1])
	return n, nil
}

// Spec returns the network's build description with resolved layer names.
func (n *Network[B]) Spec() NetSpec {
	return n.spec
}

// UnitCounts returns the input width followed by each layer's output width.
func (n *Network[B]) UnitCounts() []int {
	return append([]int(nil), n.units...)
}

// Rand returns the network's seeded random source. The trainer shares it so
// one seed reproduces an entire run.
func (n *Network[B]) Rand() *rand.Rand {
	return n.rng
}

// SetTraining toggles training-only behavior (dropout masks).
func (n *Network[B]) SetTraining(active bool) {
	for _, node := range n.nodes {
		if node.drop != nil {
			node.drop.SetActive(active)
		}
	}
}

// Forward runs a batch of flat input rows through the network.
//
// Input shape: [batch_size, inputs]
// Output shape: [batch_size, output units]
func (n *Network[B]) Forward(input *tensor.Tensor[float32, *autodiff.Backend[B]]) *tensor.Tensor[float32, *autodiff.Backend[B]] {
	out := input
	if g := n.spec.Grid; g != nil {
		out = out.Reshape(out.Shape()[0], g.Channels, g.Height, g.Width)
	}
	for _, node := range n.nodes {
		for _, m := range node.mods {
			out = m.Forward(out)
		}
		if node.flattenAfter {
			shape := out.Shape()
			out = out.Reshape(shape[0], shape[1]*shape[2]*shape[3])
		}
		if node.drop != nil {
			out = node.drop.Forward(out)
		}
	}
	return out
}

// Predict runs a forward pass with dropout disabled and the gradient tape
// stopped, converting to and from dense float64 rows.
func (n *Network[B]) Predict(x *Matrix) (*Matrix, error) {
	if x.Cols != n.units[0] {
		return nil, fmt.Errorf("sknn: input has %d features, network expects %d", x.Cols, n.units[0])
	}
	n.SetTraining(false)

	tape := n.backend.Tape()
	wasRecording := tape.IsRecording()
	tape.StopRecording()
	defer func() {
		if wasRecording {
			tape.StartRecording()
		}
	}()

	in, err := tensor.FromSlice(x.Data, tensor.Shape{x.Rows, x.Cols}, n.backend)
	if err != nil {
		return nil, fmt.Errorf("sknn: predict input: %w", err)
	}
	out := n.Forward(in)
	shape := out.Shape()
	result := &Matrix{Rows: shape[0], Cols: shape[1], Data: make([]float32, shape[0]*shape[1])}
	copy(result.Data, out.Raw().AsFloat32())
	return result, nil
}

// Parameters returns every trainable parameter, layer by layer.
func (n *Network[B]) Parameters() []*nn.Parameter[*autodiff.Backend[B]] {
	var params []*nn.Parameter[*autodiff.Backend[B]]
	for _, node := range n.nodes {
		params = append(params, node.params...)
	}
	return params
}

// LayerParams exposes each layer's parameters as raw float32 slices with
// their shapes: one entry per layer, parameters alternating weight, bias.
type LayerParams struct {
	Name    string
	Weights [][]float32
	Shapes  [][]int
}

// ParamsByLayer copies every layer's parameter data out of the network.
func (n *Network[B]) ParamsByLayer() []LayerParams {
	out := make([]LayerParams, len(n.nodes))
	for i, node := range n.nodes {
		lp := LayerParams{Name: node.spec.Name}
		for _, p := range node.params {
			raw := p.Tensor().Raw()
			data := make([]float32, len(raw.AsFloat32()))
			copy(data, raw.AsFloat32())
			lp.Weights = append(lp.Weights, data)
			lp.Shapes = append(lp.Shapes, append([]int(nil), raw.Shape()...))
		}
		out[i] = lp
	}
	return out
}

// SetParamsByLayer copies parameter data back into the network. Layer
// names, parameter counts and shapes must match the network's structure.
func (n *Network[B]) SetParamsByLayer(layers []LayerParams) error {
	if len(layers) != len(n.nodes) {
		return fmt.Errorf("sknn: snapshot has %d layers, network has %d", len(layers), len(n.nodes))
	}
	for i, lp := range layers {
		node := n.nodes[i]
		if lp.Name != node.spec.Name {
			return fmt.Errorf("sknn: snapshot layer %d is %q, network has %q", i, lp.Name, node.spec.Name)
		}
		if len(lp.Weights) != len(node.params) {
			return fmt.Errorf("sknn: layer %q: snapshot has %d parameters, network has %d",
				lp.Name, len(lp.Weights), len(node.params))
		}
		for j, p := range node.params {
			dst := p.Tensor().Data()
			if len(lp.Weights[j]) != len(dst) {
				return fmt.Errorf("sknn: layer %q parameter %d: %d values, want %d",
					lp.Name, j, len(lp.Weights[j]), len(dst))
			}
			copy(dst, lp.Weights[j])
		}
	}
	return nil
}

// StateDict returns parameters keyed "layers.<i>.<j>.<name>"; together with
// LoadStateDict this satisfies Born's public nn.Module interface, so whole
// networks round-trip through nn.Save and nn.Load.
func (n *Network[B]) StateDict() map[string]*tensor.RawTensor {
	stateDict := make(map[string]*tensor.RawTensor)
	for i, node := range n.nodes {
		for j, p := range node.params {
			stateDict[fmt.Sprintf("layers.%d.%d.%s", i, j, p.Name())] = p.Tensor().Raw()
		}
	}
	return stateDict
}

// LoadStateDict copies parameter data from a state dictionary produced by
// StateDict, validating shapes.
func (n *Network[B]) LoadStateDict(stateDict map[string]*tensor.RawTensor) error {
	for i, node := range n.nodes {
		for j, p := range node.params {
			key := fmt.Sprintf("layers.%d.%d.%s", i, j, p.Name())
			raw, ok := stateDict[key]
			if !ok {
				return fmt.Errorf("sknn: missing %s in state dict", key)
			}
			if !raw.Shape().Equal(p.Tensor().Raw().Shape()) {
				return fmt.Errorf("sknn: %s shape mismatch: got %v, want %v",
					key, raw.Shape(), p.Tensor().Raw().Shape())
			}
			copy(p.Tensor().Data(), raw.AsFloat32())
		}
	}
	return nil
}

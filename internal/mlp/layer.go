package mlp

import (
	"encoding/json"
	"fmt"
)

// Kind identifies a layer's activation type.
//
// Hidden layers use Rectifier, Sigmoid, Tanh, Maxout or Convolution.
// The output layer (always the last) uses Linear, Softmax or Gaussian.
type Kind uint8

const (
	invalidKind Kind = iota

	// Rectifier is a fully connected layer with ReLU activation.
	Rectifier
	// Sigmoid is a fully connected layer with logistic activation.
	Sigmoid
	// Tanh is a fully connected layer with hyperbolic tangent activation.
	Tanh
	// Maxout is a piecewise-linear layer taking the maximum over Pieces
	// linear transformations per unit.
	Maxout
	// Convolution is a 2D convolutional layer with ReLU activation and
	// optional max pooling. It may only appear at the front of the network
	// and requires Config.InputGrid.
	Convolution

	// Linear is an identity-activation output layer.
	Linear
	// Softmax is a probability-normalized output layer for classification.
	Softmax
	// Gaussian is an output layer for real-valued targets; its affine
	// transformation matches Linear.
	Gaussian
)

var kindNames = map[Kind]string{
	Rectifier:   "Rectifier",
	Sigmoid:     "Sigmoid",
	Tanh:        "Tanh",
	Maxout:      "Maxout",
	Convolution: "Convolution",
	Linear:      "Linear",
	Softmax:     "Softmax",
	Gaussian:    "Gaussian",
}

// String returns the canonical name of the kind.
func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// ParseKind converts a canonical kind name back into a Kind.
func ParseKind(s string) (Kind, error) {
	for k, name := range kindNames {
		if name == s {
			return k, nil
		}
	}
	return invalidKind, fmt.Errorf("%w: %q", ErrUnknownLayerKind, s)
}

// IsHidden reports whether the kind is valid for a hidden layer.
func (k Kind) IsHidden() bool {
	switch k {
	case Rectifier, Sigmoid, Tanh, Maxout, Convolution:
		return true
	}
	return false
}

// IsOutput reports whether the kind is valid for the output layer.
func (k Kind) IsOutput() bool {
	switch k {
	case Linear, Softmax, Gaussian:
		return true
	}
	return false
}

// MarshalJSON encodes the kind as its canonical name.
func (k Kind) MarshalJSON() ([]byte, error) {
	if !k.IsHidden() && !k.IsOutput() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownLayerKind, uint8(k))
	}
	return json.Marshal(k.String())
}

// UnmarshalJSON decodes a canonical kind name.
func (k *Kind) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseKind(s)
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// Layer describes one layer of the network. Only the fields relevant to the
// Kind are consulted; setting an irrelevant field logs a warning but is not
// an error.
type Layer struct {
	// Kind selects the activation type.
	Kind Kind `json:"kind"`

	// Name identifies the layer in logs and serialized state. When empty a
	// name of the form "Hidden_1_Rectifier" or "Output_2_Softmax" is
	// assigned from the layer's position.
	Name string `json:"name,omitempty"`

	// Units is the number of neurons. Required for every hidden kind
	// except Convolution. For the output layer it may be left zero, in
	// which case it is derived from the training targets.
	Units int `json:"units,omitempty"`

	// Pieces is the number of linear segments per Maxout unit.
	Pieces int `json:"pieces,omitempty"`

	// Channels is the number of output channels of a Convolution layer.
	Channels int `json:"channels,omitempty"`

	// Kernel is the {height, width} of a Convolution layer's kernel.
	Kernel [2]int `json:"kernel,omitempty"`

	// Pool is the {height, width} of the pooling window applied after a
	// Convolution layer. {0,0} or {1,1} disables pooling. Only square
	// windows are supported.
	Pool [2]int `json:"pool,omitempty"`

	// PoolType selects the pooling operator for a Convolution layer's
	// window. "max" (the default when empty) is the only operator the
	// backend provides; "mean" is recognized and rejected as not
	// implemented.
	PoolType string `json:"pool_type,omitempty"`

	// Dropout is the probability of dropping this layer's outputs during
	// training. Zero inherits Config.Dropout.
	Dropout float64 `json:"dropout,omitempty"`
}

// AutoName fills in Name from the layer's position when unset.
func (l *Layer) AutoName(i int, last bool) {
	if l.Name != "" {
		return
	}
	label := "Hidden"
	if last {
		label = "Output"
	}
	l.Name = fmt.Sprintf("%s_%d_%s", label, i, l.Kind)
}

// Validate checks the layer at position i for structural problems and warns
// about fields that have no effect for its kind.
func (l *Layer) Validate(i int, last bool) error {
	if !l.Kind.IsHidden() && !l.Kind.IsOutput() {
		return fmt.Errorf("%w: layer %d has kind %s", ErrUnknownLayerKind, i, l.Kind)
	}
	if last && !l.Kind.IsOutput() {
		return fmt.Errorf("%w: last layer %q is %s", ErrBadOutputLayer, l.Name, l.Kind)
	}
	if !last && !l.Kind.IsHidden() {
		return fmt.Errorf("%w: layer %d (%q) is output kind %s", ErrBadOutputLayer, i, l.Name, l.Kind)
	}

	switch l.Kind {
	case Convolution:
		if l.Channels <= 0 {
			return fmt.Errorf("sknn: layer %q requires Channels", l.Name)
		}
		if l.Kernel[0] <= 0 || l.Kernel[1] <= 0 {
			return fmt.Errorf("sknn: layer %q requires Kernel", l.Name)
		}
		if l.Pool[0] != l.Pool[1] {
			return fmt.Errorf("sknn: layer %q needs a square Pool window, got %v", l.Name, l.Pool)
		}
		switch l.PoolType {
		case "", "max":
		case "mean":
			return fmt.Errorf("sknn: layer %q: mean pooling is not implemented", l.Name)
		default:
			return fmt.Errorf("sknn: layer %q: unknown pool type %q", l.Name, l.PoolType)
		}
		l.warnUnused("Units", l.Units != 0)
		l.warnUnused("Pieces", l.Pieces != 0)
	case Maxout:
		if l.Units <= 0 {
			return fmt.Errorf("sknn: layer %q requires Units", l.Name)
		}
		if l.Pieces <= 0 {
			return fmt.Errorf("sknn: layer %q requires Pieces", l.Name)
		}
		l.warnConvFieldsUnused()
	default:
		if !last && l.Units <= 0 {
			return fmt.Errorf("sknn: layer %q requires Units", l.Name)
		}
		l.warnUnused("Pieces", l.Pieces != 0)
		l.warnConvFieldsUnused()
	}
	return nil
}

func (l *Layer) warnConvFieldsUnused() {
	l.warnUnused("Channels", l.Channels != 0)
	l.warnUnused("Kernel", l.Kernel != [2]int{})
	l.warnUnused("Pool", l.Pool != [2]int{})
	l.warnUnused("PoolType", l.PoolType != "")
}

func (l *Layer) warnUnused(field string, set bool) {
	if set {
		logger.Warn("layer parameter is unused for this kind",
			"layer", l.Name, "kind", l.Kind.String(), "parameter", field)
	}
}

package mlp

import "errors"

// Sentinel errors shared by the engine and the public estimators. All are
// wrapped with context by the operation that detects them; test with
// errors.Is.
var (
	ErrNotInitialized      = errors.New("sknn: estimator is not initialized, call Fit first")
	ErrAlreadyInitialized  = errors.New("sknn: estimator is already initialized")
	ErrUnknownLayerKind    = errors.New("sknn: unknown layer kind")
	ErrUnknownLearningRule = errors.New("sknn: unknown learning rule")
	ErrNoLayers            = errors.New("sknn: at least one output layer is required")
	ErrBadOutputLayer      = errors.New("sknn: network needs exactly one output layer, last")
	ErrSampleMismatch      = errors.New("sknn: inputs and targets have different sample counts")
	ErrBothValidSetAndSize = errors.New("sknn: ValidSet and ValidSize are mutually exclusive")
	ErrMissingInputGrid    = errors.New("sknn: convolution networks require Config.InputGrid")
)

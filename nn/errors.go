package nn

import "errors"

var (
	// ErrInvalidTopology reports hyperparameters that cannot describe a network.
	ErrInvalidTopology = errors.New("invalid topology")
	// ErrTopologyMismatch reports crossover between networks of different shape.
	ErrTopologyMismatch = errors.New("topology mismatch")
	// ErrDimensionMismatch reports an input vector of the wrong length.
	ErrDimensionMismatch = errors.New("dimension mismatch")
	// ErrFormat reports malformed serialized network data.
	ErrFormat = errors.New("malformed network data")
)

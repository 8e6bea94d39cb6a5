package evo

import "errors"

var (
	// ErrMissingFitness reports a payload factory whose payloads carry no fitness function.
	ErrMissingFitness = errors.New("invalid agent payload factory, fitness function not found")
	// ErrInvalidConfig reports configuration values the engine cannot run with.
	ErrInvalidConfig = errors.New("config error")
)

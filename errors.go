package shatter

import "errors"

var (
	// ErrResourceUnavailable reports that the frame or the ray query service
	// could not be read at capture time. The capture is aborted and the field
	// keeps its previous state.
	ErrResourceUnavailable = errors.New("shatter: resource unavailable")

	// ErrNoHit is returned by a RayQuerier when the ray finds no surface.
	// It is per-sample and never fatal.
	ErrNoHit = errors.New("shatter: ray hit nothing")

	// ErrInvalidMode reports an unrecognized moving mode in configuration.
	ErrInvalidMode = errors.New("shatter: invalid moving mode")

	// ErrInvalidConfig reports a configuration value out of range.
	ErrInvalidConfig = errors.New("shatter: invalid config")
)

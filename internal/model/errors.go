package model

import (
	"errors"
	"fmt"
)

// Causes carried by InputError.
var (
	// ErrNoMatchingFrames marks a requested protocol tag that matched no
	// frame in the capture.
	ErrNoMatchingFrames = errors.New("no frames match protocol tag")
	// ErrNonMonotonic marks a group whose timestamps go backwards. A
	// delta of exactly zero is valid and never triggers this.
	ErrNonMonotonic = errors.New("timestamps are not monotonically non-decreasing")
	// ErrMissingTimestamp marks a frame that carries no usable timestamp.
	ErrMissingTimestamp = errors.New("frame has no timestamp")
)

// DecodeError indicates the capture could not be decoded into frame
// records. It is fatal: the run aborts and no partial statistics are
// produced.
type DecodeError struct {
	Path string
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("failed to decode capture %q: %v", e.Path, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// InputError indicates a problem with the frames of a single protocol
// group. It is reported per group and does not abort statistics
// computation for the other groups.
type InputError struct {
	Group string
	Err   error
}

func (e *InputError) Error() string {
	return fmt.Sprintf("group %q: %v", e.Group, e.Err)
}

func (e *InputError) Unwrap() error { return e.Err }

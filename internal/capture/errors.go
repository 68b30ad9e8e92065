package capture

import (
	"context"
	"errors"
)

var (
	// ErrDeviceUnavailable means the device could not be opened or did not
	// report ready.
	ErrDeviceUnavailable = errors.New("video device not available")
	// ErrDeviceDisconnected means a frame read failed mid-operation or no
	// frame was ever delivered.
	ErrDeviceDisconnected = errors.New("camera disconnected")
)

// Status is the outcome of a capture invocation.
type Status int

const (
	StatusOK Status = iota
	StatusDeviceUnavailable
	StatusDeviceDisconnected
	StatusCancelled
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusDeviceUnavailable:
		return "device_unavailable"
	case StatusDeviceDisconnected:
		return "device_disconnected"
	case StatusCancelled:
		return "cancelled"
	default:
		return "failed"
	}
}

// Classify maps an error returned by the pipeline to a Status.
func Classify(err error) Status {
	switch {
	case err == nil:
		return StatusOK
	case errors.Is(err, ErrDeviceUnavailable):
		return StatusDeviceUnavailable
	case errors.Is(err, ErrDeviceDisconnected):
		return StatusDeviceDisconnected
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return StatusCancelled
	default:
		return StatusFailed
	}
}

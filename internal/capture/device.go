package capture

import "context"

// Frame is a decoded pixel buffer owned by whoever read it.
type Frame interface {
	Size() Resolution
	// Close releases the pixel buffer. Closing twice is a no-op.
	Close() error
}

// Session is an open handle on a capture device.
type Session interface {
	// Ready reports whether the device can deliver frames.
	Ready() bool
	// Read blocks for the next frame.
	Read() (Frame, error)
	// Close releases the device.
	Close() error
}

// Opener opens capture devices.
type Opener interface {
	// Open configures the device for MJPG at the requested resolution and
	// frame rate. The frame rate is a hint.
	Open(cfg Config) (Session, error)
}

// Renderer transforms frames in place or by replacement.
type Renderer interface {
	// Rotate takes ownership of f and returns the rotated frame. For
	// RotateNone it returns f itself. On error f has been closed.
	Rotate(f Frame, r Rotation) (Frame, error)
	// Stamp burns label into the bottom-right corner of f.
	Stamp(f Frame, label string)
}

// VideoWriter appends frames to a video container of fixed geometry.
type VideoWriter interface {
	Write(f Frame) error
	Close() error
}

// Encoder produces output files.
type Encoder interface {
	EncodeImage(path string, f Frame, quality int) error
	NewVideoWriter(path string, fps float64, size Resolution) (VideoWriter, error)
}

// Backend is everything the pipeline needs from an imaging library.
type Backend interface {
	Opener
	Renderer
	Encoder
}

// Finalizer publishes a finished temp file at its destination.
type Finalizer interface {
	Finalize(ctx context.Context, tmp, dst string) error
}

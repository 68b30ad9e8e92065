// Package opencv implements the capture backend on top of gocv.
package opencv

import (
	"gocv.io/x/gocv"

	"github.com/smazurov/snapcam/internal/capture"
)

// Frame is a gocv.Mat that can be closed more than once.
type Frame struct {
	mat    gocv.Mat
	closed bool
}

// NewFrame wraps mat. The frame owns it from now on.
func NewFrame(mat gocv.Mat) *Frame {
	return &Frame{mat: mat}
}

// Mat returns the underlying matrix.
func (f *Frame) Mat() *gocv.Mat {
	return &f.mat
}

// Size implements capture.Frame.
func (f *Frame) Size() capture.Resolution {
	if f.closed {
		return capture.Resolution{}
	}
	return capture.Resolution{Width: f.mat.Cols(), Height: f.mat.Rows()}
}

// Close implements capture.Frame.
func (f *Frame) Close() error {
	if f.closed {
		return nil
	}
	f.closed = true
	return f.mat.Close()
}

func asFrame(f capture.Frame) (*Frame, bool) {
	cf, ok := f.(*Frame)
	return cf, ok
}

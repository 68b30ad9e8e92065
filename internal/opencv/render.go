package opencv

import (
	"fmt"
	"image/color"

	"gocv.io/x/gocv"

	"github.com/smazurov/snapcam/internal/capture"
)

// Overlay text style.
const (
	stampFont      = gocv.FontHersheySimplex
	stampScale     = 1.0
	stampThickness = 2
)

var (
	stampBoxColor  = color.RGBA{R: 0, G: 125, B: 0, A: 255}
	stampTextColor = color.RGBA{R: 255, G: 255, B: 255, A: 255}
)

var rotateCodes = map[capture.Rotation]gocv.RotateFlag{
	capture.RotateCW90:  gocv.Rotate90Clockwise,
	capture.Rotate180:   gocv.Rotate180Clockwise,
	capture.RotateCCW90: gocv.Rotate90CounterClockwise,
}

// Rotate implements capture.Renderer.
func (b *Backend) Rotate(f capture.Frame, r capture.Rotation) (capture.Frame, error) {
	if r == capture.RotateNone {
		return f, nil
	}
	src, ok := asFrame(f)
	if !ok {
		_ = f.Close()
		return nil, fmt.Errorf("unsupported frame type %T", f)
	}
	code, ok := rotateCodes[r]
	if !ok {
		_ = src.Close()
		return nil, fmt.Errorf("unsupported rotation %s", r)
	}

	dst := gocv.NewMat()
	gocv.Rotate(src.mat, &dst, code)
	_ = src.Close()
	return NewFrame(dst), nil
}

// Stamp implements capture.Renderer. Frames without pixels are left alone.
func (b *Backend) Stamp(f capture.Frame, label string) {
	cf, ok := asFrame(f)
	if !ok || cf.closed || cf.mat.Empty() || label == "" {
		return
	}

	size, _ := gocv.GetTextSizeWithBaseline(label, stampFont, stampScale, stampThickness)
	layout, ok := capture.StampLayout(cf.Size(), capture.Resolution{Width: size.X, Height: size.Y})
	if !ok {
		return
	}

	gocv.Rectangle(&cf.mat, layout.Box, stampBoxColor, -1)
	gocv.PutTextWithParams(&cf.mat, label, layout.Origin, stampFont, stampScale,
		stampTextColor, stampThickness, gocv.LineAA, false)
}

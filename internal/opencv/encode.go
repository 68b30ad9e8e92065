package opencv

import (
	"errors"
	"fmt"
	"image"

	"gocv.io/x/gocv"

	"github.com/smazurov/snapcam/internal/capture"
)

// videoCodec is the FOURCC OpenCV's FFmpeg backend writes into .mp4 files.
const videoCodec = "mp4v"

// EncodeImage implements capture.Encoder.
func (b *Backend) EncodeImage(path string, f capture.Frame, quality int) error {
	cf, ok := asFrame(f)
	if !ok {
		return fmt.Errorf("unsupported frame type %T", f)
	}
	if cf.closed || cf.mat.Empty() {
		return errEmptyFrame
	}
	if !gocv.IMWriteWithParams(path, cf.mat, []int{int(gocv.IMWriteJpegQuality), quality}) {
		return fmt.Errorf("imwrite %s failed", path)
	}
	return nil
}

type videoWriter struct {
	vw   *gocv.VideoWriter
	size capture.Resolution
}

// NewVideoWriter implements capture.Encoder.
func (b *Backend) NewVideoWriter(path string, fps float64, size capture.Resolution) (capture.VideoWriter, error) {
	vw, err := gocv.VideoWriterFile(path, videoCodec, fps, size.Width, size.Height, true)
	if err != nil {
		return nil, fmt.Errorf("create video writer %s: %w", path, err)
	}
	if !vw.IsOpened() {
		_ = vw.Close()
		return nil, fmt.Errorf("video writer %s did not open", path)
	}
	return &videoWriter{vw: vw, size: size}, nil
}

// Write appends f. Frames of another size are scaled to the writer's
// geometry, since the container would otherwise silently drop them.
func (w *videoWriter) Write(f capture.Frame) error {
	cf, ok := asFrame(f)
	if !ok {
		return fmt.Errorf("unsupported frame type %T", f)
	}
	if cf.closed || cf.mat.Empty() {
		return errEmptyFrame
	}

	if cf.Size() == w.size {
		return w.vw.Write(cf.mat)
	}

	scaled := gocv.NewMat()
	defer scaled.Close()
	gocv.Resize(cf.mat, &scaled, image.Pt(w.size.Width, w.size.Height), 0, 0, gocv.InterpolationLinear)
	return w.vw.Write(scaled)
}

func (w *videoWriter) Close() error {
	if w.vw == nil {
		return errors.New("video writer already closed")
	}
	err := w.vw.Close()
	w.vw = nil
	return err
}

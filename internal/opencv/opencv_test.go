package opencv

import (
	"bytes"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"gocv.io/x/gocv"

	"github.com/smazurov/snapcam/internal/capture"
)

func filledFrame(size capture.Resolution, c color.RGBA) *Frame {
	return NewFrame(gocv.NewMatWithSizeFromScalar(
		gocv.NewScalar(float64(c.B), float64(c.G), float64(c.R), 0),
		size.Height, size.Width, gocv.MatTypeCV8UC3))
}

// gradientFrame has a distinct value in every column so rotations are
// distinguishable.
func gradientFrame(size capture.Resolution) *Frame {
	mat := gocv.NewMatWithSize(size.Height, size.Width, gocv.MatTypeCV8UC3)
	for y := 0; y < size.Height; y++ {
		for x := 0; x < size.Width; x++ {
			mat.SetUCharAt(y, x*3, uint8(x))
			mat.SetUCharAt(y, x*3+1, uint8(y))
		}
	}
	return NewFrame(mat)
}

func TestRotateDimensions(t *testing.T) {
	b := NewBackend()
	in := capture.Resolution{Width: 64, Height: 48}

	tests := []struct {
		r    capture.Rotation
		want capture.Resolution
	}{
		{capture.RotateNone, in},
		{capture.RotateCW90, capture.Resolution{Width: 48, Height: 64}},
		{capture.RotateCCW90, capture.Resolution{Width: 48, Height: 64}},
		{capture.Rotate180, in},
	}

	for _, tt := range tests {
		t.Run(tt.r.String(), func(t *testing.T) {
			out, err := b.Rotate(filledFrame(in, color.RGBA{}), tt.r)
			if err != nil {
				t.Fatalf("Rotate() error = %v", err)
			}
			defer out.Close()
			if got := out.Size(); got != tt.want {
				t.Errorf("Size() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestRotateNoneReturnsSameFrame(t *testing.T) {
	b := NewBackend()
	f := filledFrame(capture.Resolution{Width: 8, Height: 8}, color.RGBA{})
	defer f.Close()

	out, err := b.Rotate(f, capture.RotateNone)
	if err != nil {
		t.Fatalf("Rotate() error = %v", err)
	}
	if out != capture.Frame(f) {
		t.Error("Rotate(none) returned a different frame")
	}
}

func TestRotate180Twice(t *testing.T) {
	b := NewBackend()
	size := capture.Resolution{Width: 32, Height: 24}
	orig := gradientFrame(size)
	defer orig.Close()
	want := orig.mat.ToBytes()

	clone := NewFrame(orig.mat.Clone())
	once, err := b.Rotate(clone, capture.Rotate180)
	if err != nil {
		t.Fatal(err)
	}
	if bytes.Equal(once.(*Frame).mat.ToBytes(), want) {
		t.Fatal("180 rotation left pixels unchanged")
	}
	twice, err := b.Rotate(once, capture.Rotate180)
	if err != nil {
		t.Fatal(err)
	}
	defer twice.Close()

	if !bytes.Equal(twice.(*Frame).mat.ToBytes(), want) {
		t.Error("rotating 180 twice did not restore the original pixels")
	}
}

func TestRotateCWThenCCW(t *testing.T) {
	b := NewBackend()
	orig := gradientFrame(capture.Resolution{Width: 20, Height: 10})
	defer orig.Close()

	f, err := b.Rotate(NewFrame(orig.mat.Clone()), capture.RotateCW90)
	if err != nil {
		t.Fatal(err)
	}
	f, err = b.Rotate(f, capture.RotateCCW90)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	if !bytes.Equal(f.(*Frame).mat.ToBytes(), orig.mat.ToBytes()) {
		t.Error("cw90 then ccw90 did not restore the original pixels")
	}
}

func TestStampIsIdempotentForSameLabel(t *testing.T) {
	b := NewBackend()
	size := capture.Resolution{Width: 640, Height: 480}
	once := filledFrame(size, color.RGBA{R: 30, G: 30, B: 30})
	defer once.Close()
	twice := filledFrame(size, color.RGBA{R: 30, G: 30, B: 30})
	defer twice.Close()

	const label = "2024-03-09 14:05"
	b.Stamp(once, label)
	b.Stamp(twice, label)
	b.Stamp(twice, label)

	if !bytes.Equal(once.mat.ToBytes(), twice.mat.ToBytes()) {
		t.Error("stamping twice differs from stamping once")
	}
}

func TestStampDrawsBottomRight(t *testing.T) {
	b := NewBackend()
	size := capture.Resolution{Width: 640, Height: 480}
	f := filledFrame(size, color.RGBA{})
	defer f.Close()

	b.Stamp(f, "2024-03-09 14:05")

	// Top-left stays black, the padding corner of the box turns green.
	if v := f.mat.GetVecbAt(0, 0); v[0] != 0 || v[1] != 0 || v[2] != 0 {
		t.Errorf("pixel (0,0) = %v, want black", v)
	}
	corner := f.mat.GetVecbAt(size.Height-capture.StampMargin+capture.StampPadding-1, size.Width-capture.StampPadding-1)
	if corner[1] != 125 || corner[0] != 0 || corner[2] != 0 {
		t.Errorf("box corner = %v, want BGR (0,125,0)", corner)
	}
}

func TestStampEmptyFrameIsNoop(t *testing.T) {
	b := NewBackend()
	f := NewFrame(gocv.NewMat())
	defer f.Close()

	b.Stamp(f, "2024-03-09 14:05")
	if !f.mat.Empty() {
		t.Error("stamping an empty frame allocated pixels")
	}
}

func TestFrameCloseTwice(t *testing.T) {
	f := filledFrame(capture.Resolution{Width: 4, Height: 4}, color.RGBA{})
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}
	if err := f.Close(); err != nil {
		t.Errorf("second Close() = %v, want nil", err)
	}
	if got := f.Size(); !got.Empty() {
		t.Errorf("Size() after Close = %s", got)
	}
}

func TestEncodeImage(t *testing.T) {
	b := NewBackend()
	f := filledFrame(capture.Resolution{Width: 64, Height: 48}, color.RGBA{R: 200})
	defer f.Close()
	path := filepath.Join(t.TempDir(), "still.jpg")

	if err := b.EncodeImage(path, f, 90); err != nil {
		t.Fatalf("EncodeImage() error = %v", err)
	}

	img := gocv.IMRead(path, gocv.IMReadColor)
	defer img.Close()
	if img.Cols() != 64 || img.Rows() != 48 {
		t.Errorf("decoded %dx%d, want 64x48", img.Cols(), img.Rows())
	}
}

func TestVideoWriterResizesMismatchedFrames(t *testing.T) {
	b := NewBackend()
	path := filepath.Join(t.TempDir(), "clip.mp4")
	size := capture.Resolution{Width: 64, Height: 48}

	w, err := b.NewVideoWriter(path, 10, size)
	if err != nil {
		t.Skipf("no mp4v encoder available: %v", err)
	}
	for i := 0; i < 5; i++ {
		f := filledFrame(capture.Resolution{Width: 32, Height: 24}, color.RGBA{G: uint8(i * 40)})
		if err := w.Write(f); err != nil {
			t.Fatalf("Write(%d) error = %v", i, err)
		}
		f.Close()
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("video not written: %v", err)
	}
	if info.Size() == 0 {
		t.Error("video file is empty")
	}
}

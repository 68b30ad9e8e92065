package capture

import (
	"errors"
	"fmt"
	"time"
)

// Defaults for a USB webcam at 720p.
const (
	DefaultDevice       = 0
	DefaultWidth        = 1280
	DefaultHeight       = 720
	DefaultFrameRate    = 30
	DefaultClipDuration = 5 * time.Second
	DefaultWarmup       = time.Second
	DefaultJPEGQuality  = 95
	DefaultImagePath    = "output.jpg"
	DefaultVideoPath    = "output.mp4"
)

// Resolution is a frame size in pixels.
type Resolution struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Empty reports whether either dimension is zero or negative.
func (r Resolution) Empty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// String returns the resolution in "WIDTHxHEIGHT" form.
func (r Resolution) String() string {
	return fmt.Sprintf("%dx%d", r.Width, r.Height)
}

// Config holds the capture settings. It is built once at startup and
// passed by value into the pipeline; the pipeline never mutates it.
type Config struct {
	// Device is the V4L2 index, 0 for /dev/video0.
	Device     int
	Resolution Resolution
	// FrameRate is only a request. The rate written into video files is
	// measured from the frames the device actually delivered.
	FrameRate    float64
	ClipDuration time.Duration
	// Warmup is how long a still capture reads frames before keeping the
	// last one, so auto exposure can settle.
	Warmup      time.Duration
	Rotation    Rotation
	ImagePath   string
	VideoPath   string
	JPEGQuality int
}

// DefaultConfig returns the settings used when nothing is configured.
func DefaultConfig() Config {
	return Config{
		Device:       DefaultDevice,
		Resolution:   Resolution{Width: DefaultWidth, Height: DefaultHeight},
		FrameRate:    DefaultFrameRate,
		ClipDuration: DefaultClipDuration,
		Warmup:       DefaultWarmup,
		Rotation:     RotateNone,
		ImagePath:    DefaultImagePath,
		VideoPath:    DefaultVideoPath,
		JPEGQuality:  DefaultJPEGQuality,
	}
}

// Validate checks that the configuration can drive a capture.
func (c Config) Validate() error {
	var errs []error
	if c.Device < 0 {
		errs = append(errs, fmt.Errorf("device index must be >= 0, got %d", c.Device))
	}
	if c.Resolution.Empty() {
		errs = append(errs, fmt.Errorf("resolution must be positive, got %s", c.Resolution))
	}
	if c.FrameRate <= 0 {
		errs = append(errs, fmt.Errorf("frame rate must be positive, got %v", c.FrameRate))
	}
	if c.ClipDuration <= 0 {
		errs = append(errs, fmt.Errorf("clip duration must be positive, got %s", c.ClipDuration))
	}
	if c.Warmup < 0 {
		errs = append(errs, fmt.Errorf("warm-up must not be negative, got %s", c.Warmup))
	}
	if c.ImagePath == "" {
		errs = append(errs, errors.New("image path is required"))
	}
	if c.VideoPath == "" {
		errs = append(errs, errors.New("video path is required"))
	}
	if c.JPEGQuality < 0 || c.JPEGQuality > 100 {
		errs = append(errs, fmt.Errorf("jpeg quality must be within 0-100, got %d", c.JPEGQuality))
	}
	return errors.Join(errs...)
}

// OutputSize returns the size of frames after rotation. Video writers are
// created with this size because they fix geometry at creation.
func (c Config) OutputSize() Resolution {
	return c.Rotation.Apply(c.Resolution)
}

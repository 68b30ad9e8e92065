// Package capture drives a camera device to produce stamped photos and
// fixed-duration video clips.
package capture

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/smazurov/snapcam/internal/logging"
)

// Kind identifies what an invocation produced.
type Kind string

const (
	KindPhoto Kind = "photo"
	KindVideo Kind = "video"
)

// Result describes a finished capture.
type Result struct {
	ID   string `json:"id"`
	Kind Kind   `json:"kind"`
	Path string `json:"path"`
	// Frames is how many frames were read from the device.
	Frames int `json:"frames"`
	// FPS is the measured frame rate. Zero for photos.
	FPS     float64       `json:"fps,omitempty"`
	Size    Resolution    `json:"size"`
	Started time.Time     `json:"started"`
	Elapsed time.Duration `json:"elapsed_ns"`
}

// PipelineOptions configures a new Pipeline.
type PipelineOptions struct {
	// VideoFinalizer publishes finished clips. If nil, clips are renamed
	// into place.
	VideoFinalizer Finalizer

	// Clock returns the current time. If nil, uses time.Now.
	Clock func() time.Time

	// Logger for pipeline operations. If nil, uses the "capture" module logger.
	Logger logging.Logger
}

// Pipeline runs still and video captures against one device. Callers must
// not run two invocations at once; the device is opened per invocation.
type Pipeline struct {
	cfg       Config
	backend   Backend
	finalizer Finalizer
	now       func() time.Time
	logger    logging.Logger
}

// NewPipeline returns a pipeline bound to cfg. The config is copied.
func NewPipeline(cfg Config, backend Backend, opts PipelineOptions) *Pipeline {
	p := &Pipeline{
		cfg:       cfg,
		backend:   backend,
		finalizer: opts.VideoFinalizer,
		now:       opts.Clock,
		logger:    opts.Logger,
	}
	if p.finalizer == nil {
		p.finalizer = RenameFinalizer{}
	}
	if p.now == nil {
		p.now = time.Now
	}
	if p.logger == nil {
		p.logger = logging.GetLogger("capture")
	}
	return p
}

// session wraps an open Session so it is closed once on every path.
type session struct {
	Session
	once   sync.Once
	logger logging.Logger
}

func (s *session) release() {
	s.once.Do(func() {
		if err := s.Session.Close(); err != nil {
			s.logger.Warn("Failed to release video device", "error", err)
		}
	})
}

func (p *Pipeline) open() (*session, error) {
	raw, err := p.backend.Open(p.cfg)
	if err != nil {
		p.logger.Error("Video device not available", "device", p.cfg.Device, "error", err)
		return nil, fmt.Errorf("%w: device %d: %w", ErrDeviceUnavailable, p.cfg.Device, err)
	}

	s := &session{Session: raw, logger: p.logger}
	if !s.Ready() {
		s.release()
		p.logger.Error("Video device not available", "device", p.cfg.Device)
		return nil, fmt.Errorf("%w: device %d not ready", ErrDeviceUnavailable, p.cfg.Device)
	}
	return s, nil
}

// render rotates f and burns the current time into it. It takes ownership
// of f and returns the frame to encode.
func (p *Pipeline) render(f Frame) (Frame, error) {
	out, err := p.backend.Rotate(f, p.cfg.Rotation)
	if err != nil {
		return nil, fmt.Errorf("rotate frame %s: %w", p.cfg.Rotation, err)
	}
	p.backend.Stamp(out, TimestampLabel(p.now()))
	return out, nil
}

// tempPath returns a hidden sibling of dst that keeps its extension, so
// encoders that pick a format by extension still work. The directory is
// created if missing.
func tempPath(dst, id string) (string, error) {
	dir := filepath.Dir(dst)
	if dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", fmt.Errorf("failed to create output directory %s: %w", dir, err)
		}
	}
	base := filepath.Base(dst)
	ext := filepath.Ext(base)
	return filepath.Join(dir, fmt.Sprintf(".%s-%s%s", strings.TrimSuffix(base, ext), id, ext)), nil
}

func closeFrame(f Frame) {
	if f != nil {
		_ = f.Close()
	}
}

func newID() string {
	return uuid.NewString()
}

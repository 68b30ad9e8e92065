package opencv

import (
	"errors"
	"fmt"

	"gocv.io/x/gocv"

	"github.com/smazurov/snapcam/internal/capture"
	"github.com/smazurov/snapcam/internal/logging"
)

var errEmptyFrame = errors.New("empty frame")

// Backend opens V4L2 devices and renders/encodes frames with OpenCV.
type Backend struct {
	logger logging.Logger
}

// NewBackend returns a gocv backend.
func NewBackend() *Backend {
	return &Backend{logger: logging.GetLogger("capture")}
}

type session struct {
	vc *gocv.VideoCapture
}

// Open implements capture.Opener. MJPG is requested because most USB
// cameras only reach full frame rate at 720p and above in MJPG.
func (b *Backend) Open(cfg capture.Config) (capture.Session, error) {
	vc, err := gocv.OpenVideoCapture(cfg.Device)
	if err != nil {
		return nil, fmt.Errorf("open video capture %d: %w", cfg.Device, err)
	}

	vc.Set(gocv.VideoCaptureFrameWidth, float64(cfg.Resolution.Width))
	vc.Set(gocv.VideoCaptureFrameHeight, float64(cfg.Resolution.Height))
	vc.Set(gocv.VideoCaptureFOURCC, vc.ToCodec("MJPG"))
	vc.Set(gocv.VideoCaptureFPS, cfg.FrameRate)

	b.logger.Debug("Video device configured",
		"device", cfg.Device,
		"width", vc.Get(gocv.VideoCaptureFrameWidth),
		"height", vc.Get(gocv.VideoCaptureFrameHeight),
		"fps", vc.Get(gocv.VideoCaptureFPS))

	return &session{vc: vc}, nil
}

func (s *session) Ready() bool {
	return s.vc.IsOpened()
}

func (s *session) Read() (capture.Frame, error) {
	mat := gocv.NewMat()
	if ok := s.vc.Read(&mat); !ok {
		mat.Close()
		return nil, errors.New("read from video capture failed")
	}
	if mat.Empty() {
		mat.Close()
		return nil, errEmptyFrame
	}
	return NewFrame(mat), nil
}

func (s *session) Close() error {
	return s.vc.Close()
}

package capture

import (
	"context"
	"fmt"
	"os"
)

// CaptureStill opens the device, reads frames for the warm-up window so
// exposure settles, then rotates, stamps and writes the last frame as a
// JPEG to the configured image path.
func (p *Pipeline) CaptureStill(ctx context.Context) (Result, error) {
	start := p.now()
	res := Result{ID: newID(), Kind: KindPhoto, Path: p.cfg.ImagePath, Started: start}

	s, err := p.open()
	if err != nil {
		return res, err
	}
	defer s.release()

	frame, n, err := p.warmUp(ctx, s)
	res.Frames = n
	if err != nil {
		return res, err
	}
	s.release()

	frame, err = p.render(frame)
	if err != nil {
		return res, err
	}
	defer closeFrame(frame)
	res.Size = frame.Size()

	tmp, err := tempPath(p.cfg.ImagePath, res.ID)
	if err != nil {
		return res, err
	}
	if err := p.backend.EncodeImage(tmp, frame, p.cfg.JPEGQuality); err != nil {
		_ = os.Remove(tmp)
		return res, fmt.Errorf("encode image: %w", err)
	}
	if err := (RenameFinalizer{}).Finalize(ctx, tmp, p.cfg.ImagePath); err != nil {
		_ = os.Remove(tmp)
		return res, err
	}

	res.Elapsed = p.now().Sub(start)
	p.logger.Info("Photo captured", "id", res.ID, "path", res.Path, "size", res.Size.String(), "warmup_frames", n)
	return res, nil
}

// warmUp reads for the warm-up window, keeping only the newest frame. At
// least one read is always attempted.
func (p *Pipeline) warmUp(ctx context.Context, s Session) (Frame, int, error) {
	var last Frame
	n := 0
	start := p.now()

	for first := true; first || p.now().Sub(start) < p.cfg.Warmup; first = false {
		if err := ctx.Err(); err != nil {
			closeFrame(last)
			return nil, n, fmt.Errorf("warm-up interrupted: %w", err)
		}

		f, err := s.Read()
		if err != nil {
			closeFrame(last)
			p.logger.Error("Camera disconnected", "device", p.cfg.Device, "frames", n, "error", err)
			return nil, n, fmt.Errorf("%w: read failed after %d frames: %w", ErrDeviceDisconnected, n, err)
		}
		if f == nil {
			continue
		}
		closeFrame(last)
		last = f
		n++
	}

	if last == nil {
		p.logger.Error("Camera disconnected", "device", p.cfg.Device, "frames", 0)
		return nil, 0, fmt.Errorf("%w: no frame during %s warm-up", ErrDeviceDisconnected, p.cfg.Warmup)
	}
	return last, n, nil
}

package capture

import (
	"context"
	"errors"
	"fmt"
	"os"
)

// CaptureVideo records frames for the clip duration, then encodes them to
// the configured video path. The container frame rate is the measured
// rate, frames collected divided by the clip duration.
func (p *Pipeline) CaptureVideo(ctx context.Context) (Result, error) {
	start := p.now()
	res := Result{ID: newID(), Kind: KindVideo, Path: p.cfg.VideoPath, Started: start}

	s, err := p.open()
	if err != nil {
		return res, err
	}
	defer s.release()

	p.logger.Info("Starting video record", "id", res.ID, "device", p.cfg.Device, "duration", p.cfg.ClipDuration.String())

	frames, err := p.record(ctx, s)
	defer closeFrames(frames)
	res.Frames = len(frames)
	if err != nil {
		return res, err
	}
	s.release()

	res.FPS = float64(len(frames)) / p.cfg.ClipDuration.Seconds()
	res.Size = p.cfg.OutputSize()

	tmp, err := tempPath(p.cfg.VideoPath, res.ID)
	if err != nil {
		return res, err
	}
	if err := p.encodeClip(ctx, tmp, res, frames); err != nil {
		_ = os.Remove(tmp)
		return res, err
	}
	if err := p.finalizer.Finalize(ctx, tmp, p.cfg.VideoPath); err != nil {
		_ = os.Remove(tmp)
		return res, fmt.Errorf("finalize video: %w", err)
	}

	res.Elapsed = p.now().Sub(start)
	p.logger.Info("End video record", "id", res.ID, "frames", res.Frames, "avg_fps", res.FPS)
	return res, nil
}

// record buffers frames until the clip duration has elapsed since the first
// read attempt. Any failed read aborts the recording.
func (p *Pipeline) record(ctx context.Context, s Session) ([]Frame, error) {
	var frames []Frame
	start := p.now()

	for p.now().Sub(start) < p.cfg.ClipDuration {
		if err := ctx.Err(); err != nil {
			return frames, fmt.Errorf("recording interrupted: %w", err)
		}

		f, err := s.Read()
		if err != nil {
			p.logger.Error("Camera disconnected", "device", p.cfg.Device, "frames", len(frames), "error", err)
			return frames, fmt.Errorf("%w: read failed after %d frames: %w", ErrDeviceDisconnected, len(frames), err)
		}
		if f != nil {
			frames = append(frames, f)
		}
	}

	if len(frames) == 0 {
		p.logger.Error("Camera disconnected", "device", p.cfg.Device, "frames", 0)
		return nil, fmt.Errorf("%w: no frames in %s", ErrDeviceDisconnected, p.cfg.ClipDuration)
	}
	return frames, nil
}

// encodeClip writes frames in capture order. Each frame is handed to the
// renderer and cleared from the slice, so closeFrames only sees what was
// never written.
func (p *Pipeline) encodeClip(ctx context.Context, path string, res Result, frames []Frame) (err error) {
	w, err := p.backend.NewVideoWriter(path, res.FPS, res.Size)
	if err != nil {
		return fmt.Errorf("open video writer: %w", err)
	}
	defer func() {
		if cerr := w.Close(); cerr != nil {
			err = errors.Join(err, fmt.Errorf("close video writer: %w", cerr))
		}
	}()

	for i, f := range frames {
		frames[i] = nil
		if err := ctx.Err(); err != nil {
			closeFrame(f)
			return fmt.Errorf("encoding interrupted at frame %d: %w", i, err)
		}

		out, err := p.render(f)
		if err != nil {
			return fmt.Errorf("frame %d: %w", i, err)
		}
		werr := w.Write(out)
		closeFrame(out)
		if werr != nil {
			return fmt.Errorf("write frame %d: %w", i, werr)
		}
	}
	return nil
}

func closeFrames(frames []Frame) {
	for _, f := range frames {
		closeFrame(f)
	}
}

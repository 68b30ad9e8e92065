package ffmpeg

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/smazurov/snapcam/internal/logging"
)

// DefaultTimeout bounds a single transcode.
const DefaultTimeout = 60 * time.Second

// FaststartFinalizer transcodes a recorded clip to H.264 with the moov atom
// up front, then publishes it. When ffmpeg is not installed or fails, the
// clip is published as recorded.
type FaststartFinalizer struct {
	// Binary is the ffmpeg executable. Defaults to "ffmpeg" on PATH.
	Binary string
	// Timeout bounds the transcode. Defaults to DefaultTimeout.
	Timeout time.Duration
	// Params overrides the encoder settings; Input and Output are ignored.
	Params *Params
	Logger logging.Logger
}

// NewFaststartFinalizer returns a finalizer using ffmpeg from PATH.
func NewFaststartFinalizer() *FaststartFinalizer {
	return &FaststartFinalizer{
		Binary:  "ffmpeg",
		Timeout: DefaultTimeout,
		Logger:  logging.GetLogger("ffmpeg"),
	}
}

// Available reports whether the ffmpeg binary can be found.
func (f *FaststartFinalizer) Available() bool {
	_, err := exec.LookPath(f.binary())
	return err == nil
}

// Finalize implements capture.Finalizer. tmp is always removed.
func (f *FaststartFinalizer) Finalize(ctx context.Context, tmp, dst string) error {
	defer os.Remove(tmp)

	bin, err := exec.LookPath(f.binary())
	if err != nil {
		f.logger().Warn("ffmpeg not found, publishing clip without transcode", "binary", f.binary())
		return publish(tmp, dst)
	}

	out := transcodePath(dst)
	defer os.Remove(out)

	if err := f.transcode(ctx, bin, tmp, out); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return fmt.Errorf("transcode %s: %w", dst, ctxErr)
		}
		f.logger().Warn("Transcode failed, publishing clip as recorded", "error", err)
		return publish(tmp, dst)
	}
	return publish(out, dst)
}

func (f *FaststartFinalizer) transcode(ctx context.Context, bin, in, out string) error {
	timeout := f.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	params := DefaultParams(in, out)
	if f.Params != nil {
		params = *f.Params
		params.Input, params.Output = in, out
	}
	args := BuildArgs(params)

	cmd := exec.CommandContext(ctx, bin, args...)
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return err
	}

	start := time.Now()
	f.logger().Debug("Running ffmpeg", "command", bin+" "+strings.Join(args, " "))
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start ffmpeg: %w", err)
	}

	lastErr := logOutput(f.logger(), stderr)
	if err := cmd.Wait(); err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return fmt.Errorf("ffmpeg timed out after %s", timeout)
		}
		if lastErr != "" {
			return fmt.Errorf("ffmpeg: %w: %s", err, lastErr)
		}
		return fmt.Errorf("ffmpeg: %w", err)
	}

	if info, err := os.Stat(out); err != nil || info.Size() == 0 {
		return errors.New("ffmpeg produced no output")
	}
	f.logger().Info("Clip transcoded", "output", out, "elapsed", time.Since(start).String())
	return nil
}

func (f *FaststartFinalizer) binary() string {
	if f.Binary == "" {
		return "ffmpeg"
	}
	return f.Binary
}

func (f *FaststartFinalizer) logger() logging.Logger {
	if f.Logger == nil {
		return logging.GetLogger("ffmpeg")
	}
	return f.Logger
}

// transcodePath is a hidden sibling of dst with the same extension, so the
// final rename stays on one filesystem and ffmpeg picks the muxer by name.
func transcodePath(dst string) string {
	dir, base := filepath.Split(dst)
	ext := filepath.Ext(base)
	return filepath.Join(dir, "."+strings.TrimSuffix(base, ext)+".faststart"+ext)
}

func publish(src, dst string) error {
	if err := os.Rename(src, dst); err != nil {
		return fmt.Errorf("publish %s: %w", dst, err)
	}
	return nil
}

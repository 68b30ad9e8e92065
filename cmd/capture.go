package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/smazurov/snapcam/internal/capture"
	"github.com/smazurov/snapcam/internal/logging"
	"github.com/spf13/cobra"
)

// Exit codes of the photo and video commands.
const (
	ExitOK           = 0
	ExitUnavailable  = 1
	ExitDisconnected = 2
	ExitFailed       = 3
)

// ExitCode maps a capture error to the process exit code.
func ExitCode(err error) int {
	switch capture.Classify(err) {
	case capture.StatusOK:
		return ExitOK
	case capture.StatusDeviceUnavailable:
		return ExitUnavailable
	case capture.StatusDeviceDisconnected:
		return ExitDisconnected
	default:
		return ExitFailed
	}
}

// capturer is the part of *capture.Pipeline the commands use.
type capturer interface {
	CaptureStill(ctx context.Context) (capture.Result, error)
	CaptureVideo(ctx context.Context) (capture.Result, error)
}

// NewPhotoCmd creates the photo command.
func NewPhotoCmd(settings SettingsFunc) *cobra.Command {
	return newCaptureCmd(capture.KindPhoto, settings)
}

// NewVideoCmd creates the video command.
func NewVideoCmd(settings SettingsFunc) *cobra.Command {
	return newCaptureCmd(capture.KindVideo, settings)
}

func newCaptureCmd(kind capture.Kind, settings SettingsFunc) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   string(kind),
		Short: "Take a timestamped photo and exit",
		Long: `Opens the configured device, reads frames for the warm-up period and writes the last one, ` +
			`rotated and timestamped, to the configured image path.`,
		Args: cobra.NoArgs,
		Run: func(c *cobra.Command, _ []string) {
			logger := logging.GetLogger("main")

			s, err := settings()
			if err != nil {
				logger.Error("Invalid capture configuration", "error", err)
				os.Exit(ExitFailed)
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

			code := runCapture(ctx, kind, BuildPipeline(s), c.OutOrStdout(), asJSON)
			stop()
			os.Exit(code)
		},
	}
	if kind == capture.KindVideo {
		cmd.Short = "Record a timestamped clip and exit"
		cmd.Long = `Opens the configured device, buffers frames for the clip duration and encodes them, ` +
			`rotated and timestamped, at the measured frame rate to the configured video path.`
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the capture result as JSON")

	return cmd
}

func runCapture(ctx context.Context, kind capture.Kind, p capturer, out io.Writer, asJSON bool) int {
	logger := logging.GetLogger("main")

	var res capture.Result
	var err error
	if kind == capture.KindVideo {
		res, err = p.CaptureVideo(ctx)
	} else {
		res, err = p.CaptureStill(ctx)
	}
	code := ExitCode(err)
	if err != nil {
		logger.Error("Capture failed", "kind", kind, "status", capture.Classify(err).String(), "error", err)
		if errors.Is(err, context.Canceled) {
			fmt.Fprintln(out, "interrupted")
		}
		return code
	}

	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(res); err != nil {
			logger.Error("Failed to write result", "error", err)
			return ExitFailed
		}
		return code
	}

	if kind == capture.KindVideo {
		fmt.Fprintf(out, "%s (%d frames, %.2f fps, %s)\n", res.Path, res.Frames, res.FPS, res.Size)
	} else {
		fmt.Fprintf(out, "%s (%s)\n", res.Path, res.Size)
	}
	return code
}

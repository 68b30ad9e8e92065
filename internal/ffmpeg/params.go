// Package ffmpeg post-processes recorded clips with the ffmpeg binary.
package ffmpeg

import "strconv"

// Params describes a single-input transcode of a recorded clip.
type Params struct {
	Input  string
	Output string

	// Encoder is the video codec, e.g. libx264. Empty copies the stream.
	Encoder     string
	PixelFormat string // yuv420p for broad player support
	Preset      string // ultrafast .. veryslow
	CRF         int    // 0 = not set

	// Faststart moves the moov atom to the front so playback can begin
	// before the whole file is downloaded.
	Faststart bool

	// LogLevel is passed as -loglevel level+<LogLevel>.
	LogLevel string
}

// DefaultParams returns H.264 settings that play in browsers and chat clients.
func DefaultParams(input, output string) Params {
	return Params{
		Input:       input,
		Output:      output,
		Encoder:     "libx264",
		PixelFormat: "yuv420p",
		Preset:      "veryfast",
		CRF:         23,
		Faststart:   true,
		LogLevel:    "warning",
	}
}

// BuildArgs returns the ffmpeg argument list, without the binary name.
// Audio is dropped; clips are video only.
func BuildArgs(p Params) []string {
	args := []string{"-hide_banner", "-nostdin", "-y"}
	if p.LogLevel != "" {
		args = append(args, "-loglevel", "level+"+p.LogLevel)
	}
	args = append(args, "-i", p.Input, "-an")

	if p.Encoder == "" {
		args = append(args, "-c:v", "copy")
	} else {
		args = append(args, "-c:v", p.Encoder)
		if p.PixelFormat != "" {
			args = append(args, "-pix_fmt", p.PixelFormat)
		}
		if p.Preset != "" {
			args = append(args, "-preset", p.Preset)
		}
		if p.CRF > 0 {
			args = append(args, "-crf", strconv.Itoa(p.CRF))
		}
	}

	if p.Faststart {
		args = append(args, "-movflags", "+faststart")
	}
	return append(args, p.Output)
}

// Package cmd holds the one-shot subcommands of the snapcam binary.
package cmd

import (
	"github.com/smazurov/snapcam/internal/capture"
	"github.com/smazurov/snapcam/internal/ffmpeg"
	"github.com/smazurov/snapcam/internal/opencv"
)

// Settings is what a pipeline needs from the parsed root options.
type Settings struct {
	Capture capture.Config
	// Faststart transcodes clips with ffmpeg before publishing them.
	Faststart bool
}

// SettingsFunc returns the settings once flags, env and the config file
// have been applied.
type SettingsFunc func() (Settings, error)

// BuildPipeline wires the OpenCV backend and the video finalizer.
func BuildPipeline(s Settings) *capture.Pipeline {
	var opts capture.PipelineOptions
	if s.Faststart {
		opts.VideoFinalizer = ffmpeg.NewFaststartFinalizer()
	}
	return capture.NewPipeline(s.Capture, opencv.NewBackend(), opts)
}

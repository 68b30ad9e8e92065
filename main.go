package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/danielgtaylor/huma/v2/humacli"
	"github.com/smazurov/snapcam/cmd"
	"github.com/smazurov/snapcam/internal/api"
	"github.com/smazurov/snapcam/internal/capture"
	"github.com/smazurov/snapcam/internal/config"
	"github.com/smazurov/snapcam/internal/devices"
	"github.com/smazurov/snapcam/internal/events"
	"github.com/smazurov/snapcam/internal/gateway"
	"github.com/smazurov/snapcam/internal/logging"
	"github.com/smazurov/snapcam/internal/metrics"
	"github.com/smazurov/snapcam/internal/systemd"
)

// Options for the CLI - flat structure with toml mapping.
type Options struct {
	Config string `help:"Path to configuration file" short:"c" default:"config.toml"`

	// Server settings
	Port string `help:"Port to listen on" short:"p" default:":8090" toml:"server.port" env:"SERVER_PORT"`

	// Capture settings
	CaptureDevice        int    `help:"V4L2 device index (/dev/videoN)" default:"0" toml:"capture.device" env:"CAPTURE_DEVICE"`
	CaptureWidth         int    `help:"Requested frame width" default:"1280" toml:"capture.width" env:"CAPTURE_WIDTH"`
	CaptureHeight        int    `help:"Requested frame height" default:"720" toml:"capture.height" env:"CAPTURE_HEIGHT"`
	CaptureFPS           int    `help:"Requested device frame rate" default:"30" toml:"capture.fps" env:"CAPTURE_FPS"`
	CaptureVideoDuration int    `help:"Clip length in seconds" default:"5" toml:"capture.video_duration" env:"CAPTURE_VIDEO_DURATION"`
	CaptureWarmupMs      int    `help:"Photo warm-up in milliseconds" default:"1000" toml:"capture.warmup_ms" env:"CAPTURE_WARMUP_MS"`
	CaptureRotation      string `help:"Rotation (none, cw90, ccw90, 180)" default:"none" toml:"capture.rotation" env:"CAPTURE_ROTATION"`
	CaptureImagePath     string `help:"Photo output path" default:"output.jpg" toml:"capture.image_path" env:"CAPTURE_IMAGE_PATH"`
	CaptureVideoPath     string `help:"Video output path" default:"output.mp4" toml:"capture.video_path" env:"CAPTURE_VIDEO_PATH"`
	CaptureJPEGQuality   int    `help:"JPEG quality (0-100)" default:"95" toml:"capture.jpeg_quality" env:"CAPTURE_JPEG_QUALITY"`
	CaptureFaststart     bool   `help:"Transcode clips to H.264 faststart with ffmpeg" default:"true" toml:"capture.faststart" env:"CAPTURE_FASTSTART"`

	// Gateway settings; gateway.allowed_users in the config file is watched
	// and reloaded, this flag only seeds the list.
	AllowedUsers string `help:"Comma-separated user IDs allowed to capture (overrides gateway.allowed_users at startup)" env:"GATEWAY_ALLOWED_USERS"`

	// Auth settings
	AuthUsername string `help:"Basic auth username" default:"" toml:"auth.username" env:"AUTH_USERNAME"`
	AuthPassword string `help:"Basic auth password" default:"" toml:"auth.password" env:"AUTH_PASSWORD"`

	// Observability settings
	ObsPrometheusEnabled bool `help:"Serve Prometheus metrics at /metrics" default:"true" toml:"obs.prometheus_enabled" env:"OBS_PROMETHEUS_ENABLED"`

	// Logging settings; empty module levels follow the global level
	LoggingLevel   string `help:"Global logging level (debug, info, warn, error)" default:"info" toml:"logging.level" env:"LOGGING_LEVEL"`
	LoggingFormat  string `help:"Logging format (text, json)" default:"text" toml:"logging.format" env:"LOGGING_FORMAT"`
	LoggingCapture string `help:"Capture logging level" default:"" toml:"logging.capture" env:"LOGGING_CAPTURE"`
	LoggingGateway string `help:"Gateway logging level" default:"" toml:"logging.gateway" env:"LOGGING_GATEWAY"`
	LoggingAPI     string `help:"API logging level" default:"" toml:"logging.api" env:"LOGGING_API"`
	LoggingHTTP    string `help:"HTTP request logging level" default:"" toml:"logging.http" env:"LOGGING_HTTP"`
	LoggingDevices string `help:"Devices logging level" default:"" toml:"logging.devices" env:"LOGGING_DEVICES"`
	LoggingFfmpeg  string `help:"FFmpeg logging level" default:"" toml:"logging.ffmpeg" env:"LOGGING_FFMPEG"`
	LoggingConfig  string `help:"Config watcher logging level" default:"" toml:"logging.config" env:"LOGGING_CONFIG"`
}

// CaptureConfig builds the immutable capture settings.
func (o *Options) CaptureConfig() (capture.Config, error) {
	rotation, err := capture.ParseRotation(o.CaptureRotation)
	if err != nil {
		return capture.Config{}, err
	}
	cfg := capture.Config{
		Device:       o.CaptureDevice,
		Resolution:   capture.Resolution{Width: o.CaptureWidth, Height: o.CaptureHeight},
		FrameRate:    float64(o.CaptureFPS),
		ClipDuration: time.Duration(o.CaptureVideoDuration) * time.Second,
		Warmup:       time.Duration(o.CaptureWarmupMs) * time.Millisecond,
		Rotation:     rotation,
		ImagePath:    o.CaptureImagePath,
		VideoPath:    o.CaptureVideoPath,
		JPEGQuality:  o.CaptureJPEGQuality,
	}
	return cfg, cfg.Validate()
}

// Settings returns what the pipeline needs.
func (o *Options) Settings() (cmd.Settings, error) {
	cfg, err := o.CaptureConfig()
	if err != nil {
		return cmd.Settings{}, err
	}
	return cmd.Settings{Capture: cfg, Faststart: o.CaptureFaststart}, nil
}

func (o *Options) loggingConfig() logging.Config {
	modules := map[string]string{
		"capture": o.LoggingCapture,
		"gateway": o.LoggingGateway,
		"api":     o.LoggingAPI,
		"http":    o.LoggingHTTP,
		"devices": o.LoggingDevices,
		"ffmpeg":  o.LoggingFfmpeg,
		"config":  o.LoggingConfig,
	}
	for module, level := range modules {
		if level == "" {
			delete(modules, module)
		}
	}
	return logging.Config{Level: o.LoggingLevel, Format: o.LoggingFormat, Modules: modules}
}

// fileSettings reads the reloadable part of the config file. A missing or
// broken file yields the zero value.
func (o *Options) fileSettings(logger *slog.Logger) config.Reloadable {
	r, err := config.LoadReloadable(o.Config)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			logger.Warn("Failed to read reloadable settings from config", "error", err)
		}
		return config.Reloadable{}
	}
	return r
}

// initialUsers prefers the flag/env list, then the config file.
func (o *Options) initialUsers(file config.Reloadable) []string {
	if o.AllowedUsers != "" {
		var users []string
		for _, u := range strings.Split(o.AllowedUsers, ",") {
			if u = strings.TrimSpace(u); u != "" {
				users = append(users, u)
			}
		}
		return users
	}
	return file.AllowedUsers
}

// reloader applies config file changes to the live allow-list and log levels.
type reloader struct {
	gw     *gateway.Gateway
	logger *slog.Logger
	// modules holds the module levels the file set last time.
	modules map[string]struct{}
}

func newReloader(gw *gateway.Gateway, file config.Reloadable, logger *slog.Logger) *reloader {
	return &reloader{gw: gw, logger: logger, modules: moduleNames(file.Logging.Modules)}
}

func (r *reloader) apply(c config.Reloadable) {
	if c.HasAllowedUsers {
		r.gw.ReloadAllowList(c.AllowedUsers)
	}
	if c.Logging.Level != "" {
		if err := logging.SetLevel("", c.Logging.Level); err != nil {
			r.logger.Warn("Ignoring logging level from config", "error", err)
		}
	}
	for module := range r.modules {
		if _, ok := c.Logging.Modules[module]; !ok {
			logging.ClearLevel(module)
		}
	}
	for module, level := range c.Logging.Modules {
		if err := logging.SetLevel(module, level); err != nil {
			r.logger.Warn("Ignoring module logging level from config", "module", module, "error", err)
		}
	}
	r.modules = moduleNames(c.Logging.Modules)
}

func moduleNames(levels map[string]string) map[string]struct{} {
	names := make(map[string]struct{}, len(levels))
	for module := range levels {
		names[module] = struct{}{}
	}
	return names
}

// checkDevice warns when the configured device is missing. Captures still
// run and fail with device unavailable until it is plugged in.
func checkDevice(d devices.Detector, index int, logger *slog.Logger) {
	dev, err := devices.Lookup(d, index)
	switch {
	case errors.Is(err, devices.ErrUnsupported):
		return
	case err != nil:
		logger.Warn("Capture device not found", "device", index, "error", err)
	default:
		logger.Info("Capture device found", "device", dev.Path, "name", dev.Name)
	}
}

func main() {
	var opts *Options
	var cli humacli.CLI

	cli = humacli.New(func(hooks humacli.Hooks, parsed *Options) {
		opts = parsed
		if loadErr := config.LoadConfig(opts, cli.Root()); loadErr != nil {
			slog.Warn("Failed to load config", "error", loadErr)
		}

		logging.Initialize(opts.loggingConfig())
		logger := logging.GetLogger("main")

		settings, err := opts.Settings()
		if err != nil {
			// Subcommands report this themselves through their SettingsFunc
			logger.Error("Invalid capture configuration", "error", err)
		}

		eventBus := events.New()

		var promHandler http.Handler
		if opts.ObsPrometheusEnabled {
			metrics.Subscribe(eventBus)
			promHandler = metrics.Handler()
		}

		file := opts.fileSettings(logger)
		gw := gateway.New(gateway.Options{
			Capturer:     cmd.BuildPipeline(settings),
			AllowedUsers: opts.initialUsers(file),
			ClipDuration: settings.Capture.ClipDuration,
			Events:       eventBus,
		})

		detector := devices.NewDetector()

		watcher := config.NewConfigWatcher(opts.Config, config.LoadReloadable, logging.GetLogger("config"))
		watcher.OnReload(newReloader(gw, file, logger).apply)

		server := api.NewServer(&api.Options{
			AuthUsername:      opts.AuthUsername,
			AuthPassword:      opts.AuthPassword,
			Captures:          gw,
			Devices:           detector,
			EventBus:          eventBus,
			PrometheusHandler: promHandler,
		})

		notifier := systemd.NewNotifier()
		watchdogCtx, stopWatchdog := context.WithCancel(context.Background())

		hooks.OnStart(func() {
			if err != nil {
				os.Exit(cmd.ExitFailed)
			}
			logger.Info("Capture configured",
				"device", settings.Capture.Device,
				"resolution", settings.Capture.Resolution.String(),
				"rotation", settings.Capture.Rotation.String(),
				"clip", settings.Capture.ClipDuration,
				"faststart", settings.Faststart)
			checkDevice(detector, settings.Capture.Device, logger)

			if _, statErr := os.Stat(opts.Config); statErr == nil {
				if startErr := watcher.Start(); startErr != nil {
					logger.Warn("Config hot reload disabled", "error", startErr)
				}
			}

			go notifier.RunWatchdog(watchdogCtx)
			notifier.Ready()
			notifier.Status("Serving on " + opts.Port)

			logger.Info("Starting HTTP server", "port", opts.Port)
			if startErr := server.Start(opts.Port); startErr != nil && !errors.Is(startErr, http.ErrServerClosed) {
				logger.Error("Failed to start HTTP server", "error", startErr)
				os.Exit(1)
			}
		})

		hooks.OnStop(func() {
			logger.Info("Shutting down server")
			notifier.Stopping()
			stopWatchdog()
			if stopErr := server.Stop(); stopErr != nil {
				logger.Error("Error stopping HTTP server", "error", stopErr)
			}
			if stopErr := watcher.Stop(); stopErr != nil {
				logger.Warn("Error stopping config watcher", "error", stopErr)
			}
		})
	})

	settings := func() (cmd.Settings, error) {
		return opts.Settings()
	}
	cli.Root().Use = "snapcam"
	cli.Root().Short = "Remote-controlled camera capture"
	cli.Root().AddCommand(
		cmd.NewPhotoCmd(settings),
		cmd.NewVideoCmd(settings),
		cmd.NewDevicesCmd(),
	)

	cli.Run()
}

// Package logging provides structured logging with per-module log levels.
//
// Records go to stdout (text or JSON) when something is attached to it, and
// to the systemd journal when journald is running. Both are used when both
// are available.
//
// Initialize once at startup:
//
//	logging.Initialize(logging.Config{
//		Level:  "info",
//		Format: "text",
//		Modules: map[string]string{
//			"capture": "debug",
//			"http":    "warn",
//		},
//	})
//
// Then get a logger per module:
//
//	logger := logging.GetLogger("capture")
//	logger.Info("Starting video record", "device", 0)
//
// Loggers obtained before Initialize are kept and follow the configured
// levels afterwards. SetLevel changes a level at runtime.
//
// Journal fields are the upper-cased attribute keys:
//
//	journalctl -t snapcam MODULE=capture
//	journalctl -t snapcam -p err
//
// Example TOML configuration:
//
//	[logging]
//	level = "info"
//	format = "text"
//
//	[logging.modules]
//	gateway = "debug"
package logging

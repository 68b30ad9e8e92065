package capture

import (
	"strings"
	"testing"
	"time"
)

func TestDefaultConfigIsValid(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("DefaultConfig().Validate() = %v", err)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"negative device", func(c *Config) { c.Device = -1 }, "device index"},
		{"zero width", func(c *Config) { c.Resolution.Width = 0 }, "resolution"},
		{"zero fps", func(c *Config) { c.FrameRate = 0 }, "frame rate"},
		{"zero duration", func(c *Config) { c.ClipDuration = 0 }, "clip duration"},
		{"negative warmup", func(c *Config) { c.Warmup = -time.Second }, "warm-up"},
		{"no image path", func(c *Config) { c.ImagePath = "" }, "image path"},
		{"no video path", func(c *Config) { c.VideoPath = "" }, "video path"},
		{"quality", func(c *Config) { c.JPEGQuality = 101 }, "jpeg quality"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() = %v, want error containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestConfigOutputSize(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Rotation = RotateCW90
	if got := cfg.OutputSize(); got != (Resolution{Width: 720, Height: 1280}) {
		t.Errorf("OutputSize() = %s, want 720x1280", got)
	}
}

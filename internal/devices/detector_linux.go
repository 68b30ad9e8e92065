//go:build linux

package devices

import (
	"fmt"
	"log/slog"

	"github.com/smazurov/snapcam/internal/logging"
	"github.com/smazurov/snapcam/pkg/linuxav/v4l2"
)

type linuxDetector struct {
	find        func() ([]v4l2.DeviceInfo, error)
	formats     func(path string) ([]v4l2.FormatInfo, error)
	resolutions func(path string, pixelFormat uint32) ([]v4l2.Resolution, error)
	framerates  func(path string, pixelFormat, width, height uint32) ([]v4l2.Framerate, error)
	logger      *slog.Logger
}

func newDetector() Detector {
	return &linuxDetector{
		find:        v4l2.FindDevices,
		formats:     v4l2.GetFormats,
		resolutions: v4l2.GetResolutions,
		framerates:  v4l2.GetFramerates,
		logger:      logging.GetLogger("devices"),
	}
}

// FindDevices returns all currently available V4L2 capture devices.
func (d *linuxDetector) FindDevices() ([]Device, error) {
	found, err := d.find()
	if err != nil {
		return nil, err
	}

	devices := make([]Device, len(found))
	for i, info := range found {
		devices[i] = Device{
			Index:        info.Index,
			Path:         info.DevicePath,
			Name:         info.DeviceName,
			Driver:       info.Driver,
			ID:           info.DeviceID,
			Capabilities: v4l2.CapabilityNames(info.Caps),
		}
	}
	d.logger.Debug("Devices enumerated", "count", len(devices))
	return devices, nil
}

// Describe queries formats, sizes and frame rates. A size whose frame
// rates cannot be listed is kept with an empty rate list.
func (d *linuxDetector) Describe(dev Device) (Device, error) {
	formats, err := d.formats(dev.Path)
	if err != nil {
		return dev, fmt.Errorf("list formats of %s: %w", dev.Path, err)
	}

	dev.Formats = make([]Format, 0, len(formats))
	for _, f := range formats {
		format := Format{
			FourCC:      f.FourCC(),
			Description: f.FormatName,
			Emulated:    f.Emulated,
		}

		sizes, err := d.resolutions(dev.Path, f.PixelFormat)
		if err != nil {
			d.logger.Warn("Failed to list resolutions", "device", dev.Path, "format", format.FourCC, "error", err)
		}
		for _, size := range sizes {
			mode := Mode{Width: int(size.Width), Height: int(size.Height)}
			rates, err := d.framerates(dev.Path, f.PixelFormat, size.Width, size.Height)
			if err != nil {
				d.logger.Debug("Failed to list frame rates", "device", dev.Path, "format", format.FourCC, "size", size.String(), "error", err)
			}
			for _, r := range rates {
				if fps := r.FPS(); fps > 0 {
					mode.FPS = append(mode.FPS, fps)
				}
			}
			format.Modes = append(format.Modes, mode)
		}

		dev.Formats = append(dev.Formats, format)
	}

	return dev, nil
}

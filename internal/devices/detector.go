// Package devices lists the V4L2 cameras the capture pipeline can open and
// the modes they advertise.
package devices

import (
	"errors"
	"fmt"
)

var (
	// ErrUnsupported is returned where V4L2 is not available.
	ErrUnsupported = errors.New("device enumeration requires linux")
	// ErrNotFound means no capture device has the requested index.
	ErrNotFound = errors.New("capture device not found")
)

// Device is a video capture node.
type Device struct {
	Index        int      `json:"index" example:"0" doc:"Index passed to capture.device"`
	Path         string   `json:"path" example:"/dev/video0" doc:"Device node"`
	Name         string   `json:"name" example:"HD Pro Webcam C920" doc:"Card name reported by the driver"`
	Driver       string   `json:"driver" example:"uvcvideo" doc:"Kernel driver"`
	ID           string   `json:"id" example:"usb-046d_HD_Pro_Webcam_C920-video-index0" doc:"Stable device identifier"`
	Capabilities []string `json:"capabilities" doc:"Capability flags"`
	Formats      []Format `json:"formats,omitempty" doc:"Supported pixel formats, filled by Describe"`
}

// Format is a pixel format with the sizes it supports.
type Format struct {
	FourCC      string `json:"fourcc" example:"MJPG"`
	Description string `json:"description" example:"Motion-JPEG"`
	Emulated    bool   `json:"emulated" doc:"Converted in software by libv4l"`
	Modes       []Mode `json:"modes"`
}

// Mode is a frame size and its frame rates.
type Mode struct {
	Width  int       `json:"width" example:"1280"`
	Height int       `json:"height" example:"720"`
	FPS    []float64 `json:"fps" example:"[30,15]"`
}

// Detector enumerates capture devices.
type Detector interface {
	// FindDevices returns all capture devices ordered by index.
	FindDevices() ([]Device, error)

	// Describe returns d with its formats and modes filled in.
	Describe(d Device) (Device, error)
}

// NewDetector creates the platform detector.
func NewDetector() Detector {
	return newDetector()
}

// Lookup returns the device with the given index.
func Lookup(d Detector, index int) (Device, error) {
	all, err := d.FindDevices()
	if err != nil {
		return Device{}, err
	}
	for _, dev := range all {
		if dev.Index == index {
			return dev, nil
		}
	}
	return Device{}, fmt.Errorf("%w: index %d", ErrNotFound, index)
}

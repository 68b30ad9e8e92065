//go:build linux

// Package v4l2 provides pure Go bindings to the parts of the Video4Linux2
// (V4L2) API needed to enumerate capture devices and their modes.
//
// This package does not use cgo, enabling simple cross-compilation for
// different Linux architectures (amd64, arm64, arm).
//
// # Device Enumeration
//
//	devices, err := v4l2.FindDevices()
//	for _, dev := range devices {
//	    fmt.Printf("%d %s: %s\n", dev.Index, dev.DevicePath, dev.DeviceName)
//	}
//
// # Format Queries
//
//	formats, _ := v4l2.GetFormats("/dev/video0")
//	for _, f := range formats {
//	    resolutions, _ := v4l2.GetResolutions("/dev/video0", f.PixelFormat)
//	    for _, res := range resolutions {
//	        framerates, _ := v4l2.GetFramerates("/dev/video0", f.PixelFormat, res.Width, res.Height)
//	    }
//	}
package v4l2

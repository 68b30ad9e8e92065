//go:build linux

package v4l2

import "fmt"

// DeviceInfo describes a V4L2 capture node.
type DeviceInfo struct {
	// Index is the N of /dev/videoN, the number OpenCV opens.
	Index      int
	DevicePath string
	DeviceName string
	Driver     string
	BusInfo    string
	DeviceID   string // Stable identifier (from /dev/v4l/by-id/ or synthetic)
	Caps       uint32
}

// FormatInfo contains information about a supported pixel format.
type FormatInfo struct {
	PixelFormat uint32
	FormatName  string
	Emulated    bool
}

// FourCC returns the pixel format code, e.g. "MJPG".
func (f FormatInfo) FourCC() string {
	return FormatFourCC(f.PixelFormat)
}

// Resolution represents a supported video resolution.
type Resolution struct {
	Width  uint32
	Height uint32
}

func (r Resolution) String() string {
	return fmt.Sprintf("%dx%d", r.Width, r.Height)
}

// Framerate is a frame interval as a fraction of a second.
type Framerate struct {
	Numerator   uint32
	Denominator uint32
}

// FPS returns the framerate as frames per second.
func (f Framerate) FPS() float64 {
	if f.Numerator == 0 {
		return 0
	}
	return float64(f.Denominator) / float64(f.Numerator)
}

// Capability flags.
const (
	CapVideoCapture       = 0x00000001
	CapVideoOutput        = 0x00000002
	CapVideoOverlay       = 0x00000004
	CapVideoCaptureMplane = 0x00001000
	CapVideoM2M           = 0x00008000
	CapAudio              = 0x00020000
	CapReadWrite          = 0x01000000
	CapStreaming          = 0x04000000
	CapMetaCapture        = 0x00800000
	CapDeviceCaps         = 0x80000000
)

var capabilityNames = []struct {
	flag uint32
	name string
}{
	{CapVideoCapture, "video_capture"},
	{CapVideoOutput, "video_output"},
	{CapVideoOverlay, "video_overlay"},
	{CapVideoCaptureMplane, "video_capture_mplane"},
	{CapVideoM2M, "video_m2m"},
	{CapAudio, "audio"},
	{CapMetaCapture, "meta_capture"},
	{CapReadWrite, "readwrite"},
	{CapStreaming, "streaming"},
}

// CapabilityNames lists the known flags set in caps.
func CapabilityNames(caps uint32) []string {
	var names []string
	for _, c := range capabilityNames {
		if caps&c.flag != 0 {
			names = append(names, c.name)
		}
	}
	return names
}

// Format flags.
const (
	fmtFlagEmulated = 0x0002
)

// Common pixel formats.
const (
	PixFmtYUYV  = 0x56595559 // 'YUYV'
	PixFmtMJPEG = 0x47504A4D // 'MJPG'
	PixFmtH264  = 0x34363248 // 'H264'
	PixFmtHEVC  = 0x43564548 // 'HEVC'
	PixFmtNV12  = 0x3231564E // 'NV12'
)

// Frame size types.
const (
	frmsizeTypeDiscrete   = 1
	frmsizeTypeContinuous = 2
	frmsizeTypeStepwise   = 3
)

// Frame interval types.
const (
	frmivalTypeDiscrete   = 1
	frmivalTypeContinuous = 2
	frmivalTypeStepwise   = 3
)

const bufTypeVideoCapture = 1

//go:build !linux

package devices

type unsupportedDetector struct{}

func newDetector() Detector {
	return unsupportedDetector{}
}

func (unsupportedDetector) FindDevices() ([]Device, error) {
	return nil, ErrUnsupported
}

func (unsupportedDetector) Describe(Device) (Device, error) {
	return Device{}, ErrUnsupported
}

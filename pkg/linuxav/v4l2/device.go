//go:build linux

package v4l2

import (
	"bytes"
	"cmp"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"unsafe"
)

const (
	sysClassDir = "/sys/class/video4linux"
	byIDDir     = "/dev/v4l/by-id"
)

// FindDevices finds all V4L2 video capture devices on the system, ordered
// by index.
func FindDevices() ([]DeviceInfo, error) {
	return findDevices(sysClassDir, "/dev", byIDDir, queryCapability)
}

// DevicePath returns the node path for a device index.
func DevicePath(index int) string {
	return fmt.Sprintf("/dev/video%d", index)
}

type capabilityQuery func(devicePath string) (v4l2Capability, error)

func findDevices(sysDir, devDir, idDir string, query capabilityQuery) ([]DeviceInfo, error) {
	entries, err := os.ReadDir(sysDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []DeviceInfo{}, nil
		}
		return nil, fmt.Errorf("failed to read video4linux directory: %w", err)
	}

	logger := slog.With("component", "linuxav")
	devices := []DeviceInfo{}

	for _, entry := range entries {
		name := entry.Name()
		if !strings.HasPrefix(name, "video") {
			continue
		}
		index, err := strconv.Atoi(strings.TrimPrefix(name, "video"))
		if err != nil {
			continue
		}

		devicePath := filepath.Join(devDir, name)
		cap, err := query(devicePath)
		if err != nil {
			logger.Debug("failed to query device capabilities", "path", devicePath, "error", err)
			continue
		}

		caps := cap.capabilities
		if caps&CapDeviceCaps != 0 {
			caps = cap.deviceCaps
		}

		// Only include video capture devices
		if caps&CapVideoCapture == 0 {
			continue
		}

		// sysfs index distinguishes metadata nodes of the same camera
		sysIndex := readSysfsInt(filepath.Join(sysDir, name, "index"))
		busInfo := cstr(cap.busInfo[:])

		stableID := findStableID(idDir, name, sysIndex)
		if stableID == "" {
			if strings.HasPrefix(busInfo, "usb-") {
				stableID = fmt.Sprintf("%s-video-index%d", busInfo, sysIndex)
			} else {
				stableID = fmt.Sprintf("platform-%s-video-index%d", busInfo, sysIndex)
			}
		}

		devices = append(devices, DeviceInfo{
			Index:      index,
			DevicePath: devicePath,
			DeviceName: cstr(cap.card[:]),
			Driver:     cstr(cap.driver[:]),
			BusInfo:    busInfo,
			DeviceID:   stableID,
			Caps:       caps,
		})
	}

	slices.SortFunc(devices, func(a, b DeviceInfo) int {
		return cmp.Compare(a.Index, b.Index)
	})
	return devices, nil
}

func queryCapability(devicePath string) (v4l2Capability, error) {
	cap := v4l2Capability{}
	fd, err := open(devicePath)
	if err != nil {
		return cap, err
	}
	defer close(fd)

	if err := ioctl(fd, vidiocQuerycap, unsafe.Pointer(&cap)); err != nil {
		return cap, err
	}
	return cap, nil
}

// findStableID looks for a stable ID symlink in dir pointing at deviceName.
func findStableID(dir, deviceName string, indexValue int) string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return ""
	}

	expectedSuffix := fmt.Sprintf("-video-index%d", indexValue)

	for _, entry := range entries {
		if entry.Type()&os.ModeSymlink == 0 {
			continue
		}

		target, err := os.Readlink(filepath.Join(dir, entry.Name()))
		if err != nil {
			continue
		}

		if filepath.Base(target) == deviceName && strings.HasSuffix(entry.Name(), expectedSuffix) {
			return entry.Name()
		}
	}

	return ""
}

// readSysfsInt reads an integer value from a sysfs file.
func readSysfsInt(path string) int {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0
	}
	val, _ := strconv.Atoi(strings.TrimSpace(string(data)))
	return val
}

// cstr converts a null-terminated byte slice to a Go string.
func cstr(b []byte) string {
	if i := bytes.IndexByte(b, 0); i >= 0 {
		return string(b[:i])
	}
	return string(b)
}

package capture

import (
	"fmt"
	"strings"
)

// Rotation is the fixed orientation policy applied to every frame.
// Values count clockwise quarter turns.
type Rotation int

// Supported rotations.
const (
	RotateNone  Rotation = 0
	RotateCW90  Rotation = 1
	Rotate180   Rotation = 2
	RotateCCW90 Rotation = 3
)

// ParseRotation accepts the names used in config files and on the command line.
func ParseRotation(s string) (Rotation, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none", "0":
		return RotateNone, nil
	case "cw90", "90", "cw", "clockwise", "90cw":
		return RotateCW90, nil
	case "ccw90", "-90", "270", "ccw", "counterclockwise", "90ccw":
		return RotateCCW90, nil
	case "180":
		return Rotate180, nil
	default:
		return RotateNone, fmt.Errorf("unknown rotation %q (want none, cw90, ccw90 or 180)", s)
	}
}

// String returns the canonical config name.
func (r Rotation) String() string {
	switch r {
	case RotateNone:
		return "none"
	case RotateCW90:
		return "cw90"
	case Rotate180:
		return "180"
	case RotateCCW90:
		return "ccw90"
	default:
		return fmt.Sprintf("Rotation(%d)", int(r))
	}
}

// SwapsAxes reports whether the rotation exchanges width and height.
func (r Rotation) SwapsAxes() bool {
	return r == RotateCW90 || r == RotateCCW90
}

// Apply returns the frame size after rotation.
func (r Rotation) Apply(size Resolution) Resolution {
	if r.SwapsAxes() {
		return Resolution{Width: size.Height, Height: size.Width}
	}
	return size
}

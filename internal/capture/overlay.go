package capture

import (
	"image"
	"time"
)

// Timestamp overlay geometry, in pixels.
const (
	StampMargin  = 10
	StampPadding = 5
)

// TimestampLayout renders local time at minute resolution.
const TimestampLayout = "2006-01-02 15:04"

// TimestampLabel formats t in local time for the frame overlay.
func TimestampLabel(t time.Time) string {
	return t.Local().Format(TimestampLayout)
}

// Stamp is where the overlay goes on a frame.
type Stamp struct {
	// Box is the filled backing rectangle.
	Box image.Rectangle
	// Origin is the bottom-left corner of the text baseline.
	Origin image.Point
}

// StampLayout places a text box of size text at the bottom-right corner of
// a frame of size frame. The baseline sits StampMargin above the bottom edge
// and the text ends StampMargin from the right edge. The box extends
// StampPadding around the text. It returns false when there is nothing to
// draw on.
func StampLayout(frame, text Resolution) (Stamp, bool) {
	if frame.Empty() || text.Empty() {
		return Stamp{}, false
	}

	textX := frame.Width - text.Width - StampMargin
	textY := frame.Height - StampMargin

	return Stamp{
		Box: image.Rect(
			textX-StampPadding, textY-text.Height-StampPadding,
			textX+text.Width+StampPadding, textY+StampPadding,
		),
		Origin: image.Pt(textX, textY),
	}, true
}

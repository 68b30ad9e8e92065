package capture

import (
	"image"
	"testing"
	"time"
)

func TestTimestampLabel(t *testing.T) {
	ts := time.Date(2023, 11, 2, 9, 7, 59, 0, time.Local)
	if got, want := TimestampLabel(ts), "2023-11-02 09:07"; got != want {
		t.Errorf("TimestampLabel() = %q, want %q", got, want)
	}
}

func TestStampLayout(t *testing.T) {
	tests := []struct {
		name   string
		frame  Resolution
		text   Resolution
		want   Stamp
		wantOK bool
	}{
		{
			name:  "720p",
			frame: Resolution{Width: 1280, Height: 720},
			text:  Resolution{Width: 279, Height: 22},
			want: Stamp{
				Box:    image.Rect(986, 683, 1275, 715),
				Origin: image.Pt(991, 710),
			},
			wantOK: true,
		},
		{
			name:  "portrait",
			frame: Resolution{Width: 720, Height: 1280},
			text:  Resolution{Width: 279, Height: 22},
			want: Stamp{
				Box:    image.Rect(426, 1243, 715, 1275),
				Origin: image.Pt(431, 1270),
			},
			wantOK: true,
		},
		{name: "empty frame", frame: Resolution{}, text: Resolution{Width: 10, Height: 10}},
		{name: "empty text", frame: Resolution{Width: 640, Height: 480}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := StampLayout(tt.frame, tt.text)
			if ok != tt.wantOK {
				t.Fatalf("StampLayout() ok = %v, want %v", ok, tt.wantOK)
			}
			if got != tt.want {
				t.Errorf("StampLayout() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestStampLayoutMargins(t *testing.T) {
	frame := Resolution{Width: 640, Height: 480}
	text := Resolution{Width: 200, Height: 20}

	s, ok := StampLayout(frame, text)
	if !ok {
		t.Fatal("StampLayout() ok = false")
	}
	if right := frame.Width - (s.Origin.X + text.Width); right != StampMargin {
		t.Errorf("right margin = %d, want %d", right, StampMargin)
	}
	if bottom := frame.Height - s.Origin.Y; bottom != StampMargin {
		t.Errorf("bottom margin = %d, want %d", bottom, StampMargin)
	}
	if s.Box.Dx() != text.Width+2*StampPadding || s.Box.Dy() != text.Height+2*StampPadding {
		t.Errorf("box = %v, want text plus %dpx padding", s.Box, StampPadding)
	}
	if !s.Box.In(image.Rect(0, 0, frame.Width, frame.Height)) {
		t.Errorf("box %v outside frame", s.Box)
	}
}

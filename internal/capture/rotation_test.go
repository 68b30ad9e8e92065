package capture

import "testing"

func TestParseRotation(t *testing.T) {
	tests := []struct {
		in      string
		want    Rotation
		wantErr bool
	}{
		{"", RotateNone, false},
		{"none", RotateNone, false},
		{"CW90", RotateCW90, false},
		{"90", RotateCW90, false},
		{"ccw90", RotateCCW90, false},
		{"270", RotateCCW90, false},
		{"counterclockwise", RotateCCW90, false},
		{" 180 ", Rotate180, false},
		{"45", RotateNone, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseRotation(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseRotation(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseRotation(%q) = %s, want %s", tt.in, got, tt.want)
			}
		})
	}
}

func TestRotationStringRoundTrip(t *testing.T) {
	for _, r := range []Rotation{RotateNone, RotateCW90, Rotate180, RotateCCW90} {
		got, err := ParseRotation(r.String())
		if err != nil || got != r {
			t.Errorf("ParseRotation(%q) = %s, %v", r.String(), got, err)
		}
	}
}

func TestRotationApply(t *testing.T) {
	in := Resolution{Width: 1280, Height: 720}
	tests := []struct {
		r    Rotation
		want Resolution
	}{
		{RotateNone, in},
		{RotateCW90, Resolution{Width: 720, Height: 1280}},
		{RotateCCW90, Resolution{Width: 720, Height: 1280}},
		{Rotate180, in},
	}

	for _, tt := range tests {
		t.Run(tt.r.String(), func(t *testing.T) {
			if got := tt.r.Apply(in); got != tt.want {
				t.Errorf("Apply(%s) = %s, want %s", in, got, tt.want)
			}
		})
	}
}

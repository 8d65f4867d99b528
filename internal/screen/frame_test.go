package screen

import "testing"

// splitFrame builds a frame whose left half is black and right half white.
func splitFrame(width, height int) *Frame {
	f := NewFrame(width, height)
	for y := 0; y < height; y++ {
		for x := width / 2; x < width; x++ {
			off := (y*width + x) * 3
			f.Pix[off+0] = 255
			f.Pix[off+1] = 255
			f.Pix[off+2] = 255
		}
	}
	return f
}

func TestRegionColor_SplitFrame(t *testing.T) {
	f := splitFrame(100, 100)

	tests := []struct {
		name                     string
		left, top, right, bottom float64
		r, g, b                  uint8
	}{
		{"left half", 0.0, 0.0, 0.5, 1.0, 0, 0, 0},
		{"right half", 0.5, 0.0, 1.0, 1.0, 255, 255, 255},
		{"center straddle", 0.25, 0.0, 0.75, 1.0, 127, 127, 127},
		{"full frame", 0.0, 0.0, 1.0, 1.0, 127, 127, 127},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, g, b := f.RegionColor(tt.left, tt.top, tt.right, tt.bottom)
			if r != tt.r || g != tt.g || b != tt.b {
				t.Errorf("got (%d,%d,%d), want (%d,%d,%d)", r, g, b, tt.r, tt.g, tt.b)
			}
		})
	}
}

func TestRegionColor_DegenerateBounds(t *testing.T) {
	f := splitFrame(100, 100)

	tests := []struct {
		name                     string
		left, top, right, bottom float64
	}{
		{"inverted horizontal", 0.8, 0.0, 0.2, 1.0},
		{"inverted vertical", 0.0, 0.9, 1.0, 0.1},
		{"zero width", 0.5, 0.0, 0.5, 1.0},
		{"zero height", 0.0, 0.5, 1.0, 0.5},
		{"out of range", 1.5, 1.5, 2.0, 2.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, g, b := f.RegionColor(tt.left, tt.top, tt.right, tt.bottom)
			if r != 0 || g != 0 || b != 0 {
				t.Errorf("got (%d,%d,%d), want (0,0,0)", r, g, b)
			}
		})
	}
}

func TestRegionColor_ClampsToFrame(t *testing.T) {
	// Bounds beyond [0,1] clamp to the frame edges instead of reading
	// out of range.
	f := splitFrame(10, 10)
	r, g, b := f.RegionColor(-0.5, -0.5, 1.5, 1.5)
	if r != 127 || g != 127 || b != 127 {
		t.Errorf("got (%d,%d,%d), want (127,127,127)", r, g, b)
	}
}

func TestRegionColor_MeanTruncates(t *testing.T) {
	// Two pixels of 0 and 255 average to 127.5, truncated to 127.
	f := NewFrame(2, 1)
	f.Pix[3], f.Pix[4], f.Pix[5] = 255, 255, 255
	r, g, b := f.RegionColor(0, 0, 1, 1)
	if r != 127 || g != 127 || b != 127 {
		t.Errorf("got (%d,%d,%d), want (127,127,127)", r, g, b)
	}
}

func TestRegionColor_SinglePixel(t *testing.T) {
	f := NewFrame(4, 4)
	off := (1*4 + 2) * 3
	f.Pix[off+0], f.Pix[off+1], f.Pix[off+2] = 10, 20, 30
	r, g, b := f.RegionColor(0.5, 0.25, 0.75, 0.5)
	if r != 10 || g != 20 || b != 30 {
		t.Errorf("got (%d,%d,%d), want (10,20,30)", r, g, b)
	}
}

package screen

import "image"

// Frame is a fixed-size grid of 8-bit RGB pixels in row-major order,
// three bytes per pixel. Frames are immutable once published: the
// sampler replaces them wholesale and never mutates one in place.
type Frame struct {
	Width  int
	Height int
	Pix    []uint8
}

// NewFrame allocates a zeroed (all black) frame.
func NewFrame(width, height int) *Frame {
	return &Frame{
		Width:  width,
		Height: height,
		Pix:    make([]uint8, width*height*3),
	}
}

// frameFromNRGBA copies an NRGBA image into a Frame, dropping alpha.
// The image stride is assumed to be exactly width*4, which holds for
// freshly allocated images such as the output of imaging.Resize.
func frameFromNRGBA(img *image.NRGBA) *Frame {
	w, h := img.Rect.Dx(), img.Rect.Dy()
	f := NewFrame(w, h)
	src := img.Pix
	for i, j := 0, 0; j < len(f.Pix); i, j = i+4, j+3 {
		f.Pix[j+0] = src[i+0]
		f.Pix[j+1] = src[i+1]
		f.Pix[j+2] = src[i+2]
	}
	return f
}

// RegionColor returns the mean color of the fractional rectangle
// (left, top, right, bottom), each bound in [0, 1]. Fractions are
// floored to pixel indices and clamped to the frame dimensions; the
// per-channel mean is truncated to an integer. An empty or inverted
// rectangle yields black.
func (f *Frame) RegionColor(left, top, right, bottom float64) (uint8, uint8, uint8) {
	x1 := clampIndex(int(left*float64(f.Width)), f.Width)
	x2 := clampIndex(int(right*float64(f.Width)), f.Width)
	y1 := clampIndex(int(top*float64(f.Height)), f.Height)
	y2 := clampIndex(int(bottom*float64(f.Height)), f.Height)

	if x2 <= x1 || y2 <= y1 {
		return 0, 0, 0
	}

	var rSum, gSum, bSum uint64
	for y := y1; y < y2; y++ {
		row := f.Pix[y*f.Width*3 : (y+1)*f.Width*3]
		for x := x1; x < x2; x++ {
			off := x * 3
			rSum += uint64(row[off+0])
			gSum += uint64(row[off+1])
			bSum += uint64(row[off+2])
		}
	}

	n := uint64(x2-x1) * uint64(y2-y1)
	return uint8(rSum / n), uint8(gSum / n), uint8(bSum / n)
}

func clampIndex(v, max int) int {
	if v < 0 {
		return 0
	}
	if v > max {
		return max
	}
	return v
}

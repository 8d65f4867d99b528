package screen

import (
	"fmt"
	"image"

	"github.com/vova616/screenshot"
)

// Source is the capture backend feeding the sampler. Start validates
// and acquires the backend, Grab produces a full-resolution frame, and
// Close releases whatever Start acquired. Close must be safe to call
// after a failed Start.
type Source interface {
	Start() error
	Grab() (*image.RGBA, error)
	Close() error
}

// DisplaySource captures the primary display through the platform
// screenshot API.
type DisplaySource struct{}

// NewDisplaySource returns a capture source for the primary display.
func NewDisplaySource() *DisplaySource {
	return &DisplaySource{}
}

// Start verifies that the display can be queried at all. This is where
// a missing X connection or denied capture permission surfaces.
func (s *DisplaySource) Start() error {
	rect, err := screenshot.ScreenRect()
	if err != nil {
		return fmt.Errorf("query display bounds: %w", err)
	}
	if rect.Empty() {
		return fmt.Errorf("display reports empty bounds %v", rect)
	}
	return nil
}

// Grab captures the full screen.
func (s *DisplaySource) Grab() (*image.RGBA, error) {
	img, err := screenshot.CaptureScreen()
	if err != nil {
		return nil, fmt.Errorf("capture screen: %w", err)
	}
	return img, nil
}

// Close releases the source. The screenshot API holds no persistent
// state between grabs, so there is nothing to tear down.
func (s *DisplaySource) Close() error {
	return nil
}

package screen

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/disintegration/imaging"
	"github.com/rs/zerolog/log"
)

const (
	// DefaultWidth and DefaultHeight are the capture target resolution.
	// Region averaging works on the downscaled frame, so a small target
	// keeps the per-query cost trivial.
	DefaultWidth  = 160
	DefaultHeight = 90

	// DefaultInterval is the pause between grabs in the capture loop.
	DefaultInterval = 50 * time.Millisecond

	statsLogInterval = 10 * time.Second
)

// InitError reports a capture backend that failed to start. It is the
// only failure a Sampler can produce; region queries always return a
// value.
type InitError struct {
	Err error
}

func (e *InitError) Error() string {
	return fmt.Sprintf("capture init: %v", e.Err)
}

func (e *InitError) Unwrap() error {
	return e.Err
}

// Sampler owns a capture source, keeps the most recent downscaled
// frame, and answers region-average color queries against it. A
// background goroutine replaces the frame continuously; queries never
// block on it and only ever see a complete frame.
type Sampler struct {
	source   Source
	width    int
	height   int
	interval time.Duration

	latest atomic.Pointer[Frame]

	captures atomic.Uint64
	skipped  atomic.Uint64

	stop      chan struct{}
	done      chan struct{}
	closeOnce sync.Once
}

// NewSampler starts a capture pipeline producing width x height RGB
// frames from src. It returns an *InitError if the backend cannot
// start; in that case nothing is left running. Callers must Close the
// sampler when done.
func NewSampler(src Source, width, height int, interval time.Duration) (*Sampler, error) {
	if width <= 0 {
		width = DefaultWidth
	}
	if height <= 0 {
		height = DefaultHeight
	}
	if interval <= 0 {
		interval = DefaultInterval
	}

	if err := src.Start(); err != nil {
		// Tear down anything Start may have acquired before failing.
		if cerr := src.Close(); cerr != nil {
			log.Debug().Err(cerr).Msg("Closing capture source after failed start")
		}
		return nil, &InitError{Err: err}
	}

	s := &Sampler{
		source:   src,
		width:    width,
		height:   height,
		interval: interval,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}

	go s.loop()

	log.Debug().
		Int("width", width).
		Int("height", height).
		Dur("interval", interval).
		Msg("Screen sampler started")

	return s, nil
}

// Width returns the frame width. Constant for the sampler lifetime.
func (s *Sampler) Width() int { return s.width }

// Height returns the frame height. Constant for the sampler lifetime.
func (s *Sampler) Height() int { return s.height }

// RegionColor returns the mean color of the fractional rectangle over
// the most recent frame. It returns black if no frame has been
// captured yet or the rectangle is empty, and never blocks on the
// capture loop.
func (s *Sampler) RegionColor(left, top, right, bottom float64) (uint8, uint8, uint8) {
	f := s.latest.Load()
	if f == nil {
		return 0, 0, 0
	}
	return f.RegionColor(left, top, right, bottom)
}

// Close stops the capture loop and releases the backend. It is
// idempotent and safe to call during cleanup after another failure;
// backend shutdown errors are logged, not returned.
func (s *Sampler) Close() {
	s.closeOnce.Do(func() {
		close(s.stop)
		<-s.done
		if err := s.source.Close(); err != nil {
			log.Warn().Err(err).Msg("Closing capture source")
		}
		log.Debug().
			Uint64("captures", s.captures.Load()).
			Uint64("skipped", s.skipped.Load()).
			Msg("Screen sampler stopped")
	})
}

// loop grabs, downscales and publishes frames until Close. Grab
// failures are counted and skipped; the previous frame stays current.
func (s *Sampler) loop() {
	defer close(s.done)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	logTicker := time.NewTicker(statsLogInterval)
	defer logTicker.Stop()

	for {
		img, err := s.source.Grab()
		if err != nil {
			s.skipped.Add(1)
			log.Debug().Err(err).Msg("Frame grab failed, keeping previous frame")
		} else {
			small := imaging.Resize(img, s.width, s.height, imaging.Box)
			s.latest.Store(frameFromNRGBA(small))
			s.captures.Add(1)
		}

		select {
		case <-logTicker.C:
			log.Debug().
				Uint64("captures", s.captures.Load()).
				Uint64("skipped", s.skipped.Load()).
				Msg("Capture loop stats")
		default:
		}

		select {
		case <-s.stop:
			return
		case <-ticker.C:
		}
	}
}

// Package ambient drives a light from the live screen color at a
// bounded rate.
package ambient

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/derekwisong/hueru/internal/color"
)

// ColorSampler answers region-average color queries. Satisfied by
// screen.Sampler.
type ColorSampler interface {
	RegionColor(left, top, right, bottom float64) (uint8, uint8, uint8)
}

// LightSetter dispatches a chromaticity to a light. Satisfied by
// bridge.Client.
type LightSetter interface {
	SetLightColor(ctx context.Context, lightID int, x, y float64, on bool) error
}

// ColorTransform optionally rewrites a sampled color before it is
// converted. Satisfied by script.Transform.
type ColorTransform interface {
	Apply(r, g, b uint8) (uint8, uint8, uint8, error)
}

// Region is a fractional rectangle over the sampled frame.
type Region struct {
	Left   float64
	Top    float64
	Right  float64
	Bottom float64
}

// FullScreen covers the whole frame.
var FullScreen = Region{Left: 0, Top: 0, Right: 1, Bottom: 1}

// ParseRegion parses "left,top,right,bottom" with each value in [0, 1].
func ParseRegion(s string) (Region, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return Region{}, fmt.Errorf("region %q: want four comma-separated fractions", s)
	}
	vals := make([]float64, 4)
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return Region{}, fmt.Errorf("region %q: %w", s, err)
		}
		if v < 0 || v > 1 {
			return Region{}, fmt.Errorf("region %q: value %v out of range [0, 1]", s, v)
		}
		vals[i] = v
	}
	return Region{Left: vals[0], Top: vals[1], Right: vals[2], Bottom: vals[3]}, nil
}

// Loop repeatedly samples the region color, converts it and applies it
// to one light. The rate limiter bounds how fast the bridge is hit.
type Loop struct {
	sampler   ColorSampler
	setter    LightSetter
	transform ColorTransform // may be nil
	lightID   int
	region    Region
	limiter   *rate.Limiter
}

// NewLoop creates a sync loop updating lightID at most rps times per
// second. transform may be nil.
func NewLoop(sampler ColorSampler, setter LightSetter, transform ColorTransform, lightID int, region Region, rps float64) *Loop {
	if rps <= 0 {
		rps = 10.0
	}
	return &Loop{
		sampler:   sampler,
		setter:    setter,
		transform: transform,
		lightID:   lightID,
		region:    region,
		limiter:   rate.NewLimiter(rate.Limit(rps), 1),
	}
}

// Run blocks until ctx is cancelled. Light update failures are logged
// and the loop keeps going; only cancellation ends it.
func (l *Loop) Run(ctx context.Context) error {
	log.Info().
		Int("light", l.lightID).
		Float64("rps", float64(l.limiter.Limit())).
		Msg("Ambient sync started")

	var lastR, lastG, lastB uint8
	first := true

	for {
		if err := l.limiter.Wait(ctx); err != nil {
			// Context cancelled: clean shutdown.
			log.Info().Msg("Ambient sync stopped")
			return nil
		}

		r, g, b := l.sampler.RegionColor(l.region.Left, l.region.Top, l.region.Right, l.region.Bottom)

		if l.transform != nil {
			tr, tg, tb, err := l.transform.Apply(r, g, b)
			if err != nil {
				log.Warn().Err(err).Msg("Color transform failed, using raw color")
			} else {
				r, g, b = tr, tg, tb
			}
		}

		if first || r != lastR || g != lastG || b != lastB {
			log.Debug().
				Uint8("r", r).
				Uint8("g", g).
				Uint8("b", b).
				Msg("Region color changed")
			lastR, lastG, lastB = r, g, b
			first = false
		}

		x, y := color.RGBToXY(r, g, b)
		if err := l.setter.SetLightColor(ctx, l.lightID, x, y, true); err != nil {
			log.Warn().Err(err).Int("light", l.lightID).Msg("Failed to update light")
		}
	}
}

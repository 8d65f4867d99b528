package bridge

import (
	"context"
	"fmt"
	"sort"

	"github.com/amimof/huego"
	"github.com/rs/zerolog/log"
)

// LightInfo is the subset of light state the CLI shows.
type LightInfo struct {
	ID        int
	Name      string
	On        bool
	Reachable bool
}

// Client wraps an authenticated bridge with the light operations the
// commands need.
type Client struct {
	bridge *huego.Bridge
}

// NewClient creates a client around an authenticated huego bridge.
func NewClient(b *huego.Bridge) *Client {
	return &Client{bridge: b}
}

// Host returns the bridge address.
func (c *Client) Host() string {
	return c.bridge.Host
}

// Lights returns all lights known to the bridge, sorted by ID.
func (c *Client) Lights(ctx context.Context) ([]LightInfo, error) {
	hueLights, err := c.bridge.GetLightsContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("list lights: %w", err)
	}

	lights := make([]LightInfo, 0, len(hueLights))
	for _, l := range hueLights {
		info := LightInfo{
			ID:   l.ID,
			Name: l.Name,
		}
		if l.State != nil {
			info.On = l.State.On
			info.Reachable = l.State.Reachable
		}
		lights = append(lights, info)
	}

	sort.Slice(lights, func(i, j int) bool { return lights[i].ID < lights[j].ID })
	return lights, nil
}

// SetLightColor sets a light to the given xy chromaticity.
func (c *Client) SetLightColor(ctx context.Context, lightID int, x, y float64, on bool) error {
	light, err := c.bridge.GetLightContext(ctx, lightID)
	if err != nil {
		return fmt.Errorf("get light %d: %w", lightID, err)
	}

	state := huego.State{
		On: on,
		Xy: []float32{float32(x), float32(y)},
	}

	log.Debug().
		Int("light", lightID).
		Float64("x", x).
		Float64("y", y).
		Msg("Applying state to light")

	if err := light.SetStateContext(ctx, state); err != nil {
		return fmt.Errorf("set light %d state: %w", lightID, err)
	}
	return nil
}

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	colorful "github.com/lucasb-eyer/go-colorful"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/derekwisong/hueru/internal/ambient"
	"github.com/derekwisong/hueru/internal/bridge"
	"github.com/derekwisong/hueru/internal/color"
	"github.com/derekwisong/hueru/internal/config"
	"github.com/derekwisong/hueru/internal/screen"
	"github.com/derekwisong/hueru/internal/script"
	"github.com/derekwisong/hueru/internal/store"
)

func main() {
	// Support both -c and --config for config path
	var configPath string
	flag.StringVar(&configPath, "config", "hueru.yaml", "Path to configuration file")
	flag.StringVar(&configPath, "c", "hueru.yaml", "Path to configuration file (shorthand)")
	debug := flag.Bool("debug", false, "Enable debug logging")
	flag.Usage = usage
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	if *debug {
		cfg.Log.Level = "debug"
	}

	// Setup logging
	setupLogging(cfg.Log.GetLevel(), cfg.Log.UseJSON, cfg.Log.Colors)

	args := flag.Args()
	if len(args) == 0 {
		usage()
		os.Exit(2)
	}

	// Create context that cancels on shutdown signal
	ctx := signalContext()

	switch args[0] {
	case "list":
		err = runList(ctx, cfg)
	case "set":
		err = runSet(ctx, cfg, args[1:])
	case "sync":
		err = runSync(ctx, cfg, args[1:])
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n", args[0])
		usage()
		os.Exit(2)
	}

	if err != nil {
		log.Fatal().Err(err).Msg("Command failed")
	}
}

func runList(ctx context.Context, cfg *config.Config) error {
	client, done, err := connect(ctx, cfg)
	if err != nil {
		return err
	}
	defer done()

	lights, err := client.Lights(ctx)
	if err != nil {
		return err
	}

	for _, l := range lights {
		state := "off"
		if l.On {
			state = "on"
		}
		if !l.Reachable {
			state = "unreachable"
		}
		fmt.Printf("%d: %s (%s)\n", l.ID, l.Name, state)
	}
	return nil
}

func runSet(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) < 2 {
		return errors.New("usage: hueru set <light-id> rgb <r> <g> <b> | hex <#rrggbb>")
	}

	lightID, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("light id %q: %w", args[0], err)
	}

	var r, g, b uint8
	switch args[1] {
	case "rgb":
		if len(args) != 5 {
			return errors.New("usage: hueru set <light-id> rgb <r> <g> <b>")
		}
		channels := make([]uint8, 3)
		for i, raw := range args[2:5] {
			v, err := strconv.ParseUint(raw, 10, 8)
			if err != nil {
				return fmt.Errorf("channel %q: %w", raw, err)
			}
			channels[i] = uint8(v)
		}
		r, g, b = channels[0], channels[1], channels[2]
	case "hex":
		if len(args) != 3 {
			return errors.New("usage: hueru set <light-id> hex <#rrggbb>")
		}
		c, err := colorful.Hex(args[2])
		if err != nil {
			return fmt.Errorf("hex color %q: %w", args[2], err)
		}
		r, g, b = c.RGB255()
	default:
		return fmt.Errorf("unknown color mode %q (want rgb or hex)", args[1])
	}

	client, done, err := connect(ctx, cfg)
	if err != nil {
		return err
	}
	defer done()

	x, y := color.RGBToXY(r, g, b)
	if err := client.SetLightColor(ctx, lightID, x, y, true); err != nil {
		return err
	}

	fmt.Printf("Set light %d to rgb(%d,%d,%d)\n", lightID, r, g, b)
	return nil
}

func runSync(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) < 1 {
		return errors.New("usage: hueru sync <light-id> [flags]")
	}
	lightID, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("light id %q: %w", args[0], err)
	}

	fs := flag.NewFlagSet("sync", flag.ExitOnError)
	regionStr := fs.String("region", "0,0,1,1", "Fractional region left,top,right,bottom to average")
	width := fs.Int("width", 0, "Capture frame width (default from config)")
	height := fs.Int("height", 0, "Capture frame height (default from config)")
	transformPath := fs.String("transform", "", "Lua script defining transform(r, g, b)")
	if err := fs.Parse(args[1:]); err != nil {
		return err
	}

	region, err := ambient.ParseRegion(*regionStr)
	if err != nil {
		return err
	}

	w, h := *width, *height
	if w == 0 {
		w = cfg.Capture.Width
	}
	if h == 0 {
		h = cfg.Capture.Height
	}

	client, done, err := connect(ctx, cfg)
	if err != nil {
		return err
	}
	defer done()

	sampler, err := screen.NewSampler(screen.NewDisplaySource(), w, h, cfg.Capture.Interval.Duration())
	if err != nil {
		return err
	}
	defer sampler.Close()

	var transform ambient.ColorTransform
	if *transformPath != "" {
		tr, err := script.Load(*transformPath)
		if err != nil {
			return err
		}
		defer tr.Close()
		transform = tr
	}

	loop := ambient.NewLoop(sampler, client, transform, lightID, region, cfg.Sync.RateLimitRPS)
	return loop.Run(ctx)
}

// connect opens the credential store and resolves a bridge connection.
// The returned func releases the store.
func connect(ctx context.Context, cfg *config.Config) (*bridge.Client, func(), error) {
	st, err := store.Open(cfg.Database.Path)
	if err != nil {
		return nil, nil, fmt.Errorf("open credential store: %w", err)
	}

	client, err := bridge.NewSession(cfg.Bridge, st).Connect(ctx)
	if err != nil {
		st.Close()
		return nil, nil, err
	}

	return client, func() {
		if err := st.Close(); err != nil {
			log.Warn().Err(err).Msg("Closing credential store")
		}
	}, nil
}

// signalContext creates a context that is cancelled when SIGINT or SIGTERM is received.
func signalContext() context.Context {
	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigChan
		log.Warn().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	return ctx
}

func setupLogging(level string, useJSON bool, colors bool) {
	// ISO 8601 format with timezone
	zerolog.TimeFieldFormat = time.RFC3339

	if useJSON {
		// JSON output for production
		log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
	} else {
		// Text output (with optional colors)
		log.Logger = log.Output(zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: "2006-01-02T15:04:05.000Z07:00",
			NoColor:    !colors,
		})
	}

	switch level {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "info":
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	case "warn":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, `hueru - control Philips Hue lights from the command line

Usage:
  hueru [flags] list
  hueru [flags] set <light-id> rgb <r> <g> <b>
  hueru [flags] set <light-id> hex <#rrggbb>
  hueru [flags] sync <light-id> [--region l,t,r,b] [--width N] [--height N] [--transform script.lua]

Flags:
`)
	flag.PrintDefaults()
}

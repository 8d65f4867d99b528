// Package bridge manages discovery, pairing and the connection to a
// Philips Hue bridge.
package bridge

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/amimof/huego"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/derekwisong/hueru/internal/config"
	"github.com/derekwisong/hueru/internal/store"
)

// CredentialStore persists bridge pairing credentials between runs.
type CredentialStore interface {
	Credentials() (*store.Credentials, error)
	SaveCredentials(store.Credentials) error
	DeleteCredentials() error
}

// Session resolves a working bridge connection: explicit config wins,
// then stored credentials, then discovery plus link-button pairing.
type Session struct {
	cfg   config.BridgeConfig
	creds CredentialStore

	// Overridable for tests
	discover func() (string, error)
	pair     func(ctx context.Context, host string) (string, error)
	verify   func(ctx context.Context, host, username string) error
}

// NewSession creates a session manager.
func NewSession(cfg config.BridgeConfig, creds CredentialStore) *Session {
	s := &Session{
		cfg:   cfg,
		creds: creds,
	}
	s.discover = discoverBridge
	s.pair = func(ctx context.Context, host string) (string, error) {
		return pairBridge(ctx, host, cfg.PairWindow.Duration(), cfg.PairInterval.Duration())
	}
	s.verify = verifyBridge
	return s
}

// Connect returns an authenticated client, running discovery and the
// pairing flow as needed. Stored credentials the bridge rejects are
// deleted so the next run starts a fresh pairing.
func (s *Session) Connect(ctx context.Context) (*Client, error) {
	host := s.cfg.Host
	username := s.cfg.Username

	fromStore := false
	if host == "" || username == "" {
		creds, err := s.creds.Credentials()
		if err != nil {
			return nil, fmt.Errorf("read stored credentials: %w", err)
		}
		if creds != nil {
			if host == "" {
				host = creds.Host
			}
			if username == "" {
				username = creds.Username
				fromStore = true
			}
		}
	}

	if host == "" {
		log.Info().Msg("No bridge configured, starting discovery")
		discovered, err := s.discover()
		if err != nil {
			return nil, fmt.Errorf("bridge discovery: %w", err)
		}
		host = discovered
		log.Info().Str("host", host).Msg("Found bridge")
	}

	if username == "" {
		paired, err := s.pair(ctx, host)
		if err != nil {
			return nil, fmt.Errorf("bridge pairing: %w", err)
		}
		username = paired
		if err := s.creds.SaveCredentials(store.Credentials{Host: host, Username: username}); err != nil {
			log.Warn().Err(err).Msg("Failed to persist bridge credentials")
		} else {
			log.Info().Str("host", host).Msg("Bridge credentials saved")
		}
	}

	if err := s.verify(ctx, host, username); err != nil {
		if fromStore {
			log.Warn().Err(err).Msg("Stored credentials rejected by bridge, removing them")
			if derr := s.creds.DeleteCredentials(); derr != nil {
				log.Warn().Err(derr).Msg("Failed to remove stale credentials")
			}
			return nil, fmt.Errorf("stored bridge credentials were stale and have been removed, run again to pair: %w", err)
		}
		return nil, fmt.Errorf("connect to bridge %s: %w", host, err)
	}

	log.Debug().Str("host", host).Msg("Connected to bridge")
	return NewClient(huego.New(host, username)), nil
}

func discoverBridge() (string, error) {
	b, err := huego.Discover()
	if err != nil {
		return "", err
	}
	if b.Host == "" {
		return "", fmt.Errorf("no bridge found on the local network")
	}
	return b.Host, nil
}

// pairBridge retries user creation until the link button is pressed or
// the pairing window closes.
func pairBridge(ctx context.Context, host string, window, interval time.Duration) (string, error) {
	b := huego.New(host, "")
	deviceType := fmt.Sprintf("hueru#%s", uuid.NewString()[:8])

	log.Warn().Str("host", host).Msg("Please press the link button on the bridge")

	deadline := time.Now().Add(window)
	for {
		username, err := b.CreateUser(deviceType)
		if err == nil && username != "" {
			log.Info().Msg("Pairing successful")
			return username, nil
		}
		if err != nil && !isLinkButtonError(err) {
			return "", err
		}

		if time.Now().Add(interval).After(deadline) {
			return "", fmt.Errorf("link button not pressed within %s", window)
		}
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(interval):
		}
	}
}

func verifyBridge(ctx context.Context, host, username string) error {
	b := huego.New(host, username)
	if _, err := b.GetConfigContext(ctx); err != nil {
		return err
	}
	return nil
}

// The bridge reports an unpressed link button as a plain API error
// string, so matching on the message is all huego leaves us.
func isLinkButtonError(err error) bool {
	return strings.Contains(err.Error(), "link button not pressed")
}

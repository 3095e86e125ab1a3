//go:build linux

package mpris

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/genricoloni/groove/internal/domain"
	"github.com/godbus/dbus/v5"
	"go.uber.org/zap"
)

const (
	busPrefix       = "org.mpris.MediaPlayer2."
	objectPath      = "/org/mpris/MediaPlayer2"
	playerInterface = "org.mpris.MediaPlayer2.Player"

	// PreferredPlayer is used when several MPRIS players are on the bus
	PreferredPlayer = busPrefix + "spotify"
)

// Client controls a local media player via D-Bus MPRIS
type Client struct {
	logger    *zap.Logger
	mu        sync.Mutex
	conn      DBusClient // Interface for testability
	preferred string
	current   string // Last player used, for change logging
}

// NewClient connects to the session bus
func NewClient(logger *zap.Logger) (*Client, error) {
	conn, err := NewStdDBusClient()
	if err != nil {
		return nil, fmt.Errorf("%w: session bus connection failed: %w", domain.ErrAuthInit, err)
	}

	logger.Info("MPRIS backend connected to session bus")
	return newClient(logger, conn), nil
}

func newClient(logger *zap.Logger, conn DBusClient) *Client {
	return &Client{
		logger:    logger,
		conn:      conn,
		preferred: PreferredPlayer,
	}
}

// Start sends Play to the selected player
func (c *Client) Start(ctx context.Context) error {
	return c.command(ctx, "Play")
}

// Pause sends Pause to the selected player
func (c *Client) Pause(ctx context.Context) error {
	return c.command(ctx, "Pause")
}

// CurrentPlayback reads the metadata of the selected player.
// It returns nil when no MPRIS player is running.
func (c *Client) CurrentPlayback(_ context.Context) (*domain.Playback, error) {
	player, err := c.findPlayer()
	if errors.Is(err, domain.ErrNoPlayer) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	statusVariant, err := c.conn.GetProperty(player, objectPath, playerInterface+".PlaybackStatus")
	if err != nil {
		return nil, fmt.Errorf("failed to get playback status: %w", err)
	}
	status, ok := statusVariant.Value().(string)
	if !ok {
		return nil, fmt.Errorf("invalid playback status format")
	}

	pb := &domain.Playback{IsPlaying: status == "Playing"}

	variant, err := c.conn.GetProperty(player, objectPath, playerInterface+".Metadata")
	if err != nil {
		return nil, fmt.Errorf("failed to get metadata: %w", err)
	}

	// SAFE CAST: Some players return nil or unexpected types when idle
	metadata, ok := variant.Value().(map[string]dbus.Variant)
	if !ok {
		c.logger.Debug("Metadata variant is not a map, skipping", zap.String("player", player))
		return pb, nil
	}

	pb.Track = c.parseMetadata(metadata)
	return pb, nil
}

// TrackTempo is not exposed by MPRIS
func (c *Client) TrackTempo(context.Context, string) (float64, error) {
	return 0, domain.ErrTempoUnavailable
}

// Close closes the D-Bus connection
func (c *Client) Close() error {
	return c.conn.Close()
}

func (c *Client) command(ctx context.Context, method string) error {
	player, err := c.findPlayer()
	if err != nil {
		return err
	}
	if err := c.conn.Call(ctx, player, objectPath, playerInterface+"."+method); err != nil {
		return fmt.Errorf("%s on %s: %w", method, player, err)
	}
	return nil
}

// findPlayer picks the preferred player if present, otherwise the first one by name
func (c *Client) findPlayer() (string, error) {
	names, err := c.conn.ListNames()
	if err != nil {
		return "", fmt.Errorf("failed to list bus names: %w", err)
	}

	var players []string
	for _, name := range names {
		if strings.HasPrefix(name, busPrefix) {
			players = append(players, name)
		}
	}
	if len(players) == 0 {
		return "", domain.ErrNoPlayer
	}

	sort.Strings(players)
	player := players[0]
	for _, p := range players {
		if p == c.preferred {
			player = p
			break
		}
	}

	c.mu.Lock()
	if player != c.current {
		c.logger.Info("Using MPRIS player", zap.String("player", player), zap.Int("available", len(players)))
		c.current = player
	}
	c.mu.Unlock()

	return player, nil
}

// parseMetadata converts MPRIS metadata to a domain track
func (c *Client) parseMetadata(metadata map[string]dbus.Variant) *domain.Track {
	track := &domain.Track{}

	if idVar, ok := metadata["mpris:trackid"]; ok {
		switch id := idVar.Value().(type) {
		case dbus.ObjectPath:
			track.ID = string(id)
		case string:
			track.ID = id
		}
	}

	if titleVar, ok := metadata["xesam:title"]; ok {
		if title, ok := titleVar.Value().(string); ok {
			track.Name = title
		}
	}

	// Extract artists (can be an array)
	if artistVar, ok := metadata["xesam:artist"]; ok {
		switch artists := artistVar.Value().(type) {
		case []string:
			for _, a := range artists {
				track.Artists = append(track.Artists, domain.Artist{Name: a})
			}
		case string:
			track.Artists = []domain.Artist{{Name: artists}}
		default:
			// Some non-compliant players may use unexpected types
			c.logger.Debug("Unexpected artist type in metadata",
				zap.String("type", fmt.Sprintf("%T", artistVar.Value())))
		}
	}

	if artVar, ok := metadata["mpris:artUrl"]; ok {
		if artURL, ok := artVar.Value().(string); ok {
			track.ArtworkURL = artURL
		}
	}

	return track
}

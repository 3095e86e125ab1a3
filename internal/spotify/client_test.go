package spotify

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/genricoloni/groove/internal/domain"
	spotifyapi "github.com/zmb3/spotify/v2"
	"go.uber.org/zap"
)

const playingStateJSON = `{
	"is_playing": true,
	"device": {"id": "dev1", "name": "Laptop"},
	"item": {
		"id": "t1",
		"name": "Song A",
		"artists": [{"name": "Artist X"}, {"name": "Artist Y"}],
		"album": {"images": [{"url": "https://i.scdn.co/image/640"}, {"url": "https://i.scdn.co/image/64"}]}
	}
}`

// newTestClient points a Client at a fake Web API
func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	api := spotifyapi.New(server.Client(), spotifyapi.WithBaseURL(server.URL+"/"))
	return NewClient(zap.NewNop(), api)
}

func TestClient_CurrentPlayback(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		body        string
		expectError bool
		check       func(*testing.T, *domain.Playback)
	}{
		{
			name:   "Playing track",
			status: http.StatusOK,
			body:   playingStateJSON,
			check: func(t *testing.T, pb *domain.Playback) {
				if pb == nil || !pb.IsPlaying || pb.Track == nil {
					t.Fatalf("expected a playing track, got %+v", pb)
				}
				if pb.Track.ID != "t1" || pb.Track.Name != "Song A" {
					t.Errorf("unexpected track %+v", pb.Track)
				}
				if len(pb.Track.Artists) != 2 || pb.Track.Artists[0].Name != "Artist X" {
					t.Errorf("unexpected artists %+v", pb.Track.Artists)
				}
				if pb.Track.ArtworkURL != "https://i.scdn.co/image/64" {
					t.Errorf("expected smallest image, got %s", pb.Track.ArtworkURL)
				}
			},
		},
		{
			name:   "Paused track",
			status: http.StatusOK,
			body:   strings.Replace(playingStateJSON, `"is_playing": true`, `"is_playing": false`, 1),
			check: func(t *testing.T, pb *domain.Playback) {
				if pb == nil || pb.IsPlaying {
					t.Errorf("expected paused playback, got %+v", pb)
				}
			},
		},
		{
			name:   "No session body",
			status: http.StatusOK,
			body:   `{"is_playing": false, "item": null}`,
			check: func(t *testing.T, pb *domain.Playback) {
				if pb != nil {
					t.Errorf("expected nil playback, got %+v", pb)
				}
			},
		},
		{
			name:        "Unauthorized",
			status:      http.StatusUnauthorized,
			body:        `{"error": {"status": 401, "message": "The access token expired"}}`,
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/me/player" {
					t.Errorf("unexpected path %s", r.URL.Path)
				}
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})

			pb, err := c.CurrentPlayback(context.Background())

			if tt.expectError {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			tt.check(t, pb)
		})
	}
}

func TestClient_TrackTempo(t *testing.T) {
	tests := []struct {
		name          string
		body          string
		status        int
		expectedTempo float64
		expectedErr   error
		expectAnyErr  bool
	}{
		{
			name:          "Tempo present",
			status:        http.StatusOK,
			body:          `{"audio_features": [{"id": "t1", "tempo": 128.0}]}`,
			expectedTempo: 128.0,
		},
		{
			name:        "Null features",
			status:      http.StatusOK,
			body:        `{"audio_features": [null]}`,
			expectedErr: domain.ErrTempoUnavailable,
		},
		{
			name:        "Endpoint forbidden",
			status:      http.StatusForbidden,
			body:        `{"error": {"status": 403, "message": "Forbidden"}}`,
			expectedErr: domain.ErrTempoUnavailable,
		},
		{
			name:        "Track not found",
			status:      http.StatusNotFound,
			body:        `{"error": {"status": 404, "message": "Not found"}}`,
			expectedErr: domain.ErrTempoUnavailable,
		},
		{
			name:         "Server error",
			status:       http.StatusInternalServerError,
			body:         `{"error": {"status": 500, "message": "Internal error"}}`,
			expectAnyErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/audio-features" {
					t.Errorf("unexpected path %s", r.URL.Path)
				}
				if ids := r.URL.Query().Get("ids"); ids != "t1" {
					t.Errorf("unexpected ids %q", ids)
				}
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})

			tempo, err := c.TrackTempo(context.Background(), "t1")

			switch {
			case tt.expectedErr != nil:
				if !errors.Is(err, tt.expectedErr) {
					t.Errorf("expected %v, got %v", tt.expectedErr, err)
				}
			case tt.expectAnyErr:
				if err == nil {
					t.Error("expected error, got nil")
				}
				if errors.Is(err, domain.ErrTempoUnavailable) {
					t.Errorf("transient failure must not be reported as unavailable: %v", err)
				}
			default:
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if tempo != tt.expectedTempo {
					t.Errorf("expected %v, got %v", tt.expectedTempo, tempo)
				}
			}
		})
	}
}

func TestClient_Commands(t *testing.T) {
	tests := []struct {
		name        string
		path        string
		status      int
		call        func(*Client) error
		expectError bool
	}{
		{name: "Play", path: "/me/player/play", status: http.StatusNoContent, call: func(c *Client) error { return c.Start(context.Background()) }},
		{name: "Pause", path: "/me/player/pause", status: http.StatusNoContent, call: func(c *Client) error { return c.Pause(context.Background()) }},
		{name: "Play without device", path: "/me/player/play", status: http.StatusNotFound, call: func(c *Client) error { return c.Start(context.Background()) }, expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotMethod, gotPath string
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				gotMethod, gotPath = r.Method, r.URL.Path
				if tt.status != http.StatusNoContent {
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(tt.status)
					_, _ = w.Write([]byte(`{"error": {"status": 404, "message": "Player command failed: No active device found"}}`))
					return
				}
				w.WriteHeader(tt.status)
			})

			err := tt.call(c)

			if gotMethod != http.MethodPut || gotPath != tt.path {
				t.Errorf("expected PUT %s, got %s %s", tt.path, gotMethod, gotPath)
			}
			if tt.expectError && err == nil {
				t.Error("expected error, got nil")
			}
			if !tt.expectError && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

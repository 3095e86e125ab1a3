package spotify

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/genricoloni/groove/internal/domain"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	spotifyapi "github.com/zmb3/spotify/v2"
	spotifyauth "github.com/zmb3/spotify/v2/auth"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
)

// Scopes needed to read and control playback
var Scopes = []string{
	spotifyauth.ScopeUserReadPlaybackState,
	spotifyauth.ScopeUserModifyPlaybackState,
}

// Credentials identify the registered Spotify application
type Credentials struct {
	ClientID     string
	ClientSecret string
	RedirectURI  string
}

// Validate reports missing fields as domain.ErrAuthInit
func (c Credentials) Validate() error {
	var missing []string
	if c.ClientID == "" {
		missing = append(missing, "SPOTIPY_CLIENT_ID")
	}
	if c.ClientSecret == "" {
		missing = append(missing, "SPOTIPY_CLIENT_SECRET")
	}
	if c.RedirectURI == "" {
		missing = append(missing, "SPOTIPY_REDIRECT_URI")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %v", domain.ErrAuthInit, missing)
	}
	if _, err := url.Parse(c.RedirectURI); err != nil {
		return fmt.Errorf("%w: invalid redirect uri: %w", domain.ErrAuthInit, err)
	}
	return nil
}

// TokenExchanger is the authorization-code half of an OAuth2 authenticator
type TokenExchanger interface {
	AuthURL(state string, opts ...oauth2.AuthCodeOption) string
	Token(ctx context.Context, state string, r *http.Request, opts ...oauth2.AuthCodeOption) (*oauth2.Token, error)
}

// Connect runs the authorization flow and returns a ready PlaybackClient.
// openURL is asked to show the consent page to the user.
func Connect(ctx context.Context, logger *zap.Logger, creds Credentials, openURL func(string) error) (*Client, error) {
	if err := creds.Validate(); err != nil {
		return nil, err
	}

	auth := spotifyauth.New(
		spotifyauth.WithClientID(creds.ClientID),
		spotifyauth.WithClientSecret(creds.ClientSecret),
		spotifyauth.WithRedirectURL(creds.RedirectURI),
		spotifyauth.WithScopes(Scopes...),
	)

	token, err := Authorize(ctx, logger, auth, creds.RedirectURI, openURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrAuthInit, err)
	}

	// The HTTP client refreshes the token for the whole process lifetime
	httpClient := auth.Client(context.Background(), token)
	logger.Info("Spotify client authorized")
	return NewClient(logger, spotifyapi.New(httpClient)), nil
}

// Authorize serves the redirect URI, sends the user to the consent page and
// waits for the callback carrying the authorization code.
func Authorize(ctx context.Context, logger *zap.Logger, ex TokenExchanger, redirectURI string, openURL func(string) error) (*oauth2.Token, error) {
	u, err := url.Parse(redirectURI)
	if err != nil {
		return nil, fmt.Errorf("invalid redirect uri: %w", err)
	}

	ln, err := net.Listen("tcp", u.Host)
	if err != nil {
		return nil, fmt.Errorf("failed to listen on %s: %w", u.Host, err)
	}
	return authorize(ctx, logger, ex, ln, u.Path, openURL)
}

type tokenResult struct {
	token *oauth2.Token
	err   error
}

func authorize(ctx context.Context, logger *zap.Logger, ex TokenExchanger, ln net.Listener, path string, openURL func(string) error) (*oauth2.Token, error) {
	if path == "" {
		path = "/"
	}
	state := uuid.NewString()
	results := make(chan tokenResult, 1)

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.GET(path, func(c *gin.Context) {
		token, err := ex.Token(c.Request.Context(), state, c.Request)
		if err != nil {
			logger.Warn("Authorization callback rejected", zap.Error(err))
			c.String(http.StatusForbidden, "Authorization failed: %v", err)
			deliver(results, tokenResult{err: err})
			return
		}
		c.String(http.StatusOK, "Authorization complete, you can close this tab.")
		deliver(results, tokenResult{token: token})
	})

	srv := &http.Server{Handler: router, ReadHeaderTimeout: 10 * time.Second}
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Authorization server failed", zap.Error(err))
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Warn("Failed to stop authorization server", zap.Error(err))
		}
	}()

	authURL := ex.AuthURL(state)
	logger.Info("Open this URL to authorize Spotify access", zap.String("url", authURL))
	if openURL != nil {
		if err := openURL(authURL); err != nil {
			logger.Warn("Failed to open browser", zap.Error(err))
		}
	}

	select {
	case res := <-results:
		return res.token, res.err
	case <-ctx.Done():
		return nil, fmt.Errorf("authorization not completed: %w", ctx.Err())
	}
}

// deliver keeps the first callback result and drops later ones
func deliver(ch chan<- tokenResult, res tokenResult) {
	select {
	case ch <- res:
	default:
	}
}

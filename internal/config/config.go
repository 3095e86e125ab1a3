package config

import (
	"errors"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const (
	BackendSpotify = "spotify"
	BackendMpris   = "mpris"

	// MinSpeed and MaxSpeed bound the speed slider
	MinSpeed = 1
	MaxSpeed = 10

	minPollInterval = 1 * time.Second
	maxPollInterval = 5 * time.Second

	defaultDotEnvFile = ".env"
)

// Keys of the configuration values
const (
	KeyClientID       = "client_id"
	KeyClientSecret   = "client_secret"
	KeyRedirectURI    = "redirect_uri"
	KeyBackend        = "backend"
	KeyAnimationFile  = "animation_file"
	KeyFrameCount     = "frame_count"
	KeyFrameHeight    = "frame_height"
	KeyPollInterval   = "poll_interval"
	KeySpeed          = "speed"
	KeyCommandTimeout = "command_timeout"
	KeyAuthTimeout    = "auth_timeout"
	KeyArtworkSize    = "artwork_size"
)

// AppConfig holds application configuration
type AppConfig struct {
	logger *zap.Logger

	clientID     string
	clientSecret string
	redirectURI  string

	backend        string
	animationFile  string
	frameCount     int
	frameHeight    int
	pollInterval   time.Duration
	speed          int
	commandTimeout time.Duration
	authTimeout    time.Duration
	artworkSize    int
}

// NewAppConfig creates a new application configuration instance.
// Values come from the process environment; a .env file in the working
// directory fills in variables that are not already set.
func NewAppConfig(logger *zap.Logger) *AppConfig {
	if err := LoadDotEnv(defaultDotEnvFile); err != nil {
		logger.Warn("Failed to read .env file", zap.Error(err))
	}
	return FromViper(logger, NewViper())
}

// NewViper returns a viper instance bound to the environment with defaults applied
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix("GROOVE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Credential names follow the spotipy convention so existing .env files keep working
	_ = v.BindEnv(KeyClientID, "SPOTIPY_CLIENT_ID")
	_ = v.BindEnv(KeyClientSecret, "SPOTIPY_CLIENT_SECRET")
	_ = v.BindEnv(KeyRedirectURI, "SPOTIPY_REDIRECT_URI")

	v.SetDefault(KeyBackend, BackendSpotify)
	v.SetDefault(KeyAnimationFile, "dance.gif")
	v.SetDefault(KeyFrameCount, 27)
	v.SetDefault(KeyFrameHeight, 0)
	v.SetDefault(KeyPollInterval, time.Second)
	v.SetDefault(KeySpeed, MaxSpeed)
	v.SetDefault(KeyCommandTimeout, 10*time.Second)
	v.SetDefault(KeyAuthTimeout, 2*time.Minute)
	v.SetDefault(KeyArtworkSize, 64)
	return v
}

// FromViper builds an AppConfig from v, clamping out-of-range values
func FromViper(logger *zap.Logger, v *viper.Viper) *AppConfig {
	c := &AppConfig{
		logger:         logger,
		clientID:       v.GetString(KeyClientID),
		clientSecret:   v.GetString(KeyClientSecret),
		redirectURI:    v.GetString(KeyRedirectURI),
		backend:        strings.ToLower(v.GetString(KeyBackend)),
		animationFile:  os.ExpandEnv(v.GetString(KeyAnimationFile)),
		frameCount:     v.GetInt(KeyFrameCount),
		frameHeight:    v.GetInt(KeyFrameHeight),
		pollInterval:   v.GetDuration(KeyPollInterval),
		speed:          ClampSpeed(v.GetInt(KeySpeed)),
		commandTimeout: v.GetDuration(KeyCommandTimeout),
		authTimeout:    v.GetDuration(KeyAuthTimeout),
		artworkSize:    v.GetInt(KeyArtworkSize),
	}

	if c.backend != BackendSpotify && c.backend != BackendMpris {
		logger.Warn("Unknown backend, falling back to spotify", zap.String("backend", c.backend))
		c.backend = BackendSpotify
	}
	if c.pollInterval < minPollInterval {
		c.pollInterval = minPollInterval
	}
	if c.pollInterval > maxPollInterval {
		c.pollInterval = maxPollInterval
	}
	if c.frameCount < 0 {
		c.frameCount = 0
	}
	if c.frameHeight < 0 {
		c.frameHeight = 0
	}
	if c.commandTimeout <= 0 {
		c.commandTimeout = 10 * time.Second
	}
	if c.authTimeout <= 0 {
		c.authTimeout = 2 * time.Minute
	}

	logger.Info("Configuration loaded",
		zap.String("backend", c.backend),
		zap.String("animationFile", c.animationFile),
		zap.Int("frameCount", c.frameCount),
		zap.Duration("pollInterval", c.pollInterval),
		zap.Int("speed", c.speed))

	return c
}

// LoadDotEnv exports the variables of a dotenv file that are not already
// present in the environment. A missing file is not an error.
func LoadDotEnv(path string) error {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("env")
	if err := v.ReadInConfig(); err != nil {
		return err
	}

	for _, key := range v.AllKeys() {
		name := strings.ToUpper(key)
		if _, set := os.LookupEnv(name); set {
			continue
		}
		if err := os.Setenv(name, v.GetString(key)); err != nil {
			return err
		}
	}
	return nil
}

// ClampSpeed bounds a speed factor to [MinSpeed, MaxSpeed]
func ClampSpeed(speed int) int {
	if speed < MinSpeed {
		return MinSpeed
	}
	if speed > MaxSpeed {
		return MaxSpeed
	}
	return speed
}

// Credentials returns the OAuth client id, secret and redirect URI
func (c *AppConfig) Credentials() (clientID, clientSecret, redirectURI string) {
	return c.clientID, c.clientSecret, c.redirectURI
}

// GetBackend returns the PlaybackClient backend name
func (c *AppConfig) GetBackend() string {
	return c.backend
}

// GetAnimationFile returns the path of the animated image resource
func (c *AppConfig) GetAnimationFile() string {
	return c.animationFile
}

// GetFrameCount returns the number of indexed frames to load
func (c *AppConfig) GetFrameCount() int {
	return c.frameCount
}

// GetFrameHeight returns the configured frame height, 0 meaning auto
func (c *AppConfig) GetFrameHeight() int {
	return c.frameHeight
}

// GetPollInterval returns the playback poll cadence
func (c *AppConfig) GetPollInterval() time.Duration {
	return c.pollInterval
}

// GetSpeed returns the initial animation speed factor
func (c *AppConfig) GetSpeed() int {
	return c.speed
}

// GetCommandTimeout bounds a single play/pause command
func (c *AppConfig) GetCommandTimeout() time.Duration {
	return c.commandTimeout
}

// GetAuthTimeout bounds the interactive authorization flow
func (c *AppConfig) GetAuthTimeout() time.Duration {
	return c.authTimeout
}

// GetArtworkSize returns the edge length of the artwork thumbnail
func (c *AppConfig) GetArtworkSize() int {
	return c.artworkSize
}

package artwork

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/jpeg" // JPEG format support
	_ "image/png"  // PNG format support

	"github.com/disintegration/imaging"
	"github.com/genricoloni/groove/internal/domain"
	"go.uber.org/zap"
)

const defaultSize = 64

// ThumbnailLoader fetches album artwork and crops it to a square thumbnail
type ThumbnailLoader struct {
	logger  *zap.Logger
	fetcher domain.Fetcher
	size    int
}

// NewThumbnailLoader creates a loader producing size x size thumbnails
func NewThumbnailLoader(logger *zap.Logger, fetcher domain.Fetcher, size int) *ThumbnailLoader {
	if size <= 0 {
		size = defaultSize
	}
	return &ThumbnailLoader{
		logger:  logger,
		fetcher: fetcher,
		size:    size,
	}
}

// Load fetches the artwork at url and returns the thumbnail
func (l *ThumbnailLoader) Load(ctx context.Context, url string) (image.Image, error) {
	data, err := l.fetcher.Fetch(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch artwork: %w", err)
	}
	return l.Thumbnail(data)
}

// Thumbnail decodes image data and center-crops it to the loader size
func (l *ThumbnailLoader) Thumbnail(data []byte) (image.Image, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	// Validate image dimensions to prevent division by zero
	bounds := img.Bounds()
	if bounds.Dy() == 0 || bounds.Dx() == 0 {
		return nil, fmt.Errorf("invalid image dimensions: %dx%d", bounds.Dx(), bounds.Dy())
	}

	thumb := imaging.Fill(img, l.size, l.size, imaging.Center, imaging.Lanczos)

	l.logger.Debug("Artwork thumbnail created",
		zap.Int("srcWidth", bounds.Dx()),
		zap.Int("srcHeight", bounds.Dy()),
		zap.Int("size", l.size))
	return thumb, nil
}

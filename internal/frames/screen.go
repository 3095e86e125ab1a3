package frames

import (
	"github.com/genricoloni/groove/internal/domain"
	"github.com/kbinani/screenshot"
	"go.uber.org/zap"
)

const (
	// heightPercent is the share of the screen height used by the animation
	heightPercent = 15
	minAutoHeight = 64
	maxAutoHeight = 320
)

// NewScreenResolution detects the primary screen resolution at startup
func NewScreenResolution(logger *zap.Logger) *domain.ScreenResolution {
	n := screenshot.NumActiveDisplays()
	if n <= 0 {
		logger.Warn("No active displays detected, falling back to 1920x1080")
		return &domain.ScreenResolution{Width: 1920, Height: 1080}
	}

	// Use primary monitor (index 0)
	bounds := screenshot.GetDisplayBounds(0)
	res := &domain.ScreenResolution{
		Width:  bounds.Dx(),
		Height: bounds.Dy(),
	}

	logger.Info("Screen resolution detected",
		zap.Int("width", res.Width),
		zap.Int("height", res.Height))

	return res
}

// FrameHeight returns configured when positive, otherwise a height derived
// from the screen resolution
func FrameHeight(res *domain.ScreenResolution, configured int) int {
	if configured > 0 {
		return configured
	}

	h := res.Height * heightPercent / 100
	if h < minAutoHeight {
		return minAutoHeight
	}
	if h > maxAutoHeight {
		return maxAutoHeight
	}
	return h
}

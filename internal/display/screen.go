package display

import (
	"image"

	"github.com/genricoloni/autowallpaper/internal/domain"
	"github.com/kbinani/screenshot"
	"go.uber.org/zap"
)

// Fallback is used when no active display can be queried
var Fallback = domain.ScreenResolution{Width: 1920, Height: 1080}

// Bounds reports the number of displays and the bounds of one of them
type Bounds interface {
	NumActiveDisplays() int
	GetDisplayBounds(displayIndex int) image.Rectangle
}

type screenshotBounds struct{}

func (screenshotBounds) NumActiveDisplays() int { return screenshot.NumActiveDisplays() }

func (screenshotBounds) GetDisplayBounds(i int) image.Rectangle { return screenshot.GetDisplayBounds(i) }

// NewScreenResolution detects the primary screen resolution at startup
func NewScreenResolution(logger *zap.Logger) domain.ScreenResolution {
	return Detect(logger, screenshotBounds{})
}

// Detect reads the primary monitor (index 0) from b
func Detect(logger *zap.Logger, b Bounds) domain.ScreenResolution {
	n := b.NumActiveDisplays()
	if n <= 0 {
		logger.Warn("No active displays detected, falling back to 1920x1080")
		return Fallback
	}

	bounds := b.GetDisplayBounds(0)
	if bounds.Dx() <= 0 || bounds.Dy() <= 0 {
		logger.Warn("Primary display reported empty bounds, falling back to 1920x1080")
		return Fallback
	}

	res := domain.ScreenResolution{
		Width:  bounds.Dx(),
		Height: bounds.Dy(),
	}

	logger.Info("Screen resolution detected",
		zap.Int("width", res.Width),
		zap.Int("height", res.Height))

	return res
}

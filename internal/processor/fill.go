package processor

import (
	"bytes"
	"context"
	"fmt"
	_ "image/jpeg" // JPEG format support
	_ "image/png"  // PNG format support

	"github.com/disintegration/imaging"
	"github.com/genricoloni/autowallpaper/internal/domain"
	"go.uber.org/zap"
	_ "golang.org/x/image/webp" // WebP format support, served by most image CDNs
)

// FillProcessor crops and scales downloaded images to cover the whole screen
type FillProcessor struct {
	logger *zap.Logger
	res    domain.ScreenResolution
}

// NewFillProcessor creates a new fill-to-screen image processor
func NewFillProcessor(logger *zap.Logger, res domain.ScreenResolution) *FillProcessor {
	return &FillProcessor{
		logger: logger,
		res:    res,
	}
}

// Process decodes imageData, fills the screen resolution and encodes the result as PNG
func (p *FillProcessor) Process(ctx context.Context, imageData []byte) ([]byte, error) {
	img, err := imaging.Decode(bytes.NewReader(imageData), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	bounds := img.Bounds()
	if bounds.Dx() == 0 || bounds.Dy() == 0 {
		return nil, fmt.Errorf("invalid image dimensions: %dx%d", bounds.Dx(), bounds.Dy())
	}

	if bounds.Dx() != p.res.Width || bounds.Dy() != p.res.Height {
		p.logger.Debug("Filling screen",
			zap.Int("srcW", bounds.Dx()), zap.Int("srcH", bounds.Dy()),
			zap.Int("w", p.res.Width), zap.Int("h", p.res.Height))
		img = imaging.Fill(img, p.res.Width, p.res.Height, imaging.Center, imaging.Lanczos)
	}

	buf := new(bytes.Buffer)
	if err := imaging.Encode(buf, img, imaging.PNG); err != nil {
		return nil, fmt.Errorf("failed to encode result: %w", err)
	}

	p.logger.Debug("Image processed successfully", zap.Int("bytes", buf.Len()))
	return buf.Bytes(), nil
}

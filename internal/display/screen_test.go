package display

import (
	"image"
	"testing"

	"github.com/genricoloni/autowallpaper/internal/domain"
	"go.uber.org/zap"
)

type fakeBounds struct {
	displays []image.Rectangle
}

func (f fakeBounds) NumActiveDisplays() int { return len(f.displays) }

func (f fakeBounds) GetDisplayBounds(i int) image.Rectangle { return f.displays[i] }

func TestDetect(t *testing.T) {
	tests := []struct {
		name     string
		bounds   fakeBounds
		expected domain.ScreenResolution
	}{
		{
			name:     "Primary Display",
			bounds:   fakeBounds{displays: []image.Rectangle{image.Rect(0, 0, 2560, 1440), image.Rect(2560, 0, 4480, 1080)}},
			expected: domain.ScreenResolution{Width: 2560, Height: 1440},
		},
		{
			name:     "Offset Primary Display",
			bounds:   fakeBounds{displays: []image.Rectangle{image.Rect(-1920, 0, 0, 1200)}},
			expected: domain.ScreenResolution{Width: 1920, Height: 1200},
		},
		{
			name:     "No Displays",
			bounds:   fakeBounds{},
			expected: Fallback,
		},
		{
			name:     "Empty Bounds",
			bounds:   fakeBounds{displays: []image.Rectangle{{}}},
			expected: Fallback,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Detect(zap.NewNop(), tt.bounds); got != tt.expected {
				t.Errorf("expected %+v, got %+v", tt.expected, got)
			}
		})
	}
}

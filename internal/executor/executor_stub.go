//go:build !linux && !windows && !darwin
// +build !linux,!windows,!darwin

package executor

import (
	"context"
	"fmt"
	"runtime"

	"github.com/genricoloni/autowallpaper/internal/domain"
	"go.uber.org/zap"
)

// StubExecutor is a placeholder for unsupported platforms (BSD, etc.)
type StubExecutor struct {
	logger *zap.Logger
}

// NewExecutor creates a stub applier for unsupported platforms
func NewExecutor(logger *zap.Logger) (domain.Applier, error) {
	logger.Warn("Wallpaper setting is not implemented for this platform", zap.String("os", runtime.GOOS))
	return &StubExecutor{logger: logger}, nil
}

// Apply returns an error indicating the platform is not supported
func (e *StubExecutor) Apply(ctx context.Context, imagePath string) (int, error) {
	return -1, fmt.Errorf("wallpaper setting not implemented for %s", runtime.GOOS)
}

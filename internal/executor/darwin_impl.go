//go:build darwin
// +build darwin

package executor

import (
	"github.com/genricoloni/autowallpaper/internal/domain"
	"go.uber.org/zap"
)

// finderSetter asks Finder to change the desktop picture through AppleScript
var finderSetter = WallpaperSetter{
	Name:   "osascript",
	Binary: "/usr/bin/osascript",
	Steps: [][]string{{
		"-e",
		`tell application "Finder" to set desktop picture to POSIX file "%s"`,
	}},
}

// NewExecutor creates a new platform-specific wallpaper applier (macOS implementation)
func NewExecutor(logger *zap.Logger) (domain.Applier, error) {
	logger.Info("Wallpaper setter detected", zap.String("name", finderSetter.Name))
	return NewCommandApplier(logger, finderSetter), nil
}

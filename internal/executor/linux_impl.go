//go:build linux
// +build linux

package executor

import (
	"fmt"
	"os"
	"strings"

	"github.com/genricoloni/autowallpaper/internal/domain"
	"go.uber.org/zap"
)

// NewExecutor creates a new platform-specific wallpaper applier (Linux implementation).
// KDE Plasma is driven over D-Bus, everything else through a detected command.
func NewExecutor(logger *zap.Logger) (domain.Applier, error) {
	if strings.Contains(strings.ToLower(os.Getenv("XDG_CURRENT_DESKTOP")), "kde") {
		if applier := newPlasmaExecutor(logger); applier != nil {
			return applier, nil
		}
	}

	setter, ok := detectSetter(logger, os.Getenv, commandExists)
	if !ok {
		return nil, fmt.Errorf("no supported wallpaper command found on this system")
	}

	logger.Info("Wallpaper setter detected",
		zap.String("name", setter.Name),
		zap.String("binary", setter.Binary))

	return NewCommandApplier(logger, setter), nil
}

// newPlasmaExecutor returns nil when plasmashell is not reachable on the session bus
func newPlasmaExecutor(logger *zap.Logger) *PlasmaApplier {
	conn, err := NewStdDBusClient()
	if err != nil {
		logger.Warn("KDE session without a session bus, falling back to commands", zap.Error(err))
		return nil
	}

	owned, err := conn.NameHasOwner(plasmaBusName)
	if err != nil || !owned {
		logger.Warn("plasmashell not found on the session bus, falling back to commands", zap.Error(err))
		if cerr := conn.Close(); cerr != nil {
			logger.Warn("Failed to close D-Bus connection", zap.Error(cerr))
		}
		return nil
	}

	logger.Info("Wallpaper setter detected", zap.String("name", "plasma"))
	return NewPlasmaApplier(logger, conn)
}

package executor

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/godbus/dbus/v5"
	"go.uber.org/zap"
)

const (
	plasmaBusName = "org.kde.plasmashell"
	plasmaPath    = dbus.ObjectPath("/PlasmaShell")
	plasmaMethod  = "org.kde.PlasmaShell.evaluateScript"
)

// plasmaScript sets the image plugin wallpaper on every desktop.
// %s receives a quoted file:// URI.
const plasmaScript = `var all = desktops();
for (var i = 0; i < all.length; i++) {
	var d = all[i];
	d.wallpaperPlugin = "org.kde.image";
	d.currentConfigGroup = Array("Wallpaper", "org.kde.image", "General");
	d.writeConfig("Image", %s);
}`

// PlasmaApplier sets the wallpaper through the KDE Plasma scripting interface
type PlasmaApplier struct {
	logger *zap.Logger
	conn   DBusClient
}

// NewPlasmaApplier creates an applier on an open session bus connection
func NewPlasmaApplier(logger *zap.Logger, conn DBusClient) *PlasmaApplier {
	return &PlasmaApplier{
		logger: logger,
		conn:   conn,
	}
}

// Apply asks plasmashell to evaluate the wallpaper script.
// There is no process involved, a rejected call is reported as exit code 1.
func (p *PlasmaApplier) Apply(ctx context.Context, imagePath string) (int, error) {
	if err := ctx.Err(); err != nil {
		return -1, err
	}

	script := fmt.Sprintf(plasmaScript, strconv.Quote("file://"+imagePath))
	if err := p.conn.Call(plasmaBusName, plasmaPath, plasmaMethod, []any{script}); err != nil {
		var remote dbus.Error
		if errors.As(err, &remote) {
			p.logger.Warn("Plasma rejected wallpaper script", zap.Error(err))
			return 1, nil
		}
		return -1, fmt.Errorf("failed to call %s: %w", plasmaMethod, err)
	}

	p.logger.Info("Wallpaper set successfully",
		zap.String("command", "plasma"),
		zap.String("path", imagePath))
	return 0, nil
}

// Close releases the D-Bus connection
func (p *PlasmaApplier) Close() error {
	return p.conn.Close()
}

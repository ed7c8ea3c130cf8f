//go:build windows
// +build windows

package executor

import (
	"context"
	"errors"
	"fmt"
	"syscall"
	"unsafe"

	"github.com/genricoloni/autowallpaper/internal/domain"
	"go.uber.org/zap"
	"golang.org/x/sys/windows"
)

const (
	spiSetDeskWallpaper = 0x0014
	spifUpdateIniFile   = 0x01
	spifSendChange      = 0x02
)

var (
	user32                    = windows.NewLazySystemDLL("user32.dll")
	procSystemParametersInfoW = user32.NewProc("SystemParametersInfoW")
)

// WindowsExecutor handles wallpaper setting on Windows systems
type WindowsExecutor struct {
	logger *zap.Logger
}

// NewExecutor creates a new platform-specific wallpaper applier (Windows implementation)
func NewExecutor(logger *zap.Logger) (domain.Applier, error) {
	if err := procSystemParametersInfoW.Find(); err != nil {
		return nil, fmt.Errorf("SystemParametersInfoW unavailable: %w", err)
	}
	logger.Info("Windows wallpaper setter initialized")
	return &WindowsExecutor{logger: logger}, nil
}

// Apply sets the desktop wallpaper using SystemParametersInfoW.
// A failed call reports the Win32 error number as the exit code.
func (e *WindowsExecutor) Apply(ctx context.Context, imagePath string) (int, error) {
	if err := ctx.Err(); err != nil {
		return -1, err
	}

	path, err := windows.UTF16PtrFromString(imagePath)
	if err != nil {
		return -1, fmt.Errorf("invalid wallpaper path: %w", err)
	}

	ret, _, callErr := procSystemParametersInfoW.Call(
		spiSetDeskWallpaper,
		0,
		uintptr(unsafe.Pointer(path)),
		spifUpdateIniFile|spifSendChange)
	if ret == 0 {
		code := 1
		var errno syscall.Errno
		if errors.As(callErr, &errno) && errno != 0 {
			code = int(errno)
		}
		e.logger.Warn("SystemParametersInfoW failed", zap.Error(callErr), zap.Int("code", code))
		return code, nil
	}

	e.logger.Info("Wallpaper set successfully",
		zap.String("command", "SystemParametersInfoW"),
		zap.String("path", imagePath))
	return 0, nil
}

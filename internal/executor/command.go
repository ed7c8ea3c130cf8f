package executor

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"sync"

	"go.uber.org/zap"
)

// WallpaperSetter describes an external command able to change the background
type WallpaperSetter struct {
	Name   string
	Binary string
	// Steps are run in order, each one an argument list for Binary.
	// %s is replaced with the image path.
	Steps [][]string
	// Detached setters keep running to hold the wallpaper (swaybg).
	// Their single step is started in the background and the instance
	// started by the previous Apply is killed.
	Detached bool
}

// CommandApplier applies wallpapers by running a WallpaperSetter
type CommandApplier struct {
	logger *zap.Logger
	setter WallpaperSetter

	mu      sync.Mutex
	running *exec.Cmd
}

// NewCommandApplier creates an applier for the given setter
func NewCommandApplier(logger *zap.Logger, setter WallpaperSetter) *CommandApplier {
	return &CommandApplier{
		logger: logger,
		setter: setter,
	}
}

// Name returns the setter name, for logging
func (a *CommandApplier) Name() string {
	return a.setter.Name
}

// Apply runs every step of the setter and returns the exit code of the
// first step that fails, or 0. An error means a step could not be started.
func (a *CommandApplier) Apply(ctx context.Context, imagePath string) (int, error) {
	if a.setter.Detached {
		return a.startDetached(imagePath)
	}

	for _, step := range a.setter.Steps {
		args := expandArgs(step, imagePath)

		a.logger.Debug("Setting wallpaper",
			zap.String("command", a.setter.Binary),
			zap.Strings("args", args),
			zap.String("path", imagePath))

		cmd := exec.CommandContext(ctx, a.setter.Binary, args...)
		output, err := cmd.CombinedOutput()
		if err != nil {
			var exitErr *exec.ExitError
			if errors.As(err, &exitErr) {
				a.logger.Warn("Wallpaper command failed",
					zap.String("command", a.setter.Name),
					zap.Int("code", exitErr.ExitCode()),
					zap.String("output", strings.TrimSpace(string(output))))
				return exitErr.ExitCode(), nil
			}
			return -1, fmt.Errorf("failed to run %s: %w", a.setter.Name, err)
		}
	}

	a.logger.Info("Wallpaper set successfully",
		zap.String("command", a.setter.Name),
		zap.String("path", imagePath))

	return 0, nil
}

// startDetached launches the setter without waiting for it to exit.
// The new instance is started before the old one is killed so the
// desktop never shows an empty background in between.
func (a *CommandApplier) startDetached(imagePath string) (int, error) {
	if len(a.setter.Steps) != 1 {
		return -1, fmt.Errorf("detached setter %s must have exactly one step", a.setter.Name)
	}
	args := expandArgs(a.setter.Steps[0], imagePath)

	a.logger.Debug("Starting wallpaper daemon",
		zap.String("command", a.setter.Binary),
		zap.Strings("args", args))

	cmd := exec.Command(a.setter.Binary, args...)
	if err := cmd.Start(); err != nil {
		return -1, fmt.Errorf("failed to start %s: %w", a.setter.Name, err)
	}
	go func() {
		// Reap the process; its exit status is uninteresting once replaced
		_ = cmd.Wait()
	}()

	a.mu.Lock()
	previous := a.running
	a.running = cmd
	a.mu.Unlock()

	if previous != nil {
		if err := previous.Process.Kill(); err != nil && !errors.Is(err, os.ErrProcessDone) {
			a.logger.Warn("Failed to stop previous wallpaper daemon",
				zap.String("command", a.setter.Name),
				zap.Error(err))
		}
	}

	a.logger.Info("Wallpaper set successfully",
		zap.String("command", a.setter.Name),
		zap.String("path", imagePath),
		zap.Int("pid", cmd.Process.Pid))

	return 0, nil
}

// Close stops the background setter, if any
func (a *CommandApplier) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.running == nil {
		return nil
	}
	err := a.running.Process.Kill()
	a.running = nil
	if errors.Is(err, os.ErrProcessDone) {
		return nil
	}
	return err
}

func expandArgs(step []string, imagePath string) []string {
	args := make([]string, len(step))
	for i, arg := range step {
		args[i] = strings.ReplaceAll(arg, "%s", imagePath)
	}
	return args
}

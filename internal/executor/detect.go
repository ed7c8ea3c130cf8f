package executor

import (
	"os/exec"
	"strings"

	"go.uber.org/zap"
)

var (
	// Ordered list of Linux wallpaper setters to try (highest priority first)
	linuxSetters = []WallpaperSetter{
		// Hyprland - swww (recommended)
		{Name: "swww", Binary: "swww", Steps: [][]string{{"img", "%s"}}},
		// Hyprland - hyprpaper caches by path, so the previous image is unloaded first
		{Name: "hyprpaper", Binary: "hyprctl", Steps: [][]string{
			{"hyprpaper", "unload", "all"},
			{"hyprpaper", "preload", "%s"},
			{"hyprpaper", "wallpaper", ",%s"},
		}},
		// swaybg (Sway/Wayland)
		{Name: "swaybg", Binary: "swaybg", Steps: [][]string{{"-i", "%s", "-m", "fill"}}, Detached: true},
		// GNOME sets light and dark keys separately
		{Name: "gnome", Binary: "gsettings", Steps: [][]string{
			{"set", "org.gnome.desktop.background", "picture-uri", "file://%s"},
			{"set", "org.gnome.desktop.background", "picture-uri-dark", "file://%s"},
		}},
		// Generic X11 - feh
		{Name: "feh", Binary: "feh", Steps: [][]string{{"--bg-fill", "%s"}}},
		// Generic X11 - nitrogen
		{Name: "nitrogen", Binary: "nitrogen", Steps: [][]string{{"--set-zoom-fill", "%s"}}},
	}
)

// detectSetter analyzes the environment to choose the best wallpaper command.
// getenv and exists are injected so the policy can be tested anywhere.
func detectSetter(logger *zap.Logger, getenv func(string) string, exists func(string) bool) (WallpaperSetter, bool) {
	desktop := getenv("XDG_CURRENT_DESKTOP")
	session := getenv("XDG_SESSION_TYPE")
	wayland := getenv("WAYLAND_DISPLAY")
	hyprland := getenv("HYPRLAND_INSTANCE_SIGNATURE")

	logger.Debug("Detecting wallpaper command",
		zap.String("desktop", desktop),
		zap.String("session", session),
		zap.String("wayland", wayland),
		zap.String("hyprland", hyprland))

	pick := func(names ...string) (WallpaperSetter, bool) {
		for _, s := range linuxSetters {
			for _, name := range names {
				if s.Name == name && exists(s.Binary) {
					return s, true
				}
			}
		}
		return WallpaperSetter{}, false
	}

	if hyprland != "" {
		if s, ok := pick("swww", "hyprpaper"); ok {
			return s, true
		}
	}

	if strings.Contains(strings.ToLower(desktop), "gnome") {
		if s, ok := pick("gnome"); ok {
			return s, true
		}
	}

	if wayland != "" || session == "wayland" {
		if s, ok := pick("swww", "swaybg"); ok {
			return s, true
		}
	}

	// Fallback: try all commands in order
	for _, s := range linuxSetters {
		if exists(s.Binary) {
			logger.Info("Using fallback wallpaper command", zap.String("name", s.Name))
			return s, true
		}
	}

	return WallpaperSetter{}, false
}

// commandExists checks if a binary exists in PATH
func commandExists(binary string) bool {
	_, err := exec.LookPath(binary)
	return err == nil
}

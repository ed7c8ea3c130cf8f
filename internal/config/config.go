package config

import (
	"errors"
	"fmt"
	"math"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/genricoloni/autowallpaper/internal/domain"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

const (
	defaultOutputPath   = "~/.cache/autowallpaper/wallpaper.png"
	defaultServiceURL   = "https://source.unsplash.com"
	defaultTimeout      = 30 * time.Second
	defaultMaxRedirects = 10

	// MaxDimension bounds the requested image size on each axis
	MaxDimension = 16384

	envOutputPath = "AUTOWALLPAPER_OUTPUT"
	envServiceURL = "AUTOWALLPAPER_SERVICE"
)

// Options is the raw startup input, usually straight from the command line
type Options struct {
	Topic    string
	Interval int64
	Unit     string
	Width    int
	Height   int
	// OutputPath falls back to $AUTOWALLPAPER_OUTPUT, then to the default
	OutputPath string
	// ServiceURL falls back to $AUTOWALLPAPER_SERVICE, then to Unsplash
	ServiceURL string
	Timeout    time.Duration
	// MaxRedirects of 0 selects the default; negative disables the limit
	MaxRedirects int
	// Probe resolves the seed URL once at startup to reject unknown topics
	Probe bool
}

// WallpaperConfig is the immutable application configuration.
// It is created once at startup and never changes afterwards.
type WallpaperConfig struct {
	topic        string
	interval     int64
	unit         Unit
	res          domain.ScreenResolution
	outputPath   string
	serviceURL   string
	timeout      time.Duration
	maxRedirects int
	probe        bool
}

// New validates opts and builds the configuration.
// All problems are reported at once inside a *domain.ConfigurationError.
func New(opts Options, logger *zap.Logger) (*WallpaperConfig, error) {
	var errs error

	topic := strings.TrimSpace(opts.Topic)
	if topic == "" {
		errs = multierr.Append(errs, errors.New("topic must not be empty"))
	}

	if opts.Interval < 1 {
		errs = multierr.Append(errs, fmt.Errorf("interval must be positive, got %d", opts.Interval))
	}

	unit, err := ParseUnit(opts.Unit)
	if err != nil {
		errs = multierr.Append(errs, err)
	} else if limit := int64(math.MaxInt64 / unit.Duration()); opts.Interval > limit {
		errs = multierr.Append(errs, fmt.Errorf("interval must be at most %d %s, got %d", limit, unit, opts.Interval))
	}

	if opts.Width <= 0 || opts.Height <= 0 {
		errs = multierr.Append(errs, fmt.Errorf("screen dimensions must be positive, got %dx%d", opts.Width, opts.Height))
	} else if opts.Width > MaxDimension || opts.Height > MaxDimension {
		errs = multierr.Append(errs, fmt.Errorf("screen dimensions must be at most %dx%d, got %dx%d",
			MaxDimension, MaxDimension, opts.Width, opts.Height))
	}

	serviceURL := firstNonEmpty(opts.ServiceURL, os.Getenv(envServiceURL), defaultServiceURL)
	serviceURL = strings.TrimSuffix(serviceURL, "/")
	if u, err := url.Parse(serviceURL); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		errs = multierr.Append(errs, fmt.Errorf("image service must be an http(s) URL, got %q", serviceURL))
	}

	outputPath, err := expandPath(firstNonEmpty(opts.OutputPath, os.Getenv(envOutputPath), defaultOutputPath))
	if err != nil {
		errs = multierr.Append(errs, fmt.Errorf("output path: %w", err))
	}

	if errs != nil {
		return nil, &domain.ConfigurationError{Err: errs}
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	maxRedirects := opts.MaxRedirects
	if maxRedirects == 0 {
		maxRedirects = defaultMaxRedirects
	}

	cfg := &WallpaperConfig{
		topic:        topic,
		interval:     opts.Interval,
		unit:         unit,
		res:          domain.ScreenResolution{Width: opts.Width, Height: opts.Height},
		outputPath:   outputPath,
		serviceURL:   serviceURL,
		timeout:      timeout,
		maxRedirects: maxRedirects,
		probe:        opts.Probe,
	}

	logger.Info("Configuration loaded",
		zap.String("topic", cfg.topic),
		zap.Duration("period", cfg.Period()),
		zap.Int("width", cfg.res.Width),
		zap.Int("height", cfg.res.Height),
		zap.String("output", cfg.outputPath),
		zap.String("service", cfg.serviceURL))

	return cfg, nil
}

// Topic returns the search term every image should match
func (c *WallpaperConfig) Topic() string {
	return c.topic
}

// Interval returns the number of units between two cycles
func (c *WallpaperConfig) Interval() int64 {
	return c.interval
}

// Unit returns the unit the interval is expressed in
func (c *WallpaperConfig) Unit() Unit {
	return c.unit
}

// Period returns the time between the starts of two consecutive cycles
func (c *WallpaperConfig) Period() time.Duration {
	return time.Duration(c.interval) * c.unit.Duration()
}

// Resolution returns the target screen dimensions
func (c *WallpaperConfig) Resolution() domain.ScreenResolution {
	return c.res
}

// OutputPath returns the absolute path of the wallpaper file
func (c *WallpaperConfig) OutputPath() string {
	return c.outputPath
}

// Timeout returns the per-request HTTP timeout
func (c *WallpaperConfig) Timeout() time.Duration {
	return c.timeout
}

// MaxRedirects returns the redirect hop limit, negative means unbounded
func (c *WallpaperConfig) MaxRedirects() int {
	return c.maxRedirects
}

// Probe reports whether the topic should be checked against the service at startup
func (c *WallpaperConfig) Probe() bool {
	return c.probe
}

// SeedURL builds the image service request for the configured topic and screen.
// The service answers it with a redirect to a random matching image.
func (c *WallpaperConfig) SeedURL() string {
	return fmt.Sprintf("%s/random/%dx%d?%s",
		c.serviceURL, c.res.Width, c.res.Height, url.QueryEscape(c.topic))
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}

// expandPath resolves ~ and environment variables into an absolute path
func expandPath(path string) (string, error) {
	path = os.ExpandEnv(path)
	if strings.HasPrefix(path, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		path = filepath.Join(home, strings.TrimPrefix(path, "~"))
	}
	return filepath.Abs(path)
}

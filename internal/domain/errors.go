package domain

import (
	"errors"
	"fmt"
)

// ErrAlreadyStopped is returned by Start once the scheduler has been stopped.
// A stopped scheduler can never be restarted.
var ErrAlreadyStopped = errors.New("scheduler cannot be restarted once stopped")

// ConfigurationError reports invalid startup input (topic, interval, unit...)
type ConfigurationError struct {
	Err error
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid configuration: %v", e.Err)
}

func (e *ConfigurationError) Unwrap() error { return e.Err }

// ResolutionError reports a redirect chain that could not be followed
type ResolutionError struct {
	URL string
	Err error
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("resolve %s: %v", e.URL, e.Err)
}

func (e *ResolutionError) Unwrap() error { return e.Err }

// RedirectLoopError is returned when a chain exceeds the hop limit
type RedirectLoopError struct {
	URL  string
	Hops int
}

func (e *RedirectLoopError) Error() string {
	return fmt.Sprintf("resolve %s: redirect chain exceeded %d hops", e.URL, e.Hops)
}

// As lets a RedirectLoopError match *ResolutionError as well
func (e *RedirectLoopError) As(target any) bool {
	re, ok := target.(**ResolutionError)
	if !ok {
		return false
	}
	*re = &ResolutionError{URL: e.URL, Err: fmt.Errorf("exceeded %d redirect hops", e.Hops)}
	return true
}

// DownloadError reports image bytes that could not be fetched or decoded
type DownloadError struct {
	URL string
	Err error
}

func (e *DownloadError) Error() string {
	return fmt.Sprintf("download %s: %v", e.URL, e.Err)
}

func (e *DownloadError) Unwrap() error { return e.Err }

// ProcessFailureError reports a wallpaper command that exited non-zero
type ProcessFailureError struct {
	ExitCode int
}

func (e *ProcessFailureError) Error() string {
	return fmt.Sprintf("wallpaper command exited with code %d", e.ExitCode)
}

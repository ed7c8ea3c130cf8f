package domain

import "time"

// ScreenResolution holds the display dimensions
type ScreenResolution struct {
	Width  int
	Height int
}

// OutcomeKind classifies the result of a single wallpaper cycle
type OutcomeKind string

const (
	// OutcomeSuccess indicates the wallpaper was downloaded and applied
	OutcomeSuccess OutcomeKind = "success"
	// OutcomeNetworkFailure indicates the image could not be resolved or downloaded
	OutcomeNetworkFailure OutcomeKind = "network-failure"
	// OutcomeStorageFailure indicates the image could not be decoded or written to disk
	OutcomeStorageFailure OutcomeKind = "storage-failure"
	// OutcomeProcessFailure indicates the apply command failed or exited non-zero
	OutcomeProcessFailure OutcomeKind = "process-failure"
)

// CycleOutcome is the ephemeral result of one cycle. It is logged and discarded.
type CycleOutcome struct {
	Kind OutcomeKind
	// URL is the resolved image URL, empty if resolution failed
	URL string
	// Path is the output file, empty if nothing was written
	Path string
	// ExitCode of the apply command, only meaningful once it ran
	ExitCode int
	Err      error
	Duration time.Duration
}

// OK reports whether the cycle applied a new wallpaper
func (o CycleOutcome) OK() bool {
	return o.Kind == OutcomeSuccess
}

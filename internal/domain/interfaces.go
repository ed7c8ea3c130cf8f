package domain

import "context"

//go:generate mockgen -destination=mocks/domain_mock.go -package=mocks github.com/genricoloni/autowallpaper/internal/domain Resolver,Fetcher,Processor,Store,Applier,Runner

// Resolver follows a redirect chain to the final image URL
type Resolver interface {
	// Resolve returns the first URL in the chain that does not answer with
	// a 301 or 302 response
	Resolve(ctx context.Context, url string) (string, error)
}

// Fetcher defines the interface for downloading image data
type Fetcher interface {
	// Fetch downloads image data from a URL
	// Returns the raw image bytes or an error
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// Processor defines the interface for in-memory image processing
// This is OS-agnostic and works purely with byte streams
type Processor interface {
	// Process decodes the image, fits it to the screen and re-encodes it
	Process(ctx context.Context, imageData []byte) ([]byte, error)
}

// Store owns the single wallpaper file on disk
type Store interface {
	// Write replaces the wallpaper file content and returns its absolute path
	Write(data []byte) (string, error)

	// Path returns the absolute path of the wallpaper file
	Path() string
}

// Applier sets the desktop background from an image file.
// The exit code follows process conventions: 0 is success.
// A non-nil error means the command could not be run at all.
type Applier interface {
	Apply(ctx context.Context, imagePath string) (int, error)
}

// Runner executes one wallpaper cycle
type Runner interface {
	// Run never panics and never returns an error; failures are
	// reported through the outcome
	Run(ctx context.Context) CycleOutcome
}

package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/genricoloni/autowallpaper/internal/domain"
	"go.uber.org/zap"
)

// CycleRunner orchestrates one wallpaper cycle.
// It resolves the seed URL, downloads and fits the image, writes it to the
// store and applies it. It holds no state besides its collaborators.
type CycleRunner struct {
	logger    *zap.Logger
	seedURL   string
	resolver  domain.Resolver
	fetcher   domain.Fetcher
	processor domain.Processor
	store     domain.Store
	applier   domain.Applier
}

// NewCycleRunner creates a runner for the given seed URL
func NewCycleRunner(
	logger *zap.Logger,
	seedURL string,
	res domain.Resolver,
	fetch domain.Fetcher,
	proc domain.Processor,
	store domain.Store,
	apply domain.Applier,
) *CycleRunner {
	return &CycleRunner{
		logger:    logger,
		seedURL:   seedURL,
		resolver:  res,
		fetcher:   fetch,
		processor: proc,
		store:     store,
		applier:   apply,
	}
}

// Probe resolves the seed URL once. A failure means the service does not know
// the topic (or cannot be reached) and is reported as a configuration error.
func (r *CycleRunner) Probe(ctx context.Context) error {
	if _, err := r.resolver.Resolve(ctx, r.seedURL); err != nil {
		return &domain.ConfigurationError{Err: fmt.Errorf("invalid topic: %w", err)}
	}
	return nil
}

// Run executes a single cycle. It never panics and never returns an error:
// every failure ends up in the outcome and in one log line.
func (r *CycleRunner) Run(ctx context.Context) (outcome domain.CycleOutcome) {
	start := time.Now()
	outcome.Kind = domain.OutcomeNetworkFailure

	defer func() {
		if p := recover(); p != nil {
			outcome.Err = fmt.Errorf("panic during cycle: %v", p)
			if outcome.Kind == domain.OutcomeSuccess {
				outcome.Kind = domain.OutcomeProcessFailure
			}
		}
		outcome.Duration = time.Since(start)
		r.report(outcome)
	}()

	// 1. Resolve the redirect chain
	finalURL, err := r.resolver.Resolve(ctx, r.seedURL)
	if err != nil {
		var resErr *domain.ResolutionError
		if !errors.As(err, &resErr) {
			err = &domain.ResolutionError{URL: r.seedURL, Err: err}
		}
		outcome.Err = err
		return outcome
	}
	outcome.URL = finalURL

	// 2. Download
	imgData, err := r.fetcher.Fetch(ctx, finalURL)
	if err != nil {
		var dlErr *domain.DownloadError
		if !errors.As(err, &dlErr) {
			err = &domain.DownloadError{URL: finalURL, Err: err}
		}
		outcome.Err = err
		return outcome
	}

	// 3. Decode, fit and write to disk
	outcome.Kind = domain.OutcomeStorageFailure
	wallpaper, err := r.processor.Process(ctx, imgData)
	if err != nil {
		outcome.Err = &domain.DownloadError{URL: finalURL, Err: err}
		return outcome
	}

	path, err := r.store.Write(wallpaper)
	if err != nil {
		outcome.Err = err
		return outcome
	}
	outcome.Path = path

	// 4. Apply
	outcome.Kind = domain.OutcomeProcessFailure
	code, err := r.applier.Apply(ctx, path)
	outcome.ExitCode = code
	if err != nil {
		outcome.Err = err
		return outcome
	}
	if code != 0 {
		outcome.Err = &domain.ProcessFailureError{ExitCode: code}
		return outcome
	}

	outcome.Kind = domain.OutcomeSuccess
	return outcome
}

func (r *CycleRunner) report(o domain.CycleOutcome) {
	if o.OK() {
		r.logger.Info("Wallpaper updated successfully",
			zap.String("url", o.URL),
			zap.String("path", o.Path),
			zap.Duration("took", o.Duration))
		return
	}

	r.logger.Error("Wallpaper cycle failed",
		zap.String("outcome", string(o.Kind)),
		zap.String("url", o.URL),
		zap.Error(o.Err))
}

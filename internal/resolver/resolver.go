package resolver

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/genricoloni/autowallpaper/internal/domain"
	"go.uber.org/zap"
)

// DefaultMaxHops bounds a redirect chain when no limit is configured
const DefaultMaxHops = 10

// Unbounded disables the hop limit. The chain is then followed until the
// server stops redirecting, however long that takes.
const Unbounded = -1

// drained bytes per hop, enough to let the connection be reused
const _maxDrain = 64 * 1024

// RedirectResolver walks 301/302 chains by hand so that every hop is observed
type RedirectResolver struct {
	logger  *zap.Logger
	client  *http.Client
	maxHops int
}

// NewRedirectResolver creates a resolver. maxHops of 0 selects
// DefaultMaxHops, a negative value selects Unbounded.
func NewRedirectResolver(logger *zap.Logger, timeout time.Duration, maxHops int) *RedirectResolver {
	if maxHops == 0 {
		maxHops = DefaultMaxHops
	}
	return &RedirectResolver{
		logger: logger,
		client: &http.Client{
			Timeout: timeout,
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
		maxHops: maxHops,
	}
}

// Resolve follows the redirect chain starting at rawURL and returns the first
// URL that answers with anything other than 301 or 302.
func (r *RedirectResolver) Resolve(ctx context.Context, rawURL string) (string, error) {
	current := rawURL

	for hops := 0; r.maxHops < 0 || hops <= r.maxHops; hops++ {
		next, redirected, err := r.hop(ctx, current)
		if err != nil {
			return "", &domain.ResolutionError{URL: current, Err: err}
		}
		if !redirected {
			r.logger.Debug("Redirect chain resolved",
				zap.String("seed", rawURL),
				zap.String("url", current),
				zap.Int("hops", hops))
			return current, nil
		}

		r.logger.Debug("Following redirect", zap.String("from", current), zap.String("to", next))
		current = next
	}

	return "", &domain.RedirectLoopError{URL: rawURL, Hops: r.maxHops}
}

// hop issues a single request. It reports the next URL when the response is a
// redirect the resolver follows.
func (r *RedirectResolver) hop(ctx context.Context, current string) (string, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, current, nil)
	if err != nil {
		return "", false, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", "autowallpaper/1.0")

	resp, err := r.client.Do(req)
	if err != nil {
		return "", false, fmt.Errorf("network error: %w", err)
	}
	defer resp.Body.Close()

	if _, err := io.Copy(io.Discard, io.LimitReader(resp.Body, _maxDrain)); err != nil {
		return "", false, fmt.Errorf("failed to read response: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusMovedPermanently || resp.StatusCode == http.StatusFound:
		next, err := nextLocation(current, resp.Header.Get("Location"))
		if err != nil {
			return "", false, err
		}
		return next, true, nil
	case resp.StatusCode >= http.StatusBadRequest:
		return "", false, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	default:
		return "", false, nil
	}
}

// nextLocation resolves a Location header against the URL that produced it
func nextLocation(current, location string) (string, error) {
	if location == "" {
		return "", errors.New("redirect without Location header")
	}

	base, err := url.Parse(current)
	if err != nil {
		return "", fmt.Errorf("invalid url %q: %w", current, err)
	}
	ref, err := url.Parse(location)
	if err != nil {
		return "", fmt.Errorf("invalid Location header %q: %w", location, err)
	}

	return base.ResolveReference(ref).String(), nil
}

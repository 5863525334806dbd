package extract

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"pretenz/internal/port"
)

// circuitState tracks rate-limit backoff for a single source.
type circuitState struct {
	mu      sync.RWMutex
	resetAt time.Time // zero value = closed (healthy)
}

func (c *circuitState) isOpenWithReset(now time.Time) (time.Time, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.resetAt, !c.resetAt.IsZero() && now.Before(c.resetAt)
}

func (c *circuitState) open(resetAt time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.resetAt = resetAt
}

// FallbackSource tries extraction sources in order, skipping those with open
// circuits. It implements port.ExtractionSource.
type FallbackSource struct {
	sources  []port.ExtractionSource
	circuits []*circuitState
	names    []string
}

// NewFallbackSource creates a FallbackSource from an ordered list of sources and their names.
func NewFallbackSource(sources []port.ExtractionSource, names []string) *FallbackSource {
	circuits := make([]*circuitState, len(sources))
	for i := range circuits {
		circuits[i] = &circuitState{}
	}
	return &FallbackSource{
		sources:  sources,
		circuits: circuits,
		names:    names,
	}
}

func (f *FallbackSource) Extract(ctx context.Context, input port.ExtractInput) (*port.ExtractOutput, error) {
	now := time.Now()
	var lastErr error
	allRateLimited := true
	var earliestReset time.Time

	for i, s := range f.sources {
		if resetAt, open := f.circuits[i].isOpenWithReset(now); open {
			log.Printf("extract.FallbackSource: skipping %s (circuit open until %s)", f.names[i], resetAt.Format(time.RFC3339))
			if earliestReset.IsZero() || resetAt.Before(earliestReset) {
				earliestReset = resetAt
			}
			continue
		}

		out, err := s.Extract(ctx, input)
		if err == nil {
			return out, nil
		}

		log.Printf("extract.FallbackSource: %s failed: %v", f.names[i], err)
		lastErr = err

		var rlErr *RateLimitError
		if errors.As(err, &rlErr) {
			resetAt := now.Add(rlErr.RetryAfter)
			f.circuits[i].open(resetAt)
			if earliestReset.IsZero() || resetAt.Before(earliestReset) {
				earliestReset = resetAt
			}
		} else {
			allRateLimited = false
		}
	}

	if lastErr == nil {
		// All sources were skipped due to open circuits
		retryAfter := time.Until(earliestReset)
		if retryAfter < 0 {
			retryAfter = time.Second
		}
		return nil, NewRateLimitError("all", fmt.Errorf("all extraction sources rate limited"), int(retryAfter.Seconds()))
	}

	if allRateLimited {
		retryAfter := time.Until(earliestReset)
		if retryAfter < 0 {
			retryAfter = time.Second
		}
		return nil, NewRateLimitError("all", fmt.Errorf("all extraction sources rate limited"), int(retryAfter.Seconds()))
	}

	return nil, fmt.Errorf("all extraction sources failed: %w", lastErr)
}

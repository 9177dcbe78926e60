package fetch

import (
	"context"
	"fmt"
	"image"

	"golang.org/x/time/rate"
)

var _ Fetcher = &limitedFetcher{}

type limitedFetcher struct {
	limiter *rate.Limiter
	fetcher Fetcher
}

// NewLimited makes every fetch wait for a token from l first. A nil limiter
// returns f unchanged.
func NewLimited(l *rate.Limiter, f Fetcher) Fetcher {
	if l == nil {
		return f
	}

	return &limitedFetcher{
		limiter: l,
		fetcher: f,
	}
}

// NewLimiter returns a limiter allowing perSecond fetches with the given
// burst, or nil when perSecond is not positive.
func NewLimiter(perSecond float64, burst int) *rate.Limiter {
	if perSecond <= 0 {
		return nil
	}
	if burst < 1 {
		burst = 1
	}
	return rate.NewLimiter(rate.Limit(perSecond), burst)
}

func (f *limitedFetcher) Fetch(ctx context.Context, location string) (image.Image, error) {
	if err := f.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	return f.fetcher.Fetch(ctx, location)
}

package fetch

import (
	"context"
	"fmt"
	"image"
	"net/url"
	"strings"
)

var _ Fetcher = &Router{}

// Router dispatches a location to the fetcher registered for its scheme.
type Router struct {
	fetchers map[string]Fetcher
}

func NewRouter() *Router {
	return &Router{
		fetchers: make(map[string]Fetcher),
	}
}

// Handle registers f for each of the given schemes.
func (r *Router) Handle(f Fetcher, schemes ...string) *Router {
	for _, scheme := range schemes {
		r.fetchers[strings.ToLower(scheme)] = f
	}
	return r
}

func (r *Router) Fetch(ctx context.Context, location string) (image.Image, error) {
	u, err := url.Parse(strings.TrimSpace(location))
	if err != nil || u.Scheme == "" {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedLocation, location)
	}

	f, ok := r.fetchers[strings.ToLower(u.Scheme)]
	if !ok {
		return nil, fmt.Errorf("%w: scheme %q", ErrUnsupportedLocation, u.Scheme)
	}

	return f.Fetch(ctx, strings.TrimSpace(location))
}

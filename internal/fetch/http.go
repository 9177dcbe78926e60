package fetch

import (
	"context"
	"fmt"
	"image"
	"net/http"
	"net/url"
	"strings"
	"time"
)

var _ Fetcher = &HTTPClient{}

// HTTPClient downloads images from http and https URLs.
type HTTPClient struct {
	client *http.Client

	timeout   time.Duration
	maxBytes  int64
	maxPixels int
}

type HTTPOption func(*HTTPClient)

// WithHTTPClient sets the client to download with, e.g. to add a transport.
// The client is copied, so the timeout of the HTTPClient never leaks into it.
func WithHTTPClient(client *http.Client) HTTPOption {
	return func(c *HTTPClient) {
		c.client = client
	}
}

// WithTimeout bounds each download, including reading the body.
func WithTimeout(timeout time.Duration) HTTPOption {
	return func(c *HTTPClient) {
		c.timeout = timeout
	}
}

// WithMaxBytes caps the body size. Zero or less removes the cap.
func WithMaxBytes(n int64) HTTPOption {
	return func(c *HTTPClient) {
		c.maxBytes = n
	}
}

// WithMaxPixels caps the decoded image size in pixels. Zero or less removes
// the cap.
func WithMaxPixels(n int) HTTPOption {
	return func(c *HTTPClient) {
		c.maxPixels = n
	}
}

// NewHTTP returns an HTTPClient with a 30 second timeout, a DefaultMaxBytes
// body cap and a DefaultMaxPixels image cap.
func NewHTTP(options ...HTTPOption) *HTTPClient {
	c := &HTTPClient{
		timeout:   30 * time.Second,
		maxBytes:  DefaultMaxBytes,
		maxPixels: DefaultMaxPixels,
	}

	for _, option := range options {
		option(c)
	}

	client := http.Client{}
	if c.client != nil {
		client = *c.client
	}
	client.Timeout = c.timeout
	c.client = &client

	return c
}

func (c *HTTPClient) Fetch(ctx context.Context, location string) (image.Image, error) {
	u, err := url.Parse(location)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedLocation, location)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedLocation, err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: %s", ErrUnavailable, strings.ToLower(resp.Status))
	}

	data, err := readLimited(resp.Body, c.maxBytes)
	if err != nil {
		return nil, err
	}

	return decode(data, c.maxPixels)
}

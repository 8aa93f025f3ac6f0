// Package openlibrary is a client for the public Open Library API:
// catalog search, work details, the recent-changes feeds and cover URLs.
package openlibrary

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/agentstation/bookmap/internal/transport"
	"github.com/agentstation/bookmap/pkg/constants"
	"github.com/agentstation/bookmap/pkg/errors"
)

// Client talks to Open Library.
type Client struct {
	baseURL   string
	coversURL string
	transport *transport.Client
}

// Option configures a Client.
type Option func(*options)

type options struct {
	baseURL    string
	coversURL  string
	httpClient *http.Client
	timeout    time.Duration
	userAgent  string
}

// WithBaseURL overrides the API base URL.
func WithBaseURL(u string) Option {
	return func(o *options) {
		o.baseURL = strings.TrimRight(u, "/")
	}
}

// WithCoversURL overrides the covers service base URL.
func WithCoversURL(u string) Option {
	return func(o *options) {
		o.coversURL = strings.TrimRight(u, "/")
	}
}

// WithHTTPClient sets the HTTP client used for requests.
func WithHTTPClient(hc *http.Client) Option {
	return func(o *options) {
		o.httpClient = hc
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(o *options) {
		o.timeout = d
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(o *options) {
		o.userAgent = ua
	}
}

// New creates a Client.
func New(opts ...Option) *Client {
	o := &options{
		baseURL:   constants.OpenLibraryURL,
		coversURL: constants.CoversURL,
		timeout:   constants.DefaultHTTPTimeout,
		userAgent: constants.UserAgent,
	}
	for _, opt := range opts {
		opt(o)
	}

	topts := []transport.Option{
		transport.WithUserAgent(o.userAgent),
	}
	if o.httpClient != nil {
		topts = append(topts, transport.WithHTTPClient(o.httpClient))
	} else {
		topts = append(topts, transport.WithTimeout(o.timeout))
	}

	return &Client{
		baseURL:   o.baseURL,
		coversURL: o.coversURL,
		transport: transport.New(topts...),
	}
}

// BaseURL returns the configured API base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

func (c *Client) getJSON(ctx context.Context, path string, query url.Values, target any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	resp, err := c.transport.Get(ctx, u)
	if err != nil {
		return err
	}
	if err := transport.DecodeResponse(resp, target); err != nil {
		if errors.IsNotFound(err) {
			return errors.NewNotFoundError("resource", path)
		}
		return err
	}
	return nil
}

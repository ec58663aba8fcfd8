// Package bibleapi is a client for bible-api.com, which addresses chapters as "book+chapter".
package bibleapi

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/Fabioalbuqueque/pregacao/internal/provider"
)

// DefaultBaseURL is the public bible-api.com endpoint.
const DefaultBaseURL = "https://bible-api.com"

// Client fetches raw chapter payloads from bible-api.com.
type Client struct {
	transport *provider.Transport
	baseURL   string
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL points the client at another host (tests, mirrors).
func WithBaseURL(base string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(base, "/")
	}
}

// New creates a client using the shared transport.
func New(transport *provider.Transport, opts ...Option) *Client {
	c := &Client{
		transport: transport,
		baseURL:   DefaultBaseURL,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ID implements the chapter source contract.
func (c *Client) ID() provider.ID {
	return provider.BibleAPI
}

// URL returns the request URL for a chapter in the given provider translation code.
func (c *Client) URL(book string, chapter int, code string) string {
	return fmt.Sprintf("%s/%s+%d?translation=%s",
		c.baseURL,
		url.PathEscape(book),
		chapter,
		url.QueryEscape(code),
	)
}

// FetchRaw returns the decoded JSON body for one chapter.
// The payload is an object whose "verses" array holds the chapter's verses.
func (c *Client) FetchRaw(ctx context.Context, book string, chapter int, code string) (any, error) {
	return c.transport.GetJSON(ctx, provider.BibleAPI, c.URL(book, chapter, code))
}

// Package denobible is a client for bible-api.deno.dev, which addresses chapters by path segments
// "verses/{translation}/{book}/{chapter}".
package denobible

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"unicode"

	"github.com/Fabioalbuqueque/pregacao/internal/provider"
)

// DefaultBaseURL is the public bible-api.deno.dev endpoint.
const DefaultBaseURL = "https://bible-api.deno.dev/api"

// Client fetches raw chapter payloads from bible-api.deno.dev.
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
	return provider.DenoBible
}

// URL returns the request URL for a chapter in the given provider translation code.
func (c *Client) URL(book string, chapter int, code string) string {
	return fmt.Sprintf("%s/verses/%s/%s/%d",
		c.baseURL,
		url.PathEscape(code),
		url.PathEscape(BookPath(book)),
		chapter,
	)
}

// FetchRaw returns the decoded JSON body for one chapter.
// Depending on the deployment the payload is either a bare verse array or an
// object with a "verses" array.
func (c *Client) FetchRaw(ctx context.Context, book string, chapter int, code string) (any, error) {
	return c.transport.GetJSON(ctx, provider.DenoBible, c.URL(book, chapter, code))
}

// BookPath converts a book slug to the form the provider expects:
// unescaped, without whitespace, lowercase.
func BookPath(book string) string {
	if unescaped, err := url.PathUnescape(book); err == nil {
		book = unescaped
	}
	book = strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, book)
	return strings.ToLower(book)
}

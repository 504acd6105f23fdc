package foliant

import (
	"net/http"
	"time"
)

// Option configures the client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	user       string
	userHeader string
	timeout    time.Duration
	httpClient *http.Client
}

// WithUser sets the identity sent on every request. The server trusts
// this header only from its reverse proxy; use it for server-to-server
// calls inside that trust boundary.
func WithUser(user string) Option {
	return optionFunc(func(c *clientConfig) {
		c.user = user
	})
}

// WithUserHeader overrides the identity header name.
func WithUserHeader(name string) Option {
	return optionFunc(func(c *clientConfig) {
		c.userHeader = name
	})
}

// WithTimeout sets the request timeout. Ignored when a custom HTTP
// client is provided.
func WithTimeout(d time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.timeout = d
	})
}

// WithHTTPClient supplies a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return optionFunc(func(c *clientConfig) {
		c.httpClient = hc
	})
}

package server

import (
	"net/http"
	"net/url"
	"time"
)

// Config configures the SPA host.
type Config struct {
	// Address is the listen address.
	// Default: ":8080".
	Address string

	// Base is the URL prefix the app is served under, e.g. "/app".
	// Default: "" (served at the root).
	Base string

	// ReadBufferSize is the WebSocket read buffer size.
	// Default: 4096.
	ReadBufferSize int

	// WriteBufferSize is the WebSocket write buffer size.
	// Default: 4096.
	WriteBufferSize int

	// MaxMessageSize limits a single client message.
	// Default: 64KB.
	MaxMessageSize int64

	// SocketWriteTimeout bounds a single WebSocket write.
	// Default: 10 seconds.
	SocketWriteTimeout time.Duration

	// CheckOrigin is called to validate the WebSocket request origin.
	// Default: SameOriginCheck.
	CheckOrigin func(r *http.Request) bool

	// NavigationTimeout bounds server-side rendering of a page request,
	// view fetch included.
	// Default: 10 seconds.
	NavigationTimeout time.Duration

	// Metrics exposes /metrics when true.
	Metrics bool

	// Server lifecycle

	// ShutdownTimeout is the maximum time to wait for graceful shutdown.
	// Default: 30 seconds.
	ShutdownTimeout time.Duration

	// ReadHeaderTimeout is the HTTP read header timeout.
	// Default: 5 seconds.
	ReadHeaderTimeout time.Duration

	// IdleTimeout is the HTTP keep-alive idle timeout.
	// Default: 60 seconds.
	IdleTimeout time.Duration
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Address:            ":8080",
		ReadBufferSize:     4096,
		WriteBufferSize:    4096,
		MaxMessageSize:     64 * 1024,
		SocketWriteTimeout: 10 * time.Second,
		CheckOrigin:        SameOriginCheck,
		NavigationTimeout:  10 * time.Second,
		ShutdownTimeout:    30 * time.Second,
		ReadHeaderTimeout:  5 * time.Second,
		IdleTimeout:        60 * time.Second,
	}
}

// applyDefaults fills unset fields from DefaultConfig.
func (c *Config) applyDefaults() {
	d := DefaultConfig()
	if c.Address == "" {
		c.Address = d.Address
	}
	if c.ReadBufferSize == 0 {
		c.ReadBufferSize = d.ReadBufferSize
	}
	if c.WriteBufferSize == 0 {
		c.WriteBufferSize = d.WriteBufferSize
	}
	if c.MaxMessageSize == 0 {
		c.MaxMessageSize = d.MaxMessageSize
	}
	if c.SocketWriteTimeout == 0 {
		c.SocketWriteTimeout = d.SocketWriteTimeout
	}
	if c.CheckOrigin == nil {
		c.CheckOrigin = d.CheckOrigin
	}
	if c.NavigationTimeout == 0 {
		c.NavigationTimeout = d.NavigationTimeout
	}
	if c.ShutdownTimeout == 0 {
		c.ShutdownTimeout = d.ShutdownTimeout
	}
	if c.ReadHeaderTimeout == 0 {
		c.ReadHeaderTimeout = d.ReadHeaderTimeout
	}
	if c.IdleTimeout == 0 {
		c.IdleTimeout = d.IdleTimeout
	}
}

// SameOriginCheck validates that the WebSocket request origin matches the host.
func SameOriginCheck(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		// No Origin header (e.g., same-origin request or curl)
		return true
	}
	originURL, err := url.Parse(origin)
	if err != nil {
		return false
	}
	if r.Host == "" {
		return false
	}
	return originURL.Host == r.Host
}

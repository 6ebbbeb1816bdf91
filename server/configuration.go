// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package server

import (
	"net/http"
	"time"

	"github.com/xmidt-org/feedfixture/xhttp"
	"github.com/xmidt-org/sallust"
)

// Primary configures the server that serves fixtures
type Primary struct {
	// Address is the bind address.  An empty host binds all interfaces.
	Address string

	ReadTimeout       time.Duration
	ReadHeaderTimeout time.Duration
	WriteTimeout      time.Duration
	IdleTimeout       time.Duration
	MaxHeaderBytes    int

	// MaxConnections limits concurrent connections.  Nonpositive values mean no limit.
	MaxConnections int

	// MaxConcurrentRequests limits requests being handled at once.  Nonpositive values mean no limit.
	MaxConcurrentRequests int

	// RequestTimeout is how long a request may wait to be handled.  Nonpositive values mean no limit.
	RequestTimeout time.Duration

	DisableKeepAlives bool

	// CertificateFile and KeyFile enable HTTPS when both are set
	CertificateFile string
	KeyFile         string
}

// Health configures the health server.  An empty Address disables it.
type Health struct {
	Address string

	// MemInfo is the location of the linux meminfo file
	MemInfo string
}

// Metrics configures the prometheus metrics server.  An empty Address disables it.
type Metrics struct {
	Address string
}

// Fixtures locates the files being served.  An empty HTMLPage or Assets leaves that route unregistered.
type Fixtures struct {
	RSSFeed  string
	HTMLPage string
	Assets   string
}

// Tracing controls OpenTelemetry instrumentation of the primary handler
type Tracing struct {
	Enabled bool
}

// Configuration is the complete set of options for a feedfixture process
type Configuration struct {
	Server   Primary
	Health   Health
	Metrics  Metrics
	Fixtures Fixtures
	CORS     xhttp.CORS
	Tracing  Tracing

	// Headers are added to every primary response
	Headers http.Header

	// ShutdownTimeout bounds the graceful shutdown of all servers
	ShutdownTimeout time.Duration

	Log sallust.Config
}

// ServerOptions produces the xhttp options for the primary server
func (p Primary) ServerOptions() xhttp.ServerOptions {
	return xhttp.ServerOptions{
		Address:           p.Address,
		ReadTimeout:       p.ReadTimeout,
		ReadHeaderTimeout: p.ReadHeaderTimeout,
		WriteTimeout:      p.WriteTimeout,
		IdleTimeout:       p.IdleTimeout,
		MaxHeaderBytes:    p.MaxHeaderBytes,
		DisableKeepAlives: p.DisableKeepAlives,
		CertificateFile:   p.CertificateFile,
		KeyFile:           p.KeyFile,
	}
}

// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package xhttp

import (
	"net/http"
	"strconv"
	"strings"
	"time"
)

const (
	// Wildcard allows any origin or any header, depending on where it is configured
	Wildcard = "*"

	// DefaultCORSMaxAge is how long preflight results may be cached when CORS.MaxAge is unset
	DefaultCORSMaxAge = 10 * time.Minute

	// DisallowedMethod is the body of a rejected preflight request whose method is not allowed
	DisallowedMethod = "Disallowed CORS method"

	// DisallowedOrigin is the body of a rejected preflight request whose origin is not allowed
	DisallowedOrigin = "Disallowed CORS origin"
)

// CORS is the cross-origin policy applied to every response
type CORS struct {
	// AllowedOrigins is the set of origins allowed to read responses.  A single Wildcard
	// entry allows any origin.  If empty, any origin is allowed.
	AllowedOrigins []string `json:"allowedOrigins"`

	// AllowedMethods defaults to GET
	AllowedMethods []string `json:"allowedMethods"`

	// AllowedHeaders is the set of request headers a client may send.  Defaults to Wildcard.
	AllowedHeaders []string `json:"allowedHeaders"`

	// AllowCredentials permits cookies and authorization headers on cross-origin requests
	AllowCredentials bool `json:"allowCredentials"`

	// MaxAge is the preflight cache duration.  Defaults to DefaultCORSMaxAge.
	MaxAge time.Duration `json:"maxAge"`
}

type corsPolicy struct {
	anyOrigin    bool
	origins      map[string]bool
	onlyOrigin   string
	methods      map[string]bool
	allowMethods string
	anyHeader    bool
	allowHeaders string
	credentials  bool
	maxAge       string
}

func newCORSPolicy(c CORS) *corsPolicy {
	p := &corsPolicy{
		origins:     make(map[string]bool, len(c.AllowedOrigins)),
		methods:     make(map[string]bool),
		credentials: c.AllowCredentials,
	}

	for _, o := range c.AllowedOrigins {
		if o == Wildcard {
			p.anyOrigin = true
		}

		p.origins[o] = true
	}

	switch {
	case len(c.AllowedOrigins) == 0:
		p.anyOrigin = true
	case len(c.AllowedOrigins) == 1 && !p.anyOrigin:
		p.onlyOrigin = c.AllowedOrigins[0]
	}

	methods := c.AllowedMethods
	if len(methods) == 0 {
		methods = []string{http.MethodGet}
	}

	normalized := make([]string, 0, len(methods))
	for _, m := range methods {
		m = strings.ToUpper(strings.TrimSpace(m))
		p.methods[m] = true
		normalized = append(normalized, m)
	}

	p.allowMethods = strings.Join(normalized, ", ")

	headers := c.AllowedHeaders
	if len(headers) == 0 {
		headers = []string{Wildcard}
	}

	for _, h := range headers {
		if h == Wildcard {
			p.anyHeader = true
		}
	}

	p.allowHeaders = strings.Join(headers, ", ")

	maxAge := c.MaxAge
	if maxAge <= 0 {
		maxAge = DefaultCORSMaxAge
	}

	p.maxAge = strconv.Itoa(int(maxAge / time.Second))
	return p
}

func (p *corsPolicy) originAllowed(origin string) bool {
	return p.anyOrigin || p.origins[origin]
}

// setOrigin emits Access-Control-Allow-Origin.  Browsers refuse a literal wildcard when credentials
// are allowed, so in that case a supplied origin is echoed instead.
func (p *corsPolicy) setOrigin(header http.Header, origin string) {
	if p.anyOrigin {
		if p.credentials && len(origin) > 0 {
			header.Set("Access-Control-Allow-Origin", origin)
			header.Add("Vary", "Origin")
		} else {
			header.Set("Access-Control-Allow-Origin", Wildcard)
		}

		return
	}

	header.Add("Vary", "Origin")
	switch {
	case len(origin) > 0 && p.origins[origin]:
		header.Set("Access-Control-Allow-Origin", origin)
	case len(p.onlyOrigin) > 0:
		header.Set("Access-Control-Allow-Origin", p.onlyOrigin)
	}
}

func (p *corsPolicy) preflight(response http.ResponseWriter, request *http.Request, origin string) {
	header := response.Header()
	if len(origin) > 0 && !p.originAllowed(origin) {
		WriteText(response, &Error{Code: http.StatusBadRequest, Text: DisallowedOrigin})
		return
	}

	requested := strings.ToUpper(request.Header.Get("Access-Control-Request-Method"))
	if !p.methods[requested] {
		WriteText(response, &Error{Code: http.StatusBadRequest, Text: DisallowedMethod})
		return
	}

	if requestedHeaders := request.Header.Get("Access-Control-Request-Headers"); p.anyHeader && len(requestedHeaders) > 0 {
		header.Set("Access-Control-Allow-Headers", requestedHeaders)
	} else {
		header.Set("Access-Control-Allow-Headers", p.allowHeaders)
	}

	header.Set("Access-Control-Max-Age", p.maxAge)
	header.Set("Content-Length", "0")
	response.WriteHeader(http.StatusOK)
}

// NewCORS returns an Alice-style constructor that applies a cross-origin policy.  Cross-origin
// headers are written to every response, whether or not the request carried an Origin header.
// Preflight requests are answered directly and never reach the decorated handler.
func NewCORS(c CORS) func(http.Handler) http.Handler {
	p := newCORSPolicy(c)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(response http.ResponseWriter, request *http.Request) {
			var (
				header = response.Header()
				origin = request.Header.Get("Origin")
			)

			p.setOrigin(header, origin)
			header.Set("Access-Control-Allow-Methods", p.allowMethods)
			if p.credentials {
				header.Set("Access-Control-Allow-Credentials", "true")
			}

			if request.Method == http.MethodOptions && len(request.Header.Get("Access-Control-Request-Method")) > 0 {
				p.preflight(response, request, origin)
				return
			}

			header.Set("Access-Control-Allow-Headers", p.allowHeaders)
			next.ServeHTTP(response, request)
		})
	}
}

// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package logginghttp

import (
	"net/http"
	"time"

	"github.com/felixge/httpsnoop"
	"github.com/segmentio/ksuid"
	"github.com/xmidt-org/sallust"
	"go.uber.org/zap"
)

const (
	// RequestIDHeader carries the request id on both requests and responses
	RequestIDHeader = "X-Request-Id"

	// maxRequestIDLength bounds the size of a client-supplied request id that will be echoed
	maxRequestIDLength = 128
)

// contextual logging keys
const (
	RequestIDKey     = "requestID"
	RequestProtoKey  = "requestProto"
	RequestMethodKey = "requestMethod"
	RequestURIKey    = "requestURI"
	RemoteAddrKey    = "remoteAddr"
)

// LoggerFunc is a strategy for adding fields based on an HTTP request.  Functions of this type
// must append fields to the supplied slice and then return the new slice.
type LoggerFunc func([]zap.Field, *http.Request) []zap.Field

// RequestInfo is a LoggerFunc that adds the standard request information
func RequestInfo(fields []zap.Field, request *http.Request) []zap.Field {
	return append(fields,
		zap.String(RequestProtoKey, request.Proto),
		zap.String(RequestMethodKey, request.Method),
		zap.String(RequestURIKey, request.RequestURI),
		zap.String(RemoteAddrKey, request.RemoteAddr),
	)
}

// Header returns a LoggerFunc that logs the value of a request header under the given key
func Header(headerName, key string) LoggerFunc {
	return func(fields []zap.Field, request *http.Request) []zap.Field {
		return append(fields, zap.Strings(key, request.Header.Values(headerName)))
	}
}

// RequestID returns the id to use for a request.  A reasonably sized id supplied by the client
// is reused, otherwise a new ksuid is generated.
func RequestID(request *http.Request) string {
	if id := request.Header.Get(RequestIDHeader); len(id) > 0 && len(id) <= maxRequestIDLength {
		return id
	}

	return ksuid.New().String()
}

// SetLogger produces an Alice-style decorator that assigns each request an id, emits a request-scoped
// zap Logger into the request context, and writes one access log entry when the request completes.
// Downstream code obtains the logger with sallust.Get(request.Context()).
//
// If the base parameter is nil, sallust.Default() is decorated for each request.
func SetLogger(base *zap.Logger, lf ...LoggerFunc) func(http.Handler) http.Handler {
	if base == nil {
		base = sallust.Default()
	}

	if len(lf) == 0 {
		lf = []LoggerFunc{RequestInfo}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(response http.ResponseWriter, request *http.Request) {
			id := RequestID(request)
			fields := []zap.Field{zap.String(RequestIDKey, id)}
			for _, f := range lf {
				fields = f(fields, request)
			}

			logger := base.With(fields...)
			response.Header().Set(RequestIDHeader, id)

			m := httpsnoop.CaptureMetrics(
				next,
				response,
				request.WithContext(sallust.With(request.Context(), logger)),
			)

			logger.Info(
				"request",
				zap.Int("status", m.Code),
				zap.Int64("bytes", m.Written),
				zap.Duration("duration", m.Duration.Round(time.Microsecond)),
			)
		})
	}
}

// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package xhttp

import (
	"context"
	"net/http"
	"time"

	"github.com/xmidt-org/sallust"
	"go.uber.org/zap"
)

// ServerBusy is the response body when a request could not be admitted
const ServerBusy = "Server busy"

// Busy returns an Alice-style constructor that limits the number of requests concurrently handled by the
// decorated handler.  A request waits for a slot until its context is done, then receives a 503.
// A free slot is always taken, even by a request whose context is already done.
// A nonpositive maxRequests leaves the handler undecorated.
func Busy(maxRequests int) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if maxRequests < 1 {
			return next
		}

		slots := make(chan struct{}, maxRequests)
		return http.HandlerFunc(func(response http.ResponseWriter, request *http.Request) {
			ctx := request.Context()
			select {
			case slots <- struct{}{}:
			default:
				select {
				case slots <- struct{}{}:
				case <-ctx.Done():
					sallust.Get(ctx).Error("server busy", zap.Error(ctx.Err()))
					WriteText(response, &Error{Code: http.StatusServiceUnavailable, Text: ServerBusy})
					return
				}
			}

			defer func() { <-slots }()
			next.ServeHTTP(response, request)
		})
	}
}

// Timeout returns an Alice-style constructor that places a deadline on each request's context.
// Decorated handlers are responsible for honoring the deadline, as Busy does.  A nonpositive timeout
// leaves the handler undecorated.
func Timeout(timeout time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if timeout <= 0 {
			return next
		}

		return http.HandlerFunc(func(response http.ResponseWriter, request *http.Request) {
			ctx, cancel := context.WithTimeout(request.Context(), timeout)
			defer cancel()
			next.ServeHTTP(response, request.WithContext(ctx))
		})
	}
}

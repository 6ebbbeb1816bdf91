// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package xhttp

import (
	"net/http"
	"net/textproto"
)

// StaticHeaders returns an Alice-style constructor that emits a fixed set of headers into every
// response.  Keys are canonicalized once, up front, since configuration sources such as viper
// lowercase map keys.  Keys with no values are dropped.  If nothing remains, the constructor
// does no decoration.
func StaticHeaders(extra http.Header) func(http.Handler) http.Handler {
	canonical := make(http.Header, len(extra))
	for k, v := range extra {
		if len(v) > 0 {
			canonical[textproto.CanonicalMIMEHeaderKey(k)] = append([]string(nil), v...)
		}
	}

	return func(next http.Handler) http.Handler {
		if len(canonical) == 0 {
			return next
		}

		return http.HandlerFunc(func(response http.ResponseWriter, request *http.Request) {
			header := response.Header()
			for k, v := range canonical {
				header[k] = v
			}

			next.ServeHTTP(response, request)
		})
	}
}

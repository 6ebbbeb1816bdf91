// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package xhttp

import (
	"errors"
	"net/http"
	"strconv"

	gokithttp "github.com/go-kit/kit/transport/http"
)

// Error is an HTTP-specific carrier of error information.  In addition to implementing error,
// this type also implements go-kit's StatusCoder and Headerer.  The Text is written as-is
// as the plain text body of the response.
type Error struct {
	Code   int
	Header http.Header
	Text   string
}

func (e *Error) StatusCode() int {
	return e.Code
}

func (e *Error) Headers() http.Header {
	return e.Header
}

func (e *Error) Error() string {
	return e.Text
}

// WriteText writes err as a plain text response.  If err is, or wraps, an *Error then its code,
// headers, and text are used.  Otherwise, the status code comes from go-kit's StatusCoder if
// implemented and defaults to http.StatusInternalServerError, and headers come from Headerer.
// The body of any error that is not an *Error is the generic status text, so that internal
// details never reach clients.
func WriteText(response http.ResponseWriter, err error) (int, error) {
	var (
		code = http.StatusInternalServerError
		text string
	)

	var httpErr *Error
	if errors.As(err, &httpErr) {
		code = httpErr.Code
		text = httpErr.Text
	} else {
		var sc gokithttp.StatusCoder
		if errors.As(err, &sc) {
			code = sc.StatusCode()
		}
	}

	if len(text) == 0 {
		text = http.StatusText(code)
	}

	header := response.Header()
	var h gokithttp.Headerer
	if errors.As(err, &h) {
		for k, values := range h.Headers() {
			for _, v := range values {
				header.Add(k, v)
			}
		}
	}

	header.Set("Content-Type", "text/plain; charset=utf-8")
	header.Set("Content-Length", strconv.Itoa(len(text)))
	header.Set("X-Content-Type-Options", "nosniff")
	response.WriteHeader(code)
	return response.Write([]byte(text))
}

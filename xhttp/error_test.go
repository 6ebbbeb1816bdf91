// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package xhttp

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorState(t *testing.T) {
	var (
		assert    = assert.New(t)
		httpError = &Error{Code: 503, Header: http.Header{"Foo": []string{"Bar"}}, Text: "fubar"}
	)

	assert.Equal(503, httpError.StatusCode())
	assert.Equal(http.Header{"Foo": []string{"Bar"}}, httpError.Headers())
	assert.Equal("fubar", httpError.Error())
}

type statusOnly int

func (s statusOnly) StatusCode() int { return int(s) }
func (s statusOnly) Error() string   { return "this should never be written" }

func TestWriteText(t *testing.T) {
	testData := []struct {
		name           string
		err            error
		expectedCode   int
		expectedBody   string
		expectedHeader http.Header
	}{
		{
			name:         "NotFound",
			err:          &Error{Code: http.StatusNotFound, Text: "XML File not found"},
			expectedCode: http.StatusNotFound,
			expectedBody: "XML File not found",
		},
		{
			name:           "WithHeaders",
			err:            &Error{Code: http.StatusTeapot, Header: http.Header{"X-Test": {"a", "b"}}, Text: "short and stout"},
			expectedCode:   http.StatusTeapot,
			expectedBody:   "short and stout",
			expectedHeader: http.Header{"X-Test": {"a", "b"}},
		},
		{
			name:         "Wrapped",
			err:          fmt.Errorf("wrapped: %w", &Error{Code: http.StatusBadRequest, Text: "bad"}),
			expectedCode: http.StatusBadRequest,
			expectedBody: "bad",
		},
		{
			name:         "NoText",
			err:          &Error{Code: http.StatusServiceUnavailable},
			expectedCode: http.StatusServiceUnavailable,
			expectedBody: http.StatusText(http.StatusServiceUnavailable),
		},
		{
			name:         "StatusCoder",
			err:          statusOnly(http.StatusForbidden),
			expectedCode: http.StatusForbidden,
			expectedBody: http.StatusText(http.StatusForbidden),
		},
		{
			name:         "Plain",
			err:          errors.New("permission denied on /secret/path"),
			expectedCode: http.StatusInternalServerError,
			expectedBody: http.StatusText(http.StatusInternalServerError),
		},
	}

	for _, record := range testData {
		t.Run(record.name, func(t *testing.T) {
			var (
				assert   = assert.New(t)
				response = httptest.NewRecorder()
			)

			count, err := WriteText(response, record.err)
			assert.NoError(err)
			assert.Equal(len(record.expectedBody), count)
			assert.Equal(record.expectedCode, response.Code)
			assert.Equal(record.expectedBody, response.Body.String())
			assert.Equal("text/plain; charset=utf-8", response.Header().Get("Content-Type"))
			for k, v := range record.expectedHeader {
				assert.Equal(v, response.Header()[k])
			}
		})
	}
}

// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package fixture

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"sync"
	"testing"

	gokitprometheus "github.com/go-kit/kit/metrics/prometheus"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xmidt-org/sallust"
	"go.uber.org/zap/zaptest"
)

const testPage = `<!DOCTYPE html>
<html><head><title>38 North</title></head><body><p>fixture</p></body></html>
`

func newTestMeasures() (*Measures, *prometheus.CounterVec) {
	vec := NewRequestsCounterVec()
	return &Measures{Requests: gokitprometheus.NewCounter(vec)}, vec
}

func serve(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	request := httptest.NewRequest("GET", target, nil)
	request = request.WithContext(sallust.With(request.Context(), zaptest.NewLogger(t)))

	response := httptest.NewRecorder()
	h.ServeHTTP(response, request)
	return response
}

func testHandlerBufferedPresent(t *testing.T) {
	var (
		assert       = assert.New(t)
		measures, vc = newTestMeasures()
		h            = &Handler{
			Fixture:  RSSFeed(writeFile(t, t.TempDir(), "feed.rss", testFeed)),
			Measures: measures,
		}
	)

	response := serve(t, h, "/test/rss_feed")
	assert.Equal(http.StatusOK, response.Code)
	assert.Equal(XMLContentType, response.Header().Get("Content-Type"))
	assert.Equal(strconv.Itoa(len(testFeed)), response.Header().Get("Content-Length"))
	assert.Equal(testFeed, response.Body.String())
	assert.Equal(1.0, testutil.ToFloat64(vc.WithLabelValues(RSSFeedName, ServedOutcome)))
}

func testHandlerBufferedMissing(t *testing.T) {
	var (
		assert       = assert.New(t)
		measures, vc = newTestMeasures()
		h            = &Handler{
			Fixture:  RSSFeed(filepath.Join(t.TempDir(), "missing.rss")),
			Measures: measures,
		}
	)

	response := serve(t, h, "/test/rss_feed")
	assert.Equal(http.StatusNotFound, response.Code)
	assert.Equal("text/plain; charset=utf-8", response.Header().Get("Content-Type"))
	assert.Equal(XMLNotFound, response.Body.String())
	assert.Equal(1.0, testutil.ToFloat64(vc.WithLabelValues(RSSFeedName, NotFoundOutcome)))
}

func testHandlerBufferedDirectory(t *testing.T) {
	var (
		assert = assert.New(t)
		h      = &Handler{Fixture: RSSFeed(t.TempDir())}
	)

	response := serve(t, h, "/test/rss_feed")
	assert.Equal(http.StatusNotFound, response.Code)
	assert.Equal(XMLNotFound, response.Body.String())
}

func testHandlerBufferedError(t *testing.T) {
	var (
		assert       = assert.New(t)
		measures, vc = newTestMeasures()
		parent       = writeFile(t, t.TempDir(), "feed.rss", testFeed)
		h            = &Handler{
			Fixture:  RSSFeed(filepath.Join(parent, "child.rss")),
			Measures: measures,
		}
	)

	response := serve(t, h, "/test/rss_feed")
	assert.Equal(http.StatusInternalServerError, response.Code)
	assert.Equal(http.StatusText(http.StatusInternalServerError), response.Body.String())
	assert.Equal(1.0, testutil.ToFloat64(vc.WithLabelValues(RSSFeedName, ErrorOutcome)))
}

func testHandlerBufferedConcurrent(t *testing.T) {
	const count = 20

	var (
		assert = assert.New(t)
		h      = &Handler{Fixture: RSSFeed(writeFile(t, t.TempDir(), "feed.rss", testFeed))}

		wg     sync.WaitGroup
		bodies = make([]string, count)
		codes  = make([]int, count)
	)

	wg.Add(count)
	for i := 0; i < count; i++ {
		go func(i int) {
			defer wg.Done()
			response := httptest.NewRecorder()
			h.ServeHTTP(response, httptest.NewRequest("GET", "/test/rss_feed", nil))
			codes[i] = response.Code
			bodies[i] = response.Body.String()
		}(i)
	}

	wg.Wait()
	for i := 0; i < count; i++ {
		assert.Equal(http.StatusOK, codes[i])
		assert.Equal(testFeed, bodies[i])
	}
}

func testHandlerFilePresent(t *testing.T) {
	var (
		assert       = assert.New(t)
		measures, vc = newTestMeasures()
		h            = &Handler{
			Fixture:  HTMLPage(writeFile(t, t.TempDir(), "page.html", testPage)),
			Measures: measures,
		}
	)

	response := serve(t, h, "/test/html_page")
	assert.Equal(http.StatusOK, response.Code)
	assert.Equal("text/html; charset=utf-8", response.Header().Get("Content-Type"))
	assert.NotEmpty(response.Header().Get("Last-Modified"))
	assert.Equal(testPage, response.Body.String())
	assert.Equal(1.0, testutil.ToFloat64(vc.WithLabelValues(HTMLPageName, ServedOutcome)))
}

func testHandlerFileMissing(t *testing.T) {
	var (
		assert       = assert.New(t)
		measures, vc = newTestMeasures()
		dir          = t.TempDir()
		h            = &Handler{
			Fixture:  HTMLPage(filepath.Join(dir, "page.html")),
			Measures: measures,
		}
	)

	response := serve(t, h, "/test/html_page")
	assert.Equal(http.StatusNotFound, response.Code)
	assert.Equal(HTMLNotFound, response.Body.String())
	assert.Equal(1.0, testutil.ToFloat64(vc.WithLabelValues(HTMLPageName, NotFoundOutcome)))

	// the fixture is checked on each request
	writeFile(t, dir, "page.html", testPage)
	response = serve(t, h, "/test/html_page")
	assert.Equal(http.StatusOK, response.Code)
	assert.Equal(testPage, response.Body.String())
}

func testHandlerFileContentType(t *testing.T) {
	var (
		assert = assert.New(t)
		ff     = HTMLPage(writeFile(t, t.TempDir(), "page.dat", testPage))
	)

	ff.ContentType = "text/html"
	response := serve(t, &Handler{Fixture: ff}, "/test/html_page")
	assert.Equal(http.StatusOK, response.Code)
	assert.Equal("text/html", response.Header().Get("Content-Type"))
}

func TestHandler(t *testing.T) {
	t.Run("Buffered", func(t *testing.T) {
		t.Run("Present", testHandlerBufferedPresent)
		t.Run("Missing", testHandlerBufferedMissing)
		t.Run("Directory", testHandlerBufferedDirectory)
		t.Run("Error", testHandlerBufferedError)
		t.Run("Concurrent", testHandlerBufferedConcurrent)
	})

	t.Run("File", func(t *testing.T) {
		t.Run("Present", testHandlerFilePresent)
		t.Run("Missing", testHandlerFileMissing)
		t.Run("ContentType", testHandlerFileContentType)
	})
}

func TestNewMeasures(t *testing.T) {
	var (
		assert   = assert.New(t)
		require  = require.New(t)
		registry = prometheus.NewRegistry()
	)

	measures, err := NewMeasures(registry)
	require.NoError(err)
	require.NotNil(measures)
	measures.count(RSSFeedName, ServedOutcome)
	count, err := testutil.GatherAndCount(registry, RequestsCounter)
	assert.NoError(err)
	assert.Equal(1, count)

	measures, err = NewMeasures(registry)
	assert.Nil(measures)
	assert.Error(err)

	// a nil Measures discards
	var nilMeasures *Measures
	assert.NotPanics(func() { nilMeasures.count(RSSFeedName, ServedOutcome) })
}

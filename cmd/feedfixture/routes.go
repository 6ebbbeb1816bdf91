// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/justinas/alice"
	"github.com/xmidt-org/feedfixture/fixture"
	"github.com/xmidt-org/feedfixture/health"
	"github.com/xmidt-org/feedfixture/logging/logginghttp"
	"github.com/xmidt-org/feedfixture/server"
	"github.com/xmidt-org/feedfixture/xhttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
)

const (
	RSSFeedPath  = "/test/rss_feed"
	HTMLPagePath = "/test/html_page"
	AssetsPrefix = "/38_North_html_page_files/"
	HealthPath   = "/health"
	MetricsPath  = "/metrics"
)

// RouteBuilder registers the fixture routes.  The HTML page and the asset mount are only
// registered when their locations are configured.
type RouteBuilder struct {
	Fixtures server.Fixtures
	Measures *fixture.Measures
	Logger   *zap.Logger
}

// Build adds each configured fixture to the router and returns the availability checks
// for the fixtures that were registered.
func (rb RouteBuilder) Build(router *mux.Router) health.Checks {
	var (
		checks = make(health.Checks)
		get    = router.Methods(http.MethodGet).Subrouter()
	)

	rss := fixture.RSSFeed(rb.Fixtures.RSSFeed)
	get.Handle(RSSFeedPath, &fixture.Handler{Fixture: rss, Measures: rb.Measures})
	checks[rss.Name] = rss.Available
	rb.Logger.Info("GET "+RSSFeedPath+" returns the RSS feed", zap.String("path", rss.Path))

	if len(rb.Fixtures.HTMLPage) > 0 {
		page := fixture.HTMLPage(rb.Fixtures.HTMLPage)
		get.Handle(HTMLPagePath, &fixture.Handler{Fixture: page, Measures: rb.Measures})
		checks[page.Name] = page.Available
		rb.Logger.Info("GET "+HTMLPagePath+" returns the HTML page", zap.String("path", page.Path))
	}

	if len(rb.Fixtures.Assets) > 0 {
		m := fixture.Mount{Prefix: AssetsPrefix, Directory: rb.Fixtures.Assets, Measures: rb.Measures}
		get.PathPrefix(AssetsPrefix).Handler(m.Handler())
		checks[fixture.AssetsName] = m.Available
		rb.Logger.Info("GET "+AssetsPrefix+"* returns files beneath the asset directory", zap.String("directory", m.Directory))
	}

	return checks
}

// NewPrimaryHandler decorates the fixture router with request logging, the cross-origin policy,
// the static headers, request metrics, request limits, and optionally tracing.
func NewPrimaryHandler(c *server.Configuration, logger *zap.Logger, measures *server.Measures, router http.Handler) http.Handler {
	h := alice.New(
		logginghttp.SetLogger(logger, logginghttp.RequestInfo, logginghttp.Header("Origin", "origin")),
		xhttp.NewCORS(c.CORS),
		xhttp.StaticHeaders(c.Headers),
		measures.InstrumentHandler(),
		xhttp.Timeout(c.Server.RequestTimeout),
		xhttp.Busy(c.Server.MaxConcurrentRequests),
	).Then(router)

	if c.Tracing.Enabled {
		h = otelhttp.NewHandler(h, server.ApplicationName)
	}

	return h
}

// NewHealthHandler produces the router for the health server
func NewHealthHandler(c *server.Configuration, logger *zap.Logger, checks health.Checks) http.Handler {
	router := mux.NewRouter()
	router.Handle(
		HealthPath,
		alice.New(logginghttp.SetLogger(logger)).Then(&health.Handler{
			Checks:  checks,
			MemInfo: health.MemInfoReader{Location: c.Health.MemInfo},
		}),
	).Methods(http.MethodGet)

	return router
}

// NewMetricsHandler produces the router for the metrics server
func NewMetricsHandler(measures *server.Measures) http.Handler {
	router := mux.NewRouter()
	router.Handle(MetricsPath, measures.Handler()).Methods(http.MethodGet)
	return router
}

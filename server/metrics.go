// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package server

import (
	"net/http"

	"github.com/go-kit/kit/metrics"
	gokitprometheus "github.com/go-kit/kit/metrics/prometheus"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Names for our metrics
const (
	APIRequestsTotal       = "api_requests_total"
	InFlightRequests       = "in_flight_requests"
	RequestDurationSeconds = "request_duration_seconds"
	ActiveConnections      = "active_connections"
	RejectedConnections    = "rejected_connections"
)

// labels
const (
	CodeLabel   = "code"
	MethodLabel = "method"
	ServerLabel = "server"
)

// Measures holds the request handling metrics for every server in this process, along with
// the registry they are exposed from.
type Measures struct {
	Registry *prometheus.Registry

	requests *prometheus.CounterVec
	inFlight prometheus.Gauge
	duration *prometheus.HistogramVec
	active   *prometheus.GaugeVec
	rejected *prometheus.CounterVec
}

// NewMeasures creates a dedicated registry, including the Go and process collectors, and registers the
// request handling metrics with it.
func NewMeasures() (*Measures, error) {
	m := &Measures{
		Registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: APIRequestsTotal,
				Help: "A counter for requests to the handler",
			},
			[]string{CodeLabel, MethodLabel},
		),
		inFlight: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: InFlightRequests,
				Help: "A gauge of requests currently being served by the handler.",
			},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    RequestDurationSeconds,
				Help:    "A histogram of latencies for requests.",
				Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1},
			},
			[]string{CodeLabel, MethodLabel},
		),
		active: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: ActiveConnections,
				Help: "The number of active connections associated with a listener",
			},
			[]string{ServerLabel},
		),
		rejected: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: RejectedConnections,
				Help: "The total number of connections rejected due to exceeding the limit",
			},
			[]string{ServerLabel},
		),
	}

	for _, c := range []prometheus.Collector{
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.requests,
		m.inFlight,
		m.duration,
		m.active,
		m.rejected,
	} {
		if err := m.Registry.Register(c); err != nil {
			return nil, err
		}
	}

	return m, nil
}

// InstrumentHandler returns an Alice-style constructor that records request counts, latencies,
// and the number of in-flight requests
func (m *Measures) InstrumentHandler() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return promhttp.InstrumentHandlerInFlight(
			m.inFlight,
			promhttp.InstrumentHandlerDuration(
				m.duration,
				promhttp.InstrumentHandlerCounter(m.requests, next),
			),
		)
	}
}

// Active returns the active connections gauge for the named server
func (m *Measures) Active(server string) metrics.Gauge {
	return gokitprometheus.NewGauge(m.active).With(ServerLabel, server)
}

// Rejected returns the rejected connections counter for the named server
func (m *Measures) Rejected(server string) metrics.Counter {
	return gokitprometheus.NewCounter(m.rejected).With(ServerLabel, server)
}

// Handler exposes the registry in the prometheus text format
func (m *Measures) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}

// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package fixture

import (
	"github.com/go-kit/kit/metrics"
	"github.com/go-kit/kit/metrics/discard"
	gokitprometheus "github.com/go-kit/kit/metrics/prometheus"
	"github.com/prometheus/client_golang/prometheus"
)

// Names for our metrics
const (
	RequestsCounter = "fixture_requests_total"
)

// labels
const (
	FixtureLabel = "fixture"
	OutcomeLabel = "outcome"
)

// outcomes
const (
	ServedOutcome   = "served"
	NotFoundOutcome = "not_found"
	ErrorOutcome    = "error"
)

// NewRequestsCounterVec creates the unregistered prometheus collector backing Measures.Requests
func NewRequestsCounterVec() *prometheus.CounterVec {
	return prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: RequestsCounter,
			Help: "The total number of fixture requests, by fixture and outcome",
		},
		[]string{FixtureLabel, OutcomeLabel},
	)
}

// Measures describes the metrics updated while serving fixtures
type Measures struct {
	Requests metrics.Counter
}

// NewMeasures creates and registers the fixture metrics with the given prometheus Registerer
func NewMeasures(r prometheus.Registerer) (*Measures, error) {
	vec := NewRequestsCounterVec()
	if err := r.Register(vec); err != nil {
		return nil, err
	}

	return &Measures{
		Requests: gokitprometheus.NewCounter(vec),
	}, nil
}

func (m *Measures) count(name, outcome string) {
	var requests metrics.Counter
	if m != nil && m.Requests != nil {
		requests = m.Requests
	} else {
		requests = discard.NewCounter()
	}

	requests.With(FixtureLabel, name, OutcomeLabel, outcome).Add(1.0)
}

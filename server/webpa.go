// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"sync"

	"github.com/go-kit/kit/metrics"
	"github.com/xmidt-org/feedfixture/xhttp"
	"github.com/xmidt-org/feedfixture/xlistener"
	"github.com/xmidt-org/sallust"
	"go.uber.org/zap"
)

// ErrAlreadyRunning is returned when Run is invoked more than once
var ErrAlreadyRunning = errors.New("servers are already running")

// Component describes one HTTP server within a WebPA
type Component struct {
	// Name identifies this server in logs and metrics
	Name string

	// Options are the http.Server options.  Options.Handler is required.
	Options xhttp.ServerOptions

	// MaxConnections limits concurrent connections.  Nonpositive values mean no limit.
	MaxConnections int
}

type running struct {
	name     string
	server   *http.Server
	listener net.Listener
	start    func() error
}

// WebPA is the set of servers making up a feedfixture process: the primary fixture server and the
// optional health and metrics servers.
type WebPA struct {
	Components []Component

	// Logger is the base logger for all servers.  If unset, sallust.Default() is used.
	Logger *zap.Logger

	// Measures supplies connection metrics.  This field is optional.
	Measures *Measures

	lock    sync.Mutex
	running []running
}

// NewWebPA produces the WebPA described by a Configuration.  The health and metrics servers are
// included only when both their address and handler are set.
func NewWebPA(c *Configuration, logger *zap.Logger, measures *Measures, primary, health, metricsHandler http.Handler) *WebPA {
	primaryOptions := c.Server.ServerOptions()
	primaryOptions.Handler = primary

	w := &WebPA{
		Logger:   logger,
		Measures: measures,
		Components: []Component{
			{
				Name:           ApplicationName,
				Options:        primaryOptions,
				MaxConnections: c.Server.MaxConnections,
			},
		},
	}

	if len(c.Health.Address) > 0 && health != nil {
		w.Components = append(w.Components, Component{
			Name:    ApplicationName + healthSuffix,
			Options: xhttp.ServerOptions{Address: c.Health.Address, Handler: health},
		})
	}

	if len(c.Metrics.Address) > 0 && metricsHandler != nil {
		w.Components = append(w.Components, Component{
			Name:    ApplicationName + metricsSuffix,
			Options: xhttp.ServerOptions{Address: c.Metrics.Address, Handler: metricsHandler},
		})
	}

	return w
}

func (w *WebPA) logger() *zap.Logger {
	if w.Logger != nil {
		return w.Logger
	}

	return sallust.Default()
}

func (w *WebPA) connectionMetrics(name string) (active metrics.Gauge, rejected metrics.Counter) {
	if w.Measures != nil {
		active = w.Measures.Active(name)
		rejected = w.Measures.Rejected(name)
	}

	return
}

// Run starts every component.  All listeners are opened before any server starts, so a bad address is
// returned directly and nothing is left running.  Afterwards, any server that exits for a reason other
// than Shutdown sends its error on errs, which should be buffered to hold one error per component.
// A nil errs discards such errors.
func (w *WebPA) Run(errs chan<- error) error {
	w.lock.Lock()
	defer w.lock.Unlock()

	if len(w.running) > 0 {
		return ErrAlreadyRunning
	}

	started := make([]running, 0, len(w.Components))
	for _, c := range w.Components {
		logger := w.logger().With(zap.String(xhttp.ServerKey, c.Name))
		active, rejected := w.connectionMetrics(c.Name)
		l, err := xlistener.New(xlistener.Options{
			Logger:         logger,
			MaxConnections: c.MaxConnections,
			Active:         active,
			Rejected:       rejected,
			Address:        c.Options.Address,
		})

		if err != nil {
			for _, r := range started {
				r.listener.Close()
			}

			return err
		}

		o := c.Options
		o.Logger = logger
		o.Listener = l
		s := xhttp.NewServer(o)
		started = append(started, running{
			name:     c.Name,
			server:   s,
			listener: l,
			start:    xhttp.NewStarter(o.StartOptions(), s),
		})
	}

	for _, r := range started {
		go func(start func() error) {
			if err := start(); !errors.Is(err, http.ErrServerClosed) && errs != nil {
				errs <- err
			}
		}(r.start)
	}

	w.running = started
	return nil
}

// Addr returns the bound address of the named, running component.  This is nil if no such component
// is running.
func (w *WebPA) Addr(name string) net.Addr {
	w.lock.Lock()
	defer w.lock.Unlock()

	for _, r := range w.running {
		if r.name == name {
			return r.listener.Addr()
		}
	}

	return nil
}

// Shutdown gracefully stops every running component, waiting on in-flight requests until the context
// is done.  All components are always asked to shut down; the returned error joins any failures.
func (w *WebPA) Shutdown(ctx context.Context) error {
	w.lock.Lock()
	defer w.lock.Unlock()

	var errs []error
	for _, r := range w.running {
		if err := r.server.Shutdown(ctx); err != nil {
			w.logger().Error("unable to shut down server", zap.String(xhttp.ServerKey, r.name), zap.Error(err))
			errs = append(errs, err)
		}
	}

	w.running = nil
	return errors.Join(errs...)
}

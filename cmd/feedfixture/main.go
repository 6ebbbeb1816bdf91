// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gorilla/mux"
	"github.com/spf13/pflag"
	"github.com/xmidt-org/feedfixture/fixture"
	"github.com/xmidt-org/feedfixture/logging"
	"github.com/xmidt-org/feedfixture/server"
	"go.uber.org/zap"
)

// exit codes
const (
	configurationError = 1
	startupError       = 2
	serverError        = 3
)

func feedfixture(arguments []string) int {
	var (
		f = pflag.NewFlagSet(server.ApplicationName, pflag.ContinueOnError)
		v = server.NewViper(server.ApplicationName)
	)

	c, err := server.New(server.ApplicationName, arguments, f, v)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Unable to configure %s: %s\n", server.ApplicationName, err)
		return configurationError
	}

	logger, err := logging.New(c.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Unable to create logger: %s\n", err)
		return configurationError
	}

	defer logger.Sync()

	measures, err := server.NewMeasures()
	if err != nil {
		logger.Error("unable to create metrics", zap.Error(err))
		return startupError
	}

	fixtureMeasures, err := fixture.NewMeasures(measures.Registry)
	if err != nil {
		logger.Error("unable to create fixture metrics", zap.Error(err))
		return startupError
	}

	router := mux.NewRouter()
	checks := RouteBuilder{
		Fixtures: c.Fixtures,
		Measures: fixtureMeasures,
		Logger:   logger,
	}.Build(router)

	for name, check := range checks {
		if !check() {
			logger.Warn("fixture not currently available", zap.String("fixture", name))
		}
	}

	webPA := server.NewWebPA(
		c,
		logger,
		measures,
		NewPrimaryHandler(c, logger, measures, router),
		NewHealthHandler(c, logger, checks),
		NewMetricsHandler(measures),
	)

	errs := make(chan error, len(webPA.Components))
	if err := webPA.Run(errs); err != nil {
		logger.Error("unable to start servers", zap.Error(err))
		return startupError
	}

	signals := make(chan os.Signal, 10)
	signal.Notify(signals, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(signals)

	received := make(chan os.Signal, 1)
	go func() {
		received <- server.SignalWait(logger, signals, os.Interrupt, syscall.SIGTERM)
	}()

	exitCode := 0
	select {
	case s := <-received:
		logger.Info("exiting due to signal", zap.Stringer("signal", s))
	case err := <-errs:
		logger.Error("exiting due to server error", zap.Error(err))
		exitCode = serverError
	}

	ctx, cancel := context.WithTimeout(context.Background(), c.ShutdownTimeout)
	defer cancel()
	if err := webPA.Shutdown(ctx); err != nil {
		logger.Error("servers did not shut down cleanly", zap.Error(err))
	}

	return exitCode
}

func main() {
	os.Exit(feedfixture(os.Args[1:]))
}

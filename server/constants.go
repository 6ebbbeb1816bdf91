// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package server

import (
	"time"
)

const (
	// ApplicationName is used for the configuration file name, the environment prefix, and the
	// name of the primary server
	ApplicationName = "feedfixture"

	// DefaultAddress is the listen address of the primary server, on all interfaces
	DefaultAddress = ":8000"

	// DefaultHealthAddress is the listen address of the health server
	DefaultHealthAddress = ":8888"

	// DefaultMetricsAddress is the listen address of the metrics server
	DefaultMetricsAddress = ":9090"

	// DefaultShutdownTimeout bounds how long servers are given to drain on shutdown
	DefaultShutdownTimeout = 15 * time.Second

	// DefaultRSSFeed is the RSS fixture path, relative to the working directory
	DefaultRSSFeed = "./38_north_test.rss"

	// DefaultHTMLPage is the HTML fixture path, relative to the working directory
	DefaultHTMLPage = "./38_North_html_page.html"

	// DefaultAssets is the directory served by the static asset mount
	DefaultAssets = "./38_North_html_page_files"

	// healthSuffix is appended to the application name to produce the health server name
	healthSuffix = ".health"

	// metricsSuffix is appended to the application name to produce the metrics server name
	metricsSuffix = ".metrics"
)

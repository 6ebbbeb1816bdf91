// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

/*
Package server provides the standard approach to configuring and executing the fixture servers.

Configuration is read through viper from an optional file, the environment, and command line flags.
A WebPA bundles the primary fixture server with the optional health and metrics servers, all of which
are started and shut down together.
*/
package server

// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

/*
Package health reports whether the configured fixtures are currently available, along with
host and process memory figures.
*/
package health

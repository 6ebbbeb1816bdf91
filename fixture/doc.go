// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

/*
Package fixture serves read-only files from disk for use as deterministic test responses.

A FileFixture is a single file at a fixed path.  Its existence is checked on every request,
so fixtures may be added or removed while the server runs.  Nothing is cached.  A Mount serves
an entire directory tree beneath a URL prefix.
*/
package fixture

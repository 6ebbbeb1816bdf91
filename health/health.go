// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package health

import (
	"encoding/json"
	"net/http"
	"runtime"

	"github.com/c9s/goprocinfo/linux"
	"github.com/xmidt-org/sallust"
	"go.uber.org/zap"
)

// DefaultMemInfoLocation is the default location for meminfo under Linux
const DefaultMemInfoLocation = "/proc/meminfo"

// Check reports whether a single fixture is available
type Check func() bool

// Checks maps fixture names onto their availability checks
type Checks map[string]Check

// Memory holds host memory figures, in bytes
type Memory struct {
	Total     uint64 `json:"total"`
	Free      uint64 `json:"free"`
	Available uint64 `json:"available"`
	Active    uint64 `json:"active"`
}

// Runtime holds Go runtime memory figures, in bytes
type Runtime struct {
	Alloc   uint64 `json:"alloc"`
	HeapSys uint64 `json:"heapSys"`
	Sys     uint64 `json:"sys"`
}

// Report is the body of a health response
type Report struct {
	Healthy  bool            `json:"healthy"`
	Fixtures map[string]bool `json:"fixtures"`
	Memory   *Memory         `json:"memory,omitempty"`
	Runtime  Runtime         `json:"runtime"`
}

// MemInfoReader handles extracting the linux memory information from
// the enclosing environment.
type MemInfoReader struct {
	Location string
}

// Read parses the configured Location as a linux meminfo file.  Figures are converted from kB to bytes.
func (r MemInfoReader) Read() (*Memory, error) {
	location := r.Location
	if len(location) == 0 {
		location = DefaultMemInfoLocation
	}

	mi, err := linux.ReadMemInfo(location)
	if err != nil {
		return nil, err
	}

	return &Memory{
		Total:     mi.MemTotal * 1024,
		Free:      mi.MemFree * 1024,
		Available: mi.MemAvailable * 1024,
		Active:    mi.Active * 1024,
	}, nil
}

// Handler serves health Reports.  Every check is run on each request, so the report always
// reflects the current state of the filesystem.
type Handler struct {
	Checks  Checks
	MemInfo MemInfoReader
}

// Report runs all checks and gathers memory figures.  Host memory is omitted when it cannot be read,
// e.g. on platforms other than Linux.
func (h *Handler) Report() Report {
	report := Report{
		Healthy:  true,
		Fixtures: make(map[string]bool, len(h.Checks)),
	}

	for name, check := range h.Checks {
		available := check()
		report.Fixtures[name] = available
		report.Healthy = report.Healthy && available
	}

	if memory, err := h.MemInfo.Read(); err == nil {
		report.Memory = memory
	}

	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	report.Runtime = Runtime{
		Alloc:   ms.Alloc,
		HeapSys: ms.HeapSys,
		Sys:     ms.Sys,
	}

	return report
}

func (h *Handler) ServeHTTP(response http.ResponseWriter, request *http.Request) {
	report := h.Report()
	body, err := json.Marshal(report)
	if err != nil {
		sallust.Get(request.Context()).Error("unable to marshal health report", zap.Error(err))
		response.WriteHeader(http.StatusInternalServerError)
		return
	}

	response.Header().Set("Content-Type", "application/json")
	if report.Healthy {
		response.WriteHeader(http.StatusOK)
	} else {
		response.WriteHeader(http.StatusServiceUnavailable)
	}

	if _, err := response.Write(body); err != nil {
		sallust.Get(request.Context()).Debug("unable to write health report", zap.Error(err))
	}
}

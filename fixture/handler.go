// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package fixture

import (
	"errors"
	"io/fs"
	"net/http"
	"os"
	"strconv"

	"github.com/xmidt-org/feedfixture/xhttp"
	"github.com/xmidt-org/sallust"
	"go.uber.org/zap"
)

// Handler serves a single FileFixture.  The fixture's existence is checked on every request.
type Handler struct {
	Fixture  FileFixture
	Measures *Measures
}

func (h *Handler) ServeHTTP(response http.ResponseWriter, request *http.Request) {
	logger := sallust.Get(request.Context()).With(
		zap.String("fixture", h.Fixture.Name),
		zap.String("path", h.Fixture.Path),
	)

	if h.Fixture.Mode == File {
		h.serveFile(logger, response, request)
	} else {
		h.serveBuffered(logger, response)
	}
}

func (h *Handler) serveBuffered(logger *zap.Logger, response http.ResponseWriter) {
	data, err := h.Fixture.Read()
	if err != nil {
		h.fail(logger, response, err)
		return
	}

	header := response.Header()
	if len(h.Fixture.ContentType) > 0 {
		header.Set("Content-Type", h.Fixture.ContentType)
	}

	header.Set("Content-Length", strconv.Itoa(len(data)))
	response.WriteHeader(http.StatusOK)
	if _, err := response.Write(data); err != nil {
		logger.Debug("unable to write fixture", zap.Error(err))
	}

	h.Measures.count(h.Fixture.Name, ServedOutcome)
}

func (h *Handler) serveFile(logger *zap.Logger, response http.ResponseWriter, request *http.Request) {
	info, err := h.Fixture.Stat()
	if err != nil {
		h.fail(logger, response, err)
		return
	}

	f, err := os.Open(h.Fixture.Path)
	if errors.Is(err, fs.ErrNotExist) {
		h.fail(logger, response, ErrNotFound)
		return
	} else if err != nil {
		h.fail(logger, response, err)
		return
	}

	defer f.Close()
	if len(h.Fixture.ContentType) > 0 {
		response.Header().Set("Content-Type", h.Fixture.ContentType)
	}

	http.ServeContent(response, request, info.Name(), info.ModTime(), f)
	h.Measures.count(h.Fixture.Name, ServedOutcome)
}

func (h *Handler) fail(logger *zap.Logger, response http.ResponseWriter, err error) {
	if errors.Is(err, ErrNotFound) {
		logger.Debug("fixture not found", zap.Error(err))
		h.Measures.count(h.Fixture.Name, NotFoundOutcome)
		xhttp.WriteText(response, &xhttp.Error{Code: http.StatusNotFound, Text: h.Fixture.NotFound})
		return
	}

	logger.Error("unable to serve fixture", zap.Error(err))
	h.Measures.count(h.Fixture.Name, ErrorOutcome)
	xhttp.WriteText(response, err)
}

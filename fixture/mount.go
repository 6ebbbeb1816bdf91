// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package fixture

import (
	"errors"
	"io/fs"
	"net/http"
	"os"
	"path"
	"strings"

	"github.com/felixge/httpsnoop"
	"github.com/xmidt-org/feedfixture/xhttp"
	"github.com/xmidt-org/sallust"
	"go.uber.org/zap"
)

// Mount maps a URL path prefix onto a directory.  Any regular file beneath the directory
// is served by its relative path.  Directories are never listed.
type Mount struct {
	// Prefix is the URL path prefix, e.g. /38_North_html_page_files/
	Prefix string

	// Directory is the filesystem directory served beneath Prefix
	Directory string

	Measures *Measures
}

// Available tests if the mounted directory currently exists
func (m Mount) Available() bool {
	info, err := os.Stat(m.Directory)
	return err == nil && info.IsDir()
}

// Handler returns the http.Handler that serves this mount.  The returned handler expects
// to receive the full request path, including Prefix.
func (m Mount) Handler() http.Handler {
	return http.StripPrefix(
		strings.TrimSuffix(m.Prefix, "/"),
		&mountHandler{
			files:    noListing{http.Dir(m.Directory)},
			measures: m.Measures,
		},
	)
}

type mountHandler struct {
	files    http.FileSystem
	measures *Measures
}

func (mh *mountHandler) ServeHTTP(response http.ResponseWriter, request *http.Request) {
	if containsDotDot(request.URL.Path) {
		sallust.Get(request.Context()).Debug("rejecting path outside of mount", zap.String("path", request.URL.Path))
		mh.measures.count(AssetsName, NotFoundOutcome)
		http.NotFound(response, request)
		return
	}

	m := httpsnoop.CaptureMetrics(http.HandlerFunc(mh.serveFile), response, request)
	switch {
	case m.Code < 400:
		mh.measures.count(AssetsName, ServedOutcome)
	case m.Code == http.StatusNotFound:
		mh.measures.count(AssetsName, NotFoundOutcome)
	case m.Code >= 500:
		mh.measures.count(AssetsName, ErrorOutcome)
	}
}

// serveFile writes the regular file named by the request path.  Unlike http.FileServer, no path
// is ever redirected, so index.html is served like any other file.
func (mh *mountHandler) serveFile(response http.ResponseWriter, request *http.Request) {
	name := path.Clean("/" + request.URL.Path)
	f, err := mh.files.Open(name)
	if errors.Is(err, fs.ErrNotExist) {
		http.NotFound(response, request)
		return
	} else if err != nil {
		sallust.Get(request.Context()).Error("unable to open asset", zap.String("name", name), zap.Error(err))
		xhttp.WriteText(response, err)
		return
	}

	defer f.Close()
	info, err := f.Stat()
	if err != nil {
		sallust.Get(request.Context()).Error("unable to stat asset", zap.String("name", name), zap.Error(err))
		xhttp.WriteText(response, err)
		return
	}

	http.ServeContent(response, request, info.Name(), info.ModTime(), f)
}

func containsDotDot(p string) bool {
	if !strings.Contains(p, "..") {
		return false
	}

	for _, element := range strings.FieldsFunc(p, func(r rune) bool { return r == '/' || r == '\\' }) {
		if element == ".." {
			return true
		}
	}

	return false
}

// noListing is an http.FileSystem that refuses to open directories
type noListing struct {
	http.FileSystem
}

func (nl noListing) Open(name string) (http.File, error) {
	f, err := nl.FileSystem.Open(name)
	if err != nil {
		return nil, err
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}

	if info.IsDir() {
		f.Close()
		return nil, os.ErrNotExist
	}

	return f, nil
}

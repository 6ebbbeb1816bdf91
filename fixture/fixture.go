// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package fixture

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
)

// ErrNotFound indicates that a fixture file does not exist on disk, or that its path
// names something other than a regular file.
var ErrNotFound = errors.New("fixture not found")

// Mode describes how a fixture is written to the response.
type Mode int

const (
	// Buffered reads the whole file into memory and writes it with the fixture's content type.
	// Range requests are not honored.
	Buffered Mode = iota

	// File writes a standard file response.  The content type is inferred from the file
	// extension unless the fixture supplies one.
	File
)

func (m Mode) String() string {
	switch m {
	case Buffered:
		return "buffered"
	case File:
		return "file"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

const (
	// RSSFeedName is the fixture name used for the RSS feed
	RSSFeedName = "rss_feed"

	// HTMLPageName is the fixture name used for the HTML page
	HTMLPageName = "html_page"

	// AssetsName is the fixture name used for the static asset mount
	AssetsName = "assets"

	// XMLNotFound is the response body when the RSS feed is missing
	XMLNotFound = "XML File not found"

	// HTMLNotFound is the response body when the HTML page is missing
	HTMLNotFound = "HTML File not found"

	// XMLContentType is the content type of the RSS feed response
	XMLContentType = "application/xml"
)

// FileFixture is a file on disk identified by a fixed path.
type FileFixture struct {
	// Name identifies this fixture in logs and metrics
	Name string

	// Path is the location of the file.  Relative paths are resolved against the
	// working directory of the process.
	Path string

	// Mode controls how the file is written
	Mode Mode

	// ContentType is the Content-Type of a successful response.  For File mode, this is
	// optional.
	ContentType string

	// NotFound is the plain text body written when the file does not exist
	NotFound string
}

// RSSFeed returns the FileFixture for an XML RSS feed at the given path
func RSSFeed(path string) FileFixture {
	return FileFixture{
		Name:        RSSFeedName,
		Path:        path,
		Mode:        Buffered,
		ContentType: XMLContentType,
		NotFound:    XMLNotFound,
	}
}

// HTMLPage returns the FileFixture for an HTML page at the given path
func HTMLPage(path string) FileFixture {
	return FileFixture{
		Name:     HTMLPageName,
		Path:     path,
		Mode:     File,
		NotFound: HTMLNotFound,
	}
}

// Stat checks that this fixture exists as a regular file.  If it does not, the returned
// error wraps ErrNotFound.  Any other error is returned wrapped but otherwise untouched.
func (ff FileFixture) Stat() (fs.FileInfo, error) {
	info, err := os.Stat(ff.Path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return nil, fmt.Errorf("%w: %s", ErrNotFound, ff.Path)

	case err != nil:
		return nil, fmt.Errorf("unable to stat fixture %s: %w", ff.Path, err)

	case !info.Mode().IsRegular():
		return nil, fmt.Errorf("%w: %s is not a regular file", ErrNotFound, ff.Path)
	}

	return info, nil
}

// Read checks for this fixture's existence and then reads the entire file.
func (ff FileFixture) Read() ([]byte, error) {
	if _, err := ff.Stat(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(ff.Path)
	if errors.Is(err, fs.ErrNotExist) {
		// removed between the stat and the read
		return nil, fmt.Errorf("%w: %s", ErrNotFound, ff.Path)
	} else if err != nil {
		return nil, fmt.Errorf("unable to read fixture %s: %w", ff.Path, err)
	}

	return data, nil
}

// Available tests if this fixture currently exists as a regular file
func (ff FileFixture) Available() bool {
	_, err := ff.Stat()
	return err == nil
}

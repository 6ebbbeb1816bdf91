// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package logging

import (
	"github.com/xmidt-org/sallust"
	"go.uber.org/zap"
)

const (
	// StdoutPath is the zap output path for os.Stdout
	StdoutPath = "stdout"

	// StderrPath is the zap output path for os.Stderr
	StderrPath = "stderr"

	// DefaultEncoding is used when the configuration does not name an encoding
	DefaultEncoding = "json"
)

// New builds the application zap Logger from sallust configuration.  Output defaults to stdout
// and internal zap errors default to stderr.  File outputs may be rotated through sallust's
// Rotation settings.
func New(c sallust.Config, opts ...zap.Option) (*zap.Logger, error) {
	if len(c.OutputPaths) == 0 {
		c.OutputPaths = []string{StdoutPath}
	}

	if len(c.ErrorOutputPaths) == 0 {
		c.ErrorOutputPaths = []string{StderrPath}
	}

	if len(c.Encoding) == 0 {
		c.Encoding = DefaultEncoding
	}

	return c.Build(opts...)
}

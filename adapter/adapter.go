// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package adapter

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// Logger exposes a zap Logger as a go-kit log.Logger, for APIs that only accept the latter
// such as go-kit's stdlib adapter.
type Logger struct {
	*zap.Logger
}

// Log implements go-kit's log.Logger.  A "msg" key becomes the zap message, a "level" key of
// error or warn selects that zap level, and everything else becomes a field.  A trailing key with
// no value is logged under "extra".
//
// go-kit's stdlib adapter reports anything of the form "text:123: " as a "file" key, which splits
// lines such as "http: TLS handshake error from 127.0.0.1:1234: EOF".  A "file" value that is not
// a Go source location is joined back onto the message.
func (l Logger) Log(keyvals ...interface{}) error {
	var (
		message string
		file    string
		hasFile bool
		level   = zap.InfoLevel
		fields  = make([]zap.Field, 0, len(keyvals)/2+1)
	)

	for i := 0; i < len(keyvals); i += 2 {
		if i+1 >= len(keyvals) {
			fields = append(fields, zap.Any("extra", keyvals[i]))
			break
		}

		key := fmt.Sprint(keyvals[i])
		switch key {
		case "msg":
			message = fmt.Sprint(keyvals[i+1])
		case "file":
			file, hasFile = fmt.Sprint(keyvals[i+1]), true
		case "level":
			switch fmt.Sprint(keyvals[i+1]) {
			case "error":
				level = zap.ErrorLevel
			case "warn":
				level = zap.WarnLevel
			case "debug":
				level = zap.DebugLevel
			}
		default:
			fields = append(fields, zap.Any(key, keyvals[i+1]))
		}
	}

	if hasFile {
		if isSourceLocation(file) {
			fields = append(fields, zap.String("file", file))
		} else if len(message) > 0 {
			message = file + ": " + message
		} else {
			message = file
		}
	}

	if ce := l.Logger.Check(level, message); ce != nil {
		ce.Write(fields...)
	}

	return nil
}

// isSourceLocation tests if v looks like the file:line written by the log package's Lshortfile
// or Llongfile flags.
func isSourceLocation(v string) bool {
	i := strings.LastIndexByte(v, ':')
	if i < 0 || i == len(v)-1 {
		return false
	}

	for _, r := range v[i+1:] {
		if r < '0' || r > '9' {
			return false
		}
	}

	return strings.HasSuffix(v[:i], ".go") && !strings.ContainsRune(v[:i], ' ')
}

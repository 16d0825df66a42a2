// Copyright 2025 Google LLC
// SPDX-License-Identifier: Apache-2.0

// Package cli wires validated command configuration, dependencies and
// handlers into cobra commands.
package cli

import (
	"io"
	"log"
)

// IO provides input/output streams for CLI commands.
type IO struct {
	In  io.Reader // stdin
	Out io.Writer // stdout
	Err io.Writer // stderr
}

// Logger returns a logger writing to the error stream with the standard flags.
func (cio IO) Logger() *log.Logger {
	w := cio.Err
	if w == nil {
		w = io.Discard
	}
	return log.New(w, "", log.LstdFlags)
}

// Copyright 2025 Google LLC
// SPDX-License-Identifier: Apache-2.0

// Package archive provides the JAR manifest model and the zip entry plumbing
// used to rewrite archives without disturbing their contents.
package archive

// BufferSize is the size of the buffer used to move entry and file content.
const BufferSize = 32 * 1024

// NewBuffer allocates a transfer buffer of BufferSize bytes.
func NewBuffer() []byte {
	return make([]byte, BufferSize)
}

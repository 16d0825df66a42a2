// Copyright 2025 Google LLC
// SPDX-License-Identifier: Apache-2.0

package hashext

import (
	"crypto"
	"io"
)

// MultiHash feeds every write to several typed hashes so that a single pass
// over a stream yields all of its digests.
type MultiHash []TypedHash

// NewMultiHash creates a MultiHash over the available algorithms and returns
// the ones that are not linked into the binary.
func NewMultiHash(hs ...crypto.Hash) (MultiHash, []crypto.Hash) {
	var th MultiHash
	var unavailable []crypto.Hash
	for _, algo := range hs {
		if !algo.Available() {
			unavailable = append(unavailable, algo)
			continue
		}
		th = append(th, NewTypedHash(algo))
	}
	return th, unavailable
}

// Write writes p to all contained hashes.
func (m MultiHash) Write(p []byte) (int, error) {
	for _, th := range m {
		n, err := th.Write(p)
		if err != nil {
			return n, err
		}
	}
	return len(p), nil
}

// Reset calls Hash.Reset on all contained hashes.
func (m MultiHash) Reset() {
	for _, th := range m {
		th.Reset()
	}
}

// Hex returns the lowercase hex digest of each contained hash.
func (m MultiHash) Hex() map[crypto.Hash]string {
	out := make(map[crypto.Hash]string, len(m))
	for _, th := range m {
		out[th.Algorithm] = th.Hex()
	}
	return out
}

var _ io.Writer = MultiHash{}

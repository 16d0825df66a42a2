// Copyright 2025 Google LLC
// SPDX-License-Identifier: Apache-2.0

// Package hashext provides extensions to the standard crypto/hash package.
package hashext

import (
	"crypto"
	_ "crypto/md5"
	_ "crypto/sha1"
	_ "crypto/sha256"
	_ "crypto/sha512"
	"encoding/hex"
	"hash"
	"strings"

	"github.com/pkg/errors"
)

// TypedHash is a hash.Hash annotated with its algorithm.
type TypedHash struct {
	hash.Hash
	Algorithm crypto.Hash
}

// NewTypedHash constructs a new TypedHash.
// It panics if the algorithm is not linked into the binary.
func NewTypedHash(algo crypto.Hash) TypedHash {
	return TypedHash{Hash: algo.New(), Algorithm: algo}
}

// Hex returns the lowercase hex encoding of the current sum.
func (th TypedHash) Hex() string {
	return hex.EncodeToString(th.Sum(nil))
}

// Names of algorithms as they appear in repository checksum file extensions.
var names = map[crypto.Hash]string{
	crypto.MD5:    "md5",
	crypto.SHA1:   "sha1",
	crypto.SHA256: "sha256",
	crypto.SHA512: "sha512",
}

// ErrUnknownAlgorithm is returned for algorithm names with no crypto.Hash.
var ErrUnknownAlgorithm = errors.New("unknown hash algorithm")

// ParseAlgorithm returns the algorithm for a name such as "sha1" or "SHA-256".
func ParseAlgorithm(name string) (crypto.Hash, error) {
	norm := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(name), "-", ""))
	for algo, n := range names {
		if n == norm {
			return algo, nil
		}
	}
	return 0, errors.Wrapf(ErrUnknownAlgorithm, "%q", name)
}

// Extension returns the checksum file extension for the algorithm, without the dot.
func Extension(algo crypto.Hash) string {
	if n, ok := names[algo]; ok {
		return n
	}
	return strings.ToLower(strings.ReplaceAll(algo.String(), "-", ""))
}

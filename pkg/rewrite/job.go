// Copyright 2026 Google LLC
// SPDX-License-Identifier: Apache-2.0

// Package rewrite rebuilds JAR archives with a substituted or merged manifest.
package rewrite

import (
	"strings"

	"github.com/pkg/errors"
)

// Mode selects how the supplement manifest is applied.
type Mode string

const (
	// MergeMode lays the supplement's main attributes over the archive's manifest.
	MergeMode Mode = "merge"
	// OverwriteMode replaces the archive's manifest with the supplement.
	OverwriteMode Mode = "overwrite"
)

// ParseMode parses a mode name, ignoring case. The empty string is MergeMode.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", string(MergeMode):
		return MergeMode, nil
	case string(OverwriteMode):
		return OverwriteMode, nil
	default:
		return "", errors.Errorf("unknown mode %q", s)
	}
}

// Job describes one archive to rewrite.
type Job struct {
	// JarFile is the path of the archive. It takes precedence over Artifact.
	JarFile string
	// Artifact is a group:artifact:version coordinate in the local repository.
	Artifact string
	// ManifestFile is the path of the supplement manifest.
	ManifestFile string
	// Mode defaults to MergeMode when empty.
	Mode Mode
	// Publish replaces the repository copy of an Artifact source with the output.
	Publish bool
}

// Validate checks the job without touching the filesystem.
func (j Job) Validate() error {
	if j.JarFile == "" && strings.TrimSpace(j.Artifact) == "" {
		return newError(KindInvalidJob, "missing artifact or jar file definition")
	}
	if j.ManifestFile == "" {
		return newError(KindInvalidJob, "missing manifest definition")
	}
	if _, err := ParseMode(string(j.Mode)); err != nil {
		return wrapError(KindInvalidJob, err, "invalid mode")
	}
	return nil
}

// String identifies the job's source for logs.
func (j Job) String() string {
	if j.JarFile != "" {
		return j.JarFile
	}
	return j.Artifact
}

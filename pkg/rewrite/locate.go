// Copyright 2026 Google LLC
// SPDX-License-Identifier: Apache-2.0

package rewrite

import (
	"strings"

	"github.com/google/jarpatch/pkg/registry/maven"
)

// Source is a resolved source archive.
type Source struct {
	Path string
	// Coordinate is set when the path was derived from the local repository.
	Coordinate *maven.Coordinate
}

// FromRepository reports whether the source occupies a local repository slot.
func (s Source) FromRepository() bool {
	return s.Coordinate != nil
}

// Locate resolves the archive a job refers to. A direct path always wins
// over a coordinate.
func Locate(job Job, repoRoot string) (Source, error) {
	if job.JarFile != "" {
		return Source{Path: job.JarFile}, nil
	}
	if strings.TrimSpace(job.Artifact) == "" {
		return Source{}, newError(KindNotFound, "no jar file or artifact to locate")
	}
	c, err := maven.ParseCoordinate(job.Artifact)
	if err != nil {
		return Source{}, wrapErrorf(KindInvalidCoordinate, err, "artifact definition '%s' is invalid", job.Artifact)
	}
	p, err := c.LocalPath(repoRoot, maven.TypeJar)
	if err != nil {
		return Source{}, wrapErrorf(KindNotFound, err, "unable to locate artifact '%s'", job.Artifact)
	}
	return Source{Path: p, Coordinate: &c}, nil
}

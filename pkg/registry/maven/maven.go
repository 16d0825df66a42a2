// Copyright 2025 Google LLC
// SPDX-License-Identifier: Apache-2.0

// Package maven locates artifacts within a local Maven repository.
package maven

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

const (
	// TypePOM is a POM file.
	TypePOM string = ".pom"
	// TypeSources is a sources file.
	TypeSources string = "-sources.jar"
	// TypeJar is a jar file.
	TypeJar string = ".jar"
	// TypeJavadoc is a javadoc file.
	TypeJavadoc string = "-javadoc.jar"
)

var (
	// ErrInvalidCoordinate is returned for identifiers not of form 'group:artifact:version'.
	ErrInvalidCoordinate = errors.New("coordinate not of form 'group:artifact:version'")
	// ErrInvalidPath is returned when a coordinate cannot be mapped onto the repository layout.
	ErrInvalidPath = errors.New("coordinate does not map to a repository path")
)

// Coordinate identifies an artifact version. Also known as a GAV or Buildr notation.
type Coordinate struct {
	GroupID    string
	ArtifactID string
	Version    string
}

// ParseCoordinate parses a 'group:artifact:version' identifier.
func ParseCoordinate(s string) (Coordinate, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 3 {
		return Coordinate{}, errors.Wrapf(ErrInvalidCoordinate, "%q has %d segments", s, len(parts))
	}
	for _, p := range parts {
		if p == "" {
			return Coordinate{}, errors.Wrapf(ErrInvalidCoordinate, "%q has an empty segment", s)
		}
	}
	return Coordinate{GroupID: parts[0], ArtifactID: parts[1], Version: parts[2]}, nil
}

func (c Coordinate) String() string {
	return fmt.Sprintf("%s:%s:%s", c.GroupID, c.ArtifactID, c.Version)
}

// FileName returns the name of the artifact file with the given type suffix.
func (c Coordinate) FileName(typ string) string {
	return fmt.Sprintf("%s-%s%s", c.ArtifactID, c.Version, typ)
}

// RelativePath returns the slash-separated path of the artifact file relative
// to the repository root: group segments, artifact, version, then file name.
func (c Coordinate) RelativePath(typ string) (string, error) {
	var segments []string
	for _, g := range strings.Split(c.GroupID, ".") {
		if err := checkSegment(g); err != nil {
			return "", errors.Wrapf(err, "group %q", c.GroupID)
		}
		segments = append(segments, g)
	}
	for _, s := range []string{c.ArtifactID, c.Version} {
		if err := checkSegment(s); err != nil {
			return "", errors.Wrapf(err, "coordinate %s", c)
		}
	}
	segments = append(segments, c.ArtifactID, c.Version, c.FileName(typ))
	return strings.Join(segments, "/"), nil
}

// LocalPath returns the location of the artifact file under the repository root.
// The path is constructed, not looked up.
func (c Coordinate) LocalPath(repoRoot, typ string) (string, error) {
	if repoRoot == "" {
		return "", errors.Wrap(ErrInvalidPath, "no repository root")
	}
	rel, err := c.RelativePath(typ)
	if err != nil {
		return "", err
	}
	return filepath.Join(repoRoot, filepath.FromSlash(rel)), nil
}

func checkSegment(s string) error {
	switch {
	case s == "":
		return errors.Wrap(ErrInvalidPath, "empty segment")
	case s == "." || s == "..":
		return errors.Wrapf(ErrInvalidPath, "relative segment %q", s)
	case strings.ContainsAny(s, `/\`+"\x00"):
		return errors.Wrapf(ErrInvalidPath, "segment %q contains a separator", s)
	}
	return nil
}

// Copyright 2025 Google LLC
// SPDX-License-Identifier: Apache-2.0

package maven

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/pkg/errors"
)

func TestParseCoordinate(t *testing.T) {
	tests := []struct {
		input   string
		want    Coordinate
		wantErr bool
	}{
		{input: "group:artifact:1.0", want: Coordinate{"group", "artifact", "1.0"}},
		{input: " org.apache.maven:maven-plugin-api:3.5.0 ", want: Coordinate{"org.apache.maven", "maven-plugin-api", "3.5.0"}},
		{input: "", wantErr: true},
		{input: "a", wantErr: true},
		{input: "a:a", wantErr: true},
		{input: "a:a:A:a", wantErr: true},
		{input: "::", wantErr: true},
		{input: "a:b:", wantErr: true},
		{input: ":b:c", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseCoordinate(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseCoordinate(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil {
				if !errors.Is(err, ErrInvalidCoordinate) {
					t.Errorf("ParseCoordinate(%q) error = %v, want ErrInvalidCoordinate", tt.input, err)
				}
				return
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("ParseCoordinate(%q) mismatch (-want +got):\n%s", tt.input, diff)
			}
		})
	}
}

func TestLocalPath(t *testing.T) {
	tests := []struct {
		name    string
		coord   Coordinate
		root    string
		typ     string
		want    string
		wantErr bool
	}{
		{
			name:  "single group segment",
			coord: Coordinate{"group", "artifact", "1.0"},
			root:  "/repo",
			typ:   TypeJar,
			want:  "/repo/group/artifact/1.0/artifact-1.0.jar",
		},
		{
			name:  "dotted group",
			coord: Coordinate{"org.apache.maven", "maven-plugin-api", "3.5.0"},
			root:  "/home/u/.m2/repository",
			typ:   TypeJar,
			want:  "/home/u/.m2/repository/org/apache/maven/maven-plugin-api/3.5.0/maven-plugin-api-3.5.0.jar",
		},
		{
			name:  "pom type",
			coord: Coordinate{"com.google.guava", "guava", "33.4.8-jre"},
			root:  "/repo",
			typ:   TypePOM,
			want:  "/repo/com/google/guava/guava/33.4.8-jre/guava-33.4.8-jre.pom",
		},
		{
			name:    "empty group segment",
			coord:   Coordinate{"org..maven", "a", "1"},
			root:    "/repo",
			typ:     TypeJar,
			wantErr: true,
		},
		{
			name:    "traversal in version",
			coord:   Coordinate{"g", "a", ".."},
			root:    "/repo",
			typ:     TypeJar,
			wantErr: true,
		},
		{
			name:    "separator in artifact",
			coord:   Coordinate{"g", "a/b", "1"},
			root:    "/repo",
			typ:     TypeJar,
			wantErr: true,
		},
		{
			name:    "no repository root",
			coord:   Coordinate{"g", "a", "1"},
			typ:     TypeJar,
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.coord.LocalPath(tt.root, tt.typ)
			if (err != nil) != tt.wantErr {
				t.Fatalf("LocalPath() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				if !errors.Is(err, ErrInvalidPath) {
					t.Errorf("LocalPath() error = %v, want ErrInvalidPath", err)
				}
				return
			}
			if got != tt.want {
				t.Errorf("LocalPath() = %v, want %v", got, tt.want)
			}
		})
	}
}

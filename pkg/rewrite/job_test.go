// Copyright 2026 Google LLC
// SPDX-License-Identifier: Apache-2.0

package rewrite

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/jarpatch/pkg/registry/maven"
	"github.com/pkg/errors"
)

func TestParseMode(t *testing.T) {
	tests := []struct {
		input   string
		want    Mode
		wantErr bool
	}{
		{input: "", want: MergeMode},
		{input: "merge", want: MergeMode},
		{input: "MERGE", want: MergeMode},
		{input: " Overwrite ", want: OverwriteMode},
		{input: "replace", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseMode(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseMode(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseMode(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestJobValidate(t *testing.T) {
	tests := []struct {
		name    string
		job     Job
		wantErr bool
	}{
		{name: "jar file", job: Job{JarFile: "x.jar", ManifestFile: "m"}},
		{name: "artifact", job: Job{Artifact: "g:a:1", ManifestFile: "m", Mode: OverwriteMode}},
		{name: "both", job: Job{JarFile: "x.jar", Artifact: "g:a:1", ManifestFile: "m"}},
		{name: "no source", job: Job{ManifestFile: "m"}, wantErr: true},
		{name: "blank artifact", job: Job{Artifact: "  ", ManifestFile: "m"}, wantErr: true},
		{name: "no manifest", job: Job{JarFile: "x.jar"}, wantErr: true},
		{name: "unknown mode", job: Job{JarFile: "x.jar", ManifestFile: "m", Mode: "append"}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.job.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && KindOf(err) != KindInvalidJob {
				t.Errorf("KindOf(%v) = %v, want %v", err, KindOf(err), KindInvalidJob)
			}
		})
	}
}

func TestLocate(t *testing.T) {
	tests := []struct {
		name     string
		job      Job
		want     Source
		wantKind Kind
	}{
		{
			name: "jar file",
			job:  Job{JarFile: "/work/x.jar"},
			want: Source{Path: "/work/x.jar"},
		},
		{
			name: "jar file wins over artifact",
			job:  Job{JarFile: "/work/x.jar", Artifact: "g:a:1"},
			want: Source{Path: "/work/x.jar"},
		},
		{
			name: "artifact",
			job:  Job{Artifact: "org.apache.maven:maven-plugin-api:3.5.0"},
			want: Source{
				Path:       "/repo/org/apache/maven/maven-plugin-api/3.5.0/maven-plugin-api-3.5.0.jar",
				Coordinate: &maven.Coordinate{GroupID: "org.apache.maven", ArtifactID: "maven-plugin-api", Version: "3.5.0"},
			},
		},
		{name: "nothing", job: Job{}, wantKind: KindNotFound},
		{name: "two segments", job: Job{Artifact: "a:a"}, wantKind: KindInvalidCoordinate},
		{name: "four segments", job: Job{Artifact: "a:a:A:a"}, wantKind: KindInvalidCoordinate},
		{name: "traversal", job: Job{Artifact: "g:..:1"}, wantKind: KindNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Locate(tt.job, "/repo")
			if tt.wantKind != KindUnknown {
				if KindOf(err) != tt.wantKind {
					t.Fatalf("Locate() error = %v, want kind %v", err, tt.wantKind)
				}
				return
			}
			if err != nil {
				t.Fatalf("Locate() error = %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Locate() mismatch (-want +got):\n%s", diff)
			}
			if got.FromRepository() != (tt.job.JarFile == "") {
				t.Errorf("FromRepository() = %v", got.FromRepository())
			}
		})
	}
}

func TestKindOf(t *testing.T) {
	err := errors.Wrap(newError(KindSigned, "signed"), "job 1")
	if got := KindOf(err); got != KindSigned {
		t.Errorf("KindOf() = %v, want %v", got, KindSigned)
	}
	if !KindOf(err).Recoverable() {
		t.Errorf("signed should be recoverable")
	}
	if got := KindOf(errors.New("plain")); got != KindUnknown {
		t.Errorf("KindOf(plain) = %v, want %v", got, KindUnknown)
	}
	for _, k := range []Kind{KindInvalidJob, KindInvalidCoordinate, KindNotFound, KindIO, KindFormat} {
		if k.Recoverable() {
			t.Errorf("%v.Recoverable() = true", k)
		}
	}
}

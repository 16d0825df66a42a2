// Copyright 2026 Google LLC
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"crypto"
	"testing"

	"github.com/go-git/go-billy/v5/memfs"
	"github.com/google/go-cmp/cmp"
	"github.com/google/jarpatch/pkg/archive/archivetest"
	"github.com/google/jarpatch/pkg/rewrite"
	"github.com/pkg/errors"
)

const yamlJobs = `
outputDirectory: out
localRepository: /repo
artifacts:
  - artifact: org.apache.maven:maven-plugin-api:3.5.0
    manifestFile: manifests/MANIFEST.MF
    publishArtifact: true
  - jarFile: /abs/X.jar
    manifestFile: ~/MANIFEST.MF
    mode: overwrite
`

const jsonJobs = `{
  "outputDirectory": "out",
  "localRepository": "/repo",
  "artifacts": [
    {"artifact": "org.apache.maven:maven-plugin-api:3.5.0", "manifestFile": "manifests/MANIFEST.MF", "publishArtifact": true},
    {"jarFile": "/abs/X.jar", "manifestFile": "~/MANIFEST.MF", "mode": "overwrite"}
  ]
}`

const tomlJobs = `
outputDirectory = "out"
localRepository = "/repo"

[[artifacts]]
artifact = "org.apache.maven:maven-plugin-api:3.5.0"
manifestFile = "manifests/MANIFEST.MF"
publishArtifact = true

[[artifacts]]
jarFile = "/abs/X.jar"
manifestFile = "~/MANIFEST.MF"
mode = "overwrite"
`

func TestLoad(t *testing.T) {
	want := []rewrite.Job{
		{Artifact: "org.apache.maven:maven-plugin-api:3.5.0", ManifestFile: "/work/manifests/MANIFEST.MF", Publish: true},
		{JarFile: "/abs/X.jar", ManifestFile: "/home/u/MANIFEST.MF", Mode: rewrite.OverwriteMode},
	}
	for name, content := range map[string]string{
		"/work/jobs.yaml": yamlJobs,
		"/work/jobs.json": jsonJobs,
		"/work/jobs.toml": tomlJobs,
	} {
		t.Run(name, func(t *testing.T) {
			fs := memfs.New()
			if err := archivetest.WriteFile(fs, name, []byte(content)); err != nil {
				t.Fatal(err)
			}
			f, err := load(fs, name, "/home/u")
			if err != nil {
				t.Fatalf("load() error = %v", err)
			}
			if f.OutputDirectory != "/work/out" || f.LocalRepository != "/repo" {
				t.Errorf("directories = %q, %q", f.OutputDirectory, f.LocalRepository)
			}
			if diff := cmp.Diff(want, f.Jobs()); diff != "" {
				t.Errorf("Jobs() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseDefaults(t *testing.T) {
	for _, format := range []Format{YAML, JSON, TOML} {
		f, err := Parse(nil, format)
		if err != nil {
			t.Fatalf("Parse(%s) error = %v", format, err)
		}
		want := &File{
			OutputDirectory: DefaultOutputDirectory,
			LocalRepository: DefaultLocalRepository,
			Digests:         []string{DefaultDigest},
		}
		if diff := cmp.Diff(want, f); diff != "" {
			t.Errorf("Parse(%s) mismatch (-want +got):\n%s", format, diff)
		}
		f.Resolve("/work", "/home/u")
		if f.LocalRepository != "/home/u/.m2/repository" {
			t.Errorf("LocalRepository = %q", f.LocalRepository)
		}
	}
}

func TestParseInvalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		format  Format
	}{
		{"unknown key", "outputDir: out\n", YAML},
		{"unknown artifact key", "artifacts:\n  - jar: x.jar\n", YAML},
		{"wrong type", `{"rawCopy": "yes"}`, JSON},
		{"artifacts not a list", "artifacts = 3\n", TOML},
		{"not an object", "- a\n- b\n", YAML},
		{"syntax", "outputDirectory = \n", TOML},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.content), tt.format)
			if !errors.Is(err, ErrInvalid) {
				t.Errorf("Parse() error = %v, want ErrInvalid", err)
			}
		})
	}
}

func TestFormatOf(t *testing.T) {
	for path, want := range map[string]Format{
		"a.yaml": YAML,
		"a.YML":  YAML,
		"a.json": JSON,
		"a.toml": TOML,
	} {
		if got, err := FormatOf(path); err != nil || got != want {
			t.Errorf("FormatOf(%q) = %v, %v, want %v", path, got, err, want)
		}
	}
	if _, err := FormatOf("a.xml"); err == nil {
		t.Errorf("FormatOf(a.xml) succeeded")
	}
}

func TestExpandHome(t *testing.T) {
	tests := []struct {
		path, home, want string
	}{
		{"~", "/home/u", "/home/u"},
		{"~/.m2/repository", "/home/u", "/home/u/.m2/repository"},
		{"~other/x", "/home/u", "~other/x"},
		{"/abs", "/home/u", "/abs"},
		{"~/x", "", "~/x"},
	}
	for _, tt := range tests {
		if got := ExpandHome(tt.path, tt.home); got != tt.want {
			t.Errorf("ExpandHome(%q, %q) = %q, want %q", tt.path, tt.home, got, tt.want)
		}
	}
}

func TestDigestAlgorithms(t *testing.T) {
	f := &File{Digests: []string{"sha1", "SHA-256", "md5"}}
	got, err := f.DigestAlgorithms()
	if err != nil {
		t.Fatalf("DigestAlgorithms() error = %v", err)
	}
	if diff := cmp.Diff([]crypto.Hash{crypto.SHA1, crypto.SHA256, crypto.MD5}, got); diff != "" {
		t.Errorf("DigestAlgorithms() mismatch (-want +got):\n%s", diff)
	}
	f.Digests = []string{"crc32"}
	if _, err := f.DigestAlgorithms(); !errors.Is(err, ErrInvalid) {
		t.Errorf("DigestAlgorithms() error = %v, want ErrInvalid", err)
	}
}

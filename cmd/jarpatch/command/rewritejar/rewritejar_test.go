// Copyright 2026 Google LLC
// SPDX-License-Identifier: Apache-2.0

package rewritejar

import (
	"archive/zip"
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/go-git/go-billy/v5/memfs"
	"github.com/google/jarpatch/internal/cli"
	"github.com/google/jarpatch/pkg/archive/archivetest"
)

func TestConfigValidate(t *testing.T) {
	base := Config{Jar: "x.jar", Manifest: "MANIFEST.MF", OutputDir: "target", Digests: "sha1"}
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "valid config", mutate: func(*Config) {}},
		{name: "artifact", mutate: func(c *Config) { c.Jar, c.Artifact, c.Publish = "", "g:a:1", true }},
		{name: "overwrite", mutate: func(c *Config) { c.Mode = "OVERWRITE" }},
		{name: "several digests", mutate: func(c *Config) { c.Digests = "sha1,sha-256" }},
		{name: "missing source", mutate: func(c *Config) { c.Jar = "" }, wantErr: true},
		{name: "both sources", mutate: func(c *Config) { c.Artifact = "g:a:1" }, wantErr: true},
		{name: "missing manifest", mutate: func(c *Config) { c.Manifest = "" }, wantErr: true},
		{name: "unknown mode", mutate: func(c *Config) { c.Mode = "append" }, wantErr: true},
		{name: "missing output", mutate: func(c *Config) { c.OutputDir = "" }, wantErr: true},
		{name: "publish local jar", mutate: func(c *Config) { c.Publish = true }, wantErr: true},
		{name: "unknown digest", mutate: func(c *Config) { c.Digests = "crc32" }, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestHandler(t *testing.T) {
	jar, err := archivetest.ZipFile([]archivetest.ZipEntry{
		archivetest.ManifestEntry("Manifest-Version: 1.0", "Archiver-Version: Plexus Archiver"),
		{FileHeader: &zip.FileHeader{Name: "A.class", Method: zip.Deflate}, Body: []byte("class")},
	})
	if err != nil {
		t.Fatal(err)
	}
	fs := memfs.New()
	if err := archivetest.WriteFile(fs, "/repo/g/a/1/a-1.jar", jar.Bytes()); err != nil {
		t.Fatal(err)
	}
	if err := archivetest.WriteFile(fs, "/work/MANIFEST.MF", archivetest.Manifest("Manifest-Version: 1.0", "Created-By: jarpatch")); err != nil {
		t.Fatal(err)
	}
	var out bytes.Buffer
	deps := &Deps{FS: fs, IO: cli.IO{Out: &out, Err: io.Discard}}
	cfg := Config{
		Artifact:        "g:a:1",
		Manifest:        "/work/MANIFEST.MF",
		Mode:            "overwrite",
		Publish:         true,
		OutputDir:       "/work/out",
		LocalRepository: "/repo",
		Digests:         "sha1,sha256",
	}
	if err := Handler(context.Background(), cfg, deps); err != nil {
		t.Fatalf("Handler() error = %v", err)
	}
	if !strings.Contains(out.String(), "/repo/g/a/1/a-1.jar -> /work/out/a-1.jar (republished)") {
		t.Errorf("output = %q", out.String())
	}
	for _, name := range []string{"/work/out/a-1.jar", "/repo/g/a/1/a-1.jar.sha1", "/repo/g/a/1/a-1.jar.sha256"} {
		if _, err := fs.Stat(name); err != nil {
			t.Errorf("Stat(%s) error = %v", name, err)
		}
	}
}

func TestHandlerFailure(t *testing.T) {
	var out bytes.Buffer
	deps := &Deps{FS: memfs.New(), IO: cli.IO{Out: &out, Err: io.Discard}}
	cfg := Config{Jar: "/work/missing.jar", Manifest: "/work/MANIFEST.MF", OutputDir: "/work/out"}
	if err := Handler(context.Background(), cfg, deps); err == nil {
		t.Fatalf("Handler() succeeded, want error")
	}
	if !strings.Contains(out.String(), "[not-found]") {
		t.Errorf("output = %q", out.String())
	}
}

// Copyright 2026 Google LLC
// SPDX-License-Identifier: Apache-2.0

package archive

import (
	"archive/zip"
	"bytes"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/jarpatch/pkg/archive/archivetest"
)

func TestIsSigned(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{
			name:  "main section only",
			input: "Manifest-Version: 1.0\r\nArchiver-Version: Plexus Archiver\r\n\r\n",
			want:  false,
		},
		{
			name:  "empty",
			input: "",
			want:  false,
		},
		{
			name: "digest section",
			input: "Manifest-Version: 1.0\r\n\r\n" +
				"Name: org/example/A.class\r\n" +
				"SHA-256-Digest: q1w2e3=\r\n\r\n",
			want: true,
		},
		{
			name: "non-digest section still counts",
			input: "Manifest-Version: 1.0\r\n\r\n" +
				"Name: org/example/\r\n" +
				"Sealed: true\r\n\r\n",
			want: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := ParseManifest(strings.NewReader(tt.input))
			if err != nil {
				t.Fatalf("ParseManifest() error = %v", err)
			}
			if got := IsSigned(m); got != tt.want {
				t.Errorf("IsSigned() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSignatureFiles(t *testing.T) {
	b := must(archivetest.ZipFile([]archivetest.ZipEntry{
		{FileHeader: &zip.FileHeader{Name: "META-INF/MANIFEST.MF"}, Body: archivetest.Manifest("Manifest-Version: 1.0")},
		{FileHeader: &zip.FileHeader{Name: "META-INF/SIGNER.SF"}, Body: []byte("sf")},
		{FileHeader: &zip.FileHeader{Name: "META-INF/signer.rsa"}, Body: []byte("rsa")},
		{FileHeader: &zip.FileHeader{Name: "META-INF/KEY.EC"}, Body: []byte("ec")},
		{FileHeader: &zip.FileHeader{Name: "META-INF/maven/g/a/pom.properties"}, Body: []byte("version=1")},
		{FileHeader: &zip.FileHeader{Name: "META-INF/nested/OTHER.DSA"}, Body: []byte("dsa")},
		{FileHeader: &zip.FileHeader{Name: "docs/README.SF"}, Body: []byte("not a signature")},
	}))
	zr := must(zip.NewReader(bytes.NewReader(b.Bytes()), int64(b.Len())))
	want := []string{"META-INF/SIGNER.SF", "META-INF/signer.rsa", "META-INF/KEY.EC"}
	if diff := cmp.Diff(want, SignatureFiles(zr)); diff != "" {
		t.Errorf("SignatureFiles() mismatch (-want +got):\n%s", diff)
	}
}

// Copyright 2026 Google LLC
// SPDX-License-Identifier: Apache-2.0

package archive

import (
	"archive/zip"
	"path"
	"strings"
)

// signatureExts are the file extensions of JAR signature blocks.
var signatureExts = []string{".sf", ".rsa", ".dsa", ".ec"}

// IsSigned reports whether a manifest carries per-entry sections.
//
// Signing tools record entry digests in per-entry sections, so any such
// section is treated as a signature, accepting false positives.
func IsSigned(m *Manifest) bool {
	return len(m.EntrySections) > 0
}

// SignatureFiles returns the names of signature-related files directly under META-INF/.
func SignatureFiles(zr *zip.Reader) []string {
	var found []string
	for _, f := range zr.File {
		dir, base := path.Split(f.Name)
		if !strings.EqualFold(dir, "META-INF/") || base == "" {
			continue
		}
		ext := strings.ToLower(path.Ext(base))
		for _, sigExt := range signatureExts {
			if ext == sigExt {
				found = append(found, f.Name)
				break
			}
		}
	}
	return found
}

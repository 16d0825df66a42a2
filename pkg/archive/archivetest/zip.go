// Copyright 2025 Google LLC
// SPDX-License-Identifier: Apache-2.0

// Package archivetest builds in-memory archives and manifests for tests.
package archivetest

import (
	"archive/zip"
	"bytes"
	"io"
	"os"
	"path"
	"strings"

	"github.com/go-git/go-billy/v5"
)

// ZipEntry represents an entry in a zip archive.
type ZipEntry struct {
	*zip.FileHeader
	Body []byte
}

// ZipFile builds a zip archive from the given entries.
func ZipFile(entries []ZipEntry) (*bytes.Buffer, error) {
	return ZipFileWithComment("", entries)
}

// ZipFileWithComment builds a zip archive carrying an archive-level comment.
func ZipFileWithComment(comment string, entries []ZipEntry) (*bytes.Buffer, error) {
	buf := new(bytes.Buffer)
	zw := zip.NewWriter(buf)
	var renames [][2]string
	if comment != "" {
		if err := zw.SetComment(comment); err != nil {
			return nil, err
		}
	}
	for _, entry := range entries {
		var fw io.Writer
		var err error
		if strings.HasSuffix(entry.Name, "/") && len(entry.Body) > 0 {
			// zip.Writer refuses data for directory names, so write under a stand-in
			// name of the same length and rename once the archive is closed.
			fh := *entry.FileHeader
			fh.Name = strings.TrimSuffix(entry.Name, "/") + "\x00"
			renames = append(renames, [2]string{fh.Name, entry.Name})
			fw, err = zw.CreateRaw(&fh)
		} else {
			fw, err = zw.CreateHeader(entry.FileHeader)
		}
		if err != nil {
			return nil, err
		}
		if _, err := fw.Write(entry.Body); err != nil {
			return nil, err
		}
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	b := buf.Bytes()
	for _, r := range renames {
		b = bytes.ReplaceAll(b, []byte(r[0]), []byte(r[1]))
	}
	return bytes.NewBuffer(b), nil
}

// Manifest joins the given lines into CRLF-terminated manifest text with a
// trailing blank line. Empty strings become section separators.
func Manifest(lines ...string) []byte {
	var b strings.Builder
	for _, l := range lines {
		b.WriteString(l)
		b.WriteString("\r\n")
	}
	b.WriteString("\r\n")
	return []byte(b.String())
}

// ManifestEntry is a deflated META-INF/MANIFEST.MF entry with the given lines.
func ManifestEntry(lines ...string) ZipEntry {
	return ZipEntry{
		FileHeader: &zip.FileHeader{Name: "META-INF/MANIFEST.MF", Method: zip.Deflate},
		Body:       Manifest(lines...),
	}
}

// JavaDirEntry is a directory entry as java.util.zip writes it: deflated,
// with a data descriptor and an empty two-byte deflate stream as its body.
func JavaDirEntry(name string) ZipEntry {
	return ZipEntry{
		FileHeader: &zip.FileHeader{
			Name:           name,
			Method:         zip.Deflate,
			Flags:          0x8,
			CreatorVersion: 20,
			ReaderVersion:  20,
			// CRC32 and UncompressedSize64 are those of empty content.
			CompressedSize64: 2,
		},
		Body: []byte{0x03, 0x00},
	}
}

// WriteFile writes content to name on fs, creating parent directories.
func WriteFile(fs billy.Filesystem, name string, content []byte) error {
	if err := fs.MkdirAll(path.Dir(name), 0755); err != nil {
		return err
	}
	f, err := fs.OpenFile(name, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return err
	}
	if _, err := f.Write(content); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// ReadFile reads the full content of name from fs.
func ReadFile(fs billy.Filesystem, name string) ([]byte, error) {
	f, err := fs.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

// Entries reads every entry of a zip archive held in memory.
func Entries(b []byte) ([]ZipEntry, error) {
	zr, err := zip.NewReader(bytes.NewReader(b), int64(len(b)))
	if err != nil {
		return nil, err
	}
	var out []ZipEntry
	for _, f := range zr.File {
		rc, err := f.Open()
		if err != nil {
			return nil, err
		}
		body, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, err
		}
		fh := f.FileHeader
		out = append(out, ZipEntry{FileHeader: &fh, Body: body})
	}
	return out, nil
}

// Copyright 2025 Google LLC
// SPDX-License-Identifier: Apache-2.0

package archive

import (
	"archive/zip"
	"bytes"
	"io"
	"strings"

	"github.com/pkg/errors"
)

// IsManifest reports whether the entry name is the reserved manifest name, ignoring case.
func IsManifest(name string) bool {
	return strings.EqualFold(name, ManifestPath)
}

// FindManifest returns the manifest entry of the archive, if any.
func FindManifest(zr *zip.Reader) *zip.File {
	for _, f := range zr.File {
		if IsManifest(f.Name) {
			return f
		}
	}
	return nil
}

// ReadManifest parses the archive's manifest. An archive without a manifest
// yields an empty one.
func ReadManifest(zr *zip.Reader) (*Manifest, error) {
	f := FindManifest(zr)
	if f == nil {
		return NewManifest(), nil
	}
	rc, err := f.Open()
	if err != nil {
		return nil, errors.Wrap(err, "opening manifest entry")
	}
	defer rc.Close()
	return ParseManifest(rc)
}

// CopyEntry writes the entry into zw, preserving the metadata captured by its
// descriptor. Deflated files are recompressed unless raw is set; directories
// and all other entries are copied as raw bytes with their original CRC and
// sizes. buf is used for the transfer.
func CopyEntry(zw *Writer, f *zip.File, raw bool, buf []byte) error {
	d := DescribeEntry(&f.FileHeader)
	if raw || d.Method != zip.Deflate || d.IsDir() {
		r, err := f.OpenRaw()
		if err != nil {
			return errors.Wrapf(err, "opening %s", d.Name)
		}
		var w io.Writer
		if d.IsDir() && d.CompressedSize > 0 {
			w, err = zw.CreateRawDir(d.RawHeader())
		} else {
			w, err = zw.CreateRaw(d.RawHeader())
		}
		if err != nil {
			return errors.Wrapf(err, "creating %s", d.Name)
		}
		if _, err := io.CopyBuffer(w, r, buf); err != nil {
			return errors.Wrapf(err, "copying %s", d.Name)
		}
		return nil
	}
	rc, err := f.Open()
	if err != nil {
		return errors.Wrapf(err, "opening %s", d.Name)
	}
	defer rc.Close()
	w, err := zw.CreateHeader(d.Header())
	if err != nil {
		return errors.Wrapf(err, "creating %s", d.Name)
	}
	if _, err := io.CopyBuffer(w, rc, buf); err != nil {
		return errors.Wrapf(err, "copying %s", d.Name)
	}
	return nil
}

// ToZipCompatibleReader coerces an io.Reader into an io.ReaderAt required to construct a zip.Reader.
func ToZipCompatibleReader(r io.Reader) (io.ReaderAt, int64, error) {
	seeker, seekerOK := r.(io.Seeker)
	readerAt, readerOK := r.(io.ReaderAt)
	if seekerOK && readerOK {
		pos, err := seeker.Seek(0, io.SeekCurrent)
		if err != nil {
			return nil, 0, errors.Wrap(err, "locating reader position")
		}
		size, err := seeker.Seek(0, io.SeekEnd)
		if err != nil {
			return nil, 0, errors.Wrap(err, "retrieving size")
		}
		if _, err := seeker.Seek(pos, io.SeekStart); err != nil {
			return nil, 0, errors.Wrap(err, "restoring reader position")
		}
		return readerAt, size, nil
	}
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, 0, errors.New("unsupported reader")
	}
	return bytes.NewReader(b), int64(len(b)), nil
}

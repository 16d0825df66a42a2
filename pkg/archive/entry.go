// Copyright 2026 Google LLC
// SPDX-License-Identifier: Apache-2.0

package archive

import (
	"archive/zip"
	"bytes"
	"time"
)

// EntryDescriptor is an immutable snapshot of a zip entry's metadata,
// sufficient to recreate the entry in another container.
type EntryDescriptor struct {
	Name     string
	Comment  string
	Modified time.Time
	Accessed time.Time
	Created  time.Time
	Method   uint16
	CRC32    uint32
	// CompressedSize and Size are the 64-bit sizes of the entry.
	CompressedSize uint64
	Size           uint64

	extra          []byte
	flags          uint16
	creatorVersion uint16
	readerVersion  uint16
	externalAttrs  uint32
	modifiedDate   uint16
	modifiedTime   uint16
	nonUTF8        bool
}

// DescribeEntry snapshots the metadata of the given zip entry.
func DescribeEntry(fh *zip.FileHeader) EntryDescriptor {
	times := parseExtraTimes(fh.Extra)
	modified := times.Modified
	if modified.IsZero() {
		modified = fh.Modified
	}
	return EntryDescriptor{
		Name:           fh.Name,
		Comment:        fh.Comment,
		Modified:       modified,
		Accessed:       times.Accessed,
		Created:        times.Created,
		Method:         fh.Method,
		CRC32:          fh.CRC32,
		CompressedSize: fh.CompressedSize64,
		Size:           fh.UncompressedSize64,
		extra:          bytes.Clone(fh.Extra),
		flags:          fh.Flags,
		creatorVersion: fh.CreatorVersion,
		readerVersion:  fh.ReaderVersion,
		externalAttrs:  fh.ExternalAttrs,
		modifiedDate:   fh.ModifiedDate,
		modifiedTime:   fh.ModifiedTime,
		nonUTF8:        fh.NonUTF8,
	}
}

// Extra returns a copy of the raw extra field bytes.
func (d EntryDescriptor) Extra() []byte {
	return bytes.Clone(d.extra)
}

// IsStored reports whether the entry is stored without compression.
func (d EntryDescriptor) IsStored() bool {
	return d.Method == zip.Store
}

// IsDir reports whether the entry names a directory.
func (d EntryDescriptor) IsDir() bool {
	return len(d.Name) > 0 && d.Name[len(d.Name)-1] == '/'
}

// Header returns a header for zip.Writer.CreateHeader. The writer computes
// the CRC and sizes as the content is written.
//
// The MS-DOS timestamp fields are carried over directly and Modified is left
// zero, since CreateHeader appends its own extended timestamp block to Extra
// whenever Modified is set.
func (d EntryDescriptor) Header() *zip.FileHeader {
	return &zip.FileHeader{
		Name:           d.Name,
		Comment:        d.Comment,
		NonUTF8:        d.nonUTF8,
		CreatorVersion: d.creatorVersion,
		ReaderVersion:  d.readerVersion,
		Flags:          d.flags,
		Method:         d.Method,
		ModifiedTime:   d.modifiedTime,
		ModifiedDate:   d.modifiedDate,
		Extra:          d.Extra(),
		ExternalAttrs:  d.externalAttrs,
	}
}

// RawHeader returns a header for zip.Writer.CreateRaw, carrying the original
// CRC and sizes so the entry's bytes can be copied without recompression.
func (d EntryDescriptor) RawHeader() *zip.FileHeader {
	fh := d.Header()
	fh.CRC32 = d.CRC32
	fh.CompressedSize64 = d.CompressedSize
	fh.UncompressedSize64 = d.Size
	return fh
}

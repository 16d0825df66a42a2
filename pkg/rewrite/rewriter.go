// Copyright 2026 Google LLC
// SPDX-License-Identifier: Apache-2.0

package rewrite

import (
	"archive/zip"
	"crypto"
	"fmt"
	"hash/crc32"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/go-git/go-billy/v5"
	"github.com/google/jarpatch/pkg/archive"
	"github.com/pkg/errors"
)

// dataDescriptorFlag marks an entry whose CRC and sizes follow its data.
const dataDescriptorFlag = 0x8

// manifestEpoch timestamps a manifest written into an archive that had none.
var manifestEpoch = time.Date(1980, time.January, 1, 0, 0, 0, 0, time.UTC)

// Rewriter rebuilds source archives into OutputDir with a new manifest.
type Rewriter struct {
	// FS holds sources, supplements, outputs and the repository.
	FS billy.Filesystem
	// OutputDir receives rewritten archives under their source file names.
	OutputDir string
	// RepositoryRoot is the local Maven repository used to resolve coordinates.
	RepositoryRoot string
	// Digests are the checksums written next to a republished archive. Defaults to SHA-1.
	Digests []crypto.Hash
	// RawCopy copies deflated entries without recompressing them.
	RawCopy bool
	// Logger defaults to log.Default().
	Logger *log.Logger
	// Progress, when set, is called after each job of ProcessAll.
	Progress func(Outcome)
}

// Result describes a completed job.
type Result struct {
	Source Source
	Output string
	// Republished is set when the output replaced the repository copy.
	Republished bool
	// Digests maps checksum file extensions to the hex digests written.
	Digests map[string]string
	// DigestErrors are digest failures, which do not fail the job.
	DigestErrors []error
}

func (r *Rewriter) logger() *log.Logger {
	if r.Logger != nil {
		return r.Logger
	}
	return log.Default()
}

// Process rewrites the job's source archive into the output directory.
//
// Validation, location and supplement parsing complete before any output is
// created. A signed source yields a KindSigned error and no output. Failures
// while writing the output may leave a partial file behind.
func (r *Rewriter) Process(job Job) (*Result, error) {
	if err := job.Validate(); err != nil {
		return nil, err
	}
	if r.OutputDir == "" {
		return nil, newError(KindInvalidJob, "no output directory")
	}
	mode, _ := ParseMode(string(job.Mode))
	src, err := Locate(job, r.RepositoryRoot)
	if err != nil {
		return nil, err
	}
	supplement, err := r.readManifestFile(job.ManifestFile)
	if err != nil {
		return nil, err
	}
	res := &Result{
		Source: src,
		Output: filepath.Join(r.OutputDir, filepath.Base(src.Path)),
	}
	if filepath.Clean(res.Output) == filepath.Clean(src.Path) {
		return nil, newError(KindInvalidJob, fmt.Sprintf("output %s would overwrite its source", res.Output))
	}
	if err := r.rewrite(src.Path, res.Output, supplement, mode); err != nil {
		return nil, err
	}
	if job.Publish {
		if !src.FromRepository() {
			r.logger().Printf("%s is not from the local repository, not publishing", src.Path)
		} else if err := r.republish(res); err != nil {
			return nil, err
		}
	}
	return res, nil
}

func (r *Rewriter) readManifestFile(name string) (*archive.Manifest, error) {
	f, err := r.FS.Open(name)
	if err != nil {
		return nil, openError(err, "opening manifest %s", name)
	}
	defer f.Close()
	m, err := archive.ParseManifest(f)
	if err != nil {
		return nil, manifestError(err, "parsing manifest %s", name)
	}
	return m, nil
}

func (r *Rewriter) rewrite(srcPath, outPath string, supplement *archive.Manifest, mode Mode) error {
	f, err := r.FS.Open(srcPath)
	if err != nil {
		return openError(err, "opening %s", srcPath)
	}
	defer f.Close()
	ra, size, err := archive.ToZipCompatibleReader(f)
	if err != nil {
		return wrapErrorf(KindIO, err, "reading %s", srcPath)
	}
	zr, err := zip.NewReader(ra, size)
	if err != nil {
		return wrapErrorf(KindIO, err, "reading %s", srcPath)
	}
	r.logger().Printf("Processing : %s", srcPath)

	original, err := archive.ReadManifest(zr)
	if err != nil {
		return manifestError(err, "reading manifest of %s", srcPath)
	}
	if archive.IsSigned(original) || len(archive.SignatureFiles(zr)) > 0 {
		return newError(KindSigned, fmt.Sprintf("%s appears to be signed, skipping", filepath.Base(srcPath)))
	}
	manifest := supplement
	if mode != OverwriteMode {
		manifest = archive.Merge(original, supplement)
	}
	content, err := manifest.Bytes()
	if err != nil {
		return wrapError(KindFormat, err, "serializing manifest")
	}

	if err := r.FS.MkdirAll(r.OutputDir, 0755); err != nil {
		return wrapErrorf(KindIO, err, "creating %s", r.OutputDir)
	}
	out, err := r.FS.Create(outPath)
	if err != nil {
		return wrapErrorf(KindIO, err, "creating %s", outPath)
	}
	if err := r.writeArchive(out, zr, content); err != nil {
		out.Close()
		return wrapErrorf(KindIO, err, "writing %s", outPath)
	}
	if err := out.Close(); err != nil {
		return wrapErrorf(KindIO, err, "closing %s", outPath)
	}
	return nil
}

// writeArchive copies every non-manifest entry of zr into w in order, then
// appends the manifest.
func (r *Rewriter) writeArchive(w io.Writer, zr *zip.Reader, manifest []byte) error {
	zw := archive.NewWriter(w)
	if zr.Comment != "" {
		if err := zw.SetComment(zr.Comment); err != nil {
			return errors.Wrap(err, "copying comment")
		}
	}
	buf := archive.NewBuffer()
	var existing *zip.File
	for _, f := range zr.File {
		if archive.IsManifest(f.Name) {
			if existing == nil {
				existing = f
			}
			continue
		}
		if err := archive.CopyEntry(zw, f, r.RawCopy, buf); err != nil {
			return err
		}
	}
	if err := zw.Flush(); err != nil {
		return errors.Wrap(err, "flushing entries")
	}
	fh := manifestHeader(existing)
	var fw io.Writer
	var err error
	if fh.Method == zip.Store {
		// The content is known up front, so a stored manifest is written
		// with its CRC and sizes in the local header and no data descriptor.
		fh.Flags &^= dataDescriptorFlag
		fh.CRC32 = crc32.ChecksumIEEE(manifest)
		fh.CompressedSize64 = uint64(len(manifest))
		fh.UncompressedSize64 = uint64(len(manifest))
		fw, err = zw.CreateRaw(fh)
	} else {
		fw, err = zw.CreateHeader(fh)
	}
	if err != nil {
		return errors.Wrap(err, "creating manifest entry")
	}
	if _, err := fw.Write(manifest); err != nil {
		return errors.Wrap(err, "writing manifest entry")
	}
	return errors.Wrap(zw.Close(), "finalizing archive")
}

// manifestHeader reuses the metadata of the archive's existing manifest
// entry, if any, so repeated rewrites produce identical entries.
func manifestHeader(existing *zip.File) *zip.FileHeader {
	if existing == nil {
		return &zip.FileHeader{
			Name:     archive.ManifestPath,
			Method:   zip.Deflate,
			Modified: manifestEpoch,
		}
	}
	fh := archive.DescribeEntry(&existing.FileHeader).Header()
	fh.Name = archive.ManifestPath
	if fh.Method != zip.Store {
		fh.Method = zip.Deflate
	}
	return fh
}

func openError(err error, format string, args ...any) error {
	if os.IsNotExist(err) {
		return wrapErrorf(KindNotFound, err, format, args...)
	}
	return wrapErrorf(KindIO, err, format, args...)
}

func manifestError(err error, format string, args ...any) error {
	if errors.Is(err, archive.ErrMalformedManifest) {
		return wrapErrorf(KindFormat, err, format, args...)
	}
	return wrapErrorf(KindIO, err, format, args...)
}

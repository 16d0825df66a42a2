// Copyright 2026 Google LLC
// SPDX-License-Identifier: Apache-2.0

// Package billyx provides utilities for working with billy filesystems.
package billyx

import (
	"io"
	"os"

	"github.com/go-git/go-billy/v5"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// CopyFile copies src to dst within fs, truncating dst. buf is used for the
// transfer and may be nil.
func CopyFile(fs billy.Filesystem, dst, src string, buf []byte) error {
	in, err := fs.Open(src)
	if err != nil {
		return errors.Wrapf(err, "opening %s", src)
	}
	defer in.Close()
	out, err := fs.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return errors.Wrapf(err, "creating %s", dst)
	}
	// Hide io.ReaderFrom and io.WriterTo so the copy goes through buf.
	if _, err := io.CopyBuffer(struct{ io.Writer }{out}, struct{ io.Reader }{in}, buf); err != nil {
		out.Close()
		return errors.Wrapf(err, "copying to %s", dst)
	}
	return errors.Wrapf(out.Close(), "closing %s", dst)
}

// ReplaceFile overwrites dst with the content of src. The content is first
// copied to a uniquely named sibling of dst which is then renamed over dst,
// so dst is never observed partially written. The sibling is removed on
// failure.
func ReplaceFile(fs billy.Filesystem, dst, src string, buf []byte) error {
	tmp := dst + "." + uuid.NewString() + ".tmp"
	if err := CopyFile(fs, tmp, src, buf); err != nil {
		fs.Remove(tmp)
		return err
	}
	if err := fs.Rename(tmp, dst); err != nil {
		fs.Remove(tmp)
		return errors.Wrapf(err, "renaming %s", tmp)
	}
	return nil
}

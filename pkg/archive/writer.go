// Copyright 2026 Google LLC
// SPDX-License-Identifier: Apache-2.0

package archive

import (
	"archive/zip"
	"bytes"
	"io"

	"github.com/pkg/errors"
)

var localHeaderSignature = []byte("PK\x03\x04")

// localHeaderLen is the size of the fixed part of a local file header.
const localHeaderLen = 30

// Writer is a zip.Writer that can also reproduce directory entries which
// carry compressed data, such as the two-byte empty deflate stream that
// java.util.zip writes for directories.
type Writer struct {
	*zip.Writer
	out *namePatcher
}

// NewWriter returns a Writer writing an archive to w.
func NewWriter(w io.Writer) *Writer {
	out := &namePatcher{w: w}
	return &Writer{Writer: zip.NewWriter(out), out: out}
}

// CreateRawDir adds a directory entry whose body is written verbatim, with
// the CRC and sizes given in fh.
//
// zip.Writer refuses data for names ending in a slash, so the entry is created
// under a placeholder name that differs only in the final byte. The final byte
// is restored in the local header as it is written out and in fh, which the
// central directory is built from.
func (w *Writer) CreateRawDir(fh *zip.FileHeader) (io.Writer, error) {
	name := fh.Name
	if len(name) == 0 || name[len(name)-1] != '/' {
		return nil, errors.Errorf("not a directory entry: %q", name)
	}
	if err := w.Flush(); err != nil {
		return nil, err
	}
	placeholder := name[:len(name)-1] + "\x00"
	w.out.arm([]byte(placeholder), []byte(name))
	fh.Name = placeholder
	fw, err := w.CreateRaw(fh)
	fh.Name = name
	if err != nil {
		w.out.disarm()
		return nil, err
	}
	if err := w.Flush(); err != nil {
		return nil, err
	}
	if err := w.out.release(); err != nil {
		return nil, errors.Wrapf(err, "creating %s", name)
	}
	return fw, nil
}

// namePatcher forwards writes, holding them back while armed so that the
// name in the next local header can be rewritten.
type namePatcher struct {
	w        io.Writer
	from, to []byte
	held     []byte
}

func (p *namePatcher) Write(b []byte) (int, error) {
	if p.from == nil {
		return p.w.Write(b)
	}
	p.held = append(p.held, b...)
	return len(b), nil
}

func (p *namePatcher) arm(from, to []byte) {
	p.from, p.to, p.held = from, to, nil
}

func (p *namePatcher) disarm() {
	p.from, p.to, p.held = nil, nil, nil
}

// release rewrites the held local header name and writes out everything held.
func (p *namePatcher) release() error {
	held := p.held
	from, to := p.from, p.to
	p.disarm()
	for off := 0; ; {
		i := bytes.Index(held[off:], from)
		if i < 0 {
			return errors.New("local header not found")
		}
		i += off
		if i >= localHeaderLen && bytes.Equal(held[i-localHeaderLen:i-localHeaderLen+len(localHeaderSignature)], localHeaderSignature) {
			copy(held[i:], to)
			break
		}
		off = i + 1
	}
	_, err := p.w.Write(held)
	return err
}

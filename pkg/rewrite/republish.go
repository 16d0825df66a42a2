// Copyright 2026 Google LLC
// SPDX-License-Identifier: Apache-2.0

package rewrite

import (
	"crypto"
	"io"

	"github.com/go-git/go-billy/v5/util"
	"github.com/google/jarpatch/internal/billyx"
	"github.com/google/jarpatch/internal/hashext"
	"github.com/google/jarpatch/pkg/archive"
	"github.com/pkg/errors"
)

// republish replaces the repository copy of res.Source with res.Output and
// writes a checksum file per configured digest. Only the replacement can fail
// the job.
func (r *Rewriter) republish(res *Result) error {
	if err := billyx.ReplaceFile(r.FS, res.Source.Path, res.Output, archive.NewBuffer()); err != nil {
		return wrapErrorf(KindIO, err, "republishing %s", res.Source.Coordinate)
	}
	res.Republished = true
	r.logger().Printf("Republished %s to %s", res.Source.Coordinate, res.Source.Path)
	res.Digests, res.DigestErrors = r.writeDigests(res.Source.Path)
	for _, err := range res.DigestErrors {
		r.logger().Printf("Error: %v", err)
	}
	return nil
}

func (r *Rewriter) digests() []crypto.Hash {
	if len(r.Digests) == 0 {
		return []crypto.Hash{crypto.SHA1}
	}
	return r.Digests
}

// writeDigests hashes path once for every available algorithm and writes
// each lowercase hex digest to path plus the algorithm's extension.
func (r *Rewriter) writeDigests(path string) (map[string]string, []error) {
	mh, unavailable := hashext.NewMultiHash(r.digests()...)
	var errs []error
	for _, algo := range unavailable {
		errs = append(errs, errors.Errorf("digest algorithm %s unavailable", hashext.Extension(algo)))
	}
	if len(mh) == 0 {
		return nil, errs
	}
	f, err := r.FS.Open(path)
	if err != nil {
		return nil, append(errs, errors.Wrapf(err, "opening %s for digest", path))
	}
	defer f.Close()
	// Hide any io.WriterTo so the copy goes through the buffer.
	if _, err := io.CopyBuffer(mh, struct{ io.Reader }{f}, archive.NewBuffer()); err != nil {
		return nil, append(errs, errors.Wrapf(err, "digesting %s", path))
	}
	digests := make(map[string]string, len(mh))
	for _, th := range mh {
		ext := hashext.Extension(th.Algorithm)
		sum := th.Hex()
		if err := util.WriteFile(r.FS, path+"."+ext, []byte(sum), 0644); err != nil {
			errs = append(errs, errors.Wrapf(err, "writing %s digest", ext))
			continue
		}
		digests[ext] = sum
	}
	return digests, errs
}

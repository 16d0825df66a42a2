// Copyright 2026 Google LLC
// SPDX-License-Identifier: Apache-2.0

// Package report renders batch outcomes as canonical JSON.
package report

import (
	"encoding/json"
	"io"

	"github.com/google/jarpatch/pkg/rewrite"
	"github.com/gowebpki/jcs"
	"github.com/pkg/errors"
)

// Job is the report entry for one job.
type Job struct {
	Source       string            `json:"source"`
	Coordinate   string            `json:"coordinate,omitempty"`
	Output       string            `json:"output,omitempty"`
	Status       string            `json:"status"`
	Kind         string            `json:"kind,omitempty"`
	Message      string            `json:"message,omitempty"`
	Republished  bool              `json:"republished,omitempty"`
	Digests      map[string]string `json:"digests,omitempty"`
	DigestErrors []string          `json:"digestErrors,omitempty"`
}

// Summary counts jobs by status.
type Summary struct {
	Succeeded int `json:"succeeded"`
	Skipped   int `json:"skipped"`
	Failed    int `json:"failed"`
}

// Report describes a batch run.
type Report struct {
	Jobs    []Job   `json:"jobs"`
	Summary Summary `json:"summary"`
}

// New builds a report from batch outcomes.
func New(outcomes []rewrite.Outcome) *Report {
	r := &Report{Jobs: make([]Job, 0, len(outcomes))}
	for _, o := range outcomes {
		j := Job{Source: o.Job.String(), Status: o.Status.String()}
		if res := o.Result; res != nil {
			j.Source = res.Source.Path
			if res.Source.Coordinate != nil {
				j.Coordinate = res.Source.Coordinate.String()
			}
			j.Output = res.Output
			j.Republished = res.Republished
			j.Digests = res.Digests
			for _, err := range res.DigestErrors {
				j.DigestErrors = append(j.DigestErrors, err.Error())
			}
		}
		if o.Err != nil {
			j.Kind = o.Kind().String()
			j.Message = o.Err.Error()
		}
		switch o.Status {
		case rewrite.StatusSucceeded:
			r.Summary.Succeeded++
		case rewrite.StatusSkipped:
			r.Summary.Skipped++
		case rewrite.StatusFailed:
			r.Summary.Failed++
		}
		r.Jobs = append(r.Jobs, j)
	}
	return r
}

// Bytes returns the RFC 8785 canonical encoding of the report.
func (r *Report) Bytes() ([]byte, error) {
	raw, err := json.Marshal(r)
	if err != nil {
		return nil, errors.Wrap(err, "encoding report")
	}
	canonical, err := jcs.Transform(raw)
	if err != nil {
		return nil, errors.Wrap(err, "canonicalizing report")
	}
	return canonical, nil
}

// Write writes the canonical report for outcomes to w, newline terminated.
func Write(w io.Writer, outcomes []rewrite.Outcome) error {
	b, err := New(outcomes).Bytes()
	if err != nil {
		return err
	}
	_, err = w.Write(append(b, '\n'))
	return errors.Wrap(err, "writing report")
}

// Copyright 2026 Google LLC
// SPDX-License-Identifier: Apache-2.0

package rewrite

import (
	"github.com/pkg/errors"
)

// Status is the disposition of a job within a batch.
type Status int

const (
	StatusSucceeded Status = iota
	StatusSkipped
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusSucceeded:
		return "succeeded"
	case StatusSkipped:
		return "skipped"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Outcome records what happened to one job of a batch.
type Outcome struct {
	Job    Job
	Status Status
	Result *Result
	Err    error
}

// Kind returns the failure kind, or KindUnknown for a successful job.
func (o Outcome) Kind() Kind {
	if o.Err == nil {
		return KindUnknown
	}
	return KindOf(o.Err)
}

// NewOutcome classifies the result of processing job.
func NewOutcome(job Job, res *Result, err error) Outcome {
	o := Outcome{Job: job, Result: res, Err: err}
	switch {
	case err == nil:
		o.Status = StatusSucceeded
	case KindOf(err).Recoverable():
		o.Status = StatusSkipped
	default:
		o.Status = StatusFailed
	}
	return o
}

// ProcessAll runs jobs in order. Jobs skipped for a recoverable kind do not
// stop the batch. The first other failure ends it and is returned along with
// the outcomes gathered so far, including the failed one.
func (r *Rewriter) ProcessAll(jobs []Job) ([]Outcome, error) {
	if len(jobs) == 0 {
		r.logger().Printf("No artifacts defined, skipping...")
		return nil, nil
	}
	outcomes := make([]Outcome, 0, len(jobs))
	for i, job := range jobs {
		res, err := r.Process(job)
		o := NewOutcome(job, res, err)
		if o.Status == StatusSkipped {
			r.logger().Printf("Warning: %v", err)
		}
		outcomes = append(outcomes, o)
		if r.Progress != nil {
			r.Progress(o)
		}
		if o.Status == StatusFailed {
			return outcomes, errors.Wrapf(err, "job %d (%s)", i+1, job)
		}
	}
	return outcomes, nil
}

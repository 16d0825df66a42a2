// Copyright 2026 Google LLC
// SPDX-License-Identifier: Apache-2.0

package report

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/google/jarpatch/pkg/rewrite"
)

var (
	green  = color.New(color.FgGreen).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
	red    = color.New(color.FgRed).SprintFunc()
)

// Status writes a one-line summary of the outcome to w.
func Status(w io.Writer, o rewrite.Outcome) error {
	var err error
	switch o.Status {
	case rewrite.StatusSucceeded:
		res := o.Result
		suffix := ""
		if res.Republished {
			suffix = " (republished)"
		}
		_, err = fmt.Fprintf(w, "%s %s -> %s%s\n", green("OK  "), res.Source.Path, res.Output, suffix)
	case rewrite.StatusSkipped:
		_, err = fmt.Fprintf(w, "%s %s: %v\n", yellow("SKIP"), o.Job, o.Err)
	default:
		_, err = fmt.Fprintf(w, "%s %s: [%s] %v\n", red("FAIL"), o.Job, o.Kind(), o.Err)
	}
	return err
}

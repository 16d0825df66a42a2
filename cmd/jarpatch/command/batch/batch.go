// Copyright 2026 Google LLC
// SPDX-License-Identifier: Apache-2.0

// Package batch implements the package command, which runs every job of a
// job file.
package batch

import (
	"context"
	"flag"
	"os"
	"path/filepath"

	"github.com/cheggaaa/pb"
	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/google/jarpatch/internal/cli"
	"github.com/google/jarpatch/internal/report"
	"github.com/google/jarpatch/pkg/config"
	"github.com/google/jarpatch/pkg/rewrite"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

// Config holds all configuration for the package command.
type Config struct {
	JobFile         string
	OutputDir       string
	LocalRepository string
	Report          string
	Progress        bool
}

// Validate ensures the configuration is valid.
func (c Config) Validate() error {
	if c.JobFile == "" {
		return errors.New("config is required")
	}
	if _, err := config.FormatOf(c.JobFile); err != nil {
		return err
	}
	return nil
}

// Deps holds dependencies for the command.
type Deps struct {
	IO cli.IO
	FS billy.Filesystem
}

func (d *Deps) SetIO(cio cli.IO) { d.IO = cio }

// InitDeps initializes Deps.
func InitDeps(context.Context) (*Deps, error) {
	return &Deps{FS: osfs.New("/")}, nil
}

// Handler runs the job file.
func Handler(ctx context.Context, cfg Config, deps *Deps) error {
	path, err := filepath.Abs(cfg.JobFile)
	if err != nil {
		return errors.Wrap(err, "resolving config path")
	}
	f, err := config.Load(deps.FS, path)
	if err != nil {
		return errors.Wrap(err, "loading config")
	}
	if cfg.OutputDir != "" {
		if f.OutputDirectory, err = filepath.Abs(cfg.OutputDir); err != nil {
			return errors.Wrap(err, "resolving output directory")
		}
	}
	if cfg.LocalRepository != "" {
		home, _ := os.UserHomeDir()
		if f.LocalRepository, err = filepath.Abs(config.ExpandHome(cfg.LocalRepository, home)); err != nil {
			return errors.Wrap(err, "resolving local repository")
		}
	}
	algos, err := f.DigestAlgorithms()
	if err != nil {
		return err
	}
	jobs := f.Jobs()
	logger := deps.IO.Logger()
	rw := &rewrite.Rewriter{
		FS:             deps.FS,
		OutputDir:      f.OutputDirectory,
		RepositoryRoot: f.LocalRepository,
		Digests:        algos,
		RawCopy:        f.RawCopy,
		Logger:         logger,
	}
	var bar *pb.ProgressBar
	if cfg.Progress && len(jobs) > 0 {
		bar = pb.New(len(jobs))
		bar.Output = deps.IO.Err
		bar.Start()
	}
	rw.Progress = func(o rewrite.Outcome) {
		if err := report.Status(deps.IO.Out, o); err != nil {
			logger.Printf("Error: writing status of %s: %v", o.Job, err)
		}
		if bar != nil {
			bar.Increment()
		}
	}
	outcomes, runErr := rw.ProcessAll(jobs)
	if bar != nil {
		bar.Finish()
	}
	if cfg.Report != "" {
		if err := writeReport(deps.FS, cfg.Report, outcomes); err != nil {
			return err
		}
	}
	return runErr
}

func writeReport(fs billy.Filesystem, name string, outcomes []rewrite.Outcome) error {
	path, err := filepath.Abs(name)
	if err != nil {
		return errors.Wrap(err, "resolving report path")
	}
	if err := fs.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.Wrap(err, "creating report directory")
	}
	w, err := fs.Create(path)
	if err != nil {
		return errors.Wrap(err, "creating report")
	}
	if err := report.Write(w, outcomes); err != nil {
		w.Close()
		return err
	}
	return errors.Wrap(w.Close(), "closing report")
}

// Command creates a new package command instance.
func Command() *cobra.Command {
	cfg := Config{}
	cmd := &cobra.Command{
		Use:   "package --config <file> [--output-dir <dir>] [--local-repository <dir>] [--report <file>] [--progress]",
		Short: "Rewrite every archive listed in a job file",
		Long: `Rewrite every archive listed in a YAML, JSON or TOML job file, in order.
Signed archives are skipped; any other failure stops the run.`,
		Args: cobra.NoArgs,
		RunE: cli.RunE(
			&cfg,
			cli.SkipArgs[Config],
			InitDeps,
			Handler,
		),
	}
	cmd.Flags().AddGoFlagSet(flagSet(cmd.Name(), &cfg))
	return cmd
}

// flagSet returns the command-line flags for the Config struct.
func flagSet(name string, cfg *Config) *flag.FlagSet {
	set := flag.NewFlagSet(name, flag.ContinueOnError)
	set.StringVar(&cfg.JobFile, "config", "", "the job file listing the archives to rewrite")
	set.StringVar(&cfg.OutputDir, "output-dir", "", "overrides the job file's output directory")
	set.StringVar(&cfg.LocalRepository, "local-repository", "", "overrides the job file's local Maven repository")
	set.StringVar(&cfg.Report, "report", "", "write a JSON report of the run to this file")
	set.BoolVar(&cfg.Progress, "progress", false, "show a progress bar")
	return set
}

// Copyright 2026 Google LLC
// SPDX-License-Identifier: Apache-2.0

// Package rewritejar implements the rewrite command, which processes a single
// archive.
package rewritejar

import (
	"context"
	"crypto"
	"flag"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/google/jarpatch/internal/cli"
	"github.com/google/jarpatch/internal/hashext"
	"github.com/google/jarpatch/internal/report"
	"github.com/google/jarpatch/pkg/config"
	"github.com/google/jarpatch/pkg/rewrite"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

// Config holds all configuration for the rewrite command.
type Config struct {
	Jar             string
	Artifact        string
	Manifest        string
	Mode            string
	Publish         bool
	OutputDir       string
	LocalRepository string
	Digests         string
	Raw             bool
}

// Validate ensures the configuration is valid.
func (c Config) Validate() error {
	if c.Jar == "" && c.Artifact == "" {
		return errors.New("one of jar or artifact is required")
	}
	if c.Jar != "" && c.Artifact != "" {
		return errors.New("only one of jar or artifact may be provided")
	}
	if c.Manifest == "" {
		return errors.New("manifest is required")
	}
	if _, err := rewrite.ParseMode(c.Mode); err != nil {
		return err
	}
	if c.OutputDir == "" {
		return errors.New("output-dir is required")
	}
	if c.Publish && c.Artifact == "" {
		return errors.New("publish requires artifact")
	}
	if _, err := c.digests(); err != nil {
		return err
	}
	return nil
}

func (c Config) digests() ([]crypto.Hash, error) {
	var algos []crypto.Hash
	for _, name := range strings.Split(c.Digests, ",") {
		if strings.TrimSpace(name) == "" {
			continue
		}
		algo, err := hashext.ParseAlgorithm(name)
		if err != nil {
			return nil, err
		}
		algos = append(algos, algo)
	}
	return algos, nil
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

// Handler rewrites one archive. A signed archive is reported and skipped
// without failing the command.
func Handler(ctx context.Context, cfg Config, deps *Deps) error {
	abs := func(p string) (string, error) {
		if p == "" {
			return p, nil
		}
		home, _ := os.UserHomeDir()
		return filepath.Abs(config.ExpandHome(p, home))
	}
	job := rewrite.Job{Artifact: cfg.Artifact, Mode: rewrite.Mode(cfg.Mode), Publish: cfg.Publish}
	var err error
	if job.JarFile, err = abs(cfg.Jar); err != nil {
		return errors.Wrap(err, "resolving jar")
	}
	if job.ManifestFile, err = abs(cfg.Manifest); err != nil {
		return errors.Wrap(err, "resolving manifest")
	}
	outDir, err := abs(cfg.OutputDir)
	if err != nil {
		return errors.Wrap(err, "resolving output directory")
	}
	repo, err := abs(cfg.LocalRepository)
	if err != nil {
		return errors.Wrap(err, "resolving local repository")
	}
	algos, err := cfg.digests()
	if err != nil {
		return err
	}
	rw := &rewrite.Rewriter{
		FS:             deps.FS,
		OutputDir:      outDir,
		RepositoryRoot: repo,
		Digests:        algos,
		RawCopy:        cfg.Raw,
		Logger:         deps.IO.Logger(),
	}
	res, err := rw.Process(job)
	o := rewrite.NewOutcome(job, res, err)
	if err := report.Status(deps.IO.Out, o); err != nil {
		return err
	}
	if o.Status == rewrite.StatusFailed {
		return o.Err
	}
	return nil
}

// Command creates a new rewrite command instance.
func Command() *cobra.Command {
	cfg := Config{}
	cmd := &cobra.Command{
		Use:   "rewrite (--jar <path> | --artifact <group:artifact:version>) --manifest <file> [--mode merge|overwrite] [--publish] [--output-dir <dir>] [--local-repository <dir>] [--digest <algo>[,<algo>]] [--raw]",
		Short: "Rewrite the manifest of a single archive",
		Args:  cobra.NoArgs,
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
	set.StringVar(&cfg.Jar, "jar", "", "the archive to rewrite")
	set.StringVar(&cfg.Artifact, "artifact", "", "the group:artifact:version of an archive in the local repository")
	set.StringVar(&cfg.Manifest, "manifest", "", "the supplement manifest")
	set.StringVar(&cfg.Mode, "mode", string(rewrite.MergeMode), "how to apply the supplement: merge or overwrite")
	set.BoolVar(&cfg.Publish, "publish", false, "replace the repository copy of the artifact with the output")
	set.StringVar(&cfg.OutputDir, "output-dir", config.DefaultOutputDirectory, "the directory receiving the rewritten archive")
	set.StringVar(&cfg.LocalRepository, "local-repository", config.DefaultLocalRepository, "the local Maven repository")
	set.StringVar(&cfg.Digests, "digest", config.DefaultDigest, "comma-separated checksum algorithms written when publishing")
	set.BoolVar(&cfg.Raw, "raw", false, "copy compressed entries without recompressing them")
	return set
}

// Copyright 2026 Google LLC
// SPDX-License-Identifier: Apache-2.0

// Package inspect implements the inspect command, which describes an archive's
// manifest and signing state.
package inspect

import (
	"archive/zip"
	"context"
	"flag"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/google/jarpatch/internal/cli"
	"github.com/google/jarpatch/pkg/archive"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

// Config holds all configuration for the inspect command.
type Config struct {
	Jar     string
	Entries bool
}

// Validate ensures the configuration is valid.
func (c Config) Validate() error {
	if c.Jar == "" {
		return errors.New("jar is required")
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

func parseArgs(cfg *Config, args []string) error {
	if len(args) != 1 {
		return errors.New("expected exactly one archive")
	}
	cfg.Jar = args[0]
	return nil
}

// Handler prints the archive's manifest, entry count and signing state.
func Handler(ctx context.Context, cfg Config, deps *Deps) error {
	path, err := filepath.Abs(cfg.Jar)
	if err != nil {
		return errors.Wrap(err, "resolving jar")
	}
	f, err := deps.FS.Open(path)
	if err != nil {
		return errors.Wrap(err, "opening jar")
	}
	defer f.Close()
	ra, size, err := archive.ToZipCompatibleReader(f)
	if err != nil {
		return errors.Wrap(err, "reading jar")
	}
	zr, err := zip.NewReader(ra, size)
	if err != nil {
		return errors.Wrap(err, "reading jar")
	}
	m, err := archive.ReadManifest(zr)
	if err != nil {
		return errors.Wrap(err, "reading manifest")
	}
	sigs := archive.SignatureFiles(zr)
	out := deps.IO.Out
	fmt.Fprintf(out, "Archive: %s\n", path)
	fmt.Fprintf(out, "Entries: %d\n", len(zr.File))
	switch {
	case archive.IsSigned(m) && len(sigs) > 0:
		fmt.Fprintf(out, "Signed: yes (%d entry sections; %s)\n", len(m.EntrySections), strings.Join(sigs, ", "))
	case archive.IsSigned(m):
		fmt.Fprintf(out, "Signed: yes (%d entry sections)\n", len(m.EntrySections))
	case len(sigs) > 0:
		fmt.Fprintf(out, "Signed: yes (%s)\n", strings.Join(sigs, ", "))
	default:
		fmt.Fprintln(out, "Signed: no")
	}
	if cfg.Entries {
		fmt.Fprintln(out, "Entry list:")
		for _, zf := range zr.File {
			d := archive.DescribeEntry(&zf.FileHeader)
			method := "deflated"
			if d.IsStored() {
				method = "stored"
			}
			fmt.Fprintf(out, "  %-8s %10d %10d %s %s\n", method, d.Size, d.CompressedSize, d.Modified.UTC().Format(time.RFC3339), d.Name)
		}
	}
	if archive.FindManifest(zr) == nil {
		fmt.Fprintln(out, "Manifest: none")
		return nil
	}
	b, err := m.Bytes()
	if err != nil {
		return errors.Wrap(err, "serializing manifest")
	}
	fmt.Fprintln(out, "Manifest:")
	_, err = out.Write(b)
	return err
}

// Command creates a new inspect command instance.
func Command() *cobra.Command {
	cfg := Config{}
	cmd := &cobra.Command{
		Use:   "inspect <jar> [--entries]",
		Short: "Show an archive's manifest and whether it is signed",
		Args:  cobra.ExactArgs(1),
		RunE: cli.RunE(
			&cfg,
			parseArgs,
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
	set.BoolVar(&cfg.Entries, "entries", false, "also list every entry")
	return set
}

// Copyright 2025 Google LLC
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"context"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

// Input is a validated command configuration.
type Input interface {
	Validate() error
}

// Deps is a dependency container that receives the command's streams.
type Deps interface {
	SetIO(IO)
}

// InitDeps initializes dependencies from context.
type InitDeps[D Deps] func(context.Context) (D, error)

// Handler runs a command once its configuration is valid and its
// dependencies are ready.
type Handler[I Input, D Deps] func(context.Context, I, D) error

// ParseArgs populates an Input from positional arguments.
type ParseArgs[I Input] func(in *I, args []string) error

// SkipArgs is a ParseArgs that sets no arguments.
func SkipArgs[I Input](cfg *I, args []string) error {
	return nil
}

// RunE constructs a cobra.Command.RunE that parses positional arguments,
// validates the configuration, initializes dependencies, attaches the
// command's streams and finally invokes the handler.
func RunE[I Input, D Deps](
	cfg *I,
	parseArgs ParseArgs[I],
	initDeps InitDeps[D],
	handler Handler[I, D],
) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		if err := parseArgs(cfg, args); err != nil {
			return err
		}
		if err := (*cfg).Validate(); err != nil {
			return err
		}
		deps, err := initDeps(cmd.Context())
		if err != nil {
			return errors.Wrap(err, "initializing dependencies")
		}
		deps.SetIO(IO{
			In:  cmd.InOrStdin(),
			Out: cmd.OutOrStdout(),
			Err: cmd.ErrOrStderr(),
		})
		return handler(cmd.Context(), *cfg, deps)
	}
}

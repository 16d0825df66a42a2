// Copyright 2026 Google LLC
// SPDX-License-Identifier: Apache-2.0

// jarpatch rewrites the manifests of JAR archives.
package main

import (
	"log"

	"github.com/google/jarpatch/cmd/jarpatch/command/batch"
	"github.com/google/jarpatch/cmd/jarpatch/command/inspect"
	"github.com/google/jarpatch/cmd/jarpatch/command/rewritejar"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "jarpatch",
	Short: "Rewrite the manifest of JAR archives",
	Long: `Rewrite the manifest of JAR archives, merging a supplement manifest into the
existing one or replacing it outright. Every other entry is copied unchanged.
Signed archives are skipped.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.AddCommand(batch.Command())
	rootCmd.AddCommand(rewritejar.Command())
	rootCmd.AddCommand(inspect.Command())
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}

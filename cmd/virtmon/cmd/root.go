// SPDX-FileCopyrightText: 2026 The virtmon authors
//
// SPDX-License-Identifier: MIT

// Package cmd implements the virtmon command line interface.
package cmd

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var debug bool

var rootCmd = &cobra.Command{
	Use:   "virtmon",
	Short: "Control front end for a single Linux guest VM",
	Long: `virtmon boots a single Linux guest from a kernel image, a device
tree blob and an initial RAM disk, forwards physical interrupt
notifications into the guest and services guest faults.`,
	PersistentPreRun: func(*cobra.Command, []string) {
		setupLogging(os.Stderr, debug)
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false,
		"enable debug logging")
}

func setupLogging(writer *os.File, debug bool) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(
		writer,
		&slog.HandlerOptions{
			Level: level,
		},
	)))
}

// Execute runs the root command and exits on error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

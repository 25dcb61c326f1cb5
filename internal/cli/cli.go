// Package cli implements the nanoprint command-line interface.
//
// This package provides commands for inspecting .nano print job archives,
// printing and rendering their node trees, and working with preset files.
// The CLI is built using cobra and supports verbose logging via the
// charmbracelet/log library.
//
// # Commands
//
// The main commands are:
//   - inspect: Summarize an archive's manifest and payloads
//   - tree: Print an archive's node tree as an outline
//   - graph: Render an archive's node tree as an SVG diagram
//   - preset: Validate, show, and scaffold preset files
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context to allow structured progress tracking.
package cli

import (
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/fbeier/nanoprint/pkg/archive"
	"github.com/fbeier/nanoprint/pkg/buildinfo"
	"github.com/fbeier/nanoprint/pkg/job"
)

// appName is the application name used for display.
const appName = "nanoprint"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level and rewires the library warning
// output through it.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
	job.SetLogger(c.Logger)
	archive.SetLogger(c.Logger)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Nanoprint inspects and renders .nano print job archives",
		Long:         `Nanoprint is a CLI tool for working with two-photon lithography print jobs: it inspects .nano archives, prints and renders their node trees, and validates preset files.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())

	root.AddCommand(c.inspectCommand())
	root.AddCommand(c.treeCommand())
	root.AddCommand(c.graphCommand())
	root.AddCommand(c.presetCommand())

	return root
}

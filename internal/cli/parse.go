package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/flamedump/flamedump/pkg/spindump"
)

// parseOpts holds the command-line flags for the parse command.
type parseOpts struct {
	output string // output file path (stdout if empty)
}

// parseCommand creates the parse command for converting a spindump report
// to JSON. The output carries the header sections, the process
// attributes, every thread's frame tree, and per-thread stats.
func (c *CLI) parseCommand() *cobra.Command {
	var opts parseOpts

	cmd := &cobra.Command{
		Use:   "parse [report]",
		Short: "Parse a spindump report and emit it as JSON",
		Long: `Parse a spindump report and emit it as JSON.

The report must be in spindump's heavy format (spindump -i in.trace -o out.txt
produces one, as does Activity Monitor's "Sample Process"). The JSON output
preserves the header sections, the process attributes, and the per-thread
call trees with their sample counts, and appends a stats summary per thread.

Examples:
  flamedump parse heavy.txt                 # JSON to stdout
  flamedump parse heavy.txt -o report.json  # JSON to a file`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runParse(cmd.Context(), args[0], &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (stdout if empty)")

	return cmd
}

// runParse parses the report and writes it as JSON to opts.output (or stdout).
func runParse(ctx context.Context, input string, opts *parseOpts) error {
	logger := loggerFromContext(ctx)
	logger.Infof("Parsing %s", input)

	prog := newProgress(logger)
	rep, err := loadReport(input)
	if err != nil {
		return err
	}

	stats := rep.Stats()
	var samples, frames int
	for _, s := range stats {
		samples += s.Samples
		frames += s.Frames
	}
	prog.done(fmt.Sprintf("Parsed %d threads with %d samples", len(stats), samples))

	if err := writeReport(rep, stats, opts.output, logger); err != nil {
		return err
	}

	if opts.output != "" {
		printStats(len(stats), samples, frames)
		printNextStep("Render it", fmt.Sprintf("flamedump render %s", input))
	}
	return nil
}

// loadReport reads and parses a spindump report file.
func loadReport(path string) (*spindump.Report, error) {
	rep, err := spindump.ParseFile(path)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return rep, nil
}

// writeReport serializes rep as indented JSON to the specified path (or
// stdout if empty). The logger is notified on success with the output path.
func writeReport(rep *spindump.Report, stats []spindump.Stats, path string, logger interface{ Infof(string, ...any) }) error {
	out, err := openOutput(path)
	if err != nil {
		return err
	}
	defer out.Close()

	doc := struct {
		*spindump.Report
		Stats []spindump.Stats `json:"stats"`
	}{rep, stats}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	if _, err := out.Write(append(data, '\n')); err != nil {
		return err
	}
	if path != "" {
		logger.Infof("Wrote report to %s", path)
	}
	return nil
}

// nopCloser wraps an io.Writer with a no-op Close method.
// It is used to make os.Stdout compatible with io.WriteCloser.
type nopCloser struct{ io.Writer }

// Close implements io.Closer with a no-op.
func (nopCloser) Close() error { return nil }

// openOutput returns a WriteCloser for the given path.
// If path is empty, it returns os.Stdout wrapped in nopCloser.
// Otherwise, it creates the file at path, overwriting if it exists.
func openOutput(path string) (io.WriteCloser, error) {
	if path == "" {
		return nopCloser{os.Stdout}, nil
	}
	return os.Create(path)
}

package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
)

// summaryKeys are the report attributes shown by the info command, in
// display order. Keys absent from the report are skipped.
var summaryKeys = []string{
	"Command",
	"Path",
	"PID",
	"Parent",
	"Architecture",
	"Date/Time",
	"OS Version",
	"Duration",
	"Steps",
	"Report Version",
}

// infoCommand creates the info command for summarizing a report.
func (c *CLI) infoCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "info [report]",
		Short: "Summarize a spindump report's process and threads",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInfo(cmd.Context(), args[0])
		},
	}
}

// runInfo prints the report's process attributes and a per-thread stats
// table.
func runInfo(ctx context.Context, input string) error {
	rep, err := loadReport(input)
	if err != nil {
		return err
	}

	title, _ := rep.Lookup("Command")
	if title == "" {
		title = input
	}
	fmt.Println(StyleTitle.Render(title))
	printNewline()

	for _, key := range summaryKeys {
		if v, ok := rep.Lookup(key); ok && v != "" {
			printKeyValue(key, v)
		}
	}
	printNewline()

	stats := rep.Stats()
	if len(stats) == 0 {
		printWarning("Report has no threads")
		return nil
	}

	rows := make([][]string, 0, len(stats))
	var samples, frames int
	for i, s := range stats {
		rows = append(rows, []string{
			strconv.Itoa(i),
			truncate(s.Description, 48),
			strconv.Itoa(s.Samples),
			strconv.Itoa(s.Frames),
			strconv.Itoa(s.MaxDepth),
			strconv.Itoa(s.MaxLabelLen),
			strconv.FormatFloat(s.AvgLabelLen, 'f', 1, 64),
		})
		samples += s.Samples
		frames += s.Frames
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("#", "Thread", "Samples", "Frames", "Depth", "Label max", "Label avg").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			switch col {
			case 0:
				return StyleDim
			case 1:
				return StyleValue
			default:
				return StyleNumber
			}
		})
	fmt.Println(t.Render())

	printStats(len(stats), samples, frames)
	return nil
}

// truncate shortens s to at most n runes, marking the cut with an
// ellipsis.
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	if n <= 1 {
		return "…"
	}
	return string(runes[:n-1]) + "…"
}

package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/flamedump/flamedump/pkg/flame"
	"github.com/flamedump/flamedump/pkg/spindump"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// browseCommand creates the browse command for exploring a report in the
// terminal.
func (c *CLI) browseCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "browse [report]",
		Short: "Explore a report's threads and stacks interactively",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBrowse(cmd.Context(), args[0])
		},
	}
}

// runBrowse loads the report and runs the interactive browser.
func runBrowse(ctx context.Context, input string) error {
	rep, err := loadReport(input)
	if err != nil {
		return err
	}
	if len(rep.Process.Threads) == 0 {
		printWarning("Report has no threads")
		return nil
	}

	p := tea.NewProgram(newBrowseModel(rep), tea.WithContext(ctx))
	_, err = p.Run()
	return err
}

// =============================================================================
// browseModel - Thread list and stack views
// =============================================================================

// browseView selects which screen the browser shows.
type browseView int

const (
	viewThreads browseView = iota // thread list
	viewStack                     // one thread's frame tree
)

// stackLine is one flattened frame of a thread's tree.
type stackLine struct {
	depth   int
	label   string
	samples int
}

// browseModel is the bubbletea model for the report browser.
type browseModel struct {
	report *spindump.Report
	stats  []spindump.Stats

	view   browseView
	cursor int // selected thread in the list view
	offset int // list scroll offset
	height int // usable rows

	lines    []stackLine // flattened tree of the selected thread
	stackPos int         // scroll offset in the stack view
}

// newBrowseModel creates a browser over the report's threads.
func newBrowseModel(rep *spindump.Report) browseModel {
	return browseModel{
		report: rep,
		stats:  rep.Stats(),
		height: 15,
	}
}

func (m browseModel) Init() tea.Cmd {
	return nil
}

func (m browseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "esc":
			if m.view == viewStack {
				m.view = viewThreads
				return m, nil
			}
			return m, tea.Quit
		case "up", "k":
			if m.view == viewStack {
				if m.stackPos > 0 {
					m.stackPos--
				}
				return m, nil
			}
			if m.cursor > 0 {
				m.cursor--
				if m.cursor < m.offset {
					m.offset = m.cursor
				}
			}
		case "down", "j":
			if m.view == viewStack {
				if m.stackPos < len(m.lines)-1 {
					m.stackPos++
				}
				return m, nil
			}
			if m.cursor < len(m.stats)-1 {
				m.cursor++
				if m.cursor >= m.offset+m.height {
					m.offset = m.cursor - m.height + 1
				}
			}
		case "enter":
			if m.view == viewThreads {
				m.lines = flattenThread(m.report.Process.Threads[m.cursor])
				m.stackPos = 0
				m.view = viewStack
			}
		}
	case tea.WindowSizeMsg:
		m.height = msg.Height - 6
		if m.height < 5 {
			m.height = 5
		}
	}
	return m, nil
}

func (m browseModel) View() string {
	if m.view == viewStack {
		return m.stackView()
	}
	return m.threadsView()
}

// threadsView renders the thread list table.
func (m browseModel) threadsView() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Thread"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ open  q quit"))
	b.WriteString("\n\n")

	end := m.offset + m.height
	if end > len(m.stats) {
		end = len(m.stats)
	}

	rows := [][]string{}
	for i := m.offset; i < end; i++ {
		s := m.stats[i]

		cursor := "  "
		if i == m.cursor {
			cursor = "▸ "
		}

		def := ""
		if i == 0 {
			def = "default"
		}

		rows = append(rows, []string{
			cursor,
			strconv.Itoa(i),
			truncate(s.Description, 44),
			strconv.Itoa(s.Samples),
			strconv.Itoa(s.Frames),
			strconv.Itoa(s.MaxDepth),
			def,
		})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "#", "Thread", "Samples", "Frames", "Depth", "").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			actualIdx := m.offset + row
			if actualIdx >= len(m.stats) {
				return lipgloss.NewStyle()
			}
			if col == 6 {
				return StyleSuccess
			}
			if actualIdx == m.cursor {
				return listSelectedStyle
			}
			return listNormalStyle
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.cursor+1, len(m.stats))))

	return b.String()
}

// stackView renders a scrollable window over the selected thread's tree.
func (m browseModel) stackView() string {
	var b strings.Builder

	s := m.stats[m.cursor]
	b.WriteString(StyleTitle.Render(truncate(s.Description, 72)))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ scroll  esc back  q quit"))
	b.WriteString("\n\n")

	end := m.stackPos + m.height
	if end > len(m.lines) {
		end = len(m.lines)
	}

	for i := m.stackPos; i < end; i++ {
		line := m.lines[i]
		indent := strings.Repeat("  ", line.depth)
		b.WriteString(indent)
		b.WriteString(listNormalStyle.Render(line.label))
		b.WriteString(listDimStyle.Render(fmt.Sprintf("  %d", line.samples)))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.stackPos+1, len(m.lines))))

	return b.String()
}

// flattenThread turns a thread's frame tree into display lines in
// pre-order, carrying each frame's nesting depth.
func flattenThread(t spindump.ThreadTrace) []stackLine {
	var lines []stackLine
	flame.Walk(t.Root, func(p flame.Placement) bool {
		lines = append(lines, stackLine{
			depth:   p.Depth,
			label:   p.Frame.Label,
			samples: p.Frame.Samples,
		})
		return true
	})
	return lines
}

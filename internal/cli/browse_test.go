package cli

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/flamedump/flamedump/pkg/spindump"
)

func fixtureBrowseModel(t *testing.T) browseModel {
	t.Helper()
	rep, err := spindump.ParseBytes([]byte(sampleReport()))
	if err != nil {
		t.Fatalf("parse fixture: %v", err)
	}
	return newBrowseModel(rep)
}

func TestFlattenThread(t *testing.T) {
	rep, err := spindump.ParseBytes([]byte(sampleReport()))
	if err != nil {
		t.Fatalf("parse fixture: %v", err)
	}

	lines := flattenThread(rep.Process.Threads[0])
	if len(lines) != 5 {
		t.Fatalf("len(lines) = %d, want 5", len(lines))
	}

	// Pre-order: parents come before children, depth follows nesting.
	want := []stackLine{
		{depth: 0, label: "start", samples: 202},
		{depth: 1, label: "main", samples: 202},
		{depth: 2, label: "update", samples: 120},
		{depth: 3, label: "layoutSubviews", samples: 80},
		{depth: 2, label: "render", samples: 82},
	}
	for i, w := range want {
		if lines[i] != w {
			t.Errorf("lines[%d] = %+v, want %+v", i, lines[i], w)
		}
	}
}

func TestBrowseModelNavigation(t *testing.T) {
	m := fixtureBrowseModel(t)

	if m.view != viewThreads {
		t.Fatal("browser should start on the thread list")
	}

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'j'}})
	m = next.(browseModel)
	if m.cursor != 1 {
		t.Errorf("cursor after j = %d, want 1", m.cursor)
	}

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'k'}})
	m = next.(browseModel)
	if m.cursor != 0 {
		t.Errorf("cursor after k = %d, want 0", m.cursor)
	}

	// Cursor stays in range at the top.
	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'k'}})
	m = next.(browseModel)
	if m.cursor != 0 {
		t.Errorf("cursor after k at top = %d, want 0", m.cursor)
	}
}

func TestBrowseModelEnterAndBack(t *testing.T) {
	m := fixtureBrowseModel(t)

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(browseModel)
	if m.view != viewStack {
		t.Fatal("enter should open the stack view")
	}
	if len(m.lines) != 5 {
		t.Errorf("len(lines) = %d, want 5", len(m.lines))
	}

	view := m.View()
	if !strings.Contains(view, "layoutSubviews") {
		t.Error("stack view should show nested frames")
	}

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	m = next.(browseModel)
	if m.view != viewThreads {
		t.Error("esc should return to the thread list")
	}
}

func TestBrowseModelQuit(t *testing.T) {
	m := fixtureBrowseModel(t)

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if cmd == nil {
		t.Fatal("q should quit")
	}
}

func TestBrowseThreadsView(t *testing.T) {
	m := fixtureBrowseModel(t)

	view := m.View()
	if !strings.Contains(view, "Thread 0x1a2b3c") {
		t.Error("thread list should show thread descriptions")
	}
	if !strings.Contains(view, "202") {
		t.Error("thread list should show sample counts")
	}
}

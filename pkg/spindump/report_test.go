package spindump

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

// sampleReport builds a minimal well-formed report: ten preamble sections,
// a process section, one thread, and one non-thread subsection.
func sampleReport() string {
	var b strings.Builder
	for i := range headerSections {
		fmt.Fprintf(&b, "Section %d: value %d\n\n", i, i)
	}
	b.WriteString("Process: Finder [502]\n")
	b.WriteString("Path: /System/Library/CoreServices/Finder.app\n")
	b.WriteString("\n")
	b.WriteString("  Thread 0x1d8f0f  DispatchQueue 1  1001 samples\n")
	b.WriteString("  1001 start\n")
	b.WriteString("    1001 main\n")
	b.WriteString("      600 update\n")
	b.WriteString("      401 render\n")
	b.WriteString("\n")
	b.WriteString("  Binary Images:\n")
	b.WriteString("  0x1000 - 0x2000 Finder\n")
	b.WriteString("\n")
	b.WriteString("  Thread 0x1d8f10\n")
	b.WriteString("  12 start\n")
	return b.String()
}

func TestParseBytes(t *testing.T) {
	rep, err := ParseBytes([]byte(sampleReport()))
	if err != nil {
		t.Fatalf("ParseBytes() error = %v", err)
	}

	if got := len(rep.Header); got != headerSections {
		t.Fatalf("len(Header) = %d, want %d", got, headerSections)
	}
	if got := rep.Header[3][0].Value; got != "value 3" {
		t.Errorf("Header[3][0].Value = %q, want %q", got, "value 3")
	}
	if got := len(rep.Process.Attributes); got != 2 {
		t.Fatalf("len(Process.Attributes) = %d, want 2", got)
	}
	if got := rep.Process.Attributes[0].Key; got != "Process" {
		t.Errorf("Attributes[0].Key = %q, want %q", got, "Process")
	}

	// The Binary Images subsection is skipped, the two threads survive.
	if got := len(rep.Process.Threads); got != 2 {
		t.Fatalf("len(Threads) = %d, want 2", got)
	}

	first := rep.Process.Threads[0]
	if first.Description != "Thread 0x1d8f0f  DispatchQueue 1  1001 samples" {
		t.Errorf("Description = %q", first.Description)
	}
	if first.Root.Label != "start" || first.Root.Samples != 1001 {
		t.Errorf("root = %q/%d, want start/1001", first.Root.Label, first.Root.Samples)
	}
	main := first.Root.Children[0]
	if len(main.Children) != 2 {
		t.Fatalf("len(main.Children) = %d, want 2", len(main.Children))
	}
	if main.Children[1].Label != "render" || main.Children[1].Samples != 401 {
		t.Errorf("second callee = %q/%d, want render/401", main.Children[1].Label, main.Children[1].Samples)
	}

	second := rep.Process.Threads[1]
	if second.Root.Label != "start" || second.Root.Samples != 12 {
		t.Errorf("thread 2 root = %q/%d, want start/12", second.Root.Label, second.Root.Samples)
	}
}

func TestParseBytesTruncated(t *testing.T) {
	in := "Date: today\n\nOS: macOS\n"
	_, err := ParseBytes([]byte(in))
	if !errors.Is(err, ErrTruncatedReport) {
		t.Errorf("ParseBytes() error = %v, want ErrTruncatedReport", err)
	}
}

func TestParseBytesLeadingBlank(t *testing.T) {
	_, err := ParseBytes([]byte("\nDate: today\n"))
	if !errors.Is(err, ErrBlankLine) {
		t.Errorf("ParseBytes() error = %v, want ErrBlankLine", err)
	}
}

func TestParseAttributes(t *testing.T) {
	tests := []struct {
		name    string
		section []string
		want    []Attribute
		wantErr error
	}{
		{
			name:    "value whitespace trimmed",
			section: []string{"Command:          Finder"},
			want:    []Attribute{{Key: "Command", Value: "Finder"}},
		},
		{
			name:    "key kept verbatim",
			section: []string{"  Nested Key:  x"},
			want:    []Attribute{{Key: "  Nested Key", Value: "x"}},
		},
		{
			name:    "split on first colon only",
			section: []string{"Path: /usr/bin:/bin"},
			want:    []Attribute{{Key: "Path", Value: "/usr/bin:/bin"}},
		},
		{
			name:    "separator rule skipped",
			section: []string{"------------------------------", "PID: 42"},
			want:    []Attribute{{Key: "PID", Value: "42"}},
		},
		{
			name:    "format banner skipped",
			section: []string{"Heavy format: stacks are sorted by count", "PID: 42"},
			want:    []Attribute{{Key: "PID", Value: "42"}},
		},
		{
			name:    "empty value",
			section: []string{"Note:"},
			want:    []Attribute{{Key: "Note", Value: ""}},
		},
		{
			name:    "missing colon",
			section: []string{"no separator here"},
			wantErr: ErrMissingColon,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseAttributes(tt.section, 1)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("parseAttributes() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseAttributes() error = %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("len = %d, want %d", len(got), len(tt.want))
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("attr[%d] = %+v, want %+v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestCursorSection(t *testing.T) {
	c := &cursor{lines: []string{"a: 1", "b: 2", "", "", "c: 3", ""}}

	section, start, err := c.section()
	if err != nil {
		t.Fatalf("section() error = %v", err)
	}
	if len(section) != 2 || start != 1 {
		t.Errorf("first section = %v at %d, want 2 lines at 1", section, start)
	}

	section, start, err = c.section()
	if err != nil {
		t.Fatalf("section() error = %v", err)
	}
	if len(section) != 1 || section[0] != "c: 3" || start != 5 {
		t.Errorf("second section = %v at %d, want [c: 3] at 5", section, start)
	}

	if !c.done() {
		t.Error("done() = false after trailing blank run")
	}
	if _, _, err := c.section(); !errors.Is(err, ErrTruncatedReport) {
		t.Errorf("section() on exhausted cursor = %v, want ErrTruncatedReport", err)
	}
}

func TestReportLookup(t *testing.T) {
	rep, err := ParseBytes([]byte(sampleReport()))
	if err != nil {
		t.Fatalf("ParseBytes() error = %v", err)
	}

	if got, ok := rep.Lookup("Section 2"); !ok || got != "value 2" {
		t.Errorf("Lookup(Section 2) = %q, %v", got, ok)
	}
	if got, ok := rep.Lookup("Process"); !ok || got != "Finder [502]" {
		t.Errorf("Lookup(Process) = %q, %v", got, ok)
	}
	if _, ok := rep.Lookup("Nope"); ok {
		t.Error("Lookup(Nope) reported ok")
	}
}

func TestParseErrorLineNumbers(t *testing.T) {
	// Line 3 ("bad line") is the first attribute line without a colon.
	in := "A: 1\nB: 2\nbad line\n"
	_, err := ParseBytes([]byte(in))

	var perr *ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("error = %v, want *ParseError", err)
	}
	if perr.LineNum != 3 || perr.Line != "bad line" {
		t.Errorf("ParseError at %d (%q), want line 3", perr.LineNum, perr.Line)
	}
}

package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// sampleReport builds a minimal heavy-format report: ten preamble
// sections, a process section, two sampled threads, and one idle thread
// without samples.
func sampleReport() string {
	header := []string{
		"Date/Time:        2026-03-14 09:21:04.712 -0700",
		"End time:         2026-03-14 09:21:06.731 -0700",
		"OS Version:       macOS 15.3 (Build 24D60)",
		"Architecture:     arm64e",
		"Report Version:   60",
		"Command:          Finder",
		"Path:             /System/Library/CoreServices/Finder.app/Contents/MacOS/Finder",
		"PID:              502",
		"Duration:         2.02s",
		"Steps:            202 (10ms sampling interval)",
	}

	var b strings.Builder
	for _, line := range header {
		b.WriteString(line)
		b.WriteString("\n\n")
	}
	b.WriteString("Process:          Finder [502]\n")
	b.WriteString("Parent:           launchd [1]\n")
	b.WriteString("\n")
	b.WriteString("  Thread 0x1a2b3c  DispatchQueue \"com.apple.main-thread\"(1)  202 samples\n")
	b.WriteString("  202 start\n")
	b.WriteString("    202 main\n")
	b.WriteString("      120 update\n")
	b.WriteString("        80 layoutSubviews\n")
	b.WriteString("      82 render\n")
	b.WriteString("\n")
	b.WriteString("  Binary Images:\n")
	b.WriteString("  0x1000 - 0x2000 Finder\n")
	b.WriteString("\n")
	b.WriteString("  Thread 0x1a2b3d  Thread name \"worker\"\n")
	b.WriteString("  101 thread_start\n")
	b.WriteString("    101 worker_loop\n")
	b.WriteString("\n")
	b.WriteString("  Thread 0x1a2b3e\n")
	b.WriteString("  0 idle\n")
	return b.String()
}

// writeSampleReport writes the fixture report to a temp file and returns
// its path.
func writeSampleReport(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "heavy.txt")
	if err := os.WriteFile(path, []byte(sampleReport()), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}

// testContext returns a context carrying a logger that discards output.
func testContext() context.Context {
	return withLogger(context.Background(), newLogger(io.Discard, LogInfo))
}

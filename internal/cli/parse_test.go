package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/flamedump/flamedump/pkg/spindump"
)

func TestRunParse(t *testing.T) {
	input := writeSampleReport(t)
	output := filepath.Join(t.TempDir(), "report.json")

	if err := runParse(testContext(), input, &parseOpts{output: output}); err != nil {
		t.Fatalf("runParse() error = %v", err)
	}

	data, err := os.ReadFile(output)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}

	var rep spindump.Report
	if err := json.Unmarshal(data, &rep); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if got := len(rep.Process.Threads); got != 3 {
		t.Fatalf("len(Threads) = %d, want 3", got)
	}
	if got := rep.Process.Threads[0].Root.Label; got != "start" {
		t.Errorf("thread 0 root = %q, want %q", got, "start")
	}
	if got := rep.Process.Threads[0].Samples(); got != 202 {
		t.Errorf("thread 0 samples = %d, want 202", got)
	}

	var doc struct {
		Stats []spindump.Stats `json:"stats"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("unmarshal stats: %v", err)
	}
	if got := len(doc.Stats); got != 3 {
		t.Fatalf("len(Stats) = %d, want 3", got)
	}
	if got := doc.Stats[0].Frames; got != 5 {
		t.Errorf("Stats[0].Frames = %d, want 5", got)
	}
}

func TestRunParseMissingInput(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "absent.txt")
	err := runParse(testContext(), missing, &parseOpts{})
	if err == nil {
		t.Fatal("runParse() with missing input should fail")
	}
}

func TestRunParseMalformedReport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "short.txt")
	if err := os.WriteFile(path, []byte("Date: today\n\nOS: macOS\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	err := runParse(testContext(), path, &parseOpts{})
	if err == nil {
		t.Fatal("runParse() with a truncated report should fail")
	}
	if !strings.Contains(err.Error(), path) {
		t.Errorf("error %q should name the input file", err)
	}
}

func TestLoadReport(t *testing.T) {
	rep, err := loadReport(writeSampleReport(t))
	if err != nil {
		t.Fatalf("loadReport() error = %v", err)
	}
	if cmd, _ := rep.Lookup("Command"); cmd != "Finder" {
		t.Errorf("Lookup(Command) = %q, want %q", cmd, "Finder")
	}
}

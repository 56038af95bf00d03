package cmd

import (
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/pders01/modeldrift/internal/snapshot"
)

func TestReportUnknownTemplate(t *testing.T) {
	reportOutput = ""
	err := runReport(nil, []string{"weekly"})
	if err == nil || !strings.Contains(err.Error(), "unknown report template") {
		t.Errorf("expected unknown template error, got %v", err)
	}
}

func TestReportNeedsSnapshots(t *testing.T) {
	enterSampleTree(t)
	reportOutput = ""

	err := runReport(nil, []string{"summary"})
	if !errors.Is(err, snapshot.ErrNotFound) {
		t.Errorf("expected not found, got %v", err)
	}
}

func TestReportSummary(t *testing.T) {
	enterSampleTree(t)
	createTestSnapshot(t, "summary", nil)
	reportOutput = ""

	c, out := captured()
	if err := runReport(c, []string{"summary"}); err != nil {
		t.Fatalf("report command failed: %v", err)
	}
	output := out.String()
	if !strings.Contains(output, "MODEL ANALYSIS") || !strings.Contains(output, "Snapshot Statistics") {
		t.Errorf("expected summary and stats:\n%s", output)
	}
}

func TestReportChanges(t *testing.T) {
	tree := enterSampleTree(t)
	createTestSnapshot(t, "one", nil)
	reportOutput = ""

	if err := runReport(nil, []string{"changes"}); err == nil {
		t.Error("expected an error with a single snapshot")
	}

	breakUserCreate(tree)
	createTestSnapshot(t, "two", nil)

	c, out := captured()
	if err := runReport(c, []string{"changes"}); err != nil {
		t.Fatalf("report command failed: %v", err)
	}
	output := out.String()
	if !strings.Contains(output, "Changes Report") || !strings.Contains(output, "BREAKING CHANGES: 1") {
		t.Errorf("expected breaking change report:\n%s", output)
	}
}

func TestReportMappingToFile(t *testing.T) {
	enterSampleTree(t)
	createTestSnapshot(t, "mapping", nil)
	reportOutput = "mapping.html"
	defer func() { reportOutput = "" }()

	c, out := captured()
	if err := runReport(c, []string{"mapping"}); err != nil {
		t.Fatalf("report command failed: %v", err)
	}
	if !strings.Contains(out.String(), "✓ Wrote mapping.html") {
		t.Errorf("unexpected output:\n%s", out.String())
	}
	data, err := os.ReadFile("mapping.html")
	if err != nil {
		t.Fatalf("report not written: %v", err)
	}
	if !strings.Contains(string(data), "<html") {
		t.Error("expected an HTML document")
	}
}

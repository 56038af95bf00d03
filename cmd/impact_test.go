package cmd

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func resetImpactFlags() {
	impactHTML = false
	impactOutputDir = ""
	impactJSON = false
	impactToon = false
}

func TestImpact(t *testing.T) {
	enterSampleTree(t)
	resetImpactFlags()
	impactHTML = true
	defer resetImpactFlags()

	c, out := captured()
	if err := runImpact(c, []string{"."}); err != nil {
		t.Fatalf("impact command failed: %v", err)
	}

	output := out.String()
	for _, want := range []string{
		"MAPPING ANALYSIS",
		"Total Models:      2",
		"Total Endpoints:   2",
		"Endpoint Coverage: 100.0%",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %q in output:\n%s", want, output)
		}
	}

	for _, name := range []string{"mapping_analysis.json", "mapping_report.html"} {
		if _, err := os.Stat(filepath.Join("version_analysis", name)); err != nil {
			t.Errorf("expected %s: %v", name, err)
		}
	}
}

func TestImpactJSONSkipsHTML(t *testing.T) {
	enterSampleTree(t)
	resetImpactFlags()
	impactJSON = true
	impactOutputDir = "out"
	defer resetImpactFlags()

	c, out := captured()
	if err := runImpact(c, []string{"."}); err != nil {
		t.Fatalf("impact command failed: %v", err)
	}
	if !strings.Contains(out.String(), `"impact_analysis"`) {
		t.Errorf("expected JSON analysis:\n%s", out.String())
	}
	if _, err := os.Stat(filepath.Join("out", "mapping_report.html")); !os.IsNotExist(err) {
		t.Errorf("HTML report should not be written without --html")
	}
}

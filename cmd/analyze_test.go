package cmd

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pders01/modeldrift/internal/testutil"
)

func resetAnalyzeFlags() {
	analyzeCompare = ""
	analyzeFailOnBreaking = false
	analyzeYAML = false
	analyzeManifests = false
	analyzeCSV = false
	analyzeXLSX = false
	analyzeMapping = false
	analyzeOutputDir = ""
	analyzeVersion = ""
	analyzeExclude = nil
	analyzeJSON = false
	analyzeToon = false
}

// breakUserCreate changes UserCreate.email from str to int
func breakUserCreate(tree *testutil.TempTree) {
	broken := strings.Replace(testutil.SampleModels, "    name: str\n    email: str\n", "    name: str\n    email: int\n", 1)
	tree.CreateFile("app/models.py", broken)
}

func TestAnalyzeWritesExports(t *testing.T) {
	enterSampleTree(t)
	resetAnalyzeFlags()
	analyzeYAML = true
	analyzeMapping = true
	defer resetAnalyzeFlags()

	c, out := captured()
	if err := runAnalyze(c, []string{"."}); err != nil {
		t.Fatalf("analyze command failed: %v", err)
	}

	output := out.String()
	if !strings.Contains(output, "MODEL ANALYSIS") || !strings.Contains(output, "Models: 2") {
		t.Errorf("missing summary:\n%s", output)
	}

	for _, name := range []string{"version_analysis.json", "api_versions.yaml", "mapping_analysis.json", "mapping_report.html"} {
		if _, err := os.Stat(filepath.Join("version_analysis", name)); err != nil {
			t.Errorf("expected %s to be written: %v", name, err)
		}
	}
}

func TestAnalyzeCustomOutputDir(t *testing.T) {
	enterSampleTree(t)
	resetAnalyzeFlags()
	analyzeOutputDir = "build"
	analyzeJSON = true
	defer resetAnalyzeFlags()

	c, out := captured()
	if err := runAnalyze(c, []string{"."}); err != nil {
		t.Fatalf("analyze command failed: %v", err)
	}
	if strings.Contains(out.String(), "MODEL ANALYSIS") {
		t.Error("JSON output should not include the text summary")
	}
	if !strings.Contains(out.String(), `"UserCreate"`) {
		t.Errorf("expected models in JSON output:\n%s", out.String())
	}
	if _, err := os.Stat(filepath.Join("build", "version_analysis.json")); err != nil {
		t.Errorf("expected analysis in custom dir: %v", err)
	}
}

func TestAnalyzeCompareFailOnBreaking(t *testing.T) {
	tree := enterSampleTree(t)
	createTestSnapshot(t, "baseline", nil)
	breakUserCreate(tree)

	resetAnalyzeFlags()
	analyzeCompare = "baseline"
	analyzeFailOnBreaking = true
	defer resetAnalyzeFlags()

	c, out := captured()
	err := runAnalyze(c, []string{"."})
	if !errors.Is(err, errChecksFailed) {
		t.Fatalf("expected checks failed, got %v", err)
	}

	output := out.String()
	if !strings.Contains(output, "BREAKING CHANGES: 1") {
		t.Errorf("expected one breaking change:\n%s", output)
	}
	if !strings.Contains(output, "UserCreate.email (str → int)") {
		t.Errorf("expected type change detail:\n%s", output)
	}
	if _, err := os.Stat(filepath.Join("version_analysis", "changes.json")); err != nil {
		t.Errorf("expected changes.json: %v", err)
	}
}

func TestAnalyzeCompareUnknownSnapshot(t *testing.T) {
	enterSampleTree(t)
	resetAnalyzeFlags()
	analyzeCompare = "nothing-here"
	defer resetAnalyzeFlags()

	c, _ := captured()
	if err := runAnalyze(c, []string{"."}); err == nil {
		t.Error("expected an error for an unknown snapshot")
	}
}

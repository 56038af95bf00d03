package cmd

import (
	"strings"
	"testing"
)

func resetFieldmapFlags() {
	fieldmapManifest = ""
	fieldmapSource = ""
	fieldmapJSON = false
	fieldmapToon = false
}

func TestFieldmap(t *testing.T) {
	enterSampleTree(t)
	resetFieldmapFlags()

	c, out := captured()
	if err := runFieldmap(c, []string{"UserCreate", "User"}); err != nil {
		t.Fatalf("fieldmap command failed: %v", err)
	}

	output := out.String()
	if !strings.Contains(output, "Field mappings: UserCreate → User") {
		t.Errorf("missing header:\n%s", output)
	}
	if !strings.Contains(output, "1. ✓ name → name (exact)") {
		t.Errorf("expected name mapping first:\n%s", output)
	}
	if !strings.Contains(output, "email → email (exact)") || !strings.Contains(output, "Type mismatch") {
		t.Errorf("expected email type mismatch:\n%s", output)
	}
}

func TestFieldmapUnknownModel(t *testing.T) {
	enterSampleTree(t)
	resetFieldmapFlags()

	err := runFieldmap(nil, []string{"User", "Ghost"})
	if err == nil || err.Error() != "model 'Ghost' not found" {
		t.Errorf("expected model not found error, got %v", err)
	}
}

package cmd

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func resetDocsFlags() {
	docsModel = ""
	docsAll = false
	docsIndex = false
	docsOutput = ""
	docsStdout = false
	docsExamples = false
	docsHTML = false
	docsManifest = ""
	docsSource = ""
}

func TestDocsBreakdown(t *testing.T) {
	enterSampleTree(t)
	resetDocsFlags()
	defer resetDocsFlags()

	c, out := captured()
	if err := runDocs(c, []string{}); err != nil {
		t.Fatalf("docs command failed: %v", err)
	}
	output := out.String()
	if !strings.Contains(output, "2 models available for documentation") || !strings.Contains(output, "• app.models: 2 models") {
		t.Errorf("unexpected breakdown:\n%s", output)
	}
}

func TestDocsAllWritesPages(t *testing.T) {
	tree := enterSampleTree(t)
	resetDocsFlags()
	docsAll = true
	docsHTML = true
	docsOutput = "site"
	defer resetDocsFlags()

	c, out := captured()
	if err := runDocs(c, []string{}); err != nil {
		t.Fatalf("docs command failed: %v", err)
	}
	if !strings.Contains(out.String(), "Generated 3 page(s) in site") {
		t.Errorf("unexpected output:\n%s", out.String())
	}

	for _, name := range []string{"User.md", "UserCreate.md", "index.md", "User.html", "index.html"} {
		if _, err := os.Stat(filepath.Join(tree.Path, "site", name)); err != nil {
			t.Errorf("expected %s: %v", name, err)
		}
	}
	user, err := os.ReadFile(filepath.Join(tree.Path, "site", "User.md"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(user), "A registered user.") || !strings.Contains(string(user), "| `email` | Optional[str] |  | - |") {
		t.Errorf("unexpected User page:\n%s", user)
	}
}

func TestDocsModelToStdout(t *testing.T) {
	enterSampleTree(t)
	resetDocsFlags()
	docsModel = "UserCreate"
	docsStdout = true
	docsExamples = true
	defer resetDocsFlags()

	c, out := captured()
	if err := runDocs(c, []string{}); err != nil {
		t.Fatalf("docs command failed: %v", err)
	}
	output := out.String()
	if !strings.HasPrefix(output, "# UserCreate\n") {
		t.Errorf("expected the UserCreate page:\n%s", output)
	}
	if !strings.Contains(output, `"email": "example_value"`) {
		t.Errorf("expected an example body:\n%s", output)
	}
}

func TestDocsUnknownModel(t *testing.T) {
	enterSampleTree(t)
	resetDocsFlags()
	docsModel = "Ghost"
	defer resetDocsFlags()

	c, _ := captured()
	if err := runDocs(c, []string{}); err == nil {
		t.Fatal("expected an error for an unknown model")
	}
}

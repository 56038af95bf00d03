package cmd

import (
	"bytes"
	"os"
	"testing"

	"github.com/spf13/cobra"

	"github.com/pders01/modeldrift/internal/testutil"
)

// enterTree makes tree the working directory for the rest of the test
func enterTree(t *testing.T, tree *testutil.TempTree) {
	t.Helper()

	oldWd, _ := os.Getwd()
	if err := os.Chdir(tree.Path); err != nil {
		t.Fatalf("failed to enter %s: %v", tree.Path, err)
	}
	t.Cleanup(func() {
		os.Chdir(oldWd)
		tree.Cleanup()
	})
}

// enterSampleTree creates the sample Python tree and enters it
func enterSampleTree(t *testing.T) *testutil.TempTree {
	t.Helper()

	tree := testutil.NewSampleTree(t)
	enterTree(t, tree)
	return tree
}

// captured returns a command whose output lands in the returned buffer
func captured() (*cobra.Command, *bytes.Buffer) {
	var buf bytes.Buffer
	c := &cobra.Command{}
	c.SetOut(&buf)
	return c, &buf
}

func createTestSnapshot(t *testing.T, topic string, tags []string) {
	t.Helper()

	saveTopic = topic
	saveTags = tags
	saveNotes = "Test snapshot"
	saveVersion = ""

	c, _ := captured()
	if err := runSave(c, []string{}); err != nil {
		t.Fatalf("failed to create test snapshot: %v", err)
	}
}

// casefileManifest is a registry manifest with a small casefile API
const casefileManifest = `records:
  - name: CreateCasefileRequest
    fields:
      - name: title
        type: str
        required: true
  - name: CasefileResponse
    fields:
      - name: casefile_id
        type: str
        required: true
      - name: title
        type: str
        required: true
  - name: GrantRequest
    fields:
      - name: casefile_id
        type: str
        required: true
      - name: user_id
        type: str
        required: true
  - name: GrantResponse
    fields:
      - name: granted
        type: bool
        required: true
  - name: CloseRequest
    fields:
      - name: casefile_id
        type: str
        required: true
methods:
  - method_name: create_casefile
    description: Create a new casefile
    request_model: CreateCasefileRequest
    response_model: CasefileResponse
    classification:
      domain: workspace
      capability: create
      integration_tier: internal
  - method_name: grant_permission
    description: Share a casefile with another user
    request_model: GrantRequest
    response_model: GrantResponse
    classification:
      domain: workspace
      capability: share
      integration_tier: internal
  - method_name: close_casefile
    description: Close a casefile
    request_model: CloseRequest
    response_model: CasefileResponse
`

// enterManifestTree enters an empty tree holding registry.yaml
func enterManifestTree(t *testing.T) *testutil.TempTree {
	t.Helper()

	tree := testutil.NewTempTree(t)
	tree.CreateFile("registry.yaml", casefileManifest)
	enterTree(t, tree)
	return tree
}

package inventory

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const toolInventory = `create_casefile:
  version: 1.0.0
  classification:
    domain: workspace
    capability: create
    integration_tier: internal
  models:
    request: CreateCasefileRequest
    response: CreateCasefileResponse
  implementation:
    class: CasefileService
    method: create_casefile
`

func writeTools(t *testing.T, files map[string]string) afero.Fs {
	t.Helper()
	fs := afero.NewMemMapFs()
	for name, content := range files {
		require.NoError(t, afero.WriteFile(fs, "/tools/"+name, []byte(content), 0o644))
	}
	return fs
}

func TestToolFiles(t *testing.T) {
	fs := writeTools(t, map[string]string{"b.yaml": "name: b\n", "a.yaml": "name: a\n", "notes.md": "x"})

	files, err := ToolFiles(fs, "/tools")
	require.NoError(t, err)
	assert.Equal(t, []string{"/tools/a.yaml", "/tools/b.yaml"}, files)

	files, err = ToolFiles(fs, "/tools/b.yaml")
	require.NoError(t, err)
	assert.Equal(t, []string{"/tools/b.yaml"}, files)

	_, err = ToolFiles(fs, "/missing")
	assert.Error(t, err)
}

func TestValidateTools(t *testing.T) {
	inv, err := Parse([]byte(toolInventory))
	require.NoError(t, err)

	fs := writeTools(t, map[string]string{
		"good.yaml": `name: create_casefile_tool
version: 2.0.0
method_reference:
  method: create_casefile
  classification:
    domain: workspace
data_contracts:
  request_model: CreateCasefileRequest
implementation:
  method_wrapper:
    method_name: CasefileService.create_casefile
`,
		"drifted.yaml": `name: drifted_tool
method_reference:
  method: create_casefile
  classification:
    capability: read
data_contracts:
  response_model: CasefileView
implementation:
  method_wrapper:
    method_name: CasefileService.open
`,
		"orphan.yaml":   "name: orphan_tool\nmethod_reference:\n  method: delete_everything\n",
		"unbound.yaml":  "name: unbound_tool\n",
		"broken.yaml":   "name: [unclosed\n",
		"bad_tier.yaml": "name: t\nmethod_reference:\n  method: create_casefile\n  classification:\n    integration_tier: remote\n",
	})
	files, err := ToolFiles(fs, "/tools")
	require.NoError(t, err)

	res := ValidateTools(fs, inv, files)
	assert.False(t, res.OK())
	assert.Equal(t, Summary{Valid: 1, Warnings: 1, Errors: 4, Total: 6}, res.Summary)

	require.Len(t, res.Valid, 1)
	good := res.Valid[0]
	assert.Equal(t, "create_casefile_tool", good.Tool)
	require.Len(t, good.Issues, 1)
	assert.Equal(t, IssueToolVersion, good.Issues[0].Type)

	require.Len(t, res.Warnings, 1)
	var types []string
	for _, issue := range res.Warnings[0].Issues {
		types = append(types, issue.Type)
	}
	assert.Equal(t, []string{IssueResponseMismatch, IssueToolClassification, IssueToolImplementation}, types)
	assert.Equal(t, "capability", res.Warnings[0].Issues[1].Field)
	assert.Equal(t, "CasefileService.create_casefile", res.Warnings[0].Issues[2].Inventory)

	errs := map[string]string{}
	for _, c := range res.Errors {
		errs[c.File] = c.Issues[0].Type
	}
	assert.Equal(t, map[string]string{
		"/tools/bad_tier.yaml": IssueToolParse,
		"/tools/broken.yaml":   IssueToolParse,
		"/tools/orphan.yaml":   IssueToolNotInInventory,
		"/tools/unbound.yaml":  IssueToolNoMethod,
	}, errs)
}

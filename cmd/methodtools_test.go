package cmd

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func resetMethodtoolsFlags() {
	methodtoolsInventory = ""
	methodtoolsJSON = false
	methodtoolsToon = false
}

const grantTool = `name: grant_permission_tool
method_reference:
  method: grant_permission
  classification:
    capability: share
data_contracts:
  request_model: GrantRequest
`

func TestMethodtoolsValid(t *testing.T) {
	tree := enterManifestTree(t)
	tree.CreateFile("inventory.yaml", driftInventoryYAML)
	tree.CreateFile("tools/grant.yaml", grantTool)
	resetMethodtoolsFlags()
	methodtoolsInventory = "inventory.yaml"
	defer resetMethodtoolsFlags()

	c, out := captured()
	if err := runMethodtools(c, []string{"tools"}); err != nil {
		t.Fatalf("methodtools command failed: %v", err)
	}
	output := out.String()
	if !strings.Contains(output, "✓ VALID: 1 tools") || !strings.Contains(output, "grant_permission_tool (grant.yaml)") {
		t.Errorf("expected one valid tool:\n%s", output)
	}
	if !strings.Contains(output, "SUMMARY: 1 valid, 0 warnings, 0 errors") {
		t.Errorf("unexpected summary:\n%s", output)
	}
}

func TestMethodtoolsUnknownMethodFails(t *testing.T) {
	tree := enterManifestTree(t)
	tree.CreateFile("inventory.yaml", driftInventoryYAML)
	tree.CreateFile("tools/grant.yaml", grantTool)
	tree.CreateFile("tools/ghost.yaml", "name: ghost_tool\nmethod_reference:\n  method: ghost\n")
	tree.CreateFile("tools/shifted.yaml", `name: shifted_tool
method_reference:
  method: create_casefile
  classification:
    domain: billing
`)
	resetMethodtoolsFlags()
	methodtoolsInventory = "inventory.yaml"
	methodtoolsJSON = true
	defer resetMethodtoolsFlags()

	c, out := captured()
	err := runMethodtools(c, []string{"tools"})
	if !errors.Is(err, errChecksFailed) {
		t.Fatalf("expected checks failed, got %v", err)
	}

	var res struct {
		Errors   []struct{ Tool string } `json:"errors"`
		Warnings []struct {
			Tool   string
			Issues []struct {
				Type  string
				Field string
			}
		} `json:"warnings"`
		Summary struct {
			Total int `json:"total"`
		} `json:"summary"`
	}
	if err := json.Unmarshal(out.Bytes(), &res); err != nil {
		t.Fatalf("invalid JSON output: %v\n%s", err, out.String())
	}
	if res.Summary.Total != 3 {
		t.Errorf("expected 3 tools, got %d", res.Summary.Total)
	}
	if len(res.Errors) != 1 || res.Errors[0].Tool != "ghost_tool" {
		t.Errorf("expected ghost_tool error, got %+v", res.Errors)
	}
	if len(res.Warnings) != 1 || res.Warnings[0].Issues[0].Field != "domain" {
		t.Errorf("expected domain mismatch warning, got %+v", res.Warnings)
	}
}

func TestMethodtoolsRequiresInventory(t *testing.T) {
	resetMethodtoolsFlags()
	c, _ := captured()
	if err := runMethodtools(c, []string{"tools"}); err == nil {
		t.Fatal("expected an error without --inventory")
	}
}

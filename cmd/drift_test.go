package cmd

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

const driftInventoryYAML = `create_casefile:
  classification:
    domain: workspace
    capability: create
    integration_tier: internal
  models:
    request: CreateCasefileRequest
    response: CasefileResponse
grant_permission:
  classification:
    domain: workspace
    capability: share
    integration_tier: internal
  models:
    request: GrantRequest
    response: OldGrantResponse
delete_casefile:
  classification:
    integration_tier: internal
`

func resetDriftFlags() {
	driftInventory = ""
	driftManifest = ""
	driftSource = ""
	driftCIMode = false
	driftJSON = false
	driftToon = false
}

func TestDriftReport(t *testing.T) {
	tree := enterManifestTree(t)
	tree.CreateFile("inventory.yaml", driftInventoryYAML)
	resetDriftFlags()
	driftInventory = "inventory.yaml"
	driftManifest = "registry.yaml"
	defer resetDriftFlags()

	c, out := captured()
	if err := runDrift(c, []string{}); err != nil {
		t.Fatalf("drift command failed: %v", err)
	}

	output := out.String()
	for _, want := range []string{
		"Severity: MEDIUM",
		"Drift Score: 6",
		"Total Changes: 3",
		"+ close_casefile",
		"- delete_casefile (was internal)",
		"Response: OldGrantResponse → GrantResponse",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %q in output:\n%s", want, output)
		}
	}
}

func TestDriftCIMode(t *testing.T) {
	tree := enterManifestTree(t)
	tree.CreateFile("inventory.yaml", driftInventoryYAML)
	resetDriftFlags()
	driftInventory = "inventory.yaml"
	driftManifest = "registry.yaml"
	driftCIMode = true
	driftJSON = true
	defer resetDriftFlags()

	c, out := captured()
	err := runDrift(c, []string{})
	if !errors.Is(err, errChecksFailed) {
		t.Fatalf("expected checks failed, got %v", err)
	}

	var got struct {
		Score struct {
			Severity       string `json:"severity"`
			RequiresUpdate bool   `json:"requires_update"`
		} `json:"drift_score"`
	}
	if err := json.Unmarshal(out.Bytes(), &got); err != nil {
		t.Fatalf("invalid JSON output: %v\n%s", err, out.String())
	}
	if got.Score.Severity != "medium" || !got.Score.RequiresUpdate {
		t.Errorf("unexpected score: %+v", got.Score)
	}
}

func TestDriftNeedsInventory(t *testing.T) {
	resetDriftFlags()
	if err := runDrift(nil, []string{}); err == nil {
		t.Error("expected an error without --inventory")
	}
}

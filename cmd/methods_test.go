package cmd

import (
	"encoding/json"
	"strings"
	"testing"
)

func resetMethodsFlags() {
	methodsDomain = ""
	methodsSubdomain = ""
	methodsCapability = ""
	methodsComplexity = ""
	methodsMaturity = ""
	methodsTier = ""
	methodsManifest = ""
	methodsSource = ""
	methodsJSON = false
	methodsToon = false
}

func TestMethodsKeyword(t *testing.T) {
	enterManifestTree(t)
	resetMethodsFlags()
	methodsManifest = "registry.yaml"
	defer resetMethodsFlags()

	c, out := captured()
	if err := runMethods(c, []string{"share"}); err != nil {
		t.Fatalf("methods command failed: %v", err)
	}
	output := out.String()
	if !strings.Contains(output, "Found 1 method(s):") || !strings.Contains(output, "grant_permission") {
		t.Errorf("expected grant_permission:\n%s", output)
	}
	if !strings.Contains(output, "Capability: share") || !strings.Contains(output, "Request: GrantRequest") {
		t.Errorf("expected classification and models:\n%s", output)
	}
}

func TestMethodsFilterJSON(t *testing.T) {
	enterManifestTree(t)
	resetMethodsFlags()
	methodsManifest = "registry.yaml"
	methodsDomain = "workspace"
	methodsJSON = true
	defer resetMethodsFlags()

	c, out := captured()
	if err := runMethods(c, []string{}); err != nil {
		t.Fatalf("methods command failed: %v", err)
	}
	var found []struct {
		Name string `json:"method_name"`
	}
	if err := json.Unmarshal(out.Bytes(), &found); err != nil {
		t.Fatalf("invalid JSON output: %v\n%s", err, out.String())
	}
	if len(found) != 2 || found[0].Name != "create_casefile" || found[1].Name != "grant_permission" {
		t.Errorf("expected the two workspace methods, got %+v", found)
	}
}

func TestMethodsNoMatch(t *testing.T) {
	enterManifestTree(t)
	resetMethodsFlags()
	methodsManifest = "registry.yaml"
	methodsCapability = "delete"
	defer resetMethodsFlags()

	c, out := captured()
	if err := runMethods(c, []string{}); err != nil {
		t.Fatalf("methods command failed: %v", err)
	}
	if !strings.Contains(out.String(), "No methods found matching criteria.") {
		t.Errorf("expected no matches:\n%s", out.String())
	}
}

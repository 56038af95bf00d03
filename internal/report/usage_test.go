package report

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pders01/modeldrift/internal/inventory"
	"github.com/pders01/modeldrift/internal/models"
	"github.com/pders01/modeldrift/internal/usage"
)

func TestUsageText(t *testing.T) {
	r := usage.Analyze(
		[]models.MethodDescriptor{{Name: "create", RequestModel: "Req"}},
		[]models.RecordDescriptor{
			{Name: "Req", Fields: []models.Field{{Name: "title"}, {Name: "owner"}}},
			{Name: "Old", Fields: []models.Field{{Name: "fax"}}},
		},
	)

	var buf bytes.Buffer
	UsageSummary(&buf, r, 3)
	assert.Contains(t, buf.String(), "Total unique fields: 3")
	assert.Contains(t, buf.String(), "• fax (in Old)")
	assert.Contains(t, buf.String(), "Rarely Used Fields (<3 uses, 2 total):")

	buf.Reset()
	CoOccurrence(&buf, r.Pairs(1), 1)
	assert.Contains(t, buf.String(), "Found 1 patterns (≥1 co-occurrences)")

	buf.Reset()
	FieldCoverage(&buf, r.Coverage())
	assert.Contains(t, buf.String(), "High Coverage Fields (≥50%, 2 fields):")
	assert.NotContains(t, buf.String(), "Low Coverage")
}

func TestToolValidationText(t *testing.T) {
	res := &inventory.ToolResult{
		Valid: []inventory.ToolCheck{{Tool: "ok_tool", File: "/tools/ok.yaml"}},
		Errors: []inventory.ToolCheck{{Tool: "ghost", File: "/tools/ghost.yaml", Issues: []inventory.ToolIssue{
			{Type: inventory.IssueToolNotInInventory, Message: "Method 'ghost' not found in inventory"},
		}}},
	}
	var buf bytes.Buffer
	ToolValidation(&buf, res)
	out := buf.String()
	assert.Contains(t, out, "ok_tool (ok.yaml)")
	assert.Contains(t, out, "✗ ERRORS: 1 tools")
	assert.Contains(t, out, "- method_not_in_inventory: Method 'ghost' not found in inventory")
	assert.Contains(t, out, "SUMMARY: 1 valid, 0 warnings, 1 errors")
}

func TestMethodsText(t *testing.T) {
	var buf bytes.Buffer
	Methods(&buf, nil)
	assert.Contains(t, buf.String(), "No methods found")

	buf.Reset()
	Methods(&buf, []models.MethodDescriptor{{
		Name:           "send",
		RequestModel:   "SendRequest",
		Classification: &models.Classification{Domain: "communication"},
	}})
	out := buf.String()
	assert.Contains(t, out, "Found 1 method(s):")
	assert.Contains(t, out, "Description: N/A")
	assert.Contains(t, out, "Domain: communication")
	assert.NotContains(t, out, "Subdomain:")
	assert.Contains(t, out, "Response: N/A")
}

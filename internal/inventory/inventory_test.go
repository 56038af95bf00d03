package inventory

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pders01/modeldrift/internal/models"
)

const sampleInventory = `create_casefile:
  description: Create a casefile
  version: 1.0.0
  classification:
    domain: workspace
    subdomain: casefile
    capability: create
    complexity: atomic
    maturity: stable
    integration_tier: internal
  models:
    request: CreateCasefileRequest
    response: CreateCasefileResponse
send_email:
  classification:
    integration_tier: external
  implementation:
    class: GmailClient
sync_drive:
  classification:
    integration_tier: hybrid
  implementation:
    class: DriveClient
archive_casefile:
  classification:
    integration_tier: internal
  models:
    request: ArchiveRequest
`

func TestParseKeepsOrder(t *testing.T) {
	inv, err := Parse([]byte(sampleInventory))
	require.NoError(t, err)
	require.Len(t, inv.Methods, 4)
	assert.Equal(t, "create_casefile", inv.Methods[0].Name)
	assert.Equal(t, "archive_casefile", inv.Methods[3].Name)
	assert.Equal(t, TierInternal, inv.Methods[0].Tier())
	assert.Equal(t, "CreateCasefileRequest", inv.Methods[0].Models.Request)
	assert.Equal(t, "GmailClient", inv.Methods[1].Implementation.Class)

	m, ok := inv.Method("sync_drive")
	require.True(t, ok)
	assert.Equal(t, TierHybrid, m.Tier())
}

func TestParseNestedMethodsKey(t *testing.T) {
	inv, err := Parse([]byte("methods:\n  a:\n    version: 2.0.0\n  b: {}\n"))
	require.NoError(t, err)
	require.Len(t, inv.Methods, 2)
	assert.Equal(t, "2.0.0", inv.Methods[0].Version)
}

func TestParseRejectsUnknownTier(t *testing.T) {
	_, err := Parse([]byte("a:\n  classification:\n    integration_tier: orbital\n"))
	assert.Error(t, err)

	_, err = Parse([]byte("- a\n- b\n"))
	assert.Error(t, err)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(afero.NewMemMapFs(), "/nope.yaml")
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	inv, err := Parse([]byte(sampleInventory))
	require.NoError(t, err)

	registered := []models.MethodDescriptor{
		{Name: "create_casefile", RequestModel: "CreateCasefileRequest", ResponseModel: "CasefileResponse"},
	}
	serviceMap := map[string]string{"GmailClient": "integrations.gmail_client"}
	known := map[string]bool{"CreateCasefileRequest": true, "CreateCasefileResponse": true}

	res := Validate(inv, registered, serviceMap, known)
	assert.False(t, res.OK())

	require.Len(t, res.Errors, 1)
	assert.Equal(t, "archive_casefile", res.Errors[0].Method)
	assert.Equal(t, IssueNotRegistered, res.Errors[0].Issue)

	require.Len(t, res.Valid, 2)
	assert.Equal(t, []string{SourceRegistry}, res.Valid[0].Sources)
	assert.Equal(t, "integrations.gmail_client", res.Valid[1].Module)

	issues := map[string]int{}
	for _, w := range res.Warnings {
		issues[w.Issue]++
	}
	assert.Equal(t, 1, issues[IssueResponseMismatch])
	assert.Equal(t, 1, issues[IssueHybridNotFound])
	assert.Equal(t, 1, issues[IssueRequestNotFound])
	assert.Equal(t, Summary{Valid: 2, Warnings: 3, Errors: 1, Total: 6}, res.Summary)
}

func TestValidateClean(t *testing.T) {
	inv, err := Parse([]byte("ping:\n  classification:\n    integration_tier: hybrid\n  implementation:\n    class: PingService\n"))
	require.NoError(t, err)

	res := Validate(inv, nil, map[string]string{"PingService": "ping.service"}, nil)
	assert.True(t, res.OK())
	assert.Equal(t, []string{SourceServiceMap}, res.Valid[0].Sources)
}

func TestValidateServiceMapIgnoresKeyCase(t *testing.T) {
	inv, err := Parse([]byte("send_email:\n  classification:\n    integration_tier: external\n  implementation:\n    class: GmailClient\n"))
	require.NoError(t, err)

	res := Validate(inv, nil, map[string]string{"gmailclient": "integrations.gmail_client"}, nil)
	require.Len(t, res.Valid, 1)
	assert.Equal(t, "integrations.gmail_client", res.Valid[0].Module)
}

package search

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pders01/modeldrift/internal/models"
	"github.com/pders01/modeldrift/internal/registry"
)

func methodRegistry(t *testing.T) *registry.Registry {
	t.Helper()
	reg := registry.New()
	for _, m := range []models.MethodDescriptor{
		{Name: "create_casefile", Description: "Create a casefile", Classification: &models.Classification{Domain: "workspace", Capability: "create", IntegrationTier: "internal"}},
		{Name: "send_message", Description: "Send mail through Gmail", Classification: &models.Classification{Domain: "communication", Capability: "create", IntegrationTier: "external"}},
		{Name: "list_casefiles", Description: "List casefiles", Classification: &models.Classification{Domain: "workspace", Capability: "read", Maturity: "beta"}},
		{Name: "ping", Description: "Health check"},
	} {
		require.NoError(t, reg.RegisterMethod(m))
	}
	return reg
}

func methodNames(ms []models.MethodDescriptor) []string {
	names := []string{}
	for _, m := range ms {
		names = append(names, m.Name)
	}
	return names
}

func TestMethods(t *testing.T) {
	reg := methodRegistry(t)
	ctx := context.Background()

	cases := []struct {
		name  string
		query MethodQuery
		want  []string
	}{
		{"all", MethodQuery{}, []string{"create_casefile", "send_message", "list_casefiles", "ping"}},
		{"name keyword", MethodQuery{Text: "CASEFILE"}, []string{"create_casefile", "list_casefiles"}},
		{"description keyword", MethodQuery{Text: "gmail"}, []string{"send_message"}},
		{"domain", MethodQuery{Classification: models.Classification{Domain: "workspace"}}, []string{"create_casefile", "list_casefiles"}},
		{"capability", MethodQuery{Classification: models.Classification{Capability: "create"}}, []string{"create_casefile", "send_message"}},
		{"combined", MethodQuery{Text: "casefile", Classification: models.Classification{Domain: "workspace", Maturity: "beta"}}, []string{"list_casefiles"}},
		{"tier", MethodQuery{Classification: models.Classification{IntegrationTier: "external"}}, []string{"send_message"}},
		{"no match", MethodQuery{Text: "drive"}, []string{}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Methods(ctx, reg, tc.query)
			require.NoError(t, err)
			assert.Equal(t, tc.want, methodNames(got))
		})
	}
}

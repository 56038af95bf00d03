package search

import (
	"context"
	"fmt"
	"strings"

	"github.com/pders01/modeldrift/internal/models"
	"github.com/pders01/modeldrift/internal/registry"
)

var methodFilterKeys = []string{"domain", "subdomain", "capability", "complexity", "maturity", "integration_tier"}

// MethodQuery selects registered methods. Empty parts match everything.
type MethodQuery struct {
	Text           string
	Classification models.Classification
}

// Methods returns, in source order, the methods whose name or
// description contains q.Text case insensitively and whose
// classification equals every attribute set in q.Classification. A
// method without a classification fails any classification filter.
func Methods(ctx context.Context, src registry.MethodSource, q MethodQuery) ([]models.MethodDescriptor, error) {
	methods, err := src.ListMethods(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list methods: %w", err)
	}
	text := strings.ToLower(q.Text)
	out := []models.MethodDescriptor{}
	for _, m := range methods {
		if text != "" && !strings.Contains(strings.ToLower(m.Name), text) &&
			!strings.Contains(strings.ToLower(m.Description), text) {
			continue
		}
		if !classified(m.Classification, &q.Classification) {
			continue
		}
		out = append(out, m)
	}
	return out, nil
}

func classified(got, want *models.Classification) bool {
	for _, key := range methodFilterKeys {
		v := want.Get(key)
		if v == "" {
			continue
		}
		if got == nil || got.Get(key) != v {
			return false
		}
	}
	return true
}

package mapping

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pders01/modeldrift/internal/models"
)

func model(name string, endpoints []string, types ...string) models.DeclaredRecord {
	rec := models.DeclaredRecord{Name: name, FilePath: "app/models.py", UsedInEndpoints: endpoints}
	for i, typ := range types {
		rec.Fields = append(rec.Fields, models.Field{Name: string(rune('a' + i)), Type: typ})
	}
	return rec
}

func TestAnalyze(t *testing.T) {
	snap := &models.Snapshot{
		Models: []models.DeclaredRecord{
			model("Address", nil, "str"),
			model("Customer", []string{"GET /customers"}, "Address", "List[Order]"),
			model("Order", []string{"GET /orders", "POST /orders", "PUT /orders", "DELETE /orders"}, "Customer", "int"),
			model("Unused", nil, "int"),
		},
		Endpoints: []models.EndpointMapping{
			{Method: "GET", Path: "/customers", ResponseModel: "Customer"},
			{Method: "GET", Path: "/orders", ResponseModel: "Order"},
			{Method: "GET", Path: "/health"},
		},
	}

	a := Analyze(snap)

	customer := a.Dependencies["Customer"]
	assert.Equal(t, []string{"Address", "Order"}, customer.DependsOn)
	assert.Equal(t, []string{"Order"}, customer.UsedBy)
	// Customer -> Order -> Customer cycle stops; Address adds one level
	assert.Equal(t, 2, customer.Depth)
	assert.Equal(t, 0, a.Dependencies["Address"].Depth)

	assert.Equal(t, RiskLow, a.ImpactAnalysis["Address"].RiskLevel)
	assert.Equal(t, RiskNone, a.ImpactAnalysis["Unused"].RiskLevel)
	assert.Equal(t, 5, a.ImpactAnalysis["Order"].UsageCount)
	assert.Equal(t, RiskMedium, a.ImpactAnalysis["Order"].RiskLevel)
	assert.Empty(t, a.HighRisk)

	require.Len(t, a.ReuseMatrix, 2)
	assert.Equal(t, "Order", a.ReuseMatrix[0].Model)
	assert.Equal(t, []Orphan{{Name: "Address", File: "app/models.py", Fields: 1}, {Name: "Unused", File: "app/models.py", Fields: 1}}, a.Orphaned)

	assert.Equal(t, 4, a.Stats.TotalModels)
	assert.Equal(t, 2, a.Stats.ModelsWithEndpoints)
	assert.Equal(t, 2, a.Stats.OrphanedModels)
	assert.InDelta(t, 66.67, a.Stats.EndpointCoverage, 0.01)
	assert.InDelta(t, 1.25, a.Stats.AvgModelReuse, 0.001)
	assert.Equal(t, "Order", a.Stats.MostReusedModel)
	assert.Equal(t, []string{"Address", "Customer", "Order", "Unused"}, a.Order)
}

func TestAnalyzeEmpty(t *testing.T) {
	a := Analyze(&models.Snapshot{})
	assert.Equal(t, "N/A", a.Stats.MostReusedModel)
	assert.Zero(t, a.Stats.EndpointCoverage)
	assert.Empty(t, a.ReuseMatrix)
}

func TestRiskFor(t *testing.T) {
	assert.Equal(t, RiskNone, RiskFor(0))
	assert.Equal(t, RiskLow, RiskFor(2))
	assert.Equal(t, RiskMedium, RiskFor(5))
	assert.Equal(t, RiskHigh, RiskFor(6))
}

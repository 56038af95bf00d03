package usage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pders01/modeldrift/internal/models"
)

func record(name string, fields ...string) models.RecordDescriptor {
	rec := models.RecordDescriptor{Name: name}
	for _, f := range fields {
		rec.Fields = append(rec.Fields, models.Field{Name: f, Type: "str"})
	}
	return rec
}

func sample() *Report {
	records := []models.RecordDescriptor{
		record("CreateRequest", "title", "owner_id"),
		record("CasefileResponse", "casefile_id", "title"),
		record("GrantRequest", "casefile_id", "user_id"),
		record("Legacy", "fax_number"),
	}
	methods := []models.MethodDescriptor{
		{Name: "create", RequestModel: "CreateRequest", ResponseModel: "CasefileResponse"},
		{Name: "grant", RequestModel: "GrantRequest"},
		{Name: "get", RequestModel: "Missing", ResponseModel: "CasefileResponse"},
	}
	return Analyze(methods, records)
}

func field(t *testing.T, r *Report, name string) *Field {
	t.Helper()
	for _, f := range r.Fields {
		if f.Name == name {
			return f
		}
	}
	require.Failf(t, "field not found", name)
	return nil
}

func TestAnalyzeCountsUses(t *testing.T) {
	r := sample()
	assert.Equal(t, 3, r.TotalMethods)
	assert.Equal(t, 5, r.TotalFields)

	title := field(t, r, "title")
	assert.Equal(t, 3, title.TotalUses)
	assert.Equal(t, 1, title.InputUses)
	assert.Equal(t, 2, title.OutputUses)
	assert.Equal(t, []string{"create", "get"}, title.Methods)
	assert.Equal(t, []string{"CasefileResponse", "CreateRequest"}, title.Models)
	assert.Equal(t, []Count{{Field: "casefile_id", Count: 2}, {Field: "owner_id", Count: 1}}, title.TopPairs)

	fax := field(t, r, "fax_number")
	assert.Zero(t, fax.TotalUses)
	assert.Equal(t, []string{"Legacy"}, fax.Models)
	assert.Empty(t, fax.Methods)
}

func TestReportViews(t *testing.T) {
	r := sample()

	most := r.MostUsed(2)
	require.Len(t, most, 2)
	assert.Equal(t, "casefile_id", most[0].Name)
	assert.Equal(t, "title", most[1].Name)

	unused := r.Unused()
	require.Len(t, unused, 1)
	assert.Equal(t, "fax_number", unused[0].Name)

	var rare []string
	for _, f := range r.Rare(2) {
		rare = append(rare, f.Name)
	}
	assert.Equal(t, []string{"owner_id", "user_id"}, rare)

	assert.Equal(t, []Pair{{A: "casefile_id", B: "title", Count: 2}}, r.Pairs(2))

	cov := r.Coverage()
	require.NotEmpty(t, cov)
	assert.Equal(t, "casefile_id", cov[0].Field)
	assert.InDelta(t, 100.0, cov[0].Percent, 0.001)
	assert.Equal(t, 3, cov[0].Methods)
}

func TestCoverageWithoutMethods(t *testing.T) {
	r := Analyze(nil, []models.RecordDescriptor{record("A", "x")})
	assert.Empty(t, r.Coverage())
	assert.Len(t, r.Unused(), 1)
}

// Package mapping analyses how records reference each other and how
// widely endpoints use them.
package mapping

import (
	"sort"

	"github.com/pders01/modeldrift/internal/match"
	"github.com/pders01/modeldrift/internal/models"
)

// Risk levels by usage count
const (
	RiskNone   = "none"
	RiskLow    = "low"
	RiskMedium = "medium"
	RiskHigh   = "high"
)

// Dependency lists the records one record references and is referenced by
type Dependency struct {
	Model     string   `json:"model_name"`
	DependsOn []string `json:"depends_on"`
	UsedBy    []string `json:"used_by"`
	Depth     int      `json:"depth"`
}

// Impact estimates what breaks when a record changes
type Impact struct {
	Model             string   `json:"model_name"`
	AffectedEndpoints []string `json:"affected_endpoints"`
	AffectedModels    []string `json:"affected_models"`
	RiskLevel         string   `json:"risk_level"`
	UsageCount        int      `json:"usage_count"`
}

// Stats are the headline mapping numbers
type Stats struct {
	TotalModels         int     `json:"total_models"`
	TotalEndpoints      int     `json:"total_endpoints"`
	ModelsWithEndpoints int     `json:"models_with_endpoints"`
	OrphanedModels      int     `json:"orphaned_models"`
	EndpointCoverage    float64 `json:"endpoint_coverage"`
	AvgModelReuse       float64 `json:"avg_model_reuse"`
	MostReusedModel     string  `json:"most_reused_model"`
	MostReusedCount     int     `json:"most_reused_count"`
}

// Reuse is one row of the reuse matrix
type Reuse struct {
	Model     string   `json:"model"`
	Endpoints []string `json:"endpoints"`
	Count     int      `json:"count"`
	File      string   `json:"file"`
}

// Orphan is a record no endpoint uses
type Orphan struct {
	Name   string `json:"name"`
	File   string `json:"file"`
	Fields int    `json:"fields"`
}

// Analysis is the complete mapping analysis of a snapshot
type Analysis struct {
	Stats          Stats                 `json:"stats"`
	Dependencies   map[string]Dependency `json:"dependencies"`
	ImpactAnalysis map[string]Impact     `json:"impact_analysis"`
	ReuseMatrix    []Reuse               `json:"reuse_matrix"`
	Orphaned       []Orphan              `json:"orphaned_models"`
	HighRisk       []Impact              `json:"high_risk_models"`

	// Order keeps snapshot record order for renderers
	Order []string `json:"-"`
}

// RiskFor maps a usage count to a risk level
func RiskFor(usage int) string {
	switch {
	case usage == 0:
		return RiskNone
	case usage <= 2:
		return RiskLow
	case usage <= 5:
		return RiskMedium
	default:
		return RiskHigh
	}
}

type analyzer struct {
	policy  match.Policy
	records []models.DeclaredRecord
	byName  map[string]*models.DeclaredRecord
}

// references returns the records named in the field types of rec, in
// record order, including rec itself
func (a *analyzer) references(rec *models.DeclaredRecord) []string {
	var out []string
	for i := range a.records {
		other := a.records[i].Name
		for _, f := range rec.Fields {
			if a.policy.Rank(f.Type, other) != match.RankNone {
				out = append(out, other)
				break
			}
		}
	}
	return out
}

// depth is the longest reference chain from name; a cycle ends a chain
func (a *analyzer) depth(name string, visited map[string]bool) int {
	if visited[name] {
		return 0
	}
	rec, ok := a.byName[name]
	if !ok {
		return 0
	}
	visited[name] = true
	defer delete(visited, name)

	deepest := 0
	for _, other := range a.references(rec) {
		if d := 1 + a.depth(other, visited); d > deepest {
			deepest = d
		}
	}
	return deepest
}

// Analyze computes dependencies, impact, stats, reuse and orphans.
// Type references are matched with the substring policy.
func Analyze(snap *models.Snapshot) *Analysis {
	a := &analyzer{
		policy:  match.Substring{},
		records: snap.Models,
		byName:  make(map[string]*models.DeclaredRecord, len(snap.Models)),
	}
	for i := range snap.Models {
		a.byName[snap.Models[i].Name] = &snap.Models[i]
	}

	res := &Analysis{
		Dependencies:   map[string]Dependency{},
		ImpactAnalysis: map[string]Impact{},
		ReuseMatrix:    []Reuse{},
		Orphaned:       []Orphan{},
		HighRisk:       []Impact{},
	}

	refs := make(map[string][]string, len(snap.Models))
	for i := range snap.Models {
		refs[snap.Models[i].Name] = a.references(&snap.Models[i])
	}

	for i := range snap.Models {
		rec := &snap.Models[i]
		res.Order = append(res.Order, rec.Name)

		dep := Dependency{Model: rec.Name, DependsOn: []string{}, UsedBy: []string{}}
		for _, other := range refs[rec.Name] {
			if other != rec.Name {
				dep.DependsOn = append(dep.DependsOn, other)
			}
		}
		for _, other := range snap.Models {
			if other.Name == rec.Name {
				continue
			}
			for _, r := range refs[other.Name] {
				if r == rec.Name {
					dep.UsedBy = append(dep.UsedBy, other.Name)
					break
				}
			}
		}
		dep.Depth = a.depth(rec.Name, map[string]bool{})
		res.Dependencies[rec.Name] = dep

		endpoints := append([]string{}, rec.UsedInEndpoints...)
		usage := len(endpoints) + len(dep.UsedBy)
		impact := Impact{
			Model:             rec.Name,
			AffectedEndpoints: endpoints,
			AffectedModels:    append([]string{}, dep.UsedBy...),
			RiskLevel:         RiskFor(usage),
			UsageCount:        usage,
		}
		res.ImpactAnalysis[rec.Name] = impact
		if impact.RiskLevel == RiskHigh {
			res.HighRisk = append(res.HighRisk, impact)
		}

		if len(rec.UsedInEndpoints) > 0 {
			res.ReuseMatrix = append(res.ReuseMatrix, Reuse{
				Model:     rec.Name,
				Endpoints: rec.UsedInEndpoints,
				Count:     len(rec.UsedInEndpoints),
				File:      rec.FilePath,
			})
		} else {
			res.Orphaned = append(res.Orphaned, Orphan{Name: rec.Name, File: rec.FilePath, Fields: len(rec.Fields)})
		}
	}

	sort.SliceStable(res.ReuseMatrix, func(i, j int) bool { return res.ReuseMatrix[i].Count > res.ReuseMatrix[j].Count })
	sort.SliceStable(res.HighRisk, func(i, j int) bool { return res.HighRisk[i].UsageCount > res.HighRisk[j].UsageCount })

	res.Stats = stats(snap)
	return res
}

func stats(snap *models.Snapshot) Stats {
	s := Stats{
		TotalModels:     len(snap.Models),
		TotalEndpoints:  len(snap.Endpoints),
		MostReusedModel: "N/A",
	}

	total := 0
	for i, m := range snap.Models {
		n := len(m.UsedInEndpoints)
		total += n
		if n > 0 {
			s.ModelsWithEndpoints++
		}
		if i == 0 || n > s.MostReusedCount {
			s.MostReusedModel = m.Name
			s.MostReusedCount = n
		}
	}
	s.OrphanedModels = s.TotalModels - s.ModelsWithEndpoints
	if s.TotalModels > 0 {
		s.AvgModelReuse = float64(total) / float64(s.TotalModels)
	}

	withModels := 0
	for _, ep := range snap.Endpoints {
		if ep.RequestModel != "" || ep.ResponseModel != "" {
			withModels++
		}
	}
	if s.TotalEndpoints > 0 {
		s.EndpointCoverage = float64(withModels) / float64(s.TotalEndpoints) * 100
	}
	return s
}

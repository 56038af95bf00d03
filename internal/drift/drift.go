// Package drift compares the methods inventory with the methods the code
// registers and scores how far they have diverged.
package drift

import (
	"github.com/pders01/modeldrift/internal/inventory"
	"github.com/pders01/modeldrift/internal/models"
)

// ClassificationKeys are the classification attributes compared
var ClassificationKeys = []string{"domain", "subdomain", "capability", "complexity", "maturity"}

// Weights per category
const (
	WeightNew            = 1
	WeightDeleted        = 3
	WeightSignature      = 2
	WeightClassification = 1
	WeightVersion        = 1
)

// Severity levels
const (
	SeverityNone   = "none"
	SeverityLow    = "low"
	SeverityMedium = "medium"
	SeverityHigh   = "high"
)

// NewMethod is in code but not in the inventory
type NewMethod struct {
	Method         string                 `json:"method"`
	RequestModel   string                 `json:"request_model"`
	ResponseModel  string                 `json:"response_model"`
	Classification *models.Classification `json:"classification"`
}

// DeletedMethod is an internal inventory method missing from code
type DeletedMethod struct {
	Method      string `json:"method"`
	WasInternal bool   `json:"was_internal"`
}

// Signature is a request/response pair
type Signature struct {
	Request  string `json:"request"`
	Response string `json:"response"`
}

// ChangedSignature is a method whose models differ
type ChangedSignature struct {
	Method    string    `json:"method"`
	Inventory Signature `json:"inventory"`
	Code      Signature `json:"code"`
}

// FieldChange is one differing classification attribute
type FieldChange struct {
	Field     string `json:"field"`
	Inventory string `json:"inventory"`
	Code      string `json:"code"`
}

// ChangedClassification is a method whose classification differs
type ChangedClassification struct {
	Method  string        `json:"method"`
	Changes []FieldChange `json:"changes"`
}

// VersionChange is a method whose declared version differs
type VersionChange struct {
	Method    string `json:"method"`
	Inventory string `json:"inventory"`
	Code      string `json:"code"`
}

// Report lists every drift item by category
type Report struct {
	NewMethods            []NewMethod             `json:"new_methods"`
	DeletedMethods        []DeletedMethod         `json:"deleted_methods"`
	ChangedSignatures     []ChangedSignature      `json:"changed_signatures"`
	ChangedClassification []ChangedClassification `json:"changed_classification"`
	VersionChanges        []VersionChange         `json:"version_changes"`
}

// Score summarises a report
type Score struct {
	TotalChanges   int    `json:"total_changes"`
	DriftScore     int    `json:"drift_score"`
	Severity       string `json:"severity"`
	RequiresUpdate bool   `json:"requires_update"`
}

// Detect compares inv with the code methods. New methods follow code
// order, everything else follows inventory order. Deleted methods are
// only reported for the internal tier. Classification is compared only
// when the code side carries one; versions only when both sides do.
func Detect(inv *inventory.Inventory, code []models.MethodDescriptor) *Report {
	r := &Report{
		NewMethods:            []NewMethod{},
		DeletedMethods:        []DeletedMethod{},
		ChangedSignatures:     []ChangedSignature{},
		ChangedClassification: []ChangedClassification{},
		VersionChanges:        []VersionChange{},
	}

	codeByName := make(map[string]*models.MethodDescriptor, len(code))
	for i := range code {
		codeByName[code[i].Name] = &code[i]
	}

	for _, cm := range code {
		if _, ok := inv.Method(cm.Name); ok {
			continue
		}
		r.NewMethods = append(r.NewMethods, NewMethod{
			Method:         cm.Name,
			RequestModel:   cm.RequestModel,
			ResponseModel:  cm.ResponseModel,
			Classification: cm.Classification,
		})
	}

	for _, im := range inv.Methods {
		cm, ok := codeByName[im.Name]
		if !ok {
			if im.Tier() == inventory.TierInternal {
				r.DeletedMethods = append(r.DeletedMethods, DeletedMethod{Method: im.Name, WasInternal: true})
			}
			continue
		}

		if im.Models.Request != cm.RequestModel || im.Models.Response != cm.ResponseModel {
			r.ChangedSignatures = append(r.ChangedSignatures, ChangedSignature{
				Method:    im.Name,
				Inventory: Signature{Request: im.Models.Request, Response: im.Models.Response},
				Code:      Signature{Request: cm.RequestModel, Response: cm.ResponseModel},
			})
		}

		if cm.Classification != nil {
			var changes []FieldChange
			for _, key := range ClassificationKeys {
				want, got := im.Classification.Get(key), cm.Classification.Get(key)
				if want != got {
					changes = append(changes, FieldChange{Field: key, Inventory: want, Code: got})
				}
			}
			if len(changes) > 0 {
				r.ChangedClassification = append(r.ChangedClassification, ChangedClassification{Method: im.Name, Changes: changes})
			}
		}

		if im.Version != "" && cm.Version != "" && im.Version != cm.Version {
			r.VersionChanges = append(r.VersionChanges, VersionChange{Method: im.Name, Inventory: im.Version, Code: cm.Version})
		}
	}
	return r
}

// Calculate weighs the report into a score
func Calculate(r *Report) Score {
	total := len(r.NewMethods) + len(r.DeletedMethods) + len(r.ChangedSignatures) +
		len(r.ChangedClassification) + len(r.VersionChanges)
	score := len(r.NewMethods)*WeightNew +
		len(r.DeletedMethods)*WeightDeleted +
		len(r.ChangedSignatures)*WeightSignature +
		len(r.ChangedClassification)*WeightClassification +
		len(r.VersionChanges)*WeightVersion

	return Score{
		TotalChanges:   total,
		DriftScore:     score,
		Severity:       SeverityFor(score),
		RequiresUpdate: total > 0,
	}
}

// SeverityFor maps a drift score to its severity
func SeverityFor(score int) string {
	switch {
	case score == 0:
		return SeverityNone
	case score <= 3:
		return SeverityLow
	case score <= 10:
		return SeverityMedium
	default:
		return SeverityHigh
	}
}

package inventory

import (
	"fmt"
	"strings"

	"github.com/pders01/modeldrift/internal/models"
)

// Issue codes reported by Validate
const (
	IssueRequestMismatch  = "request_model_mismatch"
	IssueResponseMismatch = "response_model_mismatch"
	IssueNotRegistered    = "missing_from_registry"
	IssueNotInServiceMap  = "missing_from_service_map"
	IssueHybridNotFound   = "hybrid_not_found"
	IssueRequestNotFound  = "model_not_found_request"
	IssueResponseNotFound = "model_not_found_response"
	SourceRegistry        = "registry"
	SourceServiceMap      = "service_map"
)

// Finding is one validation outcome for a method
type Finding struct {
	Method  string   `json:"method"`
	Tier    string   `json:"integration_tier,omitempty"`
	Issue   string   `json:"issue,omitempty"`
	Message string   `json:"message,omitempty"`
	Sources []string `json:"source,omitempty"`
	Module  string   `json:"module,omitempty"`
	Model   string   `json:"model,omitempty"`
	Want    string   `json:"inventory,omitempty"`
	Got     string   `json:"code,omitempty"`
}

// Summary counts validation outcomes
type Summary struct {
	Valid    int `json:"valid_count"`
	Warnings int `json:"warning_count"`
	Errors   int `json:"error_count"`
	Total    int `json:"total"`
}

// Result is the outcome of Validate
type Result struct {
	Valid    []Finding `json:"valid"`
	Warnings []Finding `json:"warnings"`
	Errors   []Finding `json:"errors"`
	Summary  Summary   `json:"summary"`
}

// OK reports whether no errors were found
func (r *Result) OK() bool {
	return len(r.Errors) == 0
}

// Validate cross-checks the inventory against the registered methods,
// the service class -> module map and the known record names.
// Internal methods must be registered; external ones need their
// implementation class in the service map; hybrid ones need either.
// Only a missing internal method is an error.
func Validate(inv *Inventory, registered []models.MethodDescriptor, serviceMap map[string]string, knownModels map[string]bool) *Result {
	res := &Result{Valid: []Finding{}, Warnings: []Finding{}, Errors: []Finding{}}

	byName := make(map[string]models.MethodDescriptor, len(registered))
	for _, m := range registered {
		byName[m.Name] = m
	}

	for _, m := range inv.Methods {
		base := Finding{Method: m.Name, Tier: m.Tier()}

		switch m.Tier() {
		case TierInternal:
			code, ok := byName[m.Name]
			if !ok {
				f := base
				f.Issue = IssueNotRegistered
				f.Message = fmt.Sprintf("Internal method '%s' not in method registry", m.Name)
				res.Errors = append(res.Errors, f)
				break
			}
			if m.Models.Request != code.RequestModel {
				f := base
				f.Issue, f.Want, f.Got = IssueRequestMismatch, m.Models.Request, code.RequestModel
				res.Warnings = append(res.Warnings, f)
			}
			if m.Models.Response != code.ResponseModel {
				f := base
				f.Issue, f.Want, f.Got = IssueResponseMismatch, m.Models.Response, code.ResponseModel
				res.Warnings = append(res.Warnings, f)
			}
			v := base
			v.Sources = []string{SourceRegistry}
			res.Valid = append(res.Valid, v)

		case TierExternal:
			module, ok := lookupService(serviceMap, m.Implementation.Class)
			if !ok {
				f := base
				f.Issue = IssueNotInServiceMap
				f.Message = fmt.Sprintf("External method class '%s' not in service map", m.Implementation.Class)
				res.Warnings = append(res.Warnings, f)
				break
			}
			v := base
			v.Sources = []string{SourceServiceMap}
			v.Module = module
			res.Valid = append(res.Valid, v)

		case TierHybrid:
			_, inRegistry := byName[m.Name]
			_, inServiceMap := lookupService(serviceMap, m.Implementation.Class)
			if !inRegistry && !inServiceMap {
				f := base
				f.Issue = IssueHybridNotFound
				f.Message = fmt.Sprintf("Hybrid method '%s' not in method registry or service map", m.Name)
				res.Warnings = append(res.Warnings, f)
				break
			}
			v := base
			if inRegistry {
				v.Sources = append(v.Sources, SourceRegistry)
			}
			if inServiceMap {
				v.Sources = append(v.Sources, SourceServiceMap)
			}
			res.Valid = append(res.Valid, v)
		}

		for _, ref := range []struct{ name, issue string }{
			{m.Models.Request, IssueRequestNotFound},
			{m.Models.Response, IssueResponseNotFound},
		} {
			if ref.name != "" && knownModels != nil && !knownModels[ref.name] {
				res.Warnings = append(res.Warnings, Finding{
					Method:  m.Name,
					Issue:   ref.issue,
					Model:   ref.name,
					Message: fmt.Sprintf("Model '%s' not found in codebase", ref.name),
				})
			}
		}
	}

	res.Summary = Summary{
		Valid:    len(res.Valid),
		Warnings: len(res.Warnings),
		Errors:   len(res.Errors),
		Total:    len(res.Valid) + len(res.Warnings) + len(res.Errors),
	}
	return res
}

// lookupService finds class in the service map. Config loaders fold map
// keys to lower case, so an exact miss falls back to a case-insensitive
// match.
func lookupService(serviceMap map[string]string, class string) (string, bool) {
	if module, ok := serviceMap[class]; ok {
		return module, true
	}
	for k, module := range serviceMap {
		if strings.EqualFold(k, class) {
			return module, true
		}
	}
	return "", false
}

// Package endpoint recognises route-decorated callables and links them
// to the records they accept and return.
package endpoint

import (
	"strings"

	"github.com/pders01/modeldrift/internal/match"
	"github.com/pders01/modeldrift/internal/models"
)

// Verbs are the decorator names treated as HTTP routes
var Verbs = []string{"get", "post", "put", "patch", "delete", "options", "head"}

// Detector turns callables into endpoint mappings
type Detector struct {
	Policy match.Policy
	// MatchAttributeTail also accepts qualified decorators such as
	// router.get by their last segment
	MatchAttributeTail bool
}

// NewDetector returns a detector using the ranked match policy
func NewDetector(matchTail bool) *Detector {
	return &Detector{Policy: match.Ranked{}, MatchAttributeTail: matchTail}
}

func (d *Detector) verb(name string) (string, bool) {
	name = strings.ToLower(name)
	if d.MatchAttributeTail {
		if i := strings.LastIndex(name, "."); i >= 0 {
			name = name[i+1:]
		}
	}
	for _, v := range Verbs {
		if name == v {
			return strings.ToUpper(v), true
		}
	}
	return "", false
}

// Detect returns the mapping for fn, or false when fn has no route
// decorator and references no known record
func (d *Detector) Detect(fn *models.DeclaredCallable, recordNames []string) (models.EndpointMapping, bool) {
	ep := models.EndpointMapping{
		FunctionName: fn.Name,
		FilePath:     fn.FilePath,
		LineNumber:   fn.LineNumber,
		ClassName:    fn.ClassName,
		Tags:         []string{},
	}

	for _, call := range fn.DecoratorCalls {
		verb, ok := d.verb(call.Name)
		if !ok {
			continue
		}
		ep.Method = verb
		ep.Path = ""
		ep.Tags = []string{}
		ep.Deprecated = false
		if len(call.Args) > 0 && call.Args[0].Kind == models.LiteralString {
			ep.Path = call.Args[0].Str
		}
		if tags, ok := call.Keywords["tags"]; ok && tags.Kind == models.LiteralList {
			for _, item := range tags.Items {
				if item.Kind == models.LiteralString {
					ep.Tags = append(ep.Tags, item.Str)
				}
			}
		}
		if dep, ok := call.Keywords["deprecated"]; ok && dep.Kind == models.LiteralBool {
			ep.Deprecated = dep.Bool
		}
	}

	policy := d.Policy
	if policy == nil {
		policy = match.Ranked{}
	}
	paramTypes := make([]string, 0, len(fn.Parameters))
	for _, p := range fn.Parameters {
		if p.Type != "" {
			paramTypes = append(paramTypes, p.Type)
		}
	}
	ep.RequestModel, _ = match.Best(policy, paramTypes, recordNames)
	if fn.ReturnType != "" {
		ep.ResponseModel, _ = match.Best(policy, []string{fn.ReturnType}, recordNames)
	}

	if ep.Method == "" && ep.RequestModel == "" && ep.ResponseModel == "" {
		return models.EndpointMapping{}, false
	}
	if ep.Path == "" {
		ep.Path = "/" + fn.Name
	}
	ep.Summary, ep.Description = SplitDocstring(fn.Docstring)
	return ep, true
}

// DetectAll runs Detect over every callable once all records are known
// and records each route on the models it references
func (d *Detector) DetectAll(callables []models.DeclaredCallable, records []models.DeclaredRecord) []models.EndpointMapping {
	names := make([]string, len(records))
	index := make(map[string]int, len(records))
	for i := range records {
		names[i] = records[i].Name
		if _, seen := index[records[i].Name]; !seen {
			index[records[i].Name] = i
		}
	}

	endpoints := []models.EndpointMapping{}
	for i := range callables {
		ep, ok := d.Detect(&callables[i], names)
		if !ok {
			continue
		}
		endpoints = append(endpoints, ep)

		route := ep.Route()
		for _, model := range []string{ep.RequestModel, ep.ResponseModel} {
			if model == "" {
				continue
			}
			rec := &records[index[model]]
			if !contains(rec.UsedInEndpoints, route) {
				rec.UsedInEndpoints = append(rec.UsedInEndpoints, route)
			}
		}
	}
	return endpoints
}

// SplitDocstring returns the first line as summary and the remainder,
// trimmed, as description
func SplitDocstring(doc string) (summary, description string) {
	doc = strings.TrimSpace(doc)
	if doc == "" {
		return "", ""
	}
	lines := strings.SplitN(doc, "\n", 2)
	summary = strings.TrimSpace(lines[0])
	if len(lines) > 1 {
		description = strings.TrimSpace(lines[1])
	}
	return summary, description
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

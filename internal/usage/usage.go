// Package usage measures how often record fields appear in the request
// and response contracts of registered methods.
package usage

import (
	"sort"

	"github.com/pders01/modeldrift/internal/models"
)

// TopPairs is the number of co-occurring fields kept per field
const TopPairs = 5

// Count is a co-occurring field and how often it appeared alongside
type Count struct {
	Field string `json:"field"`
	Count int    `json:"count"`
}

// Field is the usage of one field name across all records
type Field struct {
	Name       string   `json:"field"`
	TotalUses  int      `json:"total_uses"`
	InputUses  int      `json:"input_uses"`
	OutputUses int      `json:"output_uses"`
	Methods    []string `json:"methods"`
	Models     []string `json:"models"`
	TopPairs   []Count  `json:"top_co_occurrences"`

	methods  map[string]bool
	models   map[string]bool
	coOccurs map[string]int
}

// Pair is two fields that appear in the same contract
type Pair struct {
	A     string `json:"field_a"`
	B     string `json:"field_b"`
	Count int    `json:"count"`
}

// Coverage is the share of methods whose contracts use a field
type Coverage struct {
	Field   string  `json:"field"`
	Percent float64 `json:"percent"`
	Methods int     `json:"methods"`
}

// Report is the usage of every known field, by name
type Report struct {
	TotalMethods int      `json:"total_methods"`
	TotalFields  int      `json:"total_fields"`
	Fields       []*Field `json:"fields"`
}

// Analyze counts, for every method, each field of its request record as
// an input use and each field of its response record as an output use.
// Fields of records no method references are listed with zero uses.
// Method models unknown to records contribute nothing.
func Analyze(methods []models.MethodDescriptor, records []models.RecordDescriptor) *Report {
	byName := make(map[string]*models.RecordDescriptor, len(records))
	for i := range records {
		byName[records[i].Name] = &records[i]
	}
	fields := map[string]*Field{}
	get := func(name string) *Field {
		f, ok := fields[name]
		if !ok {
			f = &Field{
				Name:     name,
				methods:  map[string]bool{},
				models:   map[string]bool{},
				coOccurs: map[string]int{},
			}
			fields[name] = f
		}
		return f
	}

	use := func(method, model string, input bool) {
		rec, ok := byName[model]
		if !ok {
			return
		}
		for _, fd := range rec.Fields {
			f := get(fd.Name)
			f.TotalUses++
			if input {
				f.InputUses++
			} else {
				f.OutputUses++
			}
			f.methods[method] = true
			f.models[model] = true
			for _, other := range rec.Fields {
				if other.Name != fd.Name {
					f.coOccurs[other.Name]++
				}
			}
		}
	}
	for _, m := range methods {
		use(m.Name, m.RequestModel, true)
		use(m.Name, m.ResponseModel, false)
	}

	for _, rec := range records {
		for _, fd := range rec.Fields {
			get(fd.Name).models[rec.Name] = true
		}
	}

	r := &Report{TotalMethods: len(methods), Fields: make([]*Field, 0, len(fields))}
	for _, f := range fields {
		f.Methods = sortedKeys(f.methods)
		f.Models = sortedKeys(f.models)
		f.TopPairs = topCounts(f.coOccurs, TopPairs)
		r.Fields = append(r.Fields, f)
	}
	sort.Slice(r.Fields, func(i, j int) bool { return r.Fields[i].Name < r.Fields[j].Name })
	r.TotalFields = len(r.Fields)
	return r
}

// MostUsed returns the n fields with the most uses
func (r *Report) MostUsed(n int) []*Field {
	out := append([]*Field(nil), r.Fields...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].TotalUses > out[j].TotalUses })
	if len(out) > n {
		out = out[:n]
	}
	return out
}

// Unused returns the fields no method contract uses
func (r *Report) Unused() []*Field {
	out := []*Field{}
	for _, f := range r.Fields {
		if f.TotalUses == 0 {
			out = append(out, f)
		}
	}
	return out
}

// Rare returns used fields with fewer than threshold uses, least used
// first
func (r *Report) Rare(threshold int) []*Field {
	out := []*Field{}
	for _, f := range r.Fields {
		if f.TotalUses > 0 && f.TotalUses < threshold {
			out = append(out, f)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].TotalUses < out[j].TotalUses })
	return out
}

// Pairs returns field pairs that share a contract at least atLeast times,
// most frequent first
func (r *Report) Pairs(atLeast int) []Pair {
	out := []Pair{}
	for _, f := range r.Fields {
		for other, n := range f.coOccurs {
			if n >= atLeast && f.Name < other {
				out = append(out, Pair{A: f.Name, B: other, Count: n})
			}
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		if out[i].A != out[j].A {
			return out[i].A < out[j].A
		}
		return out[i].B < out[j].B
	})
	return out
}

// Coverage returns, for every used field, the percentage of methods whose
// contracts include it, highest first
func (r *Report) Coverage() []Coverage {
	out := []Coverage{}
	if r.TotalMethods == 0 {
		return out
	}
	for _, f := range r.Fields {
		if f.TotalUses == 0 {
			continue
		}
		out = append(out, Coverage{
			Field:   f.Name,
			Percent: float64(len(f.Methods)) / float64(r.TotalMethods) * 100,
			Methods: len(f.Methods),
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Percent > out[j].Percent })
	return out
}

func sortedKeys(m map[string]bool) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func topCounts(m map[string]int, n int) []Count {
	out := make([]Count, 0, len(m))
	for k, v := range m {
		out = append(out, Count{Field: k, Count: v})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Field < out[j].Field
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}

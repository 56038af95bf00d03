package match

import "github.com/pders01/modeldrift/internal/models"

// MatchType tells how two fields were paired
type MatchType string

const (
	MatchExact    MatchType = "exact"
	MatchSemantic MatchType = "semantic"
)

// FieldMapping pairs a source field with a target field
type FieldMapping struct {
	SourceField    string    `json:"source_field"`
	TargetField    string    `json:"target_field"`
	SourceModel    string    `json:"source_model"`
	TargetModel    string    `json:"target_model"`
	SourceType     string    `json:"source_type"`
	TargetType     string    `json:"target_type"`
	TypeCompatible bool      `json:"type_compatible"`
	Match          MatchType `json:"match_type"`
	Notes          string    `json:"notes,omitempty"`
}

// SemanticPair maps a source field name onto a differently named target
type SemanticPair struct {
	Source string
	Target string
}

// DefaultSemanticPairs are the conventional id renames between records
var DefaultSemanticPairs = []SemanticPair{
	{"id", "casefile_id"},
	{"casefile_id", "id"},
	{"user_id", "owner_id"},
	{"owner_id", "user_id"},
}

// Fields maps fields of source onto target: same-named fields first in
// source declaration order, then the semantic pairs that apply.
// Type compatibility here is plain text equality.
func Fields(source, target *models.RecordDescriptor, pairs []SemanticPair) []FieldMapping {
	var mappings []FieldMapping
	for _, sf := range source.Fields {
		tf, ok := target.FieldByName(sf.Name)
		if !ok {
			continue
		}
		m := newMapping(source, target, sf, tf, MatchExact)
		if !m.TypeCompatible {
			m.Notes = "Type mismatch: " + sf.Type + " vs " + tf.Type
		}
		mappings = append(mappings, m)
	}

	for _, pair := range pairs {
		sf, ok := source.FieldByName(pair.Source)
		if !ok {
			continue
		}
		tf, ok := target.FieldByName(pair.Target)
		if !ok {
			continue
		}
		m := newMapping(source, target, sf, tf, MatchSemantic)
		m.Notes = "Semantic mapping"
		mappings = append(mappings, m)
	}
	return mappings
}

func newMapping(source, target *models.RecordDescriptor, sf, tf models.Field, kind MatchType) FieldMapping {
	return FieldMapping{
		SourceField:    sf.Name,
		TargetField:    tf.Name,
		SourceModel:    source.Name,
		TargetModel:    target.Name,
		SourceType:     sf.Type,
		TargetType:     tf.Type,
		TypeCompatible: sf.Type == tf.Type,
		Match:          kind,
	}
}

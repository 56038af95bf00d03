// Package diff compares the records of two snapshots.
package diff

import "github.com/pders01/modeldrift/internal/models"

// index keeps records by name in first-seen order; a later record with
// the same name replaces the earlier one
type index struct {
	names   []string
	records map[string]*models.DeclaredRecord
}

func newIndex(records []models.DeclaredRecord) index {
	idx := index{records: make(map[string]*models.DeclaredRecord, len(records))}
	for i := range records {
		name := records[i].Name
		if _, ok := idx.records[name]; !ok {
			idx.names = append(idx.names, name)
		}
		idx.records[name] = &records[i]
	}
	return idx
}

type fieldIndex struct {
	names  []string
	fields map[string]models.Field
}

func newFieldIndex(fields []models.Field) fieldIndex {
	idx := fieldIndex{fields: make(map[string]models.Field, len(fields))}
	for _, f := range fields {
		if _, ok := idx.fields[f.Name]; !ok {
			idx.names = append(idx.names, f.Name)
		}
		idx.fields[f.Name] = f
	}
	return idx
}

// Compare computes the change set from previous to current. Records are
// identified by name only; a record is modified when its fingerprint
// text differs. Every removal, required addition, field removal and
// type change is reported as a high severity breaking change.
func Compare(previous, current []models.DeclaredRecord) *models.ChangeSet {
	changes := models.NewChangeSet()
	prev := newIndex(previous)
	cur := newIndex(current)

	for _, name := range cur.names {
		if _, ok := prev.records[name]; !ok {
			changes.ModelsAdded = append(changes.ModelsAdded, name)
		}
	}

	for _, name := range prev.names {
		if _, ok := cur.records[name]; !ok {
			changes.ModelsRemoved = append(changes.ModelsRemoved, name)
			changes.BreakingChanges = append(changes.BreakingChanges, models.BreakingChange{
				Type:     models.ModelRemoved,
				Model:    name,
				Severity: models.SeverityHigh,
			})
		}
	}

	for _, name := range cur.names {
		before, ok := prev.records[name]
		if !ok {
			continue
		}
		after := cur.records[name]
		if after.Hash == before.Hash {
			continue
		}
		changes.ModelsModified = append(changes.ModelsModified, name)
		compareFields(changes, name, before.Fields, after.Fields)
	}
	return changes
}

func compareFields(changes *models.ChangeSet, model string, before, after []models.Field) {
	prev := newFieldIndex(before)
	cur := newFieldIndex(after)

	for _, name := range cur.names {
		if _, ok := prev.fields[name]; ok {
			continue
		}
		changes.FieldsAdded[model] = append(changes.FieldsAdded[model], name)
		if cur.fields[name].Required {
			changes.BreakingChanges = append(changes.BreakingChanges, models.BreakingChange{
				Type:     models.RequiredFieldAdded,
				Model:    model,
				Field:    name,
				Severity: models.SeverityHigh,
			})
		}
	}

	for _, name := range prev.names {
		if _, ok := cur.fields[name]; ok {
			continue
		}
		changes.FieldsRemoved[model] = append(changes.FieldsRemoved[model], name)
		changes.BreakingChanges = append(changes.BreakingChanges, models.BreakingChange{
			Type:     models.FieldRemoved,
			Model:    model,
			Field:    name,
			Severity: models.SeverityHigh,
		})
	}

	for _, name := range cur.names {
		old, ok := prev.fields[name]
		if !ok || old.Type == cur.fields[name].Type {
			continue
		}
		changes.FieldsModified[model] = append(changes.FieldsModified[model], name)
		changes.BreakingChanges = append(changes.BreakingChanges, models.BreakingChange{
			Type:     models.FieldTypeChanged,
			Model:    model,
			Field:    name,
			OldType:  old.Type,
			NewType:  cur.fields[name].Type,
			Severity: models.SeverityHigh,
		})
	}
}

// Snapshots compares two snapshots
func Snapshots(previous, current *models.Snapshot) *models.ChangeSet {
	return Compare(previous.Models, current.Models)
}

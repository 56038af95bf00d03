// Package registry provides record and method descriptors to the
// validators, either from extracted source or from an explicit registry
// exported by the running application.
package registry

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/pders01/modeldrift/internal/models"
)

// ErrRecordNotFound is returned when no provider record has the name
var ErrRecordNotFound = errors.New("record not found")

// Provider lists typed record descriptors
type Provider interface {
	ListRecords(ctx context.Context) ([]models.RecordDescriptor, error)
}

// MethodSource lists the methods registered by the application
type MethodSource interface {
	ListMethods(ctx context.Context) ([]models.MethodDescriptor, error)
}

// Lookup finds a record by exact name
func Lookup(ctx context.Context, p Provider, name string) (*models.RecordDescriptor, error) {
	records, err := p.ListRecords(ctx)
	if err != nil {
		return nil, err
	}
	for i := range records {
		if records[i].Name == name {
			return &records[i], nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrRecordNotFound, name)
}

// Names returns the record names a provider knows
func Names(ctx context.Context, p Provider) (map[string]bool, error) {
	records, err := p.ListRecords(ctx)
	if err != nil {
		return nil, err
	}
	names := make(map[string]bool, len(records))
	for _, r := range records {
		names[r.Name] = true
	}
	return names, nil
}

// Registry is an explicit in-process set of records and methods. A
// field's Required flag is taken as declared, the way the application
// schema reports it.
type Registry struct {
	records  []models.RecordDescriptor
	methods  []models.MethodDescriptor
	validate *validator.Validate
}

// New returns an empty registry
func New() *Registry {
	return &Registry{validate: validator.New()}
}

// Register adds or replaces a record
func (r *Registry) Register(rec models.RecordDescriptor) error {
	if err := r.validate.Struct(rec); err != nil {
		return fmt.Errorf("invalid record %q: %w", rec.Name, err)
	}
	for i := range r.records {
		if r.records[i].Name == rec.Name {
			r.records[i] = rec
			return nil
		}
	}
	r.records = append(r.records, rec)
	return nil
}

// RegisterMethod adds or replaces a method
func (r *Registry) RegisterMethod(m models.MethodDescriptor) error {
	if err := r.validate.Struct(m); err != nil {
		return fmt.Errorf("invalid method %q: %w", m.Name, err)
	}
	for i := range r.methods {
		if r.methods[i].Name == m.Name {
			r.methods[i] = m
			return nil
		}
	}
	r.methods = append(r.methods, m)
	return nil
}

// ListRecords returns the registered records in registration order
func (r *Registry) ListRecords(ctx context.Context) ([]models.RecordDescriptor, error) {
	out := make([]models.RecordDescriptor, len(r.records))
	copy(out, r.records)
	return out, nil
}

// ListMethods returns the registered methods in registration order
func (r *Registry) ListMethods(ctx context.Context) ([]models.MethodDescriptor, error) {
	out := make([]models.MethodDescriptor, len(r.methods))
	copy(out, r.methods)
	return out, nil
}

// SourceProvider serves records extracted from source. A field is
// required when it has no default.
type SourceProvider struct {
	snap *models.Snapshot
}

// NewSourceProvider wraps an extracted snapshot
func NewSourceProvider(snap *models.Snapshot) *SourceProvider {
	return &SourceProvider{snap: snap}
}

func (p *SourceProvider) ListRecords(ctx context.Context) ([]models.RecordDescriptor, error) {
	out := make([]models.RecordDescriptor, 0, len(p.snap.Models))
	for _, rec := range p.snap.Models {
		d := models.DescriptorFromRecord(rec)
		for i := range d.Fields {
			d.Fields[i].Required = !d.Fields[i].HasDefault()
		}
		out = append(out, d)
	}
	return out, nil
}

// SourceMethods derives methods from the endpoints of a snapshot; the
// class owning a route handler is its service class
type SourceMethods struct {
	snap *models.Snapshot
}

// NewSourceMethods wraps an extracted snapshot
func NewSourceMethods(snap *models.Snapshot) *SourceMethods {
	return &SourceMethods{snap: snap}
}

func (s *SourceMethods) ListMethods(ctx context.Context) ([]models.MethodDescriptor, error) {
	seen := map[string]int{}
	var out []models.MethodDescriptor
	for _, ep := range s.snap.Endpoints {
		m := models.MethodDescriptor{
			Name:          ep.FunctionName,
			ServiceClass:  ep.ClassName,
			RequestModel:  ep.RequestModel,
			ResponseModel: ep.ResponseModel,
			Description:   ep.Summary,
			Version:       ep.Version,
		}
		if i, ok := seen[m.Name]; ok {
			out[i] = m
			continue
		}
		seen[m.Name] = len(out)
		out = append(out, m)
	}
	return out, nil
}

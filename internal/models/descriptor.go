package models

// RecordDescriptor is a provider-neutral view of a typed record
type RecordDescriptor struct {
	Name        string  `json:"name" yaml:"name" validate:"required"`
	Module      string  `json:"module,omitempty" yaml:"module,omitempty"`
	Description string  `json:"description,omitempty" yaml:"description,omitempty"`
	Fields      []Field `json:"fields" yaml:"fields" validate:"dive"`
}

// FieldByName returns the named field, if present
func (d *RecordDescriptor) FieldByName(name string) (Field, bool) {
	for _, f := range d.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// DescriptorFromRecord converts an extracted record
func DescriptorFromRecord(r DeclaredRecord) RecordDescriptor {
	fields := make([]Field, len(r.Fields))
	copy(fields, r.Fields)
	return RecordDescriptor{
		Name:        r.Name,
		Module:      r.Module,
		Description: r.Docstring,
		Fields:      fields,
	}
}

// Classification describes how a method is categorised
type Classification struct {
	Domain          string `json:"domain,omitempty" yaml:"domain,omitempty"`
	Subdomain       string `json:"subdomain,omitempty" yaml:"subdomain,omitempty"`
	Capability      string `json:"capability,omitempty" yaml:"capability,omitempty"`
	Complexity      string `json:"complexity,omitempty" yaml:"complexity,omitempty"`
	Maturity        string `json:"maturity,omitempty" yaml:"maturity,omitempty"`
	IntegrationTier string `json:"integration_tier,omitempty" yaml:"integration_tier,omitempty" validate:"omitempty,oneof=internal external hybrid"`
}

// Get returns a classification attribute by key
func (c *Classification) Get(key string) string {
	switch key {
	case "domain":
		return c.Domain
	case "subdomain":
		return c.Subdomain
	case "capability":
		return c.Capability
	case "complexity":
		return c.Complexity
	case "maturity":
		return c.Maturity
	case "integration_tier":
		return c.IntegrationTier
	}
	return ""
}

// MethodDescriptor is a registered method of the analysed application
type MethodDescriptor struct {
	Name           string          `json:"method_name" yaml:"method_name" validate:"required"`
	ServiceClass   string          `json:"service_class,omitempty" yaml:"service_class,omitempty"`
	RequestModel   string          `json:"request_model,omitempty" yaml:"request_model,omitempty"`
	ResponseModel  string          `json:"response_model,omitempty" yaml:"response_model,omitempty"`
	Description    string          `json:"description,omitempty" yaml:"description,omitempty"`
	Version        string          `json:"version,omitempty" yaml:"version,omitempty"`
	Classification *Classification `json:"classification,omitempty" yaml:"classification,omitempty"`
}

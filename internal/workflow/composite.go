package workflow

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/pders01/modeldrift/internal/flow"
	"github.com/pders01/modeldrift/internal/models"
)

// Mapping feeds an output field of the previous step into this one
type Mapping struct {
	SourceMethod string
	SourceField  string
	TargetField  string
	Compatible   bool
	Reason       string
}

// Step is one method call of a composite workflow
type Step struct {
	Method      string
	Description string
	Inputs      []string
	Mappings    []Mapping
	Outputs     []string
	// Required lists the request fields without a default
	Required []string
}

// Composite is a named chain of methods
type Composite struct {
	Name        string
	Description string
	Steps       []Step
	Parameters  []string
	Returns     []string
}

// DefaultName derives a workflow name from the first three methods
func DefaultName(methods []string) string {
	if len(methods) > 3 {
		methods = methods[:3]
	}
	return strings.Join(methods, "_") + "_workflow"
}

// Build assembles a composite from the named methods. With autoMap each
// step maps the previous step's outputs onto its inputs by exact name,
// or by both names containing "id".
func Build(names []string, methods []models.MethodDescriptor, records []models.RecordDescriptor, name string, autoMap bool) (*Composite, error) {
	byMethod := make(map[string]models.MethodDescriptor, len(methods))
	for _, m := range methods {
		byMethod[m.Name] = m
	}
	byRecord := make(map[string]*models.RecordDescriptor, len(records))
	for i := range records {
		byRecord[records[i].Name] = &records[i]
	}

	if name == "" {
		name = DefaultName(names)
	}
	c := &Composite{Name: name}

	var descs []string
	for i, n := range names {
		m, ok := byMethod[n]
		if !ok {
			return nil, fmt.Errorf("%w: %s", flow.ErrMethodNotFound, n)
		}
		desc := m.Description
		if desc == "" {
			desc = m.Name
		}
		descs = append(descs, desc)

		step := Step{Method: n, Description: desc}
		if rec := byRecord[m.RequestModel]; rec != nil {
			for _, f := range rec.Fields {
				step.Inputs = append(step.Inputs, f.Name)
				if f.Required {
					step.Required = append(step.Required, f.Name)
				}
			}
		}
		if rec := byRecord[m.ResponseModel]; rec != nil {
			for _, f := range rec.Fields {
				step.Outputs = append(step.Outputs, f.Name)
			}
		}
		if i > 0 && autoMap {
			step.Mappings = mapFields(c.Steps[i-1], step)
		}
		c.Steps = append(c.Steps, step)
	}

	c.Description = "Composite workflow: " + strings.Join(descs, " → ")
	if len(c.Steps) > 0 {
		c.Parameters = c.Steps[0].Inputs
		c.Returns = c.Steps[len(c.Steps)-1].Outputs
	}
	return c, nil
}

func mapFields(prev, next Step) []Mapping {
	var out []Mapping
	for _, o := range prev.Outputs {
		for _, in := range next.Inputs {
			m := Mapping{SourceMethod: prev.Method, SourceField: o, TargetField: in, Compatible: true}
			switch {
			case o == in:
				m.Reason = "Exact field name match"
			case strings.Contains(strings.ToLower(o), "id") && strings.Contains(strings.ToLower(in), "id"):
				m.Reason = "ID field semantic match"
			default:
				continue
			}
			out = append(out, m)
		}
	}
	return out
}

// Issues lists transitions without any mappable field and steps whose
// required inputs are not mapped
func (c *Composite) Issues() []string {
	var issues []string
	for i := 0; i+1 < len(c.Steps); i++ {
		cur, next := c.Steps[i], c.Steps[i+1]
		if len(next.Mappings) > 0 {
			continue
		}
		shared := false
		for _, o := range cur.Outputs {
			for _, in := range next.Inputs {
				if o == in {
					shared = true
				}
			}
		}
		if !shared {
			issues = append(issues, fmt.Sprintf("No field mappings found between %s → %s", cur.Method, next.Method))
		}
	}
	for i, s := range c.Steps {
		if i == 0 || len(s.Required) == 0 || len(s.Mappings) > 0 {
			continue
		}
		issues = append(issues, fmt.Sprintf("%s has required fields [%s] but no input mappings", s.Method, strings.Join(s.Required, ", ")))
	}
	return issues
}

// MarshalYAML emits the composite in definition order
func (c *Composite) MarshalYAML() (any, error) {
	root := mapping(
		"name", scalar(c.Name),
		"description", scalar(c.Description),
		"type", scalar("composite"),
	)
	steps := &yaml.Node{Kind: yaml.SequenceNode}
	for i, s := range c.Steps {
		step := mapping(
			"step", &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: fmt.Sprint(i + 1)},
			"method", scalar(s.Method),
			"description", scalar(s.Description),
		)
		if len(s.Mappings) > 0 {
			seq := &yaml.Node{Kind: yaml.SequenceNode}
			for _, m := range s.Mappings {
				seq.Content = append(seq.Content, mapping(
					"from", scalar(m.SourceMethod+"."+m.SourceField),
					"to", scalar(m.TargetField),
					"compatible", &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: fmt.Sprint(m.Compatible)},
				))
			}
			step.Content = append(step.Content, scalar("mappings"), seq)
		}
		if len(s.Outputs) > 0 {
			seq := &yaml.Node{Kind: yaml.SequenceNode}
			for _, o := range s.Outputs {
				seq.Content = append(seq.Content, scalar(o))
			}
			step.Content = append(step.Content, scalar("outputs"), seq)
		}
		steps.Content = append(steps.Content, step)
	}
	root.Content = append(root.Content, scalar("steps"), steps)

	if len(c.Parameters) > 0 {
		root.Content = append(root.Content, scalar("parameters"), fieldSpecs(c.Parameters, "Input parameter: "))
	}
	if len(c.Returns) > 0 {
		root.Content = append(root.Content, scalar("returns"), fieldSpecs(c.Returns, "Output field: "))
	}
	return root, nil
}

func fieldSpecs(fields []string, prefix string) *yaml.Node {
	n := &yaml.Node{Kind: yaml.MappingNode}
	for _, f := range fields {
		n.Content = append(n.Content, scalar(f), mapping(
			"type", scalar("string"),
			"description", scalar(prefix+f),
		))
	}
	return n
}

func mapping(kv ...any) *yaml.Node {
	n := &yaml.Node{Kind: yaml.MappingNode}
	for i := 0; i+1 < len(kv); i += 2 {
		n.Content = append(n.Content, scalar(kv[i].(string)), kv[i+1].(*yaml.Node))
	}
	return n
}

func scalar(v string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: v}
}

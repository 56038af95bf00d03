package models

// Field is one annotated attribute declared directly in a record body
type Field struct {
	Name        string  `json:"name" yaml:"name"`
	Type        string  `json:"type" yaml:"type"`
	Default     *string `json:"default" yaml:"default"`
	Required    bool    `json:"required" yaml:"required"`
	Description string  `json:"description,omitempty" yaml:"description,omitempty"`
}

// HasDefault reports whether the field declared an initializer
func (f Field) HasDefault() bool {
	return f.Default != nil
}

// DeclaredRecord is a structured-data class discovered in source
type DeclaredRecord struct {
	Name            string   `json:"name" yaml:"name"`
	FilePath        string   `json:"file_path" yaml:"file"`
	LineNumber      int      `json:"line_number" yaml:"line"`
	Module          string   `json:"module" yaml:"module"`
	BaseClasses     []string `json:"base_classes" yaml:"bases"`
	Fields          []Field  `json:"fields" yaml:"fields"`
	Docstring       string   `json:"docstring,omitempty" yaml:"description,omitempty"`
	Decorators      []string `json:"decorators" yaml:"decorators,omitempty"`
	IsPydantic      bool     `json:"is_pydantic" yaml:"is_pydantic"`
	IsDataclass     bool     `json:"is_dataclass" yaml:"is_dataclass"`
	Hash            string   `json:"hash" yaml:"hash"`
	Version         string   `json:"version,omitempty" yaml:"version,omitempty"`
	GitCommit       string   `json:"git_commit,omitempty" yaml:"git_commit,omitempty"`
	GitAuthor       string   `json:"git_author,omitempty" yaml:"git_author,omitempty"`
	LastModified    string   `json:"last_modified,omitempty" yaml:"last_modified,omitempty"`
	UsedInEndpoints []string `json:"used_in_endpoints" yaml:"used_in,omitempty"`
}

// Kind returns the record convention label used by reports
func (r *DeclaredRecord) Kind() string {
	switch {
	case r.IsPydantic && r.IsDataclass:
		return "pydantic+dataclass"
	case r.IsPydantic:
		return "pydantic"
	default:
		return "dataclass"
	}
}

// FieldByName returns the named field, if declared
func (r *DeclaredRecord) FieldByName(name string) (Field, bool) {
	for _, f := range r.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// Parameter is one positional parameter of a callable
type Parameter struct {
	Name string `json:"name" yaml:"name"`
	Type string `json:"type,omitempty" yaml:"type,omitempty"`
}

// DecoratorCall keeps the literal arguments of a call-style decorator
type DecoratorCall struct {
	Name     string             `json:"name"`
	Args     []Literal          `json:"args,omitempty"`
	Keywords map[string]Literal `json:"keywords,omitempty"`
}

// LiteralKind classifies a literal decorator argument
type LiteralKind string

const (
	LiteralString LiteralKind = "string"
	LiteralBool   LiteralKind = "bool"
	LiteralList   LiteralKind = "list"
	LiteralOther  LiteralKind = "other"
)

// Literal is a decorator argument rendered from source
type Literal struct {
	Kind  LiteralKind `json:"kind"`
	Text  string      `json:"text"`
	Str   string      `json:"str,omitempty"`
	Bool  bool        `json:"bool,omitempty"`
	Items []Literal   `json:"items,omitempty"`
}

// DeclaredCallable is a function or method discovered in source
type DeclaredCallable struct {
	Name           string          `json:"name"`
	FilePath       string          `json:"file_path"`
	LineNumber     int             `json:"line_number"`
	ClassName      string          `json:"class_name,omitempty"`
	Parameters     []Parameter     `json:"parameters"`
	ReturnType     string          `json:"return_type,omitempty"`
	Docstring      string          `json:"docstring,omitempty"`
	Decorators     []string        `json:"decorators"`
	IsAsync        bool            `json:"is_async"`
	DecoratorCalls []DecoratorCall `json:"-"`
}

// EndpointMapping is a callable recognised as an externally reachable operation
type EndpointMapping struct {
	FunctionName  string   `json:"function_name" yaml:"function"`
	FilePath      string   `json:"file_path" yaml:"file"`
	LineNumber    int      `json:"line_number" yaml:"line"`
	ClassName     string   `json:"class_name,omitempty" yaml:"class,omitempty"`
	Method        string   `json:"method" yaml:"method"`
	Path          string   `json:"path" yaml:"path"`
	Tags          []string `json:"tags" yaml:"tags,omitempty"`
	Deprecated    bool     `json:"deprecated" yaml:"deprecated,omitempty"`
	RequestModel  string   `json:"request_model,omitempty" yaml:"request,omitempty"`
	ResponseModel string   `json:"response_model,omitempty" yaml:"response,omitempty"`
	Summary       string   `json:"summary,omitempty" yaml:"summary,omitempty"`
	Description   string   `json:"description,omitempty" yaml:"-"`
	Version       string   `json:"version,omitempty" yaml:"version,omitempty"`
}

// Route returns "<VERB> <path>", or "FUNC <path>" for verb-less mappings
func (e *EndpointMapping) Route() string {
	method := e.Method
	if method == "" {
		method = "FUNC"
	}
	return method + " " + e.Path
}

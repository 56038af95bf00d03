// Package extract reads Python source files and returns the data records,
// callables and decorators they declare.
package extract

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"

	"github.com/pders01/modeldrift/internal/models"
)

var (
	// ErrSyntax is returned when the file does not parse as Python
	ErrSyntax = errors.New("syntax error")
	// ErrEncoding is returned when the file is not valid UTF-8
	ErrEncoding = errors.New("invalid encoding")
)

// Options controls which classes count as data records
type Options struct {
	ModelBaseMarker     string
	DataclassDecorators []string
}

// DefaultOptions matches pydantic models and stdlib dataclasses
func DefaultOptions() Options {
	return Options{
		ModelBaseMarker:     "BaseModel",
		DataclassDecorators: []string{"dataclass"},
	}
}

// FileResult holds everything declared in one source file
type FileResult struct {
	Path      string
	Module    string
	Records   []models.DeclaredRecord
	Callables []models.DeclaredCallable
}

// Extractor parses Python files. It holds no per-file state and a new
// tree-sitter parser is created per call.
type Extractor struct {
	opts Options
}

// New returns an extractor using opts
func New(opts Options) *Extractor {
	if opts.ModelBaseMarker == "" {
		opts.ModelBaseMarker = "BaseModel"
	}
	return &Extractor{opts: opts}
}

// Parse extracts declarations from content. relPath and module are
// recorded on the results as given.
func (e *Extractor) Parse(ctx context.Context, content []byte, relPath, module string) (*FileResult, error) {
	if !utf8.Valid(content) {
		return nil, fmt.Errorf("%s: %w", relPath, ErrEncoding)
	}

	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(python.GetLanguage())

	tree, err := parser.ParseCtx(ctx, nil, content)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", relPath, err)
	}
	defer tree.Close()

	root := tree.RootNode()
	if root == nil || root.HasError() {
		return nil, fmt.Errorf("%s: %w", relPath, ErrSyntax)
	}

	w := &fileWalker{
		opts:    e.opts,
		content: content,
		result:  &FileResult{Path: relPath, Module: module},
	}
	w.visitBlock(root, "")
	return w.result, nil
}

type fileWalker struct {
	opts    Options
	content []byte
	result  *FileResult
}

func (w *fileWalker) text(n *sitter.Node) string {
	return n.Content(w.content)
}

// visitBlock walks the statements of a module or block in source order.
// className is set only when the block is a class body.
func (w *fileWalker) visitBlock(block *sitter.Node, className string) {
	for i := 0; i < int(block.NamedChildCount()); i++ {
		w.visitStatement(block.NamedChild(i), className)
	}
}

func (w *fileWalker) visitStatement(node *sitter.Node, className string) {
	switch node.Type() {
	case "class_definition":
		w.visitClass(node, nil)
	case "function_definition":
		w.visitFunction(node, nil, className)
	case "decorated_definition":
		decorators := w.decorators(node)
		def := node.ChildByFieldName("definition")
		if def == nil {
			return
		}
		switch def.Type() {
		case "class_definition":
			w.visitClass(def, decorators)
		case "function_definition":
			w.visitFunction(def, decorators, className)
		}
	default:
		// compound statements (if, try, with, for, while, match) can hold
		// definitions; their bodies are not a class body
		for i := 0; i < int(node.NamedChildCount()); i++ {
			child := node.NamedChild(i)
			switch child.Type() {
			case "block":
				w.visitBlock(child, "")
			case "else_clause", "elif_clause", "except_clause", "finally_clause",
				"except_group_clause", "case_clause", "match_statement":
				w.visitStatement(child, "")
			default:
				if strings.HasSuffix(child.Type(), "_definition") || strings.HasSuffix(child.Type(), "_statement") {
					w.visitStatement(child, "")
				}
			}
		}
	}
}

func (w *fileWalker) visitClass(node *sitter.Node, decorators []models.DecoratorCall) {
	nameNode := node.ChildByFieldName("name")
	body := node.ChildByFieldName("body")
	if nameNode == nil {
		return
	}
	name := w.text(nameNode)

	bases := w.bases(node.ChildByFieldName("superclasses"))
	names := decoratorNames(decorators)

	isModel := false
	for _, b := range bases {
		if strings.Contains(b, w.opts.ModelBaseMarker) {
			isModel = true
			break
		}
	}
	isDataclass := false
	for _, d := range names {
		for _, marker := range w.opts.DataclassDecorators {
			if d == marker {
				isDataclass = true
			}
		}
	}

	if isModel || isDataclass {
		w.addRecord(models.DeclaredRecord{
			Name:            name,
			FilePath:        w.result.Path,
			LineNumber:      int(node.StartPoint().Row + 1),
			Module:          w.result.Module,
			BaseClasses:     bases,
			Fields:          w.fields(body),
			Docstring:       docstring(body, w.content),
			Decorators:      names,
			IsPydantic:      isModel,
			IsDataclass:     isDataclass,
			UsedInEndpoints: []string{},
		})
	}

	if body != nil {
		w.visitBlock(body, name)
	}
}

// addRecord keeps one record per name within a file; a later declaration
// replaces the earlier one in place.
func (w *fileWalker) addRecord(rec models.DeclaredRecord) {
	for i := range w.result.Records {
		if w.result.Records[i].Name == rec.Name {
			w.result.Records[i] = rec
			return
		}
	}
	w.result.Records = append(w.result.Records, rec)
}

func (w *fileWalker) bases(args *sitter.Node) []string {
	bases := []string{}
	if args == nil {
		return bases
	}
	for i := 0; i < int(args.NamedChildCount()); i++ {
		arg := args.NamedChild(i)
		switch arg.Type() {
		case "identifier":
			bases = append(bases, w.text(arg))
		case "attribute":
			bases = append(bases, w.attributeName(arg))
		}
	}
	return bases
}

func (w *fileWalker) fields(body *sitter.Node) []models.Field {
	fields := []models.Field{}
	if body == nil {
		return fields
	}
	for i := 0; i < int(body.NamedChildCount()); i++ {
		stmt := body.NamedChild(i)
		if stmt.Type() != "expression_statement" || stmt.NamedChildCount() == 0 {
			continue
		}
		assign := stmt.NamedChild(0)
		if assign.Type() != "assignment" {
			continue
		}
		target := assign.ChildByFieldName("left")
		typ := assign.ChildByFieldName("type")
		if target == nil || typ == nil || target.Type() != "identifier" {
			continue
		}

		field := models.Field{
			Name: w.text(target),
			Type: Render(typ, w.content),
		}
		if value := assign.ChildByFieldName("right"); value != nil {
			def := Render(value, w.content)
			field.Default = &def
		}
		field.Required = !field.HasDefault()
		fields = append(fields, field)
	}
	return fields
}

func (w *fileWalker) visitFunction(node *sitter.Node, decorators []models.DecoratorCall, className string) {
	nameNode := node.ChildByFieldName("name")
	if nameNode == nil {
		return
	}
	body := node.ChildByFieldName("body")

	fn := models.DeclaredCallable{
		Name:           w.text(nameNode),
		FilePath:       w.result.Path,
		LineNumber:     int(node.StartPoint().Row + 1),
		ClassName:      className,
		Parameters:     w.parameters(node.ChildByFieldName("parameters")),
		Docstring:      docstring(body, w.content),
		Decorators:     decoratorNames(decorators),
		DecoratorCalls: decorators,
	}
	if ret := node.ChildByFieldName("return_type"); ret != nil {
		fn.ReturnType = Render(ret, w.content)
	}
	for i := 0; i < int(node.ChildCount()); i++ {
		if node.Child(i).Type() == "async" {
			fn.IsAsync = true
			break
		}
	}
	w.result.Callables = append(w.result.Callables, fn)

	if body != nil {
		w.visitBlock(body, "")
	}
}

// parameters returns the positional-or-keyword parameters. Everything
// before "/" is positional-only and dropped, everything from "*" or
// "*args" on is keyword-only or variadic and ends the list.
func (w *fileWalker) parameters(params *sitter.Node) []models.Parameter {
	out := []models.Parameter{}
	if params == nil {
		return out
	}
	for i := 0; i < int(params.NamedChildCount()); i++ {
		p := params.NamedChild(i)
		switch p.Type() {
		case "positional_separator":
			out = out[:0]
			continue
		case "keyword_separator", "list_splat_pattern", "dictionary_splat_pattern":
			return out
		case "comment":
			continue
		}

		var name, typ *sitter.Node
		switch p.Type() {
		case "identifier":
			name = p
		case "typed_parameter":
			first := p.NamedChild(0)
			if first == nil || first.Type() != "identifier" {
				// *args: T or **kwargs: T
				return out
			}
			name = first
			typ = p.ChildByFieldName("type")
		case "default_parameter":
			name = p.ChildByFieldName("name")
		case "typed_default_parameter":
			name = p.ChildByFieldName("name")
			typ = p.ChildByFieldName("type")
		}
		if name == nil || name.Type() != "identifier" {
			continue
		}
		param := models.Parameter{Name: w.text(name)}
		if typ != nil {
			param.Type = Render(typ, w.content)
		}
		out = append(out, param)
	}
	return out
}

func (w *fileWalker) decorators(node *sitter.Node) []models.DecoratorCall {
	var calls []models.DecoratorCall
	for i := 0; i < int(node.NamedChildCount()); i++ {
		dec := node.NamedChild(i)
		if dec.Type() != "decorator" || dec.NamedChildCount() == 0 {
			continue
		}
		calls = append(calls, w.decorator(dec.NamedChild(0)))
	}
	return calls
}

func (w *fileWalker) decorator(expr *sitter.Node) models.DecoratorCall {
	switch expr.Type() {
	case "identifier":
		return models.DecoratorCall{Name: w.text(expr)}
	case "attribute":
		return models.DecoratorCall{Name: w.attributeName(expr)}
	case "call":
		call := models.DecoratorCall{}
		if fn := expr.ChildByFieldName("function"); fn != nil {
			switch fn.Type() {
			case "identifier":
				call.Name = w.text(fn)
			case "attribute":
				call.Name = w.attributeName(fn)
			default:
				call.Name = Render(fn, w.content)
			}
		}
		args := expr.ChildByFieldName("arguments")
		if args == nil || args.Type() != "argument_list" {
			return call
		}
		for i := 0; i < int(args.NamedChildCount()); i++ {
			arg := args.NamedChild(i)
			switch arg.Type() {
			case "comment", "list_splat", "dictionary_splat":
				continue
			case "keyword_argument":
				key := arg.ChildByFieldName("name")
				value := arg.ChildByFieldName("value")
				if key == nil || value == nil {
					continue
				}
				if call.Keywords == nil {
					call.Keywords = map[string]models.Literal{}
				}
				call.Keywords[w.text(key)] = literal(value, w.content)
			default:
				call.Args = append(call.Args, literal(arg, w.content))
			}
		}
		return call
	}
	return models.DecoratorCall{Name: Render(expr, w.content)}
}

// attributeName qualifies an attribute chain as "a.b.c". Segments that
// are not plain names (calls, subscripts) are left out.
func (w *fileWalker) attributeName(node *sitter.Node) string {
	var parts []string
	for node != nil && node.Type() == "attribute" {
		if attr := node.ChildByFieldName("attribute"); attr != nil {
			parts = append(parts, w.text(attr))
		}
		node = node.ChildByFieldName("object")
	}
	if node != nil && node.Type() == "identifier" {
		parts = append(parts, w.text(node))
	}
	for i, j := 0, len(parts)-1; i < j; i, j = i+1, j-1 {
		parts[i], parts[j] = parts[j], parts[i]
	}
	return strings.Join(parts, ".")
}

func decoratorNames(calls []models.DecoratorCall) []string {
	names := make([]string, 0, len(calls))
	for _, c := range calls {
		names = append(names, c.Name)
	}
	return names
}

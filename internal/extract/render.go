package extract

import (
	"math/big"
	"strconv"
	"strings"
	"unicode"

	sitter "github.com/smacker/go-tree-sitter"
)

type tokenKind int

const (
	tokWord tokenKind = iota
	tokOp
	tokOpen
	tokClose
	tokComma
	tokDot
	tokColon
	tokAssign
)

type token struct {
	text string
	kind tokenKind
}

// Render turns an expression node back into normalised source text:
// single spaces between words and binary operators, ", " after commas,
// no padding inside brackets, simple strings re-quoted with single quotes.
// Trailing commas and parentheses that group nothing are dropped and
// numeric literals are written in their canonical form, so layout-only
// edits render identically. When nothing can be rendered the raw node
// text with collapsed whitespace is returned instead.
func Render(node *sitter.Node, content []byte) string {
	if node == nil {
		return ""
	}
	for node.Type() == "parenthesized_expression" || node.Type() == "type" {
		inner := soleChild(node)
		if inner == nil || inner.Type() == "yield" {
			break
		}
		node = inner
	}
	var toks []token
	collectTokens(node, content, &toks)
	if len(toks) == 0 {
		return collapseSpace(node.Content(content))
	}
	return joinTokens(dropTrailingCommas(toks))
}

func collectTokens(node *sitter.Node, content []byte, toks *[]token) {
	switch node.Type() {
	case "comment", "line_continuation":
		return
	case "string":
		*toks = append(*toks, token{text: renderString(node, content), kind: tokWord})
		return
	case "concatenated_string":
		*toks = append(*toks, token{text: renderConcatenated(node, content), kind: tokWord})
		return
	case "integer":
		*toks = append(*toks, token{text: renderInteger(node.Content(content)), kind: tokWord})
		return
	case "float":
		*toks = append(*toks, token{text: renderFloat(node.Content(content)), kind: tokWord})
		return
	case "parenthesized_expression":
		if inner := soleChild(node); inner != nil && atoms[inner.Type()] {
			collectTokens(inner, content, toks)
			return
		}
	}
	if node.ChildCount() == 0 {
		text := node.Content(content)
		if strings.TrimSpace(text) == "" || text == "\\" {
			return
		}
		*toks = append(*toks, token{text: text, kind: classify(text)})
		return
	}
	for i := 0; i < int(node.ChildCount()); i++ {
		collectTokens(node.Child(i), content, toks)
	}
}

// atoms never need grouping parentheses, whatever surrounds them.
var atoms = map[string]bool{
	"identifier": true, "attribute": true, "subscript": true, "call": true,
	"string": true, "concatenated_string": true, "integer": true, "float": true,
	"true": true, "false": true, "none": true, "ellipsis": true,
	"list": true, "dictionary": true, "set": true, "tuple": true,
	"parenthesized_expression": true, "list_comprehension": true,
	"dictionary_comprehension": true, "set_comprehension": true,
	"generator_expression": true,
}

// soleChild returns the only named non-comment child of node, or nil.
func soleChild(node *sitter.Node) *sitter.Node {
	var only *sitter.Node
	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)
		if child.Type() == "comment" {
			continue
		}
		if only != nil {
			return nil
		}
		only = child
	}
	return only
}

// renderInteger writes an int literal in decimal without separators.
// Imaginary literals keep their text.
func renderInteger(text string) string {
	if strings.ContainsAny(text, "jJ") {
		return text
	}
	n, ok := new(big.Int).SetString(text, 0)
	if !ok {
		return text
	}
	return n.String()
}

// renderFloat writes a float literal the way repr(float) does: positional
// notation for exponents from -4 to 15, scientific otherwise.
func renderFloat(text string) string {
	if strings.ContainsAny(text, "jJ") {
		return text
	}
	f, err := strconv.ParseFloat(strings.ReplaceAll(text, "_", ""), 64)
	if err != nil {
		return text
	}
	sci := strconv.FormatFloat(f, 'e', -1, 64)
	exp, err := strconv.Atoi(sci[strings.IndexByte(sci, 'e')+1:])
	if err != nil {
		return text
	}
	if exp < -4 || exp >= 16 {
		return sci
	}
	pos := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.Contains(pos, ".") {
		pos += ".0"
	}
	return pos
}

// dropTrailingCommas removes a comma that directly precedes a closing
// bracket unless it is what makes a one-element tuple, as in (x,) or
// x[a,].
func dropTrailingCommas(toks []token) []token {
	out := make([]token, 0, len(toks))
	var opens []int
	for _, t := range toks {
		switch t.kind {
		case tokOpen:
			opens = append(opens, len(out))
		case tokClose:
			if len(opens) > 0 {
				open := opens[len(opens)-1]
				opens = opens[:len(opens)-1]
				if n := len(out); n > 0 && out[n-1].kind == tokComma && !singleTuple(out, open) {
					out = out[:n-1]
				}
			}
		}
		out = append(out, t)
	}
	return out
}

// singleTuple reports whether the group opened at out[open], whose last
// token is a trailing comma, is a one-element tuple display or subscript.
func singleTuple(out []token, open int) bool {
	depth := 0
	for _, t := range out[open+1 : len(out)-1] {
		switch t.kind {
		case tokOpen:
			depth++
		case tokClose:
			depth--
		case tokComma:
			if depth == 0 {
				return false
			}
		}
	}
	applied := open > 0 && (out[open-1].kind == tokClose ||
		(out[open-1].kind == tokWord && !isKeyword(out[open-1].text)))
	switch out[open].text {
	case "(":
		return !applied
	case "[":
		return applied
	}
	return false
}

func classify(text string) tokenKind {
	switch text {
	case "(", "[", "{":
		return tokOpen
	case ")", "]", "}":
		return tokClose
	case ",":
		return tokComma
	case ".":
		return tokDot
	case ":":
		return tokColon
	case "=":
		return tokAssign
	case "...":
		return tokWord
	}
	r := []rune(text)[0]
	if r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r) || r == '"' || r == '\'' {
		return tokWord
	}
	return tokOp
}

func joinTokens(toks []token) string {
	var b strings.Builder
	var brackets []string
	unary := false
	for i, t := range toks {
		if i > 0 && needSpace(toks[i-1], t, brackets, unary) {
			b.WriteByte(' ')
		}
		b.WriteString(t.text)

		unary = false
		if t.kind == tokOp && isUnaryCandidate(t.text) {
			if i == 0 {
				unary = true
			} else {
				switch toks[i-1].kind {
				case tokOpen, tokComma, tokOp, tokColon, tokAssign:
					unary = true
				}
			}
		}
		switch t.kind {
		case tokOpen:
			brackets = append(brackets, t.text)
		case tokClose:
			if len(brackets) > 0 {
				brackets = brackets[:len(brackets)-1]
			}
		}
	}
	return b.String()
}

func needSpace(prev, next token, brackets []string, prevUnary bool) bool {
	switch {
	case prev.kind == tokOpen || prev.kind == tokDot:
		return false
	case next.kind == tokClose || next.kind == tokComma || next.kind == tokDot || next.kind == tokColon:
		return false
	case prev.kind == tokAssign || next.kind == tokAssign:
		return false
	case prevUnary:
		return false
	case next.kind == tokOpen:
		return prev.kind == tokOp || prev.kind == tokComma || prev.kind == tokColon || isKeyword(prev.text)
	case prev.kind == tokComma:
		return true
	case prev.kind == tokColon:
		return len(brackets) == 0 || brackets[len(brackets)-1] != "["
	}
	return true
}

func isUnaryCandidate(op string) bool {
	switch op {
	case "-", "+", "~", "*", "**":
		return true
	}
	return false
}

func isKeyword(word string) bool {
	switch word {
	case "and", "or", "not", "in", "is", "if", "else", "lambda", "for", "await", "return", "yield":
		return true
	}
	return false
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// renderString re-quotes a simple string literal the way Python's repr
// would; formatted and otherwise unusual literals keep their text.
func renderString(node *sitter.Node, content []byte) string {
	raw := node.Content(content)
	if value, ok := bytesValue(raw); ok {
		return "b" + pyRepr(value)
	}
	value, ok := StringValue(raw)
	if !ok {
		return raw
	}
	return pyRepr(value)
}

// bytesValue evaluates a bytes literal whose value is printable ASCII.
func bytesValue(raw string) (string, bool) {
	i := strings.IndexAny(raw, `"'`)
	if i < 0 || !strings.ContainsAny(raw[:i], "bB") {
		return "", false
	}
	prefix := strings.NewReplacer("b", "", "B", "").Replace(raw[:i])
	value, ok := StringValue(prefix + raw[i:])
	if !ok {
		return "", false
	}
	for _, r := range value {
		if r > 0x7e || (r < 0x20 && r != '\n' && r != '\r' && r != '\t') {
			return "", false
		}
	}
	return value, true
}

func renderConcatenated(node *sitter.Node, content []byte) string {
	var parts []string
	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)
		if child.Type() != "string" {
			continue
		}
		value, ok := StringValue(child.Content(content))
		if !ok {
			return collapseSpace(node.Content(content))
		}
		parts = append(parts, value)
	}
	return pyRepr(strings.Join(parts, ""))
}

func pyRepr(s string) string {
	quote := byte('\'')
	if strings.ContainsRune(s, '\'') && !strings.ContainsRune(s, '"') {
		quote = '"'
	}
	var b strings.Builder
	b.WriteByte(quote)
	for _, r := range s {
		switch {
		case r == '\\':
			b.WriteString(`\\`)
		case r == rune(quote):
			b.WriteByte('\\')
			b.WriteRune(r)
		case r == '\n':
			b.WriteString(`\n`)
		case r == '\r':
			b.WriteString(`\r`)
		case r == '\t':
			b.WriteString(`\t`)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte(quote)
	return b.String()
}

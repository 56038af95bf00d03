package extract

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/pders01/modeldrift/internal/models"
)

// StringValue evaluates the text of a plain Python string literal.
// Formatted and bytes literals are not constants of type str and report false.
func StringValue(raw string) (string, bool) {
	i := 0
	for i < len(raw) && raw[i] != '"' && raw[i] != '\'' {
		i++
	}
	if i == len(raw) {
		return "", false
	}
	prefix := strings.ToLower(raw[:i])
	if strings.ContainsAny(prefix, "fb") {
		return "", false
	}
	body := raw[i:]
	var quote string
	switch {
	case strings.HasPrefix(body, `"""`), strings.HasPrefix(body, `'''`):
		quote = body[:3]
	default:
		quote = body[:1]
	}
	if len(body) < 2*len(quote) || !strings.HasSuffix(body, quote) {
		return "", false
	}
	inner := body[len(quote) : len(body)-len(quote)]
	if strings.Contains(prefix, "r") {
		return inner, true
	}
	return unescape(inner), true
}

func unescape(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' || i == len(s)-1 {
			b.WriteByte(c)
			continue
		}
		i++
		switch s[i] {
		case 'n':
			b.WriteByte('\n')
		case 't':
			b.WriteByte('\t')
		case 'r':
			b.WriteByte('\r')
		case '\\', '\'', '"':
			b.WriteByte(s[i])
		case '\n':
			// escaped newline joins lines
		default:
			b.WriteByte('\\')
			b.WriteByte(s[i])
		}
	}
	return b.String()
}

// literal converts a decorator argument into its literal form
func literal(node *sitter.Node, content []byte) models.Literal {
	lit := models.Literal{Kind: models.LiteralOther, Text: Render(node, content)}
	switch node.Type() {
	case "string":
		if v, ok := StringValue(node.Content(content)); ok {
			lit.Kind = models.LiteralString
			lit.Str = v
		}
	case "concatenated_string":
		var parts []string
		for i := 0; i < int(node.NamedChildCount()); i++ {
			v, ok := StringValue(node.NamedChild(i).Content(content))
			if !ok {
				return lit
			}
			parts = append(parts, v)
		}
		lit.Kind = models.LiteralString
		lit.Str = strings.Join(parts, "")
	case "true", "false":
		lit.Kind = models.LiteralBool
		lit.Bool = node.Type() == "true"
	case "list":
		lit.Kind = models.LiteralList
		for i := 0; i < int(node.NamedChildCount()); i++ {
			child := node.NamedChild(i)
			if child.Type() == "comment" {
				continue
			}
			lit.Items = append(lit.Items, literal(child, content))
		}
	}
	return lit
}

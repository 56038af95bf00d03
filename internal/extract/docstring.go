package extract

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
)

// docstring returns the cleaned docstring of a block, if its first
// statement is a string expression
func docstring(block *sitter.Node, content []byte) string {
	if block == nil {
		return ""
	}
	for i := 0; i < int(block.NamedChildCount()); i++ {
		stmt := block.NamedChild(i)
		if stmt.Type() == "comment" {
			continue
		}
		if stmt.Type() != "expression_statement" || stmt.NamedChildCount() == 0 {
			return ""
		}
		str := stmt.NamedChild(0)
		if str.Type() != "string" && str.Type() != "concatenated_string" {
			return ""
		}
		lit := literal(str, content)
		if lit.Str == "" {
			return ""
		}
		return cleanDoc(lit.Str)
	}
	return ""
}

// cleanDoc mirrors inspect.cleandoc: the first line loses its leading
// whitespace, the common indentation of the rest is removed, and blank
// leading and trailing lines are dropped.
func cleanDoc(doc string) string {
	lines := strings.Split(strings.ReplaceAll(doc, "\t", "        "), "\n")

	margin := -1
	for _, line := range lines[1:] {
		stripped := strings.TrimLeft(line, " ")
		if stripped == "" {
			continue
		}
		indent := len(line) - len(stripped)
		if margin < 0 || indent < margin {
			margin = indent
		}
	}

	lines[0] = strings.TrimLeft(lines[0], " \t")
	if margin > 0 {
		for i := 1; i < len(lines); i++ {
			if len(lines[i]) >= margin {
				lines[i] = lines[i][margin:]
			} else {
				lines[i] = ""
			}
		}
	}

	for len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	for len(lines) > 0 && lines[0] == "" {
		lines = lines[1:]
	}
	return strings.Join(lines, "\n")
}

package report

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/pders01/modeldrift/internal/models"
)

// DocsIndexName is the file name of the model documentation index
const DocsIndexName = "index.md"

const docsFooter = "---\n\n*Generated by modeldrift*\n"

// ModelDoc writes the markdown reference page of one record: its module,
// description, a field table and the defaults of optional fields.
// withExample appends a JSON body holding the required fields.
func ModelDoc(w io.Writer, rec models.RecordDescriptor, withExample bool) {
	fmt.Fprintf(w, "# %s\n\n", rec.Name)
	fmt.Fprintf(w, "**Module:** `%s`\n\n", docModule(rec.Module))
	if d := strings.TrimSpace(rec.Description); d != "" {
		fmt.Fprintf(w, "%s\n\n", d)
	}
	fmt.Fprint(w, "---\n\n")

	fmt.Fprint(w, "## Fields\n\n")
	fmt.Fprintln(w, "| Field | Type | Required | Description |")
	fmt.Fprintln(w, "|-------|------|----------|-------------|")
	for _, f := range rec.Fields {
		required := ""
		if f.Required {
			required = "✓"
		}
		desc := strings.TrimSpace(strings.ReplaceAll(f.Description, "\n", " "))
		if desc == "" {
			desc = "-"
		}
		fmt.Fprintf(w, "| `%s` | %s | %s | %s |\n", f.Name, cell(f.Type), required, cell(desc))
	}
	fmt.Fprintln(w)

	var defaults []models.Field
	for _, f := range rec.Fields {
		if !f.Required && f.Default != nil && *f.Default != "None" {
			defaults = append(defaults, f)
		}
	}
	if len(defaults) > 0 {
		fmt.Fprint(w, "## Field Details\n\n")
		for _, f := range defaults {
			fmt.Fprintf(w, "### `%s`\n\n", f.Name)
			fmt.Fprintf(w, "**Default:** `%s`\n\n", *f.Default)
		}
	}

	if withExample {
		fmt.Fprint(w, "---\n\n## Example\n\n```json\n{\n")
		var lines []string
		for _, f := range rec.Fields {
			if f.Required {
				lines = append(lines, fmt.Sprintf("  %q: %s", f.Name, exampleValue(f.Type)))
			}
		}
		fmt.Fprint(w, strings.Join(lines, ",\n"))
		fmt.Fprint(w, "\n}\n```\n\n")
	}

	fmt.Fprint(w, docsFooter)
}

// DocsIndex writes a page linking every record's page, grouped by module
func DocsIndex(w io.Writer, records []models.RecordDescriptor) {
	fmt.Fprint(w, "# Model Documentation Index\n\n")
	fmt.Fprintf(w, "**Total Models:** %d\n\n---\n\n", len(records))

	byModule := map[string][]string{}
	for _, r := range records {
		m := docModule(r.Module)
		byModule[m] = append(byModule[m], r.Name)
	}
	modules := make([]string, 0, len(byModule))
	for m := range byModule {
		modules = append(modules, m)
	}
	sort.Strings(modules)
	for _, m := range modules {
		fmt.Fprintf(w, "## Module: `%s`\n\n", m)
		names := byModule[m]
		sort.Strings(names)
		for _, n := range names {
			fmt.Fprintf(w, "- [%s](./%s.md)\n", n, n)
		}
		fmt.Fprintln(w)
	}
	fmt.Fprint(w, docsFooter)
}

// ModuleCounts returns how many records each module declares
func ModuleCounts(records []models.RecordDescriptor) map[string]int {
	counts := map[string]int{}
	for _, r := range records {
		counts[docModule(r.Module)]++
	}
	return counts
}

func docModule(module string) string {
	if module == "" {
		return "unknown"
	}
	return module
}

// cell escapes the characters that would break a markdown table row
func cell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}

// exampleValue picks a placeholder JSON value from a type annotation
func exampleValue(typ string) string {
	t := strings.ToLower(typ)
	switch {
	case strings.Contains(t, "str"):
		return `"example_value"`
	case strings.Contains(t, "int"):
		return "0"
	case strings.Contains(t, "bool"):
		return "true"
	case strings.Contains(t, "list"):
		return "[]"
	case strings.Contains(t, "dict"):
		return "{}"
	}
	return "null"
}

package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/pders01/modeldrift/internal/usage"
)

// UsageSummary prints the most used, unused and rarely used fields
func UsageSummary(w io.Writer, r *usage.Report, rareBelow int) {
	s := newStyles(w)
	fmt.Fprintln(w)
	fmt.Fprintln(w, s.title.Render("Field Usage Analysis"))
	fmt.Fprintln(w, strings.Repeat("=", wide))
	fmt.Fprintf(w, "Total unique fields: %d\n", r.TotalFields)
	fmt.Fprintf(w, "Total methods analyzed: %d\n\n", r.TotalMethods)

	fmt.Fprintln(w, "Top 10 Most Used Fields:")
	fmt.Fprintln(w, strings.Repeat("-", wide))
	for _, f := range r.MostUsed(10) {
		fmt.Fprintf(w, "%-25s %3d uses (%d input, %d output)\n", f.Name, f.TotalUses, f.InputUses, f.OutputUses)
		fmt.Fprintf(w, "%-25s Methods: %d, Models: %d\n", "", len(f.Methods), len(f.Models))
	}
	fmt.Fprintln(w)

	if unused := r.Unused(); len(unused) > 0 {
		fmt.Fprintln(w, s.warn.Render(fmt.Sprintf("Unused Fields (%d):", len(unused))))
		fmt.Fprintln(w, strings.Repeat("-", wide))
		for _, f := range head(unused, 10) {
			fmt.Fprintf(w, "• %s (in %s)\n", f.Name, strings.Join(head(f.Models, 3), ", "))
		}
		if len(unused) > 10 {
			fmt.Fprintf(w, "  ... and %d more\n", len(unused)-10)
		}
		fmt.Fprintln(w)
	}

	if rare := r.Rare(rareBelow); len(rare) > 0 {
		fmt.Fprintf(w, "Rarely Used Fields (<%d uses, %d total):\n", rareBelow, len(rare))
		fmt.Fprintln(w, strings.Repeat("-", wide))
		for _, f := range head(rare, 10) {
			fmt.Fprintf(w, "• %s (%d uses in %s)\n", f.Name, f.TotalUses, strings.Join(f.Methods, ", "))
		}
		fmt.Fprintln(w)
	}
}

// UnusedFields lists every field no method contract uses
func UnusedFields(w io.Writer, fields []*usage.Field) {
	fmt.Fprintf(w, "\nUnused Fields (%d):\n", len(fields))
	fmt.Fprintln(w, strings.Repeat("=", wide))
	for _, f := range fields {
		fmt.Fprintf(w, "• %s\n", f.Name)
		fmt.Fprintf(w, "  Models: %s\n", strings.Join(f.Models, ", "))
	}
}

// CoOccurrence prints field pairs that share contracts
func CoOccurrence(w io.Writer, pairs []usage.Pair, atLeast int) {
	s := newStyles(w)
	fmt.Fprintln(w)
	fmt.Fprintln(w, s.title.Render("Field Co-Occurrence Patterns"))
	fmt.Fprintln(w, strings.Repeat("=", wide))
	fmt.Fprintf(w, "Found %d patterns (≥%d co-occurrences)\n\n", len(pairs), atLeast)
	for _, p := range head(pairs, 20) {
		fmt.Fprintf(w, "%-20s ↔ %-20s (%d times)\n", p.A, p.B, p.Count)
	}
	if len(pairs) > 20 {
		fmt.Fprintf(w, "\n... and %d more patterns\n", len(pairs)-20)
	}
	fmt.Fprintln(w)
}

// FieldCoverage prints fields used by at least half of the methods and
// those used by fewer than a tenth
func FieldCoverage(w io.Writer, cov []usage.Coverage) {
	s := newStyles(w)
	fmt.Fprintln(w)
	fmt.Fprintln(w, s.title.Render("Field Coverage Report"))
	fmt.Fprintln(w, strings.Repeat("=", wide))
	fmt.Fprintln(w, "Coverage = (methods using field) / (total methods) * 100%")
	fmt.Fprintln(w)

	var high, low []usage.Coverage
	for _, c := range cov {
		if c.Percent >= 50 {
			high = append(high, c)
		}
	}
	for i := len(cov) - 1; i >= 0; i-- {
		if cov[i].Percent < 10 {
			low = append(low, cov[i])
		}
	}
	for _, group := range []struct {
		label string
		items []usage.Coverage
	}{
		{"High Coverage Fields (≥50%%, %d fields):", high},
		{"Low Coverage Fields (<10%%, %d fields):", low},
	} {
		if len(group.items) == 0 {
			continue
		}
		fmt.Fprintf(w, group.label+"\n", len(group.items))
		fmt.Fprintln(w, strings.Repeat("-", wide))
		for _, c := range head(group.items, 10) {
			fmt.Fprintf(w, "%-25s %5.1f%% (%d methods)\n", c.Field, c.Percent, c.Methods)
		}
		fmt.Fprintln(w)
	}
}

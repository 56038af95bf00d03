package report

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/pders01/modeldrift/internal/models"
)

const rule = 70

// styles are bound to the destination writer so that plain files and
// pipes get no escape codes
type styles struct {
	title lipgloss.Style
	good  lipgloss.Style
	bad   lipgloss.Style
	warn  lipgloss.Style
	dim   lipgloss.Style
}

func newStyles(w io.Writer) styles {
	r := lipgloss.NewRenderer(w)
	return styles{
		title: r.NewStyle().Bold(true),
		good:  r.NewStyle().Foreground(lipgloss.Color("2")),
		bad:   r.NewStyle().Foreground(lipgloss.Color("1")).Bold(true),
		warn:  r.NewStyle().Foreground(lipgloss.Color("3")),
		dim:   r.NewStyle().Foreground(lipgloss.Color("241")),
	}
}

func banner(w io.Writer, s styles, title string) {
	fmt.Fprintln(w, strings.Repeat("=", rule))
	fmt.Fprintln(w, s.title.Render(title))
	fmt.Fprintln(w, strings.Repeat("=", rule))
}

// Summary prints the headline view of a snapshot
func Summary(w io.Writer, snap *models.Snapshot) {
	s := newStyles(w)
	fmt.Fprintln(w)
	banner(w, s, "MODEL ANALYSIS")
	fmt.Fprintf(w, "Project: %s\n", snap.ProjectRoot)
	fmt.Fprintf(w, "Version: %s\n", snap.Version)

	if snap.Git.CommitHash != "" {
		fmt.Fprintln(w, "\nGit Info:")
		fmt.Fprintf(w, "  Commit:  %s\n", short(snap.Git.CommitHash))
		fmt.Fprintf(w, "  Branch:  %s\n", snap.Git.Branch)
		fmt.Fprintf(w, "  Author:  %s\n", snap.Git.Author)
		fmt.Fprintf(w, "  Dirty:   %t\n", snap.Git.IsDirty)
	}

	fmt.Fprintf(w, "\nModels: %d\n", snap.Summary.TotalModels)
	fmt.Fprintf(w, "  Pydantic: %d\n", snap.Summary.PydanticModels)
	fmt.Fprintf(w, "  Dataclass: %d\n", snap.Summary.Dataclasses)

	fmt.Fprintf(w, "\nEndpoints: %d\n", len(snap.Endpoints))
	for _, vc := range EndpointsByMethod(snap.Endpoints) {
		fmt.Fprintf(w, "  %s: %d\n", vc.Method, vc.Count)
	}

	fmt.Fprintf(w, "\nFiles Analyzed: %d\n", len(snap.FilesAnalyzed))
	if len(snap.FilesSkipped) > 0 {
		fmt.Fprintf(w, "Files Skipped:  %s\n", s.warn.Render(fmt.Sprint(len(snap.FilesSkipped))))
	}

	if len(snap.Models) > 0 {
		fmt.Fprintln(w, "\nTop Models:")
		for _, m := range head(snap.Models, 5) {
			fmt.Fprintf(w, "  • %s (%d fields) - %s\n", m.Name, len(m.Fields), m.FilePath)
			if len(m.UsedInEndpoints) > 0 {
				fmt.Fprintf(w, "    Used in: %s\n", strings.Join(head(m.UsedInEndpoints, 3), ", "))
			}
		}
	}

	if len(snap.Endpoints) > 0 {
		fmt.Fprintln(w, "\nAPI Endpoints:")
		for _, ep := range head(snap.Endpoints, 10) {
			fmt.Fprintf(w, "  • %-6s %s\n", ep.Method, ep.Path)
			if ep.RequestModel != "" {
				fmt.Fprintf(w, "           ← %s\n", ep.RequestModel)
			}
			if ep.ResponseModel != "" {
				fmt.Fprintf(w, "           → %s\n", ep.ResponseModel)
			}
		}
	}
	fmt.Fprintln(w, strings.Repeat("=", rule))
	fmt.Fprintln(w)
}

// MethodCount is the number of endpoints using one verb
type MethodCount struct {
	Method string `json:"method"`
	Count  int    `json:"count"`
}

// EndpointsByMethod counts endpoints per verb, sorted by verb
func EndpointsByMethod(eps []models.EndpointMapping) []MethodCount {
	counts := map[string]int{}
	for _, ep := range eps {
		counts[ep.Method]++
	}
	out := make([]MethodCount, 0, len(counts))
	for m, n := range counts {
		out = append(out, MethodCount{Method: m, Count: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Method < out[j].Method })
	return out
}

// Changes prints a change set
func Changes(w io.Writer, cs *models.ChangeSet) {
	s := newStyles(w)
	fmt.Fprintln(w)
	banner(w, s, "CHANGES DETECTED")

	if cs.IsEmpty() {
		fmt.Fprintln(w, s.good.Render("\nNo changes"))
		return
	}

	if len(cs.ModelsAdded) > 0 {
		fmt.Fprintf(w, "\n%s\n", s.good.Render(fmt.Sprintf("✓ Models Added: %d", len(cs.ModelsAdded))))
		for _, m := range cs.ModelsAdded {
			fmt.Fprintf(w, "  + %s\n", m)
		}
	}
	if len(cs.ModelsRemoved) > 0 {
		fmt.Fprintf(w, "\n%s\n", s.bad.Render(fmt.Sprintf("✗ Models Removed: %d", len(cs.ModelsRemoved))))
		for _, m := range cs.ModelsRemoved {
			fmt.Fprintf(w, "  - %s\n", m)
		}
	}
	if len(cs.ModelsModified) > 0 {
		fmt.Fprintf(w, "\n%s\n", s.warn.Render(fmt.Sprintf("~ Models Modified: %d", len(cs.ModelsModified))))
		for _, m := range cs.ModelsModified {
			fmt.Fprintf(w, "  ~ %s\n", m)
			for _, f := range cs.FieldsAdded[m] {
				fmt.Fprintf(w, "      + field: %s\n", f)
			}
			for _, f := range cs.FieldsRemoved[m] {
				fmt.Fprintf(w, "      - field: %s\n", f)
			}
			for _, f := range cs.FieldsModified[m] {
				fmt.Fprintf(w, "      ~ field: %s\n", f)
			}
		}
	}
	if len(cs.BreakingChanges) > 0 {
		fmt.Fprintf(w, "\n%s\n", s.bad.Render(fmt.Sprintf("⚠ BREAKING CHANGES: %d", len(cs.BreakingChanges))))
		for _, bc := range cs.BreakingChanges {
			line := fmt.Sprintf("  ⚠ %s: %s.%s", bc.Type, bc.Model, bc.Field)
			if bc.OldType != "" || bc.NewType != "" {
				line += fmt.Sprintf(" (%s → %s)", bc.OldType, bc.NewType)
			}
			fmt.Fprintln(w, line)
		}
	}
}

func short(hash string) string {
	if len(hash) > 8 {
		return hash[:8]
	}
	return hash
}

func head[T any](items []T, n int) []T {
	if len(items) > n {
		return items[:n]
	}
	return items
}

package report

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/pders01/modeldrift/internal/drift"
	"github.com/pders01/modeldrift/internal/flow"
	"github.com/pders01/modeldrift/internal/inventory"
	"github.com/pders01/modeldrift/internal/match"
	"github.com/pders01/modeldrift/internal/models"
	"github.com/pders01/modeldrift/internal/search"
)

const wide = 80

// Drift prints a drift report and its score
func Drift(w io.Writer, r *drift.Report, sc drift.Score) {
	s := newStyles(w)
	fmt.Fprintln(w, strings.Repeat("=", wide))
	fmt.Fprintln(w, s.title.Render("DRIFT DETECTION REPORT"))
	fmt.Fprintln(w, strings.Repeat("=", wide))

	fmt.Fprintf(w, "\nSeverity: %s\n", strings.ToUpper(sc.Severity))
	fmt.Fprintf(w, "Drift Score: %d\n", sc.DriftScore)
	fmt.Fprintf(w, "Total Changes: %d\n", sc.TotalChanges)

	if len(r.NewMethods) > 0 {
		fmt.Fprintf(w, "\n✚ NEW METHODS: %d\n", len(r.NewMethods))
		for _, m := range r.NewMethods {
			fmt.Fprintf(w, "  + %s\n", m.Method)
			fmt.Fprintf(w, "    Request: %s\n", m.RequestModel)
			fmt.Fprintf(w, "    Response: %s\n", m.ResponseModel)
		}
	}
	if len(r.DeletedMethods) > 0 {
		fmt.Fprintf(w, "\n%s\n", s.bad.Render(fmt.Sprintf("✖ DELETED METHODS: %d", len(r.DeletedMethods))))
		for _, m := range r.DeletedMethods {
			fmt.Fprintf(w, "  - %s (was internal)\n", m.Method)
		}
	}
	if len(r.ChangedSignatures) > 0 {
		fmt.Fprintf(w, "\n%s\n", s.warn.Render(fmt.Sprintf("⚠ CHANGED SIGNATURES: %d", len(r.ChangedSignatures))))
		for _, c := range r.ChangedSignatures {
			fmt.Fprintf(w, "  ~ %s\n", c.Method)
			if c.Inventory.Request != c.Code.Request {
				fmt.Fprintf(w, "    Request: %s → %s\n", c.Inventory.Request, c.Code.Request)
			}
			if c.Inventory.Response != c.Code.Response {
				fmt.Fprintf(w, "    Response: %s → %s\n", c.Inventory.Response, c.Code.Response)
			}
		}
	}
	if len(r.ChangedClassification) > 0 {
		fmt.Fprintf(w, "\n↻ CHANGED CLASSIFICATION: %d\n", len(r.ChangedClassification))
		for _, c := range r.ChangedClassification {
			fmt.Fprintf(w, "  ~ %s\n", c.Method)
			for _, ch := range c.Changes {
				fmt.Fprintf(w, "    %s: %s → %s\n", ch.Field, ch.Inventory, ch.Code)
			}
		}
	}
	if len(r.VersionChanges) > 0 {
		fmt.Fprintf(w, "\n⬆ VERSION CHANGES: %d\n", len(r.VersionChanges))
		for _, v := range r.VersionChanges {
			fmt.Fprintf(w, "  %s: %s → %s\n", v.Method, v.Inventory, v.Code)
		}
	}

	if sc.TotalChanges == 0 {
		fmt.Fprintln(w, s.good.Render("\n✓ No drift detected - inventory is synchronized with code"))
	} else {
		fmt.Fprintln(w, s.warn.Render(fmt.Sprintf("\n⚠ Inventory requires update (%d changes detected)", sc.TotalChanges)))
	}
	fmt.Fprintf(w, "\n%s\n\n", strings.Repeat("=", wide))
}

// Validation prints an inventory validation result
func Validation(w io.Writer, res *inventory.Result) {
	s := newStyles(w)
	fmt.Fprintln(w, strings.Repeat("=", wide))
	fmt.Fprintln(w, s.title.Render("METHODS INVENTORY VALIDATION REPORT"))
	fmt.Fprintln(w, strings.Repeat("=", wide))

	fmt.Fprintf(w, "\n%s\n", s.good.Render(fmt.Sprintf("✓ VALID: %d methods", len(res.Valid))))
	for _, f := range res.Valid {
		fmt.Fprintf(w, "  %s (%s) → %s\n", f.Method, f.Tier, strings.Join(f.Sources, " + "))
	}
	if len(res.Warnings) > 0 {
		fmt.Fprintf(w, "\n%s\n", s.warn.Render(fmt.Sprintf("⚠ WARNINGS: %d", len(res.Warnings))))
		for _, f := range res.Warnings {
			fmt.Fprintf(w, "  %s: %s\n", f.Method, f.Issue)
			if f.Message != "" {
				fmt.Fprintf(w, "    %s\n", f.Message)
			}
		}
	}
	if len(res.Errors) > 0 {
		fmt.Fprintf(w, "\n%s\n", s.bad.Render(fmt.Sprintf("✗ ERRORS: %d", len(res.Errors))))
		for _, f := range res.Errors {
			fmt.Fprintf(w, "  %s: %s\n", f.Method, f.Issue)
			fmt.Fprintf(w, "    %s\n", f.Message)
		}
	}

	fmt.Fprintf(w, "\n%s\n", strings.Repeat("=", wide))
	fmt.Fprintf(w, "SUMMARY: %d valid, %d warnings, %d errors\n", len(res.Valid), len(res.Warnings), len(res.Errors))
	fmt.Fprintf(w, "%s\n\n", strings.Repeat("=", wide))
}

// ToolValidation prints the check of tool definitions against the
// inventory
func ToolValidation(w io.Writer, res *inventory.ToolResult) {
	s := newStyles(w)
	fmt.Fprintln(w, strings.Repeat("=", wide))
	fmt.Fprintln(w, s.title.Render("METHODTOOLS VALIDATION REPORT"))
	fmt.Fprintln(w, strings.Repeat("=", wide))

	fmt.Fprintf(w, "\n%s\n", s.good.Render(fmt.Sprintf("✓ VALID: %d tools", len(res.Valid))))
	for _, c := range res.Valid {
		fmt.Fprintf(w, "  %s (%s)\n", c.Tool, filepath.Base(c.File))
	}
	for _, group := range []struct {
		label string
		style lipgloss.Style
		items []inventory.ToolCheck
	}{
		{"⚠ WARNINGS", s.warn, res.Warnings},
		{"✗ ERRORS", s.bad, res.Errors},
	} {
		if len(group.items) == 0 {
			continue
		}
		fmt.Fprintf(w, "\n%s\n", group.style.Render(fmt.Sprintf("%s: %d tools", group.label, len(group.items))))
		for _, c := range group.items {
			fmt.Fprintf(w, "\n  %s (%s)\n", c.Tool, filepath.Base(c.File))
			for _, issue := range c.Issues {
				fmt.Fprintf(w, "    - %s: %s\n", issue.Type, issue.Message)
			}
		}
	}

	fmt.Fprintf(w, "\n%s\n", strings.Repeat("=", wide))
	fmt.Fprintf(w, "SUMMARY: %d valid, %d warnings, %d errors\n", len(res.Valid), len(res.Warnings), len(res.Errors))
	fmt.Fprintf(w, "%s\n\n", strings.Repeat("=", wide))
}

// Flow prints a chain validation. detailed adds field types and extra
// source fields.
func Flow(w io.Writer, res *flow.Result, detailed bool) {
	s := newStyles(w)
	fmt.Fprintf(w, "\n%s\n", strings.Repeat("=", wide))
	fmt.Fprintln(w, s.title.Render("Workflow Validation: "+strings.Join(res.Methods, " → ")))
	fmt.Fprintf(w, "%s\n\n", strings.Repeat("=", wide))

	status := s.good.Render("✓ VALID")
	if !res.Valid() {
		status = s.bad.Render("✗ INVALID")
	}
	fmt.Fprintf(w, "Overall Status: %s\n", status)
	fmt.Fprintf(w, "Compatibility Score: %.1f%%\n", res.Score()*100)
	fmt.Fprintf(w, "Steps: %d\n\n", len(res.Steps))

	for i := range res.Steps {
		step := &res.Steps[i]
		fmt.Fprintln(w, strings.Repeat("─", wide))
		fmt.Fprintf(w, "Step %d: %s → %s\n", step.Index, step.SourceMethod, step.TargetMethod)
		fmt.Fprintln(w, strings.Repeat("─", wide))
		fmt.Fprintf(w, "Models: %s → %s\n", step.SourceModel, step.TargetModel)
		if step.Valid() {
			fmt.Fprintf(w, "Status: %s\n", s.good.Render("✓ Valid"))
		} else {
			fmt.Fprintf(w, "Status: %s\n", s.bad.Render("✗ Invalid"))
		}
		fmt.Fprintf(w, "Score: %.1f%%\n\n", step.Score()*100)

		if len(step.Compatible) > 0 {
			fmt.Fprintf(w, "✓ Compatible Fields (%d):\n", len(step.Compatible))
			for _, m := range step.Compatible {
				if detailed {
					fmt.Fprintf(w, "  • %s: %s\n", m.SourceField, m.SourceType)
				} else {
					fmt.Fprintf(w, "  • %s\n", m.SourceField)
				}
			}
			fmt.Fprintln(w)
		}
		if len(step.Incompatible) > 0 {
			fmt.Fprintf(w, "✗ Incompatible Fields (%d):\n", len(step.Incompatible))
			for _, m := range step.Incompatible {
				fmt.Fprintf(w, "  • %s\n", m.SourceField)
				fmt.Fprintf(w, "    Source: %s\n", m.SourceType)
				fmt.Fprintf(w, "    Target: %s\n", m.TargetType)
				if m.Notes != "" {
					fmt.Fprintf(w, "    Note: %s\n", m.Notes)
				}
			}
			fmt.Fprintln(w)
		}
		if len(step.MissingFields) > 0 {
			fmt.Fprintf(w, "⚠ Missing Required Fields (%d):\n", len(step.MissingFields))
			for _, f := range step.MissingFields {
				fmt.Fprintf(w, "  • %s\n", f)
			}
			fmt.Fprintln(w)
		}
		if detailed && len(step.ExtraFields) > 0 {
			fmt.Fprintf(w, "ℹ Extra Source Fields (%d):\n", len(step.ExtraFields))
			for _, f := range head(step.ExtraFields, 5) {
				fmt.Fprintf(w, "  • %s\n", f)
			}
			if n := len(step.ExtraFields) - 5; n > 0 {
				fmt.Fprintf(w, "  ... and %d more\n", n)
			}
			fmt.Fprintln(w)
		}
	}
	fmt.Fprintf(w, "%s\n\n", strings.Repeat("=", wide))
}

// FieldMappings prints the field pairs between two records
func FieldMappings(w io.Writer, source, target string, mappings []match.FieldMapping) {
	s := newStyles(w)
	fmt.Fprintf(w, "\nField mappings: %s → %s\n", source, target)
	fmt.Fprintln(w, strings.Repeat("=", wide))
	if len(mappings) == 0 {
		fmt.Fprintln(w, "\nNo compatible fields found")
		fmt.Fprintf(w, "\n%s\n\n", strings.Repeat("=", wide))
		return
	}
	for i, m := range mappings {
		mark := s.good.Render("✓")
		if !m.TypeCompatible {
			mark = s.warn.Render("⚠")
		}
		fmt.Fprintf(w, "\n%d. %s %s → %s (%s)\n", i+1, mark, m.SourceField, m.TargetField, m.Match)
		fmt.Fprintf(w, "   Types: %s → %s\n", m.SourceType, m.TargetType)
		if m.Notes != "" {
			fmt.Fprintf(w, "   Note: %s\n", m.Notes)
		}
	}
	fmt.Fprintf(w, "\n%s\n\n", strings.Repeat("=", wide))
}

// Methods prints method search results
func Methods(w io.Writer, methods []models.MethodDescriptor) {
	s := newStyles(w)
	if len(methods) == 0 {
		fmt.Fprintln(w, "No methods found matching criteria.")
		return
	}
	fmt.Fprintf(w, "\nFound %d method(s):\n\n", len(methods))
	fmt.Fprintln(w, strings.Repeat("=", wide))
	for i, m := range methods {
		fmt.Fprintf(w, "\n%d. %s\n", i+1, s.title.Render(m.Name))
		fmt.Fprintf(w, "   Description: %s\n", orNA(m.Description))
		if m.Version != "" {
			fmt.Fprintf(w, "   Version: %s\n", m.Version)
		}
		if c := m.Classification; c != nil {
			fmt.Fprintln(w, "   Classification:")
			for _, kv := range [][2]string{
				{"Domain", c.Domain}, {"Subdomain", c.Subdomain}, {"Capability", c.Capability},
				{"Complexity", c.Complexity}, {"Maturity", c.Maturity}, {"Integration", c.IntegrationTier},
			} {
				if kv[1] != "" {
					fmt.Fprintf(w, "     %s: %s\n", kv[0], kv[1])
				}
			}
		}
		if m.ServiceClass != "" {
			fmt.Fprintf(w, "   Service: %s\n", m.ServiceClass)
		}
		fmt.Fprintln(w, "   Models:")
		fmt.Fprintf(w, "     Request: %s\n", orNA(m.RequestModel))
		fmt.Fprintf(w, "     Response: %s\n", orNA(m.ResponseModel))
	}
	fmt.Fprintf(w, "\n%s\n\n", strings.Repeat("=", wide))
}

// Fields prints field search hits
func Fields(w io.Writer, hits []search.Hit) {
	s := newStyles(w)
	fmt.Fprintf(w, "\nFound %d field(s):\n\n", len(hits))
	fmt.Fprintln(w, strings.Repeat("=", wide))
	for i, h := range hits {
		fmt.Fprintf(w, "\n%d. %s\n", i+1, s.title.Render(h.Model+"."+h.Field.Name))
		fmt.Fprintf(w, "   Type: %s\n", h.Field.Type)
		fmt.Fprintf(w, "   Required: %t\n", h.Field.Required)
		if h.Field.Default != nil {
			fmt.Fprintf(w, "   Default: %s\n", *h.Field.Default)
		}
		if h.Field.Description != "" {
			fmt.Fprintf(w, "   Description: %s\n", h.Field.Description)
		}
		if h.Module != "" {
			fmt.Fprintf(w, "   Module: %s\n", h.Module)
		}
		if h.Semantic {
			fmt.Fprintf(w, "   %s\n", s.dim.Render(fmt.Sprintf("Score: %.1f (keyword: %d, semantic: %.1f%%)", h.Score, h.KeywordScore, h.SemanticScore)))
		} else if h.KeywordScore > 0 {
			fmt.Fprintf(w, "   %s\n", s.dim.Render(fmt.Sprintf("Score: %d (keyword only)", h.KeywordScore)))
		}
	}
	fmt.Fprintf(w, "\n%s\n\n", strings.Repeat("=", wide))
}

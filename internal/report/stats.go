package report

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/pders01/modeldrift/internal/mapping"
	"github.com/pders01/modeldrift/internal/models"
)

// ModelUsage is a record and the number of endpoints using it
type ModelUsage struct {
	Name   string `json:"name"`
	Fields int    `json:"fields"`
	Usage  int    `json:"usage"`
}

// Stats are the headline numbers of one snapshot
type Stats struct {
	ID            string         `json:"id"`
	Topic         string         `json:"topic,omitempty"`
	Version       string         `json:"version,omitempty"`
	Commit        string         `json:"commit,omitempty"`
	Models        int            `json:"models"`
	ByConvention  map[string]int `json:"by_convention"`
	Functions     int            `json:"functions"`
	AsyncFuncs    int            `json:"async_functions"`
	Endpoints     int            `json:"endpoints"`
	ByMethod      []MethodCount  `json:"by_method"`
	Deprecated    int            `json:"deprecated_endpoints"`
	FilesAnalyzed int            `json:"files_analyzed"`
	FilesSkipped  int            `json:"files_skipped"`
	TopModels     []ModelUsage   `json:"top_models"`
}

// SnapshotStats computes the statistics of snap. Top models are the five
// most used records, ties broken by field count then name.
func SnapshotStats(snap *models.Snapshot) *Stats {
	st := &Stats{
		ID:            snap.ID,
		Topic:         snap.Topic,
		Version:       snap.Version,
		Commit:        short(snap.Git.CommitHash),
		Models:        len(snap.Models),
		ByConvention:  map[string]int{},
		Functions:     len(snap.Functions),
		Endpoints:     len(snap.Endpoints),
		ByMethod:      EndpointsByMethod(snap.Endpoints),
		FilesAnalyzed: len(snap.FilesAnalyzed),
		FilesSkipped:  len(snap.FilesSkipped),
		TopModels:     []ModelUsage{},
	}
	for i := range snap.Models {
		st.ByConvention[snap.Models[i].Kind()]++
	}
	for _, fn := range snap.Functions {
		if fn.IsAsync {
			st.AsyncFuncs++
		}
	}
	for _, ep := range snap.Endpoints {
		if ep.Deprecated {
			st.Deprecated++
		}
	}

	usage := make([]ModelUsage, 0, len(snap.Models))
	for _, m := range snap.Models {
		usage = append(usage, ModelUsage{Name: m.Name, Fields: len(m.Fields), Usage: len(m.UsedInEndpoints)})
	}
	sort.SliceStable(usage, func(i, j int) bool {
		a, b := usage[i], usage[j]
		if a.Usage != b.Usage {
			return a.Usage > b.Usage
		}
		if a.Fields != b.Fields {
			return a.Fields > b.Fields
		}
		return a.Name < b.Name
	})
	st.TopModels = append(st.TopModels, head(usage, 5)...)
	return st
}

// StatsText prints snapshot statistics
func StatsText(w io.Writer, st *Stats) {
	s := newStyles(w)
	fmt.Fprintln(w, s.title.Render("Snapshot Statistics"))
	fmt.Fprintln(w, "━━━━━━━━━━━━━━━━━━━")
	fmt.Fprintln(w)

	if st.Topic != "" {
		fmt.Fprintf(w, "Topic:     %s\n", st.Topic)
	}
	if st.Version != "" {
		fmt.Fprintf(w, "Version:   %s\n", st.Version)
	}
	if st.Commit != "" {
		fmt.Fprintf(w, "Commit:    %s\n", st.Commit)
	}
	fmt.Fprintf(w, "Files:     %d analyzed, %d skipped\n\n", st.FilesAnalyzed, st.FilesSkipped)

	fmt.Fprintf(w, "Models: %d\n", st.Models)
	kinds := make([]string, 0, len(st.ByConvention))
	for k := range st.ByConvention {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	for _, k := range kinds {
		fmt.Fprintf(w, "  %-20s %3d  (%.1f%%)\n", k, st.ByConvention[k], percent(st.ByConvention[k], st.Models))
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "Functions: %d (%d async)\n\n", st.Functions, st.AsyncFuncs)

	fmt.Fprintf(w, "Endpoints: %d", st.Endpoints)
	if st.Deprecated > 0 {
		fmt.Fprintf(w, " (%s)", s.warn.Render(fmt.Sprintf("%d deprecated", st.Deprecated)))
	}
	fmt.Fprintln(w)
	for _, mc := range st.ByMethod {
		fmt.Fprintf(w, "  %-8s %3d  (%.1f%%)\n", mc.Method, mc.Count, percent(mc.Count, st.Endpoints))
	}

	if len(st.TopModels) > 0 {
		fmt.Fprintln(w, "\nTop Models:")
		for i, m := range st.TopModels {
			fmt.Fprintf(w, "  %d. %-30s %d endpoint(s), %d field(s)\n", i+1, m.Name, m.Usage, m.Fields)
		}
	}
}

// MappingText prints a mapping analysis
func MappingText(w io.Writer, a *mapping.Analysis) {
	s := newStyles(w)
	fmt.Fprintln(w)
	banner(w, s, "MAPPING ANALYSIS")
	st := a.Stats
	fmt.Fprintf(w, "Total Models:      %d\n", st.TotalModels)
	fmt.Fprintf(w, "Total Endpoints:   %d\n", st.TotalEndpoints)
	fmt.Fprintf(w, "Models in Use:     %d\n", st.ModelsWithEndpoints)
	fmt.Fprintf(w, "Orphaned Models:   %d\n", st.OrphanedModels)
	fmt.Fprintf(w, "Endpoint Coverage: %.1f%%\n", st.EndpointCoverage)
	fmt.Fprintf(w, "Avg Model Reuse:   %.1f\n", st.AvgModelReuse)
	fmt.Fprintf(w, "Most Reused:       %s (%d)\n", st.MostReusedModel, st.MostReusedCount)

	if len(a.ReuseMatrix) > 0 {
		fmt.Fprintln(w, "\nTop Reused Models:")
		for _, r := range head(a.ReuseMatrix, 10) {
			fmt.Fprintf(w, "  • %s (%d) - %s\n", r.Model, r.Count, r.File)
		}
	}
	if len(a.HighRisk) > 0 {
		fmt.Fprintf(w, "\n%s\n", s.bad.Render(fmt.Sprintf("High Risk Models: %d", len(a.HighRisk))))
		for _, imp := range head(a.HighRisk, 10) {
			fmt.Fprintf(w, "  ⚠ %s: %d endpoints, %d models\n", imp.Model, len(imp.AffectedEndpoints), len(imp.AffectedModels))
		}
	}
	if len(a.Orphaned) > 0 {
		fmt.Fprintf(w, "\nOrphaned Models: %d\n", len(a.Orphaned))
		names := make([]string, 0, len(a.Orphaned))
		for _, o := range head(a.Orphaned, 20) {
			names = append(names, o.Name)
		}
		fmt.Fprintf(w, "  %s\n", strings.Join(names, ", "))
	}
	fmt.Fprintln(w, strings.Repeat("=", rule))
}

func percent(n, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(n) / float64(total) * 100
}

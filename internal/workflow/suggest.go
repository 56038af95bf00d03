// Package workflow suggests method chains for a goal and exports them as
// composite workflow definitions.
package workflow

import (
	"sort"
	"strings"

	"github.com/pders01/modeldrift/internal/models"
)

// Suggestion is a method scored against a goal
type Suggestion struct {
	Method      string  `json:"method"`
	Description string  `json:"description"`
	Score       float64 `json:"score"`
}

// Keywords are the goal words longer than three characters
func Keywords(goal string) []string {
	var kws []string
	for _, w := range strings.Fields(strings.ToLower(goal)) {
		if len(w) > 3 {
			kws = append(kws, w)
		}
	}
	return kws
}

// Suggest scores every method against the goal: 2 when a keyword is in
// the name, 1 per keyword in the description, 1.5 each when a keyword is
// in the classification domain or capability. Methods scoring zero are
// dropped; ties keep registry order.
func Suggest(goal string, methods []models.MethodDescriptor) []Suggestion {
	kws := Keywords(goal)
	out := []Suggestion{}
	for _, m := range methods {
		score := 0.0
		if containsAny(m.Name, kws) {
			score += 2
		}
		desc := strings.ToLower(m.Description)
		for _, kw := range kws {
			if desc != "" && strings.Contains(desc, kw) {
				score++
			}
		}
		if c := m.Classification; c != nil {
			if c.Domain != "" && containsAny(c.Domain, kws) {
				score += 1.5
			}
			if c.Capability != "" && containsAny(c.Capability, kws) {
				score += 1.5
			}
		}
		if score == 0 {
			continue
		}
		d := m.Description
		if d == "" {
			d = m.Name
		}
		out = append(out, Suggestion{Method: m.Name, Description: d, Score: score})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	return out
}

func containsAny(s string, kws []string) bool {
	s = strings.ToLower(s)
	for _, kw := range kws {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}

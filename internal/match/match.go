// Package match links free-form type text to known record names and
// fields of one record to fields of another. All matching here is
// heuristic; results are ranked so that stronger evidence wins.
package match

import (
	"strings"
	"unicode"
)

// Rank orders the strength of a match
type Rank int

const (
	RankNone Rank = iota
	RankSubstring
	RankToken
	RankExact
)

func (r Rank) String() string {
	switch r {
	case RankExact:
		return "exact"
	case RankToken:
		return "token"
	case RankSubstring:
		return "substring"
	}
	return "none"
}

// Policy scores how well a type text refers to a record name
type Policy interface {
	Rank(text, name string) Rank
}

// Ranked is the default policy: exact text, then a whole identifier
// inside the text (Optional[User]), then any substring (UserList).
type Ranked struct{}

func (Ranked) Rank(text, name string) Rank {
	text = strings.TrimSpace(strings.Trim(text, `'"`))
	switch {
	case name == "" || text == "":
		return RankNone
	case text == name:
		return RankExact
	}
	for _, tok := range Identifiers(text) {
		if tok == name {
			return RankToken
		}
	}
	if strings.Contains(text, name) {
		return RankSubstring
	}
	return RankNone
}

// Substring accepts any occurrence of the name and ranks them equally
type Substring struct{}

func (Substring) Rank(text, name string) Rank {
	if name != "" && strings.Contains(text, name) {
		return RankSubstring
	}
	return RankNone
}

// Identifiers splits type text into identifier tokens; dotted names
// contribute each segment
func Identifiers(text string) []string {
	return strings.FieldsFunc(text, func(r rune) bool {
		return r != '_' && !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// Best picks the record name best referenced by texts. Higher rank wins,
// then earlier text, then earlier name.
func Best(p Policy, texts, names []string) (string, Rank) {
	best, bestRank := "", RankNone
	for _, text := range texts {
		for _, name := range names {
			if r := p.Rank(text, name); r > bestRank {
				best, bestRank = name, r
			}
		}
	}
	return best, bestRank
}

// Package query turns keyword/location sets plus boolean operators into
// the literal search query strings a run will issue.
package query

import (
	"errors"
	"fmt"
	"strings"
)

type Op string

const (
	OpAnd Op = "AND"
	OpOr  Op = "OR"
)

// Spec is immutable once built; one Spec may expand into several literal
// query strings (cross product under AND, a single folded clause under OR).
type Spec struct {
	Keywords    []string
	KeywordOp   Op
	Locations   []string
	LocationOp  Op
	ProfileType string // profiles/companies/...
	Source      string // all/linkedin/github
}

var ErrNoKeywords = errors.New("query: keyword set is empty")

// Build expands spec into an ordered sequence of query strings.
// AND on a side fans out one query per term; OR folds the side into a
// single alternative clause. Input order is preserved so previews and
// reruns are reproducible.
func Build(s Spec) ([]string, error) {
	keywords := cleanTerms(s.Keywords)
	if len(keywords) == 0 {
		return nil, ErrNoKeywords
	}
	locations := cleanTerms(s.Locations)

	kwClauses := sideClauses(keywords, s.KeywordOp)

	if len(locations) == 0 {
		return kwClauses, nil
	}

	locClauses := sideClauses(locations, s.LocationOp)

	out := make([]string, 0, len(kwClauses)*len(locClauses))
	for _, k := range kwClauses {
		for _, l := range locClauses {
			out = append(out, k+" "+l)
		}
	}
	return out, nil
}

// Preview renders the queries Build would issue, without any network
// access, for user-facing validation before committing to a run.
func Preview(s Spec) string {
	queries, err := Build(s)
	if err != nil {
		return fmt.Sprintf("invalid query: %v", err)
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "%d query string(s):\n", len(queries))
	for i, q := range queries {
		fmt.Fprintf(&sb, "%d. %s\n", i+1, q)
	}
	return sb.String()
}

// sideClauses renders one class of terms. Under AND every term is
// required, one query per term; under OR the whole class folds into a
// single ("a" OR "b") clause.
func sideClauses(terms []string, op Op) []string {
	if len(terms) == 1 {
		return []string{quote(terms[0])}
	}
	if op == OpOr {
		quoted := make([]string, len(terms))
		for i, t := range terms {
			quoted[i] = quote(t)
		}
		return []string{"(" + strings.Join(quoted, " OR ") + ")"}
	}
	out := make([]string, len(terms))
	for i, t := range terms {
		out[i] = quote(t)
	}
	return out
}

func quote(term string) string {
	return `"` + term + `"`
}

func cleanTerms(in []string) []string {
	seen := map[string]bool{}
	var out []string
	for _, t := range in {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		key := strings.ToLower(t)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, t)
	}
	return out
}

// Package relevance scores extracted records against the run's
// keywords and decides which ones make the final list.
package relevance

import (
	"fmt"
	"strings"

	"scrapster-engine/internal/config"
	"scrapster-engine/internal/domain"
)

// Weights for each scoring signal. Keyword overlap dominates; the rest
// reward records that actually look like a person with a job.
const (
	weightKeywords  = 0.4
	weightTerms     = 0.3
	weightJobTitle  = 0.2
	weightCompany   = 0.1
	noKeywordFactor = 0.3
)

var defaultProfessionalTerms = []string{
	"engineer", "developer", "architect", "manager", "director", "lead",
	"consultant", "specialist", "analyst", "scientist", "designer",
	"founder", "cto", "ceo", "vp",
}

var defaultIrrelevantTerms = []string{
	"buy now", "add to cart", "pricing", "sign up free", "job opening",
	"we're hiring", "apply now", "careers at",
}

type Validator struct {
	minScore     float64
	professional []string
	irrelevant   []string
}

func NewValidator(cfg config.Relevance) *Validator {
	v := &Validator{
		minScore:     cfg.MinScore,
		professional: cfg.ProfessionalTerms,
		irrelevant:   cfg.IrrelevantTerms,
	}
	if len(v.professional) == 0 {
		v.professional = defaultProfessionalTerms
	}
	if len(v.irrelevant) == 0 {
		v.irrelevant = defaultIrrelevantTerms
	}
	return v
}

// Score fills RelevanceScore and RelevanceReason on the record. It
// never rejects by itself; Accept applies the threshold.
func (v *Validator) Score(rec *domain.Record, keywords, locations []string) {
	text := strings.ToLower(strings.Join([]string{rec.Name, rec.JobTitle, rec.Company, rec.Snippet}, " "))

	for _, term := range v.irrelevant {
		if strings.Contains(text, strings.ToLower(term)) {
			rec.RelevanceScore = 0
			rec.RelevanceReason = fmt.Sprintf("matched irrelevant term %q", term)
			return
		}
	}

	var score float64
	var reasons []string

	kwMatched, kwTotal := termOverlap(text, keywords)
	locMatched, locTotal := termOverlap(text, locations)
	matched, total := kwMatched+locMatched, kwTotal+locTotal
	if total > 0 && matched > 0 {
		score += weightKeywords * float64(matched) / float64(total)
		reasons = append(reasons, fmt.Sprintf("terms %d/%d", matched, total))
	}
	if containsAny(text, v.professional) {
		score += weightTerms
		reasons = append(reasons, "professional term")
	}
	if rec.JobTitle != "" {
		score += weightJobTitle
		reasons = append(reasons, "has job title")
	}
	if rec.Company != "" {
		score += weightCompany
		reasons = append(reasons, "has company")
	}

	// a record that matches none of the run's keywords is almost
	// certainly noise, whatever else it has going for it
	if kwTotal > 0 && kwMatched == 0 {
		score *= noKeywordFactor
		reasons = append(reasons, "no keyword match")
	}

	rec.RelevanceScore = score
	rec.RelevanceReason = strings.Join(reasons, "; ")
}

// Accept reports whether a scored record belongs in the final list.
// A record with no name at all is never a lead; when the run extracts
// emails, records without one never pass either.
func (v *Validator) Accept(rec domain.Record, requireEmail bool) bool {
	if rec.Name == "" {
		return false
	}
	if requireEmail && rec.Email == "" {
		return false
	}
	return rec.RelevanceScore >= v.minScore
}

func termOverlap(text string, keywords []string) (matched, total int) {
	for _, k := range keywords {
		k = strings.ToLower(strings.TrimSpace(k))
		if k == "" {
			continue
		}
		total++
		if strings.Contains(text, k) {
			matched++
		}
	}
	return matched, total
}

func containsAny(text string, terms []string) bool {
	for _, t := range terms {
		if strings.Contains(text, strings.ToLower(t)) {
			return true
		}
	}
	return false
}

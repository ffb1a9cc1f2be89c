package domain

import "strings"

// Record is a finalized contact entry, ready for export.
// Identity within a run is the normalized profile URL.
type Record struct {
	Name            string  `json:"name"`
	Email           string  `json:"email,omitempty"`
	JobTitle        string  `json:"job_title,omitempty"`
	Company         string  `json:"company,omitempty"`
	ProfileURL      string  `json:"profile_url"`
	Snippet         string  `json:"snippet"`
	Source          string  `json:"source"` // display host, e.g. linkedin.com
	ProfileType     string  `json:"profile_type"`
	RelevanceScore  float64 `json:"relevance_score"`
	RelevanceReason string  `json:"relevance_reason"`
}

// PopulatedFields counts non-empty string fields; used to break score
// ties when two records collide on the same profile URL.
func (r Record) PopulatedFields() int {
	n := 0
	for _, s := range []string{r.Name, r.Email, r.JobTitle, r.Company, r.ProfileURL, r.Snippet, r.Source, r.ProfileType} {
		if s != "" {
			n++
		}
	}
	return n
}

func ProfileTypeForURL(rawURL string) string {
	lu := strings.ToLower(rawURL)
	switch {
	case strings.Contains(lu, "linkedin.com"):
		return "LinkedIn"
	case strings.Contains(lu, "github.com"):
		return "GitHub"
	default:
		return "Other"
	}
}

package extract

import (
	"regexp"
	"strings"
)

var jobTitleRes = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(?:Senior|Junior|Lead|Principal|Staff)?\s*(?:Software|Hardware|Embedded|IoT|RF|Wireless|Systems|Data|AI|ML|Cloud|DevOps|Full.?Stack|Frontend|Backend)?\s*(?:Engineer|Developer|Architect|Specialist|Consultant|Manager|Director|Technician|Analyst|Scientist|Researcher|Designer)`),
	regexp.MustCompile(`(?i)Product\s*(?:Manager|Owner|Lead)`),
	regexp.MustCompile(`(?i)Technical\s*(?:Lead|Manager|Director|Architect)`),
	regexp.MustCompile(`(?i)Engineering\s*(?:Manager|Director|Lead)`),
}

var companyRes = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\bat\s+([A-Z][a-zA-Z0-9\s&.\-]+?)(?:[\s,.]|$)`),
	regexp.MustCompile(`(?i)@\s*([A-Z][a-zA-Z0-9\s&.\-]+?)(?:[\s,.]|$)`),
	regexp.MustCompile(`(?i)\bfrom\s+([A-Z][a-zA-Z0-9\s&.\-]+?)(?:[\s,.]|$)`),
}

var companySuffixRe = regexp.MustCompile(`(?i)[\s,]+(Inc|LLC|Ltd|Corp|Corporation|Company|Co)\.?$`)

// NameFromTitle pulls a person's name out of a search-result title,
// which usually looks like "Jane Doe - Engineer | LinkedIn".
func NameFromTitle(title string) string {
	name := title
	for _, sep := range []string{" | ", " - ", " – "} {
		if i := strings.Index(name, sep); i >= 0 {
			name = name[:i]
		}
	}
	return strings.TrimSpace(name)
}

// LooksLikeCompanyName guards against result titles that are actually
// organizations rather than people.
func LooksLikeCompanyName(name string) bool {
	for _, term := range []string{"Inc.", "LLC", "Corp.", "Corporation", "Company", "Ltd.", "Limited"} {
		if strings.Contains(name, term) && len(strings.Fields(name)) <= 2 {
			return true
		}
	}
	return false
}

func JobTitleFrom(text string) string {
	for _, re := range jobTitleRes {
		if m := re.FindString(text); strings.TrimSpace(m) != "" {
			return strings.TrimSpace(m)
		}
	}
	return ""
}

func CompanyFrom(text string) string {
	for _, re := range companyRes {
		m := re.FindStringSubmatch(text)
		if len(m) < 2 {
			continue
		}
		company := strings.TrimSpace(m[1])
		company = companySuffixRe.ReplaceAllString(company, "")
		if company != "" {
			return strings.TrimSpace(company)
		}
	}
	return ""
}

// companyDomain reduces a company name to a plausible mail domain stem:
// "Acme Corp." -> "acme".
func companyDomain(company string) string {
	c := strings.ToLower(strings.TrimSpace(company))
	if c == "" {
		return ""
	}
	c = strings.TrimSpace(companySuffixRe.ReplaceAllString(c, ""))
	var b strings.Builder
	for _, r := range c {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '.' || r == '-' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

package extract

import (
	"fmt"
	"strings"
)

// InferEmails builds plausible addresses from a name and company using
// the common first.last@domain family. These are guesses, tagged
// lowest-trust, and only ever used when nothing better was found.
func InferEmails(name, company string) []Finding {
	domain := companyDomain(company)
	if domain == "" {
		return nil
	}
	if !strings.Contains(domain, ".") {
		domain += ".com"
	}

	parts := strings.Fields(strings.ToLower(strings.TrimSpace(name)))
	if len(parts) == 0 {
		return nil
	}
	first := parts[0]
	last := ""
	if len(parts) > 1 {
		last = parts[len(parts)-1]
	}

	var candidates []string
	if last != "" {
		candidates = []string{
			fmt.Sprintf("%s.%s@%s", first, last, domain),
			fmt.Sprintf("%s%s@%s", first, last, domain),
			fmt.Sprintf("%s_%s@%s", first, last, domain),
			fmt.Sprintf("%c%s@%s", first[0], last, domain),
			fmt.Sprintf("%s%c@%s", first, last[0], domain),
		}
	} else {
		candidates = []string{fmt.Sprintf("%s@%s", first, domain)}
	}

	var out []Finding
	for _, e := range candidates {
		if IsGenericEmail(e) {
			continue
		}
		out = append(out, Finding{Email: e, Trust: TrustInferred})
	}
	return out
}

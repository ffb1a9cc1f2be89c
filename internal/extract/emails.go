package extract

import (
	"regexp"
	"sort"
	"strings"
)

var emailRe = regexp.MustCompile(`\b[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}\b`)

// genericPrefixes lists role-based and placeholder mailboxes that are
// never personal contacts.
var genericPrefixes = []string{
	"noreply", "no-reply", "donotreply", "support@", "info@", "contact@",
	"admin@", "webmaster@", "privacy@", "hello@", "mailer-", "postmaster@",
	"sales@", "marketing@", "help@", "customerservice@", "service@",
	"broofa", "example", "test@", "sample@",
}

type Trust int

const (
	TrustInferred Trust = iota
	TrustPage
	TrustIntercepted
)

type Finding struct {
	Email string
	Trust Trust
}

func IsGenericEmail(email string) bool {
	le := strings.ToLower(email)
	for _, p := range genericPrefixes {
		if strings.Contains(le, p) {
			return true
		}
	}
	return false
}

// scanEmails pulls non-generic addresses out of arbitrary text.
func scanEmails(text string, trust Trust) []Finding {
	var out []Finding
	for _, m := range emailRe.FindAllString(text, -1) {
		e := strings.ToLower(strings.TrimSpace(m))
		if IsGenericEmail(e) {
			continue
		}
		out = append(out, Finding{Email: e, Trust: trust})
	}
	return out
}

// MatchesPerson reports whether an address looks specific to the given
// person or their company, rather than a stray footer mailbox.
func MatchesPerson(email, name, company string) bool {
	le := strings.ToLower(email)
	for _, part := range nameParts(name) {
		if strings.Contains(le, part) {
			return true
		}
	}
	if d := companyDomain(company); d != "" && strings.Contains(le, d) {
		return true
	}
	return false
}

func nameParts(name string) []string {
	var out []string
	for _, p := range strings.Fields(strings.ToLower(name)) {
		if len(p) > 2 {
			out = append(out, p)
		}
	}
	return out
}

// mergeFindings dedupes by address, keeping the highest trust tag.
// Order is deterministic: trust descending, then address.
func mergeFindings(lists ...[]Finding) []Finding {
	best := map[string]Trust{}
	for _, l := range lists {
		for _, f := range l {
			if t, ok := best[f.Email]; !ok || f.Trust > t {
				best[f.Email] = f.Trust
			}
		}
	}
	out := make([]Finding, 0, len(best))
	for e, t := range best {
		out = append(out, Finding{Email: e, Trust: t})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Trust != out[j].Trust {
			return out[i].Trust > out[j].Trust
		}
		return out[i].Email < out[j].Email
	})
	return out
}

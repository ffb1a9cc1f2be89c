package extract

import (
	"context"
	"strings"
	"time"

	"scrapster-engine/internal/browser"
)

// hiddenTextJS collects text that a plain innerText read misses:
// elements hidden by style, data attributes that carry contact info,
// and shadow DOM subtrees.
const hiddenTextJS = `() => {
	const out = [];
	const push = (s) => { if (s && s.trim()) out.push(s.trim()); };
	for (const el of document.querySelectorAll('[style*="display:none"], [style*="display: none"], [hidden], [aria-hidden="true"]')) {
		push(el.textContent);
	}
	for (const el of document.querySelectorAll('*')) {
		for (const a of el.attributes || []) {
			if (a.name.startsWith('data-') && a.value.includes('@')) push(a.value);
		}
	}
	const walk = (root) => {
		for (const el of root.querySelectorAll('*')) {
			if (el.shadowRoot) {
				push(el.shadowRoot.textContent);
				walk(el.shadowRoot);
			}
		}
	};
	walk(document);
	return out.slice(0, 200);
}`

// runHiddenDOM scans content that never reaches the visible page text.
func (c *Chain) runHiddenDOM(ctx context.Context, st *state) error {
	if st.session == nil {
		return nil
	}
	chunks, err := st.session.EvalStrings(hiddenTextJS)
	if err != nil {
		return err
	}
	st.res.Emails = mergeFindings(st.res.Emails,
		scanEmails(strings.Join(chunks, "\n"), TrustPage))
	return nil
}

// runNetworkCapture scans API response bodies intercepted while the
// page loaded. Addresses found here came from the site's own backend,
// so they carry the highest trust tag.
func (c *Chain) runNetworkCapture(ctx context.Context, st *state) error {
	if st.session == nil {
		return nil
	}
	var found []Finding
	for _, body := range st.session.CapturedBodies() {
		found = mergeFindings(found, scanEmails(body, TrustIntercepted))
	}
	st.res.Emails = mergeFindings(st.res.Emails, found)
	return nil
}

// runReveal drives the human-like interaction sequence, then re-reads
// the page and any newly intercepted responses. Skipped when earlier
// strategies already found a high-trust address; the interaction is by
// far the most expensive step.
func (c *Chain) runReveal(ctx context.Context, st *state) error {
	if st.session == nil {
		return nil
	}
	if hasTrusted(st.res.Emails) {
		return nil
	}

	clicked := st.session.Perform(ctx, browser.HumanSequence(st.session.PageHeight()))

	// re-read even without a click: scrolling alone can lazy-load
	// contact sections
	time.Sleep(200 * time.Millisecond)
	if text, err := st.session.Text(); err == nil && text != "" {
		st.pageText = text
		st.res.Emails = mergeFindings(st.res.Emails, scanEmails(text, TrustPage))
	}
	if clicked {
		if html, err := st.session.HTML(); err == nil {
			st.pageHTML = html
			st.res.Emails = mergeFindings(st.res.Emails, scanEmails(html, TrustPage))
		}
	}
	return c.runNetworkCapture(ctx, st)
}

func hasTrusted(findings []Finding) bool {
	for _, f := range findings {
		if f.Trust >= TrustPage {
			return true
		}
	}
	return false
}

package extract

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// runStatic is the cheapest strategy and always goes first: fetch the
// candidate page (or reuse the rendered session in advanced mode) and
// regex-scan its text. It also backfills name/title/company hints from
// the page itself.
func (c *Chain) runStatic(ctx context.Context, st *state) error {
	if st.session != nil {
		text, err := st.session.Text()
		if err != nil {
			return err
		}
		html, err := st.session.HTML()
		if err != nil {
			return err
		}
		st.pageText = text
		st.pageHTML = html
	} else {
		html, err := c.fetchPage(ctx, st.cand.URL)
		if err != nil {
			return err
		}
		st.pageHTML = html
	}

	if st.pageHTML != "" {
		if doc, err := goquery.NewDocumentFromReader(strings.NewReader(st.pageHTML)); err == nil {
			if st.pageText == "" {
				st.pageText = cleanText(doc.Find("body").Text())
			}
			if st.res.Name == "" {
				if h1 := cleanText(doc.Find("h1").First().Text()); h1 != "" && !LooksLikeCompanyName(h1) {
					st.res.Name = h1
				}
			}
		}
	}

	if st.res.JobTitle == "" {
		st.res.JobTitle = JobTitleFrom(st.pageText)
	}
	if st.res.Company == "" {
		st.res.Company = CompanyFrom(st.pageText)
	}

	st.res.Emails = mergeFindings(st.res.Emails,
		scanEmails(st.pageText, TrustPage),
		scanEmails(st.pageHTML, TrustPage),
	)
	return nil
}

func (c *Chain) fetchPage(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")

	res, err := c.hc.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch candidate: %w", err)
	}
	defer res.Body.Close()
	if res.StatusCode >= 400 {
		return "", fmt.Errorf("candidate page status %d", res.StatusCode)
	}

	b, err := io.ReadAll(io.LimitReader(res.Body, 2<<20))
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func cleanText(s string) string {
	s = strings.ReplaceAll(s, "\u00a0", " ")
	s = strings.Join(strings.Fields(s), " ")
	return strings.TrimSpace(s)
}

package search

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"scrapster-engine/internal/credentials"
)

const defaultEndpoint = "https://www.googleapis.com/customsearch/v1"

// ErrQuotaExceeded signals the active credential is out of quota and the
// paginator should rotate to the next one without advancing the offset.
var ErrQuotaExceeded = errors.New("search: credential quota exceeded")

// Candidate is one unprocessed search result pointing at a page to be
// mined for contact data.
type Candidate struct {
	Title   string `json:"title"`
	Snippet string `json:"snippet"`
	URL     string `json:"url"`
	Source  string `json:"source"` // display host from the result
}

// Page is one page of search results.
type Page struct {
	Candidates []Candidate
	Total      int
}

// Fetcher retrieves one page of results for a query using a credential.
// start is 1-based, matching the search API's offset convention.
type Fetcher interface {
	FetchPage(ctx context.Context, cred credentials.Credential, query string, start, num int) (*Page, error)
}

// Client talks to the custom search JSON API.
type Client struct {
	hc       *http.Client
	endpoint string
}

func NewClient() *Client {
	return &Client{
		hc:       &http.Client{Timeout: 30 * time.Second},
		endpoint: defaultEndpoint,
	}
}

// NewClientWithEndpoint exists for tests that point at a local server.
func NewClientWithEndpoint(endpoint string) *Client {
	c := NewClient()
	c.endpoint = endpoint
	return c
}

type apiItem struct {
	Title       string `json:"title"`
	Link        string `json:"link"`
	Snippet     string `json:"snippet"`
	DisplayLink string `json:"displayLink"`
}

type apiError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Errors  []struct {
		Reason string `json:"reason"`
	} `json:"errors"`
}

type apiResponse struct {
	Items []apiItem `json:"items"`
	Error *apiError `json:"error"`
}

func (c *Client) FetchPage(ctx context.Context, cred credentials.Credential, query string, start, num int) (*Page, error) {
	q := url.Values{}
	q.Set("key", cred.APIKey)
	q.Set("cx", cred.EngineID)
	q.Set("q", query)
	q.Set("start", strconv.Itoa(start))
	q.Set("num", strconv.Itoa(num))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "Scrapster/1.0 (+local)")

	res, err := c.hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search get page: %w", err)
	}
	defer res.Body.Close()

	body, err := io.ReadAll(io.LimitReader(res.Body, 4<<20))
	if err != nil {
		return nil, fmt.Errorf("search read body: %w", err)
	}

	if res.StatusCode == http.StatusTooManyRequests {
		return nil, ErrQuotaExceeded
	}

	var parsed apiResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("search decode response (status %d): %w", res.StatusCode, err)
	}

	if parsed.Error != nil {
		if isQuotaError(parsed.Error) {
			return nil, ErrQuotaExceeded
		}
		return nil, fmt.Errorf("search api error (%d): %s", parsed.Error.Code, parsed.Error.Message)
	}
	if res.StatusCode >= 400 {
		return nil, fmt.Errorf("search status %d", res.StatusCode)
	}

	page := &Page{Total: len(parsed.Items)}
	for _, it := range parsed.Items {
		if it.Link == "" && it.Title == "" {
			continue
		}
		page.Candidates = append(page.Candidates, Candidate{
			Title:   it.Title,
			Snippet: it.Snippet,
			URL:     it.Link,
			Source:  it.DisplayLink,
		})
	}
	return page, nil
}

func isQuotaError(e *apiError) bool {
	if e.Code == 429 {
		return true
	}
	if strings.Contains(strings.ToLower(e.Message), "quota") {
		return true
	}
	for _, inner := range e.Errors {
		switch inner.Reason {
		case "quotaExceeded", "dailyLimitExceeded", "rateLimitExceeded":
			return true
		}
	}
	return false
}

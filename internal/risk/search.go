package risk

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

const (
	defaultSearchURL      = "https://www.google.com/search"
	defaultResultSelector = "div.g"
	defaultUserAgent      = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"
	searchMaxBodyBytes    = 2 << 20 // 2 MiB
	defaultSearchPause    = 2 * time.Second
	defaultSearchTimeout  = 15 * time.Second
)

// Searcher returns the visible text of each result for a query.
type Searcher interface {
	Search(ctx context.Context, query string) ([]string, error)
}

// SearcherConfig configures an HTMLSearcher. Zero values take defaults.
type SearcherConfig struct {
	// BaseURL is the results page; the query is sent as the "q" parameter.
	BaseURL string

	// Selector picks one result container per match. Default "div.g".
	Selector string

	UserAgent string

	// Pause is waited before every request to keep the request rate low.
	// Negative disables the pause.
	Pause time.Duration

	Timeout time.Duration
}

// HTMLSearcher scrapes a search results page and returns the text of every
// element matching Selector.
type HTMLSearcher struct {
	baseURL    string
	selector   string
	userAgent  string
	pause      time.Duration
	httpClient *http.Client
}

// NewHTMLSearcher returns an HTMLSearcher with defaults applied.
func NewHTMLSearcher(cfg SearcherConfig) *HTMLSearcher {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		cfg.BaseURL = defaultSearchURL
	}
	if cfg.Selector == "" {
		cfg.Selector = defaultResultSelector
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = defaultUserAgent
	}
	if cfg.Pause == 0 {
		cfg.Pause = defaultSearchPause
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultSearchTimeout
	}

	return &HTMLSearcher{
		baseURL:   strings.TrimSpace(cfg.BaseURL),
		selector:  cfg.Selector,
		userAgent: cfg.UserAgent,
		pause:     cfg.Pause,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

// Search fetches the results page for query and extracts result texts.
func (s *HTMLSearcher) Search(ctx context.Context, query string) ([]string, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, errors.New("risk search: missing query")
	}

	if s.pause > 0 {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(s.pause):
		}
	}

	endpoint, err := url.Parse(s.baseURL)
	if err != nil {
		return nil, fmt.Errorf("risk search: parse base url: %w", err)
	}
	q := endpoint.Query()
	q.Set("q", query)
	endpoint.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("risk search: build request: %w", err)
	}
	req.Header.Set("User-Agent", s.userAgent)
	req.Header.Set("Accept", "text/html")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("risk search: http request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("risk search: unexpected status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(io.LimitReader(resp.Body, searchMaxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("risk search: parse html: %w", err)
	}

	var texts []string
	doc.Find(s.selector).Each(func(_ int, sel *goquery.Selection) {
		// Collapse the whitespace left behind by nested markup.
		text := strings.Join(strings.Fields(sel.Text()), " ")
		if text != "" {
			texts = append(texts, text)
		}
	})
	return texts, nil
}

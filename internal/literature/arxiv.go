// Package literature provides the external paper lookup against the arXiv
// Atom API.
package literature

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"paperqa/internal/domain"
)

var _ domain.LiteratureSearcher = (*Client)(nil)

// Default client configuration.
const (
	DefaultBaseURL    = "http://export.arxiv.org/api/query"
	DefaultMaxResults = 3
	DefaultTimeout    = 15 * time.Second
)

// noiseRe strips routing words from the utterance before it is used as a
// search query.
var noiseRe = regexp.MustCompile(`(?i)\b(find|paper|arxiv|on|about)\b`)

// Config configures the arXiv client.
type Config struct {
	BaseURL    string
	MaxResults int
	Timeout    time.Duration
}

// Client queries the arXiv Atom API.
type Client struct {
	baseURL    string
	maxResults int
	client     *http.Client
}

// New creates an arXiv search client.
func New(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.MaxResults <= 0 {
		cfg.MaxResults = DefaultMaxResults
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	return &Client{
		baseURL:    cfg.BaseURL,
		maxResults: cfg.MaxResults,
		client:     &http.Client{Timeout: cfg.Timeout},
	}
}

// atom mirrors the subset of the arXiv Atom feed we consume.
type atom struct {
	Entries []struct {
		ID      string `xml:"id"`
		Title   string `xml:"title"`
		Summary string `xml:"summary"`
		Authors []struct {
			Name string `xml:"name"`
		} `xml:"author"`
	} `xml:"entry"`
}

// Search looks up papers matching query, sorted by relevance. An empty
// result list is not an error.
func (c *Client) Search(ctx context.Context, query string, maxResults int) ([]domain.Paper, error) {
	if maxResults <= 0 {
		maxResults = c.maxResults
	}
	q := CleanQuery(query)
	params := url.Values{}
	params.Set("search_query", "all:"+q)
	params.Set("max_results", fmt.Sprintf("%d", maxResults))
	params.Set("sortBy", "relevance")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("arxiv search: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("arxiv search failed: %s", resp.Status)
	}
	var feed atom
	if err := xml.NewDecoder(resp.Body).Decode(&feed); err != nil {
		return nil, fmt.Errorf("arxiv search: decode feed: %w", err)
	}
	return papersFromFeed(feed), nil
}

// CleanQuery removes trigger phrasing ("find paper on ...") so only the
// topic reaches the search index. Falls back to the raw query when
// cleaning would empty it.
func CleanQuery(query string) string {
	cleaned := strings.Join(strings.Fields(noiseRe.ReplaceAllString(query, " ")), " ")
	if cleaned == "" {
		return strings.TrimSpace(query)
	}
	return cleaned
}

func papersFromFeed(feed atom) []domain.Paper {
	papers := make([]domain.Paper, 0, len(feed.Entries))
	for _, e := range feed.Entries {
		authors := make([]string, 0, len(e.Authors))
		for _, a := range e.Authors {
			authors = append(authors, strings.TrimSpace(a.Name))
		}
		papers = append(papers, domain.Paper{
			Title:   strings.Join(strings.Fields(e.Title), " "),
			Authors: authors,
			Summary: strings.TrimSpace(e.Summary),
			Link:    strings.TrimSpace(e.ID),
		})
	}
	return papers
}

package search

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/search/query"
)

// ErrEmptyQuery is returned when a search has no text to match.
var ErrEmptyQuery = errors.New("search: query is required")

const (
	defaultLimit = 20
	maxLimit     = 100
)

// SearchParams configures a verse search.
type SearchParams struct {
	Query       string
	Translation string // Exact translation code filter (empty = all)
	Book        string // Exact book slug filter (empty = all)

	Limit  int
	Offset int

	Highlight bool
}

// SearchResult holds the matching verses.
type SearchResult struct {
	Query  string      `json:"query"`
	Total  uint64      `json:"total"`
	TookMs int64       `json:"took_ms"`
	Hits   []SearchHit `json:"hits"`
}

// SearchHit is one matching verse.
type SearchHit struct {
	ID          string  `json:"id"`
	Score       float64 `json:"score"`
	Translation string  `json:"translation"`
	Book        string  `json:"book"`
	Chapter     int     `json:"chapter"`
	Verse       int     `json:"verse"`
	Text        string  `json:"text"`
	Highlight   string  `json:"highlight,omitempty"`
}

// Search runs a full-text query over the indexed verses.
// Results are ordered by relevance, then by chapter and verse.
func (s *SearchIndex) Search(ctx context.Context, params SearchParams) (*SearchResult, error) {
	params.Query = strings.TrimSpace(params.Query)
	if params.Query == "" {
		return nil, ErrEmptyQuery
	}
	if params.Limit <= 0 {
		params.Limit = defaultLimit
	}
	params.Limit = min(params.Limit, maxLimit)
	params.Offset = max(params.Offset, 0)

	s.mu.RLock()
	defer s.mu.RUnlock()

	req := bleve.NewSearchRequestOptions(buildSearchQuery(params), params.Limit, params.Offset, false)
	req.SortBy([]string{"-_score", "chapter", "verse"})
	req.Fields = []string{"translation", "book", "chapter", "verse", "text"}
	if params.Highlight {
		req.Highlight = bleve.NewHighlight()
		req.Highlight.AddField("text")
	}

	res, err := s.index.SearchInContext(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("execute search: %w", err)
	}

	result := &SearchResult{
		Query:  params.Query,
		Total:  res.Total,
		TookMs: res.Took.Milliseconds(),
		Hits:   make([]SearchHit, 0, len(res.Hits)),
	}

	for _, hit := range res.Hits {
		h := SearchHit{
			ID:    hit.ID,
			Score: hit.Score,
		}
		if t, ok := hit.Fields["translation"].(string); ok {
			h.Translation = t
		}
		if b, ok := hit.Fields["book"].(string); ok {
			h.Book = b
		}
		if c, ok := hit.Fields["chapter"].(float64); ok {
			h.Chapter = int(c)
		}
		if v, ok := hit.Fields["verse"].(float64); ok {
			h.Verse = int(v)
		}
		if t, ok := hit.Fields["text"].(string); ok {
			h.Text = t
		}
		if fragments := hit.Fragments["text"]; len(fragments) > 0 {
			h.Highlight = fragments[0]
		}
		result.Hits = append(result.Hits, h)
	}

	return result, nil
}

// buildSearchQuery matches the words of the query anywhere in the verse, with
// an exact phrase match boosted above scattered matches.
func buildSearchQuery(params SearchParams) query.Query {
	match := bleve.NewMatchQuery(params.Query)
	match.SetField("text")

	phrase := bleve.NewMatchPhraseQuery(params.Query)
	phrase.SetField("text")
	phrase.SetBoost(2.0)

	queries := []query.Query{bleve.NewDisjunctionQuery(match, phrase)}

	if params.Translation != "" {
		tq := bleve.NewTermQuery(strings.ToLower(params.Translation))
		tq.SetField("translation")
		queries = append(queries, tq)
	}
	if params.Book != "" {
		bq := bleve.NewTermQuery(params.Book)
		bq.SetField("book")
		queries = append(queries, bq)
	}

	if len(queries) == 1 {
		return queries[0]
	}
	return bleve.NewConjunctionQuery(queries...)
}

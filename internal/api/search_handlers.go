package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	domainerrors "github.com/Fabioalbuqueque/pregacao/internal/errors"
	"github.com/Fabioalbuqueque/pregacao/internal/reference"
	"github.com/Fabioalbuqueque/pregacao/internal/search"
	"github.com/Fabioalbuqueque/pregacao/internal/service"
)

func (s *Server) registerSearchRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "searchVerses",
		Method:      http.MethodGet,
		Path:        "/api/v1/search",
		Summary:     "Search verses",
		Description: "Full-text search over every cached chapter",
		Tags:        []string{"Search"},
	}, s.handleSearch)

	huma.Register(s.api, huma.Operation{
		OperationID: "reindexVerses",
		Method:      http.MethodPost,
		Path:        "/api/v1/search/reindex",
		Summary:     "Rebuild search index",
		Description: "Empties the verse index and rebuilds it from the chapter cache",
		Tags:        []string{"Search"},
	}, s.handleReindex)
}

// SearchInput contains parameters for searching verses.
type SearchInput struct {
	Query       string `query:"q" required:"true" minLength:"1" maxLength:"200" doc:"Words to look for"`
	Translation string `query:"translation" maxLength:"16" doc:"Only verses cached under this translation"`
	Book        string `query:"book" maxLength:"40" doc:"Only verses of this book (slug or name)"`
	Limit       int    `query:"limit" minimum:"0" maximum:"100" doc:"Max results (default 20)"`
	Offset      int    `query:"offset" minimum:"0" doc:"Pagination offset"`
}

// SearchOutput wraps the search result for Huma.
type SearchOutput struct {
	Body *search.SearchResult
}

// ReindexOutput wraps the reindex summary for Huma.
type ReindexOutput struct {
	Body service.ReindexResult
}

func (s *Server) handleSearch(ctx context.Context, input *SearchInput) (*SearchOutput, error) {
	if s.services.Search == nil {
		return nil, domainerrors.Unavailable("search is not configured")
	}

	params := search.SearchParams{
		Query:       input.Query,
		Translation: input.Translation,
		Limit:       input.Limit,
		Offset:      input.Offset,
		Highlight:   true,
	}
	if input.Book != "" {
		book, err := reference.LookupBook(input.Book)
		if err != nil {
			return nil, err
		}
		params.Book = book.Slug
	}

	result, err := s.services.Search.Search(ctx, params)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("search completed",
		"query", input.Query,
		"total", result.Total,
		"took_ms", result.TookMs,
	)

	return &SearchOutput{Body: result}, nil
}

func (s *Server) handleReindex(ctx context.Context, _ *struct{}) (*ReindexOutput, error) {
	if s.services.Reindex == nil {
		return nil, domainerrors.Unavailable("search is not configured")
	}

	result, err := s.services.Reindex.Reindex(ctx)
	if err != nil {
		return nil, domainerrors.Wrap(err, domainerrors.CodeInternal, "reindex failed")
	}
	return &ReindexOutput{Body: result}, nil
}

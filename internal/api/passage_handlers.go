package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/Fabioalbuqueque/pregacao/internal/reference"
	"github.com/Fabioalbuqueque/pregacao/internal/scripture"
)

func (s *Server) registerPassageRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "getPassage",
		Method:      http.MethodGet,
		Path:        "/api/v1/passages/{translation}/{book}/{chapter}",
		Summary:     "Get chapter",
		Description: "Returns a chapter from the offline cache, fetching and caching it on a miss. " +
			"When the requested translation is unavailable another one may be served; " +
			"an empty verse list means no provider had the chapter.",
		Tags: []string{"Passages"},
	}, s.handleGetPassage)

	huma.Register(s.api, huma.Operation{
		OperationID: "refreshPassage",
		Method:      http.MethodPost,
		Path:        "/api/v1/passages/{translation}/{book}/{chapter}/refresh",
		Summary:     "Refresh chapter",
		Description: "Fetches a chapter from the providers and overwrites its cache entry",
		Tags:        []string{"Passages"},
	}, s.handleRefreshPassage)
}

// PassagePath identifies a chapter in the URL.
type PassagePath struct {
	Translation string `path:"translation" pattern:"^[A-Za-z0-9]{2,16}$" doc:"Translation code, e.g. almeida"`
	Book        string `path:"book" maxLength:"40" doc:"Book slug or name, e.g. john or joao"`
	Chapter     int    `path:"chapter" minimum:"1" doc:"Chapter number"`
}

// GetPassageInput contains parameters for reading a chapter.
type GetPassageInput struct {
	PassagePath
	Live bool `query:"live" doc:"Skip the cache and query the providers directly"`
}

// PassageResponse is a chapter as returned to readers.
type PassageResponse struct {
	Translation       string            `json:"translation" doc:"Requested translation"`
	ServedTranslation string            `json:"served_translation" doc:"Translation that produced the verses"`
	ServedName        string            `json:"served_name" doc:"Display name of the served translation"`
	Substituted       bool              `json:"substituted" doc:"True when another translation was served"`
	Book              string            `json:"book" doc:"Book slug"`
	BookName          string            `json:"book_name" doc:"Portuguese book name"`
	Chapter           int               `json:"chapter"`
	Source            string            `json:"source,omitempty" doc:"Provider that answered, or cache"`
	Verses            []scripture.Verse `json:"verses" doc:"Verses in ascending order"`
}

// PassageOutput wraps the passage response for Huma.
type PassageOutput struct {
	Body PassageResponse
}

func (s *Server) handleGetPassage(ctx context.Context, input *GetPassageInput) (*PassageOutput, error) {
	book, err := reference.ValidateChapter(input.Book, input.Chapter)
	if err != nil {
		return nil, err
	}

	var passage scripture.Passage
	if input.Live {
		passage = s.services.Passages.FetchChapter(ctx, book.Slug, input.Chapter, input.Translation)
	} else {
		passage = s.services.Passages.GetChapter(ctx, book.Slug, input.Chapter, input.Translation)
	}

	return &PassageOutput{Body: toPassageResponse(passage, book)}, nil
}

func (s *Server) handleRefreshPassage(ctx context.Context, input *PassagePath) (*PassageOutput, error) {
	book, err := reference.ValidateChapter(input.Book, input.Chapter)
	if err != nil {
		return nil, err
	}

	passage := s.services.Passages.RefreshChapter(ctx, book.Slug, input.Chapter, input.Translation)

	return &PassageOutput{Body: toPassageResponse(passage, book)}, nil
}

func toPassageResponse(p scripture.Passage, book reference.Book) PassageResponse {
	verses := p.Verses
	if verses == nil {
		verses = []scripture.Verse{}
	}
	return PassageResponse{
		Translation:       p.Key.Translation,
		ServedTranslation: p.Translation,
		ServedName:        reference.TranslationName(p.Translation),
		Substituted:       p.Substituted(),
		Book:              book.Slug,
		BookName:          book.Name,
		Chapter:           p.Key.Chapter,
		Source:            p.Source,
		Verses:            verses,
	}
}

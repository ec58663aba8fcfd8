package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/Fabioalbuqueque/pregacao/internal/reference"
)

func (s *Server) registerReferenceRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listTranslations",
		Method:      http.MethodGet,
		Path:        "/api/v1/translations",
		Summary:     "List translations",
		Description: "Returns the translations offered to readers and the server default",
		Tags:        []string{"Reference"},
	}, s.handleListTranslations)

	huma.Register(s.api, huma.Operation{
		OperationID: "listBooks",
		Method:      http.MethodGet,
		Path:        "/api/v1/books",
		Summary:     "List books",
		Description: "Returns the 66 books of the canon with chapter counts",
		Tags:        []string{"Reference"},
	}, s.handleListBooks)
}

// TranslationResponse is one selectable translation.
type TranslationResponse struct {
	Code string `json:"code" doc:"Translation code used in passage URLs"`
	Name string `json:"name" doc:"Display name"`
}

// ListTranslationsOutput wraps the translation list.
type ListTranslationsOutput struct {
	Body struct {
		Default      string                `json:"default" doc:"Translation used when none is requested"`
		Translations []TranslationResponse `json:"translations"`
	}
}

// BookResponse describes a book of the canon.
type BookResponse struct {
	Slug      string `json:"slug" doc:"Identifier used in passage URLs"`
	Name      string `json:"name" doc:"Portuguese name"`
	English   string `json:"english" doc:"English name"`
	Testament string `json:"testament" doc:"old or new"`
	Chapters  int    `json:"chapters" doc:"Number of chapters"`
}

// ListBooksOutput wraps the book list.
type ListBooksOutput struct {
	Body struct {
		Books []BookResponse `json:"books"`
	}
}

func (s *Server) handleListTranslations(_ context.Context, _ *struct{}) (*ListTranslationsOutput, error) {
	out := &ListTranslationsOutput{}
	out.Body.Default = s.services.Passages.DefaultTranslation()
	for _, t := range reference.Translations() {
		out.Body.Translations = append(out.Body.Translations, TranslationResponse{Code: t.Code, Name: t.Name})
	}
	return out, nil
}

func (s *Server) handleListBooks(_ context.Context, _ *struct{}) (*ListBooksOutput, error) {
	books := reference.Books()
	out := &ListBooksOutput{}
	out.Body.Books = make([]BookResponse, 0, len(books))
	for _, b := range books {
		out.Body.Books = append(out.Body.Books, BookResponse{
			Slug:      b.Slug,
			Name:      b.Name,
			English:   b.English,
			Testament: string(b.Testament),
			Chapters:  b.Chapters(),
		})
	}
	return out, nil
}

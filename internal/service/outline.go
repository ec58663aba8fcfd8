package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Fabioalbuqueque/pregacao/internal/domain"
	domainerrors "github.com/Fabioalbuqueque/pregacao/internal/errors"
	"github.com/Fabioalbuqueque/pregacao/internal/id"
	"github.com/Fabioalbuqueque/pregacao/internal/reference"
	"github.com/Fabioalbuqueque/pregacao/internal/store"
	"github.com/Fabioalbuqueque/pregacao/internal/validation"
)

// CreateOutlineRequest holds the fields of a new outline.
type CreateOutlineRequest struct {
	Title   string   `json:"title" validate:"required,max=200"`
	Passage string   `json:"passage,omitempty" validate:"max=200"`
	Tags    []string `json:"tags,omitempty" validate:"max=20,dive,max=40"`
	Notes   string   `json:"notes,omitempty" validate:"max=20000"`
}

// UpdateOutlineRequest changes the non-nil fields of an outline.
type UpdateOutlineRequest struct {
	Title   *string   `json:"title,omitempty" validate:"omitempty,min=1,max=200"`
	Passage *string   `json:"passage,omitempty" validate:"omitempty,max=200"`
	Tags    *[]string `json:"tags,omitempty" validate:"omitempty,max=20,dive,max=40"`
	Notes   *string   `json:"notes,omitempty" validate:"omitempty,max=20000"`
}

// AddTopicRequest attaches a verse to an outline.
type AddTopicRequest struct {
	Reference   string `json:"reference,omitempty" validate:"max=100"`
	Book        string `json:"book" validate:"required,book"`
	Chapter     int    `json:"chapter" validate:"gte=1"`
	Verse       int    `json:"verse" validate:"gte=1"`
	Text        string `json:"text,omitempty" validate:"max=5000"`
	Translation string `json:"translation,omitempty" validate:"omitempty,translation"`
}

// OutlineService manages sermon outlines.
type OutlineService struct {
	store     *store.Store
	validator *validation.Validator
	logger    *slog.Logger
}

// NewOutlineService creates a new outline service.
func NewOutlineService(store *store.Store, validator *validation.Validator, logger *slog.Logger) *OutlineService {
	return &OutlineService{
		store:     store,
		validator: validator,
		logger:    logger,
	}
}

// List returns all outlines, most recently updated first.
func (s *OutlineService) List(ctx context.Context) ([]*domain.Outline, error) {
	return s.store.ListOutlines(ctx)
}

// Get returns one outline.
func (s *OutlineService) Get(ctx context.Context, outlineID string) (*domain.Outline, error) {
	o, err := s.store.GetOutline(ctx, outlineID)
	if err != nil {
		return nil, s.mapError(err, outlineID)
	}
	return o, nil
}

// Create stores a new outline.
func (s *OutlineService) Create(ctx context.Context, req CreateOutlineRequest) (*domain.Outline, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	outlineID, err := id.Generate(id.PrefixOutline)
	if err != nil {
		return nil, fmt.Errorf("generate outline id: %w", err)
	}

	now := time.Now()
	o := &domain.Outline{
		ID:        outlineID,
		Title:     req.Title,
		Passage:   req.Passage,
		Tags:      domain.NormalizeTags(req.Tags),
		Notes:     req.Notes,
		Topics:    []domain.Topic{},
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.store.SaveOutline(ctx, o); err != nil {
		return nil, fmt.Errorf("save outline: %w", err)
	}

	s.logger.Info("outline created", "outline_id", o.ID, "title", o.Title)
	return o, nil
}

// Update applies the non-nil fields of req. Topics and CreatedAt are preserved.
func (s *OutlineService) Update(ctx context.Context, outlineID string, req UpdateOutlineRequest) (*domain.Outline, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	o, err := s.Get(ctx, outlineID)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		o.Title = *req.Title
	}
	if req.Passage != nil {
		o.Passage = *req.Passage
	}
	if req.Tags != nil {
		o.Tags = domain.NormalizeTags(*req.Tags)
	}
	if req.Notes != nil {
		o.Notes = *req.Notes
	}
	o.Touch()

	if err := s.store.SaveOutline(ctx, o); err != nil {
		return nil, fmt.Errorf("save outline: %w", err)
	}
	return o, nil
}

// Delete removes an outline.
func (s *OutlineService) Delete(ctx context.Context, outlineID string) error {
	if err := s.store.DeleteOutline(ctx, outlineID); err != nil {
		return s.mapError(err, outlineID)
	}
	s.logger.Info("outline deleted", "outline_id", outlineID)
	return nil
}

// AddTopic prepends a verse to the outline's topics.
// An empty reference is filled in as "{Book name} {chapter}:{verse}".
func (s *OutlineService) AddTopic(ctx context.Context, outlineID string, req AddTopicRequest) (*domain.Outline, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	book, err := reference.ValidateVerse(req.Book, req.Chapter, req.Verse)
	if err != nil {
		return nil, domainerrors.Validation(err.Error())
	}

	o, err := s.Get(ctx, outlineID)
	if err != nil {
		return nil, err
	}

	ref := req.Reference
	if ref == "" {
		ref = fmt.Sprintf("%s %d:%d", book.Name, req.Chapter, req.Verse)
	}

	o.AddTopic(domain.Topic{
		Reference:   ref,
		Book:        book.Slug,
		Chapter:     req.Chapter,
		Verse:       req.Verse,
		Text:        req.Text,
		Translation: req.Translation,
	})

	if err := s.store.SaveOutline(ctx, o); err != nil {
		return nil, fmt.Errorf("save outline: %w", err)
	}
	return o, nil
}

// RemoveTopic removes the topic at index. Out-of-range indexes are ignored.
func (s *OutlineService) RemoveTopic(ctx context.Context, outlineID string, index int) (*domain.Outline, error) {
	o, err := s.Get(ctx, outlineID)
	if err != nil {
		return nil, err
	}

	if !o.RemoveTopic(index) {
		s.logger.Debug("topic index out of range", "outline_id", outlineID, "index", index)
	}

	if err := s.store.SaveOutline(ctx, o); err != nil {
		return nil, fmt.Errorf("save outline: %w", err)
	}
	return o, nil
}

// SeedIfEmpty installs a sample outline when there are none.
func (s *OutlineService) SeedIfEmpty(ctx context.Context) error {
	n, err := s.store.CountOutlines(ctx)
	if err != nil {
		return fmt.Errorf("count outlines: %w", err)
	}
	if n > 0 {
		return nil
	}

	now := time.Now()
	sample := &domain.Outline{
		ID:      id.MustGenerate(id.PrefixOutline),
		Title:   "Deus amou o mundo",
		Passage: "João 3:16",
		Tags:    []string{"amor", "evangelho"},
		Notes: "1) A origem do amor\n2) A prova do amor (dar)\n3) O propósito (salvação)\n\n" +
			"Aplicações: confie, receba, compartilhe.",
		Topics: []domain.Topic{{
			Reference:   "João 3:16",
			Book:        "john",
			Chapter:     3,
			Verse:       16,
			Text:        "Porque Deus amou o mundo de tal maneira... (trecho)",
			Translation: "almeida",
			CreatedAt:   now,
		}},
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.store.SaveOutline(ctx, sample); err != nil {
		return fmt.Errorf("seed outline: %w", err)
	}
	s.logger.Info("seeded sample outline", "outline_id", sample.ID)
	return nil
}

func (s *OutlineService) mapError(err error, outlineID string) error {
	if errors.Is(err, store.ErrNotFound) {
		return domainerrors.NotFoundf("outline %s not found", outlineID)
	}
	return err
}

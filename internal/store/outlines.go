package store

import (
	"context"
	"fmt"
	"slices"

	"github.com/Fabioalbuqueque/pregacao/internal/domain"
)

const outlinePrefix = "outline:"

// CountOutlines returns the number of stored outlines.
func (s *Store) CountOutlines(ctx context.Context) (int, error) {
	return s.Outlines.Count(ctx)
}

// ListOutlines returns every outline, most recently updated first.
func (s *Store) ListOutlines(ctx context.Context) ([]*domain.Outline, error) {
	var outlines []*domain.Outline
	for o, err := range s.Outlines.List(ctx) {
		if err != nil {
			return nil, fmt.Errorf("list outlines: %w", err)
		}
		outlines = append(outlines, o)
	}

	slices.SortStableFunc(outlines, func(a, b *domain.Outline) int {
		return b.UpdatedAt.Compare(a.UpdatedAt)
	})
	return outlines, nil
}

// GetOutline returns one outline or ErrNotFound.
func (s *Store) GetOutline(ctx context.Context, id string) (*domain.Outline, error) {
	return s.Outlines.Get(ctx, id)
}

// SaveOutline creates or replaces an outline.
func (s *Store) SaveOutline(ctx context.Context, o *domain.Outline) error {
	if o.ID == "" {
		return fmt.Errorf("outline id cannot be empty")
	}

	exists, err := s.Outlines.Exists(ctx, o.ID)
	if err != nil {
		return err
	}
	if exists {
		return s.Outlines.Update(ctx, o.ID, o)
	}
	return s.Outlines.Create(ctx, o.ID, o)
}

// DeleteOutline removes an outline. Returns ErrNotFound if it does not exist.
func (s *Store) DeleteOutline(ctx context.Context, id string) error {
	exists, err := s.Outlines.Exists(ctx, id)
	if err != nil {
		return err
	}
	if !exists {
		return ErrNotFound
	}
	return s.Outlines.Delete(ctx, id)
}

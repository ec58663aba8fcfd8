package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/Fabioalbuqueque/pregacao/internal/domain"
	"github.com/Fabioalbuqueque/pregacao/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestStore(t *testing.T) *store.Store {
	t.Helper()

	s, err := store.New(t.TempDir(), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestOutlines_CRUD(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	now := time.Now()
	o := &domain.Outline{
		ID:        "outline-1",
		Title:     "Deus amou o mundo",
		Passage:   "João 3:16",
		Tags:      []string{"amor"},
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, s.SaveOutline(ctx, o))

	got, err := s.GetOutline(ctx, "outline-1")
	require.NoError(t, err)
	assert.Equal(t, "Deus amou o mundo", got.Title)
	assert.Equal(t, []string{"amor"}, got.Tags)

	o.Title = "Amor de Deus"
	require.NoError(t, s.SaveOutline(ctx, o))

	got, err = s.GetOutline(ctx, "outline-1")
	require.NoError(t, err)
	assert.Equal(t, "Amor de Deus", got.Title)

	n, err := s.CountOutlines(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	require.NoError(t, s.DeleteOutline(ctx, "outline-1"))

	_, err = s.GetOutline(ctx, "outline-1")
	assert.ErrorIs(t, err, store.ErrNotFound)
	assert.ErrorIs(t, s.DeleteOutline(ctx, "outline-1"), store.ErrNotFound)
}

func TestOutlines_ListSortedByUpdatedAt(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, id := range []string{"a", "b", "c"} {
		require.NoError(t, s.SaveOutline(ctx, &domain.Outline{
			ID:        id,
			Title:     id,
			UpdatedAt: base.Add(time.Duration([]int{2, 0, 1}[i]) * time.Hour),
		}))
	}

	list, err := s.ListOutlines(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "a", list[0].ID)
	assert.Equal(t, "c", list[1].ID)
	assert.Equal(t, "b", list[2].ID)
}

func TestOutlines_SaveRequiresID(t *testing.T) {
	s := setupTestStore(t)
	assert.Error(t, s.SaveOutline(context.Background(), &domain.Outline{Title: "x"}))
}

func TestEntity_CreateAlreadyExists(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Outlines.Create(ctx, "x", &domain.Outline{ID: "x"}))
	assert.ErrorIs(t, s.Outlines.Create(ctx, "x", &domain.Outline{ID: "x"}), store.ErrAlreadyExists)
	assert.ErrorIs(t, s.Outlines.Update(ctx, "missing", &domain.Outline{}), store.ErrNotFound)
}

func TestEntity_CanceledContext(t *testing.T) {
	s := setupTestStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.Outlines.Get(ctx, "x")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewInMemory(t *testing.T) {
	s, err := store.NewInMemory(nil)
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.SaveOutline(context.Background(), &domain.Outline{ID: "m"}))
	n, err := s.CountOutlines(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

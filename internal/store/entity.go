package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"iter"

	"github.com/dgraph-io/badger/v4"
)

// Entity provides CRUD operations for one JSON-encoded type stored under a key prefix.
type Entity[T any] struct {
	store  *Store
	prefix string
}

// NewEntity creates a new Entity instance for type T.
func NewEntity[T any](s *Store, prefix string) *Entity[T] {
	return &Entity[T]{
		store:  s,
		prefix: prefix,
	}
}

func (e *Entity[T]) key(id string) []byte {
	return []byte(e.prefix + id)
}

// Create stores a new entity. Returns ErrAlreadyExists if the ID is taken.
func (e *Entity[T]) Create(ctx context.Context, id string, entity *T) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.Marshal(entity)
	if err != nil {
		return fmt.Errorf("failed to marshal entity: %w", err)
	}

	return e.store.db.Update(func(txn *badger.Txn) error {
		_, err := txn.Get(e.key(id))
		if err == nil {
			return ErrAlreadyExists
		}
		if !errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("failed to check existing key: %w", err)
		}
		return txn.Set(e.key(id), data)
	})
}

// Get retrieves an entity by ID. Returns ErrNotFound if it does not exist.
func (e *Entity[T]) Get(ctx context.Context, id string) (*T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var entity T
	if err := e.store.get(e.key(id), &entity); err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get %s%s: %w", e.prefix, id, err)
	}
	return &entity, nil
}

// Update replaces an existing entity. Returns ErrNotFound if it does not exist.
func (e *Entity[T]) Update(ctx context.Context, id string, entity *T) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.Marshal(entity)
	if err != nil {
		return fmt.Errorf("failed to marshal entity: %w", err)
	}

	return e.store.db.Update(func(txn *badger.Txn) error {
		_, err := txn.Get(e.key(id))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to get existing key: %w", err)
		}
		return txn.Set(e.key(id), data)
	})
}

// Delete removes an entity. Deleting a missing entity is not an error.
func (e *Entity[T]) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return e.store.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(e.key(id))
	})
}

// Exists reports whether an entity with id is stored.
func (e *Entity[T]) Exists(ctx context.Context, id string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	return e.store.exists(e.key(id))
}

// List returns an iterator over all entities in key order.
func (e *Entity[T]) List(ctx context.Context) iter.Seq2[*T, error] {
	return func(yield func(*T, error) bool) {
		_ = e.store.db.View(func(txn *badger.Txn) error {
			prefix := []byte(e.prefix)
			opts := badger.DefaultIteratorOptions
			opts.Prefix = prefix

			it := txn.NewIterator(opts)
			defer it.Close()

			for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
				if ctx.Err() != nil {
					yield(nil, ctx.Err())
					return ctx.Err()
				}

				var entity T
				err := it.Item().Value(func(val []byte) error {
					return json.Unmarshal(val, &entity)
				})
				if err != nil {
					yield(nil, fmt.Errorf("failed to unmarshal entity: %w", err))
					return err
				}

				if !yield(&entity, nil) {
					return nil
				}
			}
			return nil
		})
	}
}

// Count returns the number of stored entities.
func (e *Entity[T]) Count(ctx context.Context) (int, error) {
	n := 0
	err := e.store.db.View(func(txn *badger.Txn) error {
		prefix := []byte(e.prefix)
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		opts.PrefetchValues = false

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			n++
		}
		return nil
	})
	return n, err
}

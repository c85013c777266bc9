package repository

import (
	"context"

	"github.com/and161185/lexinote/internal/model"
	"github.com/gofrs/uuid/v5"
)

// WordRepository provides per-user access to saved vocabulary words.
type WordRepository interface {
	// Count returns the number of words, optionally restricted to one category.
	Count(ctx context.Context, userID uuid.UUID, category string) (int64, error)
	// Page returns one keyset page of words.
	Page(ctx context.Context, userID uuid.UUID, q model.PageQuery) (model.Page, error)
	// Get returns a word by id or errs.ErrNotFound.
	Get(ctx context.Context, userID uuid.UUID, id string) (*model.Word, error)
	// Upsert writes a word keyed by w.ID, overwriting an existing one.
	Upsert(ctx context.Context, userID uuid.UUID, w model.Word) error
	// UpdateNotes replaces the notes of a word.
	UpdateNotes(ctx context.Context, userID uuid.UUID, id, notes string) error
	// Delete removes a word.
	Delete(ctx context.Context, userID uuid.UUID, id string) error
}

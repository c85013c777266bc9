// Package repository defines storage interfaces implemented by concrete backends.
package repository

import (
	"context"

	"github.com/and161185/lexinote/internal/model"
	"github.com/gofrs/uuid/v5"
)

// CategoryRepository provides per-user access to vocabulary categories.
type CategoryRepository interface {
	// List returns all categories of a user, newest first.
	List(ctx context.Context, userID uuid.UUID) ([]model.Category, error)
	// Upsert writes a category keyed by c.ID, overwriting an existing one.
	Upsert(ctx context.Context, userID uuid.UUID, c model.Category) error
	// Rename changes the display name; the id stays.
	Rename(ctx context.Context, userID uuid.UUID, id, name string) error
	// DeleteIfEmpty removes a category only when no word references it.
	DeleteIfEmpty(ctx context.Context, userID uuid.UUID, id string) error
}

package postgres

import (
	"context"
	"errors"

	"github.com/and161185/lexinote/internal/errs"
	"github.com/and161185/lexinote/internal/model"
	"github.com/gofrs/uuid/v5"
	"github.com/jackc/pgx/v5"
)

// CategoryRepo implements CategoryRepository using PostgreSQL.
type CategoryRepo struct{ db *DB }

// NewCategoryRepo constructs a category repository.
func NewCategoryRepo(db *DB) *CategoryRepo { return &CategoryRepo{db: db} }

// List returns the user's categories ordered newest first.
func (r *CategoryRepo) List(ctx context.Context, userID uuid.UUID) ([]model.Category, error) {
	const q = `
SELECT id, name, description, created_at
FROM categories
WHERE user_id=$1
ORDER BY created_at DESC`
	rows, err := r.db.Pool.Query(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Category{}
	for rows.Next() {
		var c model.Category
		if err = rows.Scan(&c.ID, &c.Name, &c.Description, &c.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// Upsert writes the category document; an existing id is overwritten and restamped.
func (r *CategoryRepo) Upsert(ctx context.Context, userID uuid.UUID, c model.Category) error {
	const q = `
INSERT INTO categories (user_id, id, name, description, created_at)
VALUES ($1,$2,$3,$4,now())
ON CONFLICT (user_id, id)
DO UPDATE SET name=EXCLUDED.name, description=EXCLUDED.description, created_at=now()`
	_, err := r.db.Pool.Exec(ctx, q, userID, c.ID, c.Name, c.Description)
	return err
}

// Rename sets a new display name in place.
func (r *CategoryRepo) Rename(ctx context.Context, userID uuid.UUID, id, name string) error {
	const q = `UPDATE categories SET name=$3 WHERE user_id=$1 AND id=$2`
	tag, err := r.db.Pool.Exec(ctx, q, userID, id, name)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errs.ErrNotFound
	}
	return nil
}

// DeleteIfEmpty locks the category, refuses when any word references it, then deletes it.
// The FOR UPDATE lock conflicts with the key-share lock taken by the vocab foreign key,
// so a concurrent word insert into this category runs either before the check or after the delete.
func (r *CategoryRepo) DeleteIfEmpty(ctx context.Context, userID uuid.UUID, id string) error {
	const lock = `SELECT id FROM categories WHERE user_id=$1 AND id=$2 FOR UPDATE`
	const used = `SELECT EXISTS (SELECT 1 FROM vocab WHERE user_id=$1 AND category=$2)`
	const del = `DELETE FROM categories WHERE user_id=$1 AND id=$2`

	return r.db.inTx(ctx, func(tx pgx.Tx) error {
		var got string
		if err := tx.QueryRow(ctx, lock, userID, id).Scan(&got); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return errs.ErrNotFound
			}
			return err
		}
		var inUse bool
		if err := tx.QueryRow(ctx, used, userID, id).Scan(&inUse); err != nil {
			return err
		}
		if inUse {
			return errs.ErrCategoryNotEmpty
		}
		_, err := tx.Exec(ctx, del, userID, id)
		return err
	})
}

package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/and161185/lexinote/internal/errs"
	"github.com/and161185/lexinote/internal/model"
	"github.com/gofrs/uuid/v5"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// pgForeignKeyViolation is SQLSTATE foreign_key_violation.
const pgForeignKeyViolation = "23503"

const wordColumns = `id, word, translated_text, source_lang, target_lang, phonetic, phonetic_audio,
part_of_speech, definitions, examples, synonyms, category, notes, created_at`

// WordRepo implements WordRepository using PostgreSQL.
type WordRepo struct{ db *DB }

// NewWordRepo constructs a word repository.
func NewWordRepo(db *DB) *WordRepo { return &WordRepo{db: db} }

// Count returns the number of words, optionally filtered by category.
func (r *WordRepo) Count(ctx context.Context, userID uuid.UUID, category string) (int64, error) {
	var (
		n   int64
		err error
	)
	if category == "" {
		const q = `SELECT count(*) FROM vocab WHERE user_id=$1`
		err = r.db.Pool.QueryRow(ctx, q, userID).Scan(&n)
	} else {
		const q = `SELECT count(*) FROM vocab WHERE user_id=$1 AND category=$2`
		err = r.db.Pool.QueryRow(ctx, q, userID, category).Scan(&n)
	}
	if err != nil {
		return 0, err
	}
	return n, nil
}

// Page returns up to q.PageSize words after q.Cursor in the requested order.
// q must already be normalized.
func (r *WordRepo) Page(ctx context.Context, userID uuid.UUID, q model.PageQuery) (model.Page, error) {
	sql, args, err := buildPageQuery(userID, q)
	if err != nil {
		return model.Page{}, err
	}

	rows, err := r.db.Pool.Query(ctx, sql, args...)
	if err != nil {
		return model.Page{}, err
	}
	defer rows.Close()

	words := []model.Word{}
	for rows.Next() {
		w, err := scanWord(rows)
		if err != nil {
			return model.Page{}, err
		}
		words = append(words, w)
	}
	if err := rows.Err(); err != nil {
		return model.Page{}, err
	}

	page := model.Page{Words: words}
	if len(words) == q.PageSize {
		last := words[len(words)-1]
		c := cursor{ID: last.ID, Field: q.SortField, Dir: q.SortDir}
		if q.SortField == model.SortByWord {
			c.Value = last.Word
		} else {
			c.Value = last.CreatedAt.UTC().Format(time.RFC3339Nano)
		}
		page.NextCursor = encodeCursor(c)
	}
	return page, nil
}

// buildPageQuery assembles the keyset query; the sort column and direction come from a closed set.
func buildPageQuery(userID uuid.UUID, q model.PageQuery) (string, []any, error) {
	if !q.SortField.Valid() || !q.SortDir.Valid() {
		return "", nil, fmt.Errorf("%w: bad ordering %q %q", errs.ErrInvalidArgument, q.SortField, q.SortDir)
	}
	col := "created_at"
	if q.SortField == model.SortByWord {
		col = "word"
	}
	dir, cmp := "DESC", "<"
	if q.SortDir == model.SortAsc {
		dir, cmp = "ASC", ">"
	}

	var sb strings.Builder
	args := []any{userID}
	sb.WriteString("SELECT " + wordColumns + "\nFROM vocab\nWHERE user_id=$1")

	if q.Category != "" {
		args = append(args, q.Category)
		fmt.Fprintf(&sb, " AND category=$%d", len(args))
	}
	if q.SearchWord != "" {
		args = append(args, q.SearchWord)
		fmt.Fprintf(&sb, " AND id=$%d", len(args))
	}
	if q.Cursor != "" {
		c, err := decodeCursor(q.Cursor, q.SortField, q.SortDir)
		if err != nil {
			return "", nil, err
		}
		var v any = c.Value
		if q.SortField == model.SortByCreatedAt {
			ts, err := time.Parse(time.RFC3339Nano, c.Value)
			if err != nil {
				return "", nil, fmt.Errorf("%w: malformed cursor", errs.ErrInvalidArgument)
			}
			v = ts
		}
		args = append(args, v, c.ID)
		fmt.Fprintf(&sb, " AND (%s, id) %s ($%d, $%d)", col, cmp, len(args)-1, len(args))
	}

	args = append(args, q.PageSize)
	fmt.Fprintf(&sb, "\nORDER BY %s %s, id %s\nLIMIT $%d", col, dir, dir, len(args))
	return sb.String(), args, nil
}

// Get returns a word by its normalized id.
func (r *WordRepo) Get(ctx context.Context, userID uuid.UUID, id string) (*model.Word, error) {
	const q = `SELECT ` + wordColumns + ` FROM vocab WHERE user_id=$1 AND id=$2`
	w, err := scanWord(r.db.Pool.QueryRow(ctx, q, userID, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errs.ErrNotFound
		}
		return nil, err
	}
	return &w, nil
}

// Upsert writes the whole word document; a second write of the same id replaces it.
// The category must exist. The insert waits on a concurrent DeleteIfEmpty holding the
// category row, so a word never lands in a category deleted underneath it.
func (r *WordRepo) Upsert(ctx context.Context, userID uuid.UUID, w model.Word) error {
	const q = `
INSERT INTO vocab (user_id, id, word, translated_text, source_lang, target_lang, phonetic, phonetic_audio,
  part_of_speech, definitions, examples, synonyms, category, notes, created_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,now())
ON CONFLICT (user_id, id) DO UPDATE SET
  word=EXCLUDED.word, translated_text=EXCLUDED.translated_text,
  source_lang=EXCLUDED.source_lang, target_lang=EXCLUDED.target_lang,
  phonetic=EXCLUDED.phonetic, phonetic_audio=EXCLUDED.phonetic_audio,
  part_of_speech=EXCLUDED.part_of_speech, definitions=EXCLUDED.definitions,
  examples=EXCLUDED.examples, synonyms=EXCLUDED.synonyms,
  category=EXCLUDED.category, notes=EXCLUDED.notes, created_at=now()`
	_, err := r.db.Pool.Exec(ctx, q,
		userID, w.ID, w.Word, w.TranslatedText, string(w.SourceLang), string(w.TargetLang),
		w.Phonetic, w.PhoneticAudio,
		nonNil(w.PartOfSpeech), nonNil(w.Definitions), nonNil(w.Examples), nonNil(w.Synonyms),
		w.Category, w.Notes,
	)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgForeignKeyViolation {
		return fmt.Errorf("%w: category %q", errs.ErrNotFound, w.Category)
	}
	return err
}

// UpdateNotes replaces the notes of a word.
func (r *WordRepo) UpdateNotes(ctx context.Context, userID uuid.UUID, id, notes string) error {
	const q = `UPDATE vocab SET notes=$3 WHERE user_id=$1 AND id=$2`
	tag, err := r.db.Pool.Exec(ctx, q, userID, id, notes)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errs.ErrNotFound
	}
	return nil
}

// Delete removes a word.
func (r *WordRepo) Delete(ctx context.Context, userID uuid.UUID, id string) error {
	const q = `DELETE FROM vocab WHERE user_id=$1 AND id=$2`
	tag, err := r.db.Pool.Exec(ctx, q, userID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errs.ErrNotFound
	}
	return nil
}

func scanWord(row pgx.Row) (model.Word, error) {
	var (
		w      model.Word
		src    string
		target string
	)
	err := row.Scan(
		&w.ID, &w.Word, &w.TranslatedText, &src, &target, &w.Phonetic, &w.PhoneticAudio,
		&w.PartOfSpeech, &w.Definitions, &w.Examples, &w.Synonyms, &w.Category, &w.Notes, &w.CreatedAt,
	)
	if err != nil {
		return model.Word{}, err
	}
	w.SourceLang, w.TargetLang = model.Lang(src), model.Lang(target)
	return w, nil
}

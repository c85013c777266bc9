// Package service contains application services for vocabulary storage and authentication.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/gofrs/uuid/v5"
	"go.uber.org/zap"

	"github.com/and161185/lexinote/internal/errs"
	"github.com/and161185/lexinote/internal/model"
	"github.com/and161185/lexinote/internal/repository"
)

// Per-word caps applied before a word is persisted.
const (
	maxExamples = 2
	maxSynonyms = 3
)

// VocabService implements the per-user vocabulary store operations.
type VocabService struct {
	cats  repository.CategoryRepository
	words repository.WordRepository
	log   *zap.Logger
}

// NewVocabService constructs VocabService over the given repositories.
func NewVocabService(cats repository.CategoryRepository, words repository.WordRepository, log *zap.Logger) *VocabService {
	if log == nil {
		log = zap.NewNop()
	}
	return &VocabService{cats: cats, words: words, log: log}
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{errs.ErrInvalidArgument}, args...)...)
}

// LoadCategories returns the user's categories, newest first.
func (s *VocabService) LoadCategories(ctx context.Context, userID uuid.UUID) ([]model.Category, error) {
	if userID == uuid.Nil {
		return nil, invalid("empty userID")
	}
	return s.cats.List(ctx, userID)
}

// AddCategory upserts a category under its normalized-name id and returns the id.
func (s *VocabService) AddCategory(ctx context.Context, userID uuid.UUID, name, description string) (string, error) {
	if userID == uuid.Nil {
		return "", invalid("empty userID")
	}
	id := model.CategoryID(name)
	if id == "" {
		return "", invalid("empty category name")
	}
	c := model.Category{ID: id, Name: strings.TrimSpace(name), Description: description}
	if err := s.cats.Upsert(ctx, userID, c); err != nil {
		return "", err
	}
	s.log.Debug("category upserted", zap.String("user", userID.String()), zap.String("id", id))
	return id, nil
}

// UpdateCategory renames a category in place; its id does not change.
func (s *VocabService) UpdateCategory(ctx context.Context, userID uuid.UUID, id, name string) error {
	if userID == uuid.Nil || id == "" {
		return invalid("empty userID/id")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return invalid("empty category name")
	}
	return s.cats.Rename(ctx, userID, id, name)
}

// DeleteCategory removes a category only when no word references it.
func (s *VocabService) DeleteCategory(ctx context.Context, userID uuid.UUID, id string) error {
	if userID == uuid.Nil || id == "" {
		return invalid("empty userID/id")
	}
	err := s.cats.DeleteIfEmpty(ctx, userID, id)
	if errors.Is(err, errs.ErrCategoryNotEmpty) {
		s.log.Info("category delete refused", zap.String("user", userID.String()), zap.String("id", id))
	}
	return err
}

// CountWords returns the word tally, optionally for one category.
func (s *VocabService) CountWords(ctx context.Context, userID uuid.UUID, category string) (int64, error) {
	if userID == uuid.Nil {
		return 0, invalid("empty userID")
	}
	return s.words.Count(ctx, userID, category)
}

// LoadWordsPage returns one page of words after q.Cursor.
func (s *VocabService) LoadWordsPage(ctx context.Context, userID uuid.UUID, q model.PageQuery) (model.Page, error) {
	if userID == uuid.Nil {
		return model.Page{}, invalid("empty userID")
	}
	q = q.Normalize()
	if !q.SortField.Valid() {
		return model.Page{}, invalid("unknown sort field %q", q.SortField)
	}
	if !q.SortDir.Valid() {
		return model.Page{}, invalid("unknown sort direction %q", q.SortDir)
	}
	return s.words.Page(ctx, userID, q)
}

// GetWord looks a word up by its normalized text. A miss is (nil, nil).
func (s *VocabService) GetWord(ctx context.Context, userID uuid.UUID, word string) (*model.Word, error) {
	if userID == uuid.Nil {
		return nil, invalid("empty userID")
	}
	id := model.WordID(word)
	if id == "" {
		return nil, invalid("empty word")
	}
	w, err := s.words.Get(ctx, userID, id)
	if errors.Is(err, errs.ErrNotFound) {
		return nil, nil
	}
	return w, err
}

// AddWord saves a word under its normalized id, replacing any earlier save.
// Validation rules:
// - word text not empty
// - category set
// - both languages supported
func (s *VocabService) AddWord(ctx context.Context, userID uuid.UUID, w model.Word) (string, error) {
	if userID == uuid.Nil {
		return "", invalid("empty userID")
	}
	w.ID = model.WordID(w.Word)
	if w.ID == "" {
		return "", invalid("empty word")
	}
	if w.Category == "" {
		return "", errs.ErrNoCategorySelected
	}
	if !w.SourceLang.Valid() || !w.TargetLang.Valid() {
		return "", invalid("unsupported language pair %q/%q", w.SourceLang, w.TargetLang)
	}
	if len(w.Examples) > maxExamples {
		w.Examples = w.Examples[:maxExamples]
	}
	if len(w.Synonyms) > maxSynonyms {
		w.Synonyms = w.Synonyms[:maxSynonyms]
	}
	if err := s.words.Upsert(ctx, userID, w); err != nil {
		return "", err
	}
	return w.ID, nil
}

// UpdateWordNotes replaces the free-text notes of a word.
func (s *VocabService) UpdateWordNotes(ctx context.Context, userID uuid.UUID, id, notes string) error {
	if userID == uuid.Nil || id == "" {
		return invalid("empty userID/id")
	}
	return s.words.UpdateNotes(ctx, userID, id, strings.TrimSpace(notes))
}

// DeleteWord removes a word.
func (s *VocabService) DeleteWord(ctx context.Context, userID uuid.UUID, id string) error {
	if userID == uuid.Nil || id == "" {
		return invalid("empty userID/id")
	}
	return s.words.Delete(ctx, userID, id)
}

// ForUser binds the service to one user.
func (s *VocabService) ForUser(userID uuid.UUID) *UserVocab {
	return &UserVocab{svc: s, userID: userID}
}

// UserVocab is a VocabService scoped to a single user.
type UserVocab struct {
	svc    *VocabService
	userID uuid.UUID
}

// LoadCategories lists the bound user's categories.
func (u *UserVocab) LoadCategories(ctx context.Context) ([]model.Category, error) {
	return u.svc.LoadCategories(ctx, u.userID)
}

// AddCategory adds a category for the bound user.
func (u *UserVocab) AddCategory(ctx context.Context, name, description string) (string, error) {
	return u.svc.AddCategory(ctx, u.userID, name, description)
}

// UpdateCategory renames a category of the bound user.
func (u *UserVocab) UpdateCategory(ctx context.Context, id, name string) error {
	return u.svc.UpdateCategory(ctx, u.userID, id, name)
}

// DeleteCategory deletes an empty category of the bound user.
func (u *UserVocab) DeleteCategory(ctx context.Context, id string) error {
	return u.svc.DeleteCategory(ctx, u.userID, id)
}

// CountWords counts the bound user's words.
func (u *UserVocab) CountWords(ctx context.Context, category string) (int64, error) {
	return u.svc.CountWords(ctx, u.userID, category)
}

// LoadWordsPage pages through the bound user's words.
func (u *UserVocab) LoadWordsPage(ctx context.Context, q model.PageQuery) (model.Page, error) {
	return u.svc.LoadWordsPage(ctx, u.userID, q)
}

// GetWord looks up a word of the bound user.
func (u *UserVocab) GetWord(ctx context.Context, word string) (*model.Word, error) {
	return u.svc.GetWord(ctx, u.userID, word)
}

// AddWord saves a word for the bound user.
func (u *UserVocab) AddWord(ctx context.Context, w model.Word) (string, error) {
	return u.svc.AddWord(ctx, u.userID, w)
}

// UpdateWordNotes edits notes of the bound user's word.
func (u *UserVocab) UpdateWordNotes(ctx context.Context, id, notes string) error {
	return u.svc.UpdateWordNotes(ctx, u.userID, id, notes)
}

// DeleteWord deletes the bound user's word.
func (u *UserVocab) DeleteWord(ctx context.Context, id string) error {
	return u.svc.DeleteWord(ctx, u.userID, id)
}

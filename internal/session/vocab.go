package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/gofrs/uuid/v5"
	"go.uber.org/zap"

	"github.com/and161185/lexinote/internal/convert"
	"github.com/and161185/lexinote/internal/errs"
	"github.com/and161185/lexinote/internal/model"
)

// DefaultCategoryName is created for a user who has no categories yet.
const DefaultCategoryName = "Default"

// VocabState is a snapshot of a VocabSession.
type VocabState struct {
	UserID              uuid.UUID
	Categories          []model.Category
	SelectedCategory    string
	Words               []model.Word
	Cursor              string
	SortField           model.SortField
	SortDir             model.SortDirection
	SearchWord          string
	PageSize            int
	IsCategoriesLoading bool
	IsWordsLoading      bool
	Total               int64
	HasMore             bool
}

type vocabBlob struct {
	UserID           string                `json:"user_id,omitempty"`
	Categories       []convert.CategoryDTO `json:"categories"`
	SelectedCategory string                `json:"selected_category"`
	SortField        string                `json:"sort_field,omitempty"`
	SortDir          string                `json:"sort_dir,omitempty"`
	SearchWord       string                `json:"search_word,omitempty"`
	PageSize         int                   `json:"page_size,omitempty"`
	Cursor           string                `json:"cursor,omitempty"`
	HasMore          bool                  `json:"has_more,omitempty"`
}

// VocabSession mediates between a user and the remote vocabulary store.
type VocabSession struct {
	mu       sync.Mutex
	st       VocabState
	wordsGen uint64
	store    VocabStore
	persist  Persister
	log      *zap.Logger
	now      func() time.Time
}

// NewVocabSession restores persisted categories and selection.
func NewVocabSession(store VocabStore, p Persister, log *zap.Logger) *VocabSession {
	if p == nil {
		p = nopPersister{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	s := &VocabSession{
		st: VocabState{
			Categories: []model.Category{},
			Words:      []model.Word{},
			SortField:  model.SortByCreatedAt,
			SortDir:    model.SortDesc,
			PageSize:   model.DefaultPageSize,
		},
		store:   store,
		persist: p,
		log:     log,
		now:     time.Now,
	}
	s.restore()
	return s
}

func (s *VocabSession) restore() {
	var b vocabBlob
	ok, err := s.persist.Load(VocabKey, &b)
	if err != nil {
		s.log.Warn("vocab session restore failed", zap.Error(err))
		return
	}
	if !ok {
		return
	}
	if id, err := uuid.FromString(b.UserID); err == nil {
		s.st.UserID = id
	}
	s.st.Categories = convert.FromCategoryDTOs(b.Categories)
	s.st.SelectedCategory = b.SelectedCategory
	if f := model.SortField(b.SortField); f.Valid() {
		s.st.SortField = f
	}
	if d := model.SortDirection(b.SortDir); d.Valid() {
		s.st.SortDir = d
	}
	s.st.SearchWord = b.SearchWord
	if b.PageSize > 0 {
		s.st.PageSize = model.PageQuery{PageSize: b.PageSize}.Normalize().PageSize
	}
	s.st.Cursor = b.Cursor
	s.st.HasMore = b.HasMore
}

// save must be called with mu held.
func (s *VocabSession) save() {
	b := vocabBlob{
		Categories:       convert.ToCategoryDTOs(s.st.Categories),
		SelectedCategory: s.st.SelectedCategory,
		SortField:        string(s.st.SortField),
		SortDir:          string(s.st.SortDir),
		SearchWord:       s.st.SearchWord,
		PageSize:         s.st.PageSize,
		Cursor:           s.st.Cursor,
		HasMore:          s.st.HasMore,
	}
	if s.st.UserID != uuid.Nil {
		b.UserID = s.st.UserID.String()
	}
	if err := s.persist.Save(VocabKey, b); err != nil {
		s.log.Warn("vocab session save failed", zap.Error(err))
	}
}

// State returns a copy of the current state.
func (s *VocabSession) State() VocabState {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.st
	st.Categories = append([]model.Category(nil), s.st.Categories...)
	st.Words = append([]model.Word(nil), s.st.Words...)
	return st
}

// Associate initializes the session for userID once. A different user resets
// all per-user state and initializes again.
func (s *VocabSession) Associate(ctx context.Context, userID uuid.UUID) error {
	if userID == uuid.Nil {
		return fmt.Errorf("%w: no authenticated user", errs.ErrUnauthorized)
	}
	s.mu.Lock()
	if s.st.UserID == userID && s.st.SelectedCategory != "" {
		s.mu.Unlock()
		return nil
	}
	if s.st.UserID != userID {
		s.st.UserID = userID
		s.st.Categories = []model.Category{}
		s.st.SelectedCategory = ""
		s.resetWordsLocked()
	}
	s.mu.Unlock()

	cats, err := s.loadCategories(ctx)
	if err != nil {
		return err
	}

	selected := ""
	if len(cats) > 0 {
		selected = cats[0].ID
	} else {
		id, err := s.store.AddCategory(ctx, DefaultCategoryName, "")
		if err != nil {
			return fmt.Errorf("create default category: %w", err)
		}
		selected = id
		s.mu.Lock()
		s.prependLocked(model.Category{ID: id, Name: DefaultCategoryName, CreatedAt: s.now()})
		s.mu.Unlock()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.st.SelectedCategory = selected
	s.save()
	s.log.Debug("vocab session associated", zap.String("user", userID.String()), zap.String("category", selected))
	return nil
}

// LoadCategories refreshes the category list from the store.
func (s *VocabSession) LoadCategories(ctx context.Context) error {
	_, err := s.loadCategories(ctx)
	return err
}

func (s *VocabSession) loadCategories(ctx context.Context) ([]model.Category, error) {
	s.mu.Lock()
	s.st.IsCategoriesLoading = true
	s.mu.Unlock()

	cats, err := s.store.LoadCategories(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.st.IsCategoriesLoading = false
	if err != nil {
		return nil, err
	}
	if cats == nil {
		cats = []model.Category{}
	}
	s.st.Categories = cats
	s.save()
	return cats, nil
}

func (s *VocabSession) query() model.PageQuery {
	return model.PageQuery{
		Category:   s.st.SelectedCategory,
		SearchWord: s.st.SearchWord,
		PageSize:   s.st.PageSize,
		Cursor:     s.st.Cursor,
		SortField:  s.st.SortField,
		SortDir:    s.st.SortDir,
	}
}

// LoadWords clears the page and fetches the first page with the current filters.
func (s *VocabSession) LoadWords(ctx context.Context) error {
	s.mu.Lock()
	s.wordsGen++
	gen := s.wordsGen
	s.st.Words = []model.Word{}
	s.st.Cursor = ""
	s.st.HasMore = false
	s.st.IsWordsLoading = true
	q := s.query()
	s.mu.Unlock()

	page, err := s.store.LoadWordsPage(ctx, q)
	var (
		total    int64
		countErr error
	)
	if err == nil {
		total, countErr = s.store.CountWords(ctx, q.Category)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.wordsGen {
		return nil
	}
	s.st.IsWordsLoading = false
	if err != nil {
		return err
	}
	s.st.Words = append([]model.Word{}, page.Words...)
	s.st.Cursor = page.NextCursor
	s.st.HasMore = page.NextCursor != ""
	// the tally is advisory; a failed count keeps the previous total
	if countErr != nil {
		s.log.Warn("word count failed", zap.String("category", q.Category), zap.Error(countErr))
	} else {
		s.st.Total = total
	}
	s.save()
	return nil
}

// ScrollLoadWords appends the next page. It reports false without a remote
// call while a load is in flight or when no more pages are expected.
func (s *VocabSession) ScrollLoadWords(ctx context.Context) (bool, error) {
	s.mu.Lock()
	if s.st.IsWordsLoading || !s.st.HasMore {
		s.mu.Unlock()
		return false, nil
	}
	gen := s.wordsGen
	s.st.IsWordsLoading = true
	q := s.query()
	s.mu.Unlock()

	page, err := s.store.LoadWordsPage(ctx, q)

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.wordsGen {
		return false, nil
	}
	s.st.IsWordsLoading = false
	if err != nil {
		return false, err
	}
	s.st.Words = append(s.st.Words, page.Words...)
	s.st.Cursor = page.NextCursor
	s.st.HasMore = page.NextCursor != ""
	s.save()
	return true, nil
}

// SetSort changes the ordering and reloads from the first page.
func (s *VocabSession) SetSort(ctx context.Context, field model.SortField, dir model.SortDirection) error {
	if !field.Valid() || !dir.Valid() {
		return fmt.Errorf("%w: sort %q %q", errs.ErrInvalidArgument, field, dir)
	}
	s.mu.Lock()
	s.st.SortField, s.st.SortDir = field, dir
	s.save()
	s.mu.Unlock()
	return s.LoadWords(ctx)
}

// SetSearch filters by exact word and reloads. Empty clears the filter.
func (s *VocabSession) SetSearch(ctx context.Context, word string) error {
	s.mu.Lock()
	s.st.SearchWord = model.WordID(word)
	s.mu.Unlock()
	return s.LoadWords(ctx)
}

// SetPageSize changes the page size used by subsequent loads.
func (s *VocabSession) SetPageSize(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st.PageSize = model.PageQuery{PageSize: n}.Normalize().PageSize
	s.save()
}

// SelectCategory switches the category filter and reloads.
func (s *VocabSession) SelectCategory(ctx context.Context, id string) error {
	s.mu.Lock()
	s.st.SelectedCategory = id
	s.save()
	s.mu.Unlock()
	return s.LoadWords(ctx)
}

// AddCategory creates or overwrites a category and mirrors it locally.
func (s *VocabSession) AddCategory(ctx context.Context, name, description string) (string, error) {
	id, err := s.store.AddCategory(ctx, name, description)
	if err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	c := model.Category{ID: id, Name: name, Description: description, CreatedAt: s.now()}
	replaced := false
	for i := range s.st.Categories {
		if s.st.Categories[i].ID == id {
			s.st.Categories[i] = c
			replaced = true
			break
		}
	}
	if !replaced {
		s.prependLocked(c)
	}
	s.save()
	return id, nil
}

func (s *VocabSession) prependLocked(c model.Category) {
	s.st.Categories = append([]model.Category{c}, s.st.Categories...)
}

// UpdateCategory renames a category remotely and locally.
func (s *VocabSession) UpdateCategory(ctx context.Context, id, name string) error {
	if err := s.store.UpdateCategory(ctx, id, name); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.st.Categories {
		if s.st.Categories[i].ID == id {
			s.st.Categories[i].Name = name
		}
	}
	s.save()
	return nil
}

// DeleteCategory deletes an empty category. A refused delete leaves local state as is.
func (s *VocabSession) DeleteCategory(ctx context.Context, id string) error {
	if err := s.store.DeleteCategory(ctx, id); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := make([]model.Category, 0, len(s.st.Categories))
	for _, c := range s.st.Categories {
		if c.ID != id {
			kept = append(kept, c)
		}
	}
	s.st.Categories = kept
	if s.st.SelectedCategory == id {
		s.st.SelectedCategory = ""
		if len(kept) > 0 {
			s.st.SelectedCategory = kept[0].ID
		}
		s.resetWordsLocked()
	}
	s.save()
	return nil
}

// resetWordsLocked drops the loaded page and cancels any in-flight load.
func (s *VocabSession) resetWordsLocked() {
	s.wordsGen++
	s.st.Words = []model.Word{}
	s.st.Cursor = ""
	s.st.HasMore = false
	s.st.Total = 0
	s.st.IsWordsLoading = false
}

// AddWord saves w into its category, defaulting to the selected one.
func (s *VocabSession) AddWord(ctx context.Context, w model.Word) (string, error) {
	s.mu.Lock()
	if w.Category == "" {
		w.Category = s.st.SelectedCategory
	}
	s.mu.Unlock()
	if w.Category == "" {
		return "", errs.ErrNoCategorySelected
	}
	return s.store.AddWord(ctx, w)
}

// GetWord looks a word up; a miss is (nil, nil).
func (s *VocabSession) GetWord(ctx context.Context, word string) (*model.Word, error) {
	return s.store.GetWord(ctx, word)
}

// CountWords counts words in the selected category and caches the total.
func (s *VocabSession) CountWords(ctx context.Context) (int64, error) {
	s.mu.Lock()
	cat := s.st.SelectedCategory
	s.mu.Unlock()
	n, err := s.store.CountWords(ctx, cat)
	if err != nil {
		return 0, err
	}
	s.mu.Lock()
	s.st.Total = n
	s.mu.Unlock()
	return n, nil
}

// UpdateWordNotes edits notes remotely and patches the loaded page in place.
func (s *VocabSession) UpdateWordNotes(ctx context.Context, id, notes string) error {
	if err := s.store.UpdateWordNotes(ctx, id, notes); err != nil {
		return err
	}
	notes = strings.TrimSpace(notes)
	s.PatchWord(id, model.WordPatch{Notes: &notes})
	return nil
}

// DeleteWord deletes remotely and drops the word from the loaded page.
func (s *VocabSession) DeleteWord(ctx context.Context, id string) error {
	if err := s.store.DeleteWord(ctx, id); err != nil {
		return err
	}
	s.RemoveWord(id)
	return nil
}

// PatchWord merges p into the loaded word with id, if present.
func (s *VocabSession) PatchWord(id string, p model.WordPatch) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.st.Words {
		if s.st.Words[i].ID != id {
			continue
		}
		if p.Notes != nil {
			s.st.Words[i].Notes = *p.Notes
		}
	}
}

// RemoveWord drops the loaded word with id, if present.
func (s *VocabSession) RemoveWord(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := make([]model.Word, 0, len(s.st.Words))
	for _, w := range s.st.Words {
		if w.ID != id {
			kept = append(kept, w)
		}
	}
	if len(kept) < len(s.st.Words) && s.st.Total > 0 {
		s.st.Total--
	}
	s.st.Words = kept
}

// IsCategoryNotEmpty reports whether err is the category delete guard.
func IsCategoryNotEmpty(err error) bool { return errors.Is(err, errs.ErrCategoryNotEmpty) }

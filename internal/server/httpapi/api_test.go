package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/and161185/lexinote/internal/convert"
	"github.com/and161185/lexinote/internal/errs"
	"github.com/and161185/lexinote/internal/model"
	"github.com/and161185/lexinote/internal/provider"
	"github.com/and161185/lexinote/internal/service"
)

// fakeVocab records the user of every call and returns scripted results.
type fakeVocab struct {
	users     []uuid.UUID
	cats      []model.Category
	page      model.Page
	pageQuery model.PageQuery
	word      *model.Word
	added     model.Word
	notes     string
	err       error
}

func (f *fakeVocab) seen(u uuid.UUID) { f.users = append(f.users, u) }

func (f *fakeVocab) LoadCategories(_ context.Context, u uuid.UUID) ([]model.Category, error) {
	f.seen(u)
	return f.cats, f.err
}
func (f *fakeVocab) AddCategory(_ context.Context, u uuid.UUID, name, _ string) (string, error) {
	f.seen(u)
	return model.CategoryID(name), f.err
}
func (f *fakeVocab) UpdateCategory(_ context.Context, u uuid.UUID, _, _ string) error {
	f.seen(u)
	return f.err
}
func (f *fakeVocab) DeleteCategory(_ context.Context, u uuid.UUID, _ string) error {
	f.seen(u)
	return f.err
}
func (f *fakeVocab) CountWords(_ context.Context, u uuid.UUID, _ string) (int64, error) {
	f.seen(u)
	return 42, f.err
}
func (f *fakeVocab) LoadWordsPage(_ context.Context, u uuid.UUID, q model.PageQuery) (model.Page, error) {
	f.seen(u)
	f.pageQuery = q
	return f.page, f.err
}
func (f *fakeVocab) GetWord(_ context.Context, u uuid.UUID, _ string) (*model.Word, error) {
	f.seen(u)
	return f.word, f.err
}
func (f *fakeVocab) AddWord(_ context.Context, u uuid.UUID, w model.Word) (string, error) {
	f.seen(u)
	f.added = w
	return model.WordID(w.Word), f.err
}
func (f *fakeVocab) UpdateWordNotes(_ context.Context, u uuid.UUID, _, notes string) error {
	f.seen(u)
	f.notes = notes
	return f.err
}
func (f *fakeVocab) DeleteWord(_ context.Context, u uuid.UUID, _ string) error {
	f.seen(u)
	return f.err
}

type fakeTranslator struct {
	name  string
	index *int
	err   error
}

func (f *fakeTranslator) Infos() []provider.Info {
	return []provider.Info{{Name: "MyMemory", DailyLimit: 5000}, {Name: "Google"}}
}
func (f *fakeTranslator) Translate(_ context.Context, text string, _, _ model.Lang, index int) (model.TranslateResult, error) {
	f.index = &index
	return model.TranslateResult{TranslatedText: "T:" + text, Service: "MyMemory", Detailed: &model.DetailedTranslation{BasicTranslation: "T:" + text}}, f.err
}
func (f *fakeTranslator) TranslateWith(_ context.Context, text string, _, _ model.Lang, name string) (model.TranslateResult, error) {
	f.name = name
	return model.TranslateResult{TranslatedText: "T:" + text, Service: name}, f.err
}

type fakePinger struct{ err error }

func (f fakePinger) Ping(context.Context) error { return f.err }

type env struct {
	srv   http.Handler
	vocab *fakeVocab
	tr    *fakeTranslator
	user  uuid.UUID
	token string
}

func newEnv(t *testing.T) *env {
	t.Helper()
	tokens := service.NewTokenService([]byte("test-key"), time.Hour)
	u := uuid.Must(uuid.NewV4())
	tok, _, err := tokens.Issue(u)
	require.NoError(t, err)

	v := &fakeVocab{}
	tr := &fakeTranslator{}
	log := zaptest.NewLogger(t)
	h := NewHandler(v, tr, log)
	return &env{srv: NewRouter(h, tokens, fakePinger{}, log), vocab: v, tr: tr, user: u, token: tok}
}

func (e *env) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, rd)
	req.Header.Set("Authorization", "Bearer "+e.token)
	rec := httptest.NewRecorder()
	e.srv.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	e := newEnv(t)
	for _, p := range []string{"/health/live", "/health/ready"} {
		rec := httptest.NewRecorder()
		e.srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, p, nil))
		require.Equal(t, http.StatusOK, rec.Code, p)
	}

	h := NewRouter(NewHandler(&fakeVocab{}, &fakeTranslator{}, nil), service.NewTokenService([]byte("k"), 0), fakePinger{err: errors.New("down")}, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestAuthRequired(t *testing.T) {
	e := newEnv(t)

	rec := httptest.NewRecorder()
	e.srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/categories", nil))
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	e.token = "garbage"
	rec = e.do(t, http.MethodGet, "/api/categories", nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Empty(t, e.vocab.users)
}

func TestCategories(t *testing.T) {
	e := newEnv(t)
	e.vocab.cats = []model.Category{{ID: "verbs", Name: "Verbs"}}

	rec := e.do(t, http.MethodGet, "/api/categories", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var list convert.CategoriesResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list.Categories, 1)
	require.Equal(t, "verbs", list.Categories[0].ID)

	rec = e.do(t, http.MethodPost, "/api/categories", convert.CreateCategoryRequest{Name: "Hello World"})
	require.Equal(t, http.StatusCreated, rec.Code)
	var id convert.IDResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &id))
	require.Equal(t, "helloworld", id.ID)

	rec = e.do(t, http.MethodPut, "/api/categories/verbs", convert.RenameCategoryRequest{Name: "Actions"})
	require.Equal(t, http.StatusNoContent, rec.Code)

	e.vocab.err = fmt.Errorf("delete: %w", errs.ErrCategoryNotEmpty)
	rec = e.do(t, http.MethodDelete, "/api/categories/verbs", nil)
	require.Equal(t, http.StatusConflict, rec.Code)

	for _, u := range e.vocab.users {
		require.Equal(t, e.user, u)
	}
}

func TestWords_ListParams(t *testing.T) {
	e := newEnv(t)
	e.vocab.page = model.Page{Words: []model.Word{{ID: "apple", Word: "apple", SourceLang: model.LangEN, TargetLang: model.LangZH}}, NextCursor: "abc"}

	rec := e.do(t, http.MethodGet, "/api/words?category=fruit&search=Apple&page_size=5&cursor=xyz&sort=word&dir=asc", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	q := e.vocab.pageQuery
	require.Equal(t, "fruit", q.Category)
	require.Equal(t, "Apple", q.SearchWord)
	require.Equal(t, 5, q.PageSize)
	require.Equal(t, "xyz", q.Cursor)
	require.Equal(t, model.SortByWord, q.SortField)
	require.Equal(t, model.SortAsc, q.SortDir)

	var page convert.PageResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))
	require.Equal(t, "abc", page.NextCursor)
	require.Len(t, page.Words, 1)

	rec = e.do(t, http.MethodGet, "/api/words?page_size=many", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	e.vocab.err = fmt.Errorf("%w: cursor", errs.ErrInvalidArgument)
	rec = e.do(t, http.MethodGet, "/api/words?cursor=bad", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestWords_CountLookupAddNotesDelete(t *testing.T) {
	e := newEnv(t)

	rec := e.do(t, http.MethodGet, "/api/words/count?category=x", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"count":42}`, rec.Body.String())

	rec = e.do(t, http.MethodGet, "/api/words/lookup/ghost", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)

	e.vocab.word = &model.Word{ID: "cat", Word: "cat", SourceLang: model.LangEN, TargetLang: model.LangZH}
	rec = e.do(t, http.MethodGet, "/api/words/lookup/cat", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = e.do(t, http.MethodPost, "/api/words", convert.WordDTO{Word: "Cat", SourceLang: "en", TargetLang: "zh", Category: "pets"})
	require.Equal(t, http.StatusCreated, rec.Code)
	require.Equal(t, "pets", e.vocab.added.Category)

	rec = e.do(t, http.MethodPost, "/api/words", convert.WordDTO{Word: "Cat", SourceLang: "xx", TargetLang: "zh"})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = e.do(t, http.MethodPut, "/api/words/cat/notes", convert.NotesRequest{Notes: "meow"})
	require.Equal(t, http.StatusNoContent, rec.Code)
	require.Equal(t, "meow", e.vocab.notes)

	rec = e.do(t, http.MethodDelete, "/api/words/cat", nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	e.vocab.err = errs.ErrNoCategorySelected
	rec = e.do(t, http.MethodPost, "/api/words", convert.WordDTO{Word: "dog", SourceLang: "en", TargetLang: "zh"})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	e.vocab.err = errs.ErrNotFound
	rec = e.do(t, http.MethodDelete, "/api/words/cat", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)

	e.vocab.err = errors.New("db down")
	rec = e.do(t, http.MethodGet, "/api/words/count", nil)
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.NotContains(t, rec.Body.String(), "db down")
}

func TestTranslate(t *testing.T) {
	e := newEnv(t)

	rec := e.do(t, http.MethodGet, "/api/providers", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var ps convert.ProvidersResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &ps))
	require.Len(t, ps.Providers, 2)

	rec = e.do(t, http.MethodPost, "/api/translate", convert.TranslateRequest{Text: "hello", From: "en", To: "zh", Provider: "Google"})
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "Google", e.tr.name)

	one := 1
	rec = e.do(t, http.MethodPost, "/api/translate", convert.TranslateRequest{Text: "hello", From: "en", To: "zh", ProviderIndex: &one})
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, 1, *e.tr.index)
	var res convert.TranslateResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	require.Equal(t, "T:hello", res.TranslatedText)
	require.NotNil(t, res.Detailed)

	rec = e.do(t, http.MethodPost, "/api/translate", convert.TranslateRequest{Text: "hello", From: "en", To: "fr"})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	cases := map[error]int{
		errs.ErrInvalidProvider: http.StatusUnprocessableEntity,
		errs.ErrNoProviders:     http.StatusUnprocessableEntity,
		fmt.Errorf("%w: x", errs.ErrTranslationFailed):                         http.StatusBadGateway,
		fmt.Errorf("%w: %w", errs.ErrTranslationFailed, errs.ErrQuotaExceeded): http.StatusTooManyRequests,
	}
	for err, code := range cases {
		e.tr.err = err
		rec = e.do(t, http.MethodPost, "/api/translate", convert.TranslateRequest{Text: "hello", From: "en", To: "zh"})
		require.Equal(t, code, rec.Code, err.Error())
	}
}

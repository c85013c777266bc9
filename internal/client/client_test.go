package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/and161185/lexinote/internal/convert"
	"github.com/and161185/lexinote/internal/errs"
	"github.com/and161185/lexinote/internal/model"
	"github.com/and161185/lexinote/internal/session"
)

var (
	_ session.VocabStore = (*Client)(nil)
	_ session.Translator = (*Client)(nil)
)

func serve(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		h(w, r)
	}))
	t.Cleanup(srv.Close)
	return New(srv.URL+"/", "tok", 0)
}

func reply(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

func TestClient_Categories(t *testing.T) {
	c := serve(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/api/categories":
			reply(w, http.StatusOK, convert.CategoriesResponse{Categories: []convert.CategoryDTO{{ID: "verbs", Name: "Verbs"}}})
		case r.Method == http.MethodPost && r.URL.Path == "/api/categories":
			var req convert.CreateCategoryRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			reply(w, http.StatusCreated, convert.IDResponse{ID: model.CategoryID(req.Name)})
		case r.Method == http.MethodPut && r.URL.Path == "/api/categories/verbs":
			w.WriteHeader(http.StatusNoContent)
		case r.Method == http.MethodDelete && r.URL.Path == "/api/categories/verbs":
			reply(w, http.StatusConflict, convert.ErrorResponse{Error: "category not empty"})
		default:
			reply(w, http.StatusNotFound, convert.ErrorResponse{Error: "not found"})
		}
	})
	ctx := context.Background()

	cats, err := c.LoadCategories(ctx)
	require.NoError(t, err)
	require.Equal(t, "verbs", cats[0].ID)

	id, err := c.AddCategory(ctx, "Hello World", "")
	require.NoError(t, err)
	require.Equal(t, "helloworld", id)

	require.NoError(t, c.UpdateCategory(ctx, "verbs", "Actions"))
	require.ErrorIs(t, c.DeleteCategory(ctx, "verbs"), errs.ErrCategoryNotEmpty)
	require.ErrorIs(t, c.UpdateCategory(ctx, "ghost", "x"), errs.ErrNotFound)
}

func TestClient_WordsPageQuery(t *testing.T) {
	c := serve(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		require.Equal(t, "/api/words", r.URL.Path)
		require.Equal(t, "fruit", q.Get("category"))
		require.Equal(t, "c1", q.Get("cursor"))
		require.Equal(t, "word", q.Get("sort"))
		require.Equal(t, "asc", q.Get("dir"))
		require.Equal(t, "2", q.Get("page_size"))
		require.False(t, q.Has("search"))
		reply(w, http.StatusOK, convert.PageResponse{
			Words:      []convert.WordDTO{{ID: "apple", Word: "apple", SourceLang: "en", TargetLang: "zh"}},
			NextCursor: "c2",
		})
	})

	page, err := c.LoadWordsPage(context.Background(), model.PageQuery{
		Category: "fruit", Cursor: "c1", SortField: model.SortByWord, SortDir: model.SortAsc, PageSize: 2,
	})
	require.NoError(t, err)
	require.Len(t, page.Words, 1)
	require.Equal(t, model.LangZH, page.Words[0].TargetLang)
	require.Equal(t, "c2", page.NextCursor)
}

func TestClient_GetWordMissIsEmpty(t *testing.T) {
	c := serve(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/words/lookup/cat" {
			reply(w, http.StatusOK, convert.WordResponse{Word: convert.WordDTO{ID: "cat", Word: "cat", SourceLang: "en", TargetLang: "zh"}})
			return
		}
		reply(w, http.StatusNotFound, convert.ErrorResponse{Error: "not found"})
	})

	w, err := c.GetWord(context.Background(), "ghost")
	require.NoError(t, err)
	require.Nil(t, w)

	w, err = c.GetWord(context.Background(), "cat")
	require.NoError(t, err)
	require.Equal(t, "cat", w.Word)
}

func TestClient_WordMutations(t *testing.T) {
	var notes string
	c := serve(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/api/words":
			var d convert.WordDTO
			require.NoError(t, json.NewDecoder(r.Body).Decode(&d))
			if d.Category == "" {
				reply(w, http.StatusUnprocessableEntity, convert.ErrorResponse{Error: "no category selected"})
				return
			}
			reply(w, http.StatusCreated, convert.IDResponse{ID: model.WordID(d.Word)})
		case r.Method == http.MethodPut && r.URL.Path == "/api/words/cat/notes":
			var n convert.NotesRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&n))
			notes = n.Notes
			w.WriteHeader(http.StatusNoContent)
		case r.Method == http.MethodDelete:
			w.WriteHeader(http.StatusNoContent)
		case r.URL.Path == "/api/words/count":
			require.Equal(t, "pets", r.URL.Query().Get("category"))
			reply(w, http.StatusOK, convert.CountResponse{Count: 3})
		}
	})
	ctx := context.Background()

	id, err := c.AddWord(ctx, model.Word{Word: "Cat", Category: "pets", SourceLang: model.LangEN, TargetLang: model.LangZH})
	require.NoError(t, err)
	require.Equal(t, "cat", id)

	_, err = c.AddWord(ctx, model.Word{Word: "Cat", SourceLang: model.LangEN, TargetLang: model.LangZH})
	require.ErrorIs(t, err, errs.ErrNoCategorySelected)

	require.NoError(t, c.UpdateWordNotes(ctx, "cat", "meow"))
	require.Equal(t, "meow", notes)
	require.NoError(t, c.DeleteWord(ctx, "cat"))

	n, err := c.CountWords(ctx, "pets")
	require.NoError(t, err)
	require.Equal(t, int64(3), n)
}

func TestClient_Translate(t *testing.T) {
	c := serve(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/providers" {
			reply(w, http.StatusOK, convert.ProvidersResponse{Providers: []convert.ProviderDTO{{Name: "MyMemory"}}})
			return
		}
		var req convert.TranslateRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		switch {
		case req.Provider == "Google":
			reply(w, http.StatusOK, convert.TranslateResponse{TranslatedText: "你好", Service: "Google"})
		case req.ProviderIndex != nil && *req.ProviderIndex == 9:
			reply(w, http.StatusUnprocessableEntity, convert.ErrorResponse{Error: "invalid provider selection: index 9 of 2"})
		case req.ProviderIndex != nil && *req.ProviderIndex == 1:
			reply(w, http.StatusTooManyRequests, convert.ErrorResponse{Error: "daily limit reached"})
		default:
			reply(w, http.StatusBadGateway, convert.ErrorResponse{Error: "translation failed: boom"})
		}
	})
	ctx := context.Background()

	ps, err := c.Providers(ctx)
	require.NoError(t, err)
	require.Len(t, ps, 1)

	res, err := c.TranslateWith(ctx, "hello", model.LangEN, model.LangZH, "Google")
	require.NoError(t, err)
	require.Equal(t, "你好", res.TranslatedText)

	_, err = c.Translate(ctx, "hello", model.LangEN, model.LangZH, 9)
	require.ErrorIs(t, err, errs.ErrInvalidProvider)

	_, err = c.Translate(ctx, "hello", model.LangEN, model.LangZH, 1)
	require.ErrorIs(t, err, errs.ErrQuotaExceeded)
	require.ErrorIs(t, err, errs.ErrTranslationFailed)

	_, err = c.Translate(ctx, "hello", model.LangEN, model.LangZH, 0)
	require.ErrorIs(t, err, errs.ErrTranslationFailed)
}

func TestClient_Unauthorized(t *testing.T) {
	c := serve(t, func(w http.ResponseWriter, _ *http.Request) {
		reply(w, http.StatusUnauthorized, convert.ErrorResponse{Error: "invalid token"})
	})
	_, err := c.LoadCategories(context.Background())
	require.ErrorIs(t, err, errs.ErrUnauthorized)
}

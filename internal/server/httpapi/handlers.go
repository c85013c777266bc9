// Package httpapi exposes the vocabulary store and translation registry over HTTP.
package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/gofrs/uuid/v5"
	"go.uber.org/zap"

	"github.com/and161185/lexinote/internal/convert"
	"github.com/and161185/lexinote/internal/errs"
	"github.com/and161185/lexinote/internal/model"
	"github.com/and161185/lexinote/internal/provider"
)

// Vocab is the per-user vocabulary store.
type Vocab interface {
	LoadCategories(ctx context.Context, userID uuid.UUID) ([]model.Category, error)
	AddCategory(ctx context.Context, userID uuid.UUID, name, description string) (string, error)
	UpdateCategory(ctx context.Context, userID uuid.UUID, id, name string) error
	DeleteCategory(ctx context.Context, userID uuid.UUID, id string) error
	CountWords(ctx context.Context, userID uuid.UUID, category string) (int64, error)
	LoadWordsPage(ctx context.Context, userID uuid.UUID, q model.PageQuery) (model.Page, error)
	GetWord(ctx context.Context, userID uuid.UUID, word string) (*model.Word, error)
	AddWord(ctx context.Context, userID uuid.UUID, w model.Word) (string, error)
	UpdateWordNotes(ctx context.Context, userID uuid.UUID, id, notes string) error
	DeleteWord(ctx context.Context, userID uuid.UUID, id string) error
}

// Translator is the provider registry.
type Translator interface {
	Infos() []provider.Info
	Translate(ctx context.Context, text string, from, to model.Lang, index int) (model.TranslateResult, error)
	TranslateWith(ctx context.Context, text string, from, to model.Lang, name string) (model.TranslateResult, error)
}

// Handler holds API route handlers.
type Handler struct {
	vocab Vocab
	tr    Translator
	log   *zap.Logger
}

// NewHandler creates a new Handler.
func NewHandler(vocab Vocab, tr Translator, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{vocab: vocab, tr: tr, log: log}
}

func userID(r *http.Request) uuid.UUID {
	id, _ := UserIDFromCtx(r.Context())
	return id
}

// --- Categories ---

// ListCategories handles GET /api/categories.
func (h *Handler) ListCategories(w http.ResponseWriter, r *http.Request) {
	cats, err := h.vocab.LoadCategories(r.Context(), userID(r))
	if err != nil {
		h.fail(w, r, "list categories", err)
		return
	}
	writeJSON(w, http.StatusOK, convert.CategoriesResponse{Categories: convert.ToCategoryDTOs(cats)})
}

// CreateCategory handles POST /api/categories.
func (h *Handler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var req convert.CreateCategoryRequest
	if err := decodeJSON(r, &req); err != nil {
		h.fail(w, r, "create category", err)
		return
	}
	id, err := h.vocab.AddCategory(r.Context(), userID(r), req.Name, req.Description)
	if err != nil {
		h.fail(w, r, "create category", err)
		return
	}
	writeJSON(w, http.StatusCreated, convert.IDResponse{ID: id})
}

// RenameCategory handles PUT /api/categories/{id}.
func (h *Handler) RenameCategory(w http.ResponseWriter, r *http.Request) {
	var req convert.RenameCategoryRequest
	if err := decodeJSON(r, &req); err != nil {
		h.fail(w, r, "rename category", err)
		return
	}
	if err := h.vocab.UpdateCategory(r.Context(), userID(r), chi.URLParam(r, "id"), req.Name); err != nil {
		h.fail(w, r, "rename category", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DeleteCategory handles DELETE /api/categories/{id}.
func (h *Handler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	if err := h.vocab.DeleteCategory(r.Context(), userID(r), chi.URLParam(r, "id")); err != nil {
		h.fail(w, r, "delete category", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- Words ---

// CountWords handles GET /api/words/count.
func (h *Handler) CountWords(w http.ResponseWriter, r *http.Request) {
	n, err := h.vocab.CountWords(r.Context(), userID(r), r.URL.Query().Get("category"))
	if err != nil {
		h.fail(w, r, "count words", err)
		return
	}
	writeJSON(w, http.StatusOK, convert.CountResponse{Count: n})
}

// ListWords handles GET /api/words.
func (h *Handler) ListWords(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	pq := model.PageQuery{
		Category:   q.Get("category"),
		SearchWord: q.Get("search"),
		Cursor:     q.Get("cursor"),
		SortField:  model.SortField(q.Get("sort")),
		SortDir:    model.SortDirection(q.Get("dir")),
	}
	if v := q.Get("page_size"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			h.fail(w, r, "list words", fmt.Errorf("%w: page_size %q", errs.ErrInvalidArgument, v))
			return
		}
		pq.PageSize = n
	}
	page, err := h.vocab.LoadWordsPage(r.Context(), userID(r), pq)
	if err != nil {
		h.fail(w, r, "list words", err)
		return
	}
	writeJSON(w, http.StatusOK, convert.PageResponse{Words: convert.ToWordDTOs(page.Words), NextCursor: page.NextCursor})
}

// LookupWord handles GET /api/words/lookup/{word}. A miss is 404.
func (h *Handler) LookupWord(w http.ResponseWriter, r *http.Request) {
	word, err := h.vocab.GetWord(r.Context(), userID(r), chi.URLParam(r, "word"))
	if err != nil {
		h.fail(w, r, "lookup word", err)
		return
	}
	if word == nil {
		writeJSON(w, http.StatusNotFound, errorBody("not found"))
		return
	}
	writeJSON(w, http.StatusOK, convert.WordResponse{Word: convert.ToWordDTO(*word)})
}

// AddWord handles POST /api/words.
func (h *Handler) AddWord(w http.ResponseWriter, r *http.Request) {
	var req convert.WordDTO
	if err := decodeJSON(r, &req); err != nil {
		h.fail(w, r, "add word", err)
		return
	}
	word, err := convert.FromWordDTO(req)
	if err != nil {
		h.fail(w, r, "add word", fmt.Errorf("%w: %v", errs.ErrInvalidArgument, err))
		return
	}
	id, err := h.vocab.AddWord(r.Context(), userID(r), word)
	if err != nil {
		h.fail(w, r, "add word", err)
		return
	}
	writeJSON(w, http.StatusCreated, convert.IDResponse{ID: id})
}

// UpdateNotes handles PUT /api/words/{id}/notes.
func (h *Handler) UpdateNotes(w http.ResponseWriter, r *http.Request) {
	var req convert.NotesRequest
	if err := decodeJSON(r, &req); err != nil {
		h.fail(w, r, "update notes", err)
		return
	}
	if err := h.vocab.UpdateWordNotes(r.Context(), userID(r), chi.URLParam(r, "id"), req.Notes); err != nil {
		h.fail(w, r, "update notes", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DeleteWord handles DELETE /api/words/{id}.
func (h *Handler) DeleteWord(w http.ResponseWriter, r *http.Request) {
	if err := h.vocab.DeleteWord(r.Context(), userID(r), chi.URLParam(r, "id")); err != nil {
		h.fail(w, r, "delete word", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- Translation ---

// ListProviders handles GET /api/providers.
func (h *Handler) ListProviders(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, convert.ProvidersResponse{Providers: convert.ToProviderDTOs(h.tr.Infos())})
}

// Translate handles POST /api/translate. A provider name wins over provider_index.
func (h *Handler) Translate(w http.ResponseWriter, r *http.Request) {
	var req convert.TranslateRequest
	if err := decodeJSON(r, &req); err != nil {
		h.fail(w, r, "translate", err)
		return
	}
	from, err := convert.ParseLang(req.From)
	if err != nil {
		h.fail(w, r, "translate", fmt.Errorf("%w: from: %v", errs.ErrInvalidArgument, err))
		return
	}
	to, err := convert.ParseLang(req.To)
	if err != nil {
		h.fail(w, r, "translate", fmt.Errorf("%w: to: %v", errs.ErrInvalidArgument, err))
		return
	}
	if req.Text == "" {
		h.fail(w, r, "translate", fmt.Errorf("%w: empty text", errs.ErrInvalidArgument))
		return
	}

	var res model.TranslateResult
	switch {
	case req.Provider != "":
		res, err = h.tr.TranslateWith(r.Context(), req.Text, from, to, req.Provider)
	case req.ProviderIndex != nil:
		res, err = h.tr.Translate(r.Context(), req.Text, from, to, *req.ProviderIndex)
	default:
		res, err = h.tr.Translate(r.Context(), req.Text, from, to, 0)
	}
	if err != nil {
		h.fail(w, r, "translate", err)
		return
	}
	writeJSON(w, http.StatusOK, convert.ToTranslateResponse(res))
}

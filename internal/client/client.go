// Package client talks to the lexinote HTTP API on behalf of one authenticated user.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/and161185/lexinote/internal/convert"
	"github.com/and161185/lexinote/internal/errs"
	"github.com/and161185/lexinote/internal/model"
)

// Client is bound to a base URL and a bearer token.
type Client struct {
	base  string
	token string
	http  *http.Client
}

// New constructs a Client.
func New(baseURL, token string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		base:  strings.TrimRight(baseURL, "/"),
		token: token,
		http:  &http.Client{Timeout: timeout},
	}
}

// sentinelOf maps a response status back to the domain error it was produced from.
func sentinelOf(code int) error {
	switch code {
	case http.StatusBadRequest:
		return errs.ErrInvalidArgument
	case http.StatusUnauthorized:
		return errs.ErrUnauthorized
	case http.StatusNotFound:
		return errs.ErrNotFound
	case http.StatusConflict:
		return errs.ErrCategoryNotEmpty
	case http.StatusTooManyRequests:
		return errs.ErrQuotaExceeded
	case http.StatusBadGateway:
		return errs.ErrTranslationFailed
	default:
		return nil
	}
}

// unprocessable disambiguates 422 by message.
func unprocessable(msg string) error {
	switch {
	case strings.Contains(msg, errs.ErrNoCategorySelected.Error()):
		return errs.ErrNoCategorySelected
	case strings.Contains(msg, errs.ErrNoProviders.Error()):
		return errs.ErrNoProviders
	default:
		return errs.ErrInvalidProvider
	}
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.base+path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		var e convert.ErrorResponse
		_ = json.NewDecoder(io.LimitReader(resp.Body, 1<<16)).Decode(&e)
		if e.Error == "" {
			e.Error = resp.Status
		}
		sentinel := sentinelOf(resp.StatusCode)
		if resp.StatusCode == http.StatusUnprocessableEntity {
			sentinel = unprocessable(e.Error)
		}
		if sentinel == nil {
			return fmt.Errorf("%s %s: %s", method, path, e.Error)
		}
		if sentinel == errs.ErrQuotaExceeded {
			return fmt.Errorf("%w: %w: %s", errs.ErrTranslationFailed, sentinel, e.Error)
		}
		return fmt.Errorf("%w: %s", sentinel, e.Error)
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s %s: decode: %w", method, path, err)
	}
	return nil
}

// --- categories ---

// LoadCategories lists the user's categories.
func (c *Client) LoadCategories(ctx context.Context) ([]model.Category, error) {
	var out convert.CategoriesResponse
	if err := c.do(ctx, http.MethodGet, "/api/categories", nil, &out); err != nil {
		return nil, err
	}
	return convert.FromCategoryDTOs(out.Categories), nil
}

// AddCategory creates or overwrites a category.
func (c *Client) AddCategory(ctx context.Context, name, description string) (string, error) {
	var out convert.IDResponse
	err := c.do(ctx, http.MethodPost, "/api/categories", convert.CreateCategoryRequest{Name: name, Description: description}, &out)
	return out.ID, err
}

// UpdateCategory renames a category.
func (c *Client) UpdateCategory(ctx context.Context, id, name string) error {
	return c.do(ctx, http.MethodPut, "/api/categories/"+url.PathEscape(id), convert.RenameCategoryRequest{Name: name}, nil)
}

// DeleteCategory deletes an empty category.
func (c *Client) DeleteCategory(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/categories/"+url.PathEscape(id), nil, nil)
}

// --- words ---

// CountWords counts words, optionally in one category.
func (c *Client) CountWords(ctx context.Context, category string) (int64, error) {
	path := "/api/words/count"
	if category != "" {
		path += "?category=" + url.QueryEscape(category)
	}
	var out convert.CountResponse
	err := c.do(ctx, http.MethodGet, path, nil, &out)
	return out.Count, err
}

// LoadWordsPage fetches one page of words.
func (c *Client) LoadWordsPage(ctx context.Context, q model.PageQuery) (model.Page, error) {
	v := url.Values{}
	set := func(k, val string) {
		if val != "" {
			v.Set(k, val)
		}
	}
	set("category", q.Category)
	set("search", q.SearchWord)
	set("cursor", q.Cursor)
	set("sort", string(q.SortField))
	set("dir", string(q.SortDir))
	if q.PageSize > 0 {
		v.Set("page_size", strconv.Itoa(q.PageSize))
	}
	path := "/api/words"
	if enc := v.Encode(); enc != "" {
		path += "?" + enc
	}

	var out convert.PageResponse
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return model.Page{}, err
	}
	words, err := convert.FromWordDTOs(out.Words)
	if err != nil {
		return model.Page{}, err
	}
	return model.Page{Words: words, NextCursor: out.NextCursor}, nil
}

// GetWord looks up a saved word. A miss is (nil, nil).
func (c *Client) GetWord(ctx context.Context, word string) (*model.Word, error) {
	var out convert.WordResponse
	err := c.do(ctx, http.MethodGet, "/api/words/lookup/"+url.PathEscape(word), nil, &out)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	w, err := convert.FromWordDTO(out.Word)
	if err != nil {
		return nil, err
	}
	return &w, nil
}

// AddWord saves a word.
func (c *Client) AddWord(ctx context.Context, w model.Word) (string, error) {
	var out convert.IDResponse
	err := c.do(ctx, http.MethodPost, "/api/words", convert.ToWordDTO(w), &out)
	return out.ID, err
}

// UpdateWordNotes replaces a word's notes.
func (c *Client) UpdateWordNotes(ctx context.Context, id, notes string) error {
	return c.do(ctx, http.MethodPut, "/api/words/"+url.PathEscape(id)+"/notes", convert.NotesRequest{Notes: notes}, nil)
}

// DeleteWord deletes a word.
func (c *Client) DeleteWord(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/words/"+url.PathEscape(id), nil, nil)
}

// --- translation ---

// Providers lists the server's available providers.
func (c *Client) Providers(ctx context.Context) ([]convert.ProviderDTO, error) {
	var out convert.ProvidersResponse
	if err := c.do(ctx, http.MethodGet, "/api/providers", nil, &out); err != nil {
		return nil, err
	}
	return out.Providers, nil
}

// Translate selects the provider by index into the available list.
func (c *Client) Translate(ctx context.Context, text string, from, to model.Lang, index int) (model.TranslateResult, error) {
	return c.translate(ctx, convert.TranslateRequest{Text: text, From: string(from), To: string(to), ProviderIndex: &index})
}

// TranslateWith selects the provider by name.
func (c *Client) TranslateWith(ctx context.Context, text string, from, to model.Lang, name string) (model.TranslateResult, error) {
	return c.translate(ctx, convert.TranslateRequest{Text: text, From: string(from), To: string(to), Provider: name})
}

func (c *Client) translate(ctx context.Context, req convert.TranslateRequest) (model.TranslateResult, error) {
	var out convert.TranslateResponse
	if err := c.do(ctx, http.MethodPost, "/api/translate", req, &out); err != nil {
		return model.TranslateResult{}, err
	}
	return convert.FromTranslateResponse(out), nil
}

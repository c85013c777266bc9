// Package session holds client-side translation and vocabulary state and persists it locally.
package session

import (
	"context"

	"github.com/and161185/lexinote/internal/model"
)

// Persisted blob keys.
const (
	TranslationKey = "translation-session"
	VocabKey       = "vocab-session"
)

// VocabStore is the remote vocabulary store bound to one user.
type VocabStore interface {
	LoadCategories(ctx context.Context) ([]model.Category, error)
	AddCategory(ctx context.Context, name, description string) (string, error)
	UpdateCategory(ctx context.Context, id, name string) error
	DeleteCategory(ctx context.Context, id string) error
	CountWords(ctx context.Context, category string) (int64, error)
	LoadWordsPage(ctx context.Context, q model.PageQuery) (model.Page, error)
	GetWord(ctx context.Context, word string) (*model.Word, error)
	AddWord(ctx context.Context, w model.Word) (string, error)
	UpdateWordNotes(ctx context.Context, id, notes string) error
	DeleteWord(ctx context.Context, id string) error
}

// Translator runs a translation through a provider picked by index or name.
type Translator interface {
	Translate(ctx context.Context, text string, from, to model.Lang, index int) (model.TranslateResult, error)
	TranslateWith(ctx context.Context, text string, from, to model.Lang, name string) (model.TranslateResult, error)
}

// Persister stores named JSON blobs. Load reports false when nothing was saved yet.
type Persister interface {
	Load(key string, v any) (bool, error)
	Save(key string, v any) error
}

type nopPersister struct{}

func (nopPersister) Load(string, any) (bool, error) { return false, nil }
func (nopPersister) Save(string, any) error         { return nil }

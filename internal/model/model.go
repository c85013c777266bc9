// Package model defines domain entities used by services, repositories and sessions.
package model

import (
	"strings"
	"time"
	"unicode"
)

// Lang is one of the two supported language codes.
type Lang string

// Supported languages.
const (
	LangEN Lang = "en"
	LangZH Lang = "zh"
)

// Valid reports whether l is a supported language code.
func (l Lang) Valid() bool { return l == LangEN || l == LangZH }

// Category groups vocabulary words for one user.
type Category struct {
	ID          string // normalized name, stable after rename
	Name        string
	Description string
	CreatedAt   time.Time // server-assigned
}

// WordDetail is per-word linguistic detail returned by the dictionary lookup.
type WordDetail struct {
	Word          string
	Phonetic      string
	PhoneticAudio string // URL
	PartOfSpeech  []string
	Definitions   []string // each optionally prefixed with "(pos) "
	Examples      []string
	Synonyms      []string
}

// Word is a saved vocabulary entry: a WordDetail plus translation pair and storage metadata.
type Word struct {
	ID             string // lowercased word, see WordID
	Word           string
	TranslatedText string
	SourceLang     Lang
	TargetLang     Lang
	Phonetic       string
	PhoneticAudio  string
	PartOfSpeech   []string
	Definitions    []string
	Examples       []string // at most 2
	Synonyms       []string // at most 3
	Category       string   // Category.ID
	Notes          string
	CreatedAt      time.Time
}

// WordPatch carries the mutable fields of a word mirrored into local state.
type WordPatch struct {
	Notes *string
}

// DetailedTranslation is the enrichment payload attached to a translation.
type DetailedTranslation struct {
	BasicTranslation string
	Words            []WordDetail
	Service          string
	Confidence       *float64
}

// Translation is an ephemeral history entry owned by the local session.
type Translation struct {
	ID             string
	SourceText     string
	TranslatedText string
	Detailed       *DetailedTranslation
	SourceLang     Lang
	TargetLang     Lang
	Timestamp      time.Time
}

// TranslateResult is the outcome of a registry translation.
type TranslateResult struct {
	TranslatedText string
	Detailed       *DetailedTranslation
	Service        string
}

// SortField selects the word ordering column.
type SortField string

// Sort fields.
const (
	SortByCreatedAt SortField = "createdAt"
	SortByWord      SortField = "word"
)

// Valid reports whether f is a known sort field.
func (f SortField) Valid() bool { return f == SortByCreatedAt || f == SortByWord }

// SortDirection is asc or desc.
type SortDirection string

// Sort directions.
const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// Valid reports whether d is a known direction.
func (d SortDirection) Valid() bool { return d == SortAsc || d == SortDesc }

// Page size bounds for word listings.
const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// PageQuery parameterizes a word page request.
type PageQuery struct {
	Category   string // exact match, empty = all
	SearchWord string // exact match on normalized word, empty = none
	PageSize   int
	Cursor     string // opaque; empty = first page
	SortField  SortField
	SortDir    SortDirection
}

// Normalize fills defaults and clamps the page size.
func (q PageQuery) Normalize() PageQuery {
	if q.PageSize <= 0 {
		q.PageSize = DefaultPageSize
	}
	if q.PageSize > MaxPageSize {
		q.PageSize = MaxPageSize
	}
	if q.SortField == "" {
		q.SortField = SortByCreatedAt
	}
	if q.SortDir == "" {
		q.SortDir = SortDesc
	}
	q.SearchWord = WordID(q.SearchWord)
	return q
}

// Page is one slice of the word collection.
type Page struct {
	Words      []Word
	NextCursor string // empty when the page was short
}

// CategoryID derives a category id from its name: whitespace removed, lowercased.
// Two names that normalize equal share one document.
func CategoryID(name string) string {
	var b strings.Builder
	for _, r := range name {
		if unicode.IsSpace(r) {
			continue
		}
		b.WriteRune(r)
	}
	return strings.ToLower(b.String())
}

// WordID derives a word id from its text, so re-adding a word overwrites it.
func WordID(word string) string {
	return strings.ToLower(strings.TrimSpace(word))
}

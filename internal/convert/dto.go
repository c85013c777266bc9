// Package convert maps domain models to the JSON wire types shared by the HTTP API,
// its client, and the local session files.
package convert

import "time"

// CategoryDTO is the wire form of model.Category.
type CategoryDTO struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	CreatedAt   *time.Time `json:"created_at,omitempty"`
}

// WordDetailDTO is the wire form of model.WordDetail.
type WordDetailDTO struct {
	Word          string   `json:"word"`
	Phonetic      string   `json:"phonetic,omitempty"`
	PhoneticAudio string   `json:"phonetic_audio,omitempty"`
	PartOfSpeech  []string `json:"part_of_speech"`
	Definitions   []string `json:"definitions"`
	Examples      []string `json:"examples"`
	Synonyms      []string `json:"synonyms"`
}

// WordDTO is the wire form of model.Word.
type WordDTO struct {
	ID             string     `json:"id,omitempty"`
	Word           string     `json:"word"`
	TranslatedText string     `json:"translated_text"`
	SourceLang     string     `json:"source_lang"`
	TargetLang     string     `json:"target_lang"`
	Phonetic       string     `json:"phonetic"`
	PhoneticAudio  string     `json:"phonetic_audio"`
	PartOfSpeech   []string   `json:"part_of_speech"`
	Definitions    []string   `json:"definitions"`
	Examples       []string   `json:"examples"`
	Synonyms       []string   `json:"synonyms"`
	Category       string     `json:"category"`
	Notes          string     `json:"notes"`
	CreatedAt      *time.Time `json:"created_at,omitempty"`
}

// DetailedDTO is the wire form of model.DetailedTranslation.
type DetailedDTO struct {
	BasicTranslation string          `json:"basic_translation"`
	Words            []WordDetailDTO `json:"words"`
	Service          string          `json:"service"`
	Confidence       *float64        `json:"confidence,omitempty"`
}

// TranslationDTO is a history entry as persisted by the CLI.
type TranslationDTO struct {
	ID             string       `json:"id"`
	SourceText     string       `json:"source_text"`
	TranslatedText string       `json:"translated_text"`
	Detailed       *DetailedDTO `json:"detailed,omitempty"`
	SourceLang     string       `json:"source_lang"`
	TargetLang     string       `json:"target_lang"`
	Timestamp      int64        `json:"timestamp"` // unix millis
}

// ProviderDTO describes an available translation provider.
type ProviderDTO struct {
	Name         string `json:"name"`
	RequiresAuth bool   `json:"requires_auth"`
	DailyLimit   int    `json:"daily_limit,omitempty"`
}

// Requests and responses of the HTTP API.
type (
	CategoriesResponse struct {
		Categories []CategoryDTO `json:"categories"`
	}
	CreateCategoryRequest struct {
		Name        string `json:"name"`
		Description string `json:"description"`
	}
	RenameCategoryRequest struct {
		Name string `json:"name"`
	}
	IDResponse struct {
		ID string `json:"id"`
	}
	CountResponse struct {
		Count int64 `json:"count"`
	}
	PageResponse struct {
		Words      []WordDTO `json:"words"`
		NextCursor string    `json:"next_cursor,omitempty"`
	}
	WordResponse struct {
		Word WordDTO `json:"word"`
	}
	NotesRequest struct {
		Notes string `json:"notes"`
	}
	ProvidersResponse struct {
		Providers []ProviderDTO `json:"providers"`
	}
	TranslateRequest struct {
		Text          string `json:"text"`
		From          string `json:"from"`
		To            string `json:"to"`
		Provider      string `json:"provider,omitempty"`
		ProviderIndex *int   `json:"provider_index,omitempty"`
	}
	TranslateResponse struct {
		TranslatedText string       `json:"translated_text"`
		Detailed       *DetailedDTO `json:"detailed,omitempty"`
		Service        string       `json:"service"`
	}
	ErrorResponse struct {
		Error string `json:"error"`
	}
)

package convert

import (
	"fmt"
	"time"

	"github.com/and161185/lexinote/internal/model"
	"github.com/and161185/lexinote/internal/provider"
)

// --- helpers ---

func ts(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	u := t.UTC()
	return &u
}

func fromTS(t *time.Time) time.Time {
	if t == nil {
		return time.Time{}
	}
	return *t
}

func strs(in []string) []string {
	if in == nil {
		return []string{}
	}
	return in
}

// ParseLang validates a wire language code.
func ParseLang(s string) (model.Lang, error) {
	l := model.Lang(s)
	if !l.Valid() {
		return "", fmt.Errorf("unsupported language %q", s)
	}
	return l, nil
}

// --- Category ---

// ToCategoryDTO converts a domain category.
func ToCategoryDTO(c model.Category) CategoryDTO {
	return CategoryDTO{ID: c.ID, Name: c.Name, Description: c.Description, CreatedAt: ts(c.CreatedAt)}
}

// ToCategoryDTOs converts a list, never returning nil.
func ToCategoryDTOs(cs []model.Category) []CategoryDTO {
	out := make([]CategoryDTO, 0, len(cs))
	for _, c := range cs {
		out = append(out, ToCategoryDTO(c))
	}
	return out
}

// FromCategoryDTO converts back to the domain.
func FromCategoryDTO(d CategoryDTO) model.Category {
	return model.Category{ID: d.ID, Name: d.Name, Description: d.Description, CreatedAt: fromTS(d.CreatedAt)}
}

// FromCategoryDTOs converts a list.
func FromCategoryDTOs(ds []CategoryDTO) []model.Category {
	out := make([]model.Category, 0, len(ds))
	for _, d := range ds {
		out = append(out, FromCategoryDTO(d))
	}
	return out
}

// --- WordDetail ---

// ToWordDetailDTO converts dictionary detail.
func ToWordDetailDTO(d model.WordDetail) WordDetailDTO {
	return WordDetailDTO{
		Word:          d.Word,
		Phonetic:      d.Phonetic,
		PhoneticAudio: d.PhoneticAudio,
		PartOfSpeech:  strs(d.PartOfSpeech),
		Definitions:   strs(d.Definitions),
		Examples:      strs(d.Examples),
		Synonyms:      strs(d.Synonyms),
	}
}

// FromWordDetailDTO converts back to the domain.
func FromWordDetailDTO(d WordDetailDTO) model.WordDetail {
	return model.WordDetail{
		Word:          d.Word,
		Phonetic:      d.Phonetic,
		PhoneticAudio: d.PhoneticAudio,
		PartOfSpeech:  strs(d.PartOfSpeech),
		Definitions:   strs(d.Definitions),
		Examples:      strs(d.Examples),
		Synonyms:      strs(d.Synonyms),
	}
}

// --- Word ---

// ToWordDTO converts a saved word.
func ToWordDTO(w model.Word) WordDTO {
	return WordDTO{
		ID:             w.ID,
		Word:           w.Word,
		TranslatedText: w.TranslatedText,
		SourceLang:     string(w.SourceLang),
		TargetLang:     string(w.TargetLang),
		Phonetic:       w.Phonetic,
		PhoneticAudio:  w.PhoneticAudio,
		PartOfSpeech:   strs(w.PartOfSpeech),
		Definitions:    strs(w.Definitions),
		Examples:       strs(w.Examples),
		Synonyms:       strs(w.Synonyms),
		Category:       w.Category,
		Notes:          w.Notes,
		CreatedAt:      ts(w.CreatedAt),
	}
}

// ToWordDTOs converts a page of words, never returning nil.
func ToWordDTOs(ws []model.Word) []WordDTO {
	out := make([]WordDTO, 0, len(ws))
	for _, w := range ws {
		out = append(out, ToWordDTO(w))
	}
	return out
}

// FromWordDTO converts a wire word, validating both languages.
func FromWordDTO(d WordDTO) (model.Word, error) {
	src, err := ParseLang(d.SourceLang)
	if err != nil {
		return model.Word{}, fmt.Errorf("source_lang: %w", err)
	}
	tgt, err := ParseLang(d.TargetLang)
	if err != nil {
		return model.Word{}, fmt.Errorf("target_lang: %w", err)
	}
	return model.Word{
		ID:             d.ID,
		Word:           d.Word,
		TranslatedText: d.TranslatedText,
		SourceLang:     src,
		TargetLang:     tgt,
		Phonetic:       d.Phonetic,
		PhoneticAudio:  d.PhoneticAudio,
		PartOfSpeech:   strs(d.PartOfSpeech),
		Definitions:    strs(d.Definitions),
		Examples:       strs(d.Examples),
		Synonyms:       strs(d.Synonyms),
		Category:       d.Category,
		Notes:          d.Notes,
		CreatedAt:      fromTS(d.CreatedAt),
	}, nil
}

// FromWordDTOs converts a wire page; the first invalid word aborts.
func FromWordDTOs(ds []WordDTO) ([]model.Word, error) {
	out := make([]model.Word, 0, len(ds))
	for i, d := range ds {
		w, err := FromWordDTO(d)
		if err != nil {
			return nil, fmt.Errorf("word[%d]: %w", i, err)
		}
		out = append(out, w)
	}
	return out, nil
}

// --- Translation ---

// ToDetailedDTO converts enrichment output; nil stays nil.
func ToDetailedDTO(d *model.DetailedTranslation) *DetailedDTO {
	if d == nil {
		return nil
	}
	words := make([]WordDetailDTO, 0, len(d.Words))
	for _, w := range d.Words {
		words = append(words, ToWordDetailDTO(w))
	}
	return &DetailedDTO{BasicTranslation: d.BasicTranslation, Words: words, Service: d.Service, Confidence: d.Confidence}
}

// FromDetailedDTO converts back to the domain; nil stays nil.
func FromDetailedDTO(d *DetailedDTO) *model.DetailedTranslation {
	if d == nil {
		return nil
	}
	words := make([]model.WordDetail, 0, len(d.Words))
	for _, w := range d.Words {
		words = append(words, FromWordDetailDTO(w))
	}
	return &model.DetailedTranslation{BasicTranslation: d.BasicTranslation, Words: words, Service: d.Service, Confidence: d.Confidence}
}

// ToTranslateResponse converts a registry result.
func ToTranslateResponse(r model.TranslateResult) TranslateResponse {
	return TranslateResponse{TranslatedText: r.TranslatedText, Detailed: ToDetailedDTO(r.Detailed), Service: r.Service}
}

// FromTranslateResponse converts a wire result.
func FromTranslateResponse(r TranslateResponse) model.TranslateResult {
	return model.TranslateResult{TranslatedText: r.TranslatedText, Detailed: FromDetailedDTO(r.Detailed), Service: r.Service}
}

// ToTranslationDTO converts a history entry.
func ToTranslationDTO(t model.Translation) TranslationDTO {
	return TranslationDTO{
		ID:             t.ID,
		SourceText:     t.SourceText,
		TranslatedText: t.TranslatedText,
		Detailed:       ToDetailedDTO(t.Detailed),
		SourceLang:     string(t.SourceLang),
		TargetLang:     string(t.TargetLang),
		Timestamp:      t.Timestamp.UnixMilli(),
	}
}

// FromTranslationDTO converts a persisted history entry.
func FromTranslationDTO(d TranslationDTO) (model.Translation, error) {
	src, err := ParseLang(d.SourceLang)
	if err != nil {
		return model.Translation{}, err
	}
	tgt, err := ParseLang(d.TargetLang)
	if err != nil {
		return model.Translation{}, err
	}
	return model.Translation{
		ID:             d.ID,
		SourceText:     d.SourceText,
		TranslatedText: d.TranslatedText,
		Detailed:       FromDetailedDTO(d.Detailed),
		SourceLang:     src,
		TargetLang:     tgt,
		Timestamp:      time.UnixMilli(d.Timestamp),
	}, nil
}

// --- Providers ---

// ToProviderDTOs converts registry listings.
func ToProviderDTOs(in []provider.Info) []ProviderDTO {
	out := make([]ProviderDTO, 0, len(in))
	for _, p := range in {
		out = append(out, ProviderDTO{Name: p.Name, RequiresAuth: p.RequiresAuth, DailyLimit: p.DailyLimit})
	}
	return out
}

package session

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/and161185/lexinote/internal/convert"
	"github.com/and161185/lexinote/internal/errs"
	"github.com/and161185/lexinote/internal/model"
)

// MaxHistory bounds the translation history.
const MaxHistory = 50

// TranslationState is a snapshot of a TranslationSession.
type TranslationState struct {
	SourceText     string
	TranslatedText string
	SourceLang     model.Lang
	TargetLang     model.Lang
	Provider       string // stable provider name; empty selects by ProviderIndex
	ProviderIndex  int
	IsTranslating  bool
	Err            string
	History        []model.Translation // newest first
}

type translationBlob struct {
	SourceLang     string                   `json:"source_lang"`
	TargetLang     string                   `json:"target_lang"`
	SourceText     string                   `json:"source_text"`
	TranslatedText string                   `json:"translated_text,omitempty"`
	Provider       string                   `json:"provider,omitempty"`
	ProviderIndex  int                      `json:"provider_index"`
	History        []convert.TranslationDTO `json:"history"`
}

// TranslationSession owns the current translation pair and its history.
// Every Translate call gets a generation; only the latest may write results.
type TranslationSession struct {
	mu    sync.Mutex
	st    TranslationState
	gen   uint64
	tr    Translator
	store Persister
	log   *zap.Logger
	now   func() time.Time
}

// NewTranslationSession restores persisted state, defaulting to en -> zh.
func NewTranslationSession(tr Translator, store Persister, log *zap.Logger) *TranslationSession {
	if store == nil {
		store = nopPersister{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	s := &TranslationSession{
		st:    TranslationState{SourceLang: model.LangEN, TargetLang: model.LangZH, History: []model.Translation{}},
		tr:    tr,
		store: store,
		log:   log,
		now:   time.Now,
	}
	s.restore()
	return s
}

func (s *TranslationSession) restore() {
	var b translationBlob
	ok, err := s.store.Load(TranslationKey, &b)
	if err != nil {
		s.log.Warn("translation session restore failed", zap.Error(err))
		return
	}
	if !ok {
		return
	}
	if l := model.Lang(b.SourceLang); l.Valid() {
		s.st.SourceLang = l
	}
	if l := model.Lang(b.TargetLang); l.Valid() {
		s.st.TargetLang = l
	}
	s.st.SourceText = b.SourceText
	s.st.TranslatedText = b.TranslatedText
	s.st.Provider = b.Provider
	s.st.ProviderIndex = b.ProviderIndex
	for _, d := range b.History {
		t, err := convert.FromTranslationDTO(d)
		if err != nil {
			continue
		}
		s.st.History = append(s.st.History, t)
	}
	if len(s.st.History) > MaxHistory {
		s.st.History = s.st.History[:MaxHistory]
	}
}

// persist must be called with mu held.
func (s *TranslationSession) persist() {
	b := translationBlob{
		SourceLang:     string(s.st.SourceLang),
		TargetLang:     string(s.st.TargetLang),
		SourceText:     s.st.SourceText,
		TranslatedText: s.st.TranslatedText,
		Provider:       s.st.Provider,
		ProviderIndex:  s.st.ProviderIndex,
		History:        make([]convert.TranslationDTO, 0, len(s.st.History)),
	}
	for _, t := range s.st.History {
		b.History = append(b.History, convert.ToTranslationDTO(t))
	}
	if err := s.store.Save(TranslationKey, b); err != nil {
		s.log.Warn("translation session save failed", zap.Error(err))
	}
}

// State returns a copy of the current state.
func (s *TranslationSession) State() TranslationState {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.st
	st.History = append([]model.Translation(nil), s.st.History...)
	return st
}

// SetSourceText replaces the input text.
func (s *TranslationSession) SetSourceText(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st.SourceText = text
	s.persist()
}

// SetLanguages sets the language pair.
func (s *TranslationSession) SetLanguages(from, to model.Lang) error {
	if !from.Valid() || !to.Valid() {
		return fmt.Errorf("%w: unsupported language pair %q/%q", errs.ErrInvalidArgument, from, to)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st.SourceLang, s.st.TargetLang = from, to
	s.persist()
	return nil
}

// SetProvider selects a provider by stable name.
func (s *TranslationSession) SetProvider(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st.Provider = strings.TrimSpace(name)
	s.persist()
}

// SetProviderIndex selects a provider by position in the available list and clears the name.
func (s *TranslationSession) SetProviderIndex(i int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st.Provider = ""
	s.st.ProviderIndex = i
	s.persist()
}

// SwapLanguages exchanges both texts and both languages in one update.
func (s *TranslationSession) SwapLanguages() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st.SourceText, s.st.TranslatedText = s.st.TranslatedText, s.st.SourceText
	s.st.SourceLang, s.st.TargetLang = s.st.TargetLang, s.st.SourceLang
	s.persist()
}

// ClearAll empties both texts.
func (s *TranslationSession) ClearAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st.SourceText = ""
	s.st.TranslatedText = ""
	s.persist()
}

// Translate validates input, calls the translator and records a history entry.
// Validation failures leave the state untouched. A result overtaken by a newer
// call is dropped with ErrStaleResult.
func (s *TranslationSession) Translate(ctx context.Context) (model.Translation, error) {
	s.mu.Lock()
	from, to := s.st.SourceLang, s.st.TargetLang
	text := strings.TrimSpace(s.st.SourceText)
	if !from.Valid() || !to.Valid() {
		s.mu.Unlock()
		return model.Translation{}, fmt.Errorf("%w: language pair required", errs.ErrInvalidArgument)
	}
	if text == "" {
		s.mu.Unlock()
		return model.Translation{}, fmt.Errorf("%w: enter text to translate", errs.ErrInvalidArgument)
	}
	s.gen++
	gen := s.gen
	name, index := s.st.Provider, s.st.ProviderIndex
	s.st.IsTranslating = true
	s.st.Err = ""
	s.mu.Unlock()

	var (
		res model.TranslateResult
		err error
	)
	if name != "" {
		res, err = s.tr.TranslateWith(ctx, text, from, to, name)
	} else {
		res, err = s.tr.Translate(ctx, text, from, to, index)
	}
	if err == nil && res.TranslatedText == "" {
		err = fmt.Errorf("%w: no translation result", errs.ErrTranslationFailed)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.gen {
		s.log.Debug("stale translation dropped", zap.Uint64("gen", gen), zap.Uint64("latest", s.gen))
		return model.Translation{}, errs.ErrStaleResult
	}
	s.st.IsTranslating = false
	if err != nil {
		s.st.Err = err.Error()
		return model.Translation{}, err
	}

	now := s.now()
	t := model.Translation{
		ID:             strconv.FormatInt(now.UnixNano(), 10),
		SourceText:     text,
		TranslatedText: res.TranslatedText,
		Detailed:       res.Detailed,
		SourceLang:     from,
		TargetLang:     to,
		Timestamp:      now,
	}
	s.st.TranslatedText = res.TranslatedText
	s.addLocked(t)
	s.persist()
	return t, nil
}

// AddToHistory inserts t first, replacing any entry with the same source text and language.
func (s *TranslationSession) AddToHistory(t model.Translation) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.addLocked(t)
	s.persist()
}

func (s *TranslationSession) addLocked(t model.Translation) {
	h := make([]model.Translation, 0, len(s.st.History)+1)
	h = append(h, t)
	for _, e := range s.st.History {
		if e.SourceText == t.SourceText && e.SourceLang == t.SourceLang {
			continue
		}
		h = append(h, e)
	}
	if len(h) > MaxHistory {
		h = h[:MaxHistory]
	}
	s.st.History = h
}

// RemoveFromHistory drops the entry with id. Unknown ids are ignored.
func (s *TranslationSession) RemoveFromHistory(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	h := make([]model.Translation, 0, len(s.st.History))
	for _, e := range s.st.History {
		if e.ID != id {
			h = append(h, e)
		}
	}
	s.st.History = h
	s.persist()
}

// ClearHistory empties the history.
func (s *TranslationSession) ClearHistory() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st.History = []model.Translation{}
	s.persist()
}

// IsStale reports whether err marks a superseded translation.
func IsStale(err error) bool { return errors.Is(err, errs.ErrStaleResult) }

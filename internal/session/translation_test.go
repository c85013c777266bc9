package session

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/and161185/lexinote/internal/errs"
	"github.com/and161185/lexinote/internal/model"
)

type fakeTranslator struct {
	calls   int
	byName  []string
	byIndex []int
	out     func(text string) (model.TranslateResult, error)
}

func (f *fakeTranslator) result(text string) (model.TranslateResult, error) {
	f.calls++
	if f.out != nil {
		return f.out(text)
	}
	return model.TranslateResult{TranslatedText: "T:" + text, Service: "fake"}, nil
}

func (f *fakeTranslator) Translate(_ context.Context, text string, _, _ model.Lang, index int) (model.TranslateResult, error) {
	f.byIndex = append(f.byIndex, index)
	return f.result(text)
}

func (f *fakeTranslator) TranslateWith(_ context.Context, text string, _, _ model.Lang, name string) (model.TranslateResult, error) {
	f.byName = append(f.byName, name)
	return f.result(text)
}

func newTS(t *testing.T, tr Translator, p Persister) *TranslationSession {
	t.Helper()
	s := NewTranslationSession(tr, p, zaptest.NewLogger(t))
	base := time.Date(2026, 10, 14, 12, 0, 0, 0, time.UTC)
	n := 0
	s.now = func() time.Time { n++; return base.Add(time.Duration(n) * time.Millisecond) }
	return s
}

func TestTranslationSession_Defaults(t *testing.T) {
	s := newTS(t, &fakeTranslator{}, nil)
	st := s.State()
	require.Equal(t, model.LangEN, st.SourceLang)
	require.Equal(t, model.LangZH, st.TargetLang)
	require.Empty(t, st.History)
}

func TestTranslationSession_Translate_RecordsHistory(t *testing.T) {
	tr := &fakeTranslator{}
	s := newTS(t, tr, nil)
	s.SetSourceText("  hello  ")

	got, err := s.Translate(context.Background())
	require.NoError(t, err)
	require.Equal(t, "hello", got.SourceText)
	require.Equal(t, "T:hello", got.TranslatedText)
	require.NotEmpty(t, got.ID)

	st := s.State()
	require.False(t, st.IsTranslating)
	require.Empty(t, st.Err)
	require.Equal(t, "T:hello", st.TranslatedText)
	require.Len(t, st.History, 1)
	require.Equal(t, []int{0}, tr.byIndex)
}

func TestTranslationSession_Translate_ValidationDoesNotMutate(t *testing.T) {
	tr := &fakeTranslator{}
	s := newTS(t, tr, nil)
	s.SetSourceText("   ")

	_, err := s.Translate(context.Background())
	require.ErrorIs(t, err, errs.ErrInvalidArgument)
	require.Zero(t, tr.calls)
	st := s.State()
	require.False(t, st.IsTranslating)
	require.Empty(t, st.Err)
	require.Empty(t, st.History)

	require.ErrorIs(t, s.SetLanguages("en", "fr"), errs.ErrInvalidArgument)
	require.Equal(t, model.LangZH, s.State().TargetLang)
}

func TestTranslationSession_Translate_FailureSetsError(t *testing.T) {
	tr := &fakeTranslator{out: func(string) (model.TranslateResult, error) {
		return model.TranslateResult{}, fmt.Errorf("%w: boom", errs.ErrTranslationFailed)
	}}
	s := newTS(t, tr, nil)
	s.SetSourceText("hello")

	_, err := s.Translate(context.Background())
	require.ErrorIs(t, err, errs.ErrTranslationFailed)
	st := s.State()
	require.False(t, st.IsTranslating)
	require.Contains(t, st.Err, "boom")
	require.Empty(t, st.History)
}

func TestTranslationSession_Translate_EmptyResultFails(t *testing.T) {
	tr := &fakeTranslator{out: func(string) (model.TranslateResult, error) { return model.TranslateResult{}, nil }}
	s := newTS(t, tr, nil)
	s.SetSourceText("hello")

	_, err := s.Translate(context.Background())
	require.ErrorIs(t, err, errs.ErrTranslationFailed)
	require.Contains(t, s.State().Err, "no translation result")
}

func TestTranslationSession_ProviderByName(t *testing.T) {
	tr := &fakeTranslator{}
	s := newTS(t, tr, nil)
	s.SetSourceText("hello")
	s.SetProvider("Google")

	_, err := s.Translate(context.Background())
	require.NoError(t, err)
	require.Equal(t, []string{"Google"}, tr.byName)
	require.Empty(t, tr.byIndex)

	s.SetProviderIndex(1)
	_, err = s.Translate(context.Background())
	require.NoError(t, err)
	require.Equal(t, []int{1}, tr.byIndex)
}

// blockingTranslator holds the first call until release is closed.
type blockingTranslator struct {
	fakeTranslator
	entered chan struct{}
	release chan struct{}
	first   bool
}

func (b *blockingTranslator) Translate(ctx context.Context, text string, from, to model.Lang, index int) (model.TranslateResult, error) {
	if !b.first {
		b.first = true
		close(b.entered)
		<-b.release
		return model.TranslateResult{TranslatedText: "old:" + text}, nil
	}
	return model.TranslateResult{TranslatedText: "new:" + text}, nil
}

func TestTranslationSession_StaleResultDropped(t *testing.T) {
	tr := &blockingTranslator{entered: make(chan struct{}), release: make(chan struct{})}
	s := newTS(t, tr, nil)
	s.SetSourceText("first")

	done := make(chan error, 1)
	go func() {
		_, err := s.Translate(context.Background())
		done <- err
	}()
	<-tr.entered

	s.SetSourceText("second")
	got, err := s.Translate(context.Background())
	require.NoError(t, err)
	require.Equal(t, "new:second", got.TranslatedText)

	close(tr.release)
	err = <-done
	require.ErrorIs(t, err, errs.ErrStaleResult)
	require.True(t, IsStale(err))

	st := s.State()
	require.Equal(t, "new:second", st.TranslatedText)
	require.False(t, st.IsTranslating)
	require.Len(t, st.History, 1)
	require.Equal(t, "second", st.History[0].SourceText)
}

func TestTranslationSession_Swap(t *testing.T) {
	s := newTS(t, &fakeTranslator{}, nil)
	s.SetSourceText("hello")
	_, err := s.Translate(context.Background())
	require.NoError(t, err)

	s.SwapLanguages()
	st := s.State()
	require.Equal(t, "T:hello", st.SourceText)
	require.Equal(t, "hello", st.TranslatedText)
	require.Equal(t, model.LangZH, st.SourceLang)
	require.Equal(t, model.LangEN, st.TargetLang)

	s.ClearAll()
	st = s.State()
	require.Empty(t, st.SourceText)
	require.Empty(t, st.TranslatedText)
}

func TestTranslationSession_HistoryDedupAndCap(t *testing.T) {
	s := newTS(t, &fakeTranslator{}, nil)
	base := time.Now()

	s.AddToHistory(model.Translation{ID: "a", SourceText: "x", SourceLang: model.LangEN, TargetLang: model.LangZH, Timestamp: base})
	s.AddToHistory(model.Translation{ID: "b", SourceText: "x", SourceLang: model.LangZH, TargetLang: model.LangEN, Timestamp: base})
	s.AddToHistory(model.Translation{ID: "c", SourceText: "x", SourceLang: model.LangEN, TargetLang: model.LangZH, Timestamp: base})

	h := s.State().History
	require.Len(t, h, 2)
	require.Equal(t, "c", h[0].ID)
	require.Equal(t, "b", h[1].ID)

	for i := 0; i < MaxHistory+10; i++ {
		s.AddToHistory(model.Translation{ID: fmt.Sprint(i), SourceText: fmt.Sprint("t", i), SourceLang: model.LangEN})
	}
	h = s.State().History
	require.Len(t, h, MaxHistory)
	require.Equal(t, fmt.Sprint(MaxHistory+9), h[0].ID)

	s.RemoveFromHistory(h[0].ID)
	require.Len(t, s.State().History, MaxHistory-1)
	s.RemoveFromHistory("unknown")
	require.Len(t, s.State().History, MaxHistory-1)

	s.ClearHistory()
	require.Empty(t, s.State().History)
}

func TestTranslationSession_PersistsAcrossRestart(t *testing.T) {
	p := NewFilePersister(t.TempDir())
	s := newTS(t, &fakeTranslator{}, p)
	require.NoError(t, s.SetLanguages(model.LangZH, model.LangEN))
	s.SetProvider("MyMemory")
	s.SetSourceText("你好")
	_, err := s.Translate(context.Background())
	require.NoError(t, err)

	again := NewTranslationSession(&fakeTranslator{}, p, nil)
	st := again.State()
	require.Equal(t, model.LangZH, st.SourceLang)
	require.Equal(t, model.LangEN, st.TargetLang)
	require.Equal(t, "你好", st.SourceText)
	require.Equal(t, "MyMemory", st.Provider)
	require.Len(t, st.History, 1)
	require.NotEmpty(t, st.TranslatedText)
}

type brokenPersister struct{}

func (brokenPersister) Load(string, any) (bool, error) { return false, errors.New("corrupt") }
func (brokenPersister) Save(string, any) error         { return errors.New("read-only") }

func TestTranslationSession_PersistErrorsAreNotFatal(t *testing.T) {
	s := newTS(t, &fakeTranslator{}, brokenPersister{})
	s.SetSourceText("hello")
	_, err := s.Translate(context.Background())
	require.NoError(t, err)
}

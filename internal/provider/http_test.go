package provider

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/and161185/lexinote/internal/model"
)

func TestMyMemory_Translate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "hello", r.URL.Query().Get("q"))
		require.Equal(t, "en|zh-CN", r.URL.Query().Get("langpair"))
		_, _ = w.Write([]byte(`{"responseData":{"translatedText":"你好","match":1},"responseStatus":200}`))
	}))
	defer srv.Close()

	p := NewMyMemory(Options{Endpoint: srv.URL, Enabled: true, DailyLimit: -1})
	require.Equal(t, MyMemoryName, p.Name())
	require.Equal(t, MyMemoryDailyLimit, p.DailyLimit())
	require.True(t, p.Available())

	out, err := p.Translate(context.Background(), "hello", model.LangEN, model.LangZH)
	require.NoError(t, err)
	require.Equal(t, "你好", out)
}

func TestMyMemory_ResponseStatusFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"responseData":{"translatedText":"MYMEMORY WARNING"},"responseStatus":"429","responseDetails":"quota"}`))
	}))
	defer srv.Close()

	p := NewMyMemory(Options{Endpoint: srv.URL, Enabled: true})
	_, err := p.Translate(context.Background(), "hello", model.LangEN, model.LangZH)
	require.ErrorContains(t, err, "429")
}

func TestMyMemory_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	p := NewMyMemory(Options{Endpoint: srv.URL, Enabled: true})
	_, err := p.Translate(context.Background(), "hello", model.LangEN, model.LangZH)
	require.Error(t, err)
}

func TestGoogleProxy_Translate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		require.Equal(t, "gtx", q.Get("client"))
		require.Equal(t, "zh-CN", q.Get("sl"))
		require.Equal(t, "en", q.Get("tl"))
		require.Equal(t, "t", q.Get("dt"))
		require.Equal(t, "你好", q.Get("q"))
		_, _ = w.Write([]byte(`[[["hello","你好",null,null,10]],null,"zh-CN"]`))
	}))
	defer srv.Close()

	p := NewGoogleProxy(Options{Endpoint: srv.URL, Enabled: true})
	out, err := p.Translate(context.Background(), "你好", model.LangZH, model.LangEN)
	require.NoError(t, err)
	require.Equal(t, "hello", out)
	require.Zero(t, p.DailyLimit())
}

func TestGoogleProxy_Malformed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`[[]]`))
	}))
	defer srv.Close()

	p := NewGoogleProxy(Options{Endpoint: srv.URL, Enabled: true})
	_, err := p.Translate(context.Background(), "x", model.LangEN, model.LangZH)
	require.ErrorContains(t, err, "malformed")
}

func TestDisabledProviderStaysRegistered(t *testing.T) {
	off := NewGoogleProxy(Options{Enabled: false})
	on := NewMyMemory(Options{Enabled: true})
	r := NewRegistry([]Provider{off, on})

	require.Len(t, r.providers, 2)
	require.False(t, off.Available())
	av := r.ListAvailable()
	require.Len(t, av, 1)
	require.Equal(t, MyMemoryName, av[0].Name())
}

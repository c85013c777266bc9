// Package provider implements external translation providers and the registry selecting among them.
package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/and161185/lexinote/internal/model"
)

// Provider is one external translation service.
type Provider interface {
	Name() string
	Translate(ctx context.Context, text string, from, to model.Lang) (string, error)
	// Available is a static property of the provider, not a health check.
	Available() bool
	RequiresAuth() bool
	// DailyLimit is the number of calls allowed per day; 0 means unlimited.
	DailyLimit() int
}

// Info describes a provider for listings.
type Info struct {
	Name         string
	RequiresAuth bool
	DailyLimit   int
}

// Options configures a concrete HTTP provider.
type Options struct {
	Name       string
	Endpoint   string
	Enabled    bool
	DailyLimit int
	Auth       bool
	Timeout    time.Duration
	Client     *http.Client
}

// base holds the metadata shared by the HTTP providers.
type base struct {
	name     string
	endpoint string
	enabled  bool
	limit    int
	auth     bool
	client   *http.Client
}

func newBase(o Options, defName, defEndpoint string, defLimit int) base {
	b := base{
		name:     o.Name,
		endpoint: o.Endpoint,
		enabled:  o.Enabled,
		limit:    o.DailyLimit,
		auth:     o.Auth,
		client:   o.Client,
	}
	if b.name == "" {
		b.name = defName
	}
	if b.endpoint == "" {
		b.endpoint = defEndpoint
	}
	if b.limit < 0 {
		b.limit = defLimit
	}
	if b.client == nil {
		timeout := o.Timeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		b.client = &http.Client{Timeout: timeout}
	}
	return b
}

func (b base) Name() string       { return b.name }
func (b base) Available() bool    { return b.enabled }
func (b base) RequiresAuth() bool { return b.auth }
func (b base) DailyLimit() int    { return b.limit }

// langCode maps a session language to the code the remote services expect.
func langCode(l model.Lang) string {
	if l == model.LangZH {
		return "zh-CN"
	}
	return string(l)
}

// getJSON issues GET endpoint?params and decodes a 200 JSON body into out.
func (b base) getJSON(ctx context.Context, params url.Values, out any) error {
	u, err := url.Parse(b.endpoint)
	if err != nil {
		return fmt.Errorf("%s: endpoint: %w", b.name, err)
	}
	q := u.Query()
	for k, vs := range params {
		for _, v := range vs {
			q.Add(k, v)
		}
	}
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := b.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", b.name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return fmt.Errorf("%s: http status %s", b.name, resp.Status)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s: decode: %w", b.name, err)
	}
	return nil
}

package provider

import (
	"context"
	"errors"
	"net/url"

	"github.com/and161185/lexinote/internal/model"
)

// GoogleProxy defaults.
const (
	GoogleProxyName     = "Google"
	GoogleProxyEndpoint = "https://translate.googleapis.com/translate_a/single"
)

// GoogleProxy is the proxy-based provider speaking the gtx query format.
type GoogleProxy struct{ base }

// NewGoogleProxy constructs the provider. It has no daily limit unless one is configured.
func NewGoogleProxy(o Options) *GoogleProxy {
	if o.DailyLimit < 0 {
		o.DailyLimit = 0
	}
	return &GoogleProxy{base: newBase(o, GoogleProxyName, GoogleProxyEndpoint, 0)}
}

// Translate calls GET ?client=gtx&sl=&tl=&dt=t&q= and reads [0][0][0].
func (p *GoogleProxy) Translate(ctx context.Context, text string, from, to model.Lang) (string, error) {
	params := url.Values{}
	params.Set("client", "gtx")
	params.Set("sl", langCode(from))
	params.Set("tl", langCode(to))
	params.Set("dt", "t")
	params.Set("q", text)

	var body []any
	if err := p.getJSON(ctx, params, &body); err != nil {
		return "", err
	}
	out, ok := firstSegment(body)
	if !ok || out == "" {
		return "", errors.New(p.name + ": malformed response")
	}
	return out, nil
}

func firstSegment(body []any) (string, bool) {
	if len(body) == 0 {
		return "", false
	}
	sentences, ok := body[0].([]any)
	if !ok || len(sentences) == 0 {
		return "", false
	}
	first, ok := sentences[0].([]any)
	if !ok || len(first) == 0 {
		return "", false
	}
	s, ok := first[0].(string)
	return s, ok
}

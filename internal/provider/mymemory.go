package provider

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/and161185/lexinote/internal/model"
)

// MyMemory defaults.
const (
	MyMemoryName       = "MyMemory"
	MyMemoryEndpoint   = "https://api.mymemory.translated.net/get"
	MyMemoryDailyLimit = 5000
)

// MyMemory is the free quota-limited provider.
type MyMemory struct{ base }

// NewMyMemory constructs the provider. A negative DailyLimit selects the service default.
func NewMyMemory(o Options) *MyMemory {
	return &MyMemory{base: newBase(o, MyMemoryName, MyMemoryEndpoint, MyMemoryDailyLimit)}
}

type myMemoryResponse struct {
	ResponseData struct {
		TranslatedText string `json:"translatedText"`
	} `json:"responseData"`
	ResponseStatus  any    `json:"responseStatus"` // number or numeric string
	ResponseDetails string `json:"responseDetails"`
}

// Translate calls GET ?q=&langpair=from|to.
func (p *MyMemory) Translate(ctx context.Context, text string, from, to model.Lang) (string, error) {
	params := url.Values{}
	params.Set("q", text)
	params.Set("langpair", langCode(from)+"|"+langCode(to))

	var body myMemoryResponse
	if err := p.getJSON(ctx, params, &body); err != nil {
		return "", err
	}
	if status := fmt.Sprint(body.ResponseStatus); status != "200" {
		return "", fmt.Errorf("%s: response status %s: %s", p.name, status, body.ResponseDetails)
	}
	out := strings.TrimSpace(body.ResponseData.TranslatedText)
	if out == "" {
		return "", errors.New(p.name + ": empty translation")
	}
	return out, nil
}

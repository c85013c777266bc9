// Package dictionary looks up English word detail and enriches translations with it.
package dictionary

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/and161185/lexinote/internal/model"
)

// DefaultEndpoint is the Free Dictionary API base for English entries.
const DefaultEndpoint = "https://api.dictionaryapi.dev/api/v2/entries/en"

// Caps applied to every looked-up word.
const (
	maxDefsPerPOS = 2
	maxExamples   = 2
	maxSynonyms   = 3
)

// Client queries the Free Dictionary API.
type Client struct {
	endpoint string
	http     *http.Client
}

// NewClient constructs a Client. Empty endpoint selects DefaultEndpoint.
func NewClient(endpoint string, timeout time.Duration) *Client {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Client{
		endpoint: strings.TrimRight(endpoint, "/"),
		http:     &http.Client{Timeout: timeout},
	}
}

type entry struct {
	Word      string `json:"word"`
	Phonetic  string `json:"phonetic"`
	Phonetics []struct {
		Text  string `json:"text"`
		Audio string `json:"audio"`
	} `json:"phonetics"`
	Meanings []struct {
		PartOfSpeech string `json:"partOfSpeech"`
		Definitions  []struct {
			Definition string   `json:"definition"`
			Example    string   `json:"example"`
			Synonyms   []string `json:"synonyms"`
		} `json:"definitions"`
	} `json:"meanings"`
}

// Lookup fetches detail for one word. Not-found, non-2xx and malformed payloads
// all yield (nil, nil); only transport failures are returned as errors.
func (c *Client) Lookup(ctx context.Context, word string) (*model.WordDetail, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"/"+url.PathEscape(word), nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("dictionary lookup %q: %w", word, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, nil
	}
	var entries []entry
	if err := json.NewDecoder(resp.Body).Decode(&entries); err != nil || len(entries) == 0 {
		return nil, nil
	}
	d := extract(entries[0], word)
	return &d, nil
}

func extract(e entry, word string) model.WordDetail {
	d := model.WordDetail{
		Word:         e.Word,
		Phonetic:     e.Phonetic,
		PartOfSpeech: []string{},
		Definitions:  []string{},
		Examples:     []string{},
		Synonyms:     []string{},
	}
	if d.Word == "" {
		d.Word = word
	}
	if d.Phonetic == "" {
		for _, p := range e.Phonetics {
			if p.Text != "" {
				d.Phonetic = p.Text
				break
			}
		}
	}
	for _, p := range e.Phonetics {
		if p.Audio != "" {
			d.PhoneticAudio = p.Audio
			break
		}
	}

	type def struct{ pos, text string }
	var defs []def
	seen := map[string]bool{}
	for _, m := range e.Meanings {
		for _, df := range m.Definitions {
			text := df.Definition
			if m.PartOfSpeech != "" {
				text = "(" + m.PartOfSpeech + ") " + text
				if !seen[m.PartOfSpeech] {
					seen[m.PartOfSpeech] = true
					d.PartOfSpeech = append(d.PartOfSpeech, m.PartOfSpeech)
				}
			}
			defs = append(defs, def{pos: m.PartOfSpeech, text: text})
			if df.Example != "" {
				d.Examples = append(d.Examples, df.Example)
			}
			d.Synonyms = append(d.Synonyms, df.Synonyms...)
		}
	}

	// up to two definitions per tag, grouped in tag order; untagged ones are dropped
	for _, pos := range d.PartOfSpeech {
		n := 0
		for _, df := range defs {
			if df.pos == pos && n < maxDefsPerPOS {
				d.Definitions = append(d.Definitions, df.text)
				n++
			}
		}
	}
	if len(d.Examples) > maxExamples {
		d.Examples = d.Examples[:maxExamples]
	}
	if len(d.Synonyms) > maxSynonyms {
		d.Synonyms = d.Synonyms[:maxSynonyms]
	}
	return d
}

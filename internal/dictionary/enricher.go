package dictionary

import (
	"context"
	"regexp"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/and161185/lexinote/internal/model"
)

// Heuristic and batch limits.
const (
	maxPhraseTokens = 3
	maxPhraseChars  = 50
	maxCandidates   = 10
	maxLookups      = 5
)

var (
	wordRe    = regexp.MustCompile(`\b[a-z]+\b`)
	nonWordRe = regexp.MustCompile(`[^\w]`)
)

var stopWords = map[string]struct{}{}

func init() {
	for _, w := range strings.Fields(`the a an and or but in on at to for of with by is are was were
		be been have has had do does did will would should could this that these those
		i you he she it we they`) {
		stopWords[w] = struct{}{}
	}
}

// Looker fetches detail for a single word; (nil, nil) means no data.
type Looker interface {
	Lookup(ctx context.Context, word string) (*model.WordDetail, error)
}

// Enricher turns word-like source text into per-word dictionary detail.
type Enricher struct {
	looker Looker
	log    *zap.Logger
}

// NewEnricher constructs an Enricher over looker.
func NewEnricher(looker Looker, log *zap.Logger) *Enricher {
	if log == nil {
		log = zap.NewNop()
	}
	return &Enricher{looker: looker, log: log}
}

// WordLike reports whether text is short enough to be worth enriching.
func WordLike(text string) bool {
	text = strings.TrimSpace(text)
	return text != "" &&
		len(strings.Fields(text)) <= maxPhraseTokens &&
		utf8.RuneCountInString(text) <= maxPhraseChars
}

// Candidates lowercases text and returns its alphabetic runs minus stop words
// and tokens of two letters or fewer, at most ten.
func Candidates(text string) []string {
	out := []string{}
	for _, w := range wordRe.FindAllString(strings.ToLower(text), -1) {
		if len(w) <= 2 {
			continue
		}
		if _, stop := stopWords[w]; stop {
			continue
		}
		out = append(out, w)
		if len(out) == maxCandidates {
			break
		}
	}
	return out
}

// Enrich returns detail for up to five candidate words of text. Only English is
// supported; other languages and non-word-like text yield an empty result.
// Lookup failures are skipped and never returned.
func (e *Enricher) Enrich(ctx context.Context, text string, lang model.Lang) ([]model.WordDetail, error) {
	out := []model.WordDetail{}
	if lang != model.LangEN || !WordLike(text) {
		return out, nil
	}

	cands := Candidates(text)
	if len(cands) > maxLookups {
		cands = cands[:maxLookups]
	}
	for _, w := range cands {
		clean := nonWordRe.ReplaceAllString(strings.ToLower(w), "")
		if len(clean) < 2 {
			continue
		}
		d, err := e.looker.Lookup(ctx, clean)
		if err != nil {
			e.log.Debug("dictionary lookup failed", zap.String("word", clean), zap.Error(err))
			continue
		}
		if d == nil {
			continue
		}
		out = append(out, *d)
	}
	return out, nil
}

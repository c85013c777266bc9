package provider

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/and161185/lexinote/internal/errs"
	"github.com/and161185/lexinote/internal/limiter"
	"github.com/and161185/lexinote/internal/model"
)

// Enricher attaches per-word dictionary detail to a translation.
type Enricher interface {
	Enrich(ctx context.Context, text string, lang model.Lang) ([]model.WordDetail, error)
}

// Option configures a Registry.
type Option func(*Registry)

// WithEnricher sets the dictionary enrichment step.
func WithEnricher(e Enricher) Option {
	return func(r *Registry) { r.enricher = e }
}

// WithLimiter enables daily-quota enforcement for providers that declare a limit.
func WithLimiter(l limiter.Limiter) Option {
	return func(r *Registry) { r.limiter = l }
}

// WithLogger sets the registry logger.
func WithLogger(l *zap.Logger) Option {
	return func(r *Registry) { r.log = l }
}

// Registry is an ordered list of providers. Indexes are relative to ListAvailable.
type Registry struct {
	providers []Provider
	enricher  Enricher
	limiter   limiter.Limiter
	log       *zap.Logger
}

// NewRegistry constructs a registry over providers in registration order.
func NewRegistry(providers []Provider, opts ...Option) *Registry {
	r := &Registry{providers: append([]Provider(nil), providers...)}
	for _, o := range opts {
		o(r)
	}
	if r.log == nil {
		r.log = zap.NewNop()
	}
	return r
}

// ListAvailable returns the available providers, preserving registration order.
func (r *Registry) ListAvailable() []Provider {
	out := make([]Provider, 0, len(r.providers))
	for _, p := range r.providers {
		if p.Available() {
			out = append(out, p)
		}
	}
	return out
}

// Infos describes the available providers.
func (r *Registry) Infos() []Info {
	av := r.ListAvailable()
	out := make([]Info, 0, len(av))
	for _, p := range av {
		out = append(out, Info{Name: p.Name(), RequiresAuth: p.RequiresAuth(), DailyLimit: p.DailyLimit()})
	}
	return out
}

// Translate runs the provider at index (relative to ListAvailable) once, then enriches.
func (r *Registry) Translate(ctx context.Context, text string, from, to model.Lang, index int) (model.TranslateResult, error) {
	av := r.ListAvailable()
	if len(av) == 0 {
		return model.TranslateResult{}, errs.ErrNoProviders
	}
	if index < 0 || index >= len(av) {
		return model.TranslateResult{}, fmt.Errorf("%w: index %d of %d", errs.ErrInvalidProvider, index, len(av))
	}
	return r.run(ctx, av[index], text, from, to)
}

// TranslateWith resolves name against the available list at call time.
func (r *Registry) TranslateWith(ctx context.Context, text string, from, to model.Lang, name string) (model.TranslateResult, error) {
	av := r.ListAvailable()
	if len(av) == 0 {
		return model.TranslateResult{}, errs.ErrNoProviders
	}
	for _, p := range av {
		if p.Name() == name {
			return r.run(ctx, p, text, from, to)
		}
	}
	return model.TranslateResult{}, fmt.Errorf("%w: %q", errs.ErrInvalidProvider, name)
}

func (r *Registry) run(ctx context.Context, p Provider, text string, from, to model.Lang) (model.TranslateResult, error) {
	name := p.Name()
	limit := p.DailyLimit()
	if r.limiter != nil && limit > 0 {
		ok, err := r.limiter.Allow(ctx, name, limit)
		if err != nil {
			r.log.Warn("quota check failed", zap.String("provider", name), zap.Error(err))
		} else if !ok {
			return model.TranslateResult{}, fmt.Errorf("%w: %s: %w", errs.ErrTranslationFailed, name, errs.ErrQuotaExceeded)
		}
	}

	translated, err := p.Translate(ctx, text, from, to)
	if err != nil {
		r.log.Info("provider failed", zap.String("provider", name), zap.Error(err))
		return model.TranslateResult{}, fmt.Errorf("%w: %w", errs.ErrTranslationFailed, err)
	}

	if r.limiter != nil && limit > 0 {
		if err := r.limiter.Record(ctx, name); err != nil {
			r.log.Warn("quota record failed", zap.String("provider", name), zap.Error(err))
		}
	}

	detailed := &model.DetailedTranslation{BasicTranslation: translated, Service: name}
	if r.enricher != nil {
		words, err := r.enricher.Enrich(ctx, text, from)
		if err != nil {
			r.log.Debug("enrichment failed", zap.String("provider", name), zap.Error(err))
		} else {
			detailed.Words = words
		}
	}
	if detailed.Words == nil {
		detailed.Words = []model.WordDetail{}
	}

	return model.TranslateResult{TranslatedText: translated, Detailed: detailed, Service: name}, nil
}

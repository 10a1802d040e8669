// Package ai selects a text-generation backend per call and maps backend
// failures into the application error taxonomy.
package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"jobtracker-backend/internal/shared/apperr"
	"jobtracker-backend/internal/shared/metrics"
	"jobtracker-backend/internal/shared/telemetry"
)

// Provider names a generation backend.
type Provider string

const (
	ProviderOpenAI Provider = "OPENAI"
	ProviderGemini Provider = "GEMINI"
)

// Known lists every provider the API accepts.
var Known = []Provider{ProviderOpenAI, ProviderGemini}

// ErrMissingCredentials is returned by a generator that has no API key.
var ErrMissingCredentials = errors.New("missing credentials")

// Generator turns a prompt into raw model text.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// GeneratorFunc adapts a function to Generator.
type GeneratorFunc func(ctx context.Context, prompt string) (string, error)

func (f GeneratorFunc) Generate(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}

// ParseProvider normalizes a client-supplied provider name.
func ParseProvider(raw string) (Provider, error) {
	p := Provider(strings.ToUpper(strings.TrimSpace(raw)))
	if !p.Valid() {
		return "", apperr.New(apperr.ErrUnsupportedProvider, fmt.Sprintf("unsupported AI provider %q", raw))
	}
	return p, nil
}

// Valid reports whether p is a known provider.
func (p Provider) Valid() bool {
	for _, k := range Known {
		if p == k {
			return true
		}
	}
	return false
}

// Registry holds one Generator per provider.
type Registry struct {
	generators map[Provider]Generator
}

// NewRegistry builds a registry from constructor-supplied generators.
func NewRegistry(generators map[Provider]Generator) *Registry {
	r := &Registry{generators: make(map[Provider]Generator, len(generators))}
	for p, g := range generators {
		if g != nil {
			r.generators[p] = g
		}
	}
	return r
}

// Generate runs prompt through the selected provider. Failures are not retried.
func (r *Registry) Generate(ctx context.Context, provider Provider, prompt string) (string, error) {
	if !provider.Valid() {
		return "", apperr.New(apperr.ErrUnsupportedProvider, fmt.Sprintf("unsupported AI provider %q", provider))
	}
	g, ok := r.generators[provider]
	if !ok {
		return "", apperr.New(apperr.ErrProviderUnavailable, fmt.Sprintf("%s provider is not configured", provider))
	}

	start := time.Now()
	text, err := g.Generate(ctx, prompt)
	metrics.ObserveGenerationDurationMs(metrics.SinceMillis(start))
	if err != nil {
		metrics.IncEmailGenerationFailed()
		if errors.Is(err, ErrMissingCredentials) {
			return "", apperr.Wrap(apperr.ErrProviderUnavailable, fmt.Sprintf("%s provider is missing credentials", provider), err)
		}
		telemetry.Error("ai.generate.failed", map[string]any{
			"ai_provider": string(provider),
			"err":         err,
		})
		return "", apperr.Wrap(apperr.ErrGenerationFailed, fmt.Sprintf("%s generation failed", provider), err)
	}
	if strings.TrimSpace(text) == "" {
		metrics.IncEmailGenerationFailed()
		return "", apperr.New(apperr.ErrGenerationFailed, fmt.Sprintf("%s returned an empty response", provider))
	}
	return text, nil
}

// Available lists the configured providers.
func (r *Registry) Available() []Provider {
	out := make([]Provider, 0, len(r.generators))
	for _, p := range Known {
		if _, ok := r.generators[p]; ok {
			out = append(out, p)
		}
	}
	return out
}

package session

import (
	"context"
	"fmt"
	"log/slog"

	"storevisit/internal/classifier"
	"storevisit/internal/config"
	"storevisit/internal/dedup"
	"storevisit/internal/pipeline"
	"storevisit/internal/services"
	"storevisit/internal/services/gemini"
	"storevisit/internal/services/llm"
	"storevisit/internal/taxonomy"
)

// LoadTaxonomy returns the configured category file, or the built-in
// categories when none is set.
func LoadTaxonomy(cfg *config.Config) (*taxonomy.Taxonomy, error) {
	tax, err := taxonomy.Load(cfg.Taxonomy.Path)
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "taxonomy", "load", cfg.Taxonomy.Path, err)
	}
	return tax, nil
}

// NewPipeline builds the classification pipeline from the classifier
// settings in cfg.
func NewPipeline(cfg *config.Config, tax *taxonomy.Taxonomy, logger *slog.Logger) *pipeline.Pipeline {
	c := cfg.Classifier
	policy := classifier.Linear(c.BaseConfidence, c.KeywordStep)
	if c.ClampConfidence {
		policy = classifier.Clamped(policy, 1.0)
	}
	return pipeline.New(tax,
		pipeline.WithClassifier(classifier.New(tax,
			classifier.WithPolicy(policy),
			classifier.WithUnicodeNormalization(c.NormalizeUnicode),
		)),
		pipeline.WithDeduplicator(dedup.New(dedup.Config{PrefixLength: c.DedupPrefixLength})),
		pipeline.WithFallbackTranscript(c.FallbackTranscript),
		pipeline.WithLogger(logger),
	)
}

// NewResponder returns the model client for the configured provider.
func NewResponder(ctx context.Context, cfg *config.Config, tax *taxonomy.Taxonomy) (services.Responder, error) {
	m := cfg.Model
	prompt := services.ObservationPrompt(tax)
	switch m.Provider {
	case config.ProviderNone, "":
		return services.Passthrough{}, nil
	case config.ProviderOpenRouter:
		return llm.NewClient(llm.Config{
			APIKey:         m.APIKey,
			BaseURL:        m.BaseURL,
			Model:          m.Model,
			Referer:        m.Referer,
			Title:          m.Title,
			TimeoutSeconds: m.TimeoutSeconds,
		},
			llm.WithSystemPrompt(prompt),
			llm.WithRetryMaxAttempts(m.RetryAttempts),
			llm.WithRateLimiter(llm.PerMinute(m.RequestsPerMinute)),
		), nil
	case config.ProviderGemini:
		client, err := gemini.NewClient(ctx, gemini.Config{APIKey: m.APIKey, Model: m.Model},
			gemini.WithSystemPrompt(prompt),
			gemini.WithRateLimiter(llm.PerMinute(m.RequestsPerMinute)),
		)
		if err != nil {
			return nil, err
		}
		return client, nil
	default:
		return nil, services.Wrap(services.ErrConfiguration, "model", "new responder", fmt.Sprintf("unknown provider %q", m.Provider), nil)
	}
}

// Options returns the session options implied by cfg.
func Options(cfg *config.Config, responder services.Responder, logger *slog.Logger) []Option {
	return []Option{
		WithCapacity(cfg.Store.MaxRecords, cfg.Store.MaxTranscriptEntries),
		WithResponder(responder),
		WithLogger(logger),
	}
}

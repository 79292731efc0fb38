package cmd

import (
	"context"
	"fmt"

	"github.com/spigell/powerus/internal/ai"
	"github.com/spigell/powerus/internal/ai/claude"
	"github.com/spigell/powerus/internal/ai/gemini"
	"github.com/spigell/powerus/internal/booking"
	"github.com/spigell/powerus/internal/chat"
	"github.com/spigell/powerus/internal/matching"
	"github.com/spigell/powerus/internal/pricing"
	"github.com/spigell/powerus/internal/problem"
	"github.com/spigell/powerus/internal/roster"
	"github.com/spigell/powerus/internal/secrets"
	"go.uber.org/zap"
)

// services is everything the serve and chat commands need.
type services struct {
	roster   *roster.Roster
	matcher  *matching.Matcher
	engine   *pricing.Engine
	chat     *chat.Service
	bookings *booking.Store
}

func loadRoster(cfg RosterConfig, logger *zap.Logger) (*roster.Roster, error) {
	if cfg.File == "" {
		logger.Debug("no roster file configured, using the built-in roster")
		return roster.Default(), nil
	}

	r, err := roster.LoadFile(cfg.File)
	if err != nil {
		return nil, err
	}
	logger.Info("roster loaded", zap.String("file", cfg.File), zap.Int("workers", r.Len()))
	return r, nil
}

func newServices(ctx context.Context, config *Config, logger *zap.Logger) (*services, error) {
	workers, err := loadRoster(config.Roster, logger)
	if err != nil {
		return nil, fmt.Errorf("loading roster: %w", err)
	}

	generator, err := newGenerator(ctx, config.LLM, logger)
	if err != nil {
		return nil, fmt.Errorf("building llm gateway: %w", err)
	}

	matcher, err := matching.NewMatcher(config.Matching, logger.With(zap.String("component", "matcher")))
	if err != nil {
		return nil, fmt.Errorf("building matcher: %w", err)
	}

	engine := pricing.NewEngine(logger.With(zap.String("component", "pricing")))

	analyzer := problem.NewAnalyzer(generator, config.LLM.Timeout, config.LLM.MaxLogLength, logger.With(zap.String("component", "analyzer")))

	var estimator *pricing.Estimator
	if generator != nil && config.Pricing.LLMEstimates {
		estimator = pricing.NewEstimator(generator, config.LLM.MaxLogLength, logger.With(zap.String("component", "estimator")))
	}

	quoter := pricing.NewQuoter(engine, estimator, config.Pricing.EstimateTimeout, logger.With(zap.String("component", "quoter")))

	svc, err := chat.NewService(chat.Deps{
		Analyzer: analyzer,
		Matcher:  matcher,
		Quoter:   quoter,
		Roster:   workers,
		Logger:   logger.With(zap.String("component", "chat")),
	}, config.Chat)
	if err != nil {
		return nil, fmt.Errorf("building chat service: %w", err)
	}

	logger.Debug("services ready",
		zap.Int("workers", workers.Len()),
		zap.Bool("llm", generator != nil),
		zap.Bool("llm_estimates", estimator != nil),
		zap.Any("filters", matcher.Filters()),
	)

	return &services{
		roster:   workers,
		matcher:  matcher,
		engine:   engine,
		chat:     svc,
		bookings: booking.NewStore(svc.Conversations()),
	}, nil
}

// newGenerator returns the configured LLM gateway, or nil when the provider is none.
func newGenerator(ctx context.Context, cfg *LLMConfig, logger *zap.Logger) (ai.Generator, error) {
	provider, err := ai.ParseProvider(cfg.Provider)
	if err != nil {
		return nil, err
	}

	var gen ai.Generator
	switch provider {
	case ai.ProviderNone:
		logger.Info("llm provider is disabled, every message gets the default analysis")
		return nil, nil

	case ai.ProviderClaude:
		apiKey, err := secrets.Load(secrets.Source{
			Name:  "claude api key",
			File:  cfg.Claude.APIKeyFile,
			Value: cfg.Claude.APIKey,
			Env:   "ANTHROPIC_API_KEY",
		})
		if err != nil {
			return nil, fmt.Errorf("%w (set llm.claude.api-key-file or ANTHROPIC_API_KEY)", err)
		}

		gen, err = claude.NewClient(claude.Config{
			APIKey:            apiKey,
			Model:             cfg.Claude.Model,
			BaseURL:           cfg.Claude.BaseURL,
			MaxTokens:         cfg.Claude.MaxTokens,
			RequestsPerMinute: cfg.Claude.RequestsPerMinute,
		})
		if err != nil {
			return nil, err
		}

	case ai.ProviderGemini:
		apiKey, err := secrets.Load(secrets.Source{
			Name:  "gemini api key",
			File:  cfg.Gemini.APIKeyFile,
			Value: cfg.Gemini.APIKey,
			Env:   "GEMINI_API_KEY",
		})
		if err != nil {
			return nil, fmt.Errorf("%w (set llm.gemini.api-key-file or GEMINI_API_KEY)", err)
		}

		gen, err = gemini.NewGenerator(ctx, gemini.Config{
			APIKey:     apiKey,
			Model:      cfg.Gemini.Model,
			MaxRetries: cfg.Gemini.MaxRetries,
		}, logger.With(zap.String("component", "gemini")))
		if err != nil {
			return nil, err
		}
	}

	logger.Info("llm gateway ready", zap.String("llm_provider", provider), zap.String("llm_model", gen.Model()))

	return ai.Instrument(gen, provider, cfg.MaxLogLength, logger.With(zap.String("component", "llm"))), nil
}

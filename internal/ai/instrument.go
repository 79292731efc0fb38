package ai

import (
	"context"
	"time"
	"unicode/utf8"

	"github.com/spigell/powerus/internal/logger"
	"github.com/spigell/powerus/internal/metrics"
	"github.com/spigell/powerus/internal/utils"
	"go.uber.org/zap"
)

const defaultMaxLogLength = 200

type instrumented struct {
	next      Generator
	provider  string
	logger    *zap.Logger
	maxLogLen int
}

// Instrument wraps gen with request metrics and debug logging of truncated prompts and replies.
func Instrument(gen Generator, provider string, maxLogLength int, log *zap.Logger) Generator {
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}

	return &instrumented{
		next:      gen,
		provider:  provider,
		logger:    logger.WithCommonFields(log, provider, gen.Model()),
		maxLogLen: maxLogLength,
	}
}

func (i *instrumented) Model() string {
	return i.next.Model()
}

func (i *instrumented) GenerateContent(ctx context.Context, prompt string) (string, error) {
	i.logger.Debug("generate content request",
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", utils.TruncateForLog(prompt, i.maxLogLen)),
	)

	start := time.Now()
	raw, err := i.next.GenerateContent(ctx, prompt)
	elapsed := time.Since(start)

	metrics.RecordLLMCall(i.provider, elapsed, err)

	if err != nil {
		i.logger.Debug("generate content failed",
			zap.Duration("elapsed", elapsed),
			zap.String("error_type", metrics.ClassifyError(err)),
			zap.Error(err),
		)
		return "", err
	}

	i.logger.Debug("generate content response",
		zap.Duration("elapsed", elapsed),
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", utils.TruncateForLog(raw, i.maxLogLen)),
	)

	return raw, nil
}

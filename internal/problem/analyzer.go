package problem

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	_ "embed"

	"github.com/spigell/powerus/internal/extract"
	"github.com/spigell/powerus/internal/metrics"
	"github.com/spigell/powerus/internal/utils"
	"go.uber.org/zap"
)

type contentGenerator interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
}

//go:embed prompt.md
var promptTemplate string

const (
	DefaultAnalysisTimeout = 20 * time.Second

	defaultMaxLogLength = 200
	maxHistoryMessages  = 6
)

// Analyzer asks the LLM gateway to analyze a message and normalizes the reply.
type Analyzer struct {
	generator contentGenerator
	timeout   time.Duration
	logger    *zap.Logger
	maxLogLen int
}

// NewAnalyzer builds an Analyzer. A nil generator makes every analysis return the default Problem.
func NewAnalyzer(generator contentGenerator, timeout time.Duration, maxLogLength int, logger *zap.Logger) *Analyzer {
	if timeout <= 0 {
		timeout = DefaultAnalysisTimeout
	}
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Analyzer{
		generator: generator,
		timeout:   timeout,
		logger:    logger,
		maxLogLen: maxLogLength,
	}
}

// Analyze never fails. Gateway errors, timeouts and unusable replies degrade to the default Problem.
func (a *Analyzer) Analyze(ctx context.Context, message string, history []string) Problem {
	if a.generator == nil {
		a.logger.Debug("no llm provider configured, using default analysis")
		metrics.RecordAnalysis(metrics.AnalysisDisabled)
		return Default()
	}

	prompt := buildPrompt(message, history)

	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	raw, err := a.generator.GenerateContent(ctx, prompt)
	if err != nil {
		a.logger.Warn("problem analysis failed, using default analysis",
			zap.Duration("timeout", a.timeout),
			zap.Error(err),
		)
		metrics.RecordAnalysis(metrics.AnalysisGatewayError)
		return Default()
	}

	p, err := AnalyzeText(raw)
	if err != nil {
		a.logger.Warn("analysis reply carries no usable json, using default analysis",
			zap.Int("response_length", utf8.RuneCountInString(raw)),
			zap.String("response_preview", utils.TruncateForLog(raw, a.maxLogLen)),
			zap.Error(err),
		)
		metrics.RecordAnalysis(metrics.AnalysisExtractionError)
		return p
	}

	a.logger.Debug("problem analyzed",
		zap.Int("trades", len(p.Trades)),
		zap.String("urgency", string(p.Urgency)),
		zap.Float64("confidence", p.Confidence),
		zap.Bool("needs_more_info", p.NeedsMoreInfo),
	)
	metrics.RecordAnalysis(metrics.AnalysisOK)

	return p
}

// AnalyzeText extracts and normalizes an LLM reply. On failure it returns the
// default Problem together with the extraction error.
func AnalyzeText(raw string) (Problem, error) {
	obj, err := extract.Object(raw)
	if err != nil {
		return Default(), err
	}
	return Normalize(obj), nil
}

func buildPrompt(message string, history []string) string {
	template := promptTemplate
	if strings.TrimSpace(template) == "" {
		template = "Trades: {{TRADES}}\n\nHistory:\n{{HISTORY}}\n\nMessage:\n{{MESSAGE}}\n\nJSON Response:"
	}

	if len(history) > maxHistoryMessages {
		history = history[len(history)-maxHistoryMessages:]
	}

	lines := make([]string, 0, len(history))
	for _, h := range history {
		if h = strings.TrimSpace(h); h != "" {
			lines = append(lines, "- "+h)
		}
	}

	names := make([]string, 0, len(Trades))
	for _, t := range Trades {
		names = append(names, string(t))
	}

	prompt := strings.ReplaceAll(template, "{{TRADES}}", strings.Join(names, ", "))
	prompt = strings.ReplaceAll(prompt, "{{HISTORY}}", strings.Join(lines, "\n"))
	prompt = strings.ReplaceAll(prompt, "{{MESSAGE}}", strings.TrimSpace(message))
	return prompt
}

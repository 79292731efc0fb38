package pricing

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	_ "embed"

	"github.com/mitchellh/mapstructure"
	"github.com/spigell/powerus/internal/extract"
	"github.com/spigell/powerus/internal/problem"
	"github.com/spigell/powerus/internal/roster"
	"github.com/spigell/powerus/internal/utils"
	"go.uber.org/zap"
)

type contentGenerator interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
}

//go:embed prompt.md
var promptTemplate string

const defaultMaxLogLength = 200

// Estimator asks the LLM for a job-specific price.
type Estimator struct {
	generator contentGenerator
	logger    *zap.Logger
	maxLogLen int
}

// NewEstimator builds an Estimator around generator.
func NewEstimator(generator contentGenerator, maxLogLength int, logger *zap.Logger) *Estimator {
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Estimator{
		generator: generator,
		logger:    logger,
		maxLogLen: maxLogLength,
	}
}

// Estimate returns the LLM's price proposal. The reference total is the fallback quote shown to the model.
func (e *Estimator) Estimate(ctx context.Context, worker roster.Worker, p problem.Problem, hours, reference float64) (*Estimate, error) {
	if e.generator == nil {
		return nil, fmt.Errorf("no llm generator configured")
	}

	workerJSON, err := json.MarshalIndent(worker, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal worker payload: %w", err)
	}

	problemJSON, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal problem payload: %w", err)
	}

	prompt := buildPrompt(string(workerJSON), string(problemJSON), hours, reference)

	raw, err := e.generator.GenerateContent(ctx, prompt)
	if err != nil {
		return nil, err
	}

	e.logger.Debug("price estimate response",
		zap.String("worker_id", worker.ID),
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", utils.TruncateForLog(raw, e.maxLogLen)),
	)

	return parseEstimate(raw)
}

func buildPrompt(workerJSON, problemJSON string, hours, reference float64) string {
	template := promptTemplate
	if strings.TrimSpace(template) == "" {
		template = "Worker:\n{{WORKER_JSON}}\n\nProblem:\n{{PROBLEM_JSON}}\n\nHours: {{HOURS}}\nReference: {{FALLBACK_TOTAL}}\n\nJSON Response:"
	}

	prompt := strings.ReplaceAll(template, "{{WORKER_JSON}}", workerJSON)
	prompt = strings.ReplaceAll(prompt, "{{PROBLEM_JSON}}", problemJSON)
	prompt = strings.ReplaceAll(prompt, "{{HOURS}}", strconv.FormatFloat(hours, 'f', -1, 64))
	prompt = strings.ReplaceAll(prompt, "{{FALLBACK_TOTAL}}", strconv.FormatFloat(reference, 'f', 2, 64))
	return prompt
}

func parseEstimate(raw string) (*Estimate, error) {
	data, err := extract.Object(raw)
	if err != nil {
		return nil, fmt.Errorf("parse price estimate: %w", err)
	}

	if _, ok := data["total"]; !ok {
		return nil, fmt.Errorf("parse price estimate: total is missing")
	}

	if s, ok := data["total"].(string); ok {
		data["total"] = strings.TrimPrefix(strings.ReplaceAll(strings.TrimSpace(s), ",", ""), "$")
	}

	var estimate Estimate
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           &estimate,
	})
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(data); err != nil {
		return nil, fmt.Errorf("decode price estimate: %w", err)
	}

	estimate.Reasoning = strings.TrimSpace(estimate.Reasoning)
	return &estimate, nil
}

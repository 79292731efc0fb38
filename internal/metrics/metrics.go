// Package metrics holds the Prometheus instruments shared by powerus components.
// Instruments are registered with the default registry through promauto and
// exposed by the HTTP server on /metrics.
package metrics

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "powerus"

// Analysis outcomes.
const (
	AnalysisOK              = "ok"
	AnalysisDisabled        = "disabled"
	AnalysisGatewayError    = "gateway_error"
	AnalysisExtractionError = "extraction_error"
)

// Estimate outcomes.
const (
	EstimateAccepted = "accepted"
	EstimateRejected = "rejected"
	EstimateFailed   = "failed"
)

var (
	// Labels:
	//   - provider: "claude", "gemini"
	//   - status: "success" or "error"
	llmCallDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "llm",
			Name:      "call_duration_seconds",
			Help:      "Duration of LLM gateway calls in seconds.",
			Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 20, 30, 60},
		},
		[]string{"provider", "status"},
	)

	llmCallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "llm",
			Name:      "calls_total",
			Help:      "Total number of LLM gateway calls.",
		},
		[]string{"provider", "status"},
	)

	// Labels:
	//   - error_type: "timeout", "auth", "rate_limit", "server", "unknown"
	llmErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "llm",
			Name:      "errors_total",
			Help:      "Total LLM gateway errors by type.",
		},
		[]string{"provider", "error_type"},
	)

	analysesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "problem",
			Name:      "analyses_total",
			Help:      "Problem analyses by outcome.",
		},
		[]string{"outcome"},
	)

	matchRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "matching",
			Name:      "runs_total",
			Help:      "Matching runs by result.",
		},
		[]string{"result"},
	)

	matchCandidates = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "matching",
			Name:      "eligible_workers",
			Help:      "Number of workers left after eligibility filtering.",
			Buckets:   []float64{0, 1, 2, 3, 5, 10, 20},
		},
	)

	quotesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pricing",
			Name:      "quotes_total",
			Help:      "Computed quotes by source.",
		},
		[]string{"source"},
	)

	estimatesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pricing",
			Name:      "estimates_total",
			Help:      "LLM price estimates by outcome.",
		},
		[]string{"outcome"},
	)

	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by route and status code.",
		},
		[]string{"method", "route", "code"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)
)

// ClassifyError maps an error to a low-cardinality label value.
// It returns an empty string for a nil error.
func ClassifyError(err error) string {
	if err == nil {
		return ""
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return "timeout"
	}

	msg := strings.ToLower(err.Error())

	switch {
	case strings.Contains(msg, "timeout"):
		return "timeout"
	case strings.Contains(msg, "status 401") ||
		strings.Contains(msg, "status 403") ||
		strings.Contains(msg, "unauthorized") ||
		strings.Contains(msg, "api key"):
		return "auth"
	case strings.Contains(msg, "status 429") ||
		strings.Contains(msg, "rate limit") ||
		strings.Contains(msg, "resource_exhausted"):
		return "rate_limit"
	case strings.Contains(msg, "status 5") ||
		strings.Contains(msg, "overloaded") ||
		strings.Contains(msg, "server error"):
		return "server"
	default:
		return "unknown"
	}
}

// RecordLLMCall records duration and outcome of one gateway call.
func RecordLLMCall(provider string, duration time.Duration, err error) {
	status := "success"
	if err != nil {
		status = "error"
		llmErrorsTotal.WithLabelValues(provider, ClassifyError(err)).Inc()
	}

	llmCallDuration.WithLabelValues(provider, status).Observe(duration.Seconds())
	llmCallsTotal.WithLabelValues(provider, status).Inc()
}

// RecordAnalysis counts a problem analysis by outcome.
func RecordAnalysis(outcome string) {
	analysesTotal.WithLabelValues(outcome).Inc()
}

// RecordMatching records how many workers were eligible in one matching run.
func RecordMatching(eligible int) {
	matchCandidates.Observe(float64(eligible))
	result := "matched"
	if eligible == 0 {
		result = "empty"
	}
	matchRunsTotal.WithLabelValues(result).Inc()
}

// RecordQuote counts a computed quote by its price source.
func RecordQuote(source string) {
	quotesTotal.WithLabelValues(source).Inc()
}

// RecordEstimate counts an LLM price estimate by outcome.
func RecordEstimate(outcome string) {
	estimatesTotal.WithLabelValues(outcome).Inc()
}

// RecordHTTPRequest records one served HTTP request.
func RecordHTTPRequest(method, route string, code int, duration time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	httpRequestsTotal.WithLabelValues(method, route, strconv.Itoa(code)).Inc()
	httpRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

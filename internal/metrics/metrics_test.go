package metrics

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestClassifyError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{name: "nil", err: nil, expected: ""},
		{name: "deadline", err: fmt.Errorf("claude request: %w", context.DeadlineExceeded), expected: "timeout"},
		{name: "canceled", err: context.Canceled, expected: "timeout"},
		{name: "auth", err: errors.New("claude api: status 401: invalid x-api-key"), expected: "auth"},
		{name: "rate limit", err: errors.New("claude api: status 429: rate limited"), expected: "rate_limit"},
		{name: "gemini quota", err: errors.New("Error 429, Status: RESOURCE_EXHAUSTED"), expected: "rate_limit"},
		{name: "server", err: errors.New("claude api: status 529: overloaded"), expected: "server"},
		{name: "other", err: errors.New("boom"), expected: "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClassifyError(tt.err); got != tt.expected {
				t.Fatalf("ClassifyError() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestRecordLLMCall(t *testing.T) {
	success := llmCallsTotal.WithLabelValues("test-provider", "success")
	failure := llmCallsTotal.WithLabelValues("test-provider", "error")
	authErrors := llmErrorsTotal.WithLabelValues("test-provider", "auth")

	beforeSuccess := testutil.ToFloat64(success)
	beforeFailure := testutil.ToFloat64(failure)
	beforeAuth := testutil.ToFloat64(authErrors)

	RecordLLMCall("test-provider", 50*time.Millisecond, nil)
	RecordLLMCall("test-provider", 10*time.Millisecond, errors.New("status 401"))

	if got := testutil.ToFloat64(success) - beforeSuccess; got != 1 {
		t.Fatalf("success calls delta = %v, want 1", got)
	}
	if got := testutil.ToFloat64(failure) - beforeFailure; got != 1 {
		t.Fatalf("error calls delta = %v, want 1", got)
	}
	if got := testutil.ToFloat64(authErrors) - beforeAuth; got != 1 {
		t.Fatalf("auth errors delta = %v, want 1", got)
	}
}

func TestRecordMatching(t *testing.T) {
	empty := matchRunsTotal.WithLabelValues("empty")
	matched := matchRunsTotal.WithLabelValues("matched")
	beforeEmpty := testutil.ToFloat64(empty)
	beforeMatched := testutil.ToFloat64(matched)

	RecordMatching(0)
	RecordMatching(3)

	if got := testutil.ToFloat64(empty) - beforeEmpty; got != 1 {
		t.Fatalf("empty runs delta = %v, want 1", got)
	}
	if got := testutil.ToFloat64(matched) - beforeMatched; got != 1 {
		t.Fatalf("matched runs delta = %v, want 1", got)
	}
}

func TestRecordHTTPRequestUnmatchedRoute(t *testing.T) {
	counter := httpRequestsTotal.WithLabelValues("GET", "unmatched", "404")
	before := testutil.ToFloat64(counter)

	RecordHTTPRequest("GET", "", 404, time.Millisecond)

	if got := testutil.ToFloat64(counter) - before; got != 1 {
		t.Fatalf("unmatched requests delta = %v, want 1", got)
	}
}

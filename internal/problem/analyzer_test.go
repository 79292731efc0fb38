package problem

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type stubGenerator struct {
	response   string
	err        error
	lastPrompt string
	deadline   bool
}

func (s *stubGenerator) GenerateContent(ctx context.Context, prompt string) (string, error) {
	s.lastPrompt = prompt
	_, s.deadline = ctx.Deadline()
	if s.err != nil {
		return "", s.err
	}
	return s.response, nil
}

func TestAnalyzerAnalyze(t *testing.T) {
	stub := &stubGenerator{response: "Here is my analysis:\n```json\n" +
		`{"trades": [{"trade": "Plumber", "confidence": 0.9, "specialties": ["leak repair"]}], "urgency": "soon", "confidence": 0.85}` +
		"\n```\nLet me know!"}
	analyzer := NewAnalyzer(stub, time.Second, 0, zap.NewNop())

	p := analyzer.Analyze(context.Background(), "My kitchen sink is leaking", []string{"hello", " "})

	if len(p.Trades) != 1 || p.Trades[0].Trade != TradePlumber {
		t.Fatalf("expected plumber, got %#v", p.Trades)
	}
	if p.Urgency != UrgencySoon || p.Confidence != 0.85 {
		t.Fatalf("unexpected urgency or confidence: %q %v", p.Urgency, p.Confidence)
	}
	if !stub.deadline {
		t.Fatalf("expected the gateway call to carry a deadline")
	}
	if !strings.Contains(stub.lastPrompt, "My kitchen sink is leaking") {
		t.Fatalf("expected message in prompt: %s", stub.lastPrompt)
	}
	if !strings.Contains(stub.lastPrompt, "- hello") {
		t.Fatalf("expected history in prompt: %s", stub.lastPrompt)
	}
	if !strings.Contains(stub.lastPrompt, "Appliance Repair") {
		t.Fatalf("expected trade list in prompt")
	}
	if strings.Contains(stub.lastPrompt, "{{") {
		t.Fatalf("expected every placeholder to be replaced: %s", stub.lastPrompt)
	}
}

func TestAnalyzerDegradesToDefault(t *testing.T) {
	cases := []struct {
		name    string
		stub    *stubGenerator
		message string
	}{
		{name: "gateway error", stub: &stubGenerator{err: errors.New("status 529: overloaded")}, message: "problem analysis failed, using default analysis"},
		{name: "unterminated json", stub: &stubGenerator{response: "Sure! {unterminated"}, message: "analysis reply carries no usable json, using default analysis"},
		{name: "invalid json", stub: &stubGenerator{response: "{trades: plumber}"}, message: "analysis reply carries no usable json, using default analysis"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			core, logs := observer.New(zapcore.WarnLevel)
			analyzer := NewAnalyzer(tc.stub, time.Second, 0, zap.New(core))

			p := analyzer.Analyze(context.Background(), "help", nil)

			if p.Trades == nil || len(p.Trades) != 0 {
				t.Fatalf("expected empty trades, got %#v", p.Trades)
			}
			if p.Urgency != UrgencyFlexible || p.Confidence != DefaultConfidence {
				t.Fatalf("expected default problem, got %#v", p)
			}
			if logs.FilterMessage(tc.message).Len() != 1 {
				t.Fatalf("expected warning %q, got %v", tc.message, logs.All())
			}
		})
	}
}

func TestAnalyzerWithoutGenerator(t *testing.T) {
	analyzer := NewAnalyzer(nil, 0, 0, nil)

	p := analyzer.Analyze(context.Background(), "my roof leaks", nil)
	if p.Classified() {
		t.Fatalf("expected unclassified default problem, got %#v", p.Trades)
	}
}

func TestAnalyzeText(t *testing.T) {
	p, err := AnalyzeText(`{"trades": [{"trade": "Roofer"}], "needsMoreInfo": true}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(p.Trades) != 1 || len(p.FollowUpQuestions) != 1 {
		t.Fatalf("unexpected problem: %#v", p)
	}

	p, err = AnalyzeText("no json here")
	if err == nil {
		t.Fatalf("expected extraction error")
	}
	if p.Trades == nil || p.Urgency != UrgencyFlexible {
		t.Fatalf("expected default problem alongside the error, got %#v", p)
	}
}

func TestBuildPromptKeepsRecentHistory(t *testing.T) {
	history := []string{"one", "two", "three", "four", "five", "six", "seven", "eight"}

	prompt := buildPrompt("now", history)

	if strings.Contains(prompt, "- one") || strings.Contains(prompt, "- two") {
		t.Fatalf("expected oldest messages to be dropped")
	}
	if !strings.Contains(prompt, "- three") || !strings.Contains(prompt, "- eight") {
		t.Fatalf("expected recent messages to be kept")
	}
}

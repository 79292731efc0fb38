package problem

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestNormalizeDefaults(t *testing.T) {
	p := Normalize(nil)

	if p.Trades == nil || len(p.Trades) != 0 {
		t.Fatalf("expected empty non-nil trades, got %#v", p.Trades)
	}
	if p.Urgency != UrgencyFlexible {
		t.Fatalf("expected flexible urgency, got %q", p.Urgency)
	}
	if p.Confidence != DefaultConfidence {
		t.Fatalf("expected default confidence, got %v", p.Confidence)
	}
	if p.Details.Complexity != ComplexityModerate {
		t.Fatalf("expected moderate complexity, got %q", p.Details.Complexity)
	}
	if p.NeedsMoreInfo {
		t.Fatalf("expected needsMoreInfo to be false")
	}

	encoded, err := json.Marshal(p)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if strings.Contains(string(encoded), "null") {
		t.Fatalf("expected no null sequences in %s", encoded)
	}
}

func TestNormalizeFullAnalysis(t *testing.T) {
	raw := decode(t, `{
		"trades": [
			{"trade": "Electrician", "confidence": 0.95, "specialties": ["outlet repair", "wiring"], "reasoning": "sparks"},
			{"trade": "plumbing", "confidence": "0.4"}
		],
		"urgency": "Emergency",
		"urgencyReasoning": "sparking outlet",
		"confidence": 0.9,
		"problemDetails": {
			"category": "electrical",
			"complexity": "complex",
			"location": "kitchen",
			"symptoms": ["sparks", "burning smell"],
			"possibleCauses": ["loose wire"],
			"materialEstimate": {"low": 10, "high": 40},
			"timeEstimate": "2-3 hours"
		},
		"location": {"extracted": "Brooklyn", "needed": "false"},
		"missingInfo": [],
		"needsMoreInfo": false,
		"followUpQuestions": [],
		"safetyIssues": ["turn off the breaker"],
		"summary": "Sparking kitchen outlet"
	}`)

	p := Normalize(raw)

	if len(p.Trades) != 2 {
		t.Fatalf("expected 2 trades, got %d", len(p.Trades))
	}
	if p.Trades[0].Trade != TradeElectrician || p.Trades[0].Confidence != 0.95 {
		t.Fatalf("unexpected first trade: %#v", p.Trades[0])
	}
	if len(p.Trades[0].Specialties) != 2 || p.Trades[0].Reasoning != "sparks" {
		t.Fatalf("unexpected first trade details: %#v", p.Trades[0])
	}
	if p.Trades[1].Trade != TradePlumber || p.Trades[1].Confidence != 0.4 {
		t.Fatalf("expected alias and string confidence to be accepted, got %#v", p.Trades[1])
	}
	if p.Trades[1].Specialties == nil {
		t.Fatalf("expected non-nil specialties")
	}
	if p.Urgency != UrgencyEmergency {
		t.Fatalf("expected emergency urgency, got %q", p.Urgency)
	}
	if p.Details.Complexity != ComplexityComplex {
		t.Fatalf("expected complex, got %q", p.Details.Complexity)
	}
	if p.Details.MaterialEstimate != `{"high":40,"low":10}` {
		t.Fatalf("expected structured estimate to be rendered as json, got %q", p.Details.MaterialEstimate)
	}
	if p.Location.Extracted != "Brooklyn" || p.Location.Needed {
		t.Fatalf("unexpected location: %#v", p.Location)
	}
	if len(p.SafetyIssues) != 1 || p.Summary != "Sparking kitchen outlet" {
		t.Fatalf("unexpected safety issues or summary: %#v %q", p.SafetyIssues, p.Summary)
	}
}

func TestNormalizeClampsAndCoerces(t *testing.T) {
	cases := []struct {
		name       string
		input      string
		confidence float64
		urgency    Urgency
		complexity Complexity
	}{
		{name: "above range", input: `{"confidence": 7}`, confidence: 1, urgency: UrgencyFlexible, complexity: ComplexityModerate},
		{name: "below range", input: `{"confidence": -0.2}`, confidence: 0, urgency: UrgencyFlexible, complexity: ComplexityModerate},
		{name: "percent string", input: `{"confidence": "80%"}`, confidence: 0.8, urgency: UrgencyFlexible, complexity: ComplexityModerate},
		{name: "garbage", input: `{"confidence": "very", "urgency": "asap", "problemDetails": {"complexity": "nightmare"}}`, confidence: DefaultConfidence, urgency: UrgencyFlexible, complexity: ComplexityModerate},
		{name: "soon simple", input: `{"urgency": " soon ", "problemDetails": {"complexity": "Simple"}}`, confidence: DefaultConfidence, urgency: UrgencySoon, complexity: ComplexitySimple},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := Normalize(decode(t, tc.input))
			if p.Confidence != tc.confidence {
				t.Fatalf("confidence = %v, want %v", p.Confidence, tc.confidence)
			}
			if p.Urgency != tc.urgency {
				t.Fatalf("urgency = %q, want %q", p.Urgency, tc.urgency)
			}
			if p.Details.Complexity != tc.complexity {
				t.Fatalf("complexity = %q, want %q", p.Details.Complexity, tc.complexity)
			}
		})
	}
}

func TestNormalizeDropsUnknownTrades(t *testing.T) {
	p := Normalize(decode(t, `{"trades": [
		{"trade": "Astronaut", "confidence": 1},
		{"trade": "hvac", "confidence": 3},
		"Locksmith",
		42,
		{"confidence": 0.9}
	]}`))

	if len(p.Trades) != 2 {
		t.Fatalf("expected 2 known trades, got %#v", p.Trades)
	}
	if p.Trades[0].Trade != TradeHVAC || p.Trades[0].Confidence != 1 {
		t.Fatalf("expected clamped HVAC need, got %#v", p.Trades[0])
	}
	if p.Trades[1].Trade != TradeLocksmith || p.Trades[1].Confidence != DefaultConfidence {
		t.Fatalf("expected bare locksmith with default confidence, got %#v", p.Trades[1])
	}
}

func TestNormalizeFollowUpQuestions(t *testing.T) {
	cases := []struct {
		name      string
		input     string
		needsMore bool
		questions []string
	}{
		{name: "synthesized", input: `{"needsMoreInfo": true}`, needsMore: true, questions: []string{DefaultFollowUpQuestion}},
		{name: "string flag", input: `{"needsMoreInfo": "yes", "followUpQuestions": ["Where is the leak?"]}`, needsMore: true, questions: []string{"Where is the leak?"}},
		{name: "single question string", input: `{"needsMoreInfo": true, "followUpQuestions": "Which room?"}`, needsMore: true, questions: []string{"Which room?"}},
		{name: "blank questions", input: `{"needsMoreInfo": 1, "followUpQuestions": ["", "  "]}`, needsMore: true, questions: []string{DefaultFollowUpQuestion}},
		{name: "not needed", input: `{"needsMoreInfo": false}`, needsMore: false, questions: []string{}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := Normalize(decode(t, tc.input))
			if p.NeedsMoreInfo != tc.needsMore {
				t.Fatalf("needsMoreInfo = %v, want %v", p.NeedsMoreInfo, tc.needsMore)
			}
			if strings.Join(p.FollowUpQuestions, "|") != strings.Join(tc.questions, "|") || p.FollowUpQuestions == nil {
				t.Fatalf("followUpQuestions = %#v, want %#v", p.FollowUpQuestions, tc.questions)
			}
		})
	}
}

func TestNormalizeIsPure(t *testing.T) {
	raw := decode(t, `{"trades": [{"trade": "Painter", "confidence": 0.7}], "confidence": 0.6}`)

	first, err := json.Marshal(Normalize(raw))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	second, err := json.Marshal(Normalize(raw))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(first) != string(second) {
		t.Fatalf("expected identical results:\n%s\n%s", first, second)
	}
}

func TestEstimatedHours(t *testing.T) {
	cases := []struct {
		estimate string
		want     float64
	}{
		{estimate: "2-3 hours", want: 2},
		{estimate: "1.5 hours", want: 1.5},
		{estimate: "45 minutes", want: 0.75},
		{estimate: "1 day", want: 8},
		{estimate: "half a day", want: 2},
		{estimate: "", want: 2},
		{estimate: "0 hours", want: 2},
	}

	for _, tc := range cases {
		t.Run(tc.estimate, func(t *testing.T) {
			p := Problem{Details: Details{TimeEstimate: tc.estimate}}
			if got := p.EstimatedHours(2); got != tc.want {
				t.Fatalf("EstimatedHours(%q) = %v, want %v", tc.estimate, got, tc.want)
			}
		})
	}
}

func TestParseTrade(t *testing.T) {
	cases := []struct {
		input string
		want  Trade
		ok    bool
	}{
		{input: "Electrician", want: TradeElectrician, ok: true},
		{input: "  appliance   REPAIR ", want: TradeApplianceRepair, ok: true},
		{input: "electrical", want: TradeElectrician, ok: true},
		{input: "Astronaut", ok: false},
		{input: "", ok: false},
	}

	for _, tc := range cases {
		got, ok := ParseTrade(tc.input)
		if ok != tc.ok || (ok && got != tc.want) {
			t.Fatalf("ParseTrade(%q) = %q, %v; want %q, %v", tc.input, got, ok, tc.want, tc.ok)
		}
	}
}

func TestProblemTradeHelpers(t *testing.T) {
	p := Problem{Trades: []TradeNeed{
		{Trade: TradePlumber, Confidence: 0.4, Specialties: []string{"drain"}},
		{Trade: TradePlumber, Confidence: 0.8, Specialties: []string{"leak repair"}},
	}}

	conf, ok := p.TradeConfidence("plumber")
	if !ok || conf != 0.8 {
		t.Fatalf("TradeConfidence = %v, %v; want 0.8, true", conf, ok)
	}
	if _, ok := p.TradeConfidence("Roofer"); ok {
		t.Fatalf("expected roofer not to be needed")
	}
	if got := p.SpecialtiesFor("Plumber"); len(got) != 2 {
		t.Fatalf("expected both specialties, got %#v", got)
	}

	replaced := p.WithTrades(TradeNeed{Trade: TradeHandyman, Confidence: 0.5})
	if len(p.Trades) != 2 || len(replaced.Trades) != 1 {
		t.Fatalf("expected WithTrades to leave the receiver untouched")
	}
}

func decode(t *testing.T, input string) map[string]any {
	t.Helper()
	var raw map[string]any
	if err := json.Unmarshal([]byte(input), &raw); err != nil {
		t.Fatalf("decode test input: %v", err)
	}
	return raw
}

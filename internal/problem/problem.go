// Package problem turns LLM analysis output into a canonical Problem record.
package problem

import "strings"

// Urgency is the coarse time-sensitivity of a reported problem.
type Urgency string

const (
	UrgencyEmergency Urgency = "emergency"
	UrgencySoon      Urgency = "soon"
	UrgencyFlexible  Urgency = "flexible"
)

// ParseUrgency returns the urgency named by s, or false when s is not a known level.
func ParseUrgency(s string) (Urgency, bool) {
	switch u := Urgency(strings.ToLower(strings.TrimSpace(s))); u {
	case UrgencyEmergency, UrgencySoon, UrgencyFlexible:
		return u, true
	default:
		return UrgencyFlexible, false
	}
}

// Complexity is the estimated difficulty of the job.
type Complexity string

const (
	ComplexitySimple   Complexity = "simple"
	ComplexityModerate Complexity = "moderate"
	ComplexityComplex  Complexity = "complex"
)

// ParseComplexity returns the complexity named by s, or false when s is not a known level.
func ParseComplexity(s string) (Complexity, bool) {
	switch c := Complexity(strings.ToLower(strings.TrimSpace(s))); c {
	case ComplexitySimple, ComplexityModerate, ComplexityComplex:
		return c, true
	default:
		return ComplexityModerate, false
	}
}

// Problem is the normalized analysis of one user message.
type Problem struct {
	Trades            []TradeNeed `json:"trades"`
	Urgency           Urgency     `json:"urgency"`
	UrgencyReasoning  string      `json:"urgencyReasoning,omitempty"`
	Confidence        float64     `json:"confidence"`
	Details           Details     `json:"problemDetails"`
	Location          Location    `json:"location"`
	MissingInfo       []string    `json:"missingInfo"`
	NeedsMoreInfo     bool        `json:"needsMoreInfo"`
	FollowUpQuestions []string    `json:"followUpQuestions"`
	SafetyIssues      []string    `json:"safetyIssues"`
	Summary           string      `json:"summary,omitempty"`
}

// TradeNeed is one trade the problem requires.
type TradeNeed struct {
	Trade       Trade    `json:"trade"`
	Confidence  float64  `json:"confidence"`
	Specialties []string `json:"specialties"`
	Reasoning   string   `json:"reasoning,omitempty"`
}

// Details describes the reported problem itself.
type Details struct {
	Category         string     `json:"category,omitempty"`
	Complexity       Complexity `json:"complexity"`
	Location         string     `json:"location,omitempty"`
	Symptoms         []string   `json:"symptoms"`
	PossibleCauses   []string   `json:"possibleCauses"`
	MaterialEstimate string     `json:"materialEstimate,omitempty"`
	TimeEstimate     string     `json:"timeEstimate,omitempty"`
}

// Location is the location information extracted from the conversation.
type Location struct {
	Extracted string `json:"extracted,omitempty"`
	Needed    bool   `json:"needed"`
}

// Classified reports whether at least one trade was identified.
func (p Problem) Classified() bool {
	return len(p.Trades) > 0
}

// TradeConfidence returns the highest confidence among needs for trade, and whether the trade is needed at all.
func (p Problem) TradeConfidence(trade string) (float64, bool) {
	best, found := 0.0, false
	for _, need := range p.Trades {
		if !strings.EqualFold(string(need.Trade), strings.TrimSpace(trade)) {
			continue
		}
		if !found || need.Confidence > best {
			best = need.Confidence
		}
		found = true
	}
	return best, found
}

// SpecialtiesFor returns the specialties requested for trade.
func (p Problem) SpecialtiesFor(trade string) []string {
	out := make([]string, 0)
	for _, need := range p.Trades {
		if strings.EqualFold(string(need.Trade), strings.TrimSpace(trade)) {
			out = append(out, need.Specialties...)
		}
	}
	return out
}

// WithTrades returns a copy of p whose trade list is replaced by needs.
func (p Problem) WithTrades(needs ...TradeNeed) Problem {
	p.Trades = append([]TradeNeed{}, needs...)
	return p
}

// Package pricing computes quotes for a worker and an analyzed problem.
//
// Every quote starts from a deterministic fallback formula. An externally
// supplied estimate replaces the fallback total only when it passes the
// plausibility gate, and the breakdown always adds up to the total.
package pricing

import "fmt"

// Source tells where a quoted total came from.
type Source string

const (
	SourceFallback Source = "fallback"
	SourceLLM      Source = "llm"
)

// Result is an immutable quote.
type Result struct {
	Total        float64      `json:"total" yaml:"total"`
	Source       Source       `json:"source" yaml:"source"`
	Confidence   float64      `json:"confidence" yaml:"confidence"`
	Reasoning    string       `json:"reasoning" yaml:"reasoning"`
	Breakdown    Breakdown    `json:"breakdown" yaml:"breakdown"`
	Alternatives Alternatives `json:"alternatives" yaml:"alternatives"`
}

// Breakdown lists the components of a quote.
// Total = BaseCost × ExperienceMultiplier × RatingMultiplier × UrgencyMultiplier + TravelFee + Σ AdditionalFees.
type Breakdown struct {
	BaseRate             float64 `json:"baseRate" yaml:"baseRate"`
	Hours                float64 `json:"hours" yaml:"hours"`
	BaseCost             float64 `json:"baseCost" yaml:"baseCost"`
	ExperienceMultiplier float64 `json:"experienceMultiplier" yaml:"experienceMultiplier"`
	RatingMultiplier     float64 `json:"ratingMultiplier" yaml:"ratingMultiplier"`
	UrgencyMultiplier    float64 `json:"urgencyMultiplier" yaml:"urgencyMultiplier"`
	TravelFee            float64 `json:"travelFee" yaml:"travelFee"`
	AdditionalFees       []Fee   `json:"additionalFees" yaml:"additionalFees"`
}

// Fee is a named adjustment on top of the multiplied base cost.
type Fee struct {
	Factor string  `json:"factor" yaml:"factor"`
	Amount float64 `json:"amount" yaml:"amount"`
	// Percentage is Amount relative to the base cost.
	Percentage float64 `json:"percentage" yaml:"percentage"`
	Rationale  string  `json:"rationale" yaml:"rationale"`
}

// Alternatives are cheaper and pricier variants of the same job.
type Alternatives struct {
	Budget  float64 `json:"budget" yaml:"budget"`
	Premium float64 `json:"premium" yaml:"premium"`
}

// Estimate is an externally proposed price, usually from the LLM.
type Estimate struct {
	Total float64 `mapstructure:"total"`
	// Confidence outside (0,1] is treated as absent.
	Confidence float64 `mapstructure:"confidence"`
	Reasoning  string  `mapstructure:"reasoning"`
}

// InvalidInputError reports a pricing request that violates the engine contract.
type InvalidInputError struct {
	Field  string
	Value  float64
	Reason string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid pricing input: %s %s, got %v", e.Field, e.Reason, e.Value)
}

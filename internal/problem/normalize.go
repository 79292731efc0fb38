package problem

import (
	"github.com/mitchellh/mapstructure"
)

const (
	// DefaultConfidence is used when the analysis carries no usable confidence.
	DefaultConfidence = 0.5
	// DefaultFollowUpQuestion is asked when more information is needed but none was suggested.
	DefaultFollowUpQuestion = "Can you provide more detail about the problem?"
)

type rawTrade struct {
	Trade       string   `mapstructure:"trade"`
	Confidence  any      `mapstructure:"confidence"`
	Specialties []string `mapstructure:"specialties"`
	Reasoning   any      `mapstructure:"reasoning"`
}

type rawDetails struct {
	Category         string   `mapstructure:"category"`
	Complexity       string   `mapstructure:"complexity"`
	Location         string   `mapstructure:"location"`
	Symptoms         []string `mapstructure:"symptoms"`
	PossibleCauses   []string `mapstructure:"possibleCauses"`
	MaterialEstimate any      `mapstructure:"materialEstimate"`
	TimeEstimate     any      `mapstructure:"timeEstimate"`
}

type rawLocation struct {
	Extracted any `mapstructure:"extracted"`
	Needed    any `mapstructure:"needed"`
}

// Normalize converts a decoded analysis object into a Problem. It never fails:
// missing or malformed fields fall back to safe defaults, and a nil map yields the default Problem.
func Normalize(raw map[string]any) Problem {
	urgency, _ := ParseUrgency(coerceString(raw["urgency"]))

	p := Problem{
		Trades:            normalizeTrades(raw["trades"]),
		Urgency:           urgency,
		UrgencyReasoning:  coerceString(raw["urgencyReasoning"]),
		Confidence:        unitInterval(coerceFloat(raw["confidence"]), DefaultConfidence),
		Details:           normalizeDetails(raw["problemDetails"]),
		Location:          normalizeLocation(raw["location"]),
		MissingInfo:       coerceStrings(raw["missingInfo"]),
		NeedsMoreInfo:     coerceBool(raw["needsMoreInfo"]),
		FollowUpQuestions: coerceStrings(raw["followUpQuestions"]),
		SafetyIssues:      coerceStrings(raw["safetyIssues"]),
		Summary:           coerceString(raw["summary"]),
	}

	if p.NeedsMoreInfo && len(p.FollowUpQuestions) == 0 {
		p.FollowUpQuestions = []string{DefaultFollowUpQuestion}
	}

	return p
}

// Default returns the Problem used when no analysis is available.
func Default() Problem {
	return Normalize(nil)
}

func normalizeTrades(v any) []TradeNeed {
	needs := make([]TradeNeed, 0)

	items, ok := v.([]any)
	if !ok {
		return needs
	}

	for _, item := range items {
		var rt rawTrade
		switch val := item.(type) {
		case string:
			rt.Trade = val
		case map[string]any:
			// Partially decoded entries are still usable; a bad field only loses itself.
			_ = weakDecode(val, &rt)
		default:
			continue
		}

		trade, ok := ParseTrade(rt.Trade)
		if !ok {
			continue
		}

		needs = append(needs, TradeNeed{
			Trade:       trade,
			Confidence:  unitInterval(coerceFloat(rt.Confidence), DefaultConfidence),
			Specialties: cleanStrings(rt.Specialties),
			Reasoning:   coerceString(rt.Reasoning),
		})
	}

	return needs
}

func normalizeDetails(v any) Details {
	var rd rawDetails
	if m, ok := v.(map[string]any); ok {
		_ = weakDecode(m, &rd)
	}

	complexity, _ := ParseComplexity(rd.Complexity)

	return Details{
		Category:         coerceString(rd.Category),
		Complexity:       complexity,
		Location:         coerceString(rd.Location),
		Symptoms:         cleanStrings(rd.Symptoms),
		PossibleCauses:   cleanStrings(rd.PossibleCauses),
		MaterialEstimate: coerceString(rd.MaterialEstimate),
		TimeEstimate:     coerceString(rd.TimeEstimate),
	}
}

func normalizeLocation(v any) Location {
	switch val := v.(type) {
	case string:
		return Location{Extracted: coerceString(val)}
	case map[string]any:
		var rl rawLocation
		_ = weakDecode(val, &rl)
		return Location{
			Extracted: coerceString(rl.Extracted),
			Needed:    coerceBool(rl.Needed),
		}
	default:
		return Location{}
	}
}

func weakDecode(input map[string]any, out any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           out,
	})
	if err != nil {
		return err
	}
	return decoder.Decode(input)
}

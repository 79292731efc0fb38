package matching

import (
	"math"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/spigell/powerus/internal/problem"
	"github.com/spigell/powerus/internal/roster"
)

// Score weights. They sum to 1.
const (
	weightTrade        = 0.4
	weightRating       = 0.3
	weightSpecialty    = 0.2
	weightAvailability = 0.1

	// neutralOverlap is used when the problem names no specialties or symptoms.
	neutralOverlap = 0.5

	minWordLength = 4
)

type breakdown struct {
	trade        float64
	rating       float64
	overlap      float64
	matchedTerms int
	totalTerms   int
	availability float64
}

func (b breakdown) total() float64 {
	s := weightTrade*b.trade +
		weightRating*b.rating +
		weightSpecialty*b.overlap +
		weightAvailability*b.availability
	return round4(clamp01(s))
}

func score(p problem.Problem, w roster.Worker) breakdown {
	tradeConf, _ := p.TradeConfidence(w.Trade)

	b := breakdown{
		trade:        clamp01(tradeConf),
		rating:       clamp01(w.Rating / 5),
		availability: availability(p.Urgency, w),
	}

	terms := append(p.SpecialtiesFor(w.Trade), p.Details.Symptoms...)
	b.totalTerms = len(terms)
	if b.totalTerms == 0 {
		b.overlap = neutralOverlap
		return b
	}

	workerWords := make(map[string]struct{})
	for _, s := range w.Specialties {
		for _, word := range words(s) {
			workerWords[word] = struct{}{}
		}
	}

	for _, term := range terms {
		for _, word := range words(term) {
			if _, ok := workerWords[word]; ok {
				b.matchedTerms++
				break
			}
		}
	}
	b.overlap = float64(b.matchedTerms) / float64(b.totalTerms)

	return b
}

func availability(urgency problem.Urgency, w roster.Worker) float64 {
	if urgency != problem.UrgencyEmergency {
		return 1
	}
	if w.AvailableNow() {
		return 1
	}
	return 0
}

// words splits s into lower-case words long enough to carry meaning.
func words(s string) []string {
	fields := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	out := fields[:0]
	for _, f := range fields {
		if utf8.RuneCountInString(f) >= minWordLength {
			out = append(out, f)
		}
	}
	return out
}

func clamp01(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return math.Max(0, math.Min(1, v))
}

func round4(v float64) float64 {
	return math.Round(v*1e4) / 1e4
}

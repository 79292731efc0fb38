package pricing

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"
	"github.com/spigell/powerus/internal/metrics"
	"github.com/spigell/powerus/internal/problem"
	"github.com/spigell/powerus/internal/roster"
	"go.uber.org/zap"
)

const (
	FallbackConfidence        = 0.7
	DefaultEstimateConfidence = 0.8

	// PlausibilityFactor bounds accepted estimates to [fallback/f, fallback*f].
	PlausibilityFactor = 3

	FactorComplexity = "Complexity surcharge"
	FactorEstimate   = "Estimate adjustment"
	FactorMinimum    = "Minimum charge"
)

var (
	experienceStep     = decimal.RequireFromString("0.01")
	maxExperienceYears = int64(20)
	ratingFloor        = decimal.RequireFromString("0.8")
	ratingSpan         = decimal.RequireFromString("0.4")
	maxRating          = decimal.NewFromInt(5)
	perMile            = decimal.NewFromInt(2)
	maxTravelFee       = decimal.NewFromInt(50)
	complexityRate     = decimal.RequireFromString("0.15")
	budgetRatio        = decimal.RequireFromString("0.85")
	premiumRatio       = decimal.RequireFromString("1.25")
	cent               = decimal.RequireFromString("0.01")
	hundred            = decimal.NewFromInt(100)

	urgencyMultipliers = map[problem.Urgency]decimal.Decimal{
		problem.UrgencyEmergency: decimal.RequireFromString("1.5"),
		problem.UrgencySoon:      decimal.RequireFromString("1.15"),
		problem.UrgencyFlexible:  decimal.NewFromInt(1),
	}
)

// Engine prices jobs. It holds no per-request state and is safe for concurrent use.
type Engine struct {
	logger *zap.Logger
}

// NewEngine builds a pricing engine.
func NewEngine(logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{logger: logger}
}

type fee struct {
	factor    string
	amount    decimal.Decimal
	rationale string
}

type quote struct {
	baseRate   decimal.Decimal
	hours      decimal.Decimal
	baseCost   decimal.Decimal
	experience decimal.Decimal
	rating     decimal.Decimal
	urgency    decimal.Decimal
	travel     decimal.Decimal
	fees       []fee
}

func (q *quote) subtotal() decimal.Decimal {
	s := q.baseCost.Mul(q.experience).Mul(q.rating).Mul(q.urgency).Add(q.travel)
	for _, f := range q.fees {
		s = s.Add(f.amount)
	}
	return s
}

func (q *quote) total() decimal.Decimal {
	return q.subtotal().Round(2)
}

// Price quotes the job. A non-nil estimate replaces the fallback total when it is plausible.
func (e *Engine) Price(worker roster.Worker, p problem.Problem, hours float64, estimate *Estimate) (*Result, error) {
	if err := validate(worker, hours); err != nil {
		return nil, err
	}

	q := fallback(worker, p, hours)
	fallbackTotal := q.total()

	source := SourceFallback
	confidence := FallbackConfidence
	reasoning := fallbackReasoning(worker, p, hours)

	if estimate != nil {
		proposed, reason, ok := plausible(estimate.Total, fallbackTotal)
		if ok {
			if diff := proposed.Sub(fallbackTotal); !diff.IsZero() {
				q.fees = append(q.fees, fee{
					factor:    FactorEstimate,
					amount:    diff,
					rationale: "Difference between the job-specific estimate and the standard rate",
				})
			}
			source = SourceLLM
			confidence = estimateConfidence(estimate.Confidence)
			if estimate.Reasoning != "" {
				reasoning = estimate.Reasoning
			}
			metrics.RecordEstimate(metrics.EstimateAccepted)
		} else {
			e.logger.Warn("price estimate rejected, using fallback pricing",
				zap.String("worker_id", worker.ID),
				zap.Float64("estimate", estimate.Total),
				zap.String("fallback_total", fallbackTotal.StringFixed(2)),
				zap.String("reason", reason),
			)
			metrics.RecordEstimate(metrics.EstimateRejected)
		}
	}

	// Totals are never below one cent so that the budget alternative stays non-negative.
	if total := q.total(); total.LessThan(cent) {
		q.fees = append(q.fees, fee{
			factor:    FactorMinimum,
			amount:    cent.Sub(q.subtotal()).Round(4),
			rationale: "Quotes are never below one cent",
		})
	}

	metrics.RecordQuote(string(source))

	return q.result(source, confidence, reasoning), nil
}

// FallbackTotal returns the standard-rate total without recording a quote.
func (e *Engine) FallbackTotal(worker roster.Worker, p problem.Problem, hours float64) (float64, error) {
	if err := validate(worker, hours); err != nil {
		return 0, err
	}
	return fallback(worker, p, hours).total().InexactFloat64(), nil
}

func validate(worker roster.Worker, hours float64) error {
	if math.IsNaN(hours) || math.IsInf(hours, 0) {
		return &InvalidInputError{Field: "hours", Value: hours, Reason: "must be a finite number"}
	}
	if hours <= 0 {
		return &InvalidInputError{Field: "hours", Value: hours, Reason: "must be positive"}
	}
	if math.IsNaN(worker.HourlyRate) || math.IsInf(worker.HourlyRate, 0) || worker.HourlyRate <= 0 {
		return &InvalidInputError{Field: "hourlyRate", Value: worker.HourlyRate, Reason: "must be positive"}
	}
	if math.IsNaN(worker.Rating) || math.IsInf(worker.Rating, 0) {
		return &InvalidInputError{Field: "rating", Value: worker.Rating, Reason: "must be a finite number"}
	}
	if math.IsNaN(worker.Distance) || math.IsInf(worker.Distance, 0) {
		return &InvalidInputError{Field: "distance", Value: worker.Distance, Reason: "must be a finite number"}
	}
	return nil
}

func fallback(worker roster.Worker, p problem.Problem, hours float64) *quote {
	rate := decimal.NewFromFloat(worker.HourlyRate)
	h := decimal.NewFromFloat(hours)
	baseCost := rate.Mul(h).Round(2)

	years := int64(worker.Experience)
	if years > maxExperienceYears {
		years = maxExperienceYears
	}
	if years < 0 {
		years = 0
	}
	experience := decimal.NewFromInt(1).Add(decimal.NewFromInt(years).Mul(experienceStep))

	rating := decimal.NewFromFloat(math.Max(0, math.Min(5, worker.Rating)))
	ratingMultiplier := ratingFloor.Add(rating.Div(maxRating).Mul(ratingSpan)).Round(4)

	urgency, ok := urgencyMultipliers[p.Urgency]
	if !ok {
		urgency = urgencyMultipliers[problem.UrgencyFlexible]
	}

	travel := decimal.NewFromFloat(math.Max(0, worker.Distance)).Mul(perMile)
	if travel.GreaterThan(maxTravelFee) {
		travel = maxTravelFee
	}
	travel = travel.Round(2)

	q := &quote{
		baseRate:   rate,
		hours:      h,
		baseCost:   baseCost,
		experience: experience,
		rating:     ratingMultiplier,
		urgency:    urgency,
		travel:     travel,
	}

	if p.Details.Complexity == problem.ComplexityComplex {
		q.fees = append(q.fees, fee{
			factor:    FactorComplexity,
			amount:    baseCost.Mul(complexityRate).Round(2),
			rationale: "Complex jobs need extra diagnosis and preparation time",
		})
	}

	return q
}

// plausible reports whether the proposed total can replace the fallback total.
func plausible(proposed float64, fallbackTotal decimal.Decimal) (decimal.Decimal, string, bool) {
	if math.IsNaN(proposed) || math.IsInf(proposed, 0) {
		return decimal.Zero, "estimate is not a finite number", false
	}

	value := decimal.NewFromFloat(proposed).Round(2)
	if !value.IsPositive() {
		return decimal.Zero, "estimate is not positive", false
	}

	factor := decimal.NewFromInt(PlausibilityFactor)
	if value.Mul(factor).LessThan(fallbackTotal) || value.GreaterThan(fallbackTotal.Mul(factor)) {
		return decimal.Zero, fmt.Sprintf("estimate is not within a factor of %d of the fallback total", PlausibilityFactor), false
	}

	return value, "", true
}

func estimateConfidence(c float64) float64 {
	if math.IsNaN(c) || c <= 0 || c > 1 {
		return DefaultEstimateConfidence
	}
	return c
}

func (q *quote) result(source Source, confidence float64, reasoning string) *Result {
	total := q.total()
	budget, premium := alternatives(total)

	fees := make([]Fee, 0, len(q.fees))
	for _, f := range q.fees {
		percentage := decimal.Zero
		if q.baseCost.IsPositive() {
			percentage = f.amount.Div(q.baseCost).Mul(hundred).Round(2)
		}
		fees = append(fees, Fee{
			Factor:     f.factor,
			Amount:     f.amount.InexactFloat64(),
			Percentage: percentage.InexactFloat64(),
			Rationale:  f.rationale,
		})
	}

	return &Result{
		Total:      total.InexactFloat64(),
		Source:     source,
		Confidence: confidence,
		Reasoning:  reasoning,
		Breakdown: Breakdown{
			BaseRate:             q.baseRate.InexactFloat64(),
			Hours:                q.hours.InexactFloat64(),
			BaseCost:             q.baseCost.InexactFloat64(),
			ExperienceMultiplier: q.experience.InexactFloat64(),
			RatingMultiplier:     q.rating.InexactFloat64(),
			UrgencyMultiplier:    q.urgency.InexactFloat64(),
			TravelFee:            q.travel.InexactFloat64(),
			AdditionalFees:       fees,
		},
		Alternatives: Alternatives{
			Budget:  budget.InexactFloat64(),
			Premium: premium.InexactFloat64(),
		},
	}
}

// alternatives keeps budget < total < premium even when cent rounding collapses a ratio.
func alternatives(total decimal.Decimal) (decimal.Decimal, decimal.Decimal) {
	budget := total.Mul(budgetRatio).Round(2)
	if !budget.LessThan(total) {
		budget = total.Sub(cent)
	}
	premium := total.Mul(premiumRatio).Round(2)
	if !premium.GreaterThan(total) {
		premium = total.Add(cent)
	}
	return budget, premium
}

func fallbackReasoning(worker roster.Worker, p problem.Problem, hours float64) string {
	reason := fmt.Sprintf("Standard rate: %s hours at $%s/hour, adjusted for %d years of experience, a %.1f rating and %s urgency",
		decimal.NewFromFloat(hours).String(),
		decimal.NewFromFloat(worker.HourlyRate).StringFixed(2),
		worker.Experience,
		worker.Rating,
		urgencyLabel(p.Urgency),
	)
	if worker.Distance > 0 {
		reason += fmt.Sprintf(", plus travel for %.1f miles", worker.Distance)
	}
	return reason + "."
}

func urgencyLabel(u problem.Urgency) string {
	if _, ok := urgencyMultipliers[u]; !ok {
		return string(problem.UrgencyFlexible)
	}
	return string(u)
}

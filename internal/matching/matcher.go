// Package matching ranks roster workers against an analyzed problem.
package matching

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spigell/powerus/internal/metrics"
	"github.com/spigell/powerus/internal/problem"
	"github.com/spigell/powerus/internal/roster"
	"go.uber.org/zap"
)

// Match is one ranked candidate.
type Match struct {
	Worker    roster.Worker `json:"worker"`
	Score     float64       `json:"score"`
	Reasoning string        `json:"reasoning"`
}

// Matcher filters and ranks workers. It is safe for concurrent use once built.
type Matcher struct {
	filters []Filter
	logger  *zap.Logger
}

// NewMatcher validates the eligibility pipeline against cfg.
func NewMatcher(cfg *Config, logger *zap.Logger) (*Matcher, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	filters := DefaultFilters()
	if cfg != nil {
		for _, name := range cfg.Disabled {
			name = strings.TrimSpace(name)
			switch {
			case name == "":
				continue
			case name == FilterTrade:
				return nil, fmt.Errorf("matching filters: %s filter cannot be disabled", FilterTrade)
			case !DisableByName(filters, name, "disabled in configuration"):
				return nil, fmt.Errorf("matching filters: unknown filter %q", name)
			}
		}
	}

	if err := Validate(cfg, filters); err != nil {
		return nil, fmt.Errorf("matching filters: %w", err)
	}

	return &Matcher{
		filters: filters,
		logger:  logger,
	}, nil
}

// Filters reports the state of the eligibility pipeline.
func (m *Matcher) Filters() []Status {
	return Describe(m.filters)
}

// Match returns the eligible workers ordered by score, best first. The result is never nil.
func (m *Matcher) Match(p problem.Problem, workers []roster.Worker) []Match {
	eligible := Run(m.logger, m.filters, p, workers)
	metrics.RecordMatching(len(eligible))

	matches := make([]Match, 0, len(eligible))
	for _, w := range eligible {
		b := score(p, w)
		matches = append(matches, Match{
			Worker:    w,
			Score:     b.total(),
			Reasoning: reasoning(p, w, b),
		})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		a, b := matches[i], matches[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if a.Worker.Distance != b.Worker.Distance {
			return a.Worker.Distance < b.Worker.Distance
		}
		if a.Worker.CompletedJobs != b.Worker.CompletedJobs {
			return a.Worker.CompletedJobs > b.Worker.CompletedJobs
		}
		return a.Worker.ID < b.Worker.ID
	})

	m.logger.Debug("workers matched",
		zap.Int("roster", len(workers)),
		zap.Int("eligible", len(matches)),
	)

	return matches
}

func reasoning(p problem.Problem, w roster.Worker, b breakdown) string {
	parts := []string{
		fmt.Sprintf("%s with %d years of experience", w.Trade, w.Experience),
		fmt.Sprintf("rated %.1f from %d reviews", w.Rating, w.ReviewCount),
		fmt.Sprintf("%.1f miles away", w.Distance),
	}

	if b.totalTerms > 0 {
		parts = append(parts, fmt.Sprintf("specialties cover %d of %d problem details", b.matchedTerms, b.totalTerms))
	}

	if p.Urgency == problem.UrgencyEmergency {
		if b.availability == 1 {
			parts = append(parts, "available for an emergency today")
		} else {
			parts = append(parts, "not available today")
		}
	}

	return strings.Join(parts, ", ") + "."
}

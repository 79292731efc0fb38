package matching

import (
	"fmt"

	"github.com/spigell/powerus/internal/problem"
	"github.com/spigell/powerus/internal/roster"
	"go.uber.org/zap"
)

// Filter represents a single eligibility step applied to roster workers.
type Filter interface {
	Name() string
	Disable(reason string)
	IsEnabled() bool

	Validate(cfg *Config) error
	Apply(p problem.Problem, workers []roster.Worker) ([]roster.Worker, Step)
}

// Step describes the result of executing a filtering step.
type Step struct {
	Initial  int
	Dropped  int
	Left     int
	Excluded []string
}

// Config contains configuration settings consumed by the filters.
type Config struct {
	// MaxDistance drops workers further away than this many miles. Zero disables the check.
	MaxDistance float64 `mapstructure:"max-distance"`
	// Exclude lists worker ids that are never offered.
	Exclude []string `mapstructure:"exclude"`
	// Disabled names optional filters to switch off. The trade filter cannot be disabled.
	Disabled []string `mapstructure:"disabled"`
}

// Status represents runtime information about a filter.
type Status struct {
	Name    string            `json:"name"`
	Enabled bool              `json:"enabled"`
	Reason  string            `json:"reason,omitempty"`
	Details map[string]string `json:"details,omitempty"`
}

type statusProvider interface {
	Status() Status
}

// DisableByName marks a filter with the provided name as disabled while keeping it in the list.
// It reports whether such a filter exists.
func DisableByName(steps []Filter, name, reason string) bool {
	found := false
	for _, step := range steps {
		if step.Name() == name {
			step.Disable(reason)
			found = true
		}
	}
	return found
}

// Validate prepares every enabled filter with cfg.
func Validate(cfg *Config, steps []Filter) error {
	for _, step := range steps {
		if !step.IsEnabled() {
			continue
		}
		if err := step.Validate(cfg); err != nil {
			return fmt.Errorf("%s: %w", step.Name(), err)
		}
	}
	return nil
}

// Run executes the enabled filters sequentially and returns the workers left.
// The filters must have been validated.
func Run(logger *zap.Logger, steps []Filter, p problem.Problem, workers []roster.Worker) []roster.Worker {
	for _, step := range steps {
		if !step.IsEnabled() {
			continue
		}

		next, info := step.Apply(p, workers)

		if logger != nil {
			fields := []zap.Field{
				zap.String("name", step.Name()),
				zap.Int("initial", info.Initial),
				zap.Int("dropped", info.Dropped),
				zap.Int("left", info.Left),
			}
			if len(info.Excluded) > 0 {
				fields = append(fields, zap.Strings("excluded_workers", info.Excluded))
			}
			logger.Debug("filter step", fields...)
		}

		workers = next
	}

	return workers
}

// Describe returns status entries for the provided filters.
func Describe(steps []Filter) []Status {
	statuses := make([]Status, 0, len(steps))
	for _, step := range steps {
		if reporter, ok := step.(statusProvider); ok {
			statuses = append(statuses, reporter.Status())
			continue
		}

		statuses = append(statuses, Status{
			Name:    step.Name(),
			Enabled: step.IsEnabled(),
		})
	}
	return statuses
}

// keep returns the workers accepted by fn together with the ids of the dropped ones.
func keep(workers []roster.Worker, fn func(roster.Worker) bool) ([]roster.Worker, Step) {
	kept := make([]roster.Worker, 0, len(workers))
	excluded := make([]string, 0)
	for _, w := range workers {
		if fn(w) {
			kept = append(kept, w)
			continue
		}
		excluded = append(excluded, w.ID)
	}

	return kept, Step{
		Initial:  len(workers),
		Dropped:  len(excluded),
		Left:     len(kept),
		Excluded: excluded,
	}
}

package matching

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spigell/powerus/internal/problem"
	"github.com/spigell/powerus/internal/roster"
)

const (
	FilterTrade       = "trade"
	FilterMaxDistance = "max_distance"
	FilterExcluded    = "excluded_workers"
)

// DefaultFilters returns the eligibility pipeline in execution order.
func DefaultFilters() []Filter {
	return []Filter{
		NewTrade(),
		NewMaxDistance(),
		NewExcluded(),
	}
}

type tradeFilter struct{}

// NewTrade creates the filter that keeps workers whose trade the problem needs.
func NewTrade() Filter {
	return &tradeFilter{}
}

func (f *tradeFilter) Name() string { return FilterTrade }

// Disable is a no-op: trade eligibility is always enforced.
func (f *tradeFilter) Disable(string) {}

func (f *tradeFilter) IsEnabled() bool { return true }

func (f *tradeFilter) Validate(*Config) error { return nil }

func (f *tradeFilter) Apply(p problem.Problem, workers []roster.Worker) ([]roster.Worker, Step) {
	return keep(workers, func(w roster.Worker) bool {
		_, ok := p.TradeConfidence(w.Trade)
		return ok
	})
}

func (f *tradeFilter) Status() Status {
	return Status{Name: f.Name(), Enabled: true}
}

type maxDistanceFilter struct {
	disabled bool
	reason   string
	limit    float64
}

// NewMaxDistance creates the filter that drops workers beyond the configured distance.
func NewMaxDistance() Filter {
	return &maxDistanceFilter{}
}

func (f *maxDistanceFilter) Name() string { return FilterMaxDistance }

func (f *maxDistanceFilter) Disable(reason string) {
	f.disabled = true
	f.reason = reason
}

func (f *maxDistanceFilter) IsEnabled() bool { return !f.disabled }

func (f *maxDistanceFilter) Validate(cfg *Config) error {
	f.limit = 0
	if cfg != nil {
		f.limit = cfg.MaxDistance
	}
	if f.limit < 0 {
		return fmt.Errorf("max distance must not be negative, got %v", f.limit)
	}
	if f.limit == 0 {
		f.Disable("max distance is not set")
	}
	return nil
}

func (f *maxDistanceFilter) Apply(_ problem.Problem, workers []roster.Worker) ([]roster.Worker, Step) {
	return keep(workers, func(w roster.Worker) bool {
		return w.Distance <= f.limit
	})
}

func (f *maxDistanceFilter) Status() Status {
	details := map[string]string{}
	if f.limit > 0 {
		details["max_distance"] = strconv.FormatFloat(f.limit, 'f', -1, 64)
	}
	return Status{Name: f.Name(), Enabled: f.IsEnabled(), Reason: f.reason, Details: details}
}

type excludedFilter struct {
	disabled bool
	reason   string
	ids      map[string]struct{}
	list     []string
}

// NewExcluded creates the filter that drops workers listed in the configuration.
func NewExcluded() Filter {
	return &excludedFilter{}
}

func (f *excludedFilter) Name() string { return FilterExcluded }

func (f *excludedFilter) Disable(reason string) {
	f.disabled = true
	f.reason = reason
}

func (f *excludedFilter) IsEnabled() bool { return !f.disabled }

func (f *excludedFilter) Validate(cfg *Config) error {
	f.ids = make(map[string]struct{})
	f.list = nil
	if cfg != nil {
		for _, id := range cfg.Exclude {
			id = strings.TrimSpace(id)
			if id == "" {
				continue
			}
			f.ids[id] = struct{}{}
			f.list = append(f.list, id)
		}
	}
	if len(f.ids) == 0 {
		f.Disable("no workers are excluded")
	}
	return nil
}

func (f *excludedFilter) Apply(_ problem.Problem, workers []roster.Worker) ([]roster.Worker, Step) {
	return keep(workers, func(w roster.Worker) bool {
		_, excluded := f.ids[w.ID]
		return !excluded
	})
}

func (f *excludedFilter) Status() Status {
	details := map[string]string{}
	if len(f.list) > 0 {
		details["workers"] = strings.Join(f.list, ",")
	}
	return Status{Name: f.Name(), Enabled: f.IsEnabled(), Reason: f.reason, Details: details}
}

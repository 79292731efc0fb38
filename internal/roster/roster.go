// Package roster holds the read-only collection of workers the service matches against.
package roster

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Roster is an immutable set of workers. Accessors return copies.
type Roster struct {
	workers []Worker
	byID    map[string]int
}

type file struct {
	Workers []Worker `yaml:"workers"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// New validates the workers and builds a roster from a copy of them.
func New(workers []Worker) (*Roster, error) {
	r := &Roster{
		workers: make([]Worker, 0, len(workers)),
		byID:    make(map[string]int, len(workers)),
	}

	for i, w := range workers {
		w.ID = strings.TrimSpace(w.ID)
		w.Trade = strings.TrimSpace(w.Trade)

		if err := validate.Struct(w); err != nil {
			return nil, fmt.Errorf("worker %d (%q): %w", i, w.ID, err)
		}

		if _, ok := r.byID[w.ID]; ok {
			return nil, fmt.Errorf("worker %d: duplicate id %q", i, w.ID)
		}

		r.byID[w.ID] = len(r.workers)
		r.workers = append(r.workers, w.clone())
	}

	return r, nil
}

// LoadFile reads a YAML roster with a top-level "workers" list.
func LoadFile(path string) (*Roster, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading roster file %q: %w", path, err)
	}

	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing roster file %q: %w", path, err)
	}

	if len(f.Workers) == 0 {
		return nil, errors.New("roster file contains no workers")
	}

	return New(f.Workers)
}

// Len returns the number of workers.
func (r *Roster) Len() int {
	if r == nil {
		return 0
	}
	return len(r.workers)
}

// All returns a copy of every worker in roster order.
func (r *Roster) All() []Worker {
	if r == nil {
		return []Worker{}
	}

	out := make([]Worker, 0, len(r.workers))
	for _, w := range r.workers {
		out = append(out, w.clone())
	}
	return out
}

// ByTrade returns the workers of the given trade (case-insensitive). An empty trade returns everyone.
func (r *Roster) ByTrade(trade string) []Worker {
	trade = strings.TrimSpace(trade)
	if trade == "" {
		return r.All()
	}

	out := make([]Worker, 0)
	if r == nil {
		return out
	}
	for _, w := range r.workers {
		if strings.EqualFold(w.Trade, trade) {
			out = append(out, w.clone())
		}
	}
	return out
}

// Find returns the worker with the given id.
func (r *Roster) Find(id string) (Worker, bool) {
	if r == nil {
		return Worker{}, false
	}
	idx, ok := r.byID[strings.TrimSpace(id)]
	if !ok {
		return Worker{}, false
	}
	return r.workers[idx].clone(), true
}

// Trades returns the distinct trades in roster order.
func (r *Roster) Trades() []string {
	seen := make(map[string]struct{})
	out := make([]string, 0)
	if r == nil {
		return out
	}
	for _, w := range r.workers {
		key := strings.ToLower(w.Trade)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, w.Trade)
	}
	return out
}

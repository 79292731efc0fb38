// Package display renders workers, quotes and chat replies for the terminal.
package display

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/spigell/powerus/internal/booking"
	"github.com/spigell/powerus/internal/chat"
	"github.com/spigell/powerus/internal/pricing"
	"github.com/spigell/powerus/internal/roster"
	"gopkg.in/yaml.v3"
)

// Format is an output format of the CLI.
type Format string

const (
	FormatHuman Format = "human"
	FormatJSON  Format = "json"
	FormatYAML  Format = "yaml"
)

// ParseFormat validates an --output value. Empty selects human output.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FormatHuman, nil
	case FormatHuman, FormatJSON, FormatYAML:
		return f, nil
	default:
		return "", fmt.Errorf("unknown output format %q (supported: %s, %s, %s)", s, FormatHuman, FormatJSON, FormatYAML)
	}
}

var (
	title   = color.New(color.FgCyan, color.Bold)
	faint   = color.New(color.FgHiBlack)
	price   = color.New(color.FgGreen, color.Bold)
	warning = color.New(color.FgYellow)
)

// Workers prints the roster.
func Workers(w io.Writer, format Format, workers []roster.Worker) error {
	if format != FormatHuman {
		return encode(w, format, map[string]any{"workers": workers})
	}

	if len(workers) == 0 {
		_, err := warning.Fprintln(w, "No workers found.")
		return err
	}

	for _, wk := range workers {
		title.Fprintf(w, "[%s] %s", wk.Initials(), wk.Name)
		fmt.Fprintf(w, " (%s, %s)\n", wk.Trade, wk.ID)
		fmt.Fprintf(w, "  rating %.1f, %d reviews, %d years, %d jobs\n", wk.Rating, wk.ReviewCount, wk.Experience, wk.CompletedJobs)
		fmt.Fprintf(w, "  $%.2f/h, %.1f mi away, %s\n", wk.HourlyRate, wk.Distance, strings.Join(wk.Availability, ", "))
		if len(wk.Specialties) > 0 {
			faint.Fprintf(w, "  %s\n", strings.Join(wk.Specialties, ", "))
		}
	}
	return nil
}

// Quote prints a price for the worker.
func Quote(w io.Writer, format Format, worker roster.Worker, result *pricing.Result) error {
	if format != FormatHuman {
		return encode(w, format, map[string]any{"worker": worker, "pricing": result})
	}

	title.Fprintf(w, "%s, %s\n", worker.Name, worker.Trade)
	writeQuote(w, result, "")
	return nil
}

// Reply prints a chat reply with its matches.
func Reply(w io.Writer, reply *chat.Reply) {
	fmt.Fprintln(w, reply.Response)
	if !reply.ShowMatches {
		return
	}

	for i, m := range reply.Matches {
		fmt.Fprintln(w)
		title.Fprintf(w, "%d. %s", i+1, m.Name)
		fmt.Fprintf(w, " (%s) match %.0f%%\n", m.Trade, m.MatchScore*100)
		faint.Fprintf(w, "   %s\n", m.Reasoning)
		if m.Pricing == nil {
			warning.Fprintln(w, "   No quote available right now.")
			continue
		}
		writeQuote(w, m.Pricing, "   ")
	}
}

// Booking prints a confirmed booking.
func Booking(w io.Writer, b booking.Booking) {
	price.Fprintf(w, "Booked %s (%s)", b.WorkerName, b.Trade)
	fmt.Fprintf(w, " for $%.2f, booking id %s\n", b.Total, b.ID)
}

// MatchLabel is the one-line description of a match used in selection prompts.
func MatchLabel(m chat.Match) string {
	if m.Pricing == nil {
		return fmt.Sprintf("%s (%s)", m.Name, m.Trade)
	}
	return fmt.Sprintf("%s (%s) $%.2f", m.Name, m.Trade, m.Pricing.Total)
}

func writeQuote(w io.Writer, r *pricing.Result, indent string) {
	fmt.Fprint(w, indent)
	price.Fprintf(w, "$%.2f", r.Total)
	faint.Fprintf(w, " [%s, confidence %.0f%%]\n", r.Source, r.Confidence*100)
	fmt.Fprintf(w, "%sbudget $%.2f, premium $%.2f\n", indent, r.Alternatives.Budget, r.Alternatives.Premium)

	b := r.Breakdown
	fmt.Fprintf(w, "%s%.1fh x $%.2f = $%.2f, x%.2f experience, x%.2f rating, x%.2f urgency\n",
		indent, b.Hours, b.BaseRate, b.BaseCost, b.ExperienceMultiplier, b.RatingMultiplier, b.UrgencyMultiplier)
	if b.TravelFee > 0 {
		fmt.Fprintf(w, "%stravel fee $%.2f\n", indent, b.TravelFee)
	}
	for _, fee := range b.AdditionalFees {
		fmt.Fprintf(w, "%s%s $%.2f\n", indent, strings.ToLower(fee.Factor), fee.Amount)
	}
	if r.Reasoning != "" {
		faint.Fprintf(w, "%s%s\n", indent, r.Reasoning)
	}
}

func encode(w io.Writer, format Format, v any) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unsupported output format %q", format)
	}
}

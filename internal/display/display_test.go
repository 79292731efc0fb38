package display

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/spigell/powerus/internal/booking"
	"github.com/spigell/powerus/internal/chat"
	"github.com/spigell/powerus/internal/pricing"
	"github.com/spigell/powerus/internal/problem"
	"github.com/spigell/powerus/internal/roster"
	"gopkg.in/yaml.v3"
)

func init() {
	color.NoColor = true
}

func rick(t *testing.T) roster.Worker {
	t.Helper()
	w, ok := roster.Default().Find("w2")
	if !ok {
		t.Fatalf("worker w2 is missing from the default roster")
	}
	return w
}

func quote(t *testing.T, w roster.Worker) *pricing.Result {
	t.Helper()
	res, err := pricing.NewEngine(nil).Price(w, problem.Default(), 2, nil)
	if err != nil {
		t.Fatalf("Price returned error: %v", err)
	}
	return res
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{in: "", want: FormatHuman},
		{in: "JSON", want: FormatJSON},
		{in: " yaml ", want: FormatYAML},
		{in: "xml", wantErr: true},
	}

	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Fatalf("ParseFormat(%q) expected error", tt.in)
			}
			continue
		}
		if err != nil {
			t.Fatalf("ParseFormat(%q) returned error: %v", tt.in, err)
		}
		if got != tt.want {
			t.Fatalf("ParseFormat(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestWorkersHuman(t *testing.T) {
	var buf bytes.Buffer
	if err := Workers(&buf, FormatHuman, []roster.Worker{rick(t)}); err != nil {
		t.Fatalf("Workers returned error: %v", err)
	}

	out := buf.String()
	for _, want := range []string{"[RM] Rick Martinez", "Plumber", "$65.00/h", "Leak repair"} {
		if !strings.Contains(out, want) {
			t.Fatalf("output %q does not contain %q", out, want)
		}
	}

	buf.Reset()
	if err := Workers(&buf, FormatHuman, nil); err != nil {
		t.Fatalf("Workers returned error: %v", err)
	}
	if !strings.Contains(buf.String(), "No workers found") {
		t.Fatalf("unexpected empty output %q", buf.String())
	}
}

func TestWorkersEncoded(t *testing.T) {
	var buf bytes.Buffer
	if err := Workers(&buf, FormatJSON, []roster.Worker{rick(t)}); err != nil {
		t.Fatalf("Workers returned error: %v", err)
	}

	var decoded struct {
		Workers []roster.Worker `json:"workers"`
	}
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("invalid json output: %v", err)
	}
	if len(decoded.Workers) != 1 || decoded.Workers[0].ID != "w2" {
		t.Fatalf("unexpected workers %+v", decoded.Workers)
	}

	buf.Reset()
	if err := Workers(&buf, FormatYAML, []roster.Worker{rick(t)}); err != nil {
		t.Fatalf("Workers returned error: %v", err)
	}
	var fromYAML struct {
		Workers []roster.Worker `yaml:"workers"`
	}
	if err := yaml.Unmarshal(buf.Bytes(), &fromYAML); err != nil {
		t.Fatalf("invalid yaml output: %v", err)
	}
	if len(fromYAML.Workers) != 1 || fromYAML.Workers[0].HourlyRate != 65 {
		t.Fatalf("unexpected workers %+v", fromYAML.Workers)
	}
}

func TestQuote(t *testing.T) {
	w := rick(t)
	res := quote(t, w)

	var buf bytes.Buffer
	if err := Quote(&buf, FormatHuman, w, res); err != nil {
		t.Fatalf("Quote returned error: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "Rick Martinez, Plumber") || !strings.Contains(out, "[fallback, confidence 70%]") {
		t.Fatalf("unexpected quote output %q", out)
	}

	buf.Reset()
	if err := Quote(&buf, FormatYAML, w, res); err != nil {
		t.Fatalf("Quote returned error: %v", err)
	}
	var decoded struct {
		Pricing pricing.Result `yaml:"pricing"`
	}
	if err := yaml.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("invalid yaml output: %v", err)
	}
	if decoded.Pricing.Total != res.Total {
		t.Fatalf("yaml total = %v, want %v", decoded.Pricing.Total, res.Total)
	}
}

func TestReply(t *testing.T) {
	w := rick(t)
	reply := &chat.Reply{
		Response:    "Recommended: Plumber.",
		ShowMatches: true,
		Matches: []chat.Match{
			{Worker: w, MatchScore: 0.87, Reasoning: "Plumber 2.3 mi away.", Pricing: quote(t, w)},
			{Worker: w, MatchScore: 0.5},
		},
	}

	var buf bytes.Buffer
	Reply(&buf, reply)

	out := buf.String()
	for _, want := range []string{"Recommended: Plumber.", "1. Rick Martinez", "match 87%", "2. Rick Martinez", "No quote available"} {
		if !strings.Contains(out, want) {
			t.Fatalf("output %q does not contain %q", out, want)
		}
	}

	buf.Reset()
	Reply(&buf, &chat.Reply{Response: "Where is the leak?"})
	if got := buf.String(); got != "Where is the leak?\n" {
		t.Fatalf("unexpected follow-up output %q", got)
	}
}

func TestMatchLabelAndBooking(t *testing.T) {
	w := rick(t)
	res := quote(t, w)

	if got := MatchLabel(chat.Match{Worker: w}); got != "Rick Martinez (Plumber)" {
		t.Fatalf("MatchLabel without pricing = %q", got)
	}
	if got := MatchLabel(chat.Match{Worker: w, Pricing: res}); !strings.HasPrefix(got, "Rick Martinez (Plumber) $") {
		t.Fatalf("MatchLabel with pricing = %q", got)
	}

	var buf bytes.Buffer
	Booking(&buf, booking.Booking{ID: "b1", WorkerName: w.Name, Trade: w.Trade, Total: 99.5, CreatedAt: time.Now()})
	if got := buf.String(); got != "Booked Rick Martinez (Plumber) for $99.50, booking id b1\n" {
		t.Fatalf("unexpected booking output %q", got)
	}
}

package roster

import (
	"strings"
	"unicode"
)

// Worker is a tradesperson that can be matched and quoted.
type Worker struct {
	ID             string   `json:"id" yaml:"id" validate:"required"`
	Name           string   `json:"name" yaml:"name" validate:"required"`
	Trade          string   `json:"trade" yaml:"trade" validate:"required"`
	Specialties    []string `json:"specialties" yaml:"specialties"`
	Rating         float64  `json:"rating" yaml:"rating" validate:"gte=0,lte=5"`
	ReviewCount    int      `json:"reviewCount" yaml:"reviewCount" validate:"gte=0"`
	Distance       float64  `json:"distance" yaml:"distance" validate:"gte=0"`
	HourlyRate     float64  `json:"hourlyRate" yaml:"hourlyRate" validate:"gt=0"`
	Experience     int      `json:"experience" yaml:"experience" validate:"gte=0"`
	CompletedJobs  int      `json:"completedJobs" yaml:"completedJobs" validate:"gte=0"`
	Certifications []string `json:"certifications" yaml:"certifications"`
	Availability   []string `json:"availability" yaml:"availability"`
}

// Initials returns up to two upper-case initials of the worker name.
func (w Worker) Initials() string {
	initials := make([]rune, 0, 2)
	for _, part := range strings.Fields(w.Name) {
		initials = append(initials, []rune(strings.ToUpper(part))[0])
		if len(initials) == 2 {
			break
		}
	}
	return string(initials)
}

// AvailableNow reports whether the worker can take a job today. A slot counts
// when it carries the word "today" or "now" and no negation.
func (w Worker) AvailableNow() bool {
	for _, slot := range w.Availability {
		if slotIsNow(slot) {
			return true
		}
	}
	return false
}

func slotIsNow(slot string) bool {
	fields := strings.FieldsFunc(strings.ToLower(slot), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	now := false
	for _, f := range fields {
		switch f {
		case "not", "no", "unavailable":
			return false
		case "today", "now":
			now = true
		}
	}
	return now
}

func (w Worker) clone() Worker {
	w.Specialties = append([]string{}, w.Specialties...)
	w.Certifications = append([]string{}, w.Certifications...)
	w.Availability = append([]string{}, w.Availability...)
	return w
}

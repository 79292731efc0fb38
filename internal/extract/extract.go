// Package extract locates a JSON object embedded in free-form LLM output.
package extract

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNoObject is reported when the text holds no balanced brace region.
	ErrNoObject = errors.New("no balanced json object found")
	// ErrInvalidJSON is reported when balanced regions exist but none decodes as a JSON object.
	ErrInvalidJSON = errors.New("json object is malformed")
)

// Error describes why a JSON object could not be recovered from a text.
type Error struct {
	// Candidates is the number of balanced regions that were tried.
	Candidates int
	Err        error
}

func (e *Error) Error() string {
	if e.Candidates > 0 {
		return fmt.Sprintf("extract json: %v (%d candidate regions)", e.Err, e.Candidates)
	}
	return fmt.Sprintf("extract json: %v", e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Raw returns the first balanced {...} region of text that decodes as a JSON object.
// Braces inside double-quoted strings do not count towards the depth.
func Raw(text string) (string, error) {
	candidates := 0
	var lastErr error

	for start := strings.IndexByte(text, '{'); start != -1; {
		end, ok := matchBrace(text, start)
		if !ok {
			next := strings.IndexByte(text[start+1:], '{')
			if next == -1 {
				break
			}
			start += next + 1
			continue
		}

		candidates++
		region := text[start : end+1]

		var probe map[string]json.RawMessage
		err := json.Unmarshal([]byte(region), &probe)
		if err == nil {
			return region, nil
		}
		lastErr = err

		next := strings.IndexByte(text[start+1:], '{')
		if next == -1 {
			break
		}
		start += next + 1
	}

	if candidates == 0 {
		return "", &Error{Err: ErrNoObject}
	}

	return "", &Error{Candidates: candidates, Err: fmt.Errorf("%w: %v", ErrInvalidJSON, lastErr)}
}

// Object extracts the first JSON object of text and decodes it.
func Object(text string) (map[string]any, error) {
	region, err := Raw(text)
	if err != nil {
		return nil, err
	}

	var data map[string]any
	if err := json.Unmarshal([]byte(region), &data); err != nil {
		return nil, &Error{Candidates: 1, Err: fmt.Errorf("%w: %v", ErrInvalidJSON, err)}
	}

	return data, nil
}

// matchBrace returns the index of the brace closing the one at open.
func matchBrace(text string, open int) (int, bool) {
	depth := 0
	inString := false
	escaped := false

	for i := open; i < len(text); i++ {
		c := text[i]

		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}

		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i, true
			}
		}
	}

	return 0, false
}

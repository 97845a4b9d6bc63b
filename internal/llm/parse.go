package llm

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrMalformedOutput indicates the service response could not be normalized
// into the expected JSON shape.
var ErrMalformedOutput = errors.New("malformed LLM output")

// stripFences removes a wrapping markdown code fence, optionally tagged as
// JSON, from the response text. Models frequently fence their output even
// when told not to.
func stripFences(raw string) string {
	s := strings.TrimSpace(raw)
	if strings.HasPrefix(s, "```json") {
		s = s[len("```json"):]
	} else if strings.HasPrefix(s, "```") {
		s = s[len("```"):]
	}
	if strings.HasSuffix(s, "```") {
		s = s[:len(s)-len("```")]
	}
	return strings.TrimSpace(s)
}

// ParseObject normalizes a service response into a JSON object. Beyond fence
// stripping there is no recovery: if the remaining text is not a single valid
// JSON object the call fails with ErrMalformedOutput. This is deliberately
// narrower than the array recovery in ExtractArray.
func ParseObject(raw string) (map[string]any, error) {
	s := stripFences(raw)

	var obj map[string]any
	if err := json.Unmarshal([]byte(s), &obj); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrMalformedOutput, truncate(s, 200))
	}
	return obj, nil
}

// ExtractArray normalizes a service response into the text of a JSON array.
// After fence stripping, if the text is not itself an array it falls back to
// extracting the outermost bracketed span. Used only for flashcard
// generation, where the surrounding prose varies more than judge output.
func ExtractArray(raw string) (string, error) {
	s := stripFences(raw)

	if i, j := strings.Index(s, "["), strings.LastIndex(s, "]"); i >= 0 && j > i {
		s = s[i : j+1]
	}
	if !json.Valid([]byte(s)) {
		return "", fmt.Errorf("%w: %s", ErrMalformedOutput, truncate(s, 200))
	}
	return s, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

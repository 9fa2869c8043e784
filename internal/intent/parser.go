// Package intent decodes structured intents out of free-form assistant
// replies. The reply may wrap the object in markdown fences or surrounding
// prose; the parser locates the embedded {...} span and decodes it.
package intent

import (
	"encoding/json"
	"strings"

	"shopchat/internal/domain"
)

// defaultMessage stands in when the decoded object carries no message.
const defaultMessage = "Processed."

type wireIntent struct {
	Message  string `json:"message"`
	Action   string `json:"action"`
	Item     string `json:"item"`
	Quantity int    `json:"quantity"`
}

// Parse locates the first outermost balanced {...} span in text and
// decodes it. It fails with *domain.IntentParseError when no balanced span
// exists or the span is not a decodable object.
func Parse(text string) (*domain.Intent, error) {
	span, ok := balancedSpan(text)
	if !ok {
		return nil, &domain.IntentParseError{Reason: "no balanced object found"}
	}
	return decode(span)
}

// ParseGreedy reproduces the historical first-`{` to last-`}` match. It
// breaks when the text contains more than one object (the span covers them
// all and fails to decode); kept only for compatibility with the original
// behavior.
func ParseGreedy(text string) (*domain.Intent, error) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return nil, &domain.IntentParseError{Reason: "no object found"}
	}
	return decode(text[start : end+1])
}

func decode(span string) (*domain.Intent, error) {
	var w wireIntent
	if err := json.Unmarshal([]byte(span), &w); err != nil {
		return nil, &domain.IntentParseError{Reason: "object is not valid JSON: " + err.Error()}
	}

	in := &domain.Intent{
		Message:  w.Message,
		Action:   domain.ActionNone,
		Item:     w.Item,
		Quantity: w.Quantity,
	}
	if in.Message == "" {
		in.Message = defaultMessage
	}
	// Unrecognized actions collapse to NONE, and an order with no item
	// cannot be acted on, so it degrades to a plain message.
	if w.Action == string(domain.ActionCreateOrder) && w.Item != "" {
		in.Action = domain.ActionCreateOrder
	}
	if in.Quantity <= 0 {
		in.Quantity = 1
	}
	return in, nil
}

// balancedSpan returns the first substring beginning at '{' and ending at
// the matching outermost '}', tracking nesting depth and skipping braces
// inside JSON strings.
func balancedSpan(text string) (string, bool) {
	start := strings.Index(text, "{")
	if start < 0 {
		return "", false
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
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
				return text[start : i+1], true
			}
		}
	}
	return "", false
}

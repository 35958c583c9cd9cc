package extract

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"storevisit/internal/findings"
	"storevisit/internal/textutil"
)

var (
	// ErrNoPayload means the response holds no balanced {...} span.
	ErrNoPayload = errors.New("no structured payload")
	// ErrMalformedPayload means a span was found but none decoded into the
	// expected shape.
	ErrMalformedPayload = errors.New("malformed structured payload")
)

// DefaultConfidence is assigned to items that omit a confidence value.
const DefaultConfidence = 1.0

// Payload is a successfully decoded structured model response.
type Payload struct {
	// Transcript is the decoded transcript, or the full raw response when the
	// payload omits it.
	Transcript string
	// TranscriptFromPayload is false when Transcript fell back to the raw text.
	TranscriptFromPayload bool
	Items                 []findings.Candidate
}

type itemPayload struct {
	Category   string   `json:"category"`
	Text       string   `json:"text"`
	Confidence *float64 `json:"confidence"`
}

// Parse looks for an embedded {"transcript": ..., "categorized_items": [...]}
// object in a model response. Failure is reported through ErrNoPayload or
// ErrMalformedPayload; Parse never panics on arbitrary input.
func Parse(raw string) (Payload, error) {
	body := stripCodeFences(raw)
	spans := objectSpans(body)
	if len(spans) == 0 {
		return Payload{}, ErrNoPayload
	}
	var lastErr error
	for _, span := range spans {
		payload, err := decode(span, raw)
		if err == nil {
			return payload, nil
		}
		lastErr = err
	}
	return Payload{}, fmt.Errorf("%w: %v (snippet: %s)", ErrMalformedPayload, lastErr, textutil.Snippet(body, 160))
}

// DecodeObject unmarshals the first embedded JSON object in raw that decodes
// into target.
func DecodeObject(raw string, target any) error {
	spans := objectSpans(stripCodeFences(raw))
	if len(spans) == 0 {
		return ErrNoPayload
	}
	var lastErr error
	for _, span := range spans {
		if lastErr = json.Unmarshal([]byte(span), target); lastErr == nil {
			return nil
		}
	}
	return fmt.Errorf("%w: %v", ErrMalformedPayload, lastErr)
}

func decode(span, raw string) (Payload, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(span), &fields); err != nil {
		return Payload{}, err
	}

	payload := Payload{Transcript: raw}
	if value, ok := fields["transcript"]; ok && !isNull(value) {
		var transcript string
		if err := json.Unmarshal(value, &transcript); err != nil {
			return Payload{}, fmt.Errorf("transcript: %w", err)
		}
		payload.Transcript = transcript
		payload.TranscriptFromPayload = true
	}

	var rawItems []json.RawMessage
	if value, ok := fields["categorized_items"]; ok && !isNull(value) {
		if err := json.Unmarshal(value, &rawItems); err != nil {
			rawItems = nil
		}
	}
	payload.Items = make([]findings.Candidate, 0, len(rawItems))
	for i, rawItem := range rawItems {
		if isNull(rawItem) {
			return Payload{}, fmt.Errorf("categorized_items[%d]: null item", i)
		}
		var item itemPayload
		if err := json.Unmarshal(rawItem, &item); err != nil {
			return Payload{}, fmt.Errorf("categorized_items[%d]: %w", i, err)
		}
		confidence := DefaultConfidence
		if item.Confidence != nil {
			confidence = *item.Confidence
		}
		payload.Items = append(payload.Items, findings.Candidate{
			Category:   item.Category,
			Text:       item.Text,
			Confidence: confidence,
		})
	}
	return payload, nil
}

func isNull(value json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(value), []byte("null"))
}

// stripCodeFences removes a ``` fence opening before the payload (with its
// language tag) and a closing fence after it. Backticks inside the payload are
// left alone.
func stripCodeFences(content string) string {
	trimmed := strings.TrimSpace(content)
	open := strings.Index(trimmed, "```")
	if open < 0 {
		return trimmed
	}
	if brace := strings.IndexByte(trimmed, '{'); brace >= 0 && brace < open {
		return trimmed
	}
	body := trimmed[open+3:]
	if nl := strings.IndexByte(body, '\n'); nl >= 0 && !strings.Contains(body[:nl], "{") {
		body = body[nl+1:]
	} else {
		body = strings.TrimLeft(body, " \t")
		if len(body) >= 4 && strings.EqualFold(body[:4], "json") {
			body = body[4:]
		}
	}
	if end := strings.LastIndex(body, "```"); end >= 0 && end > strings.LastIndexByte(body, '}') {
		body = body[:end]
	}
	return strings.TrimSpace(body)
}

// objectSpans returns every outermost balanced {...} span in order. Braces
// inside JSON string literals do not count toward nesting.
func objectSpans(content string) []string {
	var spans []string
	depth := 0
	start := -1
	inString := false
	escaped := false
	for i := 0; i < len(content); i++ {
		c := content[i]
		if depth == 0 {
			if c == '{' {
				depth = 1
				start = i
				inString = false
				escaped = false
			}
			continue
		}
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
				spans = append(spans, content[start:i+1])
				start = -1
			}
		}
	}
	return spans
}

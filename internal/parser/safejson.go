package parser

import (
	"encoding/json"
	"fmt"
	"regexp"
)

var (
	jsonSpanRe = regexp.MustCompile(`(?s)(\{.*\}|\[.*\])`)
	fenceRe    = regexp.MustCompile("```json\\s*|\\s*```")
)

// DecodeLoose unmarshals JSON that a model may have wrapped in prose or
// fenced code blocks. Strategies, in order: direct parse, first balanced
// {...} or [...] span, reparse after stripping fence markers.
func DecodeLoose(text string, v interface{}) error {
	if err := json.Unmarshal([]byte(text), v); err == nil {
		return nil
	}
	if span := jsonSpanRe.FindString(text); span != "" {
		if err := json.Unmarshal([]byte(span), v); err == nil {
			return nil
		}
	}
	clean := fenceRe.ReplaceAllString(text, "")
	if err := json.Unmarshal([]byte(clean), v); err != nil {
		return fmt.Errorf("failed to parse JSON from model response: %w", err)
	}
	return nil
}

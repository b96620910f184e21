package openrouter

import (
	"encoding/json"
	"strings"
)

const previewRunes = 500

// StripFences removes one markdown code fence around a model reply.
// Unfenced text is only trimmed.
func StripFences(text string) string {
	s := strings.TrimSpace(text)
	if strings.HasPrefix(s, "```json") {
		s = s[len("```json"):]
	} else if strings.HasPrefix(s, "```") {
		s = s[len("```"):]
	}
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// ParseJSONResponse decodes a (possibly fenced) JSON model reply into out.
func ParseJSONResponse(text string, out any) error {
	cleaned := StripFences(text)
	if err := json.Unmarshal([]byte(cleaned), out); err != nil {
		return &ParseError{Err: err, Preview: preview(cleaned)}
	}
	return nil
}

func preview(s string) string {
	r := []rune(s)
	if len(r) <= previewRunes {
		return s
	}
	return string(r[:previewRunes])
}

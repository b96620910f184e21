package openrouter

import (
	"fmt"
)

type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return "openrouter: configuration error: " + e.Reason
}

// CompletionError is either an upstream HTTP failure or a well-formed reply
// that carried nothing usable.
type CompletionError struct {
	StatusCode int
	Body       string
	Reason     string
}

func (e *CompletionError) Error() string {
	if e == nil {
		return "openrouter completion error"
	}
	if e.Reason != "" {
		return "openrouter completion error: " + e.Reason
	}
	if e.Body == "" {
		return fmt.Sprintf("openrouter completion error: status=%d", e.StatusCode)
	}
	return fmt.Sprintf("openrouter completion error: status=%d body=%s", e.StatusCode, e.Body)
}

type ParseError struct {
	Err     error
	Preview string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("model response is not valid JSON: %v (preview: %q)", e.Err, e.Preview)
}

func (e *ParseError) Unwrap() error { return e.Err }

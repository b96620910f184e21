package haloscan

import "fmt"

// ConfigurationError is returned before any request when the client cannot
// authenticate.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return "haloscan: configuration error: " + e.Reason
}

// ProviderError carries either a non-2xx status, a failure_reason reported
// inside an otherwise successful response, or a transport or decode failure
// (StatusCode is 0 for transport failures).
type ProviderError struct {
	Endpoint      string
	StatusCode    int
	Body          string
	FailureReason string
	Err           error
}

func (e *ProviderError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func (e *ProviderError) Error() string {
	if e == nil {
		return "haloscan error"
	}
	if e.FailureReason != "" {
		return fmt.Sprintf("haloscan %s: %s", e.Endpoint, e.FailureReason)
	}
	if e.Body == "" {
		return fmt.Sprintf("haloscan %s: status=%d", e.Endpoint, e.StatusCode)
	}
	return fmt.Sprintf("haloscan %s: status=%d body=%s", e.Endpoint, e.StatusCode, e.Body)
}

package httpclient

import "fmt"

// ErrorKind classifies fetch failures so callers can pick a fallback
// without inspecting error strings.
type ErrorKind string

const (
	// KindNetwork covers transport-level failures: DNS, connect, timeout.
	KindNetwork ErrorKind = "network"
	// KindStatus covers responses outside the 2xx range.
	KindStatus ErrorKind = "status"
	// KindDecode covers malformed response bodies.
	KindDecode ErrorKind = "decode"
)

// FetchError is the single error type produced by rate-limited fetches.
type FetchError struct {
	Kind       ErrorKind
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	switch e.Kind {
	case KindStatus:
		return fmt.Sprintf("fetch %s: status %d", e.URL, e.StatusCode)
	case KindDecode:
		return fmt.Sprintf("fetch %s: decode response: %v", e.URL, e.Err)
	default:
		return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
	}
}

func (e *FetchError) Unwrap() error { return e.Err }

// NewDecodeError builds a decode-kind FetchError for the given URL.
func NewDecodeError(url string, err error) *FetchError {
	return &FetchError{Kind: KindDecode, URL: url, Err: err}
}

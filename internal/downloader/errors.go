package downloader

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidURL marks input that is not an absolute URL with a host.
	ErrInvalidURL = errors.New("invalid url")

	// ErrNoMediaFound means a page was fetched and parsed but no extraction
	// rule produced a media URL.
	ErrNoMediaFound = errors.New("no media found on page")

	// ErrTimeout marks an acquisition that exceeded its deadline.
	ErrTimeout = errors.New("download timed out")
)

// HTTPError is a non-2xx response from the origin server.
type HTTPError struct {
	Status int
	URL    string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("http status %d fetching %s", e.Status, e.URL)
}

// ExtractionError wraps a failure of an external extraction engine, keeping
// the engine's own diagnostics for the log.
type ExtractionError struct {
	Engine string
	Detail string
	Err    error
}

func (e *ExtractionError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s extraction failed: %s", e.Engine, e.Detail)
	}
	return fmt.Sprintf("%s extraction failed: %v", e.Engine, e.Err)
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}

package httpclient

import "fmt"

// HTTPError represents a non-2xx response from a remote server
type HTTPError struct {
	StatusCode int
	URL        string
	Message    string
	// Body holds the (possibly truncated) response body
	Body string
}

// NewHTTPError creates a new HTTPError
func NewHTTPError(statusCode int, url, message string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		URL:        url,
		Message:    message,
	}
}

// Error implements the error interface
func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP %d for URL %s: %s", e.StatusCode, e.URL, e.Message)
}

// IsClientError reports whether the status is in the 4xx range
func (e *HTTPError) IsClientError() bool {
	return e.StatusCode >= 400 && e.StatusCode < 500
}

package umbraco

import (
	"errors"
	"fmt"
	"net/http"
)

// APIError is returned when the Delivery API answers with a non-2xx status
type APIError struct {
	StatusCode int
	Status     string
	Endpoint   string
	Body       string
}

func (e *APIError) Error() string {
	msg := fmt.Sprintf("umbraco API error: %d %s", e.StatusCode, statusText(e))
	if e.Body != "" {
		msg += " - " + e.Body
	}
	return msg
}

func statusText(e *APIError) string {
	if e.Status != "" {
		return e.Status
	}
	return http.StatusText(e.StatusCode)
}

// IsNotFound reports whether err is an APIError with status 404
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// APIError is a non-2xx response from the remote API. Detail carries the
// server's "detail" or "error" message when one was present in the body.
type APIError struct {
	StatusCode int
	Detail     string
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("api: %d: %s", e.StatusCode, e.Detail)
	}
	return fmt.Sprintf("api: unexpected status %d", e.StatusCode)
}

// IsUnauthorized reports whether err is a 401 from the API. A 401 is the
// authoritative signal that the stored token is invalid.
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusUnauthorized
}

// errorBody is the error envelope used across the backend. Django REST
// endpoints are inconsistent about the key, so both are tried.
type errorBody struct {
	Detail string `json:"detail"`
	Err    string `json:"error"`
}

// newAPIError decodes the error body (best effort) into an APIError.
func newAPIError(statusCode int, body []byte) *APIError {
	apiErr := &APIError{StatusCode: statusCode}

	var eb errorBody
	if err := json.Unmarshal(body, &eb); err == nil {
		if eb.Detail != "" {
			apiErr.Detail = eb.Detail
		} else if eb.Err != "" {
			apiErr.Detail = eb.Err
		}
	}
	return apiErr
}

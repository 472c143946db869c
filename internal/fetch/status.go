package fetch

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
)

// StatusError is a non-200 response. Body is truncated for readability.
type StatusError struct {
	Code int
	Body string
}

func newStatusError(code int, body []byte) *StatusError {
	if len(body) > maxErrorBody {
		body = append(body[:maxErrorBody:maxErrorBody], "... (truncated)"...)
	}
	return &StatusError{Code: code, Body: string(body)}
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("API returned status %d: %s", e.Code, Describe(e.Code))
}

// Describe explains a status code the way the Hypixel API documents it.
func Describe(code int) string {
	switch code {
	case http.StatusOK:
		return "OK"
	case http.StatusBadRequest:
		return "Some data is missing, usually a required field."
	case http.StatusForbidden:
		return "Access is forbidden, possibly due to an invalid API key."
	case http.StatusUnprocessableEntity:
		return "Some data provided is invalid."
	case http.StatusTooManyRequests:
		return "Request limit reached; the key's limit may have been exceeded or a global throttle is in effect."
	default:
		return "Unexpected response."
	}
}

// IsStatus reports whether err is a StatusError with one of the codes.
func IsStatus(err error, codes ...int) bool {
	var se *StatusError
	if !errors.As(err, &se) {
		return false
	}
	for _, c := range codes {
		if se.Code == c {
			return true
		}
	}
	return false
}

// redact strips query parameters, which may carry an API key, from URLs
// before they are logged.
func redact(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	u.RawQuery = ""
	return u.String()
}

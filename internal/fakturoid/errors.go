package fakturoid

import (
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/tidwall/gjson"
)

// APIError is a non-2xx response carrying the general OAuth/API error
// shape {"error": "...", "error_description": "..."}.
type APIError struct {
	StatusCode  int
	Status      string
	Code        string
	Description string
}

func (e *APIError) Error() string {
	if e.Description != "" {
		return fmt.Sprintf("API error %d %s: %s (%s)", e.StatusCode, e.Status, e.Code, e.Description)
	}
	return fmt.Sprintf("API error %d %s: %s", e.StatusCode, e.Status, e.Code)
}

// InvalidDataError is a non-2xx response carrying per-field validation
// messages: {"errors": {"field": ["message", ...]}}.
type InvalidDataError struct {
	StatusCode int
	Status     string
	Fields     map[string][]string
}

func (e *InvalidDataError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, name+": "+strings.Join(e.Fields[name], "; "))
	}
	return fmt.Sprintf("invalid data %d %s: %s", e.StatusCode, e.Status, strings.Join(parts, ", "))
}

// UnexpectedError is a non-2xx response whose body matches neither known
// error shape. The raw body text is kept for diagnostics.
type UnexpectedError struct {
	StatusCode int
	Status     string
	Body       string
}

func (e *UnexpectedError) Error() string {
	return fmt.Sprintf("unexpected API error %d %s: %s", e.StatusCode, e.Status, e.Body)
}

// classifyError discriminates a non-2xx response body into one of the
// three error types. The body is sniffed rather than fully decoded, so
// broken JSON still yields a useful UnexpectedError.
func classifyError(statusCode int, status string, body []byte) error {
	if gjson.ValidBytes(body) {
		if v := gjson.GetBytes(body, "error"); v.Exists() {
			return &APIError{
				StatusCode:  statusCode,
				Status:      status,
				Code:        v.String(),
				Description: gjson.GetBytes(body, "error_description").String(),
			}
		}

		if v := gjson.GetBytes(body, "errors"); v.IsObject() {
			fields := make(map[string][]string)
			v.ForEach(func(key, value gjson.Result) bool {
				var messages []string
				for _, m := range value.Array() {
					messages = append(messages, m.String())
				}
				fields[key.String()] = messages
				return true
			})
			return &InvalidDataError{StatusCode: statusCode, Status: status, Fields: fields}
		}
	}

	return &UnexpectedError{StatusCode: statusCode, Status: status, Body: string(body)}
}

// IsRateLimited reports whether err represents an HTTP 429 response,
// whichever error type carries it.
func IsRateLimited(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == http.StatusTooManyRequests
	}

	var dataErr *InvalidDataError
	if errors.As(err, &dataErr) {
		return dataErr.StatusCode == http.StatusTooManyRequests
	}

	var unexpErr *UnexpectedError
	if errors.As(err, &unexpErr) {
		return unexpErr.StatusCode == http.StatusTooManyRequests
	}

	return false
}

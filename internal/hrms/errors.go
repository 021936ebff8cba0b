package hrms

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	// ErrNetwork covers transport failures: the request never got an answer.
	ErrNetwork = errors.New("network error")
	// ErrUnauthorized means the session expired or was never valid (401).
	ErrUnauthorized = errors.New("unauthorized")
	// ErrForbidden means the session is fine but the role lacks access (403).
	ErrForbidden = errors.New("forbidden")
	// ErrValidation is a 400/422 rejection of the submitted data.
	ErrValidation = errors.New("validation failed")
	// ErrServer is any other non-2xx answer.
	ErrServer = errors.New("server error")
)

// APIError is a non-2xx answer from the backend.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("hrms: %d %s", e.Status, http.StatusText(e.Status))
	}
	return fmt.Sprintf("hrms: %d %s", e.Status, e.Message)
}

// Unwrap maps the status onto one of the sentinel errors.
func (e *APIError) Unwrap() error {
	switch {
	case e.Status == http.StatusUnauthorized:
		return ErrUnauthorized
	case e.Status == http.StatusForbidden:
		return ErrForbidden
	case e.Status == http.StatusBadRequest || e.Status == http.StatusUnprocessableEntity ||
		e.Status == http.StatusConflict || e.Status == http.StatusNotFound:
		return ErrValidation
	}
	return ErrServer
}

// decodeError builds an APIError from an error body. FastAPI style
// {"detail": ...} and gin style {"error": ...} bodies are both understood.
func decodeError(status int, body []byte) *APIError {
	apiErr := &APIError{Status: status}

	var payload struct {
		Detail  json.RawMessage `json:"detail"`
		Error   string          `json:"error"`
		Message string          `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		apiErr.Message = strings.TrimSpace(string(body))
		return apiErr
	}

	switch {
	case len(payload.Detail) > 0:
		var s string
		if err := json.Unmarshal(payload.Detail, &s); err == nil {
			apiErr.Message = s
		} else {
			apiErr.Message = validationDetail(payload.Detail)
		}
	case payload.Error != "":
		apiErr.Message = payload.Error
	default:
		apiErr.Message = payload.Message
	}
	return apiErr
}

// validationDetail flattens a list of {"loc": [...], "msg": "..."} entries.
func validationDetail(raw json.RawMessage) string {
	var items []struct {
		Loc []any  `json:"loc"`
		Msg string `json:"msg"`
	}
	if err := json.Unmarshal(raw, &items); err != nil || len(items) == 0 {
		return string(raw)
	}
	parts := make([]string, 0, len(items))
	for _, item := range items {
		if len(item.Loc) > 0 {
			parts = append(parts, fmt.Sprintf("%v: %s", item.Loc[len(item.Loc)-1], item.Msg))
		} else {
			parts = append(parts, item.Msg)
		}
	}
	return strings.Join(parts, "; ")
}

// Outcome classifies err for metrics and logs.
func Outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrNetwork):
		return "network"
	case errors.Is(err, ErrUnauthorized):
		return "unauthorized"
	case errors.Is(err, ErrForbidden):
		return "forbidden"
	case errors.Is(err, ErrValidation):
		return "validation"
	}
	return "server"
}

// UserMessage turns err into the text of a transient toast.
func UserMessage(err error) string {
	var apiErr *APIError
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrNetwork):
		return "Cannot reach the HRMS server, check your connection"
	case errors.As(err, &apiErr) && apiErr.Message != "":
		return apiErr.Message
	case errors.Is(err, ErrUnauthorized):
		return "Session expired, please log in again"
	case errors.Is(err, ErrForbidden):
		return "You do not have permission to do that"
	case errors.Is(err, ErrValidation):
		return "The server rejected the request"
	}
	return "Something went wrong, please try again"
}

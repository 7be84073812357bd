package api

import (
	"errors"
	"fmt"
	"net/http"
)

// Server status codes outside the HTTP range
const (
	StatusCaptchaRequired = 600
	StatusBadCredentials  = 601
	StatusCaptchaLocked   = 603
	StatusBadExtension    = 604
	StatusBadPath         = 605
)

// StatusError is returned for every response whose status is not a success
type StatusError struct {
	Op   string // e.g. "GET /api/dir/docs/"
	Code int
	Body string // raw server text, may be empty
}

func (e *StatusError) Error() string {
	if e.Body != "" {
		return fmt.Sprintf("%s: %s (%d: %s)", e.Op, e.Message(), e.Code, e.Body)
	}
	return fmt.Sprintf("%s: %s (%d)", e.Op, e.Message(), e.Code)
}

// Message returns the user-facing text for the status code
func (e *StatusError) Message() string {
	return StatusMessage(e.Code)
}

// StatusMessage maps a status code to a fixed user-facing message
func StatusMessage(code int) string {
	switch code {
	case http.StatusBadRequest:
		return "input parameters are incorrect"
	case http.StatusUnauthorized:
		return "not logged in, please sign in"
	case http.StatusForbidden:
		return "insufficient permission"
	case http.StatusNotFound, http.StatusInternalServerError, http.StatusServiceUnavailable:
		return "page does not exist"
	case StatusCaptchaRequired, StatusCaptchaLocked:
		return "captcha required"
	case StatusBadCredentials:
		return "incorrect user name or password"
	case StatusBadExtension:
		return "file extension not allowed"
	case StatusBadPath:
		return "invalid file or folder path"
	default:
		return "unknown error"
	}
}

// IsUnauthorized reports whether err carries a 401
func IsUnauthorized(err error) bool {
	return statusCode(err) == http.StatusUnauthorized
}

// IsForbidden reports whether err carries a 403
func IsForbidden(err error) bool {
	return statusCode(err) == http.StatusForbidden
}

// NeedsCaptcha reports whether the server asked for a CAPTCHA
func NeedsCaptcha(err error) bool {
	code := statusCode(err)
	return code == StatusCaptchaRequired || code == StatusCaptchaLocked
}

// IsBadCredentials reports whether the login was rejected
func IsBadCredentials(err error) bool {
	return statusCode(err) == StatusBadCredentials
}

// UserMessage returns the message to show for err
func UserMessage(err error) string {
	var se *StatusError
	if errors.As(err, &se) {
		return se.Message()
	}
	return err.Error()
}

func statusCode(err error) int {
	var se *StatusError
	if errors.As(err, &se) {
		return se.Code
	}
	return 0
}

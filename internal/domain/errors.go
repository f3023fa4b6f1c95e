package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound   = errors.New("not found")
	ErrValidation = errors.New("validation failed")

	// Upstream failure kinds; *UpstreamError unwraps to one of these.
	ErrTransport        = errors.New("upstream transport failure")
	ErrAuthentication   = errors.New("upstream authentication failure")
	ErrInsufficientData = errors.New("upstream insufficient data")
	ErrUpstreamStatus   = errors.New("upstream non-OK status")
)

// UpstreamError describes a failed upstream call.
type UpstreamError struct {
	Kind       error
	Endpoint   string
	HTTPStatus int
	Status     string // provider envelope status, e.g. AUTHENTICATION_ERROR
	Code       string // provider error code, if any
	Err        error  // underlying cause (network, decode)
}

func (e *UpstreamError) Error() string {
	msg := fmt.Sprintf("upstream %s: %v", e.Endpoint, e.Kind)
	if e.HTTPStatus != 0 {
		msg += fmt.Sprintf(" (http %d)", e.HTTPStatus)
	}
	if e.Status != "" {
		msg += " status=" + e.Status
	}
	if e.Code != "" {
		msg += " code=" + e.Code
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *UpstreamError) Unwrap() []error {
	if e.Err != nil {
		return []error{e.Kind, e.Err}
	}
	return []error{e.Kind}
}

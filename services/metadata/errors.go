package metadata

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorKind classifies a failed provider call.
type ErrorKind string

const (
	KindUnavailable ErrorKind = "unavailable"
	KindMalformed   ErrorKind = "malformed"
	KindAuth        ErrorKind = "auth"
	KindNotFound    ErrorKind = "not_found"
	KindStatus      ErrorKind = "status"
)

var (
	ErrUpstreamUnavailable = errors.New("upstream unavailable")
	ErrUpstreamMalformed   = errors.New("upstream response malformed")
	ErrUpstreamAuth        = errors.New("upstream rejected credentials")
	ErrUpstreamNotFound    = errors.New("upstream resource not found")
)

// UpstreamError is returned for every failed provider call. It matches the
// ErrUpstream* sentinels with errors.Is.
type UpstreamError struct {
	Provider   string
	Endpoint   string
	Kind       ErrorKind
	StatusCode int
	Err        error
}

func (e *UpstreamError) Error() string {
	msg := fmt.Sprintf("%s %s: %s", e.Provider, e.Endpoint, e.sentinel())
	if e.StatusCode != 0 {
		msg += fmt.Sprintf(" (status %d)", e.StatusCode)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

func (e *UpstreamError) Is(target error) bool {
	return target == e.sentinel()
}

func (e *UpstreamError) sentinel() error {
	switch e.Kind {
	case KindUnavailable:
		return ErrUpstreamUnavailable
	case KindMalformed:
		return ErrUpstreamMalformed
	case KindAuth:
		return ErrUpstreamAuth
	case KindNotFound:
		return ErrUpstreamNotFound
	default:
		return errUpstreamStatus
	}
}

var errUpstreamStatus = errors.New("upstream returned an error status")

func kindForStatus(code int) ErrorKind {
	switch code {
	case http.StatusUnauthorized, http.StatusForbidden:
		return KindAuth
	case http.StatusNotFound:
		return KindNotFound
	default:
		return KindStatus
	}
}

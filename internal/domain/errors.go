package domain

import (
	"errors"
	"strings"
)

// Sentinel errors for domain-level error discrimination.
// Services wrap these so handlers can map to HTTP status codes without leaking infrastructure details.
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrBadRequest   = errors.New("bad request")
	ErrUnavailable  = errors.New("upstream unavailable")
)

var sentinels = []error{ErrNotFound, ErrConflict, ErrUnauthorized, ErrForbidden, ErrBadRequest, ErrUnavailable}

// Reason returns err's message without a trailing wrapped sentinel, so
// "Email is required: bad request" reads "Email is required".
func Reason(err error) string {
	msg := err.Error()
	for _, s := range sentinels {
		if trimmed, ok := strings.CutSuffix(msg, ": "+s.Error()); ok {
			return trimmed
		}
	}
	return msg
}

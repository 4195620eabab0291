// Package apperr defines the error taxonomy for API operations and the
// JSON rendering used by every handler.
//
// Handlers and stores return one of four request-level kinds:
//   - Validation (400): malformed or out-of-range input
//   - Forbidden (403): wrong role or not the resource owner
//   - NotFound (404): referenced entity absent
//   - Conflict (409): state already decided (duplicate submission,
//     double approval, accepting a resolved allocation)
//
// Anything else is treated as an internal error: logged with zap and
// rendered as a generic 500 so DB details never leak to clients.
package apperr

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"
)

// Kind classifies an API error.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindForbidden
	KindNotFound
	KindConflict
	KindUnauthorized
)

// Error is a request-level failure with a message safe to show the caller.
type Error struct {
	Kind Kind
	Msg  string
}

func (e *Error) Error() string { return e.Msg }

// Validation reports malformed or out-of-range input.
func Validation(msg string) error { return &Error{Kind: KindValidation, Msg: msg} }

// Forbidden reports a role or ownership violation.
func Forbidden(msg string) error { return &Error{Kind: KindForbidden, Msg: msg} }

// NotFound reports a missing entity.
func NotFound(msg string) error { return &Error{Kind: KindNotFound, Msg: msg} }

// Conflict reports a state that is already decided.
func Conflict(msg string) error { return &Error{Kind: KindConflict, Msg: msg} }

// Unauthorized reports a missing or invalid session.
func Unauthorized(msg string) error { return &Error{Kind: KindUnauthorized, Msg: msg} }

// KindOf returns the kind of err, or KindInternal for unknown errors.
func KindOf(err error) Kind {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return KindInternal
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, k Kind) bool { return KindOf(err) == k }

func statusOf(k Kind) int {
	switch k {
	case KindValidation:
		return http.StatusBadRequest
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	case KindUnauthorized:
		return http.StatusUnauthorized
	}
	return http.StatusInternalServerError
}

// Write renders err as the JSON error envelope. Request-level kinds map to
// their status with the message verbatim; unknown errors are logged and
// rendered as a generic 500.
func Write(w http.ResponseWriter, log *zap.Logger, op string, err error) {
	var ae *Error
	if !errors.As(err, &ae) {
		if log != nil {
			log.Error(op, zap.Error(err))
		}
		writeJSON(w, http.StatusInternalServerError, "internal server error")
		return
	}
	writeJSON(w, statusOf(ae.Kind), ae.Msg)
}

func writeJSON(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

package domain

import (
	"errors"
	"fmt"
	"strconv"
)

// ErrKind groups errors by how callers must react; transport maps it to a status.
type ErrKind string

const (
	KindValidation     ErrKind = "validation"     // 400
	KindAuth           ErrKind = "auth"           // 401
	KindForbidden      ErrKind = "forbidden"      // 403
	KindNotFound       ErrKind = "not_found"      // 404
	KindRateLimited    ErrKind = "rate_limited"   // 429
	KindPersistence    ErrKind = "persistence"    // 500
	KindInfrastructure ErrKind = "infrastructure" // 503
	KindInternal       ErrKind = "internal"       // 500
)

// Error carries a stable Code and a client-safe Message. Cause is for logs only
// and never reaches a response body. Validation errors put field, index and rule in Meta.
type Error struct {
	Kind    ErrKind
	Code    string
	Message string
	Meta    map[string]string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s (%s): %s: %v", e.Kind, e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s (%s): %s", e.Kind, e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

func New(kind ErrKind, code, msg string) *Error {
	return &Error{Kind: kind, Code: code, Message: msg}
}

func Wrap(kind ErrKind, code, msg string, cause error) *Error {
	return &Error{Kind: kind, Code: code, Message: msg, Cause: cause}
}

func WithMeta(err *Error, meta map[string]string) *Error {
	err.Meta = meta
	return err
}

// Is reports whether err is a domain error carrying code.
func Is(err error, code string) bool {
	var de *Error
	if errors.As(err, &de) {
		return de.Code == code
	}
	return false
}

// IsKind reports whether err is a domain error of the given kind.
func IsKind(err error, kind ErrKind) bool {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind == kind
	}
	return false
}

// ----------------------
// Validation errors (400)
// ----------------------

func ErrInvalidJSON(cause error) *Error {
	return Wrap(KindValidation, "invalid_json", "invalid JSON body", cause)
}

// ErrValidation names the offending field and the rule it broke.
func ErrValidation(code, field, rule, msg string) *Error {
	return WithMeta(New(KindValidation, code, msg), map[string]string{
		"field": field,
		"rule":  rule,
	})
}

// ErrLinkItem is a validation failure on linkData[index].
func ErrLinkItem(code string, index int, field, rule, msg string) *Error {
	return WithMeta(New(KindValidation, code, msg), map[string]string{
		"field": field,
		"index": strconv.Itoa(index),
		"rule":  rule,
	})
}

func ErrInvalidSessionID() *Error {
	return ErrValidation("invalid_session_id", "session_id", "positive_integer", "Invalid session ID")
}

// ----------------------
// Auth / forbidden (401/403)
// ----------------------

func ErrTokenMissing() *Error {
	return New(KindAuth, "token_missing", "no token provided")
}

func ErrTokenInvalid() *Error {
	return New(KindAuth, "token_invalid", "invalid token")
}

func ErrTokenExpired() *Error {
	return New(KindAuth, "token_expired", "token is expired")
}

func ErrForbidden() *Error {
	return New(KindForbidden, "rest_forbidden", "You do not have permissions to access this endpoint.")
}

func ErrInvalidNonce() *Error {
	return New(KindForbidden, "invalid_nonce", "Invalid nonce.")
}

func ErrOriginRejected(reason string) *Error {
	return WithMeta(New(KindForbidden, "csrf_rejected", "Cross-origin request not allowed"), map[string]string{
		"reason": reason,
	})
}

// ----------------------
// Not Found (404)
// ----------------------

func ErrSessionNotFound(id int64) *Error {
	return WithMeta(New(KindNotFound, "session_not_found", "session not found"), map[string]string{
		"session_id": strconv.FormatInt(id, 10),
	})
}

// ----------------------
// Rate limit (429)
// ----------------------

func ErrRateLimited(scope string) *Error {
	return WithMeta(New(KindRateLimited, "rate_limited", "too many requests"), map[string]string{
		"scope": scope,
	})
}

// ----------------------
// Persistence / infrastructure / internal (5xx)
// ----------------------

// ErrPersistence hides the storage failure behind a generic message.
func ErrPersistence(code, msg string, cause error) *Error {
	return Wrap(KindPersistence, code, msg, cause)
}

func ErrDBUnavailable(cause error) *Error {
	return Wrap(KindInfrastructure, "db_unavailable", "database unavailable", cause)
}

func ErrInternal(cause error) *Error {
	return Wrap(KindInternal, "internal_error", "internal error", cause)
}

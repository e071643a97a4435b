package service

import (
	"errors"
	"fmt"

	"society-be-svc/internal/repository"
)

// ErrorKind classifies service errors so the HTTP layer can pick a status code
type ErrorKind int

const (
	KindValidation ErrorKind = iota + 1
	KindNotFound
	KindConflict
	KindAuthorization
	KindAuthentication
)

// Error is a domain error returned by services. Two errors match under errors.Is when
// their codes are equal, so callers can wrap a sentinel with a contextual message.
type Error struct {
	Kind    ErrorKind
	Code    string
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// Is matches errors by code
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// Withf returns a copy of e carrying a formatted message
func (e *Error) Withf(format string, args ...interface{}) *Error {
	return &Error{Kind: e.Kind, Code: e.Code, Message: fmt.Sprintf(format, args...)}
}

func newError(kind ErrorKind, code, message string) *Error {
	return &Error{Kind: kind, Code: code, Message: message}
}

// Validation errors
var (
	ErrValidation        = newError(KindValidation, "VALIDATION", "invalid request")
	ErrMissingUnit       = newError(KindValidation, "MISSING_UNIT", "wing and flat number are required for residents")
	ErrInvalidCode       = newError(KindValidation, "INVALID_CODE", "invalid verification code")
	ErrInvalidRole       = newError(KindValidation, "INVALID_ROLE", "user is not a resident")
	ErrInvalidStatus     = newError(KindValidation, "INVALID_STATUS", "invalid status")
	ErrInvalidTransition = newError(KindValidation, "INVALID_TRANSITION", "a vacant flat can only be occupied through registration or assignment")
	ErrMissingFields     = newError(KindValidation, "MISSING_FIELDS", "month, year, amount and due date are required")
	ErrInvalidPeriod     = newError(KindValidation, "INVALID_PERIOD", "invalid billing month or year")
	ErrNoOccupiedFlats   = newError(KindValidation, "NO_OCCUPIED_FLATS", "no occupied flats found")
	ErrNoUnit            = newError(KindValidation, "NO_UNIT", "user is not linked to a flat")
	ErrSelfDeactivation  = newError(KindValidation, "SELF_DEACTIVATION", "you cannot deactivate your own account")
)

// Not found errors
var (
	ErrUserNotFound = newError(KindNotFound, "USER_NOT_FOUND", "user not found")
	ErrFlatNotFound = newError(KindNotFound, "FLAT_NOT_FOUND", "flat not found")
	ErrBillNotFound = newError(KindNotFound, "BILL_NOT_FOUND", "maintenance bill not found")
)

// Conflict errors
var (
	ErrDuplicateEmail  = newError(KindConflict, "DUPLICATE_EMAIL", "user already exists with this email")
	ErrAdminExists     = newError(KindConflict, "ADMIN_EXISTS", "an admin already exists")
	ErrUnitOccupied    = newError(KindConflict, "UNIT_OCCUPIED", "flat is already occupied by another resident")
	ErrDuplicateFlat   = newError(KindConflict, "DUPLICATE_FLAT", "flat already exists")
	ErrDuplicatePeriod = newError(KindConflict, "DUPLICATE_PERIOD", "a bill already exists for this flat and period")
	ErrAlreadyPaid     = newError(KindConflict, "ALREADY_PAID", "bill is already paid")
)

// Authorization and authentication errors
var (
	ErrAccessDenied       = newError(KindAuthorization, "ACCESS_DENIED", "access denied")
	ErrInvalidCredentials = newError(KindAuthentication, "INVALID_CREDENTIALS", "invalid credentials")
	ErrEmailUnverified    = newError(KindAuthentication, "EMAIL_UNVERIFIED", "please verify your email first")
	ErrAccountDeactivated = newError(KindAuthentication, "ACCOUNT_DEACTIVATED", "account is deactivated")
	ErrInvalidToken       = newError(KindAuthentication, "INVALID_TOKEN", "invalid or expired token")
)

// notFound converts a repository miss into the given domain error
func notFound(err error, domainErr *Error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return domainErr
	}
	return err
}

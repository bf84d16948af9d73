package model

import (
	"errors"
	"fmt"
)

// ErrorKind groups domain failures for the calling layer: kinds map to
// transport status codes, codes to user-facing messages.
type ErrorKind string

const (
	KindPermissionDenied   ErrorKind = "permission_denied"
	KindNotFound           ErrorKind = "not_found"
	KindSchedulingConflict ErrorKind = "scheduling_conflict"
	KindPolicyViolation    ErrorKind = "policy_violation"
	KindPackageError       ErrorKind = "package_error"
	KindTeacherNotVerified ErrorKind = "teacher_not_verified"
	KindInvalidArgument    ErrorKind = "invalid_argument"
	KindInternal           ErrorKind = "internal"
)

// ErrorCode is the stable leaf code within a kind.
type ErrorCode string

const (
	CodePermissionDenied ErrorCode = "PERMISSION_DENIED"
	CodeNotFound         ErrorCode = "NOT_FOUND"

	CodeSlotNotAvailable    ErrorCode = "SLOT_NOT_AVAILABLE"
	CodeTeacherNotAvailable ErrorCode = "TEACHER_NOT_AVAILABLE"

	CodeInsufficientNotice      ErrorCode = "INSUFFICIENT_NOTICE"
	CodeBookingTooFarAhead      ErrorCode = "BOOKING_TOO_FAR_AHEAD"
	CodeBookingNotReschedulable ErrorCode = "BOOKING_NOT_RESCHEDULABLE"
	CodeBookingNotCancellable   ErrorCode = "BOOKING_NOT_CANCELLABLE"
	CodeBookingNotConfirmable   ErrorCode = "BOOKING_NOT_CONFIRMABLE"
	CodeAttendanceNotRecordable ErrorCode = "ATTENDANCE_NOT_RECORDABLE"

	CodeInvalidPackage   ErrorCode = "INVALID_PACKAGE"
	CodePackageExhausted ErrorCode = "PACKAGE_EXHAUSTED"
	CodePackageExpired   ErrorCode = "PACKAGE_EXPIRED"

	CodeTeacherNotVerified ErrorCode = "TEACHER_NOT_VERIFIED"
	CodeInvalidArgument    ErrorCode = "INVALID_ARGUMENT"
	CodeInternal           ErrorCode = "INTERNAL"
)

// Error is the structured domain error returned across the service boundary.
// Raw store errors stay wrapped underneath and never reach the caller's users.
type Error struct {
	Kind    ErrorKind
	Code    ErrorCode
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.cause }

func NewError(kind ErrorKind, code ErrorCode, msg string) *Error {
	return &Error{Kind: kind, Code: code, Message: msg}
}

func (e *Error) WithCause(err error) *Error {
	return &Error{Kind: e.Kind, Code: e.Code, Message: e.Message, cause: err}
}

// NewNotFound builds a NotFound error naming the missing resource.
func NewNotFound(resource string) *Error {
	return NewError(KindNotFound, CodeNotFound, resource+" not found")
}

// NewInternal wraps an unexpected store or infrastructure failure.
func NewInternal(err error) *Error {
	return &Error{Kind: KindInternal, Code: CodeInternal, Message: "internal error", cause: err}
}

// IsKind reports whether err is a domain error of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var de *Error
	return errors.As(err, &de) && de.Kind == kind
}

// IsCode reports whether err carries the given stable code.
func IsCode(err error, code ErrorCode) bool {
	var de *Error
	return errors.As(err, &de) && de.Code == code
}

package domain

import (
	"errors"
	"fmt"
)

// ErrorCode represents a semantic classification shared across transport layers.
type ErrorCode string

const (
	ErrCodeNotFound     ErrorCode = "NOT_FOUND"
	ErrCodeInvalid      ErrorCode = "INVALID"
	ErrCodeInvalidState ErrorCode = "INVALID_STATE"
	ErrCodeConflict     ErrorCode = "CONFLICT"
	ErrCodeInvariant    ErrorCode = "INVARIANT"
	ErrCodeForbidden    ErrorCode = "FORBIDDEN"
	ErrCodeUnauthorized ErrorCode = "UNAUTHORIZED"
	ErrCodeInternal     ErrorCode = "INTERNAL"
)

// Error represents a domain-level error.
type Error struct {
	Code    ErrorCode
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// NewError builds a domain error.
func NewError(code ErrorCode, message string) *Error {
	return &Error{Code: code, Message: message}
}

// WrapError wraps an existing error with a domain classification.
func WrapError(code ErrorCode, message string, err error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Common domain errors.
var (
	ErrUserNotFound         = NewError(ErrCodeNotFound, "user not found")
	ErrRequestNotFound      = NewError(ErrCodeNotFound, "friend request not found")
	ErrChatNotFound         = NewError(ErrCodeNotFound, "chat not found")
	ErrParticipantNotFound  = NewError(ErrCodeNotFound, "chat participant not found")
	ErrMessageNotFound      = NewError(ErrCodeNotFound, "message not found")
	ErrNotificationNotFound = NewError(ErrCodeNotFound, "notification not found")
	ErrSessionNotFound      = NewError(ErrCodeNotFound, "session not found")

	ErrSelfRequest    = NewError(ErrCodeInvalid, "cannot send a friend request to yourself")
	ErrEmailRequired  = NewError(ErrCodeInvalid, "receiver email is required")
	ErrInvalidPayload = NewError(ErrCodeInvalid, "invalid payload")

	ErrRequestNotPending = NewError(ErrCodeInvalidState, "friend request is not pending")

	ErrRequestPending = NewError(ErrCodeConflict, "a pending friend request already exists")
	ErrAlreadyFriends = NewError(ErrCodeConflict, "users are already friends")

	ErrLastAdmin = NewError(ErrCodeInvariant, "chat would be left without an active admin")

	ErrNotRequestReceiver = NewError(ErrCodeForbidden, "only the request receiver may respond")
	ErrNotParticipant     = NewError(ErrCodeForbidden, "user is not an active chat participant")
	ErrNotChatAdmin       = NewError(ErrCodeForbidden, "user is not an active chat admin")
	ErrUnauthorized       = NewError(ErrCodeUnauthorized, "unauthorized")

	ErrNoNotifications = NewError(ErrCodeNotFound, "no notifications to delete")
)

// IsDomainError helps checking error codes.
func IsDomainError(err error, code ErrorCode) bool {
	var dErr *Error
	if errors.As(err, &dErr) {
		return dErr.Code == code
	}
	return false
}

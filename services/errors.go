package services

import (
	"errors"
	"fmt"
)

// ErrorCode is the closed taxonomy surfaced by the domain services.
type ErrorCode string

const (
	CodeValidation            ErrorCode = "VALIDATION"
	CodeStateChangeProhibited ErrorCode = "STATE_CHANGE_PROHIBITED"
	CodeNotFound              ErrorCode = "NOT_FOUND"
	CodeUnremovableSession    ErrorCode = "UNREMOVABLE_SESSION"
	CodePersistence           ErrorCode = "PERSISTENCE_ERROR"
	CodeDelivery              ErrorCode = "DELIVERY_ERROR"
)

// ServiceError carries a taxonomy code alongside the underlying cause.
type ServiceError struct {
	Code    ErrorCode
	Message string
	Err     error
}

func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *ServiceError) Unwrap() error { return e.Err }

func notFound(what string) *ServiceError {
	return &ServiceError{Code: CodeNotFound, Message: what + " not found"}
}

func stateChangeProhibited(err error) *ServiceError {
	return &ServiceError{Code: CodeStateChangeProhibited, Message: "the event is already cancelled or done", Err: err}
}

func unremovableSession(sessionID uint) *ServiceError {
	return &ServiceError{Code: CodeUnremovableSession, Message: fmt.Sprintf("session %d has started or was cancelled", sessionID)}
}

func persistence(err error) *ServiceError {
	return &ServiceError{Code: CodePersistence, Message: "storage failure", Err: err}
}

func validation(msg string) *ServiceError {
	return &ServiceError{Code: CodeValidation, Message: msg}
}

// AsServiceError unwraps err into its ServiceError, if it carries one.
func AsServiceError(err error) (*ServiceError, bool) {
	var se *ServiceError
	if errors.As(err, &se) {
		return se, true
	}
	return nil, false
}

// Package apperrors defines the typed domain errors shared across the scheduler core.
package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Error represents a typed domain error.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"status"`
	Err     error  `json:"-"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error.
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// New creates a new Error instance.
func New(code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message}
}

// Wrap attaches context to an existing error.
func Wrap(err error, code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message, Err: err}
}

// Clone returns a copy of the error allowing for message overrides.
func Clone(err *Error, message string) *Error {
	if err == nil {
		return nil
	}
	clone := *err
	if message != "" {
		clone.Message = message
	}
	return &clone
}

// FromError normalises any error into an *Error.
func FromError(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Wrap(err, ErrInternal.Code, ErrInternal.Status, ErrInternal.Message)
}

// Predefined sentinels. The seven domain kinds map directly to the error
// handling design: CatalogConsistency and StoreFailure are the two kinds the
// core never swallows; the rest are carried as data in structured results.
var (
	ErrNotFound   = New("NOT_FOUND", http.StatusNotFound, "resource not found")
	ErrConflict   = New("CONFLICT", http.StatusConflict, "conflict")
	ErrValidation = New("VALIDATION_ERROR", http.StatusBadRequest, "validation failed")
	ErrInternal   = New("INTERNAL_ERROR", http.StatusInternalServerError, "internal error")

	ErrCatalogConsistency    = New("CATALOG_CONSISTENCY", http.StatusUnprocessableEntity, "catalog snapshot violates a structural assumption")
	ErrInfeasibleRequirement = New("INFEASIBLE_REQUIREMENT", http.StatusUnprocessableEntity, "class requires more hours than its working days and slots allow")
	ErrUnplaceableSession    = New("UNPLACEABLE_SESSION", http.StatusOK, "no eligible staff or room for a required session")
	ErrConflictResidual      = New("CONFLICT_RESIDUAL", http.StatusOK, "best candidate still has conflicts")
	ErrNoSubstituteFound     = New("NO_SUBSTITUTE_FOUND", http.StatusNotFound, "no qualified substitute available")
	ErrRepairFailure         = New("REPAIR_FAILURE", http.StatusOK, "no alternative slot or room found")
	ErrStoreFailure          = New("STORE_FAILURE", http.StatusBadGateway, "schedule store operation failed")
)

package apperrors

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates that a requested resource could not be found.
// Resources owned by a different owner are reported with the same error so
// that callers cannot probe for their existence.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrConflict indicates that optimistic concurrency retries were exhausted.
// The caller should retry the whole operation.
var ErrConflict = errors.New("concurrent modification conflict")

// ErrStore indicates a failure in the underlying persistence layer.
var ErrStore = errors.New("store error")

// ErrInternal indicates an unexpected internal failure.
var ErrInternal = errors.New("internal error")

// ErrVersionConflict is returned by stores when a conditional write finds a
// version other than the expected one. Services translate it into retries
// and, eventually, ErrConflict.
var ErrVersionConflict = errors.New("version mismatch")

// ErrAccountInUse rejects deleting an account that transactions still reference.
var ErrAccountInUse = fmt.Errorf("%w: account is referenced by transactions", ErrValidation)

// AppError carries an HTTP-ish status code alongside a wrapped cause.
type AppError struct {
	Code    int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates a new AppError.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

// StoreFailure wraps a persistence error so it matches ErrStore while keeping
// the original cause reachable through errors.Is/As.
func StoreFailure(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrStore, op, err)
}

// PartialFailureError reports that a transaction record is durable but the
// matching balance adjustment has not been confirmed. The transaction can be
// reconciled later by its ID.
type PartialFailureError struct {
	Op            string
	TransactionID string
	AccountID     string
	Err           error
}

func (e *PartialFailureError) Error() string {
	return fmt.Sprintf("partial failure during %s of transaction %s (account %s): balance reconciliation pending: %v",
		e.Op, e.TransactionID, e.AccountID, e.Err)
}

func (e *PartialFailureError) Unwrap() error {
	return e.Err
}

// NewPartialFailure builds a PartialFailureError.
func NewPartialFailure(op, transactionID, accountID string, err error) *PartialFailureError {
	return &PartialFailureError{Op: op, TransactionID: transactionID, AccountID: accountID, Err: err}
}

// AsPartialFailure reports whether err carries a PartialFailureError and returns it.
func AsPartialFailure(err error) (*PartialFailureError, bool) {
	var pf *PartialFailureError
	if errors.As(err, &pf) {
		return pf, true
	}
	return nil, false
}

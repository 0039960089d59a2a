package store

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// --------------------------------------------------------------------------
// Interface Definition
// --------------------------------------------------------------------------

// IStore is the generic interface for the plain key–value operations of the store.
// All write operations return only an error (nil on success),
// while read operations return the requested data along with an error (nil on success).
// Errors caused by the store itself are of type *Error with code RetCStoreUnavailable.
type IStore interface {
	// Set inserts or updates a key–value pair.
	Set(ctx context.Context, key string, value []byte) (err error)
	// SetE inserts or updates a key–value pair which is deleted after expireIn.
	// A zero value for expireIn means no expiration.
	SetE(ctx context.Context, key string, value []byte, expireIn time.Duration) (err error)
	// SetEIfUnset inserts a key–value pair if the key does not exist.
	// If the key already exists, the old value is not updated, no matter the value of expireIn.
	// No error is returned if the key already exists.
	SetEIfUnset(ctx context.Context, key string, value []byte, expireIn time.Duration) (err error)
	// Expire sets a time to live on an existing key. Nothing happens if the key does not exist.
	Expire(ctx context.Context, key string, expireIn time.Duration) (err error)
	// Delete deletes a key–value pair. The key should be removed from the store.
	Delete(ctx context.Context, key string) (err error)
	// Get return the value for a key. The boolean return value indicates whether a value for the key was found.
	Get(ctx context.Context, key string) (value []byte, loaded bool, err error)
	// Has returns whether a key exists in the store.
	Has(ctx context.Context, key string) (loaded bool, err error)
	// Close releases the connection to the store. The store must not be used afterwards.
	Close() (err error)
}

// --------------------------------------------------------------------------
// Custom Error Type
// --------------------------------------------------------------------------

// Error is a custom error type that wraps a return code (of type RetCode),
// an error message and optionally the error that caused it.
type Error struct {
	Code RetCode // The return code
	Msg  string  // The error message.
	Err  error   // The underlying cause, may be nil.
}

var (
	// ErrValidation matches every *Error with code RetCValidation (use with errors.Is).
	ErrValidation = &Error{Code: RetCValidation}
	// ErrStoreUnavailable matches every *Error with code RetCStoreUnavailable (use with errors.Is).
	ErrStoreUnavailable = &Error{Code: RetCStoreUnavailable}
)

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("KVStoreError (code %s): %s", e.Code, e.Msg)
}

// Unwrap returns the underlying cause
func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is an *Error with the same code.
// A target with a non-empty message must also match the message.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Code == e.Code && (t.Msg == "" || t.Msg == e.Msg)
}

// NewError creates a new KVStoreError with the given code and message.
func NewError(code RetCode, msg string) *Error {
	return &Error{
		Code: code,
		Msg:  msg,
	}
}

// NewValidationError creates an error for invalid caller input.
func NewValidationError(format string, args ...interface{}) *Error {
	return NewError(RetCValidation, fmt.Sprintf(format, args...))
}

// Unavailable wraps an error returned by the store client. Nil stays nil and
// errors that already are of type *Error are returned unchanged.
func Unavailable(err error) error {
	if err == nil {
		return nil
	}
	var storeErr *Error
	if errors.As(err, &storeErr) {
		return err
	}
	return &Error{
		Code: RetCStoreUnavailable,
		Msg:  err.Error(),
		Err:  err,
	}
}

// --------------------------------------------------------------------------
// Return Codes
// --------------------------------------------------------------------------

type RetCode uint64

const (
	RetCSuccess              RetCode = iota // 0: Command executed successfully.
	RetCInternalError                       // 1: Command failed due to an internal error.
	RetCUnsupportedOperation                // 2: Operation is not supported by the store.
	RetCValidation                          // 3: The caller provided invalid input.
	RetCStoreUnavailable                    // 4: The store failed to execute the command (network, command error).
)

func (c RetCode) String() string {
	switch c {
	case RetCSuccess:
		return "Success"
	case RetCInternalError:
		return "InternalError"
	case RetCUnsupportedOperation:
		return "UnsupportedOperation"
	case RetCValidation:
		return "Validation"
	case RetCStoreUnavailable:
		return "StoreUnavailable"
	default:
		return "Unknown"
	}
}

// Package apperror defines the error taxonomy shared by every layer of the
// marketplace.
//
// Services return these typed errors; the HTTP handlers translate them to
// status codes in one place (handler/response.go). Nothing below the handler
// layer knows about HTTP.
//
// The pattern is a sentinel error (for errors.Is checks) wrapped in an
// *AppError carrying the human-readable message. Callers test the category
// with errors.Is(err, apperror.ErrConflict) and extract the message with
// errors.As.
package apperror

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrValidation        = errors.New("validation error")
	ErrConflict          = errors.New("conflict")
	ErrForbidden         = errors.New("forbidden")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrDuplicate         = errors.New("duplicate")
	ErrNotAvailable      = errors.New("not available")
	ErrSelfOffer         = errors.New("self offer")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrStoreUnavailable  = errors.New("store unavailable")

	// ErrPartialSettlement marks the one failure mode that leaves the data
	// inconsistent: a settlement write failed after the offer row was
	// already flipped. There is no automatic compensation against the
	// spreadsheet; operators reconcile from the message.
	ErrPartialSettlement = errors.New("partial settlement")
)

type AppError struct {
	Err     error  // sentinel category
	Message string // human-readable error message
	Field   string // optional: field causing the error
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NotFound(resource, id string) *AppError {
	return &AppError{
		Err:     ErrNotFound,
		Message: fmt.Sprintf("%s not found with id %s", resource, id),
	}
}

func ValidationFailed(field, message string) *AppError {
	return &AppError{
		Err:     ErrValidation,
		Message: message,
		Field:   field,
	}
}

func Conflict(message string) *AppError {
	return &AppError{
		Err:     ErrConflict,
		Message: message,
	}
}

// Forbidden returns an AppError indicating the caller lacks permission.
// HTTP handlers map this to 403 Forbidden.
func Forbidden(message string) *AppError {
	return &AppError{
		Err:     ErrForbidden,
		Message: message,
	}
}

// Unauthorized covers missing, invalid, or expired credentials, and
// credentials whose subject no longer resolves to a user.
func Unauthorized(message string) *AppError {
	return &AppError{
		Err:     ErrUnauthorized,
		Message: message,
	}
}

// Duplicate reports a uniqueness violation, e.g. registering with an email
// that is already taken.
func Duplicate(resource, field string) *AppError {
	return &AppError{
		Err:     ErrDuplicate,
		Message: fmt.Sprintf("%s with this %s already exists", resource, field),
		Field:   field,
	}
}

// NotAvailable reports an item that is sold or out of stock.
func NotAvailable(itemID string) *AppError {
	return &AppError{
		Err:     ErrNotAvailable,
		Message: fmt.Sprintf("item %s is no longer available", itemID),
	}
}

// SelfOffer rejects an offer a user tried to place on their own item.
func SelfOffer() *AppError {
	return &AppError{
		Err:     ErrSelfOffer,
		Message: "you cannot make an offer on your own item",
	}
}

// InsufficientFunds reports that the buyer's balance cannot cover the offer.
func InsufficientFunds(need, have int) *AppError {
	return &AppError{
		Err:     ErrInsufficientFunds,
		Message: fmt.Sprintf("buyer balance %d cannot cover offer amount %d", have, need),
	}
}

// StoreUnavailable wraps a backing-store I/O failure on a mutation path.
// Read paths degrade to empty results instead (see internal/tabular).
func StoreUnavailable(op string, err error) *AppError {
	return &AppError{
		Err:     ErrStoreUnavailable,
		Message: fmt.Sprintf("spreadsheet store unavailable during %s: %v", op, err),
	}
}

// PartialSettlement records which settlement steps completed before the
// failure so the offer can be reconciled by hand.
func PartialSettlement(offerID string, completed []string, err error) *AppError {
	return &AppError{
		Err: ErrPartialSettlement,
		Message: fmt.Sprintf("settlement of offer %s incomplete after [%s]: %v",
			offerID, strings.Join(completed, ", "), err),
	}
}

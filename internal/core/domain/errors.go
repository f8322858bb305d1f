package domain

import (
	"errors"
	"fmt"
	"strconv"
)

var (
	// ErrInvalidQuantity rejects non-positive withdrawal amounts.
	ErrInvalidQuantity = errors.New("quantity must be a positive number")

	// ErrConflict is returned when optimistic-lock retries are exhausted.
	ErrConflict = errors.New("stock update conflict, please retry")

	// ErrMissingFields rejects catalog ingest payloads with absent or
	// out-of-range fields.
	ErrMissingFields = errors.New("missing required fields")
)

// NotFoundError reports a withdrawal against an id that does not exist.
type NotFoundError struct {
	Kind StockKind
	ID   int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d does NOT exist!", e.Kind.Name, e.ID)
}

// InsufficientStockError reports a withdrawal larger than what is on hand.
type InsufficientStockError struct {
	Kind      StockKind
	Requested float64
	Available float64
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("cannot %s %s %s, we only have %s %s available",
		e.Kind.Verb, formatQty(e.Requested), e.Kind.Unit, formatQty(e.Available), e.Kind.Unit)
}

// PersistenceError wraps a store failure with the intent of the operation
// that hit it, so callers can report what was being attempted without
// leaking store internals.
type PersistenceError struct {
	Intent string
	Err    error
}

func (e *PersistenceError) Error() string {
	return e.Intent + ": " + e.Err.Error()
}

func (e *PersistenceError) Unwrap() error { return e.Err }

func formatQty(q float64) string {
	return strconv.FormatFloat(q, 'f', -1, 64)
}

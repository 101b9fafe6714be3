package service

import (
	"errors"
	"fmt"

	apperr "go-inventory-tracker/pkg/errors"

	"gorm.io/gorm"
)

var (
	ErrInvalidQuantity        = apperr.New(apperr.CodeInvalidInput, "quantity must be greater than zero")
	ErrInvalidPrice           = apperr.New(apperr.CodeInvalidInput, "unit price must not be negative")
	ErrInvalidTransactionType = apperr.New(apperr.CodeInvalidInput, "transaction type must be IN or OUT")
	ErrProductNotFound        = apperr.New(apperr.CodeNotFound, "product not found")
	ErrTransactionNotFound    = apperr.New(apperr.CodeNotFound, "transaction not found")
	ErrDuplicateSKU           = apperr.New(apperr.CodeConflict, "a product with this SKU already exists")
	ErrSKURequired            = apperr.New(apperr.CodeInvalidInput, "sku is required")
	ErrInvalidDateRange       = apperr.New(apperr.CodeInvalidInput, "from must not be after to")

	// ErrInsufficientStock matches every shortage error with errors.Is.
	ErrInsufficientStock = apperr.New(apperr.CodeInsufficientStock, "insufficient stock")

	ErrInvalidCredentials = apperr.New(apperr.CodeUnauthorized, "invalid email or password")
	ErrSessionRevoked     = apperr.New(apperr.CodeUnauthorized, "session expired, please sign in again")
	ErrEmailTaken         = apperr.New(apperr.CodeConflict, "email is already registered")
	ErrTooManyAttempts    = apperr.New(apperr.CodeRateLimited, "too many sign-in attempts, try again later")
)

// StockShortage is carried as details of an insufficient stock error.
type StockShortage struct {
	Current   int `json:"current"`
	Requested int `json:"requested"`
}

func insufficientStock(current, requested int) error {
	msg := fmt.Sprintf("insufficient stock: %d on hand, %d requested", current, requested)
	return apperr.Wrap(apperr.CodeInsufficientStock, ErrInsufficientStock, msg).
		WithDetails(StockShortage{Current: current, Requested: requested})
}

// ShortageOf extracts the shortage carried by err.
func ShortageOf(err error) (StockShortage, bool) {
	typed := apperr.As(err)
	if typed == nil {
		return StockShortage{}, false
	}
	shortage, ok := typed.Details().(StockShortage)
	return shortage, ok
}

func persistenceFailure(err error, op string) error {
	return apperr.Wrap(apperr.CodePersistenceFailure, err, op)
}

// lookupFailure maps a missing row to notFound and anything else to a persistence failure.
func lookupFailure(err error, notFound error, op string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFound
	}
	return persistenceFailure(err, op)
}

// passThrough keeps typed errors raised inside a database transaction callback.
func passThrough(err error, op string) error {
	if apperr.As(err) != nil {
		return err
	}
	return persistenceFailure(err, op)
}

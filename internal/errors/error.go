package errors

import (
	"errors"
)

var (
	ErrEmptyAuth       = errors.New("missing authorization")
	ErrEmptySubject    = errors.New("missing subject")
	ErrTokenInvalid    = errors.New("invalid token")
	ErrFailedHashToken = errors.New("failed hashing token")

	ErrValidation        = errors.New("validation error")
	ErrUnauthenticated   = errors.New("unauthenticated")
	ErrForbidden         = errors.New("forbidden")
	ErrNotFound          = errors.New("not found")
	ErrAlreadyExists     = errors.New("already exists")
	ErrTransientNetwork  = errors.New("request failed to complete")
	ErrCheckoutFailed    = errors.New("checkout failed")
	ErrCheckoutInFlight  = errors.New("checkout already in progress")
	ErrInvalidCoupon     = errors.New("invalid coupon")
	ErrEmptyCart         = errors.New("cart is empty")
	ErrTotalMismatch     = errors.New("submitted total does not match cart")
	ErrPasswordMismatch  = errors.New("invalid email or password")
	ErrEmailRegistered   = errors.New("email already registered")
	ErrAddressNotOwned   = errors.New("address does not belong to user")
	ErrUnsupportedMethod = errors.New("unsupported payment method")
)

package service

import "errors"

var (
	// ErrPromoExists is returned when attempting to create a promo code that already exists
	ErrPromoExists = errors.New("promo code already exists")

	// ErrPromoNotFound is returned when a promo code cannot be found
	ErrPromoNotFound = errors.New("promo code not found")

	// ErrProductNotFound is returned when a product cannot be found by id or slug
	ErrProductNotFound = errors.New("product not found")

	// ErrOrderExists is returned when an order id or transaction id is reused
	ErrOrderExists = errors.New("order already exists")

	// ErrWrongProductKind is returned when a manual tool is used with the other product kind
	ErrWrongProductKind = errors.New("product kind not supported by this operation")

	// ErrInvalidRequest is returned when request data is invalid or incomplete
	ErrInvalidRequest = errors.New("invalid request")
)

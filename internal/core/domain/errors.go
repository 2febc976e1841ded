package domain

import "errors"

var (
	// ErrAuthentication is the only error login surfaces. It covers unknown
	// users, wrong passwords and ambiguous matches alike.
	ErrAuthentication = errors.New("invalid username or password")

	ErrRecordNotFound  = errors.New("record not found")
	ErrAmbiguousRecord = errors.New("more than one record matched")
	ErrUserExists      = errors.New("user already exists")
	ErrItemNotFound    = errors.New("catalog item not found")
	ErrUnknownCatalog  = errors.New("unknown catalog table")
	ErrEmptyCart       = errors.New("cart is empty")
	ErrNoSession       = errors.New("missing session")
)

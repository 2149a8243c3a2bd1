package entities

import "errors"

// Catalog-consistency errors. A reference to an id missing from the fixed
// catalogs means the catalogs are corrupt; callers treat these as fatal.
var (
	ErrUnknownProduct = errors.New("unknown product")
	ErrUnknownPartner = errors.New("unknown partner")
)

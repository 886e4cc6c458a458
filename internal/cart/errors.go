package cart

import "errors"

// ErrUnknownProduct is returned when an action names a product the
// catalog does not contain. The store is left untouched.
var ErrUnknownProduct = errors.New("unknown product")

// ErrShuttingDown is returned once the controller stops accepting
// actions.
var ErrShuttingDown = errors.New("shutting down")

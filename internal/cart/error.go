package cart

import "errors"

var (
	ErrFailedClearCart = errors.New("failed to clear cart")
)

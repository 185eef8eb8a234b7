package payment

import (
	"errors"
	"fmt"
)

var (
	ErrDuplicateGateway = errors.New("payment gateway already registered")
	ErrInvalidSetting   = errors.New("invalid gateway setting")
)

// ConfigLoadError means the settings store could not be read while building a gateway.
type ConfigLoadError struct {
	GatewayID string
	Err       error
}

func (e *ConfigLoadError) Error() string {
	return fmt.Sprintf("load settings for gateway %q: %v", e.GatewayID, e.Err)
}

func (e *ConfigLoadError) Unwrap() error {
	return e.Err
}

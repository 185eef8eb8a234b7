package settings

import "errors"

var (
	ErrFailedLoadSettings = errors.New("failed to load gateway settings")
	ErrFailedSaveSettings = errors.New("failed to save gateway settings")
)

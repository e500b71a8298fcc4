package errors

import "errors"

var (
	ErrSettingNotFound = errors.New("setting not found")
	ErrUnauthorized    = errors.New("caller lacks governance execution authority")
	ErrInvalidKey      = errors.New("setting key is invalid")
	ErrInvalidValue    = errors.New("setting value is invalid")
)

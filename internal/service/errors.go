package service

import "errors"

var (
	ErrNotFound            = errors.New("not_found")
	ErrValidation          = errors.New("validation")
	ErrUnauthorized        = errors.New("unauthorized")
	ErrPlatformUnavailable = errors.New("platform_unavailable")
	ErrPlatformRejected    = errors.New("platform_rejected")
)

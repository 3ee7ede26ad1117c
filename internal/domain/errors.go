package domain

import "errors"

var (
	ErrSessionNotFound    = errors.New("session not found")
	ErrSessionExpired     = errors.New("session expired")
	ErrStorageUnavailable = errors.New("object storage not configured")
	ErrEmailUnavailable   = errors.New("email delivery not configured")
	ErrUnsupportedLogo    = errors.New("unsupported logo file type")
	ErrLogoTooLarge       = errors.New("logo exceeds maximum allowed size")
)

package domain

import "errors"

var (
	ErrNotFound             = errors.New("not found")
	ErrUnauthorized         = errors.New("unauthorized")
	ErrQuotaExceeded        = errors.New("quota exceeded")
	ErrValidation           = errors.New("validation failed")
	ErrIngest               = errors.New("image ingest failed")
	ErrProvider             = errors.New("provider failure")
	ErrUnrecognizedResponse = errors.New("unrecognized provider response")
	ErrTimeout              = errors.New("generation timed out")
	ErrInvalidTransition    = errors.New("invalid status transition")
)

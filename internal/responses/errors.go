package responses

import "errors"

// Sentinel errors for the response intake layer.
var (
	// ErrDuplicateResponse means a reply already exists for the same
	// (club, stage, contact email). Callers treat it as success-with-warning.
	ErrDuplicateResponse = errors.New("response already recorded for this club, stage, and contact")

	ErrNotFound = errors.New("response not found")
)

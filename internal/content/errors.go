package content

import "errors"

// Sentinel errors for the content service layer.
var (
	ErrNotFound = errors.New("no generated email for club and stage")
)

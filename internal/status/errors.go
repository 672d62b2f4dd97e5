package status

import "errors"

// Sentinel errors for the status service layer.
var (
	ErrNotFound = errors.New("club has no status record")
)

package research

import "errors"

// Sentinel errors for the research service layer.
var (
	ErrNotFound = errors.New("club has no research record")
)

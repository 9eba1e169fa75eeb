package history

import "errors"

var (
	// ErrCorruptRecord is returned when a stored run record cannot be
	// decoded.
	ErrCorruptRecord = errors.New("corrupt run record")
)

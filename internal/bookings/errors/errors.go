package errors

import "errors"

var (
	ErrNotFound   = errors.New("booking not found")
	ErrInvalidID  = errors.New("invalid booking ID")
	ErrSlotLocked = errors.New("slot lock already held")
)

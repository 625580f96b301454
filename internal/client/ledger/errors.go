package ledger

import "errors"

var (
	ErrContactNotFound = errors.New("contact not found")
	ErrInvalidCategory = errors.New("invalid category")
	ErrInvalidStatus   = errors.New("invalid connection status")
	ErrInvalidPriority = errors.New("invalid priority")
	ErrEmptyField      = errors.New("required field is empty")
	ErrInvalidPayload  = errors.New("payload has no company id")
	ErrUnreadable      = errors.New("contact ledger unreadable")
)

package pages

import "errors"

var (
	// ErrPageNotFound is returned when no link exists for a page id
	ErrPageNotFound = errors.New("page link not found")

	// ErrAccountNotFound is returned when the account does not exist
	ErrAccountNotFound = errors.New("account not found")

	// ErrNotConnected is returned when the account never authorized the channel
	ErrNotConnected = errors.New("account has no connection for this channel")
)

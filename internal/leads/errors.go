package leads

import "errors"

var (
	// ErrMissingAccountID is returned when a lead has no owning account
	ErrMissingAccountID = errors.New("account id is required")

	// ErrUnknownSource is returned when the lead source is not a known channel
	ErrUnknownSource = errors.New("unknown lead source")

	// ErrDuplicateLead is returned when a lead with the same source and
	// external id already exists. Callers treat this as expected absence of
	// work, not a failure.
	ErrDuplicateLead = errors.New("lead already captured")

	// ErrLeadNotFound is returned when a lead is not found
	ErrLeadNotFound = errors.New("lead not found")
)

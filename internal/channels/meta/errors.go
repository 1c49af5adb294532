package meta

import "errors"

// Expected-absence conditions in the webhook pipeline. These short-circuit
// processing without being reported as failures: the platform is not a
// trusted caller of local invariants and may notify about pages or leads the
// service does not track.
var (
	// ErrPageNotLinked means no page link exists for the event's page id.
	ErrPageNotLinked = errors.New("page is not linked to an account")

	// ErrLeadDetailEmpty means the Graph API returned no data for a lead id.
	ErrLeadDetailEmpty = errors.New("no lead detail for leadgen id")

	// ErrMessageDetailEmpty means the Graph API returned no data for a message id.
	ErrMessageDetailEmpty = errors.New("no message detail for message id")
)

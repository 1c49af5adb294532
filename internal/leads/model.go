package leads

import (
	"time"
)

// Source identifies the channel a lead originated from.
type Source string

const (
	SourceFacebookLeadAd    Source = "facebook-lead-ad"
	SourceFacebookMessenger Source = "facebook-messenger"
	SourceManual            Source = "manual"
)

// ValidSource reports whether s is one of the known lead sources.
func ValidSource(s Source) bool {
	switch s {
	case SourceFacebookLeadAd, SourceFacebookMessenger, SourceManual:
		return true
	}
	return false
}

// Status of a captured lead. Leads are immutable in this service, so every
// new record starts out as StatusNew.
type Status string

const (
	StatusNew       Status = "new"
	StatusContacted Status = "contacted"
	StatusClosed    Status = "closed"
)

// Lead represents one captured prospect. Records are created once and never
// mutated or deleted by this service.
type Lead struct {
	ID             string    `json:"id"`
	AccountID      int64     `json:"account_id"`
	LeadText       string    `json:"lead_text"`
	Status         Status    `json:"status"`
	ContactName    string    `json:"contact_name"`
	ContactEmail   string    `json:"contact_email"`
	ContactPhone   string    `json:"contact_phone"`
	Source         Source    `json:"source"`
	ExternalLeadID string    `json:"external_lead_id,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

// CreateLeadRequest represents the attributes for creating a lead.
// ExternalLeadID carries the provider's id for webhook-originated leads and
// backs the idempotency constraint; it is empty for manual submissions.
type CreateLeadRequest struct {
	AccountID      int64  `json:"-"`
	LeadText       string `json:"lead_text"`
	ContactName    string `json:"contact_name"`
	ContactEmail   string `json:"contact_email"`
	ContactPhone   string `json:"contact_phone"`
	Source         Source `json:"-"`
	ExternalLeadID string `json:"-"`
}

// Validate checks the invariants that must hold before persistence.
func (r *CreateLeadRequest) Validate() error {
	if r.AccountID <= 0 {
		return ErrMissingAccountID
	}
	if !ValidSource(r.Source) {
		return ErrUnknownSource
	}
	return nil
}

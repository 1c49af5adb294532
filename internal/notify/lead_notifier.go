package notify

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/leadhook/leadhook/internal/leads"
	"github.com/leadhook/leadhook/pkg/logging"
)

// AccountEmailLookup resolves the contact address for an account.
type AccountEmailLookup interface {
	AccountEmail(ctx context.Context, accountID int64) (string, error)
}

// LeadNotifier emails the owning account when a new lead is captured.
// Notification failures are logged, never propagated: a lead that is in the
// database but unannounced beats a lead that bounced because email was down.
type LeadNotifier struct {
	sender  EmailSender
	lookup  AccountEmailLookup
	logger  *logging.Logger
	timeout time.Duration
}

// NewLeadNotifier creates a lead notifier. Returns nil when sender is nil so
// the service can be wired without email configured.
func NewLeadNotifier(sender EmailSender, lookup AccountEmailLookup, logger *logging.Logger) *LeadNotifier {
	if sender == nil {
		return nil
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &LeadNotifier{
		sender:  sender,
		lookup:  lookup,
		logger:  logger,
		timeout: 10 * time.Second,
	}
}

// LeadCaptured implements leads.Notifier.
func (n *LeadNotifier) LeadCaptured(ctx context.Context, lead *leads.Lead) {
	ctx, cancel := context.WithTimeout(ctx, n.timeout)
	defer cancel()

	to, err := n.lookup.AccountEmail(ctx, lead.AccountID)
	if err != nil {
		n.logger.Error("lead notification skipped: account email lookup failed",
			"error", err, "account_id", lead.AccountID, "lead_id", lead.ID)
		return
	}

	msg := EmailMessage{
		To:      to,
		Subject: fmt.Sprintf("New lead: %s", lead.ContactName),
		Body:    leadEmailBody(lead),
	}
	if err := n.sender.Send(ctx, msg); err != nil {
		n.logger.Error("lead notification failed",
			"error", err, "account_id", lead.AccountID, "lead_id", lead.ID)
		return
	}
	n.logger.Info("lead notification sent", "account_id", lead.AccountID, "lead_id", lead.ID)
}

func leadEmailBody(lead *leads.Lead) string {
	var b strings.Builder
	fmt.Fprintf(&b, "You have a new lead from %s.\n\n", sourceLabel(lead.Source))
	fmt.Fprintf(&b, "Name: %s\n", lead.ContactName)
	if lead.ContactEmail != "" {
		fmt.Fprintf(&b, "Email: %s\n", lead.ContactEmail)
	}
	if lead.ContactPhone != "" {
		fmt.Fprintf(&b, "Phone: %s\n", lead.ContactPhone)
	}
	if lead.LeadText != "" {
		fmt.Fprintf(&b, "\n%s\n", lead.LeadText)
	}
	return b.String()
}

func sourceLabel(source leads.Source) string {
	switch source {
	case leads.SourceFacebookLeadAd:
		return "a Facebook lead ad"
	case leads.SourceFacebookMessenger:
		return "Facebook Messenger"
	default:
		return "a manual entry"
	}
}

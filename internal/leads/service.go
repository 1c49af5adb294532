package leads

import (
	"context"
	"errors"

	"github.com/leadhook/leadhook/internal/observability/metrics"
	"github.com/leadhook/leadhook/pkg/logging"
)

// Notifier is told about every newly captured lead. Implementations must be
// cheap or fire-and-forget; capture never fails because notification did.
type Notifier interface {
	LeadCaptured(ctx context.Context, lead *Lead)
}

// Service wraps the repository with capture-time side effects: metrics and
// owner notification.
type Service struct {
	repo     Repository
	notifier Notifier
	metrics  *metrics.WebhookMetrics
	logger   *logging.Logger
}

// NewService creates a lead capture service. notifier and m may be nil.
func NewService(repo Repository, notifier Notifier, m *metrics.WebhookMetrics, logger *logging.Logger) *Service {
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{
		repo:     repo,
		notifier: notifier,
		metrics:  m,
		logger:   logger,
	}
}

// Capture persists a lead. ErrDuplicateLead passes through unchanged so
// callers can treat redelivery as a no-op.
func (s *Service) Capture(ctx context.Context, req *CreateLeadRequest) (*Lead, error) {
	lead, err := s.repo.Create(ctx, req)
	if err != nil {
		if errors.Is(err, ErrDuplicateLead) {
			s.logger.Info("duplicate lead skipped",
				"source", req.Source,
				"external_lead_id", req.ExternalLeadID,
			)
		}
		return nil, err
	}

	s.metrics.ObserveLead(string(lead.Source))
	s.logger.Info("lead captured",
		"id", lead.ID,
		"account_id", lead.AccountID,
		"source", lead.Source,
	)

	if s.notifier != nil {
		s.notifier.LeadCaptured(ctx, lead)
	}
	return lead, nil
}

// List returns the account's leads.
func (s *Service) List(ctx context.Context, accountID int64) ([]*Lead, error) {
	return s.repo.ListByAccount(ctx, accountID)
}

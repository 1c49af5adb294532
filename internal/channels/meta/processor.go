package meta

import (
	"context"
	"errors"
	"time"

	"github.com/leadhook/leadhook/internal/leads"
	"github.com/leadhook/leadhook/internal/observability/metrics"
	"github.com/leadhook/leadhook/pkg/logging"
)

// PageCredentials is the ownership resolution for a platform page.
type PageCredentials struct {
	AccountID       int64
	PageAccessToken string
}

// PageResolver resolves a platform page id to the owning account and its
// stored access token. Unknown pages return ErrPageNotLinked.
type PageResolver interface {
	ResolvePage(ctx context.Context, pageID string) (PageCredentials, error)
}

// LeadCapturer persists normalized leads.
type LeadCapturer interface {
	Capture(ctx context.Context, req *leads.CreateLeadRequest) (*leads.Lead, error)
}

// GraphAPI is the slice of the Graph client the processor needs.
type GraphAPI interface {
	FetchLeadDetail(ctx context.Context, leadgenID, pageAccessToken string) (*LeadDetail, error)
	FetchMessageDetail(ctx context.Context, messageID, pageAccessToken string) (*MessageDetail, error)
}

// Deduper short-circuits redelivered events before the Graph API fetch.
// The database unique constraint stays the source of truth; this only saves
// the upstream round trip.
type Deduper interface {
	Seen(ctx context.Context, key string) (bool, error)
}

// Processor runs classified webhook events through the lead pipeline.
// Deliveries are at-least-once and unordered, so every step tolerates
// reprocessing; failures after acknowledgment are terminal for the event
// only.
type Processor struct {
	resolver     PageResolver
	capturer     LeadCapturer
	graph        GraphAPI
	dedupe       Deduper
	routing      RoutingTable
	metrics      *metrics.WebhookMetrics
	logger       *logging.Logger
	fetchTimeout time.Duration
}

// ProcessorConfig wires a Processor. Dedupe and Metrics may be nil.
type ProcessorConfig struct {
	Resolver     PageResolver
	Capturer     LeadCapturer
	Graph        GraphAPI
	Dedupe       Deduper
	Routing      RoutingTable
	Metrics      *metrics.WebhookMetrics
	Logger       *logging.Logger
	FetchTimeout time.Duration
}

// NewProcessor creates a Processor.
func NewProcessor(cfg ProcessorConfig) *Processor {
	routing := cfg.Routing
	if routing == nil {
		routing = DefaultRouting()
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	timeout := cfg.FetchTimeout
	if timeout <= 0 {
		timeout = defaultHTTPTimeout
	}
	return &Processor{
		resolver:     cfg.Resolver,
		capturer:     cfg.Capturer,
		graph:        cfg.Graph,
		dedupe:       cfg.Dedupe,
		routing:      routing,
		metrics:      cfg.Metrics,
		logger:       logger,
		fetchTimeout: timeout,
	}
}

// Process classifies the envelope and handles each event to completion. The
// HTTP acknowledgment has already been sent by the time this runs, so errors
// are logged and swallowed here; nothing propagates to the caller.
func (p *Processor) Process(ctx context.Context, env Envelope) {
	for _, event := range Classify(env) {
		start := time.Now()
		status := p.handle(ctx, event)
		p.metrics.ObserveEvent(string(event.Channel), string(event.Kind), status)
		p.metrics.ObserveProcessing(string(event.Channel), string(event.Kind), time.Since(start).Seconds())
	}
}

func (p *Processor) handle(ctx context.Context, event Event) (status string) {
	if event.Kind == KindUnrecognized {
		p.logger.Warn("unrecognized webhook entry",
			"channel", event.Channel,
			"entry_id", event.EntryID,
		)
		return "unrecognized"
	}

	if p.routing.ActionFor(event.Channel, event.Kind) != ActionProcess {
		p.logger.Info("webhook event observed",
			"channel", event.Channel,
			"kind", event.Kind,
			"entry_id", event.EntryID,
		)
		return "observed"
	}

	var err error
	switch event.Kind {
	case KindLeadgen:
		err = p.handleLeadgen(ctx, event)
	case KindMessages:
		err = p.handleMessaging(ctx, event)
	default:
		return "observed"
	}

	switch {
	case err == nil:
		return "processed"
	case isExpectedAbsence(err):
		p.logger.Info("webhook event skipped",
			"channel", event.Channel,
			"kind", event.Kind,
			"reason", err,
		)
		return "skipped"
	default:
		p.logger.Error("webhook event processing failed",
			"channel", event.Channel,
			"kind", event.Kind,
			"error", err,
		)
		return "failed"
	}
}

// handleLeadgen resolves ownership, fetches and normalizes the lead detail,
// and persists the lead.
func (p *Processor) handleLeadgen(ctx context.Context, event Event) error {
	if event.Leadgen == nil || event.Leadgen.LeadgenID == "" || event.Leadgen.PageID == "" {
		// Incomplete notification, nothing to do.
		return nil
	}
	value := event.Leadgen

	if seen, err := p.alreadySeen(ctx, "leadgen:"+value.LeadgenID); err == nil && seen {
		return nil
	}

	creds, err := p.resolver.ResolvePage(ctx, value.PageID)
	if err != nil {
		return err
	}

	fetchCtx, cancel := context.WithTimeout(ctx, p.fetchTimeout)
	defer cancel()
	detail, err := p.graph.FetchLeadDetail(fetchCtx, value.LeadgenID, creds.PageAccessToken)
	if err != nil {
		return err
	}

	req := NormalizeLead(detail, creds.AccountID)
	if req.ExternalLeadID == "" {
		req.ExternalLeadID = value.LeadgenID
	}
	if _, err := p.capturer.Capture(ctx, req); err != nil {
		if errors.Is(err, leads.ErrDuplicateLead) {
			return nil
		}
		return err
	}
	return nil
}

// handleMessaging records an inbound page message as a messenger lead. The
// page token comes from the same page-link lookup as leadgen events.
func (p *Processor) handleMessaging(ctx context.Context, event Event) error {
	msg := event.Messaging
	if msg == nil || msg.Message == nil || msg.Message.MID == "" || msg.Recipient.ID == "" {
		return nil
	}

	if seen, err := p.alreadySeen(ctx, "message:"+msg.Message.MID); err == nil && seen {
		return nil
	}

	// The recipient of an inbound message is the page itself.
	creds, err := p.resolver.ResolvePage(ctx, msg.Recipient.ID)
	if err != nil {
		return err
	}

	fetchCtx, cancel := context.WithTimeout(ctx, p.fetchTimeout)
	defer cancel()
	detail, err := p.graph.FetchMessageDetail(fetchCtx, msg.Message.MID, creds.PageAccessToken)
	if err != nil {
		return err
	}

	req := &leads.CreateLeadRequest{
		AccountID:      creds.AccountID,
		LeadText:       detail.Message,
		ContactName:    detail.From.Name,
		ContactEmail:   detail.From.Email,
		Source:         leads.SourceFacebookMessenger,
		ExternalLeadID: detail.ID,
	}
	if _, err := p.capturer.Capture(ctx, req); err != nil {
		if errors.Is(err, leads.ErrDuplicateLead) {
			return nil
		}
		return err
	}
	return nil
}

func (p *Processor) alreadySeen(ctx context.Context, key string) (bool, error) {
	if p.dedupe == nil {
		return false, nil
	}
	seen, err := p.dedupe.Seen(ctx, key)
	if err != nil {
		// Cache trouble must not drop events; fall through to the pipeline.
		p.logger.Warn("dedupe cache unavailable", "error", err)
		return false, nil
	}
	return seen, nil
}

func isExpectedAbsence(err error) bool {
	return errors.Is(err, ErrPageNotLinked) ||
		errors.Is(err, ErrLeadDetailEmpty) ||
		errors.Is(err, ErrMessageDetailEmpty)
}

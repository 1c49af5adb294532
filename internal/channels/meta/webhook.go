package meta

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/leadhook/leadhook/internal/api/respond"
	"github.com/leadhook/leadhook/pkg/logging"
)

const ackBody = "EVENT_RECEIVED"

// WebhookHandler handles Meta webhook verification and inbound events.
type WebhookHandler struct {
	verifyToken string
	appSecret   string
	processor   *Processor
	logger      *logging.Logger
}

// NewWebhookHandler creates a webhook handler. verifyToken answers the GET
// subscription challenge; appSecret validates POST delivery signatures.
func NewWebhookHandler(verifyToken, appSecret string, processor *Processor, logger *logging.Logger) *WebhookHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &WebhookHandler{
		verifyToken: verifyToken,
		appSecret:   appSecret,
		processor:   processor,
		logger:      logger,
	}
}

// HandleVerification handles the GET webhook verification challenge from Meta.
func (h *WebhookHandler) HandleVerification(w http.ResponseWriter, r *http.Request) {
	mode := r.URL.Query().Get("hub.mode")
	token := r.URL.Query().Get("hub.verify_token")
	challenge := r.URL.Query().Get("hub.challenge")

	if mode == "subscribe" && token != "" && token == h.verifyToken {
		h.logger.Info("webhook subscription verified")
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, challenge)
		return
	}

	http.Error(w, "Forbidden", http.StatusForbidden)
}

// HandleEvents handles POST webhook deliveries. The delivery is acknowledged
// immediately after the signature checks out; everything that happens
// afterwards no longer has a response channel, so failures are logged and
// swallowed.
func (h *WebhookHandler) HandleEvents(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "could not read request body")
		return
	}

	signature := r.Header.Get("X-Hub-Signature-256")
	if signature == "" {
		h.logger.Error("x-hub-signature-256 header missing")
		respond.Error(w, http.StatusForbidden, "signature header missing")
		return
	}
	if h.appSecret == "" {
		h.logger.Error("app secret not configured")
		respond.Error(w, http.StatusForbidden, "webhook not configured")
		return
	}
	if !VerifySignature(h.appSecret, body, signature) {
		h.logger.Error("invalid webhook signature")
		respond.Error(w, http.StatusForbidden, "invalid signature")
		return
	}

	// Acknowledge before processing; Meta retries anything not answered
	// quickly and the retry would arrive before we finish the pipeline.
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, ackBody)

	var env Envelope
	if err := json.Unmarshal(body, &env); err != nil {
		h.logger.Error("undecodable webhook payload", "error", err)
		return
	}
	if h.processor != nil {
		h.processor.Process(r.Context(), env)
	}
}

package leads

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/leadhook/leadhook/internal/api/respond"
	"github.com/leadhook/leadhook/internal/identity"
	"github.com/leadhook/leadhook/pkg/logging"
)

// Handler handles HTTP requests for leads
type Handler struct {
	service *Service
	logger  *logging.Logger
}

// NewHandler creates a new leads handler
func NewHandler(service *Service, logger *logging.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// CreateLead handles POST /leads, the direct-submission path.
func (h *Handler) CreateLead(w http.ResponseWriter, r *http.Request) {
	accountID, ok := identity.AccountIDFromContext(r.Context())
	if !ok {
		respond.Error(w, http.StatusBadRequest, "caller identity missing")
		return
	}

	var req CreateLeadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Error("failed to decode request", "error", err)
		respond.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.ContactName) == "" {
		respond.Error(w, http.StatusBadRequest, "contact name is required")
		return
	}

	req.AccountID = accountID
	req.Source = SourceManual
	req.ExternalLeadID = ""

	lead, err := h.service.Capture(r.Context(), &req)
	if err != nil {
		if errors.Is(err, ErrMissingAccountID) || errors.Is(err, ErrUnknownSource) {
			respond.Error(w, http.StatusBadRequest, "could not create lead")
			return
		}
		h.logger.Error("failed to create lead", "error", err)
		respond.Error(w, http.StatusInternalServerError, "failed to create lead")
		return
	}

	respond.JSON(w, http.StatusCreated, lead)
}

// ListLeadsResponse is the response for listing leads
type ListLeadsResponse struct {
	Leads []*Lead `json:"leads"`
	Count int     `json:"count"`
}

// ListLeads handles GET /leads, scoped to the authenticated account.
func (h *Handler) ListLeads(w http.ResponseWriter, r *http.Request) {
	accountID, ok := identity.AccountIDFromContext(r.Context())
	if !ok {
		respond.Error(w, http.StatusBadRequest, "caller identity missing")
		return
	}

	list, err := h.service.List(r.Context(), accountID)
	if err != nil {
		h.logger.Error("failed to list leads", "error", err, "account_id", accountID)
		respond.Error(w, http.StatusInternalServerError, "failed to list leads")
		return
	}
	if list == nil {
		list = []*Lead{}
	}

	respond.JSON(w, http.StatusOK, ListLeadsResponse{Leads: list, Count: len(list)})
}

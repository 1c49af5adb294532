package pages

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/leadhook/leadhook/internal/api/respond"
	"github.com/leadhook/leadhook/internal/channels/meta"
	"github.com/leadhook/leadhook/internal/identity"
	"github.com/leadhook/leadhook/pkg/logging"
)

// GraphAPI is the slice of the Graph client the handler needs.
type GraphAPI interface {
	FetchPages(ctx context.Context, userAccessToken string) ([]meta.PageInfo, error)
	InstallApp(ctx context.Context, pageID, pageAccessToken string) error
}

// Handler serves the page-connection endpoints.
type Handler struct {
	repo     Repository
	graph    GraphAPI
	logger   *logging.Logger
	tokenTTL time.Duration
}

// NewHandler creates a pages handler. tokenTTL bounds the stored page token
// expiry timestamp (stored, not enforced).
func NewHandler(repo Repository, graph GraphAPI, tokenTTL time.Duration, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	if tokenTTL <= 0 {
		tokenTTL = time.Hour
	}
	return &Handler{
		repo:     repo,
		graph:    graph,
		logger:   logger,
		tokenTTL: tokenTTL,
	}
}

type choosePagesRequest struct {
	Pages []PageSelection `json:"pages"`
}

type choosePagesResponse struct {
	Created []string `json:"created"`
}

// ChoosePages handles POST /social/facebook/pages: creates links for pages
// not already known, then installs the app on the newly linked pages.
func (h *Handler) ChoosePages(w http.ResponseWriter, r *http.Request) {
	accountID, ok := identity.AccountIDFromContext(r.Context())
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "caller identity missing")
		return
	}

	var req choosePagesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(req.Pages) == 0 {
		respond.Error(w, http.StatusBadRequest, "page data not found")
		return
	}

	exists, err := h.repo.AccountExists(r.Context(), accountID)
	if err != nil {
		h.logger.Error("account lookup failed", "error", err, "account_id", accountID)
		respond.Error(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if !exists {
		respond.Error(w, http.StatusNotFound, "account not found")
		return
	}

	conn, err := h.repo.FindConnection(r.Context(), accountID, ChannelFacebook)
	if err != nil {
		if errors.Is(err, ErrNotConnected) {
			respond.Error(w, http.StatusConflict, "account not authorized for facebook")
			return
		}
		h.logger.Error("connection lookup failed", "error", err, "account_id", accountID)
		respond.Error(w, http.StatusInternalServerError, "internal server error")
		return
	}

	created, err := h.repo.CreateLinks(r.Context(), CreateLinksParams{
		AccountID:    accountID,
		ConnectionID: conn.ID,
		TokenTTL:     h.tokenTTL,
		Pages:        req.Pages,
	})
	if err != nil {
		h.logger.Error("page link creation failed", "error", err, "account_id", accountID)
		respond.Error(w, http.StatusInternalServerError, "internal server error")
		return
	}

	tokens := make(map[string]string, len(req.Pages))
	for _, page := range req.Pages {
		tokens[page.ID] = page.AccessToken
	}
	for _, pageID := range created {
		if err := h.graph.InstallApp(r.Context(), pageID, tokens[pageID]); err != nil {
			h.logger.Error("app install failed", "error", err, "page_id", pageID)
			respond.Error(w, http.StatusInternalServerError, "internal server error")
			return
		}
	}

	h.logger.Info("pages linked", "account_id", accountID, "created", len(created))
	respond.JSON(w, http.StatusOK, choosePagesResponse{Created: created})
}

// ListPages handles GET /social/facebook/pages: proxies the account's pages
// from the Graph API using the stored user token.
func (h *Handler) ListPages(w http.ResponseWriter, r *http.Request) {
	accountID, ok := identity.AccountIDFromContext(r.Context())
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "caller identity missing")
		return
	}

	conn, err := h.repo.FindConnection(r.Context(), accountID, ChannelFacebook)
	if err != nil {
		if errors.Is(err, ErrNotConnected) {
			respond.Error(w, http.StatusUnauthorized, "account not authorized for facebook")
			return
		}
		h.logger.Error("connection lookup failed", "error", err, "account_id", accountID)
		respond.Error(w, http.StatusInternalServerError, "internal server error")
		return
	}

	pages, err := h.graph.FetchPages(r.Context(), conn.UserAccessToken)
	if err != nil {
		h.logger.Error("page fetch failed", "error", err, "account_id", accountID)
		respond.Error(w, http.StatusInternalServerError, "internal server error")
		return
	}
	respond.JSON(w, http.StatusOK, map[string][]meta.PageInfo{"pages": pages})
}

// Status handles GET /social/facebook/status: whether the account has a
// stored user access token for the channel.
func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	accountID, ok := identity.AccountIDFromContext(r.Context())
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "caller identity missing")
		return
	}

	conn, err := h.repo.FindConnection(r.Context(), accountID, ChannelFacebook)
	if err != nil {
		if errors.Is(err, ErrNotConnected) {
			respond.JSON(w, http.StatusOK, false)
			return
		}
		h.logger.Error("connection lookup failed", "error", err, "account_id", accountID)
		respond.Error(w, http.StatusInternalServerError, "internal server error")
		return
	}
	respond.JSON(w, http.StatusOK, conn.UserAccessToken != "")
}

package meta

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/leadhook/leadhook/pkg/logging"
)

const (
	defaultGraphAPIBase = "https://graph.facebook.com/v19.0"
	defaultHTTPTimeout  = 10 * time.Second
)

// Client calls the Meta Graph API. Page and user access tokens are supplied
// per call because each linked page carries its own credentials.
type Client struct {
	graphAPIBase string
	httpClient   *http.Client
	logger       *logging.Logger
}

// NewClient creates a new Graph API client.
func NewClient(logger *logging.Logger) *Client {
	if logger == nil {
		logger = logging.Default()
	}
	return &Client{
		graphAPIBase: defaultGraphAPIBase,
		httpClient:   &http.Client{Timeout: defaultHTTPTimeout},
		logger:       logger,
	}
}

// SetGraphAPIBase overrides the Graph API base URL (useful for testing).
func (c *Client) SetGraphAPIBase(base string) {
	if base != "" {
		c.graphAPIBase = base
	}
}

// FetchLeadDetail retrieves the form submission behind a leadgen id.
// A lead that Meta no longer serves yields ErrLeadDetailEmpty.
func (c *Client) FetchLeadDetail(ctx context.Context, leadgenID, pageAccessToken string) (*LeadDetail, error) {
	query := url.Values{
		"access_token": {pageAccessToken},
		"fields":       {"id,created_time,field_data"},
	}
	var detail LeadDetail
	if err := c.get(ctx, "/"+leadgenID, query, &detail); err != nil {
		return nil, err
	}
	if detail.ID == "" && len(detail.FieldData) == 0 {
		return nil, ErrLeadDetailEmpty
	}
	return &detail, nil
}

// FetchMessageDetail retrieves a message by its mid.
func (c *Client) FetchMessageDetail(ctx context.Context, messageID, pageAccessToken string) (*MessageDetail, error) {
	query := url.Values{
		"access_token": {pageAccessToken},
		"fields":       {"id,message,from"},
	}
	var detail MessageDetail
	if err := c.get(ctx, "/"+messageID, query, &detail); err != nil {
		return nil, err
	}
	if detail.ID == "" {
		return nil, ErrMessageDetailEmpty
	}
	return &detail, nil
}

// FetchPages lists the pages the user administers.
func (c *Client) FetchPages(ctx context.Context, userAccessToken string) ([]PageInfo, error) {
	query := url.Values{"access_token": {userAccessToken}}
	var resp struct {
		Data []PageInfo `json:"data"`
	}
	if err := c.get(ctx, "/me/accounts", query, &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// InstallApp subscribes the app to the page's webhook fields so the page
// starts delivering leadgen and messaging events.
func (c *Client) InstallApp(ctx context.Context, pageID, pageAccessToken string) error {
	query := url.Values{
		"access_token":      {pageAccessToken},
		"subscribed_fields": {"leadgen,messages"},
	}
	endpoint := fmt.Sprintf("%s/%s/subscribed_apps?%s", c.graphAPIBase, pageID, query.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, nil)
	if err != nil {
		return fmt.Errorf("meta: create install request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("meta: install app on page %s: %w", pageID, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("meta: read install response: %w", err)
	}
	if err := graphErrorFrom(body, resp.StatusCode); err != nil {
		c.logger.Error("app install failed", "page_id", pageID, "error", err)
		return err
	}
	return nil
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	endpoint := c.graphAPIBase + path + "?" + query.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("meta: create request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("meta: request %s: %w", path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("meta: read response: %w", err)
	}
	if err := graphErrorFrom(body, resp.StatusCode); err != nil {
		// Upstream error bodies are logged server-side only; callers get a
		// wrapped error without the raw payload.
		c.logger.Error("graph api error", "path", path, "error", err)
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("meta: unmarshal response: %w", err)
	}
	return nil
}

func graphErrorFrom(body []byte, statusCode int) error {
	var envelope struct {
		Error *GraphError `json:"error"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Error != nil {
		return fmt.Errorf("meta: graph api error %d (%s): %s",
			envelope.Error.Code, envelope.Error.Type, envelope.Error.Message)
	}
	if statusCode != http.StatusOK {
		return fmt.Errorf("meta: unexpected status %d", statusCode)
	}
	return nil
}

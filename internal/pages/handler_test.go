package pages

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/leadhook/leadhook/internal/channels/meta"
	"github.com/leadhook/leadhook/internal/identity"
	"github.com/leadhook/leadhook/pkg/logging"
)

type fakeRepo struct {
	accountExists bool
	accountErr    error
	connection    *SocialConnection
	connectionErr error
	created       []string
	createErr     error
	createCalls   int
}

func (f *fakeRepo) FindByPageID(ctx context.Context, pageID string) (*PageLink, error) {
	return nil, ErrPageNotFound
}

func (f *fakeRepo) FindConnection(ctx context.Context, accountID int64, channel Channel) (*SocialConnection, error) {
	if f.connectionErr != nil {
		return nil, f.connectionErr
	}
	return f.connection, nil
}

func (f *fakeRepo) AccountExists(ctx context.Context, accountID int64) (bool, error) {
	return f.accountExists, f.accountErr
}

func (f *fakeRepo) AccountEmail(ctx context.Context, accountID int64) (string, error) {
	return "owner@x.com", nil
}

func (f *fakeRepo) CreateLinks(ctx context.Context, params CreateLinksParams) ([]string, error) {
	f.createCalls++
	if f.createErr != nil {
		return nil, f.createErr
	}
	return f.created, nil
}

type fakeGraph struct {
	pages      []meta.PageInfo
	pagesErr   error
	installed  []string
	installErr error
}

func (f *fakeGraph) FetchPages(ctx context.Context, userAccessToken string) ([]meta.PageInfo, error) {
	return f.pages, f.pagesErr
}

func (f *fakeGraph) InstallApp(ctx context.Context, pageID, pageAccessToken string) error {
	if f.installErr != nil {
		return f.installErr
	}
	f.installed = append(f.installed, pageID)
	return nil
}

func authedRequest(method, target, body string) *http.Request {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	return req.WithContext(identity.WithAccountID(req.Context(), 42))
}

func connectedRepo() *fakeRepo {
	return &fakeRepo{
		accountExists: true,
		connection:    &SocialConnection{ID: 5, AccountID: 42, Channel: ChannelFacebook, UserAccessToken: "utok"},
	}
}

func TestChoosePages(t *testing.T) {
	repo := connectedRepo()
	repo.created = []string{"P1"}
	graph := &fakeGraph{}
	h := NewHandler(repo, graph, time.Hour, logging.Default())

	body := `{"pages":[{"id":"P1","access_token":"tok1","name":"Shop"},{"id":"P2","access_token":"tok2","name":"Cafe"}]}`
	rec := httptest.NewRecorder()
	h.ChoosePages(rec, authedRequest(http.MethodPost, "/social/facebook/pages", body))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var resp choosePagesResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Created) != 1 || resp.Created[0] != "P1" {
		t.Fatalf("created = %v", resp.Created)
	}
	// app installed only on the newly linked page, with its own token
	if len(graph.installed) != 1 || graph.installed[0] != "P1" {
		t.Fatalf("installed = %v", graph.installed)
	}
}

func TestChoosePagesNoIdentity(t *testing.T) {
	h := NewHandler(connectedRepo(), &fakeGraph{}, time.Hour, logging.Default())

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/social/facebook/pages", strings.NewReader(`{"pages":[{"id":"P1"}]}`))
	h.ChoosePages(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestChoosePagesEmptySelection(t *testing.T) {
	repo := connectedRepo()
	h := NewHandler(repo, &fakeGraph{}, time.Hour, logging.Default())

	rec := httptest.NewRecorder()
	h.ChoosePages(rec, authedRequest(http.MethodPost, "/social/facebook/pages", `{"pages":[]}`))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
	if repo.createCalls != 0 {
		t.Fatal("no links should be created")
	}
}

func TestChoosePagesBadBody(t *testing.T) {
	h := NewHandler(connectedRepo(), &fakeGraph{}, time.Hour, logging.Default())

	rec := httptest.NewRecorder()
	h.ChoosePages(rec, authedRequest(http.MethodPost, "/social/facebook/pages", `{not json`))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestChoosePagesUnknownAccount(t *testing.T) {
	repo := connectedRepo()
	repo.accountExists = false
	h := NewHandler(repo, &fakeGraph{}, time.Hour, logging.Default())

	rec := httptest.NewRecorder()
	h.ChoosePages(rec, authedRequest(http.MethodPost, "/social/facebook/pages", `{"pages":[{"id":"P1"}]}`))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestChoosePagesNotConnected(t *testing.T) {
	repo := connectedRepo()
	repo.connectionErr = ErrNotConnected
	h := NewHandler(repo, &fakeGraph{}, time.Hour, logging.Default())

	rec := httptest.NewRecorder()
	h.ChoosePages(rec, authedRequest(http.MethodPost, "/social/facebook/pages", `{"pages":[{"id":"P1"}]}`))

	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestChoosePagesInstallFailure(t *testing.T) {
	repo := connectedRepo()
	repo.created = []string{"P1"}
	h := NewHandler(repo, &fakeGraph{installErr: errors.New("graph down")}, time.Hour, logging.Default())

	rec := httptest.NewRecorder()
	h.ChoosePages(rec, authedRequest(http.MethodPost, "/social/facebook/pages", `{"pages":[{"id":"P1","access_token":"tok1"}]}`))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestListPages(t *testing.T) {
	graph := &fakeGraph{pages: []meta.PageInfo{{ID: "P1", Name: "Shop", AccessToken: "tok1"}}}
	h := NewHandler(connectedRepo(), graph, time.Hour, logging.Default())

	rec := httptest.NewRecorder()
	h.ListPages(rec, authedRequest(http.MethodGet, "/social/facebook/pages", ""))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var resp map[string][]meta.PageInfo
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp["pages"]) != 1 || resp["pages"][0].ID != "P1" {
		t.Fatalf("pages = %v", resp["pages"])
	}
}

func TestListPagesNotConnected(t *testing.T) {
	repo := connectedRepo()
	repo.connectionErr = ErrNotConnected
	h := NewHandler(repo, &fakeGraph{}, time.Hour, logging.Default())

	rec := httptest.NewRecorder()
	h.ListPages(rec, authedRequest(http.MethodGet, "/social/facebook/pages", ""))

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestStatus(t *testing.T) {
	cases := []struct {
		name string
		repo *fakeRepo
		want string
	}{
		{"connected", connectedRepo(), "true"},
		{"not connected", &fakeRepo{connectionErr: ErrNotConnected}, "false"},
		{"empty token", &fakeRepo{connection: &SocialConnection{ID: 5}}, "false"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := NewHandler(tc.repo, &fakeGraph{}, time.Hour, logging.Default())
			rec := httptest.NewRecorder()
			h.Status(rec, authedRequest(http.MethodGet, "/social/facebook/status", ""))

			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d", rec.Code)
			}
			if got := strings.TrimSpace(rec.Body.String()); got != tc.want {
				t.Fatalf("body = %q, want %q", got, tc.want)
			}
		})
	}
}

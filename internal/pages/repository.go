package pages

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/leadhook/leadhook/internal/channels/meta"
)

// PgxPool is the subset of pgxpool.Pool the repository needs.
type PgxPool interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Repository is the interface the HTTP handler and webhook pipeline need.
type Repository interface {
	FindByPageID(ctx context.Context, pageID string) (*PageLink, error)
	FindConnection(ctx context.Context, accountID int64, channel Channel) (*SocialConnection, error)
	AccountExists(ctx context.Context, accountID int64) (bool, error)
	AccountEmail(ctx context.Context, accountID int64) (string, error)
	CreateLinks(ctx context.Context, params CreateLinksParams) ([]string, error)
}

// CreateLinksParams describes a page-selection submission.
type CreateLinksParams struct {
	AccountID    int64
	ConnectionID int64
	TokenTTL     time.Duration
	Pages        []PageSelection
}

// PostgresRepository stores page links and connections in Postgres.
type PostgresRepository struct {
	pool PgxPool
}

// NewPostgresRepository initializes a repo backed by pgxpool.
func NewPostgresRepository(pool PgxPool) *PostgresRepository {
	if pool == nil {
		panic("pages: pgx pool required")
	}
	return &PostgresRepository{pool: pool}
}

// FindByPageID looks up the link for a platform page id.
func (r *PostgresRepository) FindByPageID(ctx context.Context, pageID string) (*PageLink, error) {
	query := `
		SELECT id, page_id, page_access_token, page_name, token_expires_at, connection_id, account_id, created_at
		FROM facebook_pages
		WHERE page_id = $1
	`
	var link PageLink
	err := r.pool.QueryRow(ctx, query, pageID).Scan(
		&link.ID,
		&link.PageID,
		&link.PageAccessToken,
		&link.PageName,
		&link.TokenExpiresAt,
		&link.ConnectionID,
		&link.AccountID,
		&link.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPageNotFound
		}
		return nil, fmt.Errorf("pages: select link failed: %w", err)
	}
	return &link, nil
}

// ResolvePage adapts the link lookup to the webhook pipeline's contract.
func (r *PostgresRepository) ResolvePage(ctx context.Context, pageID string) (meta.PageCredentials, error) {
	link, err := r.FindByPageID(ctx, pageID)
	if err != nil {
		if errors.Is(err, ErrPageNotFound) {
			return meta.PageCredentials{}, meta.ErrPageNotLinked
		}
		return meta.PageCredentials{}, err
	}
	return meta.PageCredentials{
		AccountID:       link.AccountID,
		PageAccessToken: link.PageAccessToken,
	}, nil
}

// FindConnection returns the account's authorization state for a channel.
func (r *PostgresRepository) FindConnection(ctx context.Context, accountID int64, channel Channel) (*SocialConnection, error) {
	query := `
		SELECT id, account_id, channel, user_access_token, created_at
		FROM social_connections
		WHERE account_id = $1 AND channel = $2
	`
	var conn SocialConnection
	err := r.pool.QueryRow(ctx, query, accountID, channel).Scan(
		&conn.ID,
		&conn.AccountID,
		&conn.Channel,
		&conn.UserAccessToken,
		&conn.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotConnected
		}
		return nil, fmt.Errorf("pages: select connection failed: %w", err)
	}
	return &conn, nil
}

// AccountExists reports whether the account id is known.
func (r *PostgresRepository) AccountExists(ctx context.Context, accountID int64) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM accounts WHERE id = $1)`, accountID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("pages: account lookup failed: %w", err)
	}
	return exists, nil
}

// AccountEmail returns the account's contact email for notifications.
func (r *PostgresRepository) AccountEmail(ctx context.Context, accountID int64) (string, error) {
	var email string
	err := r.pool.QueryRow(ctx, `SELECT email FROM accounts WHERE id = $1`, accountID).Scan(&email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", ErrAccountNotFound
		}
		return "", fmt.Errorf("pages: account email lookup failed: %w", err)
	}
	return email, nil
}

// CreateLinks inserts links for pages not already known and returns the page
// ids actually created. The whole selection runs in one transaction so
// concurrent duplicate submissions for the same page cannot race the
// existence check.
func (r *PostgresRepository) CreateLinks(ctx context.Context, params CreateLinksParams) ([]string, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("pages: begin failed: %w", err)
	}
	defer tx.Rollback(ctx)

	expiresAt := time.Now().Add(params.TokenTTL)
	query := `
		INSERT INTO facebook_pages (page_id, page_access_token, page_name, token_expires_at, connection_id, account_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (page_id) DO NOTHING
	`

	var created []string
	for _, page := range params.Pages {
		tag, err := tx.Exec(ctx, query,
			page.ID,
			page.AccessToken,
			page.Name,
			expiresAt,
			params.ConnectionID,
			params.AccountID,
		)
		if err != nil {
			return nil, fmt.Errorf("pages: insert link %s failed: %w", page.ID, err)
		}
		if tag.RowsAffected() > 0 {
			created = append(created, page.ID)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("pages: commit failed: %w", err)
	}
	return created, nil
}

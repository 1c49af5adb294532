package leads

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// PgxPool is the subset of pgxpool.Pool the repository needs.
type PgxPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresRepository stores leads in the relational database.
type PostgresRepository struct {
	pool PgxPool
}

// NewPostgresRepository initializes a repo backed by pgxpool.
func NewPostgresRepository(pool PgxPool) *PostgresRepository {
	if pool == nil {
		panic("leads: pgx pool required")
	}
	return &PostgresRepository{pool: pool}
}

// Create inserts a new row. Webhook redeliveries for an already-captured
// external lead hit the partial unique index and surface as ErrDuplicateLead.
func (r *PostgresRepository) Create(ctx context.Context, req *CreateLeadRequest) (*Lead, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	id := uuid.New()
	query := `
		INSERT INTO leads (id, account_id, lead_text, status, contact_name, contact_email, contact_phone, source, external_lead_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (source, external_lead_id) WHERE external_lead_id <> '' DO NOTHING
		RETURNING created_at
	`
	var createdAt time.Time
	err := r.pool.QueryRow(ctx, query,
		id,
		req.AccountID,
		req.LeadText,
		StatusNew,
		req.ContactName,
		req.ContactEmail,
		req.ContactPhone,
		req.Source,
		req.ExternalLeadID,
	).Scan(&createdAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrDuplicateLead
		}
		return nil, fmt.Errorf("leads: insert failed: %w", err)
	}

	return &Lead{
		ID:             id.String(),
		AccountID:      req.AccountID,
		LeadText:       req.LeadText,
		Status:         StatusNew,
		ContactName:    req.ContactName,
		ContactEmail:   req.ContactEmail,
		ContactPhone:   req.ContactPhone,
		Source:         req.Source,
		ExternalLeadID: req.ExternalLeadID,
		CreatedAt:      createdAt,
	}, nil
}

// ListByAccount fetches all leads owned by the account, newest first.
func (r *PostgresRepository) ListByAccount(ctx context.Context, accountID int64) ([]*Lead, error) {
	query := `
		SELECT id, account_id, lead_text, status, contact_name, contact_email, contact_phone, source, external_lead_id, created_at
		FROM leads
		WHERE account_id = $1
		ORDER BY created_at DESC
	`
	rows, err := r.pool.Query(ctx, query, accountID)
	if err != nil {
		return nil, fmt.Errorf("leads: select failed: %w", err)
	}
	defer rows.Close()

	var out []*Lead
	for rows.Next() {
		var lead Lead
		if err := rows.Scan(
			&lead.ID,
			&lead.AccountID,
			&lead.LeadText,
			&lead.Status,
			&lead.ContactName,
			&lead.ContactEmail,
			&lead.ContactPhone,
			&lead.Source,
			&lead.ExternalLeadID,
			&lead.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("leads: scan failed: %w", err)
		}
		out = append(out, &lead)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("leads: rows failed: %w", err)
	}
	return out, nil
}

package leads

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Repository defines the interface for lead storage
type Repository interface {
	Create(ctx context.Context, req *CreateLeadRequest) (*Lead, error)
	ListByAccount(ctx context.Context, accountID int64) ([]*Lead, error)
}

// InMemoryRepository is an in-memory Repository used in tests and local runs.
type InMemoryRepository struct {
	mu    sync.RWMutex
	leads map[string]*Lead
	// seen enforces the same (source, external id) idempotency the Postgres
	// repository gets from its partial unique index.
	seen map[string]struct{}
}

// NewInMemoryRepository creates a new in-memory repository
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		leads: make(map[string]*Lead),
		seen:  make(map[string]struct{}),
	}
}

// Create creates a new lead in memory
func (r *InMemoryRepository) Create(ctx context.Context, req *CreateLeadRequest) (*Lead, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if req.ExternalLeadID != "" {
		key := string(req.Source) + "|" + req.ExternalLeadID
		if _, dup := r.seen[key]; dup {
			return nil, ErrDuplicateLead
		}
		r.seen[key] = struct{}{}
	}

	lead := &Lead{
		ID:             uuid.New().String(),
		AccountID:      req.AccountID,
		LeadText:       req.LeadText,
		Status:         StatusNew,
		ContactName:    req.ContactName,
		ContactEmail:   req.ContactEmail,
		ContactPhone:   req.ContactPhone,
		Source:         req.Source,
		ExternalLeadID: req.ExternalLeadID,
		CreatedAt:      time.Now().UTC(),
	}
	r.leads[lead.ID] = lead

	return lead, nil
}

// ListByAccount returns all leads owned by the given account.
func (r *InMemoryRepository) ListByAccount(ctx context.Context, accountID int64) ([]*Lead, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*Lead, 0)
	for _, lead := range r.leads {
		if lead.AccountID == accountID {
			out = append(out, lead)
		}
	}
	return out, nil
}

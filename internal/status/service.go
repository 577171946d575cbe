package status

import (
	"context"

	"github.com/google/uuid"
)

// Service is the application-facing front of the status store. It owns URL
// normalization and job hashing so callers never pass raw URLs to the store,
// and it implements the id, job URL, base URL lookup precedence.
type Service struct {
	store Store
}

// NewService wraps a store.
func NewService(store Store) *Service {
	return &Service{store: store}
}

// Close releases the underlying store.
func (s *Service) Close() {
	s.store.Close()
}

// Begin creates the snapshot for a new run. jobURL may be empty when the
// caller submitted raw text only; in that case the URL keys are blank and the
// snapshot is only addressable by id.
func (s *Service) Begin(ctx context.Context, jobDescription, jobURL string) (*Snapshot, error) {
	var normalized, base string
	if jobURL != "" {
		var err error
		normalized, err = NormalizeJobURL(jobURL)
		if err != nil {
			return nil, err
		}
		base, err = BaseURL(jobURL)
		if err != nil {
			return nil, err
		}
	}
	hash := JobHash(jobDescription, normalized)
	return s.store.Create(ctx, normalized, base, hash)
}

// Update merges the patch into the snapshot.
func (s *Service) Update(ctx context.Context, id uuid.UUID, patch Patch) (*Snapshot, error) {
	return s.store.Update(ctx, id, patch)
}

// SetApplied records the applied flag.
func (s *Service) SetApplied(ctx context.Context, id uuid.UUID, applied bool) (*Snapshot, error) {
	return s.store.SetApplied(ctx, id, applied)
}

// List returns snapshots newest-first.
func (s *Service) List(ctx context.Context, includeApplied bool) ([]*Snapshot, error) {
	return s.store.List(ctx, includeApplied)
}

// LookupQuery carries the keys a client may know. Precedence is StatusID
// first, then JobURL, then BaseURL.
type LookupQuery struct {
	StatusID string
	JobURL   string
	BaseURL  string
}

// Lookup resolves a snapshot by whichever key the client supplied. URL keys
// are normalized before lookup so clients need not pre-normalize.
func (s *Service) Lookup(ctx context.Context, q LookupQuery) (*Snapshot, error) {
	if q.StatusID != "" {
		id, err := uuid.Parse(q.StatusID)
		if err != nil {
			return nil, &NotFoundError{Key: q.StatusID}
		}
		return s.store.Get(ctx, id)
	}
	if q.JobURL != "" {
		normalized, err := NormalizeJobURL(q.JobURL)
		if err != nil {
			return nil, err
		}
		return s.store.GetByJobURL(ctx, normalized)
	}
	if q.BaseURL != "" {
		base, err := BaseURL(q.BaseURL)
		if err != nil {
			return nil, err
		}
		return s.store.GetByBaseURL(ctx, base)
	}
	return nil, &NotFoundError{Key: "(no lookup key)"}
}

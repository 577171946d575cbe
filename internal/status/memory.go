package status

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/resume-agent/internal/types"
)

// MemoryStore is an in-process Store used when no database is configured and
// in unit tests. Snapshots do not survive a restart.
type MemoryStore struct {
	mu    sync.RWMutex
	snaps map[uuid.UUID]*Snapshot
	// clock is a monotonic tiebreaker so two writes in the same wall-clock
	// instant still order deterministically.
	clock int64
	order map[uuid.UUID]int64
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		snaps: make(map[uuid.UUID]*Snapshot),
		order: make(map[uuid.UUID]int64),
	}
}

func (m *MemoryStore) touch(id uuid.UUID) {
	m.clock++
	m.order[id] = m.clock
}

// Create allocates and stores a fresh snapshot in processing state.
func (m *MemoryStore) Create(ctx context.Context, jobURL, baseURL, jobHash string) (*Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now().UTC()
	snap := &Snapshot{
		StatusID:    uuid.New(),
		JobURL:      jobURL,
		BaseURL:     baseURL,
		JobHash:     jobHash,
		Status:      types.StatusProcessing,
		CurrentStep: types.StepReceived,
		Message:     "Request received",
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	m.snaps[snap.StatusID] = snap
	m.touch(snap.StatusID)
	return copySnapshot(snap), nil
}

// Update merges the patch into the stored snapshot and bumps updated_at.
func (m *MemoryStore) Update(ctx context.Context, id uuid.UUID, patch Patch) (*Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	snap, ok := m.snaps[id]
	if !ok {
		return nil, &NotFoundError{Key: id.String()}
	}
	patch.apply(snap)
	snap.UpdatedAt = time.Now().UTC()
	m.touch(id)
	return copySnapshot(snap), nil
}

// Get returns the snapshot with the given id.
func (m *MemoryStore) Get(ctx context.Context, id uuid.UUID) (*Snapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	snap, ok := m.snaps[id]
	if !ok {
		return nil, &NotFoundError{Key: id.String()}
	}
	return copySnapshot(snap), nil
}

// GetByJobURL returns the most recently updated snapshot for the job URL.
func (m *MemoryStore) GetByJobURL(ctx context.Context, jobURL string) (*Snapshot, error) {
	return m.latestMatch(jobURL, func(s *Snapshot) bool { return s.JobURL == jobURL })
}

// GetByBaseURL returns the most recently updated snapshot for the base URL.
func (m *MemoryStore) GetByBaseURL(ctx context.Context, baseURL string) (*Snapshot, error) {
	return m.latestMatch(baseURL, func(s *Snapshot) bool { return s.BaseURL == baseURL })
}

func (m *MemoryStore) latestMatch(key string, match func(*Snapshot) bool) (*Snapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var best *Snapshot
	var bestOrder int64
	for id, snap := range m.snaps {
		if !match(snap) {
			continue
		}
		if best == nil || m.order[id] > bestOrder {
			best = snap
			bestOrder = m.order[id]
		}
	}
	if best == nil {
		return nil, &NotFoundError{Key: key}
	}
	return copySnapshot(best), nil
}

// List returns snapshots newest-first, optionally excluding applied ones.
func (m *MemoryStore) List(ctx context.Context, includeApplied bool) ([]*Snapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*Snapshot, 0, len(m.snaps))
	for _, snap := range m.snaps {
		if !includeApplied && snap.Applied {
			continue
		}
		out = append(out, copySnapshot(snap))
	}
	sort.Slice(out, func(i, j int) bool {
		return m.order[out[i].StatusID] > m.order[out[j].StatusID]
	})
	return out, nil
}

// SetApplied records the applied flag and bumps updated_at.
func (m *MemoryStore) SetApplied(ctx context.Context, id uuid.UUID, applied bool) (*Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	snap, ok := m.snaps[id]
	if !ok {
		return nil, &NotFoundError{Key: id.String()}
	}
	snap.Applied = applied
	snap.UpdatedAt = time.Now().UTC()
	m.touch(id)
	return copySnapshot(snap), nil
}

// Close is a no-op for the in-memory store.
func (m *MemoryStore) Close() {}

func copySnapshot(s *Snapshot) *Snapshot {
	out := *s
	out.StepHistory = append([]types.Step(nil), s.StepHistory...)
	out.Errors = append([]types.StepError(nil), s.Errors...)
	if s.Metadata != nil {
		out.Metadata = make(map[string]any, len(s.Metadata))
		for k, v := range s.Metadata {
			out.Metadata[k] = v
		}
	}
	return &out
}

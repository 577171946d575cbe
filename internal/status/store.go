package status

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jonathan/resume-agent/internal/types"
)

// Store persists and retrieves status snapshots. All URL arguments are
// expected to be pre-normalized; Service handles normalization at the
// boundary.
type Store interface {
	Create(ctx context.Context, jobURL, baseURL, jobHash string) (*Snapshot, error)
	Update(ctx context.Context, id uuid.UUID, patch Patch) (*Snapshot, error)
	Get(ctx context.Context, id uuid.UUID) (*Snapshot, error)
	GetByJobURL(ctx context.Context, jobURL string) (*Snapshot, error)
	GetByBaseURL(ctx context.Context, baseURL string) (*Snapshot, error)
	List(ctx context.Context, includeApplied bool) ([]*Snapshot, error)
	SetApplied(ctx context.Context, id uuid.UUID, applied bool) (*Snapshot, error)
	Close()
}

// PGStore is the PostgreSQL-backed Store. A write is not complete until the
// row is durably stored, so snapshots survive process restarts.
type PGStore struct {
	pool *pgxpool.Pool
}

// ConnectPG establishes a connection pool and ensures the schema exists.
func ConnectPG(ctx context.Context, databaseURL string) (*PGStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	s := &PGStore{pool: pool}
	if err := s.ensureSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the connection pool.
func (s *PGStore) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

func (s *PGStore) ensureSchema(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS status_snapshots (
			id UUID PRIMARY KEY,
			job_url TEXT NOT NULL,
			base_url TEXT NOT NULL,
			job_hash TEXT NOT NULL,
			title TEXT NOT NULL DEFAULT '',
			company TEXT NOT NULL DEFAULT '',
			status TEXT NOT NULL,
			current_step TEXT NOT NULL,
			message TEXT NOT NULL DEFAULT '',
			step_history JSONB NOT NULL DEFAULT '[]',
			errors JSONB NOT NULL DEFAULT '[]',
			resume_url TEXT NOT NULL DEFAULT '',
			applied BOOLEAN NOT NULL DEFAULT FALSE,
			metadata JSONB NOT NULL DEFAULT '{}',
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_status_snapshots_job_url ON status_snapshots (job_url, updated_at DESC);
		CREATE INDEX IF NOT EXISTS idx_status_snapshots_base_url ON status_snapshots (base_url, updated_at DESC);
		CREATE INDEX IF NOT EXISTS idx_status_snapshots_updated_at ON status_snapshots (updated_at DESC);
	`)
	if err != nil {
		return &StoreError{Op: "schema setup", Cause: err}
	}
	return nil
}

// Create allocates and persists a fresh snapshot in processing state.
func (s *PGStore) Create(ctx context.Context, jobURL, baseURL, jobHash string) (*Snapshot, error) {
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
	if err := s.insert(ctx, snap); err != nil {
		return nil, err
	}
	return snap, nil
}

func (s *PGStore) insert(ctx context.Context, snap *Snapshot) error {
	stepHistory, errs, metadata, err := marshalJSONColumns(snap)
	if err != nil {
		return err
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO status_snapshots
			(id, job_url, base_url, job_hash, title, company, status, current_step, message,
			 step_history, errors, resume_url, applied, metadata, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`,
		snap.StatusID, snap.JobURL, snap.BaseURL, snap.JobHash, snap.Title, snap.Company,
		snap.Status, snap.CurrentStep, snap.Message, stepHistory, errs, snap.ResumeURL,
		snap.Applied, metadata, snap.CreatedAt, snap.UpdatedAt,
	)
	if err != nil {
		return &StoreError{Op: "create", Cause: err}
	}
	return nil
}

// Update merges the patch into the stored snapshot and bumps updated_at. The
// row is locked for the duration so concurrent patches do not lose writes.
func (s *PGStore) Update(ctx context.Context, id uuid.UUID, patch Patch) (*Snapshot, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, &StoreError{Op: "update", Cause: err}
	}
	defer func() { _ = tx.Rollback(ctx) }()

	row := tx.QueryRow(ctx, selectSnapshot+` WHERE id = $1 FOR UPDATE`, id)
	snap, err := scanSnapshot(row)
	if err != nil {
		if IsNotFound(err) {
			return nil, &NotFoundError{Key: id.String()}
		}
		return nil, err
	}

	patch.apply(snap)
	snap.UpdatedAt = time.Now().UTC()

	stepHistory, errs, metadata, err := marshalJSONColumns(snap)
	if err != nil {
		return nil, err
	}

	_, err = tx.Exec(ctx,
		`UPDATE status_snapshots SET
			title = $2, company = $3, status = $4, current_step = $5, message = $6,
			step_history = $7, errors = $8, resume_url = $9, metadata = $10,
			updated_at = $11
		 WHERE id = $1`,
		snap.StatusID, snap.Title, snap.Company, snap.Status, snap.CurrentStep,
		snap.Message, stepHistory, errs, snap.ResumeURL, metadata, snap.UpdatedAt,
	)
	if err != nil {
		return nil, &StoreError{Op: "update", Cause: err}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, &StoreError{Op: "update", Cause: err}
	}
	return snap, nil
}

// Get returns the snapshot with the given id.
func (s *PGStore) Get(ctx context.Context, id uuid.UUID) (*Snapshot, error) {
	row := s.pool.QueryRow(ctx, selectSnapshot+` WHERE id = $1`, id)
	snap, err := scanSnapshot(row)
	if err != nil {
		if IsNotFound(err) {
			return nil, &NotFoundError{Key: id.String()}
		}
		return nil, err
	}
	return snap, nil
}

// GetByJobURL returns the most recently updated snapshot for the job URL.
func (s *PGStore) GetByJobURL(ctx context.Context, jobURL string) (*Snapshot, error) {
	row := s.pool.QueryRow(ctx,
		selectSnapshot+` WHERE job_url = $1 ORDER BY updated_at DESC LIMIT 1`, jobURL)
	snap, err := scanSnapshot(row)
	if err != nil {
		var nf *NotFoundError
		if errors.As(err, &nf) {
			return nil, &NotFoundError{Key: jobURL}
		}
		return nil, err
	}
	return snap, nil
}

// GetByBaseURL returns the most recently updated snapshot for the base URL.
func (s *PGStore) GetByBaseURL(ctx context.Context, baseURL string) (*Snapshot, error) {
	row := s.pool.QueryRow(ctx,
		selectSnapshot+` WHERE base_url = $1 ORDER BY updated_at DESC LIMIT 1`, baseURL)
	snap, err := scanSnapshot(row)
	if err != nil {
		var nf *NotFoundError
		if errors.As(err, &nf) {
			return nil, &NotFoundError{Key: baseURL}
		}
		return nil, err
	}
	return snap, nil
}

// List returns snapshots newest-first by updated_at. When includeApplied is
// false, snapshots already marked applied are excluded.
func (s *PGStore) List(ctx context.Context, includeApplied bool) ([]*Snapshot, error) {
	query := selectSnapshot
	if !includeApplied {
		query += ` WHERE applied = FALSE`
	}
	query += ` ORDER BY updated_at DESC`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, &StoreError{Op: "list", Cause: err}
	}
	defer rows.Close()

	var out []*Snapshot
	for rows.Next() {
		snap, err := scanSnapshot(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, snap)
	}
	if err := rows.Err(); err != nil {
		return nil, &StoreError{Op: "list", Cause: err}
	}
	return out, nil
}

// SetApplied records the applied flag and bumps updated_at.
func (s *PGStore) SetApplied(ctx context.Context, id uuid.UUID, applied bool) (*Snapshot, error) {
	row := s.pool.QueryRow(ctx,
		`UPDATE status_snapshots SET applied = $2, updated_at = $3 WHERE id = $1
		 RETURNING `+snapshotColumns, id, applied, time.Now().UTC())
	snap, err := scanSnapshot(row)
	if err != nil {
		if IsNotFound(err) {
			return nil, &NotFoundError{Key: id.String()}
		}
		return nil, err
	}
	return snap, nil
}

const snapshotColumns = `id, job_url, base_url, job_hash, title, company, status, current_step,
	message, step_history, errors, resume_url, applied, metadata, created_at, updated_at`

const selectSnapshot = `SELECT ` + snapshotColumns + ` FROM status_snapshots`

func marshalJSONColumns(snap *Snapshot) (stepHistory, errs, metadata []byte, err error) {
	history := snap.StepHistory
	if history == nil {
		history = []types.Step{}
	}
	stepHistory, err = json.Marshal(history)
	if err != nil {
		return nil, nil, nil, &StoreError{Op: "marshal step history", Cause: err}
	}

	errList := snap.Errors
	if errList == nil {
		errList = []types.StepError{}
	}
	errs, err = json.Marshal(errList)
	if err != nil {
		return nil, nil, nil, &StoreError{Op: "marshal errors", Cause: err}
	}

	meta := snap.Metadata
	if meta == nil {
		meta = map[string]any{}
	}
	metadata, err = json.Marshal(meta)
	if err != nil {
		return nil, nil, nil, &StoreError{Op: "marshal metadata", Cause: err}
	}
	return stepHistory, errs, metadata, nil
}

func scanSnapshot(row pgx.Row) (*Snapshot, error) {
	var (
		snap        Snapshot
		stepHistory []byte
		errList     []byte
		metadata    []byte
	)
	err := row.Scan(
		&snap.StatusID, &snap.JobURL, &snap.BaseURL, &snap.JobHash, &snap.Title,
		&snap.Company, &snap.Status, &snap.CurrentStep, &snap.Message, &stepHistory,
		&errList, &snap.ResumeURL, &snap.Applied, &metadata, &snap.CreatedAt, &snap.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, &NotFoundError{Key: "unknown"}
	}
	if err != nil {
		return nil, &StoreError{Op: "scan", Cause: err}
	}

	if err := json.Unmarshal(stepHistory, &snap.StepHistory); err != nil {
		return nil, &StoreError{Op: "unmarshal step history", Cause: err}
	}
	if err := json.Unmarshal(errList, &snap.Errors); err != nil {
		return nil, &StoreError{Op: "unmarshal errors", Cause: err}
	}
	if err := json.Unmarshal(metadata, &snap.Metadata); err != nil {
		return nil, &StoreError{Op: "unmarshal metadata", Cause: err}
	}
	return &snap, nil
}

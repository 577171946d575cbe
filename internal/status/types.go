package status

import (
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/resume-agent/internal/types"
)

// Snapshot is the persisted, queryable record of a run's current state. It is
// created before the first workflow stage executes and lives indefinitely.
type Snapshot struct {
	StatusID    uuid.UUID         `json:"status_id"`
	JobURL      string            `json:"job_url"`
	BaseURL     string            `json:"base_url"`
	JobHash     string            `json:"job_hash"`
	Title       string            `json:"title,omitempty"`
	Company     string            `json:"company,omitempty"`
	Status      types.Status      `json:"status"`
	CurrentStep types.Step        `json:"current_step"`
	Message     string            `json:"message,omitempty"`
	StepHistory []types.Step      `json:"step_history,omitempty"`
	Errors      []types.StepError `json:"errors,omitempty"`
	ResumeURL   string            `json:"resume_url,omitempty"`
	Applied     bool              `json:"applied"`
	Metadata    map[string]any    `json:"metadata,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

// Patch is a partial update to a snapshot. Nil pointer fields are left
// untouched; nil slices are left untouched while non-nil slices replace the
// stored value. Metadata merges one level deep instead of replacing.
type Patch struct {
	Title       *string
	Company     *string
	Status      *types.Status
	CurrentStep *types.Step
	Message     *string
	StepHistory []types.Step
	Errors      []types.StepError
	ResumeURL   *string
	Metadata    map[string]any
}

// apply merges the patch into the snapshot in place. The caller bumps
// UpdatedAt.
func (p Patch) apply(s *Snapshot) {
	if p.Title != nil {
		s.Title = *p.Title
	}
	if p.Company != nil {
		s.Company = *p.Company
	}
	if p.Status != nil {
		s.Status = *p.Status
	}
	if p.CurrentStep != nil {
		s.CurrentStep = *p.CurrentStep
	}
	if p.Message != nil {
		s.Message = *p.Message
	}
	if p.StepHistory != nil {
		s.StepHistory = append([]types.Step(nil), p.StepHistory...)
	}
	if p.Errors != nil {
		s.Errors = append([]types.StepError(nil), p.Errors...)
	}
	if p.ResumeURL != nil {
		s.ResumeURL = *p.ResumeURL
	}
	if p.Metadata != nil {
		s.Metadata = mergeMetadata(s.Metadata, p.Metadata)
	}
}

// mergeMetadata merges src into dst. Map-valued keys present on both sides
// merge one additional level deep; everything else is replaced.
func mergeMetadata(dst, src map[string]any) map[string]any {
	if dst == nil {
		dst = make(map[string]any, len(src))
	}
	for k, v := range src {
		srcMap, srcOK := v.(map[string]any)
		dstMap, dstOK := dst[k].(map[string]any)
		if srcOK && dstOK {
			merged := make(map[string]any, len(dstMap)+len(srcMap))
			for k2, v2 := range dstMap {
				merged[k2] = v2
			}
			for k2, v2 := range srcMap {
				merged[k2] = v2
			}
			dst[k] = merged
			continue
		}
		dst[k] = v
	}
	return dst
}

// StringPtr returns a pointer to s.
func StringPtr(s string) *string { return &s }

// StatusPtr returns a pointer to st.
func StatusPtr(st types.Status) *types.Status { return &st }

// StepPtr returns a pointer to st.
func StepPtr(st types.Step) *types.Step { return &st }

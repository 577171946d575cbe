// Package types provides type definitions for structured data used throughout
// the resume-agent system.
package types

// Step identifies a single node in the workflow graph.
type Step string

// Workflow step tokens, in nominal execution order.
const (
	StepReceived           Step = "received"
	StepScreening          Step = "screening"
	StepLoadingPointers    Step = "loading_pointers"
	StepPointersMissing    Step = "pointers_missing"
	StepAnalyzingJD        Step = "analyzing_jd"
	StepWritingResume      Step = "writing_resume"
	StepGeneratingDocument Step = "generating_document"
	StepValidatingResume   Step = "validating_resume"
	StepUploaded           Step = "uploaded"
	StepScreenedOut        Step = "screened_out"
	StepWorkflowError      Step = "workflow_error"
)

// Status is the coarse lifecycle tag of a run, distinct from the fine-grained Step.
type Status string

// Lifecycle status values. The last four are terminal.
const (
	StatusProcessing       Status = "processing"
	StatusCompleted        Status = "completed"
	StatusFailed           Status = "failed"
	StatusNoSponsorship    Status = "no_sponsorship"
	StatusScreeningBlocked Status = "screening_blocked"
)

// IsTerminal reports whether the status ends the run.
func (s Status) IsTerminal() bool {
	switch s {
	case StatusCompleted, StatusFailed, StatusNoSponsorship, StatusScreeningBlocked:
		return true
	}
	return false
}

// StepError records a diagnostic failure that occurred inside a stage.
// The errors list on WorkflowState is append-only and never cleared.
type StepError struct {
	Step    Step   `json:"step"`
	Message string `json:"message"`
}

// WorkflowState is the single mutable record threaded through every stage.
// It is owned exclusively by the engine; stages receive it, mutate their own
// output fields, and hand it back. It is transient and discarded after the run.
type WorkflowState struct {
	JobDescription string `json:"job_description"`
	JobURL         string `json:"job_url"`
	JobHash        string `json:"job_hash"`

	JobMetadata          *JobMetadata          `json:"job_metadata,omitempty"`
	BasePointers         *PointerBank          `json:"base_pointers,omitempty"`
	AnalyzedRequirements *AnalyzedRequirements `json:"analyzed_requirements,omitempty"`
	RewrittenBullets     *RewrittenBullets     `json:"rewritten_bullets,omitempty"`
	ValidationResult     *ValidationResult     `json:"validation_result,omitempty"`

	GeneratedDocPath string `json:"generated_doc_path,omitempty"`
	ResumeURL        string `json:"resume_url,omitempty"`

	RetryCount  int         `json:"retry_count"`
	CurrentStep Step        `json:"current_step"`
	Status      Status      `json:"status"`
	Errors      []StepError `json:"errors,omitempty"`

	// StepHistory records every step the run entered, in order, for client display.
	StepHistory []Step `json:"step_history,omitempty"`
}

// RecordError appends a diagnostic entry for the given step.
func (s *WorkflowState) RecordError(step Step, message string) {
	s.Errors = append(s.Errors, StepError{Step: step, Message: message})
}

// EnterStep advances the current step and appends it to the step history.
func (s *WorkflowState) EnterStep(step Step) {
	s.CurrentStep = step
	s.StepHistory = append(s.StepHistory, step)
}

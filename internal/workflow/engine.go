// Package workflow orchestrates the resume tailoring run as a state machine:
// screening, pointer loading, analysis, a bounded rewrite/validate retry
// loop, document generation, and upload, persisting a status snapshot after
// every transition.
package workflow

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/resume-agent/internal/analysis"
	"github.com/jonathan/resume-agent/internal/pointers"
	"github.com/jonathan/resume-agent/internal/rendering"
	"github.com/jonathan/resume-agent/internal/rewriting"
	"github.com/jonathan/resume-agent/internal/status"
	"github.com/jonathan/resume-agent/internal/storage"
	"github.com/jonathan/resume-agent/internal/types"
)

// DefaultMaxRetries bounds the validate-to-rewrite loop. The rewrite stage
// runs at most DefaultMaxRetries+1 times.
const DefaultMaxRetries = 2

// DefaultStageTimeout caps each collaborator call.
const DefaultStageTimeout = 2 * time.Minute

// Screener decides whether a posting is worth processing at all.
type Screener interface {
	Classify(ctx context.Context, jobDescription string) types.ScreeningResult
}

// Analyzer runs the JD-analysis stage.
type Analyzer interface {
	Analyze(ctx context.Context, req analysis.Request) (*analysis.Result, error)
}

// Rewriter runs the writing_resume stage.
type Rewriter interface {
	Rewrite(ctx context.Context, bank *types.PointerBank, requirements *types.AnalyzedRequirements, validationFeedback string) (*rewriting.Result, error)
}

// Validator runs the validating_resume stage.
type Validator interface {
	Validate(ctx context.Context, bank *types.PointerBank, bullets *types.RewrittenBullets, requirements *types.AnalyzedRequirements) *types.ValidationResult
}

// Config tunes the engine.
type Config struct {
	// MaxRetries bounds the validate-to-rewrite loop. Negative selects the
	// default; zero means a single rewrite attempt with no retries.
	MaxRetries int
	// StageTimeout caps each collaborator call. Non-positive selects the
	// default.
	StageTimeout time.Duration
}

// Engine executes workflow runs. All collaborators are injected so tests can
// substitute stubs.
type Engine struct {
	statuses  *status.Service
	screener  Screener
	source    pointers.Source
	analyzer  Analyzer
	rewriter  Rewriter
	validator Validator
	renderer  rendering.Renderer
	uploader  storage.Uploader

	maxRetries   int
	stageTimeout time.Duration
}

// NewEngine wires the collaborators into an engine.
func NewEngine(statuses *status.Service, screener Screener, source pointers.Source, analyzer Analyzer, rewriter Rewriter, validator Validator, renderer rendering.Renderer, uploader storage.Uploader, cfg Config) *Engine {
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = DefaultMaxRetries
	}
	if cfg.StageTimeout <= 0 {
		cfg.StageTimeout = DefaultStageTimeout
	}
	return &Engine{
		statuses:     statuses,
		screener:     screener,
		source:       source,
		analyzer:     analyzer,
		rewriter:     rewriter,
		validator:    validator,
		renderer:     renderer,
		uploader:     uploader,
		maxRetries:   cfg.MaxRetries,
		stageTimeout: cfg.StageTimeout,
	}
}

// Request is one tailoring submission.
type Request struct {
	JobDescription string
	JobURL         string
	Title          string
	Company        string
}

// RunResult reports the run outcome. Terminal failure is a valid outcome, not
// an error; Run only errors when the status snapshot cannot be created.
type RunResult struct {
	StatusID uuid.UUID
	State    *types.WorkflowState
}

// Run executes the workflow for one request. The status snapshot is created
// before the first stage so polling clients never race against workflow
// start, and the terminal status is always persisted before Run returns.
func (e *Engine) Run(ctx context.Context, req Request) (*RunResult, error) {
	snap, err := e.statuses.Begin(ctx, req.JobDescription, req.JobURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create status snapshot: %w", err)
	}
	return e.execute(ctx, snap, req), nil
}

// Start creates the status snapshot, launches the stages in the background,
// and returns the snapshot id immediately so the caller can respond while
// the run continues.
func (e *Engine) Start(ctx context.Context, req Request) (uuid.UUID, error) {
	snap, err := e.statuses.Begin(ctx, req.JobDescription, req.JobURL)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to create status snapshot: %w", err)
	}

	go func() {
		// The run outlives the originating HTTP request.
		e.execute(context.WithoutCancel(ctx), snap, req)
	}()
	return snap.StatusID, nil
}

func (e *Engine) execute(ctx context.Context, snap *status.Snapshot, req Request) *RunResult {
	state := &types.WorkflowState{
		JobDescription: req.JobDescription,
		JobURL:         snap.JobURL,
		JobHash:        snap.JobHash,
		Status:         types.StatusProcessing,
	}
	result := &RunResult{StatusID: snap.StatusID, State: state}

	defer func() {
		if r := recover(); r != nil {
			log.Printf("Workflow run %s panicked: %v", snap.StatusID, r)
			state.RecordError(types.StepWorkflowError, fmt.Sprintf("internal error: %v", r))
			state.CurrentStep = types.StepWorkflowError
			e.finish(ctx, snap.StatusID, state, types.StatusFailed, fmt.Sprintf("internal error: %v", r), nil)
		}
	}()

	e.run(ctx, snap.StatusID, state, req)
	return result
}

func (e *Engine) run(ctx context.Context, id uuid.UUID, state *types.WorkflowState, req Request) {
	// Screening runs first so disqualified postings never cost a model or
	// render call.
	e.enterStep(ctx, id, state, types.StepScreening)
	screening := e.classify(ctx, req.JobDescription)
	if terminal, blocked := screening.TerminalStatus(); blocked {
		state.CurrentStep = types.StepScreenedOut
		state.StepHistory = append(state.StepHistory, types.StepScreenedOut)
		e.finish(ctx, id, state, terminal, screeningMessage(screening), map[string]any{"screening": toMetadata(screening)})
		return
	}

	e.enterStep(ctx, id, state, types.StepLoadingPointers)
	bank, err := e.loadPointers(ctx)
	if err != nil {
		e.fail(ctx, id, state, types.StepLoadingPointers, fmt.Sprintf("pointer source unavailable: %v", err))
		return
	}
	state.BasePointers = bank
	if bank.IsEmpty() {
		// An empty bank is not an error. The run continues and downstream
		// stages see the gap in their own output.
		e.enterStep(ctx, id, state, types.StepPointersMissing)
	}

	e.enterStep(ctx, id, state, types.StepAnalyzingJD)
	analyzed, err := e.analyze(ctx, state, req)
	if err != nil {
		state.RecordError(types.StepAnalyzingJD, "analysis_failed")
		e.fail(ctx, id, state, types.StepAnalyzingJD, err.Error())
		return
	}
	state.JobMetadata = analyzed.Metadata
	state.AnalyzedRequirements = analyzed.Requirements
	e.persist(ctx, id, state, status.Patch{
		Title:    status.StringPtr(analyzed.Metadata.Title),
		Company:  status.StringPtr(analyzed.Metadata.Company),
		Metadata: map[string]any{"job_metadata": toMetadata(analyzed.Metadata)},
	})

	// The rewrite/validate loop. RetryCount strictly bounds it; the rewrite
	// stage runs at most maxRetries+1 times.
	feedback := ""
	for {
		e.enterStep(ctx, id, state, types.StepWritingResume)
		rewritten, err := e.rewrite(ctx, state, feedback)
		if err != nil {
			e.fail(ctx, id, state, types.StepWritingResume, err.Error())
			return
		}
		state.RewrittenBullets = rewritten.Bullets
		for _, warn := range rewritten.Warnings {
			state.RecordError(types.StepWritingResume, warn)
		}

		e.enterStep(ctx, id, state, types.StepGeneratingDocument)
		docPath, err := e.render(ctx, state)
		if err != nil {
			// Rendering is not influenced by content quality, so looping
			// back to the rewrite stage would not help.
			e.fail(ctx, id, state, types.StepGeneratingDocument, err.Error())
			return
		}
		state.GeneratedDocPath = docPath

		e.enterStep(ctx, id, state, types.StepValidatingResume)
		validation := e.validate(ctx, state)
		state.ValidationResult = validation
		e.persist(ctx, id, state, status.Patch{
			Metadata: map[string]any{"validation_result": toMetadata(validation)},
		})

		if validation.Passed {
			break
		}
		if state.RetryCount >= e.maxRetries {
			e.fail(ctx, id, state, types.StepValidatingResume,
				fmt.Sprintf("validation failed after %d attempts (coverage %.2f)",
					state.RetryCount+1, validation.KeywordCoverageScore))
			return
		}
		state.RetryCount++
		feedback = validation.FeedbackForRewrite
	}

	e.enterStep(ctx, id, state, types.StepUploaded)
	resumeURL, err := e.upload(ctx, state.GeneratedDocPath)
	if err != nil {
		e.fail(ctx, id, state, types.StepUploaded, err.Error())
		return
	}
	state.ResumeURL = resumeURL

	e.finish(ctx, id, state, types.StatusCompleted, "Resume generated and uploaded", map[string]any{"resume_url": resumeURL})
}

// stepMessages are the human-readable progress lines polling clients see
// alongside the step token.
var stepMessages = map[types.Step]string{
	types.StepScreening:          "Screening the job posting",
	types.StepLoadingPointers:    "Loading experience pointers",
	types.StepPointersMissing:    "Pointer bank is empty, continuing without base bullets",
	types.StepAnalyzingJD:        "Analyzing the job description",
	types.StepWritingResume:      "Rewriting resume bullets",
	types.StepGeneratingDocument: "Generating the resume document",
	types.StepValidatingResume:   "Validating keyword coverage",
	types.StepUploaded:           "Uploading the resume",
}

// screeningMessage explains a blocked screening outcome to the client.
func screeningMessage(result types.ScreeningResult) string {
	if result.Detail != "" {
		return "Posting blocked during screening: " + result.Detail
	}
	if result.Reason == types.ReasonNoSponsorship {
		return "Posting does not offer visa sponsorship"
	}
	return "Posting blocked during screening"
}

// Stage wrappers apply the per-call timeout.

func (e *Engine) classify(ctx context.Context, jobDescription string) types.ScreeningResult {
	stageCtx, cancel := context.WithTimeout(ctx, e.stageTimeout)
	defer cancel()
	return e.screener.Classify(stageCtx, jobDescription)
}

func (e *Engine) loadPointers(ctx context.Context) (*types.PointerBank, error) {
	stageCtx, cancel := context.WithTimeout(ctx, e.stageTimeout)
	defer cancel()
	return e.source.Load(stageCtx)
}

func (e *Engine) analyze(ctx context.Context, state *types.WorkflowState, req Request) (*analysis.Result, error) {
	stageCtx, cancel := context.WithTimeout(ctx, e.stageTimeout)
	defer cancel()
	return e.analyzer.Analyze(stageCtx, analysis.Request{
		JobDescription:  state.JobDescription,
		JobURL:          state.JobURL,
		ProvidedTitle:   req.Title,
		ProvidedCompany: req.Company,
	})
}

func (e *Engine) rewrite(ctx context.Context, state *types.WorkflowState, feedback string) (*rewriting.Result, error) {
	stageCtx, cancel := context.WithTimeout(ctx, e.stageTimeout)
	defer cancel()
	return e.rewriter.Rewrite(stageCtx, state.BasePointers, state.AnalyzedRequirements, feedback)
}

func (e *Engine) render(ctx context.Context, state *types.WorkflowState) (string, error) {
	stageCtx, cancel := context.WithTimeout(ctx, e.stageTimeout)
	defer cancel()
	return e.renderer.Render(stageCtx, state.RewrittenBullets, state.JobMetadata)
}

func (e *Engine) validate(ctx context.Context, state *types.WorkflowState) *types.ValidationResult {
	stageCtx, cancel := context.WithTimeout(ctx, e.stageTimeout)
	defer cancel()
	return e.validator.Validate(stageCtx, state.BasePointers, state.RewrittenBullets, state.AnalyzedRequirements)
}

func (e *Engine) upload(ctx context.Context, docPath string) (string, error) {
	stageCtx, cancel := context.WithTimeout(ctx, e.stageTimeout)
	defer cancel()
	return e.uploader.Upload(stageCtx, docPath)
}

// enterStep advances the state machine and persists the transition together
// with its progress message.
func (e *Engine) enterStep(ctx context.Context, id uuid.UUID, state *types.WorkflowState, step types.Step) {
	state.EnterStep(step)
	message, ok := stepMessages[step]
	if !ok {
		message = string(step)
	}
	e.persist(ctx, id, state, status.Patch{Message: status.StringPtr(message)})
}

// fail records the terminal failed status for the given step.
func (e *Engine) fail(ctx context.Context, id uuid.UUID, state *types.WorkflowState, step types.Step, message string) {
	state.RecordError(step, message)
	log.Printf("Workflow run %s failed at %s: %s", id, step, message)
	e.finish(ctx, id, state, types.StatusFailed, message, nil)
}

// finish persists the terminal status and its explanation. This is the last
// write of a run and must land even when the caller's context is already
// canceled.
func (e *Engine) finish(ctx context.Context, id uuid.UUID, state *types.WorkflowState, terminal types.Status, message string, extraMetadata map[string]any) {
	ctx = context.WithoutCancel(ctx)
	state.Status = terminal
	patch := status.Patch{
		Message:  status.StringPtr(message),
		Metadata: extraMetadata,
	}
	if state.ResumeURL != "" {
		patch.ResumeURL = status.StringPtr(state.ResumeURL)
	}
	e.persist(ctx, id, state, patch)
}

// persist writes the state's step, status, history, and errors plus any extra
// patch fields. Persistence trouble is logged, never fatal to the run; the
// workflow outcome does not depend on the observability write.
func (e *Engine) persist(ctx context.Context, id uuid.UUID, state *types.WorkflowState, patch status.Patch) {
	patch.Status = status.StatusPtr(state.Status)
	patch.CurrentStep = status.StepPtr(state.CurrentStep)
	patch.StepHistory = state.StepHistory
	patch.Errors = state.Errors

	if _, err := e.statuses.Update(ctx, id, patch); err != nil {
		log.Printf("Failed to persist status for run %s: %v", id, err)
	}
}

// toMetadata flattens a struct into the snapshot's free-form metadata blob.
func toMetadata(v any) map[string]any {
	raw, err := json.Marshal(v)
	if err != nil {
		return map[string]any{}
	}
	var out map[string]any
	if err := json.Unmarshal(raw, &out); err != nil {
		return map[string]any{}
	}
	return out
}

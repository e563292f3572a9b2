package engine

import (
	"github.com/junipermd/storefront/libs/clock"
	"github.com/junipermd/storefront/libs/errors"
)

// Engine sequences an eligibility screener: the general question block
// followed by per-product question sections.
//
// Specifically, it is responsible for:
// - Accepting and validating responses to questions in the set.
// - Walking the deterministic step plan built from the question set.
// - Grading answers against server declared correct option rules and routing
//   disqualified runs to the matching terminal or branch step.
// - Tracking per product eligibility independently so one ineligible product
//   never blocks another from being evaluated.
// - Emitting the eligibility report to the checkout collaborator when the
//   run completes.
//
// An Engine owns exactly one run for one user session; it is not shared
// across sessions and navigation calls are not re-entrant. The only
// suspension point is the file upload inside Advance, during which further
// navigation is refused.
type Engine interface {
	// Init loads a question-set payload and binds the client. The payload
	// maps "generalQuestions" to the general block and "<productId>_<slug>"
	// keys to product sections; an optional "responses" entry resumes a
	// previous session. An empty set yields a trivial single step plan.
	Init(data []byte, cli Client) error

	// SetResponse records the response carried in data for the question.
	// Setting a response equal to the stored one is a no-op; otherwise the
	// response is persisted through the client.
	SetResponse(questionID string, data []byte) error

	// Advance validates the current step and moves the run forward,
	// evaluating correctness rules along the way. A *UserError is returned
	// when a required question is unanswered or an upload fails; a
	// disqualifying answer is not an error and instead routes the run.
	// Advancing past the final step completes the run.
	Advance() error

	// Back moves to the previous step. At the first step it delegates to the
	// client's leave handler instead of navigating.
	Back() error

	// RestartGeneral deletes all general responses and returns to the first
	// general question step, or the intro when the set has none.
	RestartGeneral() error

	// RestartProduct deletes the section's responses, clears its recorded
	// eligibility and returns to the section's intro step.
	RestartProduct(productIndex int) error

	// ContinueAfterIneligible leaves a product result screen: to the next
	// product's intro, to the final summary, or straight to completion when
	// neither exists.
	ContinueAfterIneligible() error

	// CurrentStep returns the step the run is on, or a terminal step value
	// when the run has been disqualified.
	CurrentStep() Step

	// Progress returns the 0-100 completion percentage for the current
	// position.
	Progress() int

	// Completed reports whether the run has emitted its report.
	Completed() bool

	// Report returns the eligibility report of a completed run. Repeated
	// calls return the same report.
	Report() (*Report, error)

	// SubmissionAnswers returns the flattened {questionId, answer} pairs for
	// every answered question, with file answers replaced by their uploaded
	// URLs.
	SubmissionAnswers() ([]SubmissionAnswer, error)

	// String dumps the run state for debugging.
	String() string
}

// Client is implemented by the surrounding application. The engine stays
// free of UI concerns; everything user visible beyond step routing is
// projected through this interface.
type Client interface {
	// PersistResponse is called whenever a response is set or changed,
	// including when a file response resolves to its uploaded URL.
	PersistResponse(questionID string, data []byte) error

	// UploadProgress reports file upload progress for a question as a 0-100
	// percentage.
	UploadProgress(questionID string, pct int)

	// HandoffCheckout receives the eligibility report when a run completes
	// with at least the general block eligible.
	HandoffCheckout(report *Report) error

	// LeaveScreener is called when the user navigates back from the first
	// step.
	LeaveScreener()
}

// UploadResult is the resolved value of a file upload.
type UploadResult struct {
	URL         string
	Filename    string
	ContentType string
}

// Uploader transfers a client local file to remote storage, reporting
// progress along the way. The contract is resolve or fail; uploads are not
// abortable.
type Uploader interface {
	Upload(localRef, filename, contentType, folderPrefix string, progress func(pct int)) (*UploadResult, error)
}

// UserError is a validation failure meant to be shown to the user as a
// transient message. It never changes eligibility state.
type UserError struct {
	Msg string
}

func (e *UserError) Error() string {
	return e.Msg
}

// IsUserError reports whether an error should surface as a user message.
func IsUserError(err error) bool {
	_, ok := errors.Cause(err).(*UserError)
	return ok
}

// Config carries the engine's collaborators.
type Config struct {
	// Uploader resolves file question uploads. Required only when the
	// question set contains file questions.
	Uploader Uploader

	// UploadFolderPrefix scopes uploaded object names, eg "visit-intake".
	UploadFolderPrefix string

	// Clock stamps report completion times. Defaults to the wall clock.
	Clock clock.Clock
}

// New returns an Engine ready for Init.
func New(cfg Config) Engine {
	if cfg.Clock == nil {
		cfg.Clock = clock.New()
	}
	return &screenerEngine{cfg: cfg}
}

package engine

import (
	"bytes"
	"encoding/json"
	"sync"
	"time"

	"github.com/junipermd/storefront/libs/errors"
	"github.com/junipermd/storefront/libs/golog"
	"github.com/junipermd/storefront/libs/ptr"
)

var (
	errNotInitialized = errors.New("screener engine not initialized")

	errScreenerCompleted = &UserError{Msg: "This screener has already been submitted."}

	errUploadInProgress = &UserError{Msg: "A file upload is in progress. Please wait for it to finish."}

	errUploadFailed = &UserError{Msg: "We couldn't upload your file. Please try again."}

	errTerminalStep = errors.New("screener is at a terminal step")
)

type screenerEngine struct {
	cfg Config

	// mu serializes all navigation and response mutation. It is released for
	// the duration of a file upload, with busy set so re-entrant calls are
	// refused instead of queued behind the transfer.
	mu   sync.Mutex
	busy bool

	cli    Client
	set    *questionSet
	plan   []Step
	store  *responseStore
	ledger *eligibilityLedger

	// currentStep indexes into plan, or holds one of the negative terminal
	// sentinels. lastPlanStep remembers the final in-plan position so
	// progress stays meaningful after the run leaves the plan.
	currentStep  int
	lastPlanStep int

	completed bool
	report    *Report
}

func (e *screenerEngine) Init(data []byte, cli Client) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	set, err := parseQuestionSet(data)
	if err != nil {
		return errors.Trace(err)
	}

	e.cli = cli
	e.set = set
	e.plan = buildPlan(set)
	e.store = newResponseStore()
	e.ledger = newEligibilityLedger(set.Products)
	e.currentStep = 0
	e.lastPlanStep = 0
	e.completed = false
	e.report = nil

	if err := e.seedResponses(data); err != nil {
		return errors.Trace(err)
	}

	golog.Context("screener", "init").Debugf("loaded question set: %d general, %d products, %d steps",
		len(set.General), len(set.Products), len(e.plan))
	return nil
}

// seedResponses restores previously saved responses carried in the payload's
// "responses" entry so a session resumes where it left off. Entries that no
// longer match a question in the set are dropped rather than failing the
// load.
func (e *screenerEngine) seedResponses(data []byte) error {
	var raw map[string]interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return errors.Trace(err)
	}
	root := dataMap(raw)
	if !root.exists(responsesKey) {
		return nil
	}

	items, err := root.getInterfaceSlice(responsesKey)
	if err != nil {
		return errors.Trace(err)
	}
	for _, item := range items {
		rm, err := getDataMap(item)
		if err != nil {
			return errors.Trace(err)
		}
		r, err := getResponse(rm)
		if err != nil {
			return errors.Trace(err)
		}
		q := e.set.question(r.questionID())
		if q == nil {
			golog.Warningf("screener: dropping saved response for unknown question %q", r.questionID())
			continue
		}
		if questionTypeToResponseType[q.Type] != responseTypeOf(r) {
			golog.Warningf("screener: dropping saved response of type %s for question %q of type %s",
				responseTypeOf(r), q.ID, q.Type)
			continue
		}
		e.store.set(r)
	}
	return nil
}

func (e *screenerEngine) SetResponse(questionID string, data []byte) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.set == nil {
		return errors.Trace(errNotInitialized)
	}
	if e.completed {
		return errors.Trace(errScreenerCompleted)
	}
	if e.busy {
		return errors.Trace(errUploadInProgress)
	}

	q := e.set.question(questionID)
	if q == nil {
		return errors.Errorf("no question with id %q in the set", questionID)
	}

	var raw map[string]interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return errors.Annotatef(err, "response for question %q", questionID)
	}
	r, err := getResponse(dataMap(raw))
	if err != nil {
		return errors.Trace(err)
	}
	r.setQuestionID(questionID)

	if questionTypeToResponseType[q.Type] != responseTypeOf(r) {
		return errors.Errorf("response of type %s does not answer question %q of type %s",
			responseTypeOf(r), q.ID, q.Type)
	}

	if existing, ok := e.store.get(questionID); ok && existing.equals(r) {
		return nil
	}

	e.store.set(r)
	return errors.Trace(e.persistResponse(r))
}

func (e *screenerEngine) persistResponse(r response) error {
	data, err := r.marshalJSONForClient()
	if err != nil {
		return errors.Trace(err)
	}
	return errors.Trace(e.cli.PersistResponse(r.questionID(), data))
}

func (e *screenerEngine) Advance() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.set == nil {
		return errors.Trace(errNotInitialized)
	}
	if e.completed {
		return errors.Trace(errScreenerCompleted)
	}
	if e.busy {
		return errors.Trace(errUploadInProgress)
	}
	if e.currentStep < 0 {
		return errors.Trace(errTerminalStep)
	}

	st := e.plan[e.currentStep]
	if st.isQuestionStep() {
		q := e.questionAtStep(st)
		r, ok := e.store.get(q.ID)
		answered := ok && !r.isEmpty()

		if q.Required && !answered {
			return errors.Trace(errQuestionRequirement)
		}

		if answered && q.Type == questionTypeFile {
			fr := r.(*fileResponse)
			if !fr.uploaded() {
				if err := e.resolveUpload(q, fr); err != nil {
					return errors.Trace(err)
				}
			}
		}

		if answered && q.HasCorrectOption && !responseCorrect(q, r) {
			if st.Type == StepTypeGeneralQuestion {
				e.lastPlanStep = e.currentStep
				e.currentStep = stepIndexGeneralIneligible
				golog.Infof("screener: general question %q disqualified the run", q.ID)
				return nil
			}
			se := e.set.Products[st.Product]
			e.ledger.markIneligible(se.ProductID, q.Title)
			e.currentStep = productStepIndex(e.plan, StepTypeProductResult, st.Product)
			golog.Infof("screener: product %q disqualified by question %q", se.ProductID, q.ID)
			return nil
		}
	}

	return errors.Trace(e.moveForward())
}

// moveForward advances to the next plan step, settling a product section's
// eligibility when the next step is its result screen, and completing the
// run when there is no next step.
func (e *screenerEngine) moveForward() error {
	next := e.currentStep + 1
	if next >= len(e.plan) {
		return errors.Trace(e.complete())
	}

	if nst := e.plan[next]; nst.Type == StepTypeProductResult {
		se := e.set.Products[nst.Product]
		if e.ledger.state(se.ProductID) != eligibilityIneligible {
			e.settleProduct(se)
		}
	}

	e.currentStep = next
	e.lastPlanStep = next
	return nil
}

// settleProduct evaluates a section's answered graded questions and records
// the outcome. The ledger keeps an existing ineligible mark.
func (e *screenerEngine) settleProduct(se *productSection) {
	if evaluateGroup(se.Questions, e.store) {
		e.ledger.markEligible(se.ProductID)
		return
	}
	var reason string
	if q := firstIncorrect(se.Questions, e.store); q != nil {
		reason = q.Title
	}
	e.ledger.markIneligible(se.ProductID, reason)
}

// resolveUpload transfers the picked file through the upload coordinator.
// The engine stays at the current step for the duration; busy refuses any
// re-entrant navigation while the lock is released around the transfer.
func (e *screenerEngine) resolveUpload(q *question, fr *fileResponse) error {
	if e.cfg.Uploader == nil {
		return errors.Errorf("no uploader configured but question %q requires a file upload", q.ID)
	}

	e.busy = true
	e.mu.Unlock()
	res, err := e.cfg.Uploader.Upload(fr.LocalID, fr.Filename, fr.ContentType, e.cfg.UploadFolderPrefix, func(pct int) {
		e.cli.UploadProgress(q.ID, pct)
	})
	e.mu.Lock()
	e.busy = false

	if err != nil {
		golog.Errorf("screener: upload for question %q failed: %s", q.ID, err)
		return errors.Trace(errUploadFailed)
	}

	fr.markUploaded(res)
	return errors.Trace(e.persistResponse(fr))
}

func (e *screenerEngine) Back() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.set == nil {
		return errors.Trace(errNotInitialized)
	}
	if e.completed {
		return errors.Trace(errScreenerCompleted)
	}
	if e.busy {
		return errors.Trace(errUploadInProgress)
	}
	if e.currentStep < 0 {
		return errors.Trace(errTerminalStep)
	}

	if e.currentStep == 0 {
		e.cli.LeaveScreener()
		return nil
	}
	e.currentStep--
	e.lastPlanStep = e.currentStep
	return nil
}

func (e *screenerEngine) RestartGeneral() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.set == nil {
		return errors.Trace(errNotInitialized)
	}
	if e.completed {
		return errors.Trace(errScreenerCompleted)
	}
	if e.busy {
		return errors.Trace(errUploadInProgress)
	}

	ids := make([]string, len(e.set.General))
	for i, q := range e.set.General {
		ids[i] = q.ID
	}
	e.store.remove(ids)

	idx := firstStepIndex(e.plan, StepTypeGeneralQuestion)
	if idx == -1 {
		idx = firstStepIndex(e.plan, StepTypeIntro)
	}
	e.currentStep = idx
	e.lastPlanStep = idx
	return nil
}

func (e *screenerEngine) RestartProduct(productIndex int) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.set == nil {
		return errors.Trace(errNotInitialized)
	}
	if e.completed {
		return errors.Trace(errScreenerCompleted)
	}
	if e.busy {
		return errors.Trace(errUploadInProgress)
	}
	if productIndex < 0 || productIndex >= len(e.set.Products) {
		return errors.Errorf("product index %d out of range [0,%d)", productIndex, len(e.set.Products))
	}

	se := e.set.Products[productIndex]
	e.store.remove(se.questionIDs())
	e.ledger.reset(se.ProductID)

	idx := productStepIndex(e.plan, StepTypeProductIntro, productIndex)
	e.currentStep = idx
	e.lastPlanStep = idx
	return nil
}

func (e *screenerEngine) ContinueAfterIneligible() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.set == nil {
		return errors.Trace(errNotInitialized)
	}
	if e.completed {
		return errors.Trace(errScreenerCompleted)
	}
	if e.busy {
		return errors.Trace(errUploadInProgress)
	}
	if e.currentStep < 0 {
		return errors.Trace(errTerminalStep)
	}
	if e.plan[e.currentStep].Type != StepTypeProductResult {
		return errors.Errorf("continueAfterIneligible called on %s step", e.plan[e.currentStep].Type)
	}

	return errors.Trace(e.moveForward())
}

// complete ends the run per the completion rules: a failing general block
// overrides everything, then every undecided product section is settled, and
// only a run with an eligible outcome emits the report to the checkout
// collaborator.
func (e *screenerEngine) complete() error {
	if e.completed {
		return nil
	}

	if !evaluateGroup(e.set.General, e.store) {
		e.currentStep = stepIndexGeneralIneligible
		golog.Infof("screener: run ended generally ineligible")
		return nil
	}

	for _, se := range e.set.Products {
		if e.ledger.state(se.ProductID) == eligibilityUnevaluated {
			e.settleProduct(se)
		}
	}

	var eligible int
	for _, se := range e.set.Products {
		if e.ledger.state(se.ProductID) == eligibilityEligible {
			eligible++
		}
	}
	if len(e.set.Products) > 0 && eligible == 0 {
		e.currentStep = stepIndexOverallIneligible
		golog.Infof("screener: run ended with no eligible products")
		return nil
	}

	e.report = e.buildReport()
	e.completed = true
	golog.Infof("screener: run complete, %d of %d products eligible", eligible, len(e.set.Products))
	return errors.Trace(e.cli.HandoffCheckout(e.report))
}

func (e *screenerEngine) buildReport() *Report {
	rep := &Report{
		General: GeneralReport{
			IsEligible: true,
			Responses:  responseEntries(e.set.General, e.store),
		},
		Products: make([]*ProductReport, len(e.set.Products)),
	}
	for i, se := range e.set.Products {
		pr := &ProductReport{
			ProductID:   se.ProductID,
			ProductName: se.ProductName,
			IsEligible:  e.ledger.state(se.ProductID) == eligibilityEligible,
			Responses:   responseEntries(se.Questions, e.store),
		}
		if !pr.IsEligible {
			pr.IneligibilityReason = ptr.StringNilEmpty(e.ledger.reason(se.ProductID))
		}
		rep.Products[i] = pr
	}

	answered := e.store.answeredCount(e.set.General)
	for _, se := range e.set.Products {
		answered += e.store.answeredCount(se.Questions)
	}
	rep.Totals = ReportTotals{
		TotalQuestions: e.set.totalQuestions(),
		TotalAnswered:  answered,
		CompletedAt:    e.cfg.Clock.Now().UTC().Format(time.RFC3339),
	}
	return rep
}

func (e *screenerEngine) CurrentStep() Step {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.stepValue()
}

// stepValue resolves currentStep to a Step, mapping the terminal sentinels
// to their reporting variants. Callers hold the lock.
func (e *screenerEngine) stepValue() Step {
	switch e.currentStep {
	case stepIndexGeneralIneligible:
		return Step{Type: StepTypeGeneralIneligible, Product: -1, Question: -1}
	case stepIndexOverallIneligible:
		return Step{Type: StepTypeOverallIneligible, Product: -1, Question: -1}
	}
	if e.set == nil || e.currentStep >= len(e.plan) {
		return Step{Type: StepTypeIntro, Product: -1, Question: -1}
	}
	return e.plan[e.currentStep]
}

func (e *screenerEngine) Progress() int {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.set == nil {
		return 0
	}
	if e.completed {
		return 100
	}
	idx := e.currentStep
	if idx < 0 {
		idx = e.lastPlanStep
	}
	return progressPercent(idx, e.plan, e.set)
}

func (e *screenerEngine) Completed() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.completed
}

func (e *screenerEngine) Report() (*Report, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.completed {
		return nil, errors.New("screener run has not completed")
	}
	return e.report, nil
}

func (e *screenerEngine) SubmissionAnswers() ([]SubmissionAnswer, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.set == nil {
		return nil, errors.Trace(errNotInitialized)
	}

	questions := make([]*question, 0, e.set.totalQuestions())
	questions = append(questions, e.set.General...)
	for _, se := range e.set.Products {
		questions = append(questions, se.Questions...)
	}

	answers := make([]SubmissionAnswer, 0, len(questions))
	for _, q := range questions {
		r, ok := e.store.get(q.ID)
		if !ok || r.isEmpty() {
			continue
		}
		answers = append(answers, SubmissionAnswer{
			QuestionID: q.ID,
			Answer:     r.submissionValue(),
		})
	}
	return answers, nil
}

func (e *screenerEngine) questionAtStep(st Step) *question {
	if st.Type == StepTypeGeneralQuestion {
		return e.set.General[st.Question]
	}
	return e.set.Products[st.Product].Questions[st.Question]
}

// String dumps the engine state for debugging.
func (e *screenerEngine) String() string {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.set == nil {
		return "screener: uninitialized"
	}

	var b bytes.Buffer
	b.WriteString("screener step=" + e.stepValue().String() + "\n")
	b.WriteString(e.set.String())
	for _, se := range e.set.Products {
		b.WriteString(se.ProductID + ": " + e.ledger.state(se.ProductID).String() + "\n")
	}
	return b.String()
}

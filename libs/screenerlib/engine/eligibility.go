package engine

// eligibilityState represents the evaluated outcome for a product section.
// Zero value is eligibilityUnevaluated.
type eligibilityState int

const (
	// eligibilityUnevaluated means the section has not yet been fully
	// visited or short circuited.
	eligibilityUnevaluated eligibilityState = iota

	// eligibilityEligible means every graded question in the section was
	// answered correctly.
	eligibilityEligible

	// eligibilityIneligible means at least one graded question in the
	// section was answered incorrectly.
	eligibilityIneligible
)

var eligibilityStateNames = map[eligibilityState]string{
	eligibilityUnevaluated: "unevaluated",
	eligibilityEligible:    "eligible",
	eligibilityIneligible:  "ineligible",
}

func (e eligibilityState) String() string {
	return eligibilityStateNames[e]
}

// eligibilityLedger tracks per product eligibility outside the section
// objects so the parsed question set stays immutable. Updates only flow
// through the engine's navigation decisions.
type eligibilityLedger struct {
	states  map[string]eligibilityState
	reasons map[string]string
}

func newEligibilityLedger(products []*productSection) *eligibilityLedger {
	l := &eligibilityLedger{
		states:  make(map[string]eligibilityState, len(products)),
		reasons: make(map[string]string, len(products)),
	}
	for _, se := range products {
		l.states[se.ProductID] = eligibilityUnevaluated
	}
	return l
}

func (l *eligibilityLedger) state(productID string) eligibilityState {
	return l.states[productID]
}

func (l *eligibilityLedger) reason(productID string) string {
	return l.reasons[productID]
}

func (l *eligibilityLedger) markIneligible(productID, reason string) {
	l.states[productID] = eligibilityIneligible
	if _, ok := l.reasons[productID]; !ok || l.reasons[productID] == "" {
		l.reasons[productID] = reason
	}
}

// markEligible records an eligible outcome. An ineligible section stays
// ineligible; only an explicit reset can clear it.
func (l *eligibilityLedger) markEligible(productID string) {
	if l.states[productID] == eligibilityIneligible {
		return
	}
	l.states[productID] = eligibilityEligible
}

func (l *eligibilityLedger) reset(productID string) {
	l.states[productID] = eligibilityUnevaluated
	delete(l.reasons, productID)
}

// responseCorrect decides whether a response satisfies a question's correct
// option rule. Questions without the rule, and graded questions that are not
// option based, impose no constraint. An absent or unmatched selection on a
// graded option question is not correct. For multi select every selected
// option must be correct; the empty selection is left to the required-ness
// check, not judged here.
func responseCorrect(q *question, r response) bool {
	if !q.HasCorrectOption || !q.optionBased() {
		return true
	}
	switch sel := r.(type) {
	case *singleSelectResponse:
		o := q.option(sel.OptionID)
		return o != nil && o.IsCorrect
	case *multiSelectResponse:
		for _, id := range sel.OptionIDs {
			o := q.option(id)
			if o == nil || !o.IsCorrect {
				return false
			}
		}
		return true
	}
	return false
}

// evaluateGroup is the conjunction of responseCorrect over the answered
// graded questions in the group. Unanswered questions are skipped so an
// incomplete pass is never flagged ineligible early; completeness is
// enforced by the navigation requirements, not here.
func evaluateGroup(questions []*question, store *responseStore) bool {
	for _, q := range questions {
		if !q.HasCorrectOption {
			continue
		}
		r, ok := store.get(q.ID)
		if !ok || r.isEmpty() {
			continue
		}
		if !responseCorrect(q, r) {
			return false
		}
	}
	return true
}

// firstIncorrect returns the first answered graded question in the group
// whose response fails the correctness rule, or nil.
func firstIncorrect(questions []*question, store *responseStore) *question {
	for _, q := range questions {
		if !q.HasCorrectOption {
			continue
		}
		r, ok := store.get(q.ID)
		if !ok || r.isEmpty() {
			continue
		}
		if !responseCorrect(q, r) {
			return q
		}
	}
	return nil
}

package engine

import (
	"testing"

	"github.com/junipermd/storefront/libs/test"
)

func gradedQuestion(id string) *question {
	return &question{
		ID:               id,
		Type:             questionTypeRadio,
		Title:            "Question " + id,
		Required:         true,
		HasCorrectOption: true,
		Options: []*option{
			{ID: id + "_ok", Label: "Ok", IsCorrect: true},
			{ID: id + "_bad", Label: "Bad", IsCorrect: false},
		},
	}
}

func TestResponseCorrect(t *testing.T) {
	q := gradedQuestion("q")

	test.Equals(t, true, responseCorrect(q, &singleSelectResponse{OptionID: "q_ok"}))
	test.Equals(t, false, responseCorrect(q, &singleSelectResponse{OptionID: "q_bad"}))
	// an unmatched selection is not correct
	test.Equals(t, false, responseCorrect(q, &singleSelectResponse{OptionID: "stale"}))
	test.Equals(t, false, responseCorrect(q, &singleSelectResponse{}))

	// ungraded questions impose no constraint
	free := &question{ID: "f", Type: questionTypeFreeText}
	test.Equals(t, true, responseCorrect(free, &freeTextResponse{Text: "anything"}))

	// graded but not option based imposes no constraint either
	num := &question{ID: "n", Type: questionTypeNumber, HasCorrectOption: true}
	test.Equals(t, true, responseCorrect(num, &numberResponse{Value: 12, hasValue: true}))
}

func TestResponseCorrectMultiSelect(t *testing.T) {
	q := &question{
		ID:               "m",
		Type:             questionTypeCheckbox,
		HasCorrectOption: true,
		Options: []*option{
			{ID: "a", IsCorrect: true},
			{ID: "b", IsCorrect: true},
			{ID: "c", IsCorrect: false},
		},
	}

	test.Equals(t, true, responseCorrect(q, &multiSelectResponse{OptionIDs: []string{"a", "b"}}))
	// a single wrong selection disqualifies the whole answer
	test.Equals(t, false, responseCorrect(q, &multiSelectResponse{OptionIDs: []string{"a", "c"}}))
	// the empty selection trivially satisfies "every"; required-ness handles it
	test.Equals(t, true, responseCorrect(q, &multiSelectResponse{}))
}

func TestEvaluateGroupSkipsUnanswered(t *testing.T) {
	q1 := gradedQuestion("q1")
	q2 := gradedQuestion("q2")
	store := newResponseStore()

	// nothing answered yet: not violating
	test.Equals(t, true, evaluateGroup([]*question{q1, q2}, store))

	store.set(&singleSelectResponse{QuestionID: "q1", OptionID: "q1_ok"})
	test.Equals(t, true, evaluateGroup([]*question{q1, q2}, store))

	store.set(&singleSelectResponse{QuestionID: "q2", OptionID: "q2_bad"})
	test.Equals(t, false, evaluateGroup([]*question{q1, q2}, store))
	test.Equals(t, q2, firstIncorrect([]*question{q1, q2}, store))
}

func TestLedgerMonotonicity(t *testing.T) {
	sections := []*productSection{{ProductID: "p1"}, {ProductID: "p2"}}
	l := newEligibilityLedger(sections)

	test.Equals(t, eligibilityUnevaluated, l.state("p1"))

	l.markIneligible("p1", "History of liver disease")
	l.markEligible("p1")
	test.Equals(t, eligibilityIneligible, l.state("p1"))
	test.Equals(t, "History of liver disease", l.reason("p1"))

	// the first recorded reason wins
	l.markIneligible("p1", "Something else")
	test.Equals(t, "History of liver disease", l.reason("p1"))

	// only an explicit reset clears the mark
	l.reset("p1")
	test.Equals(t, eligibilityUnevaluated, l.state("p1"))
	test.Equals(t, "", l.reason("p1"))
	l.markEligible("p1")
	test.Equals(t, eligibilityEligible, l.state("p1"))

	// other sections are untouched
	test.Equals(t, eligibilityUnevaluated, l.state("p2"))
}

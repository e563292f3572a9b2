package engine

import (
	"testing"

	"github.com/junipermd/storefront/libs/test"
)

func TestParseQuestionSet(t *testing.T) {
	set, err := parseQuestionSet([]byte(twoProductSet))
	test.OK(t, err)

	test.Equals(t, 2, len(set.General))
	test.Equals(t, "g1", set.General[0].ID)
	test.Equals(t, questionTypeRadio, set.General[0].Type)
	test.Equals(t, true, set.General[0].HasCorrectOption)
	test.Equals(t, 2, len(set.General[0].Options))

	test.Equals(t, 2, len(set.Products))
	test.Equals(t, "finasteride", set.Products[0].ProductID)
	test.Equals(t, "HairLoss", set.Products[0].ProductName)
	test.Equals(t, "minoxidil", set.Products[1].ProductID)
	test.Equals(t, "TopicalTreatment", set.Products[1].ProductName)

	test.Equals(t, 4, set.totalQuestions())
	test.Assert(t, set.question("b1") != nil, "expected b1 in the question index")
	test.Assert(t, set.question("nope") == nil, "unexpected question for unknown id")
}

func TestSplitSectionKey(t *testing.T) {
	id, name := splitSectionKey("finasteride_hairLoss")
	test.Equals(t, "finasteride", id)
	test.Equals(t, "HairLoss", name)

	// slug may itself contain separators
	id, name = splitSectionKey("tretinoin_anti_aging")
	test.Equals(t, "tretinoin", id)
	test.Equals(t, "Anti_aging", name)

	// a key with no slug names the section after the id
	id, name = splitSectionKey("sildenafil")
	test.Equals(t, "sildenafil", id)
	test.Equals(t, "Sildenafil", name)
}

func TestParseQuestionSetMalformed(t *testing.T) {
	_, err := parseQuestionSet([]byte(`not json`))
	test.Assert(t, err != nil, "expected error for malformed payload")

	_, err = parseQuestionSet([]byte(`{"generalQuestions": "nope"}`))
	test.Assert(t, err != nil, "expected error for non-list section")

	_, err = parseQuestionSet([]byte(`{"generalQuestions": [{"type": "q_type_radio", "question_title": "no id"}]}`))
	test.Assert(t, err != nil, "expected error for question missing its id")

	_, err = parseQuestionSet([]byte(`{"generalQuestions": [
		{"question_id": "g1", "type": "q_type_teleport", "question_title": "?"}
	]}`))
	test.Assert(t, err != nil, "expected error for unsupported question type")

	_, err = parseQuestionSet([]byte(`{"generalQuestions": [
		{"question_id": "g1", "type": "q_type_radio", "question_title": "?", "potential_answers": []}
	]}`))
	test.Assert(t, err != nil, "expected error for option question with no options")
}

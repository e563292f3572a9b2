package engine

import (
	"encoding/json"

	"github.com/junipermd/storefront/libs/errors"
)

// singleSelectResponse holds the selected option for radio, select and
// dropdown questions.
type singleSelectResponse struct {
	QuestionID string `json:"question_id"`
	OptionID   string `json:"potential_answer_id"`
}

func (r *singleSelectResponse) questionID() string {
	return r.QuestionID
}

func (r *singleSelectResponse) setQuestionID(id string) {
	r.QuestionID = id
}

func (r *singleSelectResponse) isEmpty() bool {
	return r.OptionID == ""
}

func (r *singleSelectResponse) equals(other response) bool {
	o, ok := other.(*singleSelectResponse)
	if !ok {
		return false
	}
	return r.OptionID == o.OptionID
}

func (r *singleSelectResponse) unmarshalMapFromClient(data dataMap) error {
	if err := data.requiredKeys(responseTypeSingleSelect.String(), "potential_answer_id"); err != nil {
		return errors.Trace(err)
	}
	r.QuestionID = data.mustGetString("question_id")
	r.OptionID = data.mustGetString("potential_answer_id")
	return nil
}

func (r *singleSelectResponse) marshalJSONForClient() ([]byte, error) {
	return json.Marshal(struct {
		Type string `json:"type"`
		*singleSelectResponse
	}{
		Type:                 responseTypeSingleSelect.String(),
		singleSelectResponse: r,
	})
}

func (r *singleSelectResponse) submissionValue() interface{} {
	return r.OptionID
}

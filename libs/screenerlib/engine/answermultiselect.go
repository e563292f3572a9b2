package engine

import (
	"encoding/json"

	"github.com/junipermd/storefront/libs/errors"
)

// multiSelectResponse holds the selected options for checkbox questions.
type multiSelectResponse struct {
	QuestionID string   `json:"question_id"`
	OptionIDs  []string `json:"potential_answer_ids"`
}

func (r *multiSelectResponse) questionID() string {
	return r.QuestionID
}

func (r *multiSelectResponse) setQuestionID(id string) {
	r.QuestionID = id
}

func (r *multiSelectResponse) isEmpty() bool {
	return len(r.OptionIDs) == 0
}

func (r *multiSelectResponse) equals(other response) bool {
	o, ok := other.(*multiSelectResponse)
	if !ok {
		return false
	}
	if len(r.OptionIDs) != len(o.OptionIDs) {
		return false
	}
	for i, id := range r.OptionIDs {
		if o.OptionIDs[i] != id {
			return false
		}
	}
	return true
}

func (r *multiSelectResponse) unmarshalMapFromClient(data dataMap) error {
	if err := data.requiredKeys(responseTypeMultiSelect.String(), "potential_answer_ids"); err != nil {
		return errors.Trace(err)
	}
	r.QuestionID = data.mustGetString("question_id")

	// a bare string is accepted as a single selection
	ids, err := data.getStringSlice("potential_answer_ids")
	if err != nil {
		return errors.Trace(err)
	}
	r.OptionIDs = ids
	return nil
}

func (r *multiSelectResponse) marshalJSONForClient() ([]byte, error) {
	return json.Marshal(struct {
		Type string `json:"type"`
		*multiSelectResponse
	}{
		Type:                responseTypeMultiSelect.String(),
		multiSelectResponse: r,
	})
}

func (r *multiSelectResponse) submissionValue() interface{} {
	return r.OptionIDs
}

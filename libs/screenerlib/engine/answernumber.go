package engine

import (
	"encoding/json"

	"github.com/junipermd/storefront/libs/errors"
)

type numberResponse struct {
	QuestionID string  `json:"question_id"`
	Value      float64 `json:"value"`

	hasValue bool
}

func (r *numberResponse) questionID() string {
	return r.QuestionID
}

func (r *numberResponse) setQuestionID(id string) {
	r.QuestionID = id
}

func (r *numberResponse) isEmpty() bool {
	return !r.hasValue
}

func (r *numberResponse) equals(other response) bool {
	o, ok := other.(*numberResponse)
	if !ok {
		return false
	}
	return r.hasValue == o.hasValue && r.Value == o.Value
}

func (r *numberResponse) unmarshalMapFromClient(data dataMap) error {
	r.QuestionID = data.mustGetString("question_id")
	v, ok, err := data.getFloat64("value")
	if err != nil {
		return errors.Trace(err)
	}
	r.Value = v
	r.hasValue = ok
	return nil
}

func (r *numberResponse) marshalJSONForClient() ([]byte, error) {
	return json.Marshal(struct {
		Type string `json:"type"`
		*numberResponse
	}{
		Type:           responseTypeNumber.String(),
		numberResponse: r,
	})
}

func (r *numberResponse) submissionValue() interface{} {
	return r.Value
}

package engine

import (
	"encoding/json"
	"strings"

	"github.com/junipermd/storefront/libs/errors"
)

type freeTextResponse struct {
	QuestionID string `json:"question_id"`
	Text       string `json:"text"`
}

func (r *freeTextResponse) questionID() string {
	return r.QuestionID
}

func (r *freeTextResponse) setQuestionID(id string) {
	r.QuestionID = id
}

func (r *freeTextResponse) isEmpty() bool {
	return strings.TrimSpace(r.Text) == ""
}

func (r *freeTextResponse) equals(other response) bool {
	o, ok := other.(*freeTextResponse)
	if !ok {
		return false
	}
	return r.Text == o.Text
}

func (r *freeTextResponse) unmarshalMapFromClient(data dataMap) error {
	if err := data.requiredKeys(responseTypeFreeText.String(), "text"); err != nil {
		return errors.Trace(err)
	}
	r.QuestionID = data.mustGetString("question_id")
	r.Text = data.mustGetString("text")
	return nil
}

func (r *freeTextResponse) marshalJSONForClient() ([]byte, error) {
	return json.Marshal(struct {
		Type string `json:"type"`
		*freeTextResponse
	}{
		Type:             responseTypeFreeText.String(),
		freeTextResponse: r,
	})
}

func (r *freeTextResponse) submissionValue() interface{} {
	return r.Text
}

package engine

import (
	"encoding/json"

	"github.com/junipermd/storefront/libs/errors"
)

// fileResponse tracks a file answer through its upload lifecycle. LocalID is
// the client local reference to the picked file; URL is set once the upload
// coordinator has resolved, and is the only value that leaves the engine in
// submissions.
type fileResponse struct {
	QuestionID  string `json:"question_id"`
	LocalID     string `json:"local_id"`
	Filename    string `json:"filename"`
	ContentType string `json:"content_type"`
	URL         string `json:"url,omitempty"`
}

func (r *fileResponse) questionID() string {
	return r.QuestionID
}

func (r *fileResponse) setQuestionID(id string) {
	r.QuestionID = id
}

func (r *fileResponse) isEmpty() bool {
	return r.LocalID == "" && r.URL == ""
}

// uploaded reports whether the file has a remote reference.
func (r *fileResponse) uploaded() bool {
	return r.URL != ""
}

func (r *fileResponse) markUploaded(res *UploadResult) {
	r.URL = res.URL
	if res.Filename != "" {
		r.Filename = res.Filename
	}
	if res.ContentType != "" {
		r.ContentType = res.ContentType
	}
}

func (r *fileResponse) equals(other response) bool {
	o, ok := other.(*fileResponse)
	if !ok {
		return false
	}
	return r.LocalID == o.LocalID && r.Filename == o.Filename &&
		r.ContentType == o.ContentType && r.URL == o.URL
}

func (r *fileResponse) unmarshalMapFromClient(data dataMap) error {
	if err := data.requiredKeys(responseTypeFile.String(), "local_id", "filename"); err != nil {
		return errors.Trace(err)
	}
	r.QuestionID = data.mustGetString("question_id")
	r.LocalID = data.mustGetString("local_id")
	r.Filename = data.mustGetString("filename")
	r.ContentType = data.mustGetString("content_type")
	r.URL = data.mustGetString("url")
	return nil
}

func (r *fileResponse) marshalJSONForClient() ([]byte, error) {
	return json.Marshal(struct {
		Type string `json:"type"`
		*fileResponse
	}{
		Type:         responseTypeFile.String(),
		fileResponse: r,
	})
}

func (r *fileResponse) submissionValue() interface{} {
	return r.URL
}

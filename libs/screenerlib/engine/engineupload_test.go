package engine

import (
	"fmt"
	"testing"

	"github.com/junipermd/storefront/libs/test"
)

const fileQuestionSet = `{
	"tretinoin_skincare": [
		{
			"question_id": "f1",
			"type": "q_type_file",
			"question_title": "Upload a photo of the affected area.",
			"required": true
		}
	]
}`

const filePickPayload = `{
	"type": "r_type_file",
	"local_id": "file://picker/42",
	"filename": "area.jpg",
	"content_type": "image/jpeg"
}`

func advanceToFileQuestion(t *testing.T, e Engine) {
	t.Helper()
	test.OK(t, e.Advance()) // intro
	test.OK(t, e.Advance()) // transition
	test.OK(t, e.Advance()) // product intro
	test.Equals(t, StepTypeProductQuestion, e.CurrentStep().Type)
}

func TestFileUploadResolvesBeforeAdvancing(t *testing.T) {
	up := &stubUploader{res: &UploadResult{URL: "test://screener/area.jpg", Filename: "area.jpg", ContentType: "image/jpeg"}}
	e, cli := newTestEngine(t, fileQuestionSet, Config{Uploader: up, UploadFolderPrefix: "screener"})

	advanceToFileQuestion(t, e)
	test.OK(t, e.SetResponse("f1", []byte(filePickPayload)))
	test.OK(t, e.Advance())

	test.Equals(t, StepTypeProductResult, e.CurrentStep().Type)
	test.Equals(t, 1, up.calls)
	test.Equals(t, []int{0, 100}, cli.progress["f1"])

	// the resolved response was re-persisted with its remote reference
	test.Equals(t, 2, cli.persistCount["f1"])

	answers, err := e.SubmissionAnswers()
	test.OK(t, err)
	test.Equals(t, []SubmissionAnswer{{QuestionID: "f1", Answer: "test://screener/area.jpg"}}, answers)

	// moving back over the question must not upload again
	test.OK(t, e.Back())
	test.OK(t, e.Advance())
	test.Equals(t, 1, up.calls)
}

func TestFileUploadFailureKeepsStep(t *testing.T) {
	up := &stubUploader{err: fmt.Errorf("connection reset")}
	e, _ := newTestEngine(t, fileQuestionSet, Config{Uploader: up, UploadFolderPrefix: "screener"})

	advanceToFileQuestion(t, e)
	test.OK(t, e.SetResponse("f1", []byte(filePickPayload)))

	err := e.Advance()
	test.Assert(t, IsUserError(err), "expected user error for failed upload, got %v", err)
	test.Equals(t, StepTypeProductQuestion, e.CurrentStep().Type)

	// retry after the transport recovers
	up.err = nil
	up.res = &UploadResult{URL: "test://screener/area.jpg"}
	test.OK(t, e.Advance())
	test.Equals(t, StepTypeProductResult, e.CurrentStep().Type)
	test.Equals(t, 2, up.calls)
}

// reentrantUploader pokes the engine mid upload the way a double-clicked
// next button would.
type reentrantUploader struct {
	e          Engine
	advanceErr error
	setErr     error
}

func (u *reentrantUploader) Upload(localRef, filename, contentType, folderPrefix string, progress func(pct int)) (*UploadResult, error) {
	u.advanceErr = u.e.Advance()
	u.setErr = u.e.SetResponse("f1", []byte(filePickPayload))
	return &UploadResult{URL: "test://screener/area.jpg"}, nil
}

func TestUploadBusyGuard(t *testing.T) {
	up := &reentrantUploader{}
	e, _ := newTestEngine(t, fileQuestionSet, Config{Uploader: up, UploadFolderPrefix: "screener"})
	up.e = e

	advanceToFileQuestion(t, e)
	test.OK(t, e.SetResponse("f1", []byte(filePickPayload)))
	test.OK(t, e.Advance())

	test.Assert(t, IsUserError(up.advanceErr), "expected busy error for re-entrant advance, got %v", up.advanceErr)
	test.Assert(t, IsUserError(up.setErr), "expected busy error for re-entrant set, got %v", up.setErr)
	test.Equals(t, StepTypeProductResult, e.CurrentStep().Type)
}

func TestFileQuestionWithoutUploader(t *testing.T) {
	e, _ := newTestEngine(t, fileQuestionSet, Config{})

	advanceToFileQuestion(t, e)
	test.OK(t, e.SetResponse("f1", []byte(filePickPayload)))
	err := e.Advance()
	test.Assert(t, err != nil, "expected error advancing a file question with no uploader configured")
	test.Assert(t, !IsUserError(err), "missing uploader is a programming error, not a user error")
}

package engine

import (
	"github.com/junipermd/storefront/libs/errors"
)

// responsesKey is the optional question-set entry carrying previously saved
// responses so a session can resume where it left off.
const responsesKey = "responses"

type responseType string

const (
	responseTypeSingleSelect responseType = "r_type_single_select"
	responseTypeMultiSelect  responseType = "r_type_multi_select"
	responseTypeFreeText     responseType = "r_type_free_text"
	responseTypeNumber       responseType = "r_type_number"
	responseTypeFile         responseType = "r_type_file"
)

func (r responseType) String() string {
	return string(r)
}

// response is a patient provided answer to a single question. Implementations
// are the source of truth for their own emptiness and equality semantics.
type response interface {
	questionID() string
	setQuestionID(id string)

	// isEmpty reports whether the response should be treated as unanswered
	// for required-ness checks.
	isEmpty() bool

	// equals compares against another response of the same type; used to
	// skip persistence when an identical answer is set again.
	equals(other response) bool

	unmarshalMapFromClient(data dataMap) error

	// marshalJSONForClient serializes the response for persistence by the
	// client, including its type tag.
	marshalJSONForClient() ([]byte, error)

	// submissionValue is the flattened answer used in the submission
	// payload. File responses yield their uploaded URL.
	submissionValue() interface{}
}

var responseTypeRegistry = map[responseType]func() response{}

func mustRegisterResponse(t responseType, factory func() response) {
	if _, ok := responseTypeRegistry[t]; ok {
		panic("response type already registered: " + t.String())
	}
	responseTypeRegistry[t] = factory
}

func init() {
	mustRegisterResponse(responseTypeSingleSelect, func() response { return &singleSelectResponse{} })
	mustRegisterResponse(responseTypeMultiSelect, func() response { return &multiSelectResponse{} })
	mustRegisterResponse(responseTypeFreeText, func() response { return &freeTextResponse{} })
	mustRegisterResponse(responseTypeNumber, func() response { return &numberResponse{} })
	mustRegisterResponse(responseTypeFile, func() response { return &fileResponse{} })
}

// getResponse builds a typed response from a client payload based on its
// type tag.
func getResponse(data dataMap) (response, error) {
	if err := data.requiredKeys("response", "type"); err != nil {
		return nil, errors.Trace(err)
	}
	t := responseType(data.mustGetString("type"))
	factory, ok := responseTypeRegistry[t]
	if !ok {
		return nil, errors.Errorf("unsupported response type %q", t)
	}
	r := factory()
	if err := r.unmarshalMapFromClient(data); err != nil {
		return nil, errors.Trace(err)
	}
	return r, nil
}

// responseTypeOf returns the registered type tag for a response value.
func responseTypeOf(r response) responseType {
	switch r.(type) {
	case *singleSelectResponse:
		return responseTypeSingleSelect
	case *multiSelectResponse:
		return responseTypeMultiSelect
	case *freeTextResponse:
		return responseTypeFreeText
	case *numberResponse:
		return responseTypeNumber
	case *fileResponse:
		return responseTypeFile
	}
	return ""
}

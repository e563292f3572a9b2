package engine

import (
	"fmt"

	"github.com/junipermd/storefront/libs/errors"
)

type questionType string

const (
	questionTypeRadio    questionType = "q_type_radio"
	questionTypeSelect   questionType = "q_type_select"
	questionTypeDropdown questionType = "q_type_dropdown"
	questionTypeCheckbox questionType = "q_type_checkbox"
	questionTypeFreeText questionType = "q_type_free_text"
	questionTypeNumber   questionType = "q_type_number"
	questionTypeFile     questionType = "q_type_file"
)

func (q questionType) String() string {
	return string(q)
}

// questionTypeToResponseType maps each supported question type to the
// response implementation it accepts. Radio, select and dropdown are
// presentation variants of the same single select behavior.
var questionTypeToResponseType = map[questionType]responseType{
	questionTypeRadio:    responseTypeSingleSelect,
	questionTypeSelect:   responseTypeSingleSelect,
	questionTypeDropdown: responseTypeSingleSelect,
	questionTypeCheckbox: responseTypeMultiSelect,
	questionTypeFreeText: responseTypeFreeText,
	questionTypeNumber:   responseTypeNumber,
	questionTypeFile:     responseTypeFile,
}

var errQuestionRequirement = &UserError{Msg: "Please answer the question to continue."}

// option represents one selectable answer for an option based question.
// IsCorrect is only meaningful when the owning question is graded.
type option struct {
	ID        string `json:"id"`
	Label     string `json:"label"`
	IsCorrect bool   `json:"is_correct"`
}

func populateOption(data dataMap) (*option, error) {
	if err := data.requiredKeys("potential_answer", "id", "label"); err != nil {
		return nil, errors.Trace(err)
	}
	return &option{
		ID:        data.mustGetString("id"),
		Label:     data.mustGetString("label"),
		IsCorrect: data.mustGetBool("is_correct"),
	}, nil
}

// question is server owned and immutable once loaded.
type question struct {
	ID               string       `json:"question_id"`
	Type             questionType `json:"type"`
	Title            string       `json:"question_title"`
	Subtitle         string       `json:"question_subtext"`
	Required         bool         `json:"required"`
	HasCorrectOption bool         `json:"has_correct_option"`
	Options          []*option    `json:"potential_answers"`
}

func populateQuestion(data dataMap) (*question, error) {
	if err := data.requiredKeys("question", "question_id", "type", "question_title"); err != nil {
		return nil, errors.Trace(err)
	}

	q := &question{
		ID:               data.mustGetString("question_id"),
		Type:             questionType(data.mustGetString("type")),
		Title:            data.mustGetString("question_title"),
		Subtitle:         data.mustGetString("question_subtext"),
		Required:         data.mustGetBool("required"),
		HasCorrectOption: data.mustGetBool("has_correct_option"),
	}

	if _, ok := questionTypeToResponseType[q.Type]; !ok {
		return nil, errors.Errorf("unsupported question type %q for question %s", q.Type, q.ID)
	}

	options, err := data.getInterfaceSlice("potential_answers")
	if err != nil {
		return nil, errors.Trace(err)
	}
	q.Options = make([]*option, len(options))
	for i, optionVal := range options {
		optionMap, err := getDataMap(optionVal)
		if err != nil {
			return nil, errors.Trace(err)
		}
		q.Options[i], err = populateOption(optionMap)
		if err != nil {
			return nil, errors.Trace(err)
		}
	}

	if q.optionBased() && len(q.Options) == 0 {
		return nil, errors.Errorf("question %s of type %s has no potential answers", q.ID, q.Type)
	}

	return q, nil
}

// optionBased reports whether responses to the question reference options.
func (q *question) optionBased() bool {
	switch q.Type {
	case questionTypeRadio, questionTypeSelect, questionTypeDropdown, questionTypeCheckbox:
		return true
	}
	return false
}

// option returns the option with the given id, or nil.
func (q *question) option(id string) *option {
	for _, o := range q.Options {
		if o.ID == id {
			return o
		}
	}
	return nil
}

func (q *question) stringIndent(indent string, depth int) string {
	return fmt.Sprintf("%s%s: %s\n%sQ: %s", indentAtDepth(indent, depth), q.ID, q.Type, indentAtDepth(indent, depth+1), q.Title)
}

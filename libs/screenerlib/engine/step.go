package engine

import "fmt"

// StepType identifies a screen in the flattened execution plan.
type StepType int

const (
	StepTypeIntro StepType = iota
	StepTypeGeneralQuestion
	StepTypeTransition
	StepTypeProductIntro
	StepTypeProductQuestion
	StepTypeProductResult
	StepTypeFinalResults

	// StepTypeGeneralIneligible and StepTypeOverallIneligible are terminal
	// states. They never appear in a plan; CurrentStep reports them when the
	// run has been routed to a disqualification screen.
	StepTypeGeneralIneligible
	StepTypeOverallIneligible
)

var stepTypeNames = map[StepType]string{
	StepTypeIntro:             "intro",
	StepTypeGeneralQuestion:   "general_question",
	StepTypeTransition:        "transition",
	StepTypeProductIntro:      "product_intro",
	StepTypeProductQuestion:   "product_question",
	StepTypeProductResult:     "product_result",
	StepTypeFinalResults:      "final_results",
	StepTypeGeneralIneligible: "general_ineligible",
	StepTypeOverallIneligible: "overall_ineligible",
}

func (t StepType) String() string {
	if s := stepTypeNames[t]; s != "" {
		return s
	}
	return fmt.Sprintf("step_type_%d", int(t))
}

// Step is a single entry in the execution plan. Product indexes into the
// question set's product sections and Question into the owning group's
// question list; both are -1 when not applicable to the step type.
type Step struct {
	Type     StepType
	Product  int
	Question int
}

func (s Step) String() string {
	switch s.Type {
	case StepTypeGeneralQuestion:
		return fmt.Sprintf("%s[%d]", s.Type, s.Question)
	case StepTypeProductIntro, StepTypeProductResult:
		return fmt.Sprintf("%s[p%d]", s.Type, s.Product)
	case StepTypeProductQuestion:
		return fmt.Sprintf("%s[p%d,q%d]", s.Type, s.Product, s.Question)
	}
	return s.Type.String()
}

// isQuestionStep reports whether the step carries a question that must be
// validated before the run can move past it.
func (s Step) isQuestionStep() bool {
	return s.Type == StepTypeGeneralQuestion || s.Type == StepTypeProductQuestion
}

const (
	// stepIndexGeneralIneligible is the sentinel index for a run terminated
	// by an incorrect answer to a general question.
	stepIndexGeneralIneligible = -2

	// stepIndexOverallIneligible is the sentinel index for a completed run
	// where no product section ended eligible.
	stepIndexOverallIneligible = -3
)

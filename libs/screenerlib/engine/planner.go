package engine

// buildPlan flattens a question set into the ordered list of screens a run
// walks through. The plan is deterministic for a given set: navigation code
// relies on this to locate steps by scanning for specific variants.
//
// Shape: Intro, one GeneralQuestion per general question, a Transition when
// any product section exists, then per section an intro, its questions and a
// result screen, and a FinalResults summary when there is more than one
// section to summarize.
func buildPlan(set *questionSet) []Step {
	n := 1 + len(set.General)
	for _, se := range set.Products {
		n += 2 + len(se.Questions)
	}
	plan := make([]Step, 0, n+2)

	plan = append(plan, Step{Type: StepTypeIntro, Product: -1, Question: -1})
	for i := range set.General {
		plan = append(plan, Step{Type: StepTypeGeneralQuestion, Product: -1, Question: i})
	}
	if len(set.Products) > 0 {
		plan = append(plan, Step{Type: StepTypeTransition, Product: -1, Question: -1})
	}
	for p, se := range set.Products {
		plan = append(plan, Step{Type: StepTypeProductIntro, Product: p, Question: -1})
		for q := range se.Questions {
			plan = append(plan, Step{Type: StepTypeProductQuestion, Product: p, Question: q})
		}
		plan = append(plan, Step{Type: StepTypeProductResult, Product: p, Question: -1})
	}
	if len(set.Products) > 1 {
		plan = append(plan, Step{Type: StepTypeFinalResults, Product: -1, Question: -1})
	}

	return plan
}

// firstStepIndex returns the index of the first step of the given type, or
// -1 if the plan has none.
func firstStepIndex(plan []Step, t StepType) int {
	for i, st := range plan {
		if st.Type == t {
			return i
		}
	}
	return -1
}

// productStepIndex returns the index of the step of the given type belonging
// to the product, or -1.
func productStepIndex(plan []Step, t StepType, product int) int {
	for i, st := range plan {
		if st.Type == t && st.Product == product {
			return i
		}
	}
	return -1
}

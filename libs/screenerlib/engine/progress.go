package engine

// progressPercent derives a 0-100 completion percentage from a plan
// position. Question steps earn credit through the current question;
// structural steps carry the credit already earned and add none of their
// own. FinalResults always reads 100.
func progressPercent(stepIndex int, plan []Step, set *questionSet) int {
	total := set.totalQuestions()
	if total == 0 || len(plan) == 0 {
		return 0
	}
	if stepIndex < 0 {
		stepIndex = 0
	} else if stepIndex >= len(plan) {
		stepIndex = len(plan) - 1
	}

	var credit int
	st := plan[stepIndex]
	switch st.Type {
	case StepTypeIntro:
		credit = 0
	case StepTypeGeneralQuestion:
		credit = st.Question + 1
	case StepTypeTransition:
		credit = len(set.General)
	case StepTypeProductIntro:
		credit = len(set.General) + questionsBeforeProduct(set, st.Product)
	case StepTypeProductQuestion:
		credit = len(set.General) + questionsBeforeProduct(set, st.Product) + st.Question + 1
	case StepTypeProductResult:
		credit = len(set.General) + questionsBeforeProduct(set, st.Product) + len(set.Products[st.Product].Questions)
	case StepTypeFinalResults:
		credit = total
	}

	pct := credit * 100 / total
	if pct < 0 {
		pct = 0
	} else if pct > 100 {
		pct = 100
	}
	return pct
}

// questionsBeforeProduct counts the questions in all sections before the
// given one.
func questionsBeforeProduct(set *questionSet, product int) int {
	var n int
	for p := 0; p < product && p < len(set.Products); p++ {
		n += len(set.Products[p].Questions)
	}
	return n
}

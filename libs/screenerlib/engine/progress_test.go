package engine

import (
	"testing"

	"github.com/junipermd/storefront/libs/test"
)

func TestProgressPercent(t *testing.T) {
	set, err := parseQuestionSet([]byte(twoProductSet))
	test.OK(t, err)
	plan := buildPlan(set)

	// 4 questions total: g1, g2, a1, b1
	want := []int{
		0,   // intro
		25,  // g1
		50,  // g2
		50,  // transition
		50,  // product 0 intro
		75,  // a1
		75,  // product 0 result
		75,  // product 1 intro
		100, // b1
		100, // product 1 result
		100, // final results
	}
	test.Equals(t, len(want), len(plan))

	last := -1
	for i := range plan {
		pct := progressPercent(i, plan, set)
		test.Equals(t, want[i], pct)
		test.Assert(t, pct >= last, "progress went backwards at step %d", i)
		last = pct
	}
}

func TestProgressPercentClamps(t *testing.T) {
	set, err := parseQuestionSet([]byte(singleProductSet))
	test.OK(t, err)
	plan := buildPlan(set)

	test.Equals(t, 0, progressPercent(-5, plan, set))
	test.Equals(t, 100, progressPercent(len(plan)+5, plan, set))
}

func TestProgressPercentEmptySet(t *testing.T) {
	set, err := parseQuestionSet([]byte(`{}`))
	test.OK(t, err)
	plan := buildPlan(set)
	test.Equals(t, 0, progressPercent(0, plan, set))
}

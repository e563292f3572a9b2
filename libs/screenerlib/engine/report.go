package engine

// ResponseEntry is one answered question in a report group, with the
// flattened answer value.
type ResponseEntry struct {
	QuestionID string      `json:"questionId"`
	Answer     interface{} `json:"answer"`
}

// GeneralReport is the outcome of the general question block.
type GeneralReport struct {
	IsEligible bool            `json:"isEligible"`
	Responses  []ResponseEntry `json:"responses"`
}

// ProductReport is the outcome of a single product section.
type ProductReport struct {
	ProductID           string          `json:"productId"`
	ProductName         string          `json:"productName"`
	IsEligible          bool            `json:"isEligible"`
	Responses           []ResponseEntry `json:"responses"`
	IneligibilityReason *string         `json:"ineligibilityReason,omitempty"`
}

// ReportTotals summarizes the run.
type ReportTotals struct {
	TotalQuestions int    `json:"totalQuestions"`
	TotalAnswered  int    `json:"totalAnswered"`
	CompletedAt    string `json:"completedAt"`
}

// Report is the eligibility report handed to the checkout collaborator when
// a run completes.
type Report struct {
	General  GeneralReport    `json:"general"`
	Products []*ProductReport `json:"products"`
	Totals   ReportTotals     `json:"totals"`
}

// SubmissionAnswer is one entry of the flattened submission payload. File
// answers carry their uploaded URL, never the local file reference.
type SubmissionAnswer struct {
	QuestionID string      `json:"questionId"`
	Answer     interface{} `json:"answer"`
}

// responseEntries flattens the answered questions of a group in order.
func responseEntries(questions []*question, store *responseStore) []ResponseEntry {
	entries := make([]ResponseEntry, 0, len(questions))
	for _, q := range questions {
		r, ok := store.get(q.ID)
		if !ok || r.isEmpty() {
			continue
		}
		entries = append(entries, ResponseEntry{
			QuestionID: q.ID,
			Answer:     r.submissionValue(),
		})
	}
	return entries
}

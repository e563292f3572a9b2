package engine

// responseStore maps question ids to their responses. The engine is its
// single owner; entries are only removed by an explicit restart of the
// owning question group.
type responseStore struct {
	m map[string]response
}

func newResponseStore() *responseStore {
	return &responseStore{m: make(map[string]response)}
}

func (s *responseStore) get(questionID string) (response, bool) {
	r, ok := s.m[questionID]
	return r, ok
}

func (s *responseStore) set(r response) {
	s.m[r.questionID()] = r
}

func (s *responseStore) remove(questionIDs []string) {
	for _, id := range questionIDs {
		delete(s.m, id)
	}
}

// answered reports whether the question has a non empty response.
func (s *responseStore) answered(questionID string) bool {
	r, ok := s.m[questionID]
	return ok && !r.isEmpty()
}

func (s *responseStore) answeredCount(questions []*question) int {
	var n int
	for _, q := range questions {
		if s.answered(q.ID) {
			n++
		}
	}
	return n
}

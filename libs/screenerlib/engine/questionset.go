package engine

import (
	"bytes"
	"encoding/json"
	"sort"
	"strings"
	"unicode"

	"github.com/junipermd/storefront/libs/errors"
)

const generalQuestionsKey = "generalQuestions"

// productSection is the ordered set of questions specific to one purchasable
// product. Sections are immutable after load; eligibility lives in the
// engine's ledger, not here.
type productSection struct {
	ProductID   string
	ProductName string
	Questions   []*question
}

func (se *productSection) questionIDs() []string {
	ids := make([]string, len(se.Questions))
	for i, q := range se.Questions {
		ids[i] = q.ID
	}
	return ids
}

// questionSet is the parsed question-set input: the general block plus zero
// or more product sections.
type questionSet struct {
	General  []*question
	Products []*productSection

	// questionMap indexes every question in the set by id.
	questionMap map[string]*question
}

// parseQuestionSet parses the question-set mapping. The payload has a
// generalQuestions entry and zero or more "<productId>_<slug>" entries; the
// product id is the key's first segment and the display name is derived from
// the slug. Section keys are ordered lexicographically since json object
// order is not observable, keeping the resulting plan deterministic.
func parseQuestionSet(data []byte) (*questionSet, error) {
	var raw map[string]interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, errors.Annotate(err, "question set payload")
	}
	root := dataMap(raw)

	set := &questionSet{questionMap: make(map[string]*question)}

	if root.exists(generalQuestionsKey) {
		questions, err := populateQuestionList(root, generalQuestionsKey)
		if err != nil {
			return nil, errors.Trace(err)
		}
		set.General = questions
	}

	sectionKeys := make([]string, 0, len(raw))
	for key := range raw {
		if key == generalQuestionsKey || key == responsesKey {
			continue
		}
		sectionKeys = append(sectionKeys, key)
	}
	sort.Strings(sectionKeys)

	set.Products = make([]*productSection, 0, len(sectionKeys))
	for _, key := range sectionKeys {
		questions, err := populateQuestionList(root, key)
		if err != nil {
			return nil, errors.Trace(err)
		}
		productID, productName := splitSectionKey(key)
		set.Products = append(set.Products, &productSection{
			ProductID:   productID,
			ProductName: productName,
			Questions:   questions,
		})
	}

	for _, q := range set.General {
		set.questionMap[q.ID] = q
	}
	for _, se := range set.Products {
		for _, q := range se.Questions {
			set.questionMap[q.ID] = q
		}
	}

	return set, nil
}

func populateQuestionList(root dataMap, key string) ([]*question, error) {
	items, err := root.getInterfaceSlice(key)
	if err != nil {
		return nil, errors.Annotatef(err, "section=%q", key)
	}
	questions := make([]*question, len(items))
	for i, item := range items {
		questionMap, err := getDataMap(item)
		if err != nil {
			return nil, errors.Annotatef(err, "section=%q", key)
		}
		questions[i], err = populateQuestion(questionMap)
		if err != nil {
			return nil, errors.Trace(err)
		}
	}
	return questions, nil
}

// splitSectionKey derives the product id from the first segment of the key
// and the display name from the second, capitalized. A key with no slug uses
// the id itself for the name.
func splitSectionKey(key string) (string, string) {
	parts := strings.SplitN(key, "_", 2)
	if len(parts) == 2 && parts[1] != "" {
		return parts[0], capitalize(parts[1])
	}
	return key, capitalize(key)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}

// question returns the question with the given id from any group, or nil.
func (s *questionSet) question(id string) *question {
	return s.questionMap[id]
}

func (s *questionSet) totalQuestions() int {
	n := len(s.General)
	for _, se := range s.Products {
		n += len(se.Questions)
	}
	return n
}

func (s *questionSet) String() string {
	var b bytes.Buffer
	for _, q := range s.General {
		b.WriteString(q.stringIndent("  ", 0))
		b.WriteString("\n")
	}
	for _, se := range s.Products {
		b.WriteString(se.ProductName + " (" + se.ProductID + ")\n")
		for _, q := range se.Questions {
			b.WriteString(q.stringIndent("  ", 1))
			b.WriteString("\n")
		}
	}
	return b.String()
}

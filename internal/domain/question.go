package domain

// OptionItem is one selectable choice of a question.
type OptionItem struct {
	ID   string `json:"optId"`
	Text string `json:"value"`
}

// QuestionItem is a parsed multiple-choice question. Answers is always a
// subset of Options, sharing option ids.
type QuestionItem struct {
	ID      string       `json:"qid"`
	Text    string       `json:"question"`
	Options []OptionItem `json:"options"`
	Answers []OptionItem `json:"answers"`
}

// NewQuestionItem creates a question with no options or answers yet.
func NewQuestionItem(id, text string) *QuestionItem {
	return &QuestionItem{
		ID:      id,
		Text:    text,
		Options: []OptionItem{},
		Answers: []OptionItem{},
	}
}

// AddOption appends opt and records it as an answer when correct.
func (q *QuestionItem) AddOption(opt OptionItem, correct bool) {
	q.Options = append(q.Options, opt)
	if correct {
		q.Answers = append(q.Answers, opt)
	}
}

// IsMultiAnswer reports whether more than one option is marked correct.
func (q *QuestionItem) IsMultiAnswer() bool {
	return len(q.Answers) > 1
}

// QuestionMap maps question ids to questions and remembers insertion order.
type QuestionMap struct {
	order []string
	items map[string]*QuestionItem
}

func NewQuestionMap() *QuestionMap {
	return &QuestionMap{items: make(map[string]*QuestionItem)}
}

// Add inserts q. A question with an id already present replaces the old
// value but keeps its original position.
func (m *QuestionMap) Add(q *QuestionItem) {
	if _, ok := m.items[q.ID]; !ok {
		m.order = append(m.order, q.ID)
	}
	m.items[q.ID] = q
}

func (m *QuestionMap) Get(id string) (*QuestionItem, bool) {
	q, ok := m.items[id]
	return q, ok
}

func (m *QuestionMap) Len() int {
	return len(m.order)
}

// IDs returns question ids in source order.
func (m *QuestionMap) IDs() []string {
	return append([]string(nil), m.order...)
}

// Questions returns the questions in source order.
func (m *QuestionMap) Questions() []QuestionItem {
	out := make([]QuestionItem, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, *m.items[id])
	}
	return out
}

// Stats summarises questions that will upload without choices or grading.
type Stats struct {
	TotalQuestions     int      `json:"totalQuestions"`
	NoOptionsCount     int      `json:"noOfQuestionsWithNoOptions"`
	NoAnswerCount      int      `json:"noOfQuestionsWithNoAnswer"`
	NoOptionsQuestions []string `json:"qidOfQuestionsWithNoOptions"`
	NoAnswerQuestions  []string `json:"qidOfQuestionsWithNoAnswer"`
}

// ComputeStats reads m without modifying it.
func ComputeStats(m *QuestionMap) Stats {
	stats := Stats{
		TotalQuestions:     m.Len(),
		NoOptionsQuestions: []string{},
		NoAnswerQuestions:  []string{},
	}
	for _, id := range m.order {
		q := m.items[id]
		if len(q.Options) == 0 {
			stats.NoOptionsQuestions = append(stats.NoOptionsQuestions, id)
		}
		if len(q.Answers) == 0 {
			stats.NoAnswerQuestions = append(stats.NoAnswerQuestions, id)
		}
	}
	stats.NoOptionsCount = len(stats.NoOptionsQuestions)
	stats.NoAnswerCount = len(stats.NoAnswerQuestions)
	return stats
}

// HasWarnings is true when any question lacks options or answers.
func (s Stats) HasWarnings() bool {
	return s.NoOptionsCount > 0 || s.NoAnswerCount > 0
}

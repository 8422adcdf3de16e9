package payload

import (
	forms "google.golang.org/api/forms/v1"

	"quiz-forms/internal/domain"
)

// Choice question types of the forms API.
const (
	ChoiceRadio    = "RADIO"
	ChoiceCheckbox = "CHECKBOX"
)

// Options controls the rendering of question items.
type Options struct {
	PointValue    int64
	Shuffle       bool
	StripMarkdown bool
}

// Builder maps questions to forms API items. It holds no state besides
// its options and is safe to reuse.
type Builder struct {
	opts Options
}

func NewBuilder(opts Options) *Builder {
	return &Builder{opts: opts}
}

// BuildAll maps questions in order.
func (b *Builder) BuildAll(questions []domain.QuestionItem) []*forms.Item {
	items := make([]*forms.Item, 0, len(questions))
	for i := range questions {
		items = append(items, b.Build(&questions[i]))
	}
	return items
}

// Build maps one question. Questions with more than one answer become
// checkbox questions, all others radio questions. Items are never required.
func (b *Builder) Build(q *domain.QuestionItem) *forms.Item {
	choiceType := ChoiceRadio
	if q.IsMultiAnswer() {
		choiceType = ChoiceCheckbox
	}

	options := make([]*forms.Option, 0, len(q.Options))
	for _, opt := range q.Options {
		options = append(options, &forms.Option{Value: b.text(opt.Text)})
	}

	answers := make([]*forms.CorrectAnswer, 0, len(q.Answers))
	for _, ans := range q.Answers {
		answers = append(answers, &forms.CorrectAnswer{Value: b.text(ans.Text)})
	}

	return &forms.Item{
		Title: b.text(q.Text),
		QuestionItem: &forms.QuestionItem{
			Question: &forms.Question{
				Required:        false,
				ForceSendFields: []string{"Required"},
				Grading: &forms.Grading{
					PointValue: b.opts.PointValue,
					CorrectAnswers: &forms.CorrectAnswers{
						Answers: answers,
					},
				},
				ChoiceQuestion: &forms.ChoiceQuestion{
					Type:    choiceType,
					Shuffle: b.opts.Shuffle,
					Options: options,
				},
			},
		},
	}
}

func (b *Builder) text(s string) string {
	if !b.opts.StripMarkdown {
		return s
	}
	return PlainText(s)
}

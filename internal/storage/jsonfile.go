package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"quiz-forms/internal/domain"
)

const indent = "    "

// WriteJSON writes v into dir/name, creating dir if needed and replacing
// any previous file. It returns the written path.
func WriteJSON(dir, name string, v any) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create output dir %s: %w", dir, err)
	}

	data, err := json.MarshalIndent(v, "", indent)
	if err != nil {
		return "", fmt.Errorf("failed to encode %s: %w", name, err)
	}

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	return path, nil
}

// WriteQuestions stores the questions as a JSON array in source order.
func WriteQuestions(dir, name string, questions *domain.QuestionMap) (string, error) {
	return WriteJSON(dir, name, questions.Questions())
}

// ReadQuestions loads a file produced by WriteQuestions.
func ReadQuestions(path string) (*domain.QuestionMap, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, domain.NewSourceIOError(path, err)
	}

	var items []domain.QuestionItem
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}

	qm := domain.NewQuestionMap()
	for i := range items {
		q := items[i]
		if q.Options == nil {
			q.Options = []domain.OptionItem{}
		}
		if q.Answers == nil {
			q.Answers = []domain.OptionItem{}
		}
		qm.Add(&q)
	}
	return qm, nil
}

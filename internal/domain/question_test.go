package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQuestionMap_KeepsInsertionOrder(t *testing.T) {
	qm := NewQuestionMap()
	for _, id := range []string{"QID-c", "QID-a", "QID-b"} {
		qm.Add(NewQuestionItem(id, "text "+id))
	}
	qm.Add(NewQuestionItem("QID-a", "replaced"))

	assert.Equal(t, 3, qm.Len())
	assert.Equal(t, []string{"QID-c", "QID-a", "QID-b"}, qm.IDs())
	assert.Equal(t, "replaced", qm.Questions()[1].Text)

	_, ok := qm.Get("QID-missing")
	assert.False(t, ok)
}

func TestQuestionItem_AddOption(t *testing.T) {
	q := NewQuestionItem("QID-1", "Pick two")
	q.AddOption(OptionItem{ID: "OPT-1", Text: "A"}, true)
	q.AddOption(OptionItem{ID: "OPT-2", Text: "B"}, false)
	assert.False(t, q.IsMultiAnswer())

	q.AddOption(OptionItem{ID: "OPT-3", Text: "C"}, true)
	assert.True(t, q.IsMultiAnswer())
	assert.Equal(t, []OptionItem{{ID: "OPT-1", Text: "A"}, {ID: "OPT-3", Text: "C"}}, q.Answers)
}

func TestComputeStats(t *testing.T) {
	qm := NewQuestionMap()
	full := NewQuestionItem("QID-1", "full")
	full.AddOption(OptionItem{ID: "OPT-1", Text: "A"}, true)
	ungraded := NewQuestionItem("QID-2", "ungraded")
	ungraded.AddOption(OptionItem{ID: "OPT-2", Text: "B"}, false)
	qm.Add(full)
	qm.Add(ungraded)
	qm.Add(NewQuestionItem("QID-3", "empty"))

	stats := ComputeStats(qm)
	assert.Equal(t, 3, stats.TotalQuestions)
	assert.Equal(t, []string{"QID-3"}, stats.NoOptionsQuestions)
	assert.Equal(t, []string{"QID-2", "QID-3"}, stats.NoAnswerQuestions)
	assert.Equal(t, 1, stats.NoOptionsCount)
	assert.Equal(t, 2, stats.NoAnswerCount)
	assert.True(t, stats.HasWarnings())

	assert.False(t, ComputeStats(NewQuestionMap()).HasWarnings())
}

func TestHasCode(t *testing.T) {
	base := errors.New("connection reset")
	remote := NewRemoteAPIError("insert items", base)
	wrapped := fmt.Errorf("quiz Mock Quiz-1: %w", remote)

	assert.True(t, HasCode(wrapped, ErrRemoteAPI))
	assert.False(t, HasCode(wrapped, ErrAuth))
	assert.ErrorIs(t, wrapped, base)
	assert.Equal(t, "insert items: connection reset", remote.Error())

	nested := NewAuthError("token", NewSourceIOError("secrets/client.json", base))
	assert.True(t, HasCode(nested, ErrSourceIO))
	assert.False(t, HasCode(base, ErrAuth))
	assert.False(t, HasCode(nil, ErrAuth))
}

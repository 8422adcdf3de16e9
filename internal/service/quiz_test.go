package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	forms "google.golang.org/api/forms/v1"

	"quiz-forms/internal/domain"
	"quiz-forms/internal/payload"
)

func makeQuestions(n int) *domain.QuestionMap {
	qm := domain.NewQuestionMap()
	for i := 0; i < n; i++ {
		q := domain.NewQuestionItem(fmt.Sprintf("QID-%d", i), fmt.Sprintf("Question %d", i))
		q.AddOption(domain.OptionItem{ID: fmt.Sprintf("OPT-%d-a", i), Text: "yes"}, true)
		q.AddOption(domain.OptionItem{ID: fmt.Sprintf("OPT-%d-b", i), Text: "no"}, false)
		qm.Add(q)
	}
	return qm
}

func newTestQuizService(formsSvc domain.FormsService) *QuizService {
	uploader := NewBatchUploader(formsSvc, testUploadConfig(), zap.NewNop()).
		WithSleep(func(ctx context.Context, d time.Duration) error { return nil })
	builder := payload.NewBuilder(payload.Options{PointValue: 2, Shuffle: true})
	return NewQuizService(formsSvc, uploader, builder, 50, zap.NewNop())
}

func TestNaming_Title(t *testing.T) {
	n := Naming{TitlePrefix: "AWS-CCP CLF-02 Mock Quiz"}
	assert.Equal(t, "AWS-CCP CLF-02 Mock Quiz-1", n.Title(1))
	assert.Equal(t, "AWS-CCP CLF-02 Mock Quiz-12", n.Title(12))
}

func TestCreateQuizzes_ChunksQuestions(t *testing.T) {
	m := new(MockFormsService)
	naming := Naming{TitlePrefix: "Mock Quiz", Description: "practice"}

	for i, id := range []string{"form-1", "form-2", "form-3"} {
		title := naming.Title(i + 1)
		ref := &domain.FormRef{FormID: id, ResponderURI: "https://docs.google.com/forms/d/e/" + id + "/viewform"}
		if i == 2 {
			ref.ResponderURI = ""
		}
		m.On("CreateForm", mock.Anything, domain.FormInfo{Title: title, Description: "practice", DocumentTitle: title}).Return(ref, nil).Once()
		m.On("EnableQuiz", mock.Anything, id, "practice").Return(nil).Once()
	}

	var mu sync.Mutex
	itemsPerForm := map[string]int{}
	m.On("InsertItems", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			mu.Lock()
			defer mu.Unlock()
			itemsPerForm[args.String(1)] += len(args.Get(2).([]*forms.Item))
		}).
		Return(nil)

	details, err := newTestQuizService(m).CreateQuizzes(context.Background(), makeQuestions(120), naming)
	require.NoError(t, err)

	require.Len(t, details, 3)
	assert.Equal(t, "Mock Quiz-1", details[0].Title)
	assert.Equal(t, "form-1", details[0].FormID)
	assert.Equal(t, "https://docs.google.com/forms/d/e/form-1/viewform", details[0].ResponderURI)
	assert.Equal(t, domain.MissingResponderURI, details[2].ResponderURI)

	assert.Equal(t, map[string]int{"form-1": 50, "form-2": 50, "form-3": 20}, itemsPerForm)
	m.AssertNumberOfCalls(t, "InsertItems", 10+10+4)
	m.AssertExpectations(t)
}

func TestCreateQuizzes_MissingFormIDUsesSentinel(t *testing.T) {
	m := new(MockFormsService)
	m.On("CreateForm", mock.Anything, mock.Anything).Return(&domain.FormRef{}, nil).Once()
	m.On("EnableQuiz", mock.Anything, "", "").Return(nil).Once()
	m.On("InsertItems", mock.Anything, "", mock.Anything, mock.Anything).Return(nil)

	details, err := newTestQuizService(m).CreateQuizzes(context.Background(), makeQuestions(3), Naming{TitlePrefix: "Q"})
	require.NoError(t, err)
	require.Len(t, details, 1)
	assert.Equal(t, domain.MissingFormID, details[0].FormID)
	assert.Equal(t, domain.MissingResponderURI, details[0].ResponderURI)
}

func TestCreateQuizzes_CreateFailureKeepsCompletedQuizzes(t *testing.T) {
	m := new(MockFormsService)
	boom := errors.New("403 forbidden")

	m.On("CreateForm", mock.Anything, mock.MatchedBy(func(info domain.FormInfo) bool { return info.Title == "Mock Quiz-1" })).
		Return(&domain.FormRef{FormID: "form-1", ResponderURI: "uri-1"}, nil).Once()
	m.On("CreateForm", mock.Anything, mock.MatchedBy(func(info domain.FormInfo) bool { return info.Title == "Mock Quiz-2" })).
		Return(nil, boom).Once()
	m.On("EnableQuiz", mock.Anything, "form-1", "").Return(nil).Once()
	m.On("InsertItems", mock.Anything, "form-1", mock.Anything, mock.Anything).Return(nil)

	details, err := newTestQuizService(m).CreateQuizzes(context.Background(), makeQuestions(120), Naming{TitlePrefix: "Mock Quiz"})
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.True(t, domain.HasCode(err, domain.ErrRemoteAPI))
	assert.Contains(t, err.Error(), "Mock Quiz-2")

	require.Len(t, details, 1)
	assert.Equal(t, "form-1", details[0].FormID)
	m.AssertNotCalled(t, "CreateForm", mock.Anything, mock.MatchedBy(func(info domain.FormInfo) bool { return info.Title == "Mock Quiz-3" }))
}

func TestCreateQuizzes_EnableQuizFailureSkipsUpload(t *testing.T) {
	m := new(MockFormsService)
	m.On("CreateForm", mock.Anything, mock.Anything).Return(&domain.FormRef{FormID: "form-1"}, nil).Once()
	m.On("EnableQuiz", mock.Anything, "form-1", "").Return(errors.New("bad mask")).Once()

	details, err := newTestQuizService(m).CreateQuizzes(context.Background(), makeQuestions(5), Naming{TitlePrefix: "Mock Quiz"})
	require.Error(t, err)
	assert.True(t, domain.HasCode(err, domain.ErrRemoteAPI))
	assert.Empty(t, details)
	m.AssertNotCalled(t, "InsertItems", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

package service

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/stretchr/testify/mock"
	forms "google.golang.org/api/forms/v1"

	"quiz-forms/internal/domain"
)

// --- MockFormsService ---
type MockFormsService struct {
	mock.Mock
}

func (m *MockFormsService) CreateForm(ctx context.Context, info domain.FormInfo) (*domain.FormRef, error) {
	args := m.Called(ctx, info)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FormRef), args.Error(1)
}

func (m *MockFormsService) EnableQuiz(ctx context.Context, formID string, description string) error {
	args := m.Called(ctx, formID, description)
	return args.Error(0)
}

func (m *MockFormsService) InsertItems(ctx context.Context, formID string, items []*forms.Item, indices []int64) error {
	args := m.Called(ctx, formID, items, indices)
	return args.Error(0)
}

// insertCall is one recorded InsertItems call.
type insertCall struct {
	formID  string
	titles  []string
	indices []int64
}

// recordingForms records insert calls and tracks how many run at once.
type recordingForms struct {
	mu       sync.Mutex
	calls    []insertCall
	inFlight atomic.Int32
	peak     atomic.Int32
	hold     time.Duration
	failOn   func(titles []string) error
}

func (r *recordingForms) CreateForm(ctx context.Context, info domain.FormInfo) (*domain.FormRef, error) {
	return &domain.FormRef{FormID: "form-" + info.Title}, nil
}

func (r *recordingForms) EnableQuiz(ctx context.Context, formID string, description string) error {
	return nil
}

func (r *recordingForms) InsertItems(ctx context.Context, formID string, items []*forms.Item, indices []int64) error {
	n := r.inFlight.Add(1)
	defer r.inFlight.Add(-1)
	for {
		p := r.peak.Load()
		if n <= p || r.peak.CompareAndSwap(p, n) {
			break
		}
	}
	if r.hold > 0 {
		time.Sleep(r.hold)
	}

	titles := make([]string, 0, len(items))
	for _, it := range items {
		titles = append(titles, it.Title)
	}

	r.mu.Lock()
	r.calls = append(r.calls, insertCall{formID: formID, titles: titles, indices: indices})
	r.mu.Unlock()

	if r.failOn != nil {
		return r.failOn(titles)
	}
	return nil
}

func (r *recordingForms) recorded() []insertCall {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]insertCall(nil), r.calls...)
}

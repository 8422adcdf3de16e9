package domain

import (
	"context"

	forms "google.golang.org/api/forms/v1"
)

const (
	MissingFormID       = "No-formId"
	MissingResponderURI = "No-URI"
)

// FormInfo describes a quiz container to create.
type FormInfo struct {
	Title         string
	Description   string
	DocumentTitle string
}

// FormRef identifies a created container.
type FormRef struct {
	FormID       string
	ResponderURI string
}

// QuizDetail is the outcome of uploading one quiz chunk.
type QuizDetail struct {
	Title        string `json:"title"`
	FormID       string `json:"formId"`
	ResponderURI string `json:"responderUri"`
}

// FormsService is the remote quiz service.
type FormsService interface {
	CreateForm(ctx context.Context, info FormInfo) (*FormRef, error)
	// EnableQuiz switches grading on and applies the description, if any.
	EnableQuiz(ctx context.Context, formID string, description string) error
	// InsertItems creates items in one call. items[i] goes to indices[i].
	InsertItems(ctx context.Context, formID string, items []*forms.Item, indices []int64) error
}

package googleforms

import (
	"context"
	"fmt"
	"net/http"

	"go.uber.org/zap"
	forms "google.golang.org/api/forms/v1"
	"google.golang.org/api/option"

	"quiz-forms/internal/domain"
)

const quizModeMask = "quizSettings.isQuiz"

// GoogleFormsService implements domain.FormsService with the Forms REST API.
type GoogleFormsService struct {
	svc    *forms.Service
	logger *zap.Logger
}

// NewGoogleFormsService creates a client on top of an authorized HTTP client.
// Extra options are appended, e.g. option.WithEndpoint in tests.
func NewGoogleFormsService(ctx context.Context, httpClient *http.Client, logger *zap.Logger, opts ...option.ClientOption) (*GoogleFormsService, error) {
	if httpClient == nil {
		return nil, fmt.Errorf("http client cannot be nil for GoogleFormsService")
	}
	clientOpts := append([]option.ClientOption{option.WithHTTPClient(httpClient)}, opts...)
	svc, err := forms.NewService(ctx, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create forms service: %w", err)
	}
	return &GoogleFormsService{svc: svc, logger: logger}, nil
}

// CreateForm creates an empty form. The API only copies title and document
// title on creation; the description is applied by EnableQuiz.
func (s *GoogleFormsService) CreateForm(ctx context.Context, info domain.FormInfo) (*domain.FormRef, error) {
	form, err := s.svc.Forms.Create(&forms.Form{
		Info: &forms.Info{
			Title:         info.Title,
			DocumentTitle: info.DocumentTitle,
		},
	}).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("forms.create %q: %w", info.Title, err)
	}
	return &domain.FormRef{FormID: form.FormId, ResponderURI: form.ResponderUri}, nil
}

func (s *GoogleFormsService) EnableQuiz(ctx context.Context, formID string, description string) error {
	requests := []*forms.Request{
		{
			UpdateSettings: &forms.UpdateSettingsRequest{
				Settings: &forms.FormSettings{
					QuizSettings: &forms.QuizSettings{IsQuiz: true},
				},
				UpdateMask: quizModeMask,
			},
		},
	}
	if description != "" {
		requests = append(requests, &forms.Request{
			UpdateFormInfo: &forms.UpdateFormInfoRequest{
				Info:       &forms.Info{Description: description},
				UpdateMask: "description",
			},
		})
	}

	_, err := s.svc.Forms.BatchUpdate(formID, &forms.BatchUpdateFormRequest{Requests: requests}).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("forms.batchUpdate settings %s: %w", formID, err)
	}
	return nil
}

func (s *GoogleFormsService) InsertItems(ctx context.Context, formID string, items []*forms.Item, indices []int64) error {
	if len(items) != len(indices) {
		return fmt.Errorf("got %d items but %d indices", len(items), len(indices))
	}

	requests := make([]*forms.Request, 0, len(items))
	for i, item := range items {
		requests = append(requests, &forms.Request{
			CreateItem: &forms.CreateItemRequest{
				Item: item,
				Location: &forms.Location{
					Index:           indices[i],
					ForceSendFields: []string{"Index"},
				},
			},
		})
	}

	s.logger.Debug("Sending createItem requests", zap.String("form_id", formID), zap.Int("items", len(items)))
	_, err := s.svc.Forms.BatchUpdate(formID, &forms.BatchUpdateFormRequest{Requests: requests}).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("forms.batchUpdate createItem %s: %w", formID, err)
	}
	return nil
}

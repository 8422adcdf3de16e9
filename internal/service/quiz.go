package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"quiz-forms/internal/domain"
	"quiz-forms/internal/payload"
	"quiz-forms/internal/util"
)

// Naming controls the titles and description of generated quizzes.
type Naming struct {
	TitlePrefix string
	Description string
}

// Title returns the title of the n-th quiz, counting from 1.
func (n Naming) Title(index int) string {
	return fmt.Sprintf("%s-%d", n.TitlePrefix, index)
}

// QuizService splits a question bank into quizzes and uploads each one.
type QuizService struct {
	forms     domain.FormsService
	uploader  *BatchUploader
	builder   *payload.Builder
	chunkSize int
	logger    *zap.Logger
}

// NewQuizService creates a new instance of QuizService.
func NewQuizService(
	formsSvc domain.FormsService,
	uploader *BatchUploader,
	builder *payload.Builder,
	chunkSize int,
	logger *zap.Logger,
) *QuizService {
	return &QuizService{
		forms:     formsSvc,
		uploader:  uploader,
		builder:   builder,
		chunkSize: chunkSize,
		logger:    logger,
	}
}

// CreateQuizzes uploads questions as consecutive quizzes of at most
// chunkSize questions each. On failure it returns the quizzes completed so
// far together with the error; completed quizzes are left in place.
func (s *QuizService) CreateQuizzes(ctx context.Context, questions *domain.QuestionMap, naming Naming) ([]domain.QuizDetail, error) {
	chunks := util.Chunk(questions.Questions(), s.chunkSize)
	details := make([]domain.QuizDetail, 0, len(chunks))

	for i, chunk := range chunks {
		title := naming.Title(i + 1)
		detail, err := s.createQuiz(ctx, title, naming.Description, chunk)
		if err != nil {
			s.logger.Error("Failed to create quiz",
				zap.String("quiz", title),
				zap.Int("questions", len(chunk)),
				zap.Error(err),
			)
			return details, fmt.Errorf("quiz %s: %w", title, err)
		}
		details = append(details, *detail)
	}

	return details, nil
}

func (s *QuizService) createQuiz(ctx context.Context, title, description string, questions []domain.QuestionItem) (*domain.QuizDetail, error) {
	s.logger.Info("Creating Google Form", zap.String("quiz", title))

	ref, err := s.forms.CreateForm(ctx, domain.FormInfo{
		Title:         title,
		Description:   description,
		DocumentTitle: title,
	})
	if err != nil {
		return nil, domain.NewRemoteAPIError("create form", err)
	}

	detail := &domain.QuizDetail{
		Title:        title,
		FormID:       ref.FormID,
		ResponderURI: ref.ResponderURI,
	}
	if detail.FormID == "" {
		detail.FormID = domain.MissingFormID
	}
	if detail.ResponderURI == "" {
		detail.ResponderURI = domain.MissingResponderURI
	}
	s.logger.Info("Generated Google Form",
		zap.String("quiz", title),
		zap.String("form_id", detail.FormID),
		zap.String("responder_uri", detail.ResponderURI),
	)

	if err := s.forms.EnableQuiz(ctx, ref.FormID, description); err != nil {
		return nil, domain.NewRemoteAPIError("enable quiz mode", err)
	}
	s.logger.Debug("Updated form to a quiz", zap.String("quiz", title))

	items := s.builder.BuildAll(questions)
	if err := s.uploader.Upload(ctx, title, ref.FormID, items); err != nil {
		return nil, err
	}

	return detail, nil
}

package service

import (
	"context"

	"go.uber.org/zap"

	"quiz-forms/internal/config"
	"quiz-forms/internal/domain"
	"quiz-forms/internal/extractor"
	"quiz-forms/internal/storage"
)

// ExtractionService reads the question bank and persists the parsed model.
type ExtractionService struct {
	extractor *extractor.Extractor
	source    config.SourceConfig
	output    config.OutputConfig
	logger    *zap.Logger
}

func NewExtractionService(ex *extractor.Extractor, source config.SourceConfig, output config.OutputConfig, logger *zap.Logger) *ExtractionService {
	return &ExtractionService{extractor: ex, source: source, output: output, logger: logger}
}

// ExtractAndSave extracts the configured source and overwrites the
// questions output file with the result.
func (s *ExtractionService) ExtractAndSave(ctx context.Context) (*extractor.Result, error) {
	res, err := s.extractor.ExtractFile(ctx, s.source.Path)
	if err != nil {
		return nil, err
	}

	path, err := storage.WriteQuestions(s.output.Dir, s.output.QuestionsFile, res.Questions)
	if err != nil {
		return nil, err
	}
	s.logger.Info("File generated", zap.String("path", path), zap.Int("questions", res.Questions.Len()))
	return res, nil
}

// SaveQuizDetails writes the uploaded quizzes next to the questions file.
func (s *ExtractionService) SaveQuizDetails(details []domain.QuizDetail) (string, error) {
	return storage.WriteJSON(s.output.Dir, s.output.QuizzesFile, details)
}

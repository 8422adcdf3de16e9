package main

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"

	"quiz-forms/internal/config"
	"quiz-forms/internal/extractor"
	"quiz-forms/internal/logger"
	"quiz-forms/internal/service"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Initialize(cfg.Logger); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()
	log := logger.Get()

	extraction := service.NewExtractionService(extractor.NewExtractor(log), cfg.Source, cfg.Output, log)
	res, err := extraction.ExtractAndSave(context.Background())
	if err != nil {
		log.Fatal("Question extraction failed", zap.Error(err))
	}

	log.Info("Extraction completed",
		zap.Int("questions", res.Stats.TotalQuestions),
		zap.Int("without_options", res.Stats.NoOptionsCount),
		zap.Int("without_answers", res.Stats.NoAnswerCount),
	)
}

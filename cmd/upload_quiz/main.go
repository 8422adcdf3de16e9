package main

import (
	"context"
	"fmt" // For initial error printing before logger is up
	"os"
	"os/signal"

	"go.uber.org/zap"

	"quiz-forms/internal/adapter/googleforms"
	"quiz-forms/internal/auth"
	"quiz-forms/internal/config"
	"quiz-forms/internal/extractor"
	"quiz-forms/internal/logger"
	"quiz-forms/internal/payload"
	"quiz-forms/internal/service"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		// Logger is not initialized yet
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Initialize(cfg.Logger); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()
	log := logger.Get()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	extraction := service.NewExtractionService(extractor.NewExtractor(log), cfg.Source, cfg.Output, log)
	res, err := extraction.ExtractAndSave(ctx)
	if err != nil {
		log.Fatal("Question extraction failed", zap.Error(err))
	}

	httpClient, err := auth.NewAuthenticator(cfg.Auth, log).Client(ctx)
	if err != nil {
		log.Fatal("Authentication failed", zap.Error(err))
	}

	formsSvc, err := googleforms.NewGoogleFormsService(ctx, httpClient, log)
	if err != nil {
		log.Fatal("Failed to initialize forms client", zap.Error(err))
	}

	builder := payload.NewBuilder(payload.Options{
		PointValue:    cfg.Quiz.PointValue,
		Shuffle:       cfg.Quiz.Shuffle,
		StripMarkdown: cfg.Quiz.StripMarkdown,
	})
	uploader := service.NewBatchUploader(formsSvc, cfg.Upload, log)
	quizSvc := service.NewQuizService(formsSvc, uploader, builder, cfg.Quiz.ChunkSize, log)

	// Front matter in the source document wins over configured naming.
	naming := service.Naming{TitlePrefix: cfg.Quiz.TitlePrefix, Description: cfg.Quiz.Description}
	if res.Meta.Title != "" {
		naming.TitlePrefix = res.Meta.Title
	}
	if res.Meta.Description != "" {
		naming.Description = res.Meta.Description
	}

	log.Info("Generating quizzes", zap.Int("questions", res.Questions.Len()), zap.String("title_prefix", naming.TitlePrefix))
	details, uploadErr := quizSvc.CreateQuizzes(ctx, res.Questions, naming)

	if len(details) > 0 {
		path, err := extraction.SaveQuizDetails(details)
		if err != nil {
			log.Error("Failed to write quiz details", zap.Error(err))
		} else {
			log.Info("File generated", zap.String("path", path))
		}
	}
	for _, d := range details {
		log.Info("Generated quiz",
			zap.String("quiz", d.Title),
			zap.String("form_id", d.FormID),
			zap.String("responder_uri", d.ResponderURI),
		)
	}

	if uploadErr != nil {
		log.Fatal("Quiz upload failed", zap.Error(uploadErr))
	}
	log.Info("Quiz upload completed", zap.Int("quizzes", len(details)))
}

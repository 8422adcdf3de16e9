package extractor

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	"quiz-forms/internal/domain"
	"quiz-forms/internal/util"
)

const (
	questionIDPrefix = "QID-"
	optionIDPrefix   = "OPT-"
)

// IDFunc generates a unique id carrying the given prefix.
type IDFunc func(prefix string) string

// Result is everything read from one source document.
type Result struct {
	Meta      Metadata
	Questions *domain.QuestionMap
	Stats     domain.Stats
}

// Extractor turns a markdown question bank into a QuestionMap.
type Extractor struct {
	newID  IDFunc
	logger *zap.Logger
}

func NewExtractor(logger *zap.Logger) *Extractor {
	return &Extractor{newID: util.NewPrefixedID, logger: logger}
}

// WithIDFunc replaces the id generator, mainly for deterministic tests.
func (e *Extractor) WithIDFunc(fn IDFunc) *Extractor {
	e.newID = fn
	return e
}

// ExtractFile reads path top to bottom. An unreadable file is a
// SOURCE_IO_ERROR and nothing is extracted.
func (e *Extractor) ExtractFile(ctx context.Context, path string) (*Result, error) {
	e.logger.Info("Extracting questions from file", zap.String("path", path))

	f, err := os.Open(path)
	if err != nil {
		return nil, domain.NewSourceIOError(path, err)
	}
	defer f.Close()

	res, err := e.ExtractDocument(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("extract %s: %w", path, err)
	}
	return res, nil
}

// ExtractDocument reads optional front matter from r and then extracts the
// questions of the remaining lines.
func (e *Extractor) ExtractDocument(ctx context.Context, r io.Reader) (*Result, error) {
	meta, body, err := SplitFrontMatter(r)
	if err != nil {
		return nil, domain.NewError(domain.ErrSourceIO, "failed reading front matter", err)
	}

	questions, err := e.Extract(ctx, body)
	if err != nil {
		return nil, err
	}

	return &Result{
		Meta:      meta,
		Questions: questions,
		Stats:     e.report(questions),
	}, nil
}

// Extract consumes r line by line.
func (e *Extractor) Extract(ctx context.Context, r io.Reader) (*domain.QuestionMap, error) {
	p := newParser(e.newID)

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := p.feed(scanner.Text()); err != nil {
			return nil, err
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, domain.NewError(domain.ErrSourceIO, "failed reading source lines", err)
	}
	return p.questions, nil
}

func (e *Extractor) report(questions *domain.QuestionMap) domain.Stats {
	stats := domain.ComputeStats(questions)
	fields := []zap.Field{
		zap.Int("totalQuestions", stats.TotalQuestions),
		zap.Int("noOfQuestionsWithNoOptions", stats.NoOptionsCount),
		zap.Int("noOfQuestionsWithNoAnswer", stats.NoAnswerCount),
		zap.Strings("qidOfQuestionsWithNoOptions", stats.NoOptionsQuestions),
		zap.Strings("qidOfQuestionsWithNoAnswer", stats.NoAnswerQuestions),
	}
	if stats.HasWarnings() {
		e.logger.Warn("Question statistics: some questions are incomplete", fields...)
	} else {
		e.logger.Info("Question statistics", fields...)
	}
	return stats
}

// parser is a two-state machine. It starts with no active question; the
// first QuestionStart makes that question active and every later option
// line belongs to the most recent question.
type parser struct {
	newID     IDFunc
	questions *domain.QuestionMap
	current   *domain.QuestionItem
	lineNo    int
}

func newParser(newID IDFunc) *parser {
	return &parser{newID: newID, questions: domain.NewQuestionMap()}
}

func (p *parser) feed(raw string) error {
	p.lineNo++
	line := Classify(raw)

	switch line.Kind {
	case QuestionStart:
		q := domain.NewQuestionItem(p.newID(questionIDPrefix), line.Text)
		p.questions.Add(q)
		p.current = q
	case OptionLine:
		if p.current == nil {
			return domain.NewMalformedInputError(
				fmt.Sprintf("line %d: option %q appears before any question", p.lineNo, line.Text))
		}
		opt := domain.OptionItem{ID: p.newID(optionIDPrefix), Text: line.Text}
		p.current.AddOption(opt, line.Correct)
	}
	return nil
}

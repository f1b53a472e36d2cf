package exam

import (
	"context"
	"errors"
	"fmt"

	"medicquiz/internal/quiz"

	"go.uber.org/zap"
)

var (
	ErrDataIntegrity     = errors.New("data integrity error")
	ErrUnknownQuestion   = fmt.Errorf("%w: question missing from bank", ErrDataIntegrity)
	ErrUnknownSolution   = fmt.Errorf("%w: answer key missing", ErrDataIntegrity)
	ErrTestNotFound      = errors.New("test not found")
	ErrInvalidSubmission = errors.New("invalid submission")
)

// Score outcomes reported to the ScoreRecorder.
const (
	OutcomeScored        = "scored"
	OutcomeDataIntegrity = "data_integrity"
	OutcomeTestNotFound  = "test_not_found"
	OutcomeInvalid       = "invalid_submission"
)

type ScoreRecorder interface {
	RecordScore(outcome string)
}

type noopRecorder struct{}

func (noopRecorder) RecordScore(string) {}

type Service struct {
	catalog  *Catalog
	recorder ScoreRecorder
	log      *zap.Logger
}

func NewService(catalog *Catalog, recorder ScoreRecorder, log *zap.Logger) *Service {
	if recorder == nil {
		recorder = noopRecorder{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{catalog: catalog, recorder: recorder, log: log}
}

type TestSummary struct {
	Number    int                  `json:"number"`
	Questions map[quiz.Subject]int `json:"questions"`
}

type TestView struct {
	Number    int             `json:"number"`
	Questions []quiz.Question `json:"questions"`
}

func (s *Service) ListTests(ctx context.Context) ([]TestSummary, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	tests := s.catalog.Tests()
	out := make([]TestSummary, 0, len(tests))
	for _, t := range tests {
		counts := make(map[quiz.Subject]int, len(t.Questions))
		for subject, numbers := range t.Questions {
			counts[subject] = len(numbers)
		}
		out = append(out, TestSummary{Number: t.Number, Questions: counts})
	}
	return out, nil
}

func (s *Service) GetTest(ctx context.Context, number int) (*TestView, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	test, err := s.catalog.Test(number)
	if err != nil {
		return nil, err
	}
	questions, err := s.catalog.QuestionsForTest(test)
	if err != nil {
		s.log.Error("test references missing data", zap.Int("test", number), zap.Error(err))
		return nil, err
	}
	return &TestView{Number: number, Questions: questions}, nil
}

// Score scores the marked answers of one submission of test number.
func (s *Service) Score(ctx context.Context, number int, answers map[string][]string) (*quiz.TestResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	test, err := s.catalog.Test(number)
	if err != nil {
		s.recorder.RecordScore(OutcomeTestNotFound)
		return nil, err
	}
	submitted, err := ParseSubmission(answers)
	if err != nil {
		s.recorder.RecordScore(OutcomeInvalid)
		return nil, err
	}

	result, err := s.catalog.Score(test, submitted)
	if err != nil {
		s.recorder.RecordScore(OutcomeDataIntegrity)
		s.log.Error("scoring failed", zap.Int("test", number), zap.Error(err))
		return nil, err
	}
	s.recorder.RecordScore(OutcomeScored)
	s.log.Info("submission scored",
		zap.Int("test", number),
		zap.Int("score", result.Score),
		zap.Int("max_score", result.MaxScore),
	)
	return &result, nil
}

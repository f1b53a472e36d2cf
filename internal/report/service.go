package report

import (
	"context"
	"fmt"
	"sort"

	"medicquiz/internal/quiz"

	"go.uber.org/zap"
)

const DefaultExamLength = 80

type Kind string

const (
	KindAnswerCount     Kind = "answer_count"
	KindMissingQuestion Kind = "missing_question"
	KindTestSize        Kind = "test_size"
	KindSolutionSize    Kind = "solution_size"
)

// Warning is one advisory inconsistency. Fields that do not apply to the
// kind are zero.
type Warning struct {
	Kind     Kind         `json:"kind"`
	Test     int          `json:"test,omitempty"`
	Question int          `json:"question,omitempty"`
	Subject  quiz.Subject `json:"subject,omitempty"`
	Expected int          `json:"expected"`
	Actual   int          `json:"actual"`
	Message  string       `json:"message"`
}

type Report struct {
	QuestionsChecked int       `json:"questions_checked"`
	TestsChecked     int       `json:"tests_checked"`
	SolutionsChecked int       `json:"solutions_checked"`
	Warnings         []Warning `json:"warnings"`
}

func (r *Report) Merge(o Report) {
	r.QuestionsChecked += o.QuestionsChecked
	r.TestsChecked += o.TestsChecked
	r.SolutionsChecked += o.SolutionsChecked
	r.Warnings = append(r.Warnings, o.Warnings...)
}

func (r Report) Log(log *zap.Logger) {
	for _, w := range r.Warnings {
		log.Warn(w.Message,
			zap.String("kind", string(w.Kind)),
			zap.Int("test", w.Test),
			zap.Int("question", w.Question),
			zap.String("subject", w.Subject.String()),
			zap.Int("expected", w.Expected),
			zap.Int("actual", w.Actual),
		)
	}
}

// CheckQuestions verifies answer counts per question type and reports
// every gap in 1..max question number of each subject.
func CheckQuestions(questions []quiz.Question) Report {
	out := Report{QuestionsChecked: len(questions), Warnings: []Warning{}}

	sorted := append([]quiz.Question(nil), questions...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Key().Less(sorted[j].Key()) })

	present := map[quiz.QuestionKey]bool{}
	highest := map[quiz.Subject]int{}
	for _, q := range sorted {
		present[q.Key()] = true
		if q.Number > highest[q.Subject] {
			highest[q.Subject] = q.Number
		}
		if expected, actual := q.Type.ExpectedAnswers(), len(q.Answers); expected != actual {
			out.Warnings = append(out.Warnings, Warning{
				Kind:     KindAnswerCount,
				Question: q.Number,
				Subject:  q.Subject,
				Expected: expected,
				Actual:   actual,
				Message:  fmt.Sprintf("question %d of subject %s has %d answers (expected %d)", q.Number, q.Subject, actual, expected),
			})
		}
	}

	for _, subject := range quiz.Subjects() {
		for n := 1; n <= highest[subject]; n++ {
			if present[quiz.QuestionKey{Number: n, Subject: subject}] {
				continue
			}
			out.Warnings = append(out.Warnings, Warning{
				Kind:     KindMissingQuestion,
				Question: n,
				Subject:  subject,
				Expected: 1,
				Message:  fmt.Sprintf("missing question %d of subject %s", n, subject),
			})
		}
	}
	return out
}

// CheckTests verifies that every subject drawn by a test has examLength
// questions.
func CheckTests(tests []quiz.Test, examLength int) Report {
	out := Report{TestsChecked: len(tests), Warnings: []Warning{}}

	sorted := append([]quiz.Test(nil), tests...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Number < sorted[j].Number })

	for _, t := range sorted {
		for _, subject := range quiz.Subjects() {
			numbers, ok := t.Questions[subject]
			if !ok {
				continue
			}
			if len(numbers) == examLength {
				continue
			}
			out.Warnings = append(out.Warnings, Warning{
				Kind:     KindTestSize,
				Test:     t.Number,
				Subject:  subject,
				Expected: examLength,
				Actual:   len(numbers),
				Message:  fmt.Sprintf("test %d has %d questions from subject %s (expected %d)", t.Number, len(numbers), subject, examLength),
			})
		}
	}
	return out
}

// CheckSolutions verifies that every answer key marks between one and all
// of the answer letters.
func CheckSolutions(solutions []quiz.Solution) Report {
	out := Report{SolutionsChecked: len(solutions), Warnings: []Warning{}}
	limit := len(quiz.AnswerLetters)

	for _, s := range solutions {
		n := len(s.CorrectAnswers)
		if n >= 1 && n <= limit {
			continue
		}
		out.Warnings = append(out.Warnings, Warning{
			Kind:     KindSolutionSize,
			Question: s.QuestionNumber,
			Subject:  s.Subject,
			Expected: limit,
			Actual:   n,
			Message:  fmt.Sprintf("solution %d of subject %s has %d correct answers (expected 1 to %d)", s.QuestionNumber, s.Subject, n, limit),
		})
	}
	return out
}

// Source is the loaded catalog the service reports on.
type Source interface {
	Questions() []quiz.Question
	Tests() []quiz.Test
	Solutions() []quiz.Solution
}

type Service struct {
	source     Source
	examLength int
}

func NewService(source Source, examLength int) *Service {
	if examLength <= 0 {
		examLength = DefaultExamLength
	}
	return &Service{source: source, examLength: examLength}
}

// Summary runs every check over the loaded catalog.
func (s *Service) Summary(ctx context.Context) (Report, error) {
	if err := ctx.Err(); err != nil {
		return Report{}, err
	}
	out := CheckQuestions(s.source.Questions())
	out.Merge(CheckTests(s.source.Tests(), s.examLength))
	out.Merge(CheckSolutions(s.source.Solutions()))
	return out, nil
}

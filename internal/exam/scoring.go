package exam

import (
	"fmt"
	"sort"
	"strings"

	"medicquiz/internal/quiz"
)

const (
	pointsCorrect = 1
	pointsWrong   = -2
)

// ExpandTest resolves the question numbers of test against bank and returns
// working copies ordered by number, then subject. Questions without
// structured answers get placeholder answers so every question can be
// marked letter by letter.
func ExpandTest(test quiz.Test, bank *quiz.Set[quiz.Question]) ([]quiz.Question, error) {
	keys := test.Keys()
	out := make([]quiz.Question, 0, len(keys))
	for _, k := range keys {
		q, ok := bank.Get(k)
		if !ok {
			return nil, fmt.Errorf("%w: test %d references %s", ErrUnknownQuestion, test.Number, k)
		}
		out = append(out, withPlaceholders(q.Clone()))
	}
	return out, nil
}

func withPlaceholders(q quiz.Question) quiz.Question {
	if len(q.Answers) == 0 {
		for i := range quiz.AnswerLetters {
			letter := quiz.LetterAt(i)
			q.Answers = append(q.Answers, quiz.Answer{Letter: letter, Text: strings.ToUpper(letter)})
		}
	}
	quiz.SortAnswers(q.Answers)
	return q
}

// ScoreQuestions scores a submission over already expanded questions.
// Every answer letter counts on its own: a marked correct letter earns a
// point, a marked wrong letter costs two and every correct letter adds to
// the maximum. The total is floored at zero. Unanswered questions count as
// nothing marked. A question without an answer key fails the whole call.
func ScoreQuestions(questions []quiz.Question, key *quiz.Set[quiz.Solution], submitted []quiz.Solution) (quiz.TestResult, error) {
	ordered := append([]quiz.Question(nil), questions...)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].Key().Less(ordered[j].Key()) })

	marks := quiz.NewSet(submitted...)
	result := quiz.TestResult{Questions: make([]quiz.ScoredQuestion, 0, len(ordered))}
	total := 0

	for _, q := range ordered {
		expected, ok := key.Get(q.Key())
		if !ok {
			return quiz.TestResult{}, fmt.Errorf("%w: %s", ErrUnknownSolution, q.Key())
		}
		var marked quiz.LetterSet
		if sub, ok := marks.Get(q.Key()); ok {
			marked = sub.CorrectAnswers
		}

		scored, points, maxPoints := scoreQuestion(q, marked, expected.CorrectAnswers)
		total += points
		result.MaxScore += maxPoints
		result.Questions = append(result.Questions, scored)
	}

	if total > 0 {
		result.Score = total
	}
	return result, nil
}

func scoreQuestion(q quiz.Question, marked, correct quiz.LetterSet) (quiz.ScoredQuestion, int, int) {
	out := quiz.ScoredQuestion{
		Number:  q.Number,
		Subject: q.Subject,
		Text:    q.Text,
		Type:    q.Type,
		Answers: make([]quiz.ScoredAnswer, 0, len(q.Answers)),
	}
	points, maxPoints := 0, 0
	for _, a := range q.Answers {
		isMarked := marked.Contains(a.Letter)
		isCorrect := correct.Contains(a.Letter)
		if isCorrect {
			maxPoints++
		}
		switch {
		case isMarked && isCorrect:
			points += pointsCorrect
		case isMarked:
			points += pointsWrong
		}
		out.Answers = append(out.Answers, quiz.ScoredAnswer{Answer: a, Marked: isMarked, Correct: isCorrect})
	}
	return out, points, maxPoints
}

// Score expands test against bank and scores the submission.
func Score(test quiz.Test, bank *quiz.Set[quiz.Question], key *quiz.Set[quiz.Solution], submitted []quiz.Solution) (quiz.TestResult, error) {
	questions, err := ExpandTest(test, bank)
	if err != nil {
		return quiz.TestResult{}, err
	}
	return ScoreQuestions(questions, key, submitted)
}

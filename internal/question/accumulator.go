package question

import (
	"sort"

	"medicquiz/internal/quiz"
)

// Accumulator is the running result of a parse pass: the de-duplicated
// question bank and one Test per parsed document.
type Accumulator struct {
	questions *quiz.Set[quiz.Question]
	tests     map[int]quiz.Test
}

func NewAccumulator() *Accumulator {
	return &Accumulator{
		questions: quiz.NewSet[quiz.Question](),
		tests:     map[int]quiz.Test{},
	}
}

// Add merges one document's questions and its test. Questions already in
// the bank keep their first version.
func (a *Accumulator) Add(questions []quiz.Question, test quiz.Test) {
	for _, q := range questions {
		a.questions.Add(q)
	}
	a.tests[test.Number] = test
}

func (a *Accumulator) Questions() []quiz.Question {
	return a.questions.Sorted()
}

func (a *Accumulator) Tests() []quiz.Test {
	out := make([]quiz.Test, 0, len(a.tests))
	for _, t := range a.tests {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Number < out[j].Number })
	return out
}

func (a *Accumulator) Len() int {
	return a.questions.Len()
}

package exam

import (
	"context"
	"fmt"
	"sort"

	"medicquiz/internal/quiz"
)

// CatalogSource loads the persisted stores a catalog is built from.
type CatalogSource interface {
	LoadQuestions(ctx context.Context) []quiz.Question
	LoadTests(ctx context.Context) []quiz.Test
	LoadSolutions(ctx context.Context) []quiz.Solution
}

// Catalog is the in-memory snapshot of the question bank, the tests and
// the answer key. It is never modified after construction, so concurrent
// scoring calls can share it.
type Catalog struct {
	questions *quiz.Set[quiz.Question]
	key       *quiz.Set[quiz.Solution]
	tests     map[int]quiz.Test
	numbers   []int
}

func NewCatalog(questions []quiz.Question, tests []quiz.Test, solutions []quiz.Solution) *Catalog {
	c := &Catalog{
		questions: quiz.NewSet[quiz.Question](),
		key:       quiz.NewSet(solutions...),
		tests:     make(map[int]quiz.Test, len(tests)),
	}
	for _, q := range questions {
		q = q.Clone()
		quiz.SortAnswers(q.Answers)
		c.questions.Add(q)
	}
	for _, t := range tests {
		if _, ok := c.tests[t.Number]; ok {
			continue
		}
		c.tests[t.Number] = t
		c.numbers = append(c.numbers, t.Number)
	}
	sort.Ints(c.numbers)
	return c
}

func LoadCatalog(ctx context.Context, src CatalogSource) *Catalog {
	return NewCatalog(src.LoadQuestions(ctx), src.LoadTests(ctx), src.LoadSolutions(ctx))
}

// Questions returns copies of the bank ordered by key.
func (c *Catalog) Questions() []quiz.Question {
	items := c.questions.Sorted()
	for i := range items {
		items[i] = items[i].Clone()
	}
	return items
}

func (c *Catalog) Tests() []quiz.Test {
	out := make([]quiz.Test, 0, len(c.numbers))
	for _, n := range c.numbers {
		out = append(out, c.tests[n])
	}
	return out
}

func (c *Catalog) Solutions() []quiz.Solution {
	return c.key.Sorted()
}

func (c *Catalog) Test(number int) (quiz.Test, error) {
	t, ok := c.tests[number]
	if !ok {
		return quiz.Test{}, fmt.Errorf("%w: %d", ErrTestNotFound, number)
	}
	return t, nil
}

func (c *Catalog) QuestionsForTest(test quiz.Test) ([]quiz.Question, error) {
	return ExpandTest(test, c.questions)
}

func (c *Catalog) Score(test quiz.Test, submitted []quiz.Solution) (quiz.TestResult, error) {
	return Score(test, c.questions, c.key, submitted)
}

package exam

import (
	"testing"

	"medicquiz/internal/quiz"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func textQuestion(n int, subject quiz.Subject) quiz.Question {
	return quiz.Question{
		Number:  n,
		Subject: subject,
		Text:    "stem",
		Type:    quiz.TypeText,
		Answers: []quiz.Answer{{Letter: "d", Text: "D"}, {Letter: "a", Text: "A"}, {Letter: "c", Text: "C"}, {Letter: "b", Text: "B"}},
	}
}

func solution(n int, subject quiz.Subject, letters ...string) quiz.Solution {
	return quiz.Solution{QuestionNumber: n, Subject: subject, CorrectAnswers: quiz.NewLetterSet(letters...)}
}

func fixture() (quiz.Test, *quiz.Set[quiz.Question], *quiz.Set[quiz.Solution]) {
	test := quiz.Test{Number: 1, Questions: map[quiz.Subject][]int{
		quiz.Chemistry: {2, 1},
		quiz.Biology:   {1},
	}}
	bank := quiz.NewSet(
		textQuestion(2, quiz.Chemistry),
		textQuestion(1, quiz.Biology),
		textQuestion(1, quiz.Chemistry),
		textQuestion(9, quiz.Chemistry),
	)
	key := quiz.NewSet(
		solution(1, quiz.Chemistry, "a", "c"),
		solution(2, quiz.Chemistry, "b"),
		solution(1, quiz.Biology, "d"),
	)
	return test, bank, key
}

func TestScore_PerLetterDeltas(t *testing.T) {
	test, bank, key := fixture()

	tests := []struct {
		name      string
		submitted []quiz.Solution
		score     int
	}{
		{name: "one right one wrong", submitted: []quiz.Solution{solution(1, quiz.Chemistry, "a", "b"), solution(2, quiz.Chemistry, "b"), solution(1, quiz.Biology, "d")}, score: 1},
		{name: "all correct", submitted: []quiz.Solution{solution(1, quiz.Chemistry, "a", "c"), solution(2, quiz.Chemistry, "b"), solution(1, quiz.Biology, "d")}, score: 4},
		{name: "nothing submitted", submitted: nil, score: 0},
		{name: "floor at zero", submitted: []quiz.Solution{solution(1, quiz.Chemistry, "b", "d"), solution(2, quiz.Chemistry, "a")}, score: 0},
		{name: "negative question offset by others", submitted: []quiz.Solution{solution(1, quiz.Chemistry, "a", "c"), solution(2, quiz.Chemistry, "b", "c"), solution(1, quiz.Biology, "d")}, score: 2},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Score(test, bank, key, tc.submitted)
			require.NoError(t, err)
			assert.Equal(t, tc.score, got.Score)
			assert.Equal(t, 4, got.MaxScore)
		})
	}
}

func TestScore_AnnotatesCopiesInKeyOrder(t *testing.T) {
	test, bank, key := fixture()

	got, err := Score(test, bank, key, []quiz.Solution{solution(1, quiz.Chemistry, "a", "b")})
	require.NoError(t, err)

	require.Len(t, got.Questions, 3)
	assert.Equal(t, quiz.QuestionKey{Number: 1, Subject: quiz.Chemistry}, got.Questions[0].Key())
	assert.Equal(t, quiz.QuestionKey{Number: 1, Subject: quiz.Biology}, got.Questions[1].Key())
	assert.Equal(t, quiz.QuestionKey{Number: 2, Subject: quiz.Chemistry}, got.Questions[2].Key())

	assert.Equal(t, []quiz.ScoredAnswer{
		{Answer: quiz.Answer{Letter: "a", Text: "A"}, Marked: true, Correct: true},
		{Answer: quiz.Answer{Letter: "b", Text: "B"}, Marked: true, Correct: false},
		{Answer: quiz.Answer{Letter: "c", Text: "C"}, Marked: false, Correct: true},
		{Answer: quiz.Answer{Letter: "d", Text: "D"}, Marked: false, Correct: false},
	}, got.Questions[0].Answers)

	stored, ok := bank.Get(quiz.QuestionKey{Number: 1, Subject: quiz.Chemistry})
	require.True(t, ok)
	assert.Equal(t, "d", stored.Answers[0].Letter, "bank answers keep their order")
}

func TestScore_IsDeterministic(t *testing.T) {
	test, bank, key := fixture()
	submitted := []quiz.Solution{solution(1, quiz.Chemistry, "a", "b"), solution(1, quiz.Biology, "c")}

	first, err := Score(test, bank, key, submitted)
	require.NoError(t, err)
	second, err := Score(test, bank, key, submitted)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestScore_MaxScoreIgnoresSubmission(t *testing.T) {
	test, bank, key := fixture()
	for _, submitted := range [][]quiz.Solution{
		nil,
		{solution(1, quiz.Chemistry, "a", "b", "c", "d")},
		{solution(2, quiz.Chemistry, "b"), solution(1, quiz.Biology, "a")},
	} {
		got, err := Score(test, bank, key, submitted)
		require.NoError(t, err)
		assert.Equal(t, 4, got.MaxScore)
		assert.GreaterOrEqual(t, got.Score, 0)
	}
}

func TestScore_DataIntegrityErrors(t *testing.T) {
	_, bank, key := fixture()

	t.Run("question missing from bank", func(t *testing.T) {
		broken := quiz.Test{Number: 5, Questions: map[quiz.Subject][]int{quiz.Biology: {77}}}
		_, err := Score(broken, bank, key, nil)
		require.ErrorIs(t, err, ErrUnknownQuestion)
		require.ErrorIs(t, err, ErrDataIntegrity)
	})

	t.Run("answer key missing", func(t *testing.T) {
		withExtra := quiz.Test{Number: 1, Questions: map[quiz.Subject][]int{quiz.Chemistry: {1, 9}}}
		_, err := Score(withExtra, bank, key, nil)
		require.ErrorIs(t, err, ErrUnknownSolution)
		require.ErrorIs(t, err, ErrDataIntegrity)
	})
}

func TestExpandTest_PlaceholdersForImageQuestions(t *testing.T) {
	bank := quiz.NewSet(quiz.Question{Number: 3, Subject: quiz.Chemistry, Text: "img", Type: quiz.TypeImage})
	test := quiz.Test{Number: 1, Questions: map[quiz.Subject][]int{quiz.Chemistry: {3}}}

	got, err := ExpandTest(test, bank)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, []quiz.Answer{
		{Letter: "a", Text: "A"},
		{Letter: "b", Text: "B"},
		{Letter: "c", Text: "C"},
		{Letter: "d", Text: "D"},
	}, got[0].Answers)

	stored, _ := bank.Get(quiz.QuestionKey{Number: 3, Subject: quiz.Chemistry})
	assert.Empty(t, stored.Answers)
}

func TestParseSubmission(t *testing.T) {
	got, err := ParseSubmission(map[string][]string{
		"12-CHEMISTRY": {"a", "c"},
		"3-BIOLOGY":    {"bx", "", "b"},
		"token":        {"abc"},
	})
	require.NoError(t, err)
	assert.Equal(t, []quiz.Solution{
		solution(3, quiz.Biology, "b"),
		solution(12, quiz.Chemistry, "a", "c"),
	}, got)

	_, err = ParseSubmission(map[string][]string{"x-CHEMISTRY": {"a"}})
	require.ErrorIs(t, err, ErrInvalidSubmission)

	_, err = ParseSubmission(map[string][]string{"4-PHYSICS": {"a"}})
	require.ErrorIs(t, err, ErrInvalidSubmission)
}

func TestScoreQuestion_MixedMarks(t *testing.T) {
	q := withPlaceholders(textQuestion(12, quiz.Chemistry))
	_, points, maxPoints := scoreQuestion(q, quiz.NewLetterSet("a", "b"), quiz.NewLetterSet("a", "c"))
	assert.Equal(t, -1, points)
	assert.Equal(t, 2, maxPoints)

	_, points, maxPoints = scoreQuestion(q, nil, quiz.NewLetterSet("a", "c"))
	assert.Equal(t, 0, points)
	assert.Equal(t, 2, maxPoints)
}

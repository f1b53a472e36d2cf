package exam

import (
	"fmt"
	"sort"
	"strings"

	"medicquiz/internal/quiz"
)

// ParseSubmission turns form fields keyed "<number>-<SUBJECT>" into
// submitted solutions. Fields without a dash are not answers and are
// skipped; each marked value contributes its first character.
func ParseSubmission(answers map[string][]string) ([]quiz.Solution, error) {
	out := make([]quiz.Solution, 0, len(answers))
	for field, values := range answers {
		if !strings.Contains(field, "-") {
			continue
		}
		k, err := quiz.ParseQuestionKey(field)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidSubmission, err)
		}
		letters := make([]string, 0, len(values))
		for _, v := range values {
			v = strings.TrimSpace(v)
			if v == "" {
				continue
			}
			letters = append(letters, string([]rune(v)[0]))
		}
		out = append(out, quiz.Solution{
			QuestionNumber: k.Number,
			Subject:        k.Subject,
			CorrectAnswers: quiz.NewLetterSet(letters...),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key().Less(out[j].Key()) })
	return out, nil
}

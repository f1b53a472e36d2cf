package quiz

import "sort"

// Test is one exam instance: a draw of question numbers per subject.
type Test struct {
	Number    int               `json:"number" yaml:"number"`
	Questions map[Subject][]int `json:"questions" yaml:"questions"`
}

// NewTest groups the given questions by subject into sorted number sets.
func NewTest(number int, questions []Question) Test {
	grouped := make(map[Subject][]int)
	for _, q := range questions {
		grouped[q.Subject] = append(grouped[q.Subject], q.Number)
	}
	for subject, numbers := range grouped {
		grouped[subject] = uniqueSorted(numbers)
	}
	return Test{Number: number, Questions: grouped}
}

// Keys lists every question key referenced by the test, ordered by key.
func (t Test) Keys() []QuestionKey {
	keys := make([]QuestionKey, 0)
	for subject, numbers := range t.Questions {
		for _, n := range numbers {
			keys = append(keys, QuestionKey{Number: n, Subject: subject})
		}
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].Less(keys[j]) })
	return keys
}

func uniqueSorted(in []int) []int {
	seen := make(map[int]struct{}, len(in))
	out := make([]int, 0, len(in))
	for _, n := range in {
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	sort.Ints(out)
	return out
}

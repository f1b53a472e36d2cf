package quiz

import (
	"sort"
	"strings"
)

// AnswerLetters is the answer alphabet, in order.
const AnswerLetters = "abcd"

func IsAnswerLetter(r rune) bool {
	return strings.ContainsRune(AnswerLetters, r)
}

// LetterAt returns the i-th letter counted from 'a'.
func LetterAt(i int) string {
	return string(rune('a' + i))
}

type Answer struct {
	Letter string `json:"letter" yaml:"letter"`
	Text   string `json:"text" yaml:"text"`
}

func SortAnswers(answers []Answer) {
	sort.SliceStable(answers, func(i, j int) bool {
		return answers[i].Letter < answers[j].Letter
	})
}

// LetterSet is a sorted set of answer letters.
type LetterSet []string

func NewLetterSet(letters ...string) LetterSet {
	seen := make(map[string]struct{}, len(letters))
	out := make(LetterSet, 0, len(letters))
	for _, l := range letters {
		l = strings.ToLower(strings.TrimSpace(l))
		if l == "" {
			continue
		}
		if _, ok := seen[l]; ok {
			continue
		}
		seen[l] = struct{}{}
		out = append(out, l)
	}
	sort.Strings(out)
	return out
}

// LettersFromText keeps only the characters of v that belong to the answer
// alphabet.
func LettersFromText(v string) LetterSet {
	letters := make([]string, 0, len(v))
	for _, r := range v {
		if IsAnswerLetter(r) {
			letters = append(letters, string(r))
		}
	}
	return NewLetterSet(letters...)
}

func (s LetterSet) Contains(letter string) bool {
	i := sort.SearchStrings(s, letter)
	return i < len(s) && s[i] == letter
}

func (s LetterSet) String() string {
	return strings.Join(s, "")
}
